package models

import (
	"encoding/json"
	"time"
)

// Depth is the requested level of detail for a topic analysis. Closed set;
// anything else falls back to DepthDeep when the prompt is selected.
type Depth string

const (
	DepthInitial         Depth = "initial"
	DepthDeep            Depth = "deep"
	DepthPatterns        Depth = "patterns"
	DepthTroubleshooting Depth = "troubleshooting"
)

// IsKnown reports whether the depth is one of the four defined kinds.
func (d Depth) IsKnown() bool {
	switch d {
	case DepthInitial, DepthDeep, DepthPatterns, DepthTroubleshooting:
		return true
	}
	return false
}

// TopicAnalysis is one cached AI-generated analysis. The (Topic, Depth)
// pair is unique: Topic is stored already normalized, and the entry is
// created exactly once on a cache miss and never mutated afterwards.
type TopicAnalysis struct {
	Topic     string          `json:"topic" db:"topic"`
	Depth     Depth           `json:"depth" db:"depth"`
	Data      json.RawMessage `json:"data" db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
