package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tier is one rung of the mastery ladder. Ordinal, so the successor is
// simply Tier+1; never compare tiers by name.
type Tier int

const (
	TierIron Tier = iota
	TierBronze
	TierSilver
	TierGold
	TierPlatinum
)

// MaxMasteryLevel is the number of sub-levels inside each tier.
const MaxMasteryLevel = 10

var tierNames = [...]string{"iron", "bronze", "silver", "gold", "platinum"}

func (t Tier) String() string {
	if t < TierIron || t > TierPlatinum {
		return "unknown"
	}
	return tierNames[t]
}

// ParseTier maps a stored tier name back to its ordinal.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), nil
		}
	}
	return TierIron, fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, s)
}

// TopicMastery tracks per-topic progression, distinct from the global XP
// profile. Unique per (user, topic); created lazily on first engagement.
type TopicMastery struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Topic     string    `json:"topic" db:"topic"`
	Level     int       `json:"level" db:"level"`
	Tier      Tier      `json:"tier" db:"-"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewTopicMastery returns a mastery record at the bottom of the ladder.
func NewTopicMastery(userID uuid.UUID, topic string) *TopicMastery {
	return &TopicMastery{
		UserID: userID,
		Topic:  topic,
		Level:  1,
		Tier:   TierIron,
	}
}

// LevelUp advances the mastery one step along the fixed 10x5 ladder:
// levels 1..10 inside a tier, then the next tier at level 1. The walk is
// strictly linear, no skipping, no regression. Returns whether the state
// changed and a short event label for the client ("Level Up",
// "Tier Up: gold", "Maxed").
func (m *TopicMastery) LevelUp() (bool, string) {
	if m.Tier == TierPlatinum && m.Level == MaxMasteryLevel {
		return false, "Maxed"
	}

	if m.Level < MaxMasteryLevel {
		m.Level++
		return true, "Level Up"
	}

	m.Tier++
	m.Level = 1
	return true, fmt.Sprintf("Tier Up: %s", m.Tier)
}
