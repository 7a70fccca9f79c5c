package models

import (
	"time"

	"github.com/google/uuid"
)

// XPPerLevel is the amount of global XP required for one player level.
const XPPerLevel = 1000

// PlayerProfile is the global progression record of a user. One per user,
// created together with the identity and mutated only through AddXP.
type PlayerProfile struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	XP            int       `json:"xp" db:"xp"`
	Level         int       `json:"level" db:"level"`
	QuizzesPlayed int       `json:"quizzes_played" db:"quizzes_played"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// AddXP accrues experience for one completed quiz. Level is derived from
// total XP, one level per XPPerLevel. Calling it twice counts two quizzes;
// idempotency is the caller's concern.
func (p *PlayerProfile) AddXP(amount int) {
	p.XP += amount
	p.QuizzesPlayed++
	p.Level = p.XP/XPPerLevel + 1
}

// NewPlayerProfile returns a profile in its zero progression state.
func NewPlayerProfile(userID uuid.UUID) *PlayerProfile {
	return &PlayerProfile{
		UserID: userID,
		XP:     0,
		Level:  1,
	}
}
