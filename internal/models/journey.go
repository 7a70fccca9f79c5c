package models

import (
	"time"

	"github.com/google/uuid"
)

// UserJourney is the per-user position in the static curriculum. One per
// user, created lazily on first access. CompletedLevels only ever grows.
type UserJourney struct {
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	CurrentWorldIndex int       `json:"current_world_index" db:"current_world_index"`
	CurrentLevelIndex int       `json:"current_level_index" db:"current_level_index"`
	CompletedLevels   []string  `json:"completed_levels" db:"-"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// NewUserJourney returns a journey positioned at the very first level.
func NewUserJourney(userID uuid.UUID) *UserJourney {
	return &UserJourney{
		UserID:          userID,
		CompletedLevels: []string{},
	}
}

// HasCompleted reports whether the level id was already cleared.
func (j *UserJourney) HasCompleted(levelID string) bool {
	for _, id := range j.CompletedLevels {
		if id == levelID {
			return true
		}
	}
	return false
}

// MarkCompleted appends the level id to the completed set and moves the
// cursor: a boss clear opens the next world, a normal clear advances
// within the current one. Callers must check HasCompleted first; this
// method assumes a first clear.
func (j *UserJourney) MarkCompleted(levelID string, isBoss bool) {
	j.CompletedLevels = append(j.CompletedLevels, levelID)
	if isBoss {
		j.CurrentWorldIndex++
		j.CurrentLevelIndex = 0
	} else {
		j.CurrentLevelIndex++
	}
}
