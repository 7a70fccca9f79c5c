// Package repository defines the persistence interfaces the services
// depend on, with PostgreSQL and Redis implementations alongside.
package repository

import (
	"context"

	"codequest-server/internal/models"

	"github.com/google/uuid"
)

// TopicAnalysisRepository is the durable cache of AI topic analyses,
// keyed by (normalized topic, depth).
type TopicAnalysisRepository interface {
	// Get returns the cached entry or models.ErrNotFound.
	Get(ctx context.Context, topic string, depth models.Depth) (*models.TopicAnalysis, error)
	// Create inserts a new entry. A concurrent insert for the same key
	// surfaces as models.ErrAlreadyExists; entries are never updated.
	Create(ctx context.Context, analysis *models.TopicAnalysis) error
}

// PlayerProfileRepository owns the global XP records.
type PlayerProfileRepository interface {
	// GetOrCreate returns the profile, inserting the zero state first if
	// the user has none yet.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerProfile, error)
	// AddXP atomically applies one quiz completion: xp += amount,
	// quizzes_played += 1, level recomputed. Returns the updated profile.
	AddXP(ctx context.Context, userID uuid.UUID, amount int) (*models.PlayerProfile, error)
	// Top returns the highest-XP profiles for the leaderboard fallback.
	Top(ctx context.Context, limit int) ([]models.PlayerProfile, error)
}

// TopicMasteryRepository owns the per-topic progression records.
type TopicMasteryRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID, topic string) (*models.TopicMastery, error)
	// Mutate loads the row under a row lock, applies fn and writes the
	// result back in one transaction, serializing concurrent level-ups.
	Mutate(ctx context.Context, userID uuid.UUID, topic string, fn func(*models.TopicMastery) error) (*models.TopicMastery, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TopicMastery, error)
}

// UserJourneyRepository owns the per-user curriculum position.
type UserJourneyRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserJourney, error)
	// Mutate loads the journey under a row lock, applies fn and writes
	// the result back in one transaction.
	Mutate(ctx context.Context, userID uuid.UUID, fn func(*models.UserJourney) error) (*models.UserJourney, error)
}

// TutorInteractionRepository stores the chat history with the tutor.
type TutorInteractionRepository interface {
	Create(ctx context.Context, interaction *models.TutorInteraction) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.TutorInteraction, error)
}

// LeaderboardEntry is one row of the global XP ranking.
type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	XP     int       `json:"xp"`
	Rank   int64     `json:"rank"`
}

// LeaderboardRepository mirrors player XP into a ranking structure.
type LeaderboardRepository interface {
	// SetScore records the player's current total XP.
	SetScore(ctx context.Context, userID uuid.UUID, xp int) error
	// Top returns the best-ranked entries, highest XP first.
	Top(ctx context.Context, limit int64) ([]LeaderboardEntry, error)
}
