package repository

import (
	"context"
	"encoding/json"
	"time"

	"codequest-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var _ UserJourneyRepository = (*pgUserJourneyRepository)(nil)

type pgUserJourneyRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgUserJourneyRepository creates a new repository instance.
func NewPgUserJourneyRepository(pool *pgxpool.Pool, logger *zap.Logger) UserJourneyRepository {
	return &pgUserJourneyRepository{
		pool:   pool,
		logger: logger.Named("PgUserJourneyRepo"),
	}
}

// userJourneyRow mirrors the table; completed levels live in a jsonb column.
type userJourneyRow struct {
	UserID            uuid.UUID       `db:"user_id"`
	CurrentWorldIndex int             `db:"current_world_index"`
	CurrentLevelIndex int             `db:"current_level_index"`
	CompletedLevels   json.RawMessage `db:"completed_levels"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func (row *userJourneyRow) toModel() (*models.UserJourney, error) {
	completed := []string{}
	if len(row.CompletedLevels) > 0 {
		if err := json.Unmarshal(row.CompletedLevels, &completed); err != nil {
			return nil, err
		}
	}
	return &models.UserJourney{
		UserID:            row.UserID,
		CurrentWorldIndex: row.CurrentWorldIndex,
		CurrentLevelIndex: row.CurrentLevelIndex,
		CompletedLevels:   completed,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

const upsertUserJourneyQuery = `
INSERT INTO user_journeys (user_id, current_world_index, current_level_index, completed_levels, updated_at)
VALUES ($1, 0, 0, '[]'::jsonb, now())
ON CONFLICT (user_id) DO NOTHING`

const getUserJourneyQuery = `
SELECT user_id, current_world_index, current_level_index, completed_levels, updated_at
FROM user_journeys
WHERE user_id = $1`

const getUserJourneyForUpdateQuery = getUserJourneyQuery + `
FOR UPDATE`

const updateUserJourneyQuery = `
UPDATE user_journeys
SET current_world_index = $2, current_level_index = $3, completed_levels = $4, updated_at = now()
WHERE user_id = $1
RETURNING updated_at`

func (r *pgUserJourneyRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserJourney, error) {
	if _, err := r.pool.Exec(ctx, upsertUserJourneyQuery, userID); err != nil {
		r.logger.Error("Failed to ensure user journey exists", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	row := &userJourneyRow{}
	if err := pgxscan.Get(ctx, r.pool, row, getUserJourneyQuery, userID); err != nil {
		r.logger.Error("Failed to get user journey", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return row.toModel()
}

// Mutate serializes concurrent completions for the same user by holding a
// row lock while fn runs. A level clear applied twice would double-advance
// the cursor, so the read-check-write must be one critical section.
func (r *pgUserJourneyRepository) Mutate(ctx context.Context, userID uuid.UUID, fn func(*models.UserJourney) error) (*models.UserJourney, error) {
	if _, err := r.pool.Exec(ctx, upsertUserJourneyQuery, userID); err != nil {
		r.logger.Error("Failed to ensure user journey exists", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := &userJourneyRow{}
	if err := pgxscan.Get(ctx, tx, row, getUserJourneyForUpdateQuery, userID); err != nil {
		r.logger.Error("Failed to lock user journey", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	journey, err := row.toModel()
	if err != nil {
		return nil, err
	}
	if err := fn(journey); err != nil {
		return nil, err
	}

	completed, err := json.Marshal(journey.CompletedLevels)
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx, updateUserJourneyQuery,
		userID, journey.CurrentWorldIndex, journey.CurrentLevelIndex, completed,
	).Scan(&journey.UpdatedAt); err != nil {
		r.logger.Error("Failed to update user journey", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit user journey update", zap.Error(err))
		return nil, err
	}
	return journey, nil
}
