package repository

import (
	"context"

	"codequest-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var _ PlayerProfileRepository = (*pgPlayerProfileRepository)(nil)

type pgPlayerProfileRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgPlayerProfileRepository creates a new repository instance.
func NewPgPlayerProfileRepository(pool *pgxpool.Pool, logger *zap.Logger) PlayerProfileRepository {
	return &pgPlayerProfileRepository{
		pool:   pool,
		logger: logger.Named("PgPlayerProfileRepo"),
	}
}

const upsertPlayerProfileQuery = `
INSERT INTO player_profiles (user_id, xp, level, quizzes_played, updated_at)
VALUES ($1, 0, 1, 0, now())
ON CONFLICT (user_id) DO NOTHING`

const getPlayerProfileQuery = `
SELECT user_id, xp, level, quizzes_played, updated_at
FROM player_profiles
WHERE user_id = $1`

// addXPQuery applies one quiz completion in a single atomic update so
// concurrent submissions never lose increments. Level is derived from the
// new XP total, one level per 1000 XP.
const addXPQuery = `
UPDATE player_profiles
SET xp = xp + $2,
    quizzes_played = quizzes_played + 1,
    level = (xp + $2) / 1000 + 1,
    updated_at = now()
WHERE user_id = $1
RETURNING user_id, xp, level, quizzes_played, updated_at`

const topPlayerProfilesQuery = `
SELECT user_id, xp, level, quizzes_played, updated_at
FROM player_profiles
ORDER BY xp DESC
LIMIT $1`

func (r *pgPlayerProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerProfile, error) {
	if _, err := r.pool.Exec(ctx, upsertPlayerProfileQuery, userID); err != nil {
		r.logger.Error("Failed to ensure player profile exists", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	profile := &models.PlayerProfile{}
	if err := pgxscan.Get(ctx, r.pool, profile, getPlayerProfileQuery, userID); err != nil {
		r.logger.Error("Failed to get player profile", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

func (r *pgPlayerProfileRepository) AddXP(ctx context.Context, userID uuid.UUID, amount int) (*models.PlayerProfile, error) {
	// Make sure the row exists before the in-place update.
	if _, err := r.pool.Exec(ctx, upsertPlayerProfileQuery, userID); err != nil {
		r.logger.Error("Failed to ensure player profile exists", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	profile := &models.PlayerProfile{}
	if err := pgxscan.Get(ctx, r.pool, profile, addXPQuery, userID, amount); err != nil {
		r.logger.Error("Failed to add XP", zap.Stringer("userID", userID), zap.Int("amount", amount), zap.Error(err))
		return nil, err
	}

	r.logger.Debug("Added XP",
		zap.Stringer("userID", userID),
		zap.Int("amount", amount),
		zap.Int("totalXP", profile.XP),
		zap.Int("level", profile.Level))
	return profile, nil
}

func (r *pgPlayerProfileRepository) Top(ctx context.Context, limit int) ([]models.PlayerProfile, error) {
	var profiles []models.PlayerProfile
	if err := pgxscan.Select(ctx, r.pool, &profiles, topPlayerProfilesQuery, limit); err != nil {
		r.logger.Error("Failed to list top player profiles", zap.Error(err))
		return nil, err
	}
	return profiles, nil
}
