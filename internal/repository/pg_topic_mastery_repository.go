package repository

import (
	"context"
	"time"

	"codequest-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var _ TopicMasteryRepository = (*pgTopicMasteryRepository)(nil)

type pgTopicMasteryRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgTopicMasteryRepository creates a new repository instance.
func NewPgTopicMasteryRepository(pool *pgxpool.Pool, logger *zap.Logger) TopicMasteryRepository {
	return &pgTopicMasteryRepository{
		pool:   pool,
		logger: logger.Named("PgTopicMasteryRepo"),
	}
}

// topicMasteryRow mirrors the table; the tier is stored by name.
type topicMasteryRow struct {
	UserID    uuid.UUID `db:"user_id"`
	Topic     string    `db:"topic"`
	Level     int       `db:"level"`
	Tier      string    `db:"tier"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row *topicMasteryRow) toModel() (*models.TopicMastery, error) {
	tier, err := models.ParseTier(row.Tier)
	if err != nil {
		return nil, err
	}
	return &models.TopicMastery{
		UserID:    row.UserID,
		Topic:     row.Topic,
		Level:     row.Level,
		Tier:      tier,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

const upsertTopicMasteryQuery = `
INSERT INTO topic_masteries (user_id, topic, level, tier, updated_at)
VALUES ($1, $2, 1, 'iron', now())
ON CONFLICT (user_id, topic) DO NOTHING`

const getTopicMasteryQuery = `
SELECT user_id, topic, level, tier, updated_at
FROM topic_masteries
WHERE user_id = $1 AND topic = $2`

const getTopicMasteryForUpdateQuery = getTopicMasteryQuery + `
FOR UPDATE`

const updateTopicMasteryQuery = `
UPDATE topic_masteries
SET level = $3, tier = $4, updated_at = now()
WHERE user_id = $1 AND topic = $2
RETURNING updated_at`

const listTopicMasteriesQuery = `
SELECT user_id, topic, level, tier, updated_at
FROM topic_masteries
WHERE user_id = $1
ORDER BY topic`

func (r *pgTopicMasteryRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, topic string) (*models.TopicMastery, error) {
	if _, err := r.pool.Exec(ctx, upsertTopicMasteryQuery, userID, topic); err != nil {
		r.logger.Error("Failed to ensure topic mastery exists", zap.Stringer("userID", userID), zap.String("topic", topic), zap.Error(err))
		return nil, err
	}

	row := &topicMasteryRow{}
	if err := pgxscan.Get(ctx, r.pool, row, getTopicMasteryQuery, userID, topic); err != nil {
		r.logger.Error("Failed to get topic mastery", zap.Stringer("userID", userID), zap.String("topic", topic), zap.Error(err))
		return nil, err
	}
	return row.toModel()
}

// Mutate serializes concurrent level-ups on the same (user, topic) row by
// holding a row lock while fn runs.
func (r *pgTopicMasteryRepository) Mutate(ctx context.Context, userID uuid.UUID, topic string, fn func(*models.TopicMastery) error) (*models.TopicMastery, error) {
	if _, err := r.pool.Exec(ctx, upsertTopicMasteryQuery, userID, topic); err != nil {
		r.logger.Error("Failed to ensure topic mastery exists", zap.Stringer("userID", userID), zap.String("topic", topic), zap.Error(err))
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := &topicMasteryRow{}
	if err := pgxscan.Get(ctx, tx, row, getTopicMasteryForUpdateQuery, userID, topic); err != nil {
		r.logger.Error("Failed to lock topic mastery", zap.Stringer("userID", userID), zap.String("topic", topic), zap.Error(err))
		return nil, err
	}

	mastery, err := row.toModel()
	if err != nil {
		return nil, err
	}
	if err := fn(mastery); err != nil {
		return nil, err
	}

	if err := tx.QueryRow(ctx, updateTopicMasteryQuery, userID, topic, mastery.Level, mastery.Tier.String()).Scan(&mastery.UpdatedAt); err != nil {
		r.logger.Error("Failed to update topic mastery", zap.Stringer("userID", userID), zap.String("topic", topic), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit topic mastery update", zap.Error(err))
		return nil, err
	}
	return mastery, nil
}

func (r *pgTopicMasteryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TopicMastery, error) {
	var rows []topicMasteryRow
	if err := pgxscan.Select(ctx, r.pool, &rows, listTopicMasteriesQuery, userID); err != nil {
		r.logger.Error("Failed to list topic masteries", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	masteries := make([]models.TopicMastery, 0, len(rows))
	for i := range rows {
		mastery, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		masteries = append(masteries, *mastery)
	}
	return masteries, nil
}
