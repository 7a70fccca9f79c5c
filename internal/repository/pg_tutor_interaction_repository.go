package repository

import (
	"context"
	"time"

	"codequest-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var _ TutorInteractionRepository = (*pgTutorInteractionRepository)(nil)

type pgTutorInteractionRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgTutorInteractionRepository creates a new repository instance.
func NewPgTutorInteractionRepository(pool *pgxpool.Pool, logger *zap.Logger) TutorInteractionRepository {
	return &pgTutorInteractionRepository{
		pool:   pool,
		logger: logger.Named("PgTutorInteractionRepo"),
	}
}

const createTutorInteractionQuery = `
INSERT INTO tutor_interactions (id, user_id, subject, question, answer, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const listTutorInteractionsQuery = `
SELECT id, user_id, subject, question, answer, created_at
FROM tutor_interactions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

func (r *pgTutorInteractionRepository) Create(ctx context.Context, interaction *models.TutorInteraction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, createTutorInteractionQuery,
		interaction.ID,
		interaction.UserID,
		interaction.Subject,
		interaction.Question,
		interaction.Answer,
		interaction.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create tutor interaction", zap.Stringer("userID", interaction.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgTutorInteractionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.TutorInteraction, error) {
	var interactions []models.TutorInteraction
	if err := pgxscan.Select(ctx, r.pool, &interactions, listTutorInteractionsQuery, userID, limit); err != nil {
		r.logger.Error("Failed to list tutor interactions", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return interactions, nil
}
