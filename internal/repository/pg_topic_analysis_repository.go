package repository

import (
	"context"
	"errors"
	"time"

	"codequest-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ TopicAnalysisRepository = (*pgTopicAnalysisRepository)(nil)

type pgTopicAnalysisRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgTopicAnalysisRepository creates a new repository instance.
func NewPgTopicAnalysisRepository(pool *pgxpool.Pool, logger *zap.Logger) TopicAnalysisRepository {
	return &pgTopicAnalysisRepository{
		pool:   pool,
		logger: logger.Named("PgTopicAnalysisRepo"),
	}
}

const getTopicAnalysisQuery = `
SELECT topic, depth, data, created_at
FROM topic_analyses
WHERE topic = $1 AND depth = $2`

const createTopicAnalysisQuery = `
INSERT INTO topic_analyses (topic, depth, data, created_at)
VALUES ($1, $2, $3, $4)`

func (r *pgTopicAnalysisRepository) Get(ctx context.Context, topic string, depth models.Depth) (*models.TopicAnalysis, error) {
	analysis := &models.TopicAnalysis{}
	err := pgxscan.Get(ctx, r.pool, analysis, getTopicAnalysisQuery, topic, string(depth))
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get topic analysis", zap.String("topic", topic), zap.String("depth", string(depth)), zap.Error(err))
		return nil, err
	}
	return analysis, nil
}

func (r *pgTopicAnalysisRepository) Create(ctx context.Context, analysis *models.TopicAnalysis) error {
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, createTopicAnalysisQuery,
		analysis.Topic,
		string(analysis.Depth),
		analysis.Data,
		analysis.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on (topic, depth)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrAlreadyExists
		}
		r.logger.Error("Failed to create topic analysis", zap.String("topic", analysis.Topic), zap.String("depth", string(analysis.Depth)), zap.Error(err))
		return err
	}

	r.logger.Debug("Created topic analysis", zap.String("topic", analysis.Topic), zap.String("depth", string(analysis.Depth)))
	return nil
}
