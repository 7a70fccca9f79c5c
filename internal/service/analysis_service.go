package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"codequest-server/internal/ai"
	"codequest-server/internal/models"
	"codequest-server/internal/repository"
	"codequest-server/internal/schemas"
	"codequest-server/internal/topic"

	"go.uber.org/zap"
)

// AnalysisService runs the cache-aside topic analysis pipeline: normalize
// the topic, look up the durable cache, and on a miss generate a fresh
// analysis with the depth-specific prompt, validate it and write it back.
type AnalysisService struct {
	cache    repository.TopicAnalysisRepository
	aiClient ai.Client
	logger   *zap.Logger
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(cache repository.TopicAnalysisRepository, aiClient ai.Client, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		cache:    cache,
		aiClient: aiClient,
		logger:   logger.Named("AnalysisService"),
	}
}

// AnalyzeTopic returns the analysis for (topic, depth), serving from cache
// when possible. The boolean reports whether the result was cached.
// Failed generations are never written back, so transient AI errors do not
// poison the cache.
func (s *AnalysisService) AnalyzeTopic(ctx context.Context, rawTopic string, depth models.Depth) (*models.TopicAnalysis, bool, error) {
	trimmed := strings.TrimSpace(rawTopic)
	if trimmed == "" {
		return nil, false, fmt.Errorf("%w: topic is empty", models.ErrInvalidTopic)
	}
	if utf8.RuneCountInString(trimmed) > topic.MaxTopicLength {
		return nil, false, fmt.Errorf("%w: topic exceeds %d characters", models.ErrInvalidTopic, topic.MaxTopicLength)
	}

	key := topic.Normalize(trimmed)
	// Unknown depths use the deep configuration; coercing here keeps the
	// cache keyed by the four real depths only, so "nonsense" and "deep"
	// share one entry instead of one row per arbitrary string.
	if !depth.IsKnown() {
		depth = models.DepthDeep
	}

	cached, err := s.cache.Get(ctx, key, depth)
	if err == nil {
		s.logger.Debug("Analysis cache hit", zap.String("topic", key), zap.String("depth", string(depth)))
		return cached, true, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	s.logger.Info("Analysis cache miss, generating", zap.String("topic", key), zap.String("depth", string(depth)))

	cfg := schemas.ForDepth(depth)
	raw, err := s.aiClient.GenerateStructured(ctx, cfg.SystemPrompt, schemas.AnalysisUserInput(key), cfg.Schema, schemas.AnalysisTemperature)
	if err != nil {
		return nil, false, err
	}

	// Entries are immutable once written, so only output that parses as a
	// non-empty object on its own is ever persisted. Anything else fails
	// hard; the quiz path has a repair cascade, this one does not.
	data := json.RawMessage(strings.TrimSpace(raw))
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil || len(shape) == 0 {
		s.logger.Warn("Analysis response is not a structured object",
			zap.String("topic", key), zap.String("depth", string(depth)))
		return nil, false, models.ErrMalformedAIResponse
	}

	analysis := &models.TopicAnalysis{
		Topic:     key,
		Depth:     depth,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.cache.Create(ctx, analysis); err != nil {
		// A concurrent request generated the same entry first. Any valid
		// generation is acceptable, so serve ours and move on.
		if errors.Is(err, models.ErrAlreadyExists) {
			s.logger.Debug("Analysis already cached by concurrent request", zap.String("topic", key))
			return analysis, false, nil
		}
		return nil, false, err
	}

	return analysis, false, nil
}
