package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"codequest-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnalysisService_AnalyzeTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("Cache hit returns stored entry without touching AI", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		stored := &models.TopicAnalysis{
			Topic: "docker",
			Depth: models.DepthDeep,
			Data:  json.RawMessage(`{"summary":"cached"}`),
		}
		cache.On("Get", ctx, "docker", models.DepthDeep).Return(stored, nil)

		analysis, cached, err := svc.AnalyzeTopic(ctx, "  Docker ", models.DepthDeep)
		require.NoError(t, err)
		assert.True(t, cached)
		assert.Equal(t, stored, analysis)
		aiClient.AssertNotCalled(t, "GenerateStructured")
	})

	t.Run("Cache miss generates, validates and persists", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		cache.On("Get", ctx, "docker", models.DepthInitial).Return(nil, models.ErrNotFound)
		aiClient.On("GenerateStructured", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(`{"summary":"fresh","key_concepts":[]}`, nil)
		cache.On("Create", ctx, mock.MatchedBy(func(a *models.TopicAnalysis) bool {
			return a.Topic == "docker" && a.Depth == models.DepthInitial
		})).Return(nil)

		analysis, cached, err := svc.AnalyzeTopic(ctx, "Docker", models.DepthInitial)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.JSONEq(t, `{"summary":"fresh","key_concepts":[]}`, string(analysis.Data))
		cache.AssertExpectations(t)
	})

	t.Run("Fenced output fails without repair", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		cache.On("Get", ctx, "kafka", models.DepthDeep).Return(nil, models.ErrNotFound)
		aiClient.On("GenerateStructured", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("```json\n{\"summary\":\"fenced\"}\n```", nil)

		_, _, err := svc.AnalyzeTopic(ctx, "kafka", models.DepthDeep)
		assert.ErrorIs(t, err, models.ErrMalformedAIResponse)
		cache.AssertNotCalled(t, "Create")
	})

	t.Run("Prose-wrapped array is rejected, not salvaged", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		cache.On("Get", ctx, "docker", models.DepthDeep).Return(nil, models.ErrNotFound)
		aiClient.On("GenerateStructured", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(`Here are the key points: ["isolation", "images", "volumes"]`, nil)

		_, _, err := svc.AnalyzeTopic(ctx, "docker", models.DepthDeep)
		assert.ErrorIs(t, err, models.ErrMalformedAIResponse)
		cache.AssertNotCalled(t, "Create")
	})

	t.Run("Unknown depth is stored as deep", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		cache.On("Get", ctx, "docker", models.DepthDeep).Return(nil, models.ErrNotFound)
		aiClient.On("GenerateStructured", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(`{"summary":"fallback"}`, nil)
		cache.On("Create", ctx, mock.MatchedBy(func(a *models.TopicAnalysis) bool {
			return a.Depth == models.DepthDeep && a.Depth.IsKnown()
		})).Return(nil)

		analysis, cached, err := svc.AnalyzeTopic(ctx, "docker", models.Depth("nonsense"))
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, models.DepthDeep, analysis.Depth)
		cache.AssertExpectations(t)
	})

	t.Run("Duplicate write from concurrent request is treated as success", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		cache.On("Get", ctx, "docker", models.DepthDeep).Return(nil, models.ErrNotFound)
		aiClient.On("GenerateStructured", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(`{"summary":"mine"}`, nil)
		cache.On("Create", ctx, mock.Anything).Return(models.ErrAlreadyExists)

		analysis, cached, err := svc.AnalyzeTopic(ctx, "docker", models.DepthDeep)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.JSONEq(t, `{"summary":"mine"}`, string(analysis.Data))
	})

	t.Run("Unparseable output is never cached", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		cache.On("Get", ctx, "docker", models.DepthDeep).Return(nil, models.ErrNotFound)
		aiClient.On("GenerateStructured", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("I cannot help with that.", nil)

		_, _, err := svc.AnalyzeTopic(ctx, "docker", models.DepthDeep)
		assert.ErrorIs(t, err, models.ErrMalformedAIResponse)
		cache.AssertNotCalled(t, "Create")
	})

	t.Run("Non-object output is rejected", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		cache.On("Get", ctx, "docker", models.DepthDeep).Return(nil, models.ErrNotFound)
		aiClient.On("GenerateStructured", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(`"just a string"`, nil)

		_, _, err := svc.AnalyzeTopic(ctx, "docker", models.DepthDeep)
		assert.ErrorIs(t, err, models.ErrMalformedAIResponse)
		cache.AssertNotCalled(t, "Create")
	})

	t.Run("Length limit counts runes, not bytes", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		// 51 accented letters are 102 bytes but well under the limit.
		accented := strings.Repeat("é", 51)
		stored := &models.TopicAnalysis{
			Topic: accented,
			Depth: models.DepthDeep,
			Data:  json.RawMessage(`{"summary":"cached"}`),
		}
		cache.On("Get", ctx, accented, models.DepthDeep).Return(stored, nil)

		_, cached, err := svc.AnalyzeTopic(ctx, accented, models.DepthDeep)
		require.NoError(t, err)
		assert.True(t, cached)
	})

	t.Run("Empty topic is rejected before any lookup", func(t *testing.T) {
		cache := new(MockTopicAnalysisRepo)
		aiClient := new(MockAIClient)
		svc := NewAnalysisService(cache, aiClient, zap.NewNop())

		_, _, err := svc.AnalyzeTopic(ctx, "   ", models.DepthDeep)
		assert.ErrorIs(t, err, models.ErrInvalidTopic)
		cache.AssertNotCalled(t, "Get")
	})
}
