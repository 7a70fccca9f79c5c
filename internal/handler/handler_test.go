package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codequest-server/internal/ai"
	"codequest-server/internal/messaging"
	"codequest-server/internal/models"
	"codequest-server/internal/repository"
	"codequest-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handler-test-secret"

// stubAI returns a canned response for every call.
type stubAI struct {
	response string
	err      error
}

func (s *stubAI) GenerateText(context.Context, string, string, float32) (string, error) {
	return s.response, s.err
}

func (s *stubAI) GenerateStructured(context.Context, string, string, *ai.Schema, float32) (string, error) {
	return s.response, s.err
}

// In-memory repositories, enough to drive the routes end to end.

type memAnalysisRepo struct {
	entries map[string]*models.TopicAnalysis
}

func (r *memAnalysisRepo) Get(_ context.Context, topic string, depth models.Depth) (*models.TopicAnalysis, error) {
	if a, ok := r.entries[topic+"|"+string(depth)]; ok {
		return a, nil
	}
	return nil, models.ErrNotFound
}

func (r *memAnalysisRepo) Create(_ context.Context, a *models.TopicAnalysis) error {
	key := a.Topic + "|" + string(a.Depth)
	if _, ok := r.entries[key]; ok {
		return models.ErrAlreadyExists
	}
	r.entries[key] = a
	return nil
}

type memProfileRepo struct {
	profiles map[uuid.UUID]*models.PlayerProfile
}

func (r *memProfileRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (*models.PlayerProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	p := models.NewPlayerProfile(userID)
	r.profiles[userID] = p
	return p, nil
}

func (r *memProfileRepo) AddXP(ctx context.Context, userID uuid.UUID, amount int) (*models.PlayerProfile, error) {
	p, _ := r.GetOrCreate(ctx, userID)
	p.AddXP(amount)
	return p, nil
}

func (r *memProfileRepo) Top(_ context.Context, _ int) ([]models.PlayerProfile, error) {
	var out []models.PlayerProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

type memMasteryRepo struct {
	records map[string]*models.TopicMastery
}

func (r *memMasteryRepo) GetOrCreate(_ context.Context, userID uuid.UUID, topic string) (*models.TopicMastery, error) {
	key := userID.String() + "|" + topic
	if m, ok := r.records[key]; ok {
		return m, nil
	}
	m := models.NewTopicMastery(userID, topic)
	r.records[key] = m
	return m, nil
}

func (r *memMasteryRepo) Mutate(ctx context.Context, userID uuid.UUID, topic string, fn func(*models.TopicMastery) error) (*models.TopicMastery, error) {
	m, _ := r.GetOrCreate(ctx, userID, topic)
	if err := fn(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *memMasteryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.TopicMastery, error) {
	var out []models.TopicMastery
	for _, m := range r.records {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type memJourneyRepo struct {
	journeys map[uuid.UUID]*models.UserJourney
}

func (r *memJourneyRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (*models.UserJourney, error) {
	if j, ok := r.journeys[userID]; ok {
		return j, nil
	}
	j := models.NewUserJourney(userID)
	r.journeys[userID] = j
	return j, nil
}

func (r *memJourneyRepo) Mutate(ctx context.Context, userID uuid.UUID, fn func(*models.UserJourney) error) (*models.UserJourney, error) {
	j, _ := r.GetOrCreate(ctx, userID)
	if err := fn(j); err != nil {
		return nil, err
	}
	return j, nil
}

type memTutorRepo struct {
	interactions []models.TutorInteraction
}

func (r *memTutorRepo) Create(_ context.Context, i *models.TutorInteraction) error {
	r.interactions = append(r.interactions, *i)
	return nil
}

func (r *memTutorRepo) ListByUser(_ context.Context, userID uuid.UUID, _ int) ([]models.TutorInteraction, error) {
	var out []models.TutorInteraction
	for _, i := range r.interactions {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

type memLeaderboardRepo struct {
	scores map[uuid.UUID]int
}

func (r *memLeaderboardRepo) SetScore(_ context.Context, userID uuid.UUID, xp int) error {
	r.scores[userID] = xp
	return nil
}

func (r *memLeaderboardRepo) Top(_ context.Context, _ int64) ([]repository.LeaderboardEntry, error) {
	var out []repository.LeaderboardEntry
	rank := int64(1)
	for id, xp := range r.scores {
		out = append(out, repository.LeaderboardEntry{UserID: id, XP: xp, Rank: rank})
		rank++
	}
	return out, nil
}

const testQuizJSON = `{"questions":[{"id":1,"text":"q","options":["a","b","c","d"],` +
	`"correct_index":1,"feedback_correct":"yes","feedback_incorrect":"no","explanation":"e"}]}`

func newTestRouter(t *testing.T, aiClient ai.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	analysis := service.NewAnalysisService(&memAnalysisRepo{entries: map[string]*models.TopicAnalysis{}}, aiClient, logger)
	arena := service.NewArenaService(aiClient, logger)
	progression := service.NewProgressionService(
		&memProfileRepo{profiles: map[uuid.UUID]*models.PlayerProfile{}},
		&memMasteryRepo{records: map[string]*models.TopicMastery{}},
		&memLeaderboardRepo{scores: map[uuid.UUID]int{}},
		messaging.NopEventPublisher{},
		logger,
	)
	journey := service.NewJourneyService(&memJourneyRepo{journeys: map[uuid.UUID]*models.UserJourney{}}, arena, progression, messaging.NopEventPublisher{}, logger)
	tutor := service.NewTutorService(&memTutorRepo{}, aiClient, logger)

	h := New(analysis, arena, progression, journey, tutor, logger)
	return h.Router(testSecret, []string{"http://localhost:3000"})
}

func authHeader(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	userID := uuid.New()

	t.Run("Health check is public", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{response: testQuizJSON})
		w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("API routes require auth", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{response: testQuizJSON})
		w := doJSON(t, router, http.MethodGet, "/api/journey/map", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Quiz generation round trip", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{response: testQuizJSON})
		w := doJSON(t, router, http.MethodPost, "/api/arena/generate", authHeader(t, userID),
			gin.H{"topic": "docker", "difficulty": "easy"})
		require.Equal(t, http.StatusOK, w.Code)

		var quiz models.Quiz
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quiz))
		require.Len(t, quiz.Questions, 1)
	})

	t.Run("Invalid topic maps to 400", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{response: testQuizJSON})
		w := doJSON(t, router, http.MethodPost, "/api/arena/generate", authHeader(t, userID),
			gin.H{"topic": "visit localhost now"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AI not configured maps to 503", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{err: models.ErrAINotConfigured})
		w := doJSON(t, router, http.MethodPost, "/api/ai/analyze", authHeader(t, userID),
			gin.H{"topic": "docker", "depth": "deep"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Malformed AI output maps to 502", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{response: "no json here"})
		w := doJSON(t, router, http.MethodPost, "/api/arena/generate", authHeader(t, userID),
			gin.H{"topic": "docker"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("Answer validation", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{response: testQuizJSON})
		question := models.Question{
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 1,
		}
		w := doJSON(t, router, http.MethodPost, "/api/arena/answer", authHeader(t, userID),
			gin.H{"question": question, "answer_index": 1})
		require.Equal(t, http.StatusOK, w.Code)

		var review models.AnswerReview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
		assert.True(t, review.IsCorrect)
	})

	t.Run("Submit and journey flow", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{response: testQuizJSON})
		auth := authHeader(t, userID)

		w := doJSON(t, router, http.MethodPost, "/api/arena/submit", auth,
			gin.H{"topic": "docker", "correct_count": 3, "total_count": 3})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"xp_gained":150`)

		w = doJSON(t, router, http.MethodPost, "/api/journey/complete", auth,
			gin.H{"level_id": "w1_l1", "passed": true})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"first_clear":true`)

		// Second clear of the same level grants nothing.
		w = doJSON(t, router, http.MethodPost, "/api/journey/complete", auth,
			gin.H{"level_id": "w1_l1", "passed": true})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"first_clear":false`)

		w = doJSON(t, router, http.MethodGet, "/api/journey/map", auth, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "world_1")
	})

	t.Run("Unknown journey level maps to 404", func(t *testing.T) {
		router := newTestRouter(t, &stubAI{response: testQuizJSON})
		w := doJSON(t, router, http.MethodPost, "/api/journey/start", authHeader(t, userID),
			gin.H{"level_id": "w9_l1"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
