package service

import (
	"context"

	"codequest-server/internal/ai"
	"codequest-server/internal/messaging"
	"codequest-server/internal/models"
	"codequest-server/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateText(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error) {
	args := m.Called(ctx, systemPrompt, userInput, temperature)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) GenerateStructured(ctx context.Context, systemPrompt, userInput string, schema *ai.Schema, temperature float32) (string, error) {
	args := m.Called(ctx, systemPrompt, userInput, schema, temperature)
	return args.String(0), args.Error(1)
}

type MockTopicAnalysisRepo struct {
	mock.Mock
}

func (m *MockTopicAnalysisRepo) Get(ctx context.Context, topic string, depth models.Depth) (*models.TopicAnalysis, error) {
	args := m.Called(ctx, topic, depth)
	if v := args.Get(0); v != nil {
		return v.(*models.TopicAnalysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicAnalysisRepo) Create(ctx context.Context, analysis *models.TopicAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

type MockPlayerProfileRepo struct {
	mock.Mock
}

func (m *MockPlayerProfileRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerProfile, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*models.PlayerProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlayerProfileRepo) AddXP(ctx context.Context, userID uuid.UUID, amount int) (*models.PlayerProfile, error) {
	args := m.Called(ctx, userID, amount)
	if v := args.Get(0); v != nil {
		return v.(*models.PlayerProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlayerProfileRepo) Top(ctx context.Context, limit int) ([]models.PlayerProfile, error) {
	args := m.Called(ctx, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.PlayerProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTopicMasteryRepo keeps a real record so Mutate can apply the
// caller's closure against it, mirroring the row-locked update.
type MockTopicMasteryRepo struct {
	mock.Mock
	State *models.TopicMastery
}

func (m *MockTopicMasteryRepo) GetOrCreate(ctx context.Context, userID uuid.UUID, topic string) (*models.TopicMastery, error) {
	args := m.Called(ctx, userID, topic)
	if v := args.Get(0); v != nil {
		return v.(*models.TopicMastery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicMasteryRepo) Mutate(ctx context.Context, userID uuid.UUID, topic string, fn func(*models.TopicMastery) error) (*models.TopicMastery, error) {
	args := m.Called(ctx, userID, topic)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if err := fn(m.State); err != nil {
		return nil, err
	}
	return m.State, nil
}

func (m *MockTopicMasteryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TopicMastery, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]models.TopicMastery), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserJourneyRepo applies Mutate closures against State, like the
// mastery mock.
type MockUserJourneyRepo struct {
	mock.Mock
	State *models.UserJourney
}

func (m *MockUserJourneyRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserJourney, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*models.UserJourney), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserJourneyRepo) Mutate(ctx context.Context, userID uuid.UUID, fn func(*models.UserJourney) error) (*models.UserJourney, error) {
	args := m.Called(ctx, userID)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if err := fn(m.State); err != nil {
		return nil, err
	}
	return m.State, nil
}

type MockTutorInteractionRepo struct {
	mock.Mock
}

func (m *MockTutorInteractionRepo) Create(ctx context.Context, interaction *models.TutorInteraction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockTutorInteractionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.TutorInteraction, error) {
	args := m.Called(ctx, userID, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.TutorInteraction), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLeaderboardRepo struct {
	mock.Mock
}

func (m *MockLeaderboardRepo) SetScore(ctx context.Context, userID uuid.UUID, xp int) error {
	args := m.Called(ctx, userID, xp)
	return args.Error(0)
}

func (m *MockLeaderboardRepo) Top(ctx context.Context, limit int64) ([]repository.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if v := args.Get(0); v != nil {
		return v.([]repository.LeaderboardEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProgressionEvent(ctx context.Context, event messaging.ProgressionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
