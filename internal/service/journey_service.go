package service

import (
	"context"
	"fmt"

	"codequest-server/internal/curriculum"
	"codequest-server/internal/messaging"
	"codequest-server/internal/models"
	"codequest-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Journey XP rewards, granted once per level on first clear.
const (
	BossClearXP   = 500
	NormalClearXP = 150
)

// JourneyMap is the static curriculum plus the user's position in it.
type JourneyMap struct {
	Worlds  []curriculum.World  `json:"worlds"`
	Journey *models.UserJourney `json:"journey"`
}

// LevelStart is everything the client needs to play one journey level.
type LevelStart struct {
	Level  *curriculum.Level `json:"level"`
	World  *curriculum.World `json:"world"`
	IsBoss bool              `json:"is_boss"`
	Quiz   *models.Quiz      `json:"quiz"`
}

// CompleteOutcome is the delta summary after a journey level submission.
type CompleteOutcome struct {
	FirstClear bool                  `json:"first_clear"`
	XPGained   int                   `json:"xp_gained"`
	Journey    *models.UserJourney   `json:"journey"`
	Profile    *models.PlayerProfile `json:"profile,omitempty"`
}

// JourneyService drives the fixed curriculum: serving the map, generating
// level quizzes and applying completions with first-clear idempotency.
type JourneyService struct {
	journeys    repository.UserJourneyRepository
	arena       *ArenaService
	progression *ProgressionService
	publisher   messaging.EventPublisher
	logger      *zap.Logger
}

// NewJourneyService creates a new JourneyService.
func NewJourneyService(
	journeys repository.UserJourneyRepository,
	arena *ArenaService,
	progression *ProgressionService,
	publisher messaging.EventPublisher,
	logger *zap.Logger,
) *JourneyService {
	return &JourneyService{
		journeys:    journeys,
		arena:       arena,
		progression: progression,
		publisher:   publisher,
		logger:      logger.Named("JourneyService"),
	}
}

// Map returns the full curriculum together with the user's position.
func (s *JourneyService) Map(ctx context.Context, userID uuid.UUID) (*JourneyMap, error) {
	journey, err := s.journeys.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &JourneyMap{
		Worlds:  curriculum.Worlds(),
		Journey: journey,
	}, nil
}

// StartLevel generates the quiz for a curriculum level. Boss levels are
// always hard and framed with the world's role; normal levels default to
// medium difficulty.
func (s *JourneyService) StartLevel(ctx context.Context, userID uuid.UUID, levelID string) (*LevelStart, error) {
	level, world, isBoss, err := curriculum.LevelByID(levelID)
	if err != nil {
		return nil, err
	}

	difficulty := level.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	quizTopic := level.Topic
	if isBoss {
		quizTopic = fmt.Sprintf("%s, at the level expected of a %s engineer", level.Topic, world.Role)
	}

	quiz, err := s.arena.generate(ctx, quizTopic, difficulty)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Journey level started",
		zap.Stringer("userID", userID),
		zap.String("levelID", levelID),
		zap.Bool("isBoss", isBoss))
	return &LevelStart{
		Level:  level,
		World:  world,
		IsBoss: isBoss,
		Quiz:   quiz,
	}, nil
}

// CompleteLevel applies one journey submission. XP is granted only on the
// first clear of a level: a repeat completion is a no-op returning
// first_clear=false and the unchanged journey. A failed attempt never
// mutates anything.
func (s *JourneyService) CompleteLevel(ctx context.Context, userID uuid.UUID, levelID string, passed bool) (*CompleteOutcome, error) {
	_, world, isBoss, err := curriculum.LevelByID(levelID)
	if err != nil {
		return nil, err
	}

	if !passed {
		journey, err := s.journeys.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &CompleteOutcome{Journey: journey}, nil
	}

	firstClear := false
	journey, err := s.journeys.Mutate(ctx, userID, func(j *models.UserJourney) error {
		if j.HasCompleted(levelID) {
			return nil
		}
		firstClear = true
		j.MarkCompleted(levelID, isBoss)
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := &CompleteOutcome{
		FirstClear: firstClear,
		Journey:    journey,
	}
	if !firstClear {
		return outcome, nil
	}

	reward := NormalClearXP
	if isBoss {
		reward = BossClearXP
	}
	profile, err := s.progression.AddXP(ctx, userID, reward)
	if err != nil {
		return nil, err
	}
	outcome.XPGained = reward
	outcome.Profile = profile

	if isBoss {
		err := s.publisher.PublishProgressionEvent(ctx, messaging.ProgressionEvent{
			Type:    messaging.EventBossDefeated,
			UserID:  userID,
			LevelID: levelID,
			XP:      reward,
		})
		if err != nil {
			s.logger.Warn("Failed to publish boss-defeated event", zap.Stringer("userID", userID), zap.Error(err))
		}
	}

	s.logger.Info("Journey level cleared",
		zap.Stringer("userID", userID),
		zap.String("levelID", levelID),
		zap.String("world", world.ID),
		zap.Bool("isBoss", isBoss),
		zap.Int("xpGained", reward))
	return outcome, nil
}
