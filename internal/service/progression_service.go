package service

import (
	"context"
	"strings"

	"codequest-server/internal/messaging"
	"codequest-server/internal/models"
	"codequest-server/internal/repository"
	"codequest-server/internal/topic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// XPPerCorrectAnswer is the arena reward for each correctly answered
// question.
const XPPerCorrectAnswer = 50

// SubmitOutcome is the delta summary returned after a quiz submission.
type SubmitOutcome struct {
	Profile  *models.PlayerProfile `json:"profile"`
	XPGained int                   `json:"xp_gained"`
	Mastery  *models.TopicMastery  `json:"mastery"`
	Advanced bool                  `json:"advanced"`
	Event    string                `json:"event"`
}

// ProgressionService is the state machine that converts quiz outcomes into
// XP, level and tier transitions. Per-entity serialization is delegated to
// the repositories' update discipline (atomic XP update, row-locked
// mastery/journey mutation).
type ProgressionService struct {
	profiles    repository.PlayerProfileRepository
	masteries   repository.TopicMasteryRepository
	leaderboard repository.LeaderboardRepository
	publisher   messaging.EventPublisher
	logger      *zap.Logger
}

// NewProgressionService creates a new ProgressionService.
func NewProgressionService(
	profiles repository.PlayerProfileRepository,
	masteries repository.TopicMasteryRepository,
	leaderboard repository.LeaderboardRepository,
	publisher messaging.EventPublisher,
	logger *zap.Logger,
) *ProgressionService {
	return &ProgressionService{
		profiles:    profiles,
		masteries:   masteries,
		leaderboard: leaderboard,
		publisher:   publisher,
		logger:      logger.Named("ProgressionService"),
	}
}

// AddXP accrues experience for one completed quiz and mirrors the new
// total into the leaderboard. A leaderboard write failure is logged but
// does not fail the accrual; the ranking is rebuilt from profiles anyway.
func (s *ProgressionService) AddXP(ctx context.Context, userID uuid.UUID, amount int) (*models.PlayerProfile, error) {
	profile, err := s.profiles.AddXP(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	if err := s.leaderboard.SetScore(ctx, userID, profile.XP); err != nil {
		s.logger.Warn("Failed to mirror XP into leaderboard", zap.Stringer("userID", userID), zap.Error(err))
	}
	return profile, nil
}

// LevelUp advances the user's mastery for a topic one step along the
// ladder. Tier transitions fan out a progression event.
func (s *ProgressionService) LevelUp(ctx context.Context, userID uuid.UUID, rawTopic string) (*models.TopicMastery, bool, string, error) {
	key := topic.Normalize(rawTopic)

	var advanced bool
	var event string
	mastery, err := s.masteries.Mutate(ctx, userID, key, func(m *models.TopicMastery) error {
		advanced, event = m.LevelUp()
		return nil
	})
	if err != nil {
		return nil, false, "", err
	}

	if advanced && strings.HasPrefix(event, "Tier Up") {
		err := s.publisher.PublishProgressionEvent(ctx, messaging.ProgressionEvent{
			Type:   messaging.EventTierUp,
			UserID: userID,
			Topic:  key,
			Tier:   mastery.Tier.String(),
		})
		if err != nil {
			s.logger.Warn("Failed to publish tier-up event", zap.Stringer("userID", userID), zap.Error(err))
		}
	}

	return mastery, advanced, event, nil
}

// SubmitResult applies one finished arena round: XP for every correct
// answer, and a mastery step when the round was passed (more than half
// correct).
func (s *ProgressionService) SubmitResult(ctx context.Context, userID uuid.UUID, rawTopic string, correctCount, totalCount int) (*SubmitOutcome, error) {
	if correctCount < 0 || totalCount <= 0 || correctCount > totalCount {
		return nil, models.ErrInvalidInput
	}

	gained := correctCount * XPPerCorrectAnswer
	profile, err := s.AddXP(ctx, userID, gained)
	if err != nil {
		return nil, err
	}

	outcome := &SubmitOutcome{
		Profile:  profile,
		XPGained: gained,
	}

	passed := correctCount*2 > totalCount
	if passed {
		mastery, advanced, event, err := s.LevelUp(ctx, userID, rawTopic)
		if err != nil {
			return nil, err
		}
		outcome.Mastery = mastery
		outcome.Advanced = advanced
		outcome.Event = event
	} else {
		mastery, err := s.masteries.GetOrCreate(ctx, userID, topic.Normalize(rawTopic))
		if err != nil {
			return nil, err
		}
		outcome.Mastery = mastery
	}

	s.logger.Info("Quiz result submitted",
		zap.Stringer("userID", userID),
		zap.String("topic", topic.Normalize(rawTopic)),
		zap.Int("correct", correctCount),
		zap.Int("total", totalCount),
		zap.Int("xpGained", gained))
	return outcome, nil
}

// Profile returns the user's global progression record.
func (s *ProgressionService) Profile(ctx context.Context, userID uuid.UUID) (*models.PlayerProfile, error) {
	return s.profiles.GetOrCreate(ctx, userID)
}

// Masteries returns all mastery records for the user.
func (s *ProgressionService) Masteries(ctx context.Context, userID uuid.UUID) ([]models.TopicMastery, error) {
	return s.masteries.ListByUser(ctx, userID)
}

// Leaderboard returns the global top-N ranking from the Redis mirror,
// falling back to the profile table when the mirror is empty or down.
func (s *ProgressionService) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	entries, err := s.leaderboard.Top(ctx, int64(limit))
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	if err != nil {
		s.logger.Warn("Leaderboard mirror unavailable, falling back to profiles", zap.Error(err))
	}

	profiles, err := s.profiles.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries = make([]repository.LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, repository.LeaderboardEntry{
			UserID: p.UserID,
			XP:     p.XP,
			Rank:   int64(i) + 1,
		})
	}
	return entries, nil
}
