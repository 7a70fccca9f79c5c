package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ LeaderboardRepository = (*redisLeaderboardRepository)(nil)

// leaderboardKey is the sorted set holding user_id -> total XP. Rank
// lookups are O(log N) against it.
const leaderboardKey = "leaderboard:xp"

type redisLeaderboardRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisLeaderboardRepository creates a new repository instance.
func NewRedisLeaderboardRepository(client *redis.Client, logger *zap.Logger) LeaderboardRepository {
	return &redisLeaderboardRepository{
		client: client,
		logger: logger.Named("RedisLeaderboardRepo"),
	}
}

func (r *redisLeaderboardRepository) SetScore(ctx context.Context, userID uuid.UUID, xp int) error {
	err := r.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(xp),
		Member: userID.String(),
	}).Err()
	if err != nil {
		r.logger.Error("Failed to set leaderboard score", zap.Stringer("userID", userID), zap.Error(err))
		return err
	}
	return nil
}

func (r *redisLeaderboardRepository) Top(ctx context.Context, limit int64) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return []LeaderboardEntry{}, nil
	}

	members, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		r.logger.Error("Failed to read leaderboard", zap.Error(err))
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for i, member := range members {
		id, ok := member.Member.(string)
		if !ok {
			continue
		}
		userID, err := uuid.Parse(id)
		if err != nil {
			r.logger.Warn("Skipping malformed leaderboard member", zap.String("member", id))
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID: userID,
			XP:     int(member.Score),
			Rank:   int64(i) + 1,
		})
	}
	return entries, nil
}
