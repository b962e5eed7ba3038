package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/levelup-backend/internal/logger"
)

type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Points int       `json:"points"`
	Rank   int       `json:"rank"`
}

// Leaderboard maintains the realtime points ranking in a redis sorted set.
// It is best-effort: the DB aggregate rows remain the source of truth.
type Leaderboard interface {
	IncrementScore(ctx context.Context, userID uuid.UUID, pointsToAdd int) error
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Rank(ctx context.Context, userID uuid.UUID) (int, error)
	Close() error
}

type leaderboard struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
}

func NewLeaderboard(log *logger.Logger) (Leaderboard, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(os.Getenv("REDIS_LEADERBOARD_KEY"))
	if key == "" {
		key = "leaderboard:points"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &leaderboard{
		log: log.With("service", "RedisLeaderboard"),
		rdb: rdb,
		key: key,
	}, nil
}

func (lb *leaderboard) IncrementScore(ctx context.Context, userID uuid.UUID, pointsToAdd int) error {
	if lb == nil || lb.rdb == nil {
		return fmt.Errorf("redis leaderboard not initialized")
	}
	return lb.rdb.ZIncrBy(ctx, lb.key, float64(pointsToAdd), userID.String()).Err()
}

func (lb *leaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if lb == nil || lb.rdb == nil {
		return nil, fmt.Errorf("redis leaderboard not initialized")
	}
	if limit <= 0 {
		limit = 10
	}
	raw, err := lb.rdb.ZRevRangeWithScores(ctx, lb.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(raw))
	for i, z := range raw {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, parseErr := uuid.Parse(member)
		if parseErr != nil {
			lb.log.Warn("Skipping unparseable leaderboard member", "member", member)
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID: id,
			Points: int(z.Score),
			Rank:   i + 1,
		})
	}
	return entries, nil
}

func (lb *leaderboard) Rank(ctx context.Context, userID uuid.UUID) (int, error) {
	if lb == nil || lb.rdb == nil {
		return 0, fmt.Errorf("redis leaderboard not initialized")
	}
	rank, err := lb.rdb.ZRevRank(ctx, lb.key, userID.String()).Result()
	if err == goredis.Nil {
		return 0, fmt.Errorf("user not ranked")
	}
	if err != nil {
		return 0, err
	}
	return int(rank) + 1, nil
}

func (lb *leaderboard) Close() error {
	if lb == nil || lb.rdb == nil {
		return nil
	}
	return lb.rdb.Close()
}
