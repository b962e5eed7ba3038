package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/clients/redis"
	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/repos"
)

type LeaderboardRow struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Points      int       `json:"points"`
}

// LeaderboardService reads the redis ranking when available and falls back
// to the stats aggregate rows otherwise.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]LeaderboardRow, error)
}

type leaderboardService struct {
	db            *gorm.DB
	log           *logger.Logger
	leaderboard   redis.Leaderboard
	userStatsRepo repos.UserStatsRepo
	userRepo      repos.UserRepo
}

func NewLeaderboardService(
	db *gorm.DB,
	log *logger.Logger,
	leaderboard redis.Leaderboard,
	userStatsRepo repos.UserStatsRepo,
	userRepo repos.UserRepo,
) LeaderboardService {
	serviceLog := log.With("service", "LeaderboardService")
	return &leaderboardService{
		db:            db,
		log:           serviceLog,
		leaderboard:   leaderboard,
		userStatsRepo: userStatsRepo,
		userRepo:      userRepo,
	}
}

func (ls *leaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}

	if ls.leaderboard != nil {
		entries, err := ls.leaderboard.Top(ctx, limit)
		if err == nil {
			return ls.hydrate(ctx, entriesToRows(entries))
		}
		ls.log.Warn("Redis leaderboard unavailable, falling back to stats", "error", err)
	}

	statsRows, err := ls.userStatsRepo.TopByTotalPoints(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	rows := make([]LeaderboardRow, 0, len(statsRows))
	for i, s := range statsRows {
		rows = append(rows, LeaderboardRow{
			Rank:   i + 1,
			UserID: s.UserID,
			Points: s.TotalPoints,
		})
	}
	return ls.hydrate(ctx, rows)
}

func entriesToRows(entries []redis.LeaderboardEntry) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, LeaderboardRow{
			Rank:   e.Rank,
			UserID: e.UserID,
			Points: e.Points,
		})
	}
	return rows
}

func (ls *leaderboardService) hydrate(ctx context.Context, rows []LeaderboardRow) ([]LeaderboardRow, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	users, err := ls.userRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		ls.log.Warn("Failed to hydrate leaderboard users (returning ids only)", "error", err)
		return rows, nil
	}
	byID := make(map[uuid.UUID]int, len(users))
	for i, u := range users {
		byID[u.ID] = i
	}
	for i := range rows {
		if idx, ok := byID[rows[i].UserID]; ok {
			rows[i].DisplayName = users[idx].FirstName + " " + users[idx].LastName
			rows[i].AvatarURL = users[idx].AvatarURL
		}
	}
	return rows, nil
}
