package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/repos"
	"github.com/yungbote/levelup-backend/internal/requestdata"
	"github.com/yungbote/levelup-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	GetMyStats(ctx context.Context) (*types.UserStats, error)
	GetMyActivity(ctx context.Context, limit int) ([]*types.UserActivity, error)
	GetMyProgress(ctx context.Context, itemType string) ([]*types.UserProgress, error)
	GetMyScores(ctx context.Context, gameID *uuid.UUID, limit int) ([]*types.GameScore, error)
}

type userService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	userStatsRepo    repos.UserStatsRepo
	userActivityRepo repos.UserActivityRepo
	userProgressRepo repos.UserProgressRepo
	gameScoreRepo    repos.GameScoreRepo
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userStatsRepo repos.UserStatsRepo,
	userActivityRepo repos.UserActivityRepo,
	userProgressRepo repos.UserProgressRepo,
	gameScoreRepo repos.GameScoreRepo,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		userStatsRepo:    userStatsRepo,
		userActivityRepo: userActivityRepo,
		userProgressRepo: userProgressRepo,
		gameScoreRepo:    gameScoreRepo,
	}
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("unauthorized")
	}
	return rd.UserID, nil
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	found, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("user does not exist")
	}
	return found[0], nil
}

func (us *userService) GetMyStats(ctx context.Context) (*types.UserStats, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := us.userStatsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user stats: %w", err)
	}
	if stats == nil {
		// Pre-seeding accounts may predate the stats row; report zeros.
		return &types.UserStats{UserID: userID}, nil
	}
	return stats, nil
}

func (us *userService) GetMyActivity(ctx context.Context, limit int) ([]*types.UserActivity, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return us.userActivityRepo.ListByUser(ctx, nil, userID, limit)
}

func (us *userService) GetMyProgress(ctx context.Context, itemType string) ([]*types.UserProgress, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return us.userProgressRepo.ListByUser(ctx, nil, userID, itemType)
}

func (us *userService) GetMyScores(ctx context.Context, gameID *uuid.UUID, limit int) ([]*types.GameScore, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if gameID != nil {
		return us.gameScoreRepo.ListByUserAndGame(ctx, nil, userID, *gameID, limit)
	}
	return us.gameScoreRepo.ListByUser(ctx, nil, userID, limit)
}
