package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
)

type UserStatsRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stats []*types.UserStats) ([]*types.UserStats, error)
	// GetByUserID returns nil with no error when the user has no stats row.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error)
	Update(ctx context.Context, tx *gorm.DB, stats *types.UserStats) error
	IncrementStudySessions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	TopByTotalPoints(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserStats, error)
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	repoLog := baseLog.With("repo", "UserStatsRepo")
	return &userStatsRepo{db: db, log: repoLog}
}

func (usr *userStatsRepo) Create(ctx context.Context, tx *gorm.DB, stats []*types.UserStats) ([]*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = usr.db
	}
	if len(stats) == 0 {
		return []*types.UserStats{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (usr *userStatsRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = usr.db
	}
	var results []*types.UserStats
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (usr *userStatsRepo) Update(ctx context.Context, tx *gorm.DB, stats *types.UserStats) error {
	transaction := tx
	if transaction == nil {
		transaction = usr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserStats{}).
		Where("id = ?", stats.ID).
		Updates(map[string]interface{}{
			"total_points":   stats.TotalPoints,
			"games_played":   stats.GamesPlayed,
			"study_sessions": stats.StudySessions,
		}).Error
}

func (usr *userStatsRepo) IncrementStudySessions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = usr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserStats{}).
		Where("user_id = ?", userID).
		Update("study_sessions", gorm.Expr("study_sessions + 1")).Error
}

func (usr *userStatsRepo) TopByTotalPoints(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = usr.db
	}
	if limit <= 0 {
		limit = 10
	}
	var results []*types.UserStats
	if err := transaction.WithContext(ctx).
		Order("total_points DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
