package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
)

type UserActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActivity, error)
}

type userActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
	repoLog := baseLog.With("repo", "UserActivityRepo")
	return &userActivityRepo{db: db, log: repoLog}
}

func (uar *userActivityRepo) Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = uar.db
	}
	if len(activities) == 0 {
		return []*types.UserActivity{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (uar *userActivityRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = uar.db
	}
	if limit <= 0 {
		limit = 20
	}
	var results []*types.UserActivity
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
