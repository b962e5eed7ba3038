package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
)

type UserAchievementRepo interface {
	// Create inserts a single earned row. The (user_id, achievement_id)
	// unique index makes a duplicate insert fail; callers in the unlock pass
	// treat that failure as "already earned".
	Create(ctx context.Context, tx *gorm.DB, earned *types.UserAchievement) (*types.UserAchievement, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error)
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	repoLog := baseLog.With("repo", "UserAchievementRepo")
	return &userAchievementRepo{db: db, log: repoLog}
}

func (uar *userAchievementRepo) Create(ctx context.Context, tx *gorm.DB, earned *types.UserAchievement) (*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = uar.db
	}
	if err := transaction.WithContext(ctx).Create(earned).Error; err != nil {
		return nil, err
	}
	return earned, nil
}

func (uar *userAchievementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = uar.db
	}
	var results []*types.UserAchievement
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
