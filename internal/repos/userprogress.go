package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
)

type UserProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) (*types.UserProgress, error)
	// GetByUserItem returns nil with no error when no row exists yet.
	GetByUserItem(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemType string, itemID uuid.UUID) (*types.UserProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemType string) ([]*types.UserProgress, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (upr *userProgressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = upr.db
	}
	if err := transaction.WithContext(ctx).Create(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (upr *userProgressRepo) GetByUserItem(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemType string, itemID uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = upr.db
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (upr *userProgressRepo) Update(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = upr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("id = ?", progress.ID).
		Updates(map[string]interface{}{
			"progress_percentage": progress.ProgressPercentage,
			"completed":           progress.Completed,
			"completed_at":        progress.CompletedAt,
		}).Error
}

func (upr *userProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemType string) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = upr.db
	}
	query := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if itemType != "" {
		query = query.Where("item_type = ?", itemType)
	}
	var results []*types.UserProgress
	if err := query.Order("updated_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
