package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
)

type AchievementRepo interface {
	// ListOrdered returns the full catalog ascending by points_required; the
	// unlock pass depends on this ordering.
	ListOrdered(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (ar *achievementRepo) ListOrdered(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Achievement
	if err := transaction.WithContext(ctx).
		Order("points_required ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
