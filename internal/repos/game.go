package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
)

type GameRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, gameIDs []uuid.UUID) ([]*types.Game, error)
	List(ctx context.Context, tx *gorm.DB, category string) ([]*types.Game, error)
}

type gameRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGameRepo(db *gorm.DB, baseLog *logger.Logger) GameRepo {
	repoLog := baseLog.With("repo", "GameRepo")
	return &gameRepo{db: db, log: repoLog}
}

func (gr *gameRepo) GetByIDs(ctx context.Context, tx *gorm.DB, gameIDs []uuid.UUID) ([]*types.Game, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var results []*types.Game
	if len(gameIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", gameIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *gameRepo) List(ctx context.Context, tx *gorm.DB, category string) ([]*types.Game, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	query := transaction.WithContext(ctx).Order("title ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var results []*types.Game
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
