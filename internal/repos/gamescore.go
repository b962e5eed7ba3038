package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
)

type GameScoreRepo interface {
	Create(ctx context.Context, tx *gorm.DB, scores []*types.GameScore) ([]*types.GameScore, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GameScore, error)
	ListByUserAndGame(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, limit int) ([]*types.GameScore, error)
	// HighScore derives the best score at query time; nil when the user has
	// never played the game.
	HighScore(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID) (*types.GameScore, error)
}

type gameScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGameScoreRepo(db *gorm.DB, baseLog *logger.Logger) GameScoreRepo {
	repoLog := baseLog.With("repo", "GameScoreRepo")
	return &gameScoreRepo{db: db, log: repoLog}
}

func (gsr *gameScoreRepo) Create(ctx context.Context, tx *gorm.DB, scores []*types.GameScore) ([]*types.GameScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = gsr.db
	}
	if len(scores) == 0 {
		return []*types.GameScore{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (gsr *gameScoreRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GameScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = gsr.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*types.GameScore
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gsr *gameScoreRepo) ListByUserAndGame(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, limit int) ([]*types.GameScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = gsr.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*types.GameScore
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gsr *gameScoreRepo) HighScore(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID) (*types.GameScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = gsr.db
	}
	var results []*types.GameScore
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Order("score DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
