package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

type fakeGameScoreRepo struct {
	scores    []*types.GameScore
	createErr error
}

func (f *fakeGameScoreRepo) Create(ctx context.Context, tx *gorm.DB, scores []*types.GameScore) ([]*types.GameScore, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.scores = append(f.scores, scores...)
	return scores, nil
}

func (f *fakeGameScoreRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GameScore, error) {
	var out []*types.GameScore
	for _, s := range f.scores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeGameScoreRepo) ListByUserAndGame(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, limit int) ([]*types.GameScore, error) {
	var out []*types.GameScore
	for _, s := range f.scores {
		if s.UserID == userID && s.GameID == gameID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeGameScoreRepo) HighScore(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID) (*types.GameScore, error) {
	var best *types.GameScore
	for _, s := range f.scores {
		if s.UserID != userID || s.GameID != gameID {
			continue
		}
		if best == nil || s.Score > best.Score {
			best = s
		}
	}
	return best, nil
}

type fakeUserStatsRepo struct {
	stats       *types.UserStats
	updateCount int
	updateErr   error
}

func (f *fakeUserStatsRepo) Create(ctx context.Context, tx *gorm.DB, stats []*types.UserStats) ([]*types.UserStats, error) {
	if len(stats) > 0 {
		f.stats = stats[0]
	}
	return stats, nil
}

func (f *fakeUserStatsRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
	if f.stats == nil || f.stats.UserID != userID {
		return nil, nil
	}
	copied := *f.stats
	return &copied, nil
}

func (f *fakeUserStatsRepo) Update(ctx context.Context, tx *gorm.DB, stats *types.UserStats) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCount++
	copied := *stats
	f.stats = &copied
	return nil
}

func (f *fakeUserStatsRepo) IncrementStudySessions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	if f.stats == nil || f.stats.UserID != userID {
		return fmt.Errorf("no stats row")
	}
	f.stats.StudySessions++
	return nil
}

func (f *fakeUserStatsRepo) TopByTotalPoints(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserStats, error) {
	if f.stats == nil {
		return nil, nil
	}
	return []*types.UserStats{f.stats}, nil
}

type fakeUserRepo struct {
	users       []*types.User
	pointsAdded map[uuid.UUID]int
	addErr      error
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	f.users = append(f.users, users...)
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, id := range userIDs {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, email := range userEmails {
			if u.Email == email {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
	for _, u := range f.users {
		if u.Email == userEmail {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateAvatarFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, bucketKey, avatarURL string) error {
	return nil
}

func (f *fakeUserRepo) AddPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, pointsToAdd int) error {
	if f.addErr != nil {
		return f.addErr
	}
	if f.pointsAdded == nil {
		f.pointsAdded = make(map[uuid.UUID]int)
	}
	f.pointsAdded[userID] += pointsToAdd
	return nil
}

type fakeUserActivityRepo struct {
	rows []*types.UserActivity
}

func (f *fakeUserActivityRepo) Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error) {
	f.rows = append(f.rows, activities...)
	return activities, nil
}

func (f *fakeUserActivityRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActivity, error) {
	var out []*types.UserActivity
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeUserProgressRepo struct {
	rows []*types.UserProgress
}

func progressKeyMatch(row *types.UserProgress, userID uuid.UUID, itemType string, itemID uuid.UUID) bool {
	return row.UserID == userID && row.ItemType == itemType && row.ItemID == itemID
}

func (f *fakeUserProgressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) (*types.UserProgress, error) {
	for _, row := range f.rows {
		if progressKeyMatch(row, progress.UserID, progress.ItemType, progress.ItemID) {
			return nil, fmt.Errorf("duplicate key")
		}
	}
	copied := *progress
	f.rows = append(f.rows, &copied)
	return progress, nil
}

func (f *fakeUserProgressRepo) GetByUserItem(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemType string, itemID uuid.UUID) (*types.UserProgress, error) {
	for _, row := range f.rows {
		if progressKeyMatch(row, userID, itemType, itemID) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserProgressRepo) Update(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error {
	for i, row := range f.rows {
		if progressKeyMatch(row, progress.UserID, progress.ItemType, progress.ItemID) {
			copied := *progress
			f.rows[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("row not found")
}

func (f *fakeUserProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemType string) ([]*types.UserProgress, error) {
	var out []*types.UserProgress
	for _, row := range f.rows {
		if row.UserID == userID && (itemType == "" || row.ItemType == itemType) {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeAchievementRepo struct {
	defs []*types.Achievement
}

func (f *fakeAchievementRepo) ListOrdered(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	return f.defs, nil
}

type fakeUserAchievementRepo struct {
	earned  []*types.UserAchievement
	failFor map[uuid.UUID]error
}

func (f *fakeUserAchievementRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserAchievement) (*types.UserAchievement, error) {
	if err, ok := f.failFor[row.AchievementID]; ok {
		return nil, err
	}
	for _, existing := range f.earned {
		if existing.UserID == row.UserID && existing.AchievementID == row.AchievementID {
			return nil, fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	f.earned = append(f.earned, row)
	return row, nil
}

func (f *fakeUserAchievementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	var out []*types.UserAchievement
	for _, row := range f.earned {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}
