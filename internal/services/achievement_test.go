package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/types"
)

func TestAchievementPercentage(t *testing.T) {
	tests := []struct {
		name           string
		totalPoints    int
		pointsRequired int
		wantProgress   int
		wantPercentage int
	}{
		{name: "zero threshold always complete", totalPoints: 0, pointsRequired: 0, wantProgress: 0, wantPercentage: 100},
		{name: "negative threshold always complete", totalPoints: 50, pointsRequired: -5, wantProgress: 0, wantPercentage: 100},
		{name: "under threshold", totalPoints: 30, pointsRequired: 100, wantProgress: 30, wantPercentage: 30},
		{name: "exactly at threshold", totalPoints: 100, pointsRequired: 100, wantProgress: 100, wantPercentage: 100},
		{name: "over threshold capped", totalPoints: 250, pointsRequired: 100, wantProgress: 100, wantPercentage: 100},
		{name: "rounding", totalPoints: 1, pointsRequired: 3, wantProgress: 1, wantPercentage: 33},
		{name: "negative points floor to zero", totalPoints: -10, pointsRequired: 100, wantProgress: 0, wantPercentage: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress, percentage := achievementPercentage(tt.totalPoints, tt.pointsRequired)
			if progress != tt.wantProgress || percentage != tt.wantPercentage {
				t.Fatalf("achievementPercentage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.totalPoints, tt.pointsRequired, progress, percentage, tt.wantProgress, tt.wantPercentage)
			}
		})
	}
}

func catalog(thresholds ...int) []*types.Achievement {
	defs := make([]*types.Achievement, 0, len(thresholds))
	for i, required := range thresholds {
		defs = append(defs, &types.Achievement{
			ID:             uuid.New(),
			Name:           fmt.Sprintf("Milestone %d", i+1),
			PointsRequired: required,
		})
	}
	return defs
}

func TestGetUserAchievementProgress(t *testing.T) {
	userID := uuid.New()
	defs := catalog(0, 50, 200)
	statsRepo := &fakeUserStatsRepo{stats: &types.UserStats{ID: uuid.New(), UserID: userID, TotalPoints: 80}}
	earnedRepo := &fakeUserAchievementRepo{
		earned: []*types.UserAchievement{{ID: uuid.New(), UserID: userID, AchievementID: defs[0].ID}},
	}
	svc := NewAchievementService(nil, testLogger(t), &fakeAchievementRepo{defs: defs}, earnedRepo, statsRepo)

	rows, err := svc.GetUserAchievementProgress(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUserAchievementProgress: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].ProgressPercentage != 100 || !rows[0].Earned {
		t.Errorf("zero-threshold row: percentage=%d earned=%v, want 100/true", rows[0].ProgressPercentage, rows[0].Earned)
	}
	if rows[1].Progress != 50 || rows[1].ProgressPercentage != 100 {
		t.Errorf("qualified row: progress=%d percentage=%d, want 50/100 (capped)", rows[1].Progress, rows[1].ProgressPercentage)
	}
	if rows[1].Earned {
		t.Error("qualified but un-inserted row reported as earned")
	}
	if rows[2].Progress != 80 || rows[2].ProgressPercentage != 40 {
		t.Errorf("partial row: progress=%d percentage=%d, want 80/40", rows[2].Progress, rows[2].ProgressPercentage)
	}
}

func TestGetUserAchievementProgressNoStatsRow(t *testing.T) {
	userID := uuid.New()
	defs := catalog(100)
	svc := NewAchievementService(nil, testLogger(t), &fakeAchievementRepo{defs: defs}, &fakeUserAchievementRepo{}, &fakeUserStatsRepo{})

	rows, err := svc.GetUserAchievementProgress(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUserAchievementProgress: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Progress != 0 || rows[0].ProgressPercentage != 0 {
		t.Errorf("missing stats row should read as zero points, got progress=%d percentage=%d", rows[0].Progress, rows[0].ProgressPercentage)
	}
}

func TestCheckAndUnlockAchievements(t *testing.T) {
	userID := uuid.New()
	defs := catalog(50, 100, 150)
	statsRepo := &fakeUserStatsRepo{stats: &types.UserStats{ID: uuid.New(), UserID: userID, TotalPoints: 105}}
	earnedRepo := &fakeUserAchievementRepo{}
	svc := NewAchievementService(nil, testLogger(t), &fakeAchievementRepo{defs: defs}, earnedRepo, statsRepo)

	unlocked, err := svc.CheckAndUnlockAchievements(context.Background(), userID)
	if err != nil {
		t.Fatalf("CheckAndUnlockAchievements: %v", err)
	}
	if len(unlocked) != 2 {
		t.Fatalf("unlocked = %d, want 2 (single pass unlocks every qualifying definition)", len(unlocked))
	}
	if unlocked[0].ID != defs[0].ID || unlocked[1].ID != defs[1].ID {
		t.Error("unlocks not in ascending points_required order")
	}
	if len(earnedRepo.earned) != 2 {
		t.Fatalf("earned rows = %d, want 2", len(earnedRepo.earned))
	}

	// Second pass with no new points is a no-op.
	again, err := svc.CheckAndUnlockAchievements(context.Background(), userID)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second pass unlocked %d, want 0", len(again))
	}
}

func TestCheckAndUnlockSwallowsInsertFailures(t *testing.T) {
	userID := uuid.New()
	defs := catalog(10, 20)
	statsRepo := &fakeUserStatsRepo{stats: &types.UserStats{ID: uuid.New(), UserID: userID, TotalPoints: 100}}
	earnedRepo := &fakeUserAchievementRepo{
		failFor: map[uuid.UUID]error{defs[0].ID: fmt.Errorf("duplicate key value violates unique constraint")},
	}
	svc := NewAchievementService(nil, testLogger(t), &fakeAchievementRepo{defs: defs}, earnedRepo, statsRepo)

	unlocked, err := svc.CheckAndUnlockAchievements(context.Background(), userID)
	if err != nil {
		t.Fatalf("insert failure must not surface: %v", err)
	}
	if len(unlocked) != 1 {
		t.Fatalf("unlocked = %d, want 1 (failed insert omitted)", len(unlocked))
	}
	if unlocked[0].ID != defs[1].ID {
		t.Error("wrong achievement reported as unlocked")
	}
}
