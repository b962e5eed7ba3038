package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/types"
)

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name         string
		rawScore     int
		pointsReward int
		want         int
	}{
		{name: "perfect score", rawScore: 100, pointsReward: 50, want: 50},
		{name: "half score", rawScore: 50, pointsReward: 50, want: 25},
		{name: "rounds half up", rawScore: 50, pointsReward: 75, want: 38},
		{name: "negative clamps to zero", rawScore: -20, pointsReward: 50, want: 0},
		{name: "over 100 clamps to full reward", rawScore: 140, pointsReward: 50, want: 50},
		{name: "zero reward", rawScore: 100, pointsReward: 0, want: 0},
		{name: "negative reward", rawScore: 100, pointsReward: -10, want: 0},
		{name: "zero score", rawScore: 0, pointsReward: 80, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePoints(tt.rawScore, tt.pointsReward)
			if got != tt.want {
				t.Fatalf("CalculatePoints(%d, %d) = %d, want %d", tt.rawScore, tt.pointsReward, got, tt.want)
			}
		})
	}
}

func newCompletionFixture(t *testing.T, stats *types.UserStats) (CompletionService, *fakeGameScoreRepo, *fakeUserStatsRepo, *fakeUserRepo, *fakeUserActivityRepo, *fakeUserProgressRepo) {
	t.Helper()
	scoreRepo := &fakeGameScoreRepo{}
	statsRepo := &fakeUserStatsRepo{stats: stats}
	userRepo := &fakeUserRepo{}
	activityRepo := &fakeUserActivityRepo{}
	progressRepo := &fakeUserProgressRepo{}
	svc := NewCompletionService(nil, testLogger(t), scoreRepo, statsRepo, userRepo, activityRepo, progressRepo, nil)
	return svc, scoreRepo, statsRepo, userRepo, activityRepo, progressRepo
}

func TestCompleteGameUpdatesEverything(t *testing.T) {
	userID := uuid.New()
	gameID := uuid.New()
	game := &types.Game{ID: gameID, Title: "Memory Match", PointsReward: 50}
	stats := &types.UserStats{ID: uuid.New(), UserID: userID, TotalPoints: 10, GamesPlayed: 2}

	svc, scoreRepo, statsRepo, userRepo, activityRepo, progressRepo := newCompletionFixture(t, stats)

	points, err := svc.CompleteGame(context.Background(), userID, gameID, 80, 42, game)
	if err != nil {
		t.Fatalf("CompleteGame returned error: %v", err)
	}
	if points != 40 {
		t.Fatalf("points = %d, want 40", points)
	}

	if len(scoreRepo.scores) != 1 {
		t.Fatalf("score rows = %d, want 1", len(scoreRepo.scores))
	}
	if scoreRepo.scores[0].Score != 80 {
		t.Errorf("stored score = %d, want 80", scoreRepo.scores[0].Score)
	}
	if scoreRepo.scores[0].TimeTakenSeconds != 42 {
		t.Errorf("time_taken_seconds = %d, want 42", scoreRepo.scores[0].TimeTakenSeconds)
	}

	if statsRepo.stats.TotalPoints != 50 {
		t.Errorf("total_points = %d, want 50", statsRepo.stats.TotalPoints)
	}
	if statsRepo.stats.GamesPlayed != 3 {
		t.Errorf("games_played = %d, want 3", statsRepo.stats.GamesPlayed)
	}

	if userRepo.pointsAdded[userID] != 40 {
		t.Errorf("points added = %d, want 40", userRepo.pointsAdded[userID])
	}

	if len(activityRepo.rows) != 1 {
		t.Fatalf("activity rows = %d, want 1", len(activityRepo.rows))
	}
	act := activityRepo.rows[0]
	if act.ActivityType != "game_completed" {
		t.Errorf("activity type = %q, want game_completed", act.ActivityType)
	}
	if act.ActivityTitle != "Completed Memory Match" {
		t.Errorf("activity title = %q", act.ActivityTitle)
	}
	if act.PointsEarned != 40 {
		t.Errorf("activity points = %d, want 40", act.PointsEarned)
	}

	progress, err := progressRepo.GetByUserItem(context.Background(), nil, userID, ProgressItemTypeGame, gameID)
	if err != nil {
		t.Fatalf("GetByUserItem: %v", err)
	}
	if progress == nil {
		t.Fatal("progress row not created")
	}
	if progress.ProgressPercentage != 100 || !progress.Completed {
		t.Errorf("progress = %d%% completed=%v, want 100%% completed", progress.ProgressPercentage, progress.Completed)
	}
	if progress.CompletedAt == nil {
		t.Error("completed_at not set")
	}
}

func TestCompleteGameSkipsMissingStats(t *testing.T) {
	userID := uuid.New()
	gameID := uuid.New()
	game := &types.Game{ID: gameID, Title: "Quick Quiz", PointsReward: 30}

	svc, _, statsRepo, userRepo, _, _ := newCompletionFixture(t, nil)

	points, err := svc.CompleteGame(context.Background(), userID, gameID, 100, 15, game)
	if err != nil {
		t.Fatalf("CompleteGame returned error: %v", err)
	}
	if points != 30 {
		t.Fatalf("points = %d, want 30", points)
	}
	if statsRepo.stats != nil {
		t.Error("stats row was created; missing row must be skipped, not created")
	}
	if userRepo.pointsAdded[userID] != 30 {
		t.Errorf("points added = %d, want 30 even without stats row", userRepo.pointsAdded[userID])
	}
}

func TestCompleteGameCompletedAtSetOnce(t *testing.T) {
	userID := uuid.New()
	gameID := uuid.New()
	game := &types.Game{ID: gameID, Title: "Flash Cards", PointsReward: 20}
	stats := &types.UserStats{ID: uuid.New(), UserID: userID}

	svc, _, _, _, _, progressRepo := newCompletionFixture(t, stats)

	if _, err := svc.CompleteGame(context.Background(), userID, gameID, 100, 20, game); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	first, _ := progressRepo.GetByUserItem(context.Background(), nil, userID, ProgressItemTypeGame, gameID)
	if first == nil || first.CompletedAt == nil {
		t.Fatal("first completion did not set completed_at")
	}

	if _, err := svc.CompleteGame(context.Background(), userID, gameID, 60, 25, game); err != nil {
		t.Fatalf("second completion: %v", err)
	}
	second, _ := progressRepo.GetByUserItem(context.Background(), nil, userID, ProgressItemTypeGame, gameID)
	if second == nil || second.CompletedAt == nil {
		t.Fatal("second completion lost completed_at")
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("completed_at changed on replay: %v -> %v", first.CompletedAt, second.CompletedAt)
	}
	if len(progressRepo.rows) != 1 {
		t.Errorf("progress rows = %d, want singleton per (user, item)", len(progressRepo.rows))
	}
}

func TestCompleteGameReturnsPointsOnLateFailure(t *testing.T) {
	userID := uuid.New()
	gameID := uuid.New()
	game := &types.Game{ID: gameID, Title: "Word Hunt", PointsReward: 50}
	stats := &types.UserStats{ID: uuid.New(), UserID: userID}

	scoreRepo := &fakeGameScoreRepo{}
	statsRepo := &fakeUserStatsRepo{stats: stats}
	userRepo := &fakeUserRepo{addErr: context.DeadlineExceeded}
	svc := NewCompletionService(nil, testLogger(t), scoreRepo, statsRepo, userRepo, &fakeUserActivityRepo{}, &fakeUserProgressRepo{}, nil)

	points, err := svc.CompleteGame(context.Background(), userID, gameID, 90, 30, game)
	if err == nil {
		t.Fatal("expected error from failing points increment")
	}
	if points != 45 {
		t.Errorf("points = %d, want 45 even on failure", points)
	}
	// Earlier steps are not rolled back.
	if len(scoreRepo.scores) != 1 {
		t.Errorf("score rows = %d, want 1 (no compensation)", len(scoreRepo.scores))
	}
	if statsRepo.stats.TotalPoints != 45 {
		t.Errorf("total_points = %d, want 45 (no compensation)", statsRepo.stats.TotalPoints)
	}
}

func TestRecordStudySession(t *testing.T) {
	userID := uuid.New()
	stats := &types.UserStats{ID: uuid.New(), UserID: userID, StudySessions: 4}
	statsRepo := &fakeUserStatsRepo{stats: stats}
	activityRepo := &fakeUserActivityRepo{}
	svc := NewCompletionService(nil, testLogger(t), &fakeGameScoreRepo{}, statsRepo, &fakeUserRepo{}, activityRepo, &fakeUserProgressRepo{}, nil)

	if err := svc.RecordStudySession(context.Background(), userID, "fractions"); err != nil {
		t.Fatalf("RecordStudySession: %v", err)
	}
	if statsRepo.stats.StudySessions != 5 {
		t.Errorf("study_sessions = %d, want 5", statsRepo.stats.StudySessions)
	}
	if len(activityRepo.rows) != 1 {
		t.Fatalf("activity rows = %d, want 1", len(activityRepo.rows))
	}
	if activityRepo.rows[0].ActivityType != "study_session" {
		t.Errorf("activity type = %q, want study_session", activityRepo.rows[0].ActivityType)
	}
}
