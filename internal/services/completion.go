package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/clients/redis"
	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/repos"
	"github.com/yungbote/levelup-backend/internal/types"
)

const ProgressItemTypeGame = "game"

// CompletionService runs the game-completion sequence: score row, stats
// update, canonical point counter, activity log, progress upsert. Every step
// is an independent store call issued in this order on purpose: the score
// record and activity log should survive even when a later step fails. The
// two aggregate counters (user_stats.total_points and user.points) are NOT
// updated atomically with each other; a failure between them leaves them
// drifted until reconciled.
type CompletionService interface {
	// CompleteGame returns the computed points for the play-through. The
	// value reflects intent, not confirmed persisted state: it is computed
	// up front and returned even when a step after the score insert fails.
	// Calling it twice for the same play-through double-counts by design.
	CompleteGame(ctx context.Context, userID, gameID uuid.UUID, rawScore, timeTakenSeconds int, game *types.Game) (int, error)
	RecordStudySession(ctx context.Context, userID uuid.UUID, topic string) error
}

type completionService struct {
	db               *gorm.DB
	log              *logger.Logger
	gameScoreRepo    repos.GameScoreRepo
	userStatsRepo    repos.UserStatsRepo
	userRepo         repos.UserRepo
	userActivityRepo repos.UserActivityRepo
	userProgressRepo repos.UserProgressRepo
	leaderboard      redis.Leaderboard
}

func NewCompletionService(
	db *gorm.DB,
	log *logger.Logger,
	gameScoreRepo repos.GameScoreRepo,
	userStatsRepo repos.UserStatsRepo,
	userRepo repos.UserRepo,
	userActivityRepo repos.UserActivityRepo,
	userProgressRepo repos.UserProgressRepo,
	leaderboard redis.Leaderboard,
) CompletionService {
	serviceLog := log.With("service", "CompletionService")
	return &completionService{
		db:               db,
		log:              serviceLog,
		gameScoreRepo:    gameScoreRepo,
		userStatsRepo:    userStatsRepo,
		userRepo:         userRepo,
		userActivityRepo: userActivityRepo,
		userProgressRepo: userProgressRepo,
		leaderboard:      leaderboard,
	}
}

// CalculatePoints converts a raw percentage score into points. The raw score
// is clamped to [0,100] before scaling; the result is monotonically
// non-decreasing in rawScore.
func CalculatePoints(rawScore, pointsReward int) int {
	clamped := rawScore
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	if pointsReward <= 0 {
		return 0
	}
	return int(math.Round(float64(clamped) / 100 * float64(pointsReward)))
}

func (cs *completionService) CompleteGame(ctx context.Context, userID, gameID uuid.UUID, rawScore, timeTakenSeconds int, game *types.Game) (int, error) {
	if game == nil {
		return 0, fmt.Errorf("game required")
	}

	pointsEarned := CalculatePoints(rawScore, game.PointsReward)

	// Step 1: append the score row. History is kept; duplicates allowed.
	score := &types.GameScore{
		ID:               uuid.New(),
		UserID:           userID,
		GameID:           gameID,
		Score:            rawScore,
		TimeTakenSeconds: timeTakenSeconds,
	}
	if _, err := cs.gameScoreRepo.Create(ctx, nil, []*types.GameScore{score}); err != nil {
		return pointsEarned, fmt.Errorf("failed to record game score: %w", err)
	}

	// Step 2: update the stats aggregate if the row exists. The row is
	// seeded at registration; when it is missing we skip rather than create,
	// matching the signup-owns-creation contract.
	stats, err := cs.userStatsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return pointsEarned, fmt.Errorf("failed to read user stats: %w", err)
	}
	if stats != nil {
		stats.TotalPoints += pointsEarned
		stats.GamesPlayed++
		if err := cs.userStatsRepo.Update(ctx, nil, stats); err != nil {
			return pointsEarned, fmt.Errorf("failed to update user stats: %w", err)
		}
	} else {
		cs.log.Warn("No stats row for user; skipping aggregate update", "user_id", userID)
	}

	// Step 3: increment the canonical counter through add_user_points. Not
	// atomic with the stats update above.
	if err := cs.userRepo.AddPoints(ctx, nil, userID, pointsEarned); err != nil {
		return pointsEarned, fmt.Errorf("failed to add user points: %w", err)
	}

	if cs.leaderboard != nil {
		if err := cs.leaderboard.IncrementScore(ctx, userID, pointsEarned); err != nil {
			cs.log.Warn("Leaderboard increment failed (ignored)", "user_id", userID, "error", err)
		}
	}

	// Step 4: activity log entry.
	activity := &types.UserActivity{
		ID:            uuid.New(),
		UserID:        userID,
		ActivityType:  "game_completed",
		ActivityTitle: fmt.Sprintf("Completed %s", game.Title),
		PointsEarned:  pointsEarned,
	}
	if _, err := cs.userActivityRepo.Create(ctx, nil, []*types.UserActivity{activity}); err != nil {
		return pointsEarned, fmt.Errorf("failed to log activity: %w", err)
	}

	// Step 5: mark the game's progress row complete. Idempotent at 100%.
	if err := cs.upsertProgress(ctx, userID, ProgressItemTypeGame, gameID, 100); err != nil {
		return pointsEarned, fmt.Errorf("failed to update progress: %w", err)
	}

	cs.log.Info("Game completed", "user_id", userID, "game_id", gameID, "score", rawScore, "points", pointsEarned)
	return pointsEarned, nil
}

// upsertProgress creates or updates the (user, itemType, itemID) singleton.
// completed_at is set on the first transition to completed and never touched
// again.
func (cs *completionService) upsertProgress(ctx context.Context, userID uuid.UUID, itemType string, itemID uuid.UUID, percentage int) error {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	completed := percentage >= 100

	existing, err := cs.userProgressRepo.GetByUserItem(ctx, nil, userID, itemType, itemID)
	if err != nil {
		return err
	}
	if existing == nil {
		row := &types.UserProgress{
			ID:                 uuid.New(),
			UserID:             userID,
			ItemType:           itemType,
			ItemID:             itemID,
			ProgressPercentage: percentage,
			Completed:          completed,
		}
		if completed {
			now := time.Now().UTC()
			row.CompletedAt = &now
		}
		_, err := cs.userProgressRepo.Create(ctx, nil, row)
		return err
	}

	existing.ProgressPercentage = percentage
	existing.Completed = completed
	if completed && existing.CompletedAt == nil {
		now := time.Now().UTC()
		existing.CompletedAt = &now
	}
	return cs.userProgressRepo.Update(ctx, nil, existing)
}

func (cs *completionService) RecordStudySession(ctx context.Context, userID uuid.UUID, topic string) error {
	if err := cs.userStatsRepo.IncrementStudySessions(ctx, nil, userID); err != nil {
		return fmt.Errorf("failed to increment study sessions: %w", err)
	}
	activity := &types.UserActivity{
		ID:            uuid.New(),
		UserID:        userID,
		ActivityType:  "study_session",
		ActivityTitle: fmt.Sprintf("Studied %s", topic),
	}
	if _, err := cs.userActivityRepo.Create(ctx, nil, []*types.UserActivity{activity}); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}
