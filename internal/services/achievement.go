package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/repos"
	"github.com/yungbote/levelup-backend/internal/types"
)

type AchievementProgress struct {
	Achievement        *types.Achievement `json:"achievement"`
	Progress           int                `json:"progress"`
	ProgressPercentage int                `json:"progress_percentage"`
	Earned             bool               `json:"earned"`
}

type AchievementService interface {
	GetUserAchievementProgress(ctx context.Context, userID uuid.UUID) ([]AchievementProgress, error)
	// CheckAndUnlockAchievements sweeps the catalog once in ascending
	// points_required order and inserts a row for every definition that
	// qualifies and is not yet earned. A single point-earning event can
	// unlock several achievements in one pass. Insert failures (duplicate
	// key from a concurrent unlock) are swallowed; such achievements are
	// simply omitted from the returned list.
	CheckAndUnlockAchievements(ctx context.Context, userID uuid.UUID) ([]*types.Achievement, error)
}

type achievementService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo
	userStatsRepo       repos.UserStatsRepo
}

func NewAchievementService(
	db *gorm.DB,
	log *logger.Logger,
	achievementRepo repos.AchievementRepo,
	userAchievementRepo repos.UserAchievementRepo,
	userStatsRepo repos.UserStatsRepo,
) AchievementService {
	serviceLog := log.With("service", "AchievementService")
	return &achievementService{
		db:                  db,
		log:                 serviceLog,
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
		userStatsRepo:       userStatsRepo,
	}
}

// achievementPercentage caps progress at the threshold. A zero (or negative)
// threshold is always at 100%.
func achievementPercentage(totalPoints, pointsRequired int) (progress int, percentage int) {
	if pointsRequired <= 0 {
		return 0, 100
	}
	progress = totalPoints
	if progress > pointsRequired {
		progress = pointsRequired
	}
	if progress < 0 {
		progress = 0
	}
	percentage = int(math.Round(float64(progress) / float64(pointsRequired) * 100))
	return progress, percentage
}

func (as *achievementService) fetchProgressInputs(ctx context.Context, userID uuid.UUID) ([]*types.Achievement, map[uuid.UUID]bool, int, error) {
	var (
		definitions []*types.Achievement
		earnedRows  []*types.UserAchievement
		stats       *types.UserStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := as.achievementRepo.ListOrdered(gctx, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch achievements: %w", err)
		}
		definitions = rows
		return nil
	})
	g.Go(func() error {
		rows, err := as.userAchievementRepo.ListByUser(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch earned achievements: %w", err)
		}
		earnedRows = rows
		return nil
	})
	g.Go(func() error {
		row, err := as.userStatsRepo.GetByUserID(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch user stats: %w", err)
		}
		stats = row
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, 0, err
	}

	earnedSet := make(map[uuid.UUID]bool, len(earnedRows))
	for _, row := range earnedRows {
		earnedSet[row.AchievementID] = true
	}

	totalPoints := 0
	if stats != nil {
		totalPoints = stats.TotalPoints
	}
	return definitions, earnedSet, totalPoints, nil
}

func (as *achievementService) GetUserAchievementProgress(ctx context.Context, userID uuid.UUID) ([]AchievementProgress, error) {
	definitions, earnedSet, totalPoints, err := as.fetchProgressInputs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]AchievementProgress, 0, len(definitions))
	for _, def := range definitions {
		progress, percentage := achievementPercentage(totalPoints, def.PointsRequired)
		out = append(out, AchievementProgress{
			Achievement:        def,
			Progress:           progress,
			ProgressPercentage: percentage,
			Earned:             earnedSet[def.ID],
		})
	}
	return out, nil
}

func (as *achievementService) CheckAndUnlockAchievements(ctx context.Context, userID uuid.UUID) ([]*types.Achievement, error) {
	definitions, earnedSet, totalPoints, err := as.fetchProgressInputs(ctx, userID)
	if err != nil {
		return nil, err
	}

	newlyUnlocked := []*types.Achievement{}
	for _, def := range definitions {
		if earnedSet[def.ID] {
			continue
		}
		_, percentage := achievementPercentage(totalPoints, def.PointsRequired)
		if percentage < 100 {
			continue
		}
		earned := &types.UserAchievement{
			ID:            uuid.New(),
			UserID:        userID,
			AchievementID: def.ID,
		}
		if _, insErr := as.userAchievementRepo.Create(ctx, nil, earned); insErr != nil {
			// Unique constraint on (user_id, achievement_id): a failed
			// insert means it was earned concurrently or previously.
			as.log.Debug("Achievement insert skipped", "user_id", userID, "achievement_id", def.ID, "error", insErr)
			continue
		}
		newlyUnlocked = append(newlyUnlocked, def)
	}
	return newlyUnlocked, nil
}
