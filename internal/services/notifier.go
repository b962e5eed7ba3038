package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/sse"
)

type AchievementNotification struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AchievementNotifier runs the unlock pass and pushes one transient
// notification per newly unlocked achievement. Delivery is best-effort:
// every error is logged and swallowed, never surfaced to the caller.
type AchievementNotifier interface {
	CheckAchievements(ctx context.Context, userID uuid.UUID)
}

type achievementNotifier struct {
	log                *logger.Logger
	achievementService AchievementService
	hub                *sse.SSEHub
}

func NewAchievementNotifier(log *logger.Logger, achievementService AchievementService, hub *sse.SSEHub) AchievementNotifier {
	serviceLog := log.With("service", "AchievementNotifier")
	return &achievementNotifier{
		log:                serviceLog,
		achievementService: achievementService,
		hub:                hub,
	}
}

func (an *achievementNotifier) CheckAchievements(ctx context.Context, userID uuid.UUID) {
	unlocked, err := an.achievementService.CheckAndUnlockAchievements(ctx, userID)
	if err != nil {
		an.log.Warn("Achievement check failed (ignored)", "user_id", userID, "error", err)
		return
	}
	if an.hub == nil {
		return
	}
	for _, achievement := range unlocked {
		an.hub.Broadcast(sse.SSEMessage{
			Channel: sse.UserChannel(userID),
			Event:   sse.SSEEventAchievementUnlocked,
			Data: AchievementNotification{
				Title:       "Achievement Unlocked!",
				Name:        achievement.Name,
				Description: achievement.Description,
			},
		})
	}
}
