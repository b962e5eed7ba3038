package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/levelup-backend/internal/services"
)

type AchievementHandler struct {
	achievementService services.AchievementService
}

func NewAchievementHandler(achievementService services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

func (ah *AchievementHandler) GetProgress(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}
	progress, err := ah.achievementService.GetUserAchievementProgress(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, gin.H{"achievements": progress})
}

func (ah *AchievementHandler) CheckUnlocks(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}
	unlocked, err := ah.achievementService.CheckAndUnlockAchievements(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "check_failed", err)
		return
	}
	RespondOK(c, gin.H{"unlocked": unlocked})
}
