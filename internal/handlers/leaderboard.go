package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/levelup-backend/internal/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (lh *LeaderboardHandler) Top(c *gin.Context) {
	rows, err := lh.leaderboardService.Top(c.Request.Context(), parseLimit(c, 10))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, gin.H{"leaderboard": rows})
}
