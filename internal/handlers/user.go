package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/requestdata"
	"github.com/yungbote/levelup-backend/internal/services"
)

type UserHandler struct {
	userService       services.UserService
	completionService services.CompletionService
}

func NewUserHandler(userService services.UserService, completionService services.CompletionService) *UserHandler {
	return &UserHandler{userService: userService, completionService: completionService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) GetMyStats(c *gin.Context) {
	stats, err := uh.userService.GetMyStats(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, stats)
}

func (uh *UserHandler) GetMyActivity(c *gin.Context) {
	limit := parseLimit(c, 20)
	activity, err := uh.userService.GetMyActivity(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, gin.H{"activity": activity})
}

func (uh *UserHandler) GetMyProgress(c *gin.Context) {
	itemType := c.Query("item_type")
	progress, err := uh.userService.GetMyProgress(c.Request.Context(), itemType)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

func (uh *UserHandler) GetMyScores(c *gin.Context) {
	limit := parseLimit(c, 20)
	var gameID *uuid.UUID
	if raw := c.Query("game_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_game_id", err)
			return
		}
		gameID = &parsed
	}
	scores, err := uh.userService.GetMyScores(c.Request.Context(), gameID, limit)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, gin.H{"scores": scores})
}

func (uh *UserHandler) RecordStudySession(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if err := uh.completionService.RecordStudySession(c.Request.Context(), rd.UserID, req.Topic); err != nil {
		RespondError(c, http.StatusBadRequest, "record_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
