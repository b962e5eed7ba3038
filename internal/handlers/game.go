package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/requestdata"
	"github.com/yungbote/levelup-backend/internal/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (gh *GameHandler) ListGames(c *gin.Context) {
	games, err := gh.gameService.ListGames(c.Request.Context(), c.Query("category"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, gin.H{"games": games})
}

func (gh *GameHandler) GetGame(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("game_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_game_id", err)
		return
	}
	game, err := gh.gameService.GetGame(c.Request.Context(), gameID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "game_not_found", err)
		return
	}
	RespondOK(c, game)
}

func (gh *GameHandler) GetHighScore(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("game_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_game_id", err)
		return
	}
	userID, ok := authedUserID(c)
	if !ok {
		return
	}
	score, err := gh.gameService.GetHighScore(c.Request.Context(), userID, gameID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "fetch_failed", err)
		return
	}
	RespondOK(c, gin.H{"high_score": score})
}

func (gh *GameHandler) StartQuiz(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("game_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_game_id", err)
		return
	}
	userID, ok := authedUserID(c)
	if !ok {
		return
	}
	snapshot, err := gh.gameService.StartQuiz(c.Request.Context(), userID, gameID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "start_failed", err)
		return
	}
	RespondOK(c, snapshot)
}

func (gh *GameHandler) AnswerQuiz(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	userID, ok := authedUserID(c)
	if !ok {
		return
	}
	var req struct {
		OptionIndex int `json:"option_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	snapshot, err := gh.gameService.AnswerQuiz(c.Request.Context(), userID, sessionID, req.OptionIndex)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "answer_failed", err)
		return
	}
	RespondOK(c, snapshot)
}

func (gh *GameHandler) AdvanceQuiz(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	userID, ok := authedUserID(c)
	if !ok {
		return
	}
	snapshot, err := gh.gameService.AdvanceQuiz(c.Request.Context(), userID, sessionID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "advance_failed", err)
		return
	}
	RespondOK(c, snapshot)
}

func (gh *GameHandler) GetQuizState(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	userID, ok := authedUserID(c)
	if !ok {
		return
	}
	snapshot, err := gh.gameService.GetQuizState(c.Request.Context(), userID, sessionID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "session_not_found", err)
		return
	}
	RespondOK(c, snapshot)
}

func authedUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return rd.UserID, true
}
