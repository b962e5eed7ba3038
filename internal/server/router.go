package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/levelup-backend/internal/handlers"
	"github.com/yungbote/levelup-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	ServiceName    string
}

func NewRouter(
	cfg RouterConfig,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	gameHandler *handlers.GameHandler,
	achievementHandler *handlers.AchievementHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	sseHandler *handlers.SSEHandler,
) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Refresh-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "levelup-backend"
	}
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/healthz", handlers.HealthCheck)

	api := router.Group("/api/v1")

	public := api.Group("/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/auth/refresh", authHandler.Refresh)
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/stats", userHandler.GetMyStats)
		protected.GET("/me/activity", userHandler.GetMyActivity)
		protected.GET("/me/progress", userHandler.GetMyProgress)
		protected.GET("/me/scores", userHandler.GetMyScores)
		protected.POST("/me/study-sessions", userHandler.RecordStudySession)

		protected.GET("/games", gameHandler.ListGames)
		protected.GET("/games/:game_id", gameHandler.GetGame)
		protected.GET("/games/:game_id/high-score", gameHandler.GetHighScore)
		protected.POST("/games/:game_id/quiz", gameHandler.StartQuiz)
		protected.GET("/quiz/:session_id", gameHandler.GetQuizState)
		protected.POST("/quiz/:session_id/answer", gameHandler.AnswerQuiz)
		protected.POST("/quiz/:session_id/advance", gameHandler.AdvanceQuiz)

		protected.GET("/achievements", achievementHandler.GetProgress)
		protected.POST("/achievements/check", achievementHandler.CheckUnlocks)

		protected.GET("/leaderboard", leaderboardHandler.Top)

		protected.GET("/events", sseHandler.Stream)
	}

	return router
}
