package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/yungbote/levelup-backend/internal/clients/redis"
	"github.com/yungbote/levelup-backend/internal/db"
	"github.com/yungbote/levelup-backend/internal/handlers"
	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/middleware"
	"github.com/yungbote/levelup-backend/internal/observability"
	"github.com/yungbote/levelup-backend/internal/quiz"
	"github.com/yungbote/levelup-backend/internal/repos"
	"github.com/yungbote/levelup-backend/internal/server"
	"github.com/yungbote/levelup-backend/internal/services"
	"github.com/yungbote/levelup-backend/internal/sse"
	"github.com/yungbote/levelup-backend/internal/utils"
)

func main() {
	mode := os.Getenv("APP_ENV")
	if mode == "" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "levelup-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(shutdownCtx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("failed to connect to postgres", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	gormDB := pg.DB()

	userRepo := repos.NewUserRepo(gormDB, log)
	userTokenRepo := repos.NewUserTokenRepo(gormDB, log)
	userStatsRepo := repos.NewUserStatsRepo(gormDB, log)
	gameRepo := repos.NewGameRepo(gormDB, log)
	gameScoreRepo := repos.NewGameScoreRepo(gormDB, log)
	userProgressRepo := repos.NewUserProgressRepo(gormDB, log)
	achievementRepo := repos.NewAchievementRepo(gormDB, log)
	userAchievementRepo := repos.NewUserAchievementRepo(gormDB, log)
	userActivityRepo := repos.NewUserActivityRepo(gormDB, log)

	// Optional infrastructure: the API degrades rather than refuses to boot.
	leaderboard, err := redis.NewLeaderboard(log)
	if err != nil {
		log.Warn("Redis leaderboard unavailable, using stats fallback", "error", err)
		leaderboard = nil
	}

	var avatarService services.AvatarService
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("bucket service unavailable, avatars disabled", "error", err)
	} else {
		avatarService, err = services.NewAvatarService(log, bucketService)
		if err != nil {
			log.Warn("avatar service unavailable, avatars disabled", "error", err)
			avatarService = nil
		}
	}

	jwtSecret := utils.GetEnv("JWT_SECRET_KEY", "", log)
	if strings.TrimSpace(jwtSecret) == "" {
		log.Fatal("JWT_SECRET_KEY must be set")
	}
	accessTTL := time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 15, log)) * time.Minute
	refreshTTL := time.Duration(utils.GetEnvAsInt("REFRESH_TOKEN_TTL_HOURS", 720, log)) * time.Hour

	hub := sse.NewSSEHub(log)
	sessions := quiz.NewManager(log)

	authService := services.NewAuthService(gormDB, log, userRepo, userStatsRepo, userTokenRepo, avatarService, jwtSecret, accessTTL, refreshTTL)
	completionService := services.NewCompletionService(gormDB, log, gameScoreRepo, userStatsRepo, userRepo, userActivityRepo, userProgressRepo, leaderboard)
	achievementService := services.NewAchievementService(gormDB, log, achievementRepo, userAchievementRepo, userStatsRepo)
	notifier := services.NewAchievementNotifier(log, achievementService, hub)
	gameService := services.NewGameService(gormDB, log, gameRepo, gameScoreRepo, completionService, notifier, hub, sessions)
	userService := services.NewUserService(gormDB, log, userRepo, userStatsRepo, userActivityRepo, userProgressRepo, gameScoreRepo)
	leaderboardService := services.NewLeaderboardService(gormDB, log, leaderboard, userStatsRepo, userRepo)

	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, completionService)
	gameHandler := handlers.NewGameHandler(gameService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	sseHandler := handlers.NewSSEHandler(hub)

	origins := strings.Split(utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	router := server.NewRouter(
		server.RouterConfig{AllowedOrigins: origins, ServiceName: "levelup-backend"},
		authMiddleware,
		authHandler,
		userHandler,
		gameHandler,
		achievementHandler,
		leaderboardHandler,
		sseHandler,
	)

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
