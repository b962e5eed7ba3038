package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/quiz"
	"github.com/yungbote/levelup-backend/internal/repos"
	"github.com/yungbote/levelup-backend/internal/sse"
	"github.com/yungbote/levelup-backend/internal/types"
)

type GameService interface {
	ListGames(ctx context.Context, category string) ([]*types.Game, error)
	GetGame(ctx context.Context, gameID uuid.UUID) (*types.Game, error)
	GetHighScore(ctx context.Context, userID, gameID uuid.UUID) (*types.GameScore, error)

	StartQuiz(ctx context.Context, userID, gameID uuid.UUID) (quiz.Snapshot, error)
	AnswerQuiz(ctx context.Context, userID, sessionID uuid.UUID, optionIndex int) (quiz.Snapshot, error)
	AdvanceQuiz(ctx context.Context, userID, sessionID uuid.UUID) (quiz.Snapshot, error)
	GetQuizState(ctx context.Context, userID, sessionID uuid.UUID) (quiz.Snapshot, error)
}

type gameService struct {
	db                *gorm.DB
	log               *logger.Logger
	gameRepo          repos.GameRepo
	gameScoreRepo     repos.GameScoreRepo
	completionService CompletionService
	notifier          AchievementNotifier
	hub               *sse.SSEHub
	sessions          *quiz.Manager
}

func NewGameService(
	db *gorm.DB,
	log *logger.Logger,
	gameRepo repos.GameRepo,
	gameScoreRepo repos.GameScoreRepo,
	completionService CompletionService,
	notifier AchievementNotifier,
	hub *sse.SSEHub,
	sessions *quiz.Manager,
) GameService {
	serviceLog := log.With("service", "GameService")
	return &gameService{
		db:                db,
		log:               serviceLog,
		gameRepo:          gameRepo,
		gameScoreRepo:     gameScoreRepo,
		completionService: completionService,
		notifier:          notifier,
		hub:               hub,
		sessions:          sessions,
	}
}

func (gs *gameService) ListGames(ctx context.Context, category string) ([]*types.Game, error) {
	return gs.gameRepo.List(ctx, nil, category)
}

func (gs *gameService) GetGame(ctx context.Context, gameID uuid.UUID) (*types.Game, error) {
	found, err := gs.gameRepo.GetByIDs(ctx, nil, []uuid.UUID{gameID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("game not found")
	}
	return found[0], nil
}

func (gs *gameService) GetHighScore(ctx context.Context, userID, gameID uuid.UUID) (*types.GameScore, error) {
	return gs.gameScoreRepo.HighScore(ctx, nil, userID, gameID)
}

func (gs *gameService) StartQuiz(ctx context.Context, userID, gameID uuid.UUID) (quiz.Snapshot, error) {
	game, err := gs.GetGame(ctx, gameID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	questions, err := quiz.ParseQuestions(game.Questions)
	if err != nil {
		return quiz.Snapshot{}, err
	}

	session, err := gs.sessions.StartSession(quiz.SessionConfig{
		UserID:           userID,
		GameID:           gameID,
		Questions:        questions,
		TimeLimitSeconds: game.TimeLimitSeconds,
		OnComplete:       gs.completionFunc(userID, game),
	})
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// completionFunc builds the once-per-play-through callback. It runs on a
// background context: the session can finish from its own timer long after
// the originating request is gone, and writes issued here are never
// retracted on client disconnect.
func (gs *gameService) completionFunc(userID uuid.UUID, game *types.Game) quiz.CompletionFunc {
	return func(score int, timeElapsedSeconds int) {
		ctx := context.Background()

		pointsEarned, err := gs.completionService.CompleteGame(ctx, userID, game.ID, score, timeElapsedSeconds, game)
		if err != nil {
			gs.log.Warn("Game completion flow failed", "user_id", userID, "game_id", game.ID, "error", err)
		}

		if gs.hub != nil {
			gs.hub.Broadcast(sse.SSEMessage{
				Channel: sse.UserChannel(userID),
				Event:   sse.SSEEventPointsAwarded,
				Data: map[string]any{
					"game_id":       game.ID,
					"score":         score,
					"points_earned": pointsEarned,
					"time_elapsed":  timeElapsedSeconds,
				},
			})
		}

		if gs.notifier != nil {
			go gs.notifier.CheckAchievements(ctx, userID)
		}
	}
}

func (gs *gameService) ownedSession(userID, sessionID uuid.UUID) (*quiz.Session, error) {
	session, err := gs.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session not found")
	}
	return session, nil
}

func (gs *gameService) AnswerQuiz(ctx context.Context, userID, sessionID uuid.UUID, optionIndex int) (quiz.Snapshot, error) {
	session, err := gs.ownedSession(userID, sessionID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	if err := session.Answer(optionIndex); err != nil {
		return quiz.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (gs *gameService) AdvanceQuiz(ctx context.Context, userID, sessionID uuid.UUID) (quiz.Snapshot, error) {
	session, err := gs.ownedSession(userID, sessionID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	session.Advance()
	return session.Snapshot(), nil
}

func (gs *gameService) GetQuizState(ctx context.Context, userID, sessionID uuid.UUID) (quiz.Snapshot, error) {
	session, err := gs.ownedSession(userID, sessionID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return session.Snapshot(), nil
}
