package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/levelup-backend/internal/logger"
	"github.com/yungbote/levelup-backend/internal/types"
	"github.com/yungbote/levelup-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "levelup", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	theDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := theDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: theDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.UserStats{},
		&types.Game{},
		&types.GameScore{},
		&types.UserProgress{},
		&types.Achievement{},
		&types.UserAchievement{},
		&types.UserActivity{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// add_user_points is the single atomic write path for the canonical
	// user.points counter. The stats row is incremented separately by the
	// completion flow and can drift from this counter on partial failure.
	if err := s.db.Exec(`
		CREATE OR REPLACE FUNCTION add_user_points(p_user_id uuid, p_points_to_add integer)
		RETURNS void AS $$
		BEGIN
			UPDATE "user"
			SET points = points + p_points_to_add,
			    updated_at = now()
			WHERE id = p_user_id;
		END;
		$$ LANGUAGE plpgsql;
	`).Error; err != nil {
		s.log.Error("Failed to create add_user_points function", "error", err)
		return fmt.Errorf("failed to create add_user_points function: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
