package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Game is a static catalog entry. Questions holds the quiz question set as
// JSON; PointsReward is the maximum obtainable for a perfect score.
type Game struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title            string         `gorm:"not null;column:title" json:"title"`
	Description      string         `gorm:"column:description" json:"description"`
	Category         string         `gorm:"column:category;not null;index" json:"category"`
	Difficulty       string         `gorm:"column:difficulty;not null;default:'medium'" json:"difficulty"`
	PointsReward     int            `gorm:"column:points_reward;not null;default:0" json:"points_reward"`
	TimeLimitSeconds int            `gorm:"column:time_limit_seconds;not null;default:0" json:"time_limit_seconds"`
	Questions        datatypes.JSON `gorm:"type:jsonb;column:questions" json:"questions,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Game) TableName() string { return "game" }
