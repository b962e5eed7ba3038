package types

import (
	"time"

	"github.com/google/uuid"
)

// GameScore is append-only. A user may have many rows per game; the high
// score is derived by ordering at query time, never stored.
type GameScore struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index:idx_score_user_game" json:"user_id"`
	User             *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	GameID           uuid.UUID `gorm:"type:uuid;not null;index:idx_score_user_game" json:"game_id"`
	Game             *Game     `gorm:"constraint:OnDelete:CASCADE;foreignKey:GameID;references:ID" json:"game,omitempty"`
	Score            int       `gorm:"column:score;not null" json:"score"`
	TimeTakenSeconds int       `gorm:"column:time_taken_seconds;not null;default:0" json:"time_taken_seconds"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (GameScore) TableName() string { return "game_score" }
