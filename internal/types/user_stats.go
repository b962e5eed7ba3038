package types

import (
	"time"

	"github.com/google/uuid"
)

// UserStats is the denormalized per-user aggregate row. TotalPoints is
// maintained by independent increments (game completions, study sessions)
// and mirrors user.points without a shared transaction.
type UserStats struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TotalPoints   int       `gorm:"column:total_points;not null;default:0" json:"total_points"`
	GamesPlayed   int       `gorm:"column:games_played;not null;default:0" json:"games_played"`
	StudySessions int       `gorm:"column:study_sessions;not null;default:0" json:"study_sessions"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }
