package types

import (
	"time"

	"github.com/google/uuid"
)

// UserAchievement joins a user to an earned achievement. The composite
// unique index is the concurrency control for the unlock pass: a duplicate
// insert means "already earned" and is not an error.
type UserAchievement struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index:idx_user_achievement,unique" json:"user_id"`
	User          *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;index:idx_user_achievement,unique" json:"achievement_id"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE;foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`
	EarnedAt      time.Time    `gorm:"column:earned_at;not null;default:now()" json:"earned_at"`
	CreatedAt     time.Time    `gorm:"not null;default:now()" json:"created_at"`
}

func (UserAchievement) TableName() string { return "user_achievement" }
