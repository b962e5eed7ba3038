package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserActivity is the append-only audit log. Write-only from the services
// here; the activity feed endpoint is the only reader.
type UserActivity struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ActivityType  string         `gorm:"column:activity_type;not null;index" json:"activity_type"`
	ActivityTitle string         `gorm:"column:activity_title;not null" json:"activity_title"`
	PointsEarned  int            `gorm:"column:points_earned;not null;default:0" json:"points_earned"`
	Data          datatypes.JSON `gorm:"type:jsonb;column:data" json:"data,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (UserActivity) TableName() string { return "user_activity" }
