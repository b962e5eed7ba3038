package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress is a per (user, item_type, item_id) singleton. Completed is
// true iff ProgressPercentage >= 100, and CompletedAt is set on the first
// transition only.
type UserProgress struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_item,unique" json:"user_id"`
	User               *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ItemType           string     `gorm:"column:item_type;not null;index:idx_user_item,unique" json:"item_type"`
	ItemID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_item,unique" json:"item_id"`
	ProgressPercentage int        `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	Completed          bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt        *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt          time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }
