package types

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is a static catalog entry with a monotonic points threshold.
type Achievement struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string    `gorm:"not null;column:name" json:"name"`
	Description    string    `gorm:"column:description" json:"description"`
	Category       string    `gorm:"column:category;not null;index" json:"category"`
	PointsRequired int       `gorm:"column:points_required;not null;default:0;index" json:"points_required"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Achievement) TableName() string { return "achievement" }
