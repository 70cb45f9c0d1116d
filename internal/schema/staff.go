package schema

import "github.com/google/uuid"

// Positions are free text on the staff record; these are the two the
// commission pipeline cares about.
const (
	PositionSales = "ريسبشن"
	PositionCoach = "مدرب"
)

type Staff struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:150;not null;index" json:"name"`
	Position   string     `gorm:"size:80;not null;index" json:"position"`
	Phone      *string    `gorm:"size:20" json:"phone,omitempty"`
	Email      *string    `gorm:"size:255" json:"email,omitempty"`
	IsActive   bool       `gorm:"not null;default:true;index" json:"isActive"`
	IsTopSales bool       `gorm:"not null;default:false" json:"isTopSales"`
	UserID     *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"userId,omitempty"`

	Timestamps
}

func (Staff) TableName() string { return "staff" }
