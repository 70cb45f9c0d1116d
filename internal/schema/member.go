package schema

import "time"

type Member struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:150;not null;index" json:"name"`
	Phone string `gorm:"size:20;not null;uniqueIndex" json:"phone"`

	SubscriptionStart *time.Time `json:"subscriptionStart,omitempty"`
	SubscriptionEnd   *time.Time `gorm:"index" json:"subscriptionEnd,omitempty"`

	FreePTSessions        int `gorm:"not null;default:0" json:"freePtSessions"`
	FreeNutritionSessions int `gorm:"not null;default:0" json:"freeNutritionSessions"`
	FreeInvitations       int `gorm:"not null;default:0" json:"freeInvitations"`
	LoyaltyPoints         int `gorm:"not null;default:0" json:"loyaltyPoints"`

	AssignedCoachID  *uint  `gorm:"index" json:"assignedCoachId,omitempty"`
	AssignedCoach    *Staff `gorm:"foreignKey:AssignedCoachID" json:"assignedCoach,omitempty"`
	ReferringCoachID *uint  `gorm:"index" json:"referringCoachId,omitempty"`
	ReferringCoach   *Staff `gorm:"foreignKey:ReferringCoachID" json:"referringCoach,omitempty"`

	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
	Notes    string `gorm:"size:1000" json:"notes,omitempty"`

	Timestamps
}
