package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "pending"
	CommissionApproved CommissionStatus = "approved"
	CommissionPaid     CommissionStatus = "paid"
)

type CommissionCategory string

const (
	CategorySalesRenewal     CommissionCategory = "sales_renewal"
	CategorySalesTopAchiever CommissionCategory = "sales_top_achiever"
)

// CoachCommission is one earned bonus for a staff member, coach or sales.
//
// Type is the legacy wire form ("sales_renewal_gym_elite") and is always
// Category + "_" + Tier. The unique index on (receipt_id, category) keeps a
// receipt to a single renewal commission; rows without a receipt are exempt.
type CoachCommission struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CoachID uint   `gorm:"not null;index:idx_commission_coach_month,priority:1" json:"coachId"`
	Coach   *Staff `gorm:"foreignKey:CoachID" json:"coach,omitempty"`

	Type     string             `gorm:"size:80;not null" json:"type"`
	Category CommissionCategory `gorm:"size:40;not null;uniqueIndex:idx_commission_receipt_category,priority:2" json:"category"`
	Tier     string             `gorm:"size:40;not null" json:"tier"`

	Amount decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"amount"`
	Month  string           `gorm:"size:7;not null;index:idx_commission_coach_month,priority:2" json:"month"`
	Status CommissionStatus `gorm:"size:20;not null;index" json:"status"`

	ReceiptID *uint    `gorm:"uniqueIndex:idx_commission_receipt_category,priority:1" json:"receiptId,omitempty"`
	Receipt   *Receipt `json:"receipt,omitempty"`
	MemberID  *uint    `gorm:"index" json:"memberId,omitempty"`

	CalculationDetails datatypes.JSONMap `json:"calculationDetails,omitempty"`

	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`

	Timestamps
}
