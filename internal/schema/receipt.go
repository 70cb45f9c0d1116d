package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt types as printed on the receipt. Only the renewal types feed the
// sales commission pipeline.
const (
	ReceiptTypeMembershipRenewal = "تجديد عضويه"
	ReceiptTypePTRenewal         = "تجديد برايفت"
	ReceiptTypePhysioRenewal     = "تجديد علاج طبيعي"
	ReceiptTypeNutritionRenewal  = "تجديد تغذيه"
	ReceiptTypeClassesRenewal    = "تجديد كلاسات"
	ReceiptTypeNewMembership     = "اشتراك جديد"
	ReceiptTypeRemainingPayment  = "دفع باقي"
)

// RenewalReceiptTypes are the receipt types that can carry a sales renewal commission.
var RenewalReceiptTypes = []string{
	ReceiptTypeMembershipRenewal,
	ReceiptTypePTRenewal,
	ReceiptTypePhysioRenewal,
	ReceiptTypeNutritionRenewal,
	ReceiptTypeClassesRenewal,
}

// Receipt is written once at sale time and only ever mutated to cancel it.
// StaffName is the free text typed at the counter, not a foreign key.
type Receipt struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReceiptNumber int64           `gorm:"not null;uniqueIndex" json:"receiptNumber"`
	Type          string          `gorm:"size:100;not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:50" json:"paymentMethod"`
	StaffName     string          `gorm:"size:150;not null" json:"staffName"`
	RenewalType   *string         `gorm:"size:40;index" json:"renewalType,omitempty"`

	MemberID *uint   `gorm:"index" json:"memberId,omitempty"`
	Member   *Member `json:"member,omitempty"`

	// ItemDetails is a JSON object whose shape depends on Type. Legacy rows
	// may hold text that does not parse.
	ItemDetails string `gorm:"type:text" json:"itemDetails,omitempty"`

	IsCancelled  bool       `gorm:"not null;default:false;index" json:"isCancelled"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy  *string    `gorm:"size:150" json:"cancelledBy,omitempty"`
	CancelReason string     `gorm:"size:500" json:"cancelReason,omitempty"`

	Timestamps
}

const ReceiptCounterName = "receipt"

// ReceiptCounter backs atomic receipt numbering via an increment-on-upsert.
type ReceiptCounter struct {
	Name  string `gorm:"primaryKey;size:40"`
	Value int64  `gorm:"not null"`
}
