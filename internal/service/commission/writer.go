package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

type SalesRenewalInput struct {
	StaffID     uint
	RenewalType RenewalType
	Amount      int64
	ReceiptID   uint
	MemberID    *uint
	Month       string
	Details     map[string]any
}

// Writer persists commission rows.
type Writer struct {
	db *gorm.DB
}

func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

// FindSalesRenewal returns the renewal commission already recorded for a
// receipt, or nil.
func (w *Writer) FindSalesRenewal(ctx context.Context, receiptID uint) (*schema.CoachCommission, error) {
	var c schema.CoachCommission
	err := w.db.WithContext(ctx).
		Where("receipt_id = ? AND category = ?", receiptID, schema.CategorySalesRenewal).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find renewal commission for receipt %d: %w", receiptID, err)
	}
	return &c, nil
}

// CreateSalesRenewal inserts one pending renewal commission. The unique
// (receipt_id, category) index makes the insert a no-op when the receipt is
// already paid out; created is false in that case.
func (w *Writer) CreateSalesRenewal(ctx context.Context, in SalesRenewalInput) (*schema.CoachCommission, bool, error) {
	kind := SalesRenewalKind(in.RenewalType)
	receiptID := in.ReceiptID

	c := &schema.CoachCommission{
		CoachID:            in.StaffID,
		Type:               kind.String(),
		Category:           kind.Category,
		Tier:               kind.Tier,
		Amount:             decimal.NewFromInt(in.Amount),
		Month:              in.Month,
		Status:             schema.CommissionPending,
		ReceiptID:          &receiptID,
		MemberID:           in.MemberID,
		CalculationDetails: datatypes.JSONMap(in.Details),
	}

	res := w.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return nil, false, fmt.Errorf("create renewal commission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return c, true, nil
}

// createApproved inserts an already-approved award inside tx.
func createApproved(tx *gorm.DB, staffID uint, kind Kind, amount int64, month string, now time.Time, details map[string]any) (*schema.CoachCommission, error) {
	c := &schema.CoachCommission{
		CoachID:            staffID,
		Type:               kind.String(),
		Category:           kind.Category,
		Tier:               kind.Tier,
		Amount:             decimal.NewFromInt(amount),
		Month:              month,
		Status:             schema.CommissionApproved,
		ApprovedAt:         &now,
		CalculationDetails: datatypes.JSONMap(details),
	}
	if err := tx.Create(c).Error; err != nil {
		return nil, fmt.Errorf("create %s award: %w", kind, err)
	}
	return c, nil
}
