package commission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

const (
	RecalcCreated = "created"
	RecalcSkipped = "skipped"
	RecalcError   = "error"
)

type RecalculationItem struct {
	ReceiptID     uint   `json:"receiptId"`
	ReceiptNumber int64  `json:"receiptNumber"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	RenewalType   string `json:"renewalType,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
}

type RecalculationResult struct {
	Processed int                 `json:"processed"`
	Created   int                 `json:"created"`
	Skipped   int                 `json:"skipped"`
	Errors    int                 `json:"errors"`
	Details   []RecalculationItem `json:"details"`
}

// Recalculate runs Calculate over every live renewal receipt that has no
// renewal commission yet. A failing receipt is recorded and the run goes on.
func (s *commissionService) Recalculate(ctx context.Context) (*RecalculationResult, error) {
	var receipts []schema.Receipt
	err := s.db.WithContext(ctx).
		Select("id", "receipt_number").
		Where("is_cancelled = ? AND TRIM(type) IN ?", false, schema.RenewalReceiptTypes).
		Where("NOT EXISTS (?)", s.db.Model(&schema.CoachCommission{}).
			Select("1").
			Where("coach_commissions.receipt_id = receipts.id AND coach_commissions.category = ?", schema.CategorySalesRenewal)).
		Order("id").
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("list receipts to recalculate: %w", err)
	}

	res := &RecalculationResult{Details: make([]RecalculationItem, 0, len(receipts))}
	for _, rc := range receipts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++
		item := RecalculationItem{ReceiptID: rc.ID, ReceiptNumber: rc.ReceiptNumber}

		out, err := s.Calculate(ctx, rc.ID)
		switch {
		case err != nil:
			res.Errors++
			item.Status = RecalcError
			item.Reason = err.Error()
			slog.WarnContext(ctx, "recalculation failed for receipt", "receipt_id", rc.ID, "error", err)
		case out.Eligible && !out.AlreadyProcessed:
			res.Created++
			item.Status = RecalcCreated
			item.RenewalType = string(out.RenewalType)
			item.Amount = out.Amount
		default:
			res.Skipped++
			item.Status = RecalcSkipped
			item.Reason = out.Reason
			if out.AlreadyProcessed {
				item.Reason = "already processed"
			}
		}
		res.Details = append(res.Details, item)
	}

	slog.InfoContext(ctx, "commission recalculation finished",
		"processed", res.Processed,
		"created", res.Created,
		"skipped", res.Skipped,
		"errors", res.Errors,
	)
	return res, nil
}
