package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
	"github.com/Alijeyrad/gymdesk_backend/pkg/email"
	"github.com/Alijeyrad/gymdesk_backend/pkg/reqctx"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Settle marks every unpaid commission of a coach for a month as paid.
	Settle(ctx context.Context, req SettleRequest) (*SettleResult, error)
	// Status reports per-coach paid and unpaid totals for a month.
	Status(ctx context.Context, month string) (*StatusResult, error)
}

// MonthInvalidator drops cached commission reports for a month.
type MonthInvalidator interface {
	InvalidateMonth(ctx context.Context, month string)
}

// ---------------------------------------------------------------------------
// Request / Response types
// ---------------------------------------------------------------------------

type SettleRequest struct {
	CoachID   uint   `json:"coachId" validate:"required"`
	Month     string `json:"month" validate:"required"`
	CoachName string `json:"coachName,omitempty"`
}

type SettleResult struct {
	CoachID      uint            `json:"coachId"`
	CoachName    string          `json:"coachName"`
	Month        string          `json:"month"`
	UpdatedCount int64           `json:"updatedCount"`
	PaidTotal    decimal.Decimal `json:"paidTotal"`
	PaidAt       time.Time       `json:"paidAt"`
}

type CoachStatus struct {
	CoachID      uint            `json:"coachId"`
	CoachName    string          `json:"coachName"`
	Position     string          `json:"position"`
	TotalCount   int             `json:"totalCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaidCount    int             `json:"paidCount"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	UnpaidCount  int             `json:"unpaidCount"`
	UnpaidAmount decimal.Decimal `json:"unpaidAmount"`
	Status       string          `json:"status"`
	LastPaidAt   *time.Time      `json:"lastPaidAt,omitempty"`
}

type StatusResult struct {
	Month   string        `json:"month"`
	Coaches []CoachStatus `json:"coaches"`
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type settlementService struct {
	db          *gorm.DB
	sender      email.Sender
	gymName     string
	currency    string
	invalidator MonthInvalidator
	now         func() time.Time
}

// New builds the settlement service. sender may be nil to disable statements.
func New(db *gorm.DB, sender email.Sender, gymName, currency string, invalidator MonthInvalidator) Service {
	return &settlementService{
		db:          db,
		sender:      sender,
		gymName:     gymName,
		currency:    currency,
		invalidator: invalidator,
		now:         time.Now,
	}
}

func (s *settlementService) Settle(ctx context.Context, req SettleRequest) (*SettleResult, error) {
	if req.Month == "" {
		return nil, ErrMonthRequired
	}
	month, err := commission.ParseMonth(req.Month)
	if err != nil {
		return nil, err
	}

	var coach schema.Staff
	err = s.db.WithContext(ctx).First(&coach, req.CoachID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get coach %d: %w", req.CoachID, err)
	}

	now := s.now()
	res := &SettleResult{
		CoachID:   coach.ID,
		CoachName: coach.Name,
		Month:     month,
		PaidTotal: decimal.Zero,
		PaidAt:    now,
	}

	var settled []schema.CoachCommission
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("coach_id = ? AND month = ? AND status <> ?", coach.ID, month, schema.CommissionPaid).
			Order("id").
			Find(&settled).Error; err != nil {
			return fmt.Errorf("list unpaid commissions: %w", err)
		}
		if len(settled) == 0 {
			return nil
		}

		ids := make([]uint, len(settled))
		for i, c := range settled {
			ids[i] = c.ID
		}
		upd := tx.Model(&schema.CoachCommission{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"status":  schema.CommissionPaid,
				"paid_at": now,
			})
		if upd.Error != nil {
			return fmt.Errorf("mark commissions paid: %w", upd.Error)
		}
		res.UpdatedCount = upd.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range settled {
		res.PaidTotal = res.PaidTotal.Add(c.Amount)
	}

	if res.UpdatedCount > 0 {
		if s.invalidator != nil {
			s.invalidator.InvalidateMonth(ctx, month)
		}
		s.sendStatement(ctx, coach, month, settled, res)
	}

	by, _ := reqctx.UsernameFromContext(ctx)
	slog.InfoContext(ctx, "commissions settled",
		"coach_id", coach.ID,
		"month", month,
		"count", res.UpdatedCount,
		"total", res.PaidTotal.String(),
		"settled_by", by,
	)
	return res, nil
}

// sendStatement emails the paid-out lines. Failures are logged only.
func (s *settlementService) sendStatement(ctx context.Context, coach schema.Staff, month string, rows []schema.CoachCommission, res *SettleResult) {
	if s.sender == nil || coach.Email == nil || *coach.Email == "" {
		return
	}

	lines := make([]email.StatementLine, len(rows))
	for i, c := range rows {
		lines[i] = email.StatementLine{Type: c.Type, Amount: c.Amount.StringFixed(2)}
	}
	msg, err := email.BuildSettlementStatement(*coach.Email, email.SettlementStatementData{
		GymName:   s.gymName,
		StaffName: coach.Name,
		Month:     month,
		Currency:  s.currency,
		Lines:     lines,
		Total:     res.PaidTotal.StringFixed(2),
		PaidAt:    res.PaidAt,
	})
	if err == nil {
		err = s.sender.Send(ctx, msg)
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to send settlement statement",
			"coach_id", coach.ID,
			"month", month,
			"error", err,
		)
	}
}

func (s *settlementService) Status(ctx context.Context, month string) (*StatusResult, error) {
	if month == "" {
		return nil, ErrMonthRequired
	}
	month, err := commission.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	var rows []schema.CoachCommission
	if err := s.db.WithContext(ctx).
		Preload("Coach").
		Where("month = ?", month).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}

	byCoach := map[uint]*CoachStatus{}
	for _, c := range rows {
		cs, ok := byCoach[c.CoachID]
		if !ok {
			cs = &CoachStatus{
				CoachID:      c.CoachID,
				TotalAmount:  decimal.Zero,
				PaidAmount:   decimal.Zero,
				UnpaidAmount: decimal.Zero,
			}
			if c.Coach != nil {
				cs.CoachName = c.Coach.Name
				cs.Position = c.Coach.Position
			}
			byCoach[c.CoachID] = cs
		}

		cs.TotalCount++
		cs.TotalAmount = cs.TotalAmount.Add(c.Amount)
		if c.Status == schema.CommissionPaid {
			cs.PaidCount++
			cs.PaidAmount = cs.PaidAmount.Add(c.Amount)
			if c.PaidAt != nil && (cs.LastPaidAt == nil || c.PaidAt.After(*cs.LastPaidAt)) {
				t := *c.PaidAt
				cs.LastPaidAt = &t
			}
		} else {
			cs.UnpaidCount++
			cs.UnpaidAmount = cs.UnpaidAmount.Add(c.Amount)
		}
	}

	res := &StatusResult{Month: month, Coaches: make([]CoachStatus, 0, len(byCoach))}
	for _, cs := range byCoach {
		cs.Status = commission.SettlementState(cs.UnpaidCount, cs.PaidCount)
		res.Coaches = append(res.Coaches, *cs)
	}
	sort.Slice(res.Coaches, func(i, j int) bool { return res.Coaches[i].CoachID < res.Coaches[j].CoachID })
	return res, nil
}
