package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/service"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
	"github.com/Alijeyrad/gymdesk_backend/pkg/reqctx"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Type          string          `json:"type" validate:"required,max=100"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod" validate:"omitempty,max=50"`
	StaffName     string          `json:"staffName" validate:"required,max=150"`
	RenewalType   *string         `json:"renewalType,omitempty"`
	MemberID      *uint           `json:"memberId,omitempty"`
	ItemDetails   map[string]any  `json:"itemDetails,omitempty"`
}

type ListRequest struct {
	Type             string
	StaffName        string
	Month            string
	MemberID         *uint
	IncludeCancelled bool
	Page             int
	PerPage          int
}

// CommissionTrigger is told about every committed receipt. It must not block
// the caller for long and never fails the receipt.
type CommissionTrigger interface {
	ReceiptCreated(ctx context.Context, receiptID uint)
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*schema.Receipt, error)
	Get(ctx context.Context, id uint) (*schema.Receipt, error)
	List(ctx context.Context, req ListRequest) (*service.PaginatedResult[schema.Receipt], error)
	Cancel(ctx context.Context, id uint, reason string) (*schema.Receipt, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type receiptService struct {
	db      *gorm.DB
	trigger CommissionTrigger
	loc     *time.Location
}

func New(db *gorm.DB, trigger CommissionTrigger, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &receiptService{db: db, trigger: trigger, loc: loc}
}

func (s *receiptService) Create(ctx context.Context, req CreateRequest) (*schema.Receipt, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	req.Type = strings.TrimSpace(req.Type)
	isRenewal := slices.Contains(schema.RenewalReceiptTypes, req.Type)

	var details string
	if len(req.ItemDetails) > 0 {
		b, err := json.Marshal(req.ItemDetails)
		if err != nil {
			return nil, fmt.Errorf("encode item details: %w", err)
		}
		details = string(b)
	}

	var renewalType *string
	switch {
	case req.RenewalType != nil && *req.RenewalType != "":
		if !isRenewal {
			return nil, ErrRenewalTypeMismatch
		}
		rt, ok := commission.ParseRenewalType(*req.RenewalType)
		if !ok {
			return nil, ErrInvalidRenewalType
		}
		v := string(rt)
		renewalType = &v
	case isRenewal:
		if rt, ok := commission.InferRenewalType(req.Type, details); ok {
			v := string(rt)
			renewalType = &v
		}
	}

	rc := &schema.Receipt{
		Type:          req.Type,
		Amount:        req.Amount.Round(2),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		StaffName:     strings.TrimSpace(req.StaffName),
		RenewalType:   renewalType,
		MemberID:      req.MemberID,
		ItemDetails:   details,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.MemberID != nil {
			var n int64
			if err := tx.Model(&schema.Member{}).Where("id = ?", *req.MemberID).Count(&n).Error; err != nil {
				return fmt.Errorf("check member: %w", err)
			}
			if n == 0 {
				return ErrMemberNotFound
			}
		}

		num, err := nextReceiptNumber(tx)
		if err != nil {
			return err
		}
		rc.ReceiptNumber = num

		if err := tx.Create(rc).Error; err != nil {
			return fmt.Errorf("create receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "receipt created",
		"receipt_id", rc.ID,
		"receipt_number", rc.ReceiptNumber,
		"type", rc.Type,
		"staff_name", rc.StaffName,
	)

	if isRenewal && s.trigger != nil {
		s.trigger.ReceiptCreated(ctx, rc.ID)
	}
	return rc, nil
}

// nextReceiptNumber bumps the shared counter with a single upsert so two
// concurrent receipts can never read the same value.
func nextReceiptNumber(tx *gorm.DB) (int64, error) {
	counter := schema.ReceiptCounter{Name: schema.ReceiptCounterName, Value: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{"value": gorm.Expr("receipt_counters.value + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return 0, fmt.Errorf("increment receipt counter: %w", err)
	}

	if err := tx.Where("name = ?", schema.ReceiptCounterName).First(&counter).Error; err != nil {
		return 0, fmt.Errorf("read receipt counter: %w", err)
	}
	return counter.Value, nil
}

func (s *receiptService) Get(ctx context.Context, id uint) (*schema.Receipt, error) {
	var rc schema.Receipt
	err := s.db.WithContext(ctx).Preload("Member").First(&rc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return &rc, nil
}

func (s *receiptService) List(ctx context.Context, req ListRequest) (*service.PaginatedResult[schema.Receipt], error) {
	page, perPage, offset := service.Page(req.Page, req.PerPage)

	q := s.db.WithContext(ctx).Model(&schema.Receipt{})
	if !req.IncludeCancelled {
		q = q.Where("is_cancelled = ?", false)
	}
	if req.Type != "" {
		q = q.Where("type = ?", req.Type)
	}
	if req.StaffName != "" {
		q = q.Where("staff_name = ?", strings.TrimSpace(req.StaffName))
	}
	if req.MemberID != nil {
		q = q.Where("member_id = ?", *req.MemberID)
	}
	if req.Month != "" {
		month, err := commission.ParseMonth(req.Month)
		if err != nil {
			return nil, err
		}
		start, _ := time.ParseInLocation("2006-01", month, s.loc)
		q = q.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 1, 0))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count receipts: %w", err)
	}

	var rows []schema.Receipt
	if err := q.Order("receipt_number DESC").Offset(offset).Limit(perPage).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return service.NewPaginatedResult(rows, total, page, perPage), nil
}

// Cancel flags a receipt as cancelled. Commissions already earned on it stay;
// the pipeline only refuses to create new ones.
func (s *receiptService) Cancel(ctx context.Context, id uint, reason string) (*schema.Receipt, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var rc schema.Receipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&rc, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReceiptNotFound
		}
		if err != nil {
			return fmt.Errorf("get receipt: %w", err)
		}
		if rc.IsCancelled {
			return ErrAlreadyCancelled
		}

		now := time.Now()
		updates := map[string]any{
			"is_cancelled":  true,
			"cancelled_at":  now,
			"cancel_reason": reason,
		}
		if by, ok := reqctx.UsernameFromContext(ctx); ok {
			updates["cancelled_by"] = by
		}
		// Guarded on is_cancelled so two concurrent cancels cannot both win.
		res := tx.Model(&schema.Receipt{}).
			Where("id = ? AND is_cancelled = ?", id, false).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("cancel receipt: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCancelled
		}
		return tx.First(&rc, id).Error
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "receipt cancelled", "receipt_id", rc.ID, "reason", reason)
	return &rc, nil
}
