package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/pkg/reqctx"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Per-receipt renewal bonus
	Calculate(ctx context.Context, receiptID uint) (*CalculationResult, error)
	CheckEligibility(ctx context.Context, receiptID uint) (*CalculationResult, error)

	// Month end
	Finalize(ctx context.Context, month string) (*FinalizeResult, error)
	PreviewFinalize(ctx context.Context, month string) (*FinalizeResult, error)

	// Reporting
	StaffReport(ctx context.Context, staffID uint, month string) (*StaffReport, error)
	AllStaffReport(ctx context.Context, month string) (*AllStaffReport, error)

	// Replays the pipeline over renewal receipts that have no commission yet.
	Recalculate(ctx context.Context) (*RecalculationResult, error)

	// InvalidateMonth drops cached reports for a month after an outside write.
	InvalidateMonth(ctx context.Context, month string)
	// InvalidateReports drops every cached report. Staff edits land here
	// since a name or flag shows up in every month.
	InvalidateReports(ctx context.Context)
}

// CalculationResult is the outcome of running one receipt through the
// pipeline. Ineligible receipts carry a Reason.
type CalculationResult struct {
	Eligible         bool                    `json:"eligible"`
	AlreadyProcessed bool                    `json:"alreadyProcessed"`
	Reason           string                  `json:"reason,omitempty"`
	ReceiptID        uint                    `json:"receiptId"`
	RenewalType      RenewalType             `json:"renewalType,omitempty"`
	StaffID          uint                    `json:"staffId,omitempty"`
	StaffName        string                  `json:"staffName,omitempty"`
	IsTopSales       bool                    `json:"isTopSales"`
	Amount           int64                   `json:"amount,omitempty"`
	Month            string                  `json:"month,omitempty"`
	Commission       *schema.CoachCommission `json:"commission,omitempty"`
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type commissionService struct {
	db       *gorm.DB
	resolver *StaffResolver
	writer   *Writer
	rates    RateTable
	cache    ReportCache
	loc      *time.Location
	now      func() time.Time
	metrics  *metrics
}

// New builds the commission service. A nil cache disables report caching.
func New(db *gorm.DB, cfg *config.Config, cache ReportCache) (Service, error) {
	rates, err := RateTableFromConfig(cfg.Commission)
	if err != nil {
		return nil, err
	}
	return newService(db, rates, cfg.Commission.SalesPosition, cfg.Location(), cache), nil
}

func newService(db *gorm.DB, rates RateTable, salesPosition string, loc *time.Location, cache ReportCache) *commissionService {
	if cache == nil {
		cache = NopCache{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &commissionService{
		db:       db,
		resolver: NewStaffResolver(db, salesPosition),
		writer:   NewWriter(db),
		rates:    rates,
		cache:    cache,
		loc:      loc,
		now:      time.Now,
		metrics:  newMetrics(),
	}
}

// ---------------------------------------------------------------------------
// Calculate
// ---------------------------------------------------------------------------

func (s *commissionService) Calculate(ctx context.Context, receiptID uint) (*CalculationResult, error) {
	res, err := s.evaluate(ctx, receiptID, true)
	if err != nil {
		s.metrics.calculation(ctx, outcomeError)
		return nil, err
	}
	switch {
	case res.AlreadyProcessed:
		s.metrics.calculation(ctx, outcomeAlreadyProcessed)
	case res.Eligible:
		s.metrics.calculation(ctx, outcomeCreated)
	default:
		s.metrics.calculation(ctx, outcomeIneligible)
	}
	return res, nil
}

func (s *commissionService) CheckEligibility(ctx context.Context, receiptID uint) (*CalculationResult, error) {
	return s.evaluate(ctx, receiptID, false)
}

func (s *commissionService) evaluate(ctx context.Context, receiptID uint, write bool) (*CalculationResult, error) {
	var rc schema.Receipt
	err := s.db.WithContext(ctx).First(&rc, receiptID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load receipt %d: %w", receiptID, err)
	}

	res := &CalculationResult{ReceiptID: rc.ID}

	if rc.IsCancelled {
		res.Reason = ReasonCancelled
		return res, nil
	}

	existing, err := s.writer.FindSalesRenewal(ctx, rc.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return alreadyProcessed(res, existing), nil
	}

	rt, ok := DetermineRenewalType(&rc)
	if !ok {
		res.Reason = ReasonNotRenewal
		return res, nil
	}
	res.RenewalType = rt

	staffID, found, err := s.resolver.StaffIDFromReceipt(ctx, &rc)
	if err != nil {
		return nil, err
	}
	if !found {
		res.Reason = ReasonNoStaff
		return res, nil
	}

	info, err := s.resolver.StaffInfo(ctx, staffID)
	if err != nil {
		return nil, err
	}
	res.StaffID = info.ID
	res.StaffName = info.Name
	res.IsTopSales = info.IsTopSales

	if !s.resolver.isSalesPosition(info.Position) {
		res.Reason = ReasonNotSalesStaff
		return res, nil
	}

	amount, ok := s.rates.SalesRenewalBonus(rt, info.IsTopSales)
	if !ok {
		res.Reason = ReasonNoRate
		return res, nil
	}
	res.Amount = amount
	res.Month = MonthOf(rc.CreatedAt, s.loc)
	res.Eligible = true

	if !write {
		return res, nil
	}

	details := map[string]any{
		"receiptNumber": rc.ReceiptNumber,
		"receiptType":   rc.Type,
		"receiptAmount": rc.Amount.String(),
		"staffName":     rc.StaffName,
		"renewalType":   string(rt),
		"isTopSales":    info.IsTopSales,
		"calculatedAt":  s.now().UTC().Format(time.RFC3339),
	}
	if by, ok := reqctx.UsernameFromContext(ctx); ok {
		details["calculatedBy"] = by
	}

	c, created, err := s.writer.CreateSalesRenewal(ctx, SalesRenewalInput{
		StaffID:     info.ID,
		RenewalType: rt,
		Amount:      amount,
		ReceiptID:   rc.ID,
		MemberID:    rc.MemberID,
		Month:       res.Month,
		Details:     details,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost a race with a concurrent request for the same receipt.
		existing, err := s.writer.FindSalesRenewal(ctx, rc.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return alreadyProcessed(res, existing), nil
		}
		return nil, fmt.Errorf("renewal commission for receipt %d neither created nor found", rc.ID)
	}

	res.Commission = c
	s.metrics.commissionCreated(ctx, SalesRenewalKind(rt))
	s.InvalidateMonth(ctx, res.Month)

	slog.InfoContext(ctx, "sales renewal commission created",
		"receipt_id", rc.ID,
		"staff_id", info.ID,
		"renewal_type", rt,
		"amount", amount,
		"month", res.Month,
		"request_id", reqctx.RequestIDFromContext(ctx),
	)
	return res, nil
}

func alreadyProcessed(res *CalculationResult, c *schema.CoachCommission) *CalculationResult {
	res.Eligible = true
	res.AlreadyProcessed = true
	res.StaffID = c.CoachID
	res.RenewalType = RenewalType(c.Tier)
	res.Amount = c.Amount.IntPart()
	res.Month = c.Month
	res.Commission = c
	return res
}

// InvalidateMonth drops every cached report for the month. Cache failures are
// logged; a stale report expires on its own TTL.
func (s *commissionService) InvalidateMonth(ctx context.Context, month string) {
	if err := s.cache.DeletePrefix(ctx, monthKeyPrefix(month)); err != nil {
		slog.WarnContext(ctx, "failed to invalidate commission report cache", "month", month, "error", err)
	}
}

func (s *commissionService) InvalidateReports(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, ""); err != nil {
		slog.WarnContext(ctx, "failed to invalidate commission report cache", "error", err)
	}
}
