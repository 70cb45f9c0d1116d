package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

const (
	SettlementSettled   = "settled"
	SettlementPartial   = "partial"
	SettlementUnsettled = "unsettled"
	SettlementNone      = "none"
)

// SettlementState summarises paid versus unpaid commission counts.
func SettlementState(unpaid, paid int) string {
	switch {
	case unpaid == 0 && paid == 0:
		return SettlementNone
	case unpaid == 0:
		return SettlementSettled
	case paid == 0:
		return SettlementUnsettled
	default:
		return SettlementPartial
	}
}

type TierSummary struct {
	Tier   string          `json:"tier"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type StaffReport struct {
	StaffID          uint                     `json:"staffId"`
	StaffName        string                   `json:"staffName"`
	Position         string                   `json:"position"`
	IsTopSales       bool                     `json:"isTopSales"`
	Month            string                   `json:"month"`
	RenewalCount     int                      `json:"renewalCount"`
	RenewalTotal     decimal.Decimal          `json:"renewalTotal"`
	TopAchieverTotal decimal.Decimal          `json:"topAchieverTotal"`
	OtherTotal       decimal.Decimal          `json:"otherTotal"`
	GrandTotal       decimal.Decimal          `json:"grandTotal"`
	ByTier           []TierSummary            `json:"byTier"`
	IsTopAchiever    bool                     `json:"isTopAchiever"`
	PendingAmount    decimal.Decimal          `json:"pendingAmount"`
	ApprovedAmount   decimal.Decimal          `json:"approvedAmount"`
	PaidAmount       decimal.Decimal          `json:"paidAmount"`
	SettlementStatus string                   `json:"settlementStatus"`
	Commissions      []schema.CoachCommission `json:"commissions"`
}

type AllStaffReport struct {
	Month         string          `json:"month"`
	Staff         []StaffReport   `json:"staff"`
	TotalRenewals int             `json:"totalRenewals"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

func (s *commissionService) StaffReport(ctx context.Context, staffID uint, month string) (*StaffReport, error) {
	month, err := monthOrCurrent(month, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	key := staffReportKey(month, staffID)
	var cached StaffReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	var st schema.Staff
	err = s.db.WithContext(ctx).First(&st, staffID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff %d: %w", staffID, err)
	}

	var rows []schema.CoachCommission
	if err := s.db.WithContext(ctx).
		Where("coach_id = ? AND month = ?", staffID, month).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}

	rep := buildStaffReport(st, month, rows)
	s.cacheSet(ctx, key, rep)
	return rep, nil
}

func (s *commissionService) AllStaffReport(ctx context.Context, month string) (*AllStaffReport, error) {
	month, err := monthOrCurrent(month, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	key := allStaffReportKey(month)
	var cached AllStaffReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	var staff []schema.Staff
	if err := s.db.WithContext(ctx).
		Where("is_active = ? AND position = ?", true, s.resolver.salesPosition).
		Order("id").
		Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("list sales staff: %w", err)
	}

	rep := &AllStaffReport{Month: month, Staff: []StaffReport{}, GrandTotal: decimal.Zero}
	if len(staff) > 0 {
		ids := make([]uint, len(staff))
		for i, st := range staff {
			ids[i] = st.ID
		}
		var rows []schema.CoachCommission
		if err := s.db.WithContext(ctx).
			Where("month = ? AND coach_id IN ?", month, ids).
			Order("id").
			Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list commissions: %w", err)
		}
		byStaff := make(map[uint][]schema.CoachCommission, len(staff))
		for _, c := range rows {
			byStaff[c.CoachID] = append(byStaff[c.CoachID], c)
		}
		for _, st := range staff {
			sr := buildStaffReport(st, month, byStaff[st.ID])
			rep.Staff = append(rep.Staff, *sr)
			rep.TotalRenewals += sr.RenewalCount
			rep.GrandTotal = rep.GrandTotal.Add(sr.GrandTotal)
		}
	}

	s.cacheSet(ctx, key, rep)
	return rep, nil
}

func buildStaffReport(st schema.Staff, month string, rows []schema.CoachCommission) *StaffReport {
	rep := &StaffReport{
		StaffID:          st.ID,
		StaffName:        st.Name,
		Position:         st.Position,
		IsTopSales:       st.IsTopSales,
		Month:            month,
		RenewalTotal:     decimal.Zero,
		TopAchieverTotal: decimal.Zero,
		OtherTotal:       decimal.Zero,
		GrandTotal:       decimal.Zero,
		ByTier:           []TierSummary{},
		PendingAmount:    decimal.Zero,
		ApprovedAmount:   decimal.Zero,
		PaidAmount:       decimal.Zero,
		Commissions:      rows,
	}
	if rep.Commissions == nil {
		rep.Commissions = []schema.CoachCommission{}
	}

	tiers := map[string]*TierSummary{}
	var paid, unpaid int
	for _, c := range rows {
		switch c.Category {
		case schema.CategorySalesRenewal:
			rep.RenewalCount++
			rep.RenewalTotal = rep.RenewalTotal.Add(c.Amount)
			t, ok := tiers[c.Tier]
			if !ok {
				t = &TierSummary{Tier: c.Tier, Amount: decimal.Zero}
				tiers[c.Tier] = t
			}
			t.Count++
			t.Amount = t.Amount.Add(c.Amount)
		case schema.CategorySalesTopAchiever:
			rep.IsTopAchiever = true
			rep.TopAchieverTotal = rep.TopAchieverTotal.Add(c.Amount)
		default:
			rep.OtherTotal = rep.OtherTotal.Add(c.Amount)
		}
		rep.GrandTotal = rep.GrandTotal.Add(c.Amount)

		switch c.Status {
		case schema.CommissionPaid:
			paid++
			rep.PaidAmount = rep.PaidAmount.Add(c.Amount)
		case schema.CommissionApproved:
			unpaid++
			rep.ApprovedAmount = rep.ApprovedAmount.Add(c.Amount)
		default:
			unpaid++
			rep.PendingAmount = rep.PendingAmount.Add(c.Amount)
		}
	}

	for _, t := range tiers {
		rep.ByTier = append(rep.ByTier, *t)
	}
	sort.Slice(rep.ByTier, func(i, j int) bool { return rep.ByTier[i].Tier < rep.ByTier[j].Tier })
	rep.SettlementStatus = SettlementState(unpaid, paid)
	return rep
}

func (s *commissionService) cacheGet(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		slog.WarnContext(ctx, "commission report cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *commissionService) cacheSet(ctx context.Context, key string, v any) {
	if err := s.cache.Set(ctx, key, v); err != nil {
		slog.WarnContext(ctx, "commission report cache write failed", "key", key, "error", err)
	}
}
