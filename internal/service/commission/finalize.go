package commission

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/pkg/reqctx"
)

// PerformerStats is one sales staff member's renewal tally for a month.
type PerformerStats struct {
	StaffID      uint            `json:"staffId"`
	StaffName    string          `json:"staffName"`
	IsTopSales   bool            `json:"isTopSales"`
	RenewalCount int             `json:"renewalCount"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type TopPerformerAward struct {
	PerformerStats
	BaseBonus       int64                     `json:"baseBonus"`
	MultiplierBonus int64                     `json:"multiplierBonus"`
	TotalBonus      int64                     `json:"totalBonus"`
	Commissions     []*schema.CoachCommission `json:"commissions,omitempty"`
}

type FinalizeResult struct {
	Month           string              `json:"month"`
	DryRun          bool                `json:"dryRun"`
	SalesStaffCount int                 `json:"salesStaffCount"`
	TotalRenewals   int                 `json:"totalRenewals"`
	TotalRevenue    decimal.Decimal     `json:"totalRevenue"`
	Rankings        []PerformerStats    `json:"rankings"`
	TopPerformers   []TopPerformerAward `json:"topPerformers"`
	// ApprovedCount is the number of renewal commissions moved to approved,
	// or in a preview, the number that would be.
	ApprovedCount int64 `json:"approvedCount"`
}

func (s *commissionService) Finalize(ctx context.Context, month string) (*FinalizeResult, error) {
	return s.finalize(ctx, month, false)
}

func (s *commissionService) PreviewFinalize(ctx context.Context, month string) (*FinalizeResult, error) {
	return s.finalize(ctx, month, true)
}

func (s *commissionService) finalize(ctx context.Context, month string, dryRun bool) (*FinalizeResult, error) {
	month, err := monthOrCurrent(month, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	stats, pending, err := s.collectMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	rankPerformers(stats)

	res := &FinalizeResult{
		Month:           month,
		DryRun:          dryRun,
		SalesStaffCount: len(stats),
		TotalRevenue:    decimal.Zero,
		Rankings:        stats,
		TopPerformers:   []TopPerformerAward{},
		ApprovedCount:   pending,
	}
	for _, st := range stats {
		res.TotalRenewals += st.RenewalCount
		res.TotalRevenue = res.TotalRevenue.Add(st.TotalRevenue)
	}

	for _, st := range topPerformers(stats) {
		base, mult := s.rates.TopAchieverAward(st.RenewalCount)
		res.TopPerformers = append(res.TopPerformers, TopPerformerAward{
			PerformerStats:  st,
			BaseBonus:       base,
			MultiplierBonus: mult,
			TotalBonus:      base + mult,
		})
	}

	if dryRun {
		return res, nil
	}

	now := s.now()
	by, _ := reqctx.UsernameFromContext(ctx)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range res.TopPerformers {
			award := &res.TopPerformers[i]
			details := map[string]any{
				"renewalCount": award.RenewalCount,
				"totalRevenue": award.TotalRevenue.String(),
				"finalizedAt":  now.UTC().Format(time.RFC3339),
			}
			if by != "" {
				details["finalizedBy"] = by
			}

			baseRow, err := createApproved(tx, award.StaffID,
				Kind{Category: schema.CategorySalesTopAchiever, Tier: TierTopAchieverBase},
				award.BaseBonus, month, now, details)
			if err != nil {
				return err
			}
			multRow, err := createApproved(tx, award.StaffID,
				Kind{Category: schema.CategorySalesTopAchiever, Tier: TierTopAchieverMultiplier},
				award.MultiplierBonus, month, now, details)
			if err != nil {
				return err
			}
			award.Commissions = []*schema.CoachCommission{baseRow, multRow}
		}

		upd := s.pendingRenewals(tx, month).
			Updates(map[string]any{
				"status":      schema.CommissionApproved,
				"approved_at": now,
			})
		if upd.Error != nil {
			return fmt.Errorf("approve renewal commissions: %w", upd.Error)
		}
		res.ApprovedCount = upd.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, award := range res.TopPerformers {
		for _, c := range award.Commissions {
			s.metrics.commissionCreated(ctx, Kind{Category: c.Category, Tier: c.Tier})
		}
	}
	s.metrics.finalizeRuns.Add(ctx, 1)
	s.InvalidateMonth(ctx, month)

	slog.InfoContext(ctx, "sales commissions finalized",
		"month", month,
		"top_performers", len(res.TopPerformers),
		"approved", res.ApprovedCount,
		"total_renewals", res.TotalRenewals,
	)
	return res, nil
}

// collectMonth tallies renewal commissions per active sales staff member and
// counts the renewal rows still pending for the month. The pending count spans
// every coach, since approval does not look at who earned the row.
func (s *commissionService) collectMonth(ctx context.Context, month string) ([]PerformerStats, int64, error) {
	var pending int64
	if err := s.pendingRenewals(s.db.WithContext(ctx), month).Count(&pending).Error; err != nil {
		return nil, 0, fmt.Errorf("count pending renewals: %w", err)
	}

	var staff []schema.Staff
	if err := s.db.WithContext(ctx).
		Where("is_active = ? AND position = ?", true, s.resolver.salesPosition).
		Order("id").
		Find(&staff).Error; err != nil {
		return nil, 0, fmt.Errorf("list sales staff: %w", err)
	}

	stats := make([]PerformerStats, 0, len(staff))
	if len(staff) == 0 {
		return stats, pending, nil
	}

	ids := make([]uint, len(staff))
	for i, st := range staff {
		ids[i] = st.ID
	}

	var rows []schema.CoachCommission
	if err := s.db.WithContext(ctx).
		Preload("Receipt").
		Where("month = ? AND category = ? AND coach_id IN ?", month, schema.CategorySalesRenewal, ids).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list renewal commissions: %w", err)
	}

	byStaff := make(map[uint]*PerformerStats, len(staff))
	for _, st := range staff {
		stats = append(stats, PerformerStats{
			StaffID:      st.ID,
			StaffName:    st.Name,
			IsTopSales:   st.IsTopSales,
			TotalRevenue: decimal.Zero,
		})
	}
	for i := range stats {
		byStaff[stats[i].StaffID] = &stats[i]
	}

	for _, c := range rows {
		st := byStaff[c.CoachID]
		st.RenewalCount++
		if c.Receipt != nil {
			st.TotalRevenue = st.TotalRevenue.Add(c.Receipt.Amount)
		}
	}
	return stats, pending, nil
}

// pendingRenewals scopes to the renewal rows Finalize approves.
func (s *commissionService) pendingRenewals(db *gorm.DB, month string) *gorm.DB {
	return db.Model(&schema.CoachCommission{}).
		Where("month = ? AND category = ? AND status = ?", month, schema.CategorySalesRenewal, schema.CommissionPending)
}

// rankPerformers orders by renewal count, then revenue, both descending.
// Staff id keeps the order stable for equal pairs.
func rankPerformers(stats []PerformerStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.RenewalCount != b.RenewalCount {
			return a.RenewalCount > b.RenewalCount
		}
		if c := a.TotalRevenue.Cmp(b.TotalRevenue); c != 0 {
			return c > 0
		}
		return a.StaffID < b.StaffID
	})
}

// topPerformers returns every ranked entry sharing the highest renewal count.
// A month with no renewals has no top performers.
func topPerformers(ranked []PerformerStats) []PerformerStats {
	if len(ranked) == 0 || ranked[0].RenewalCount == 0 {
		return nil
	}
	best := ranked[0].RenewalCount
	var out []PerformerStats
	for _, st := range ranked {
		if st.RenewalCount != best {
			break
		}
		out = append(out, st)
	}
	return out
}
