package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
	"github.com/Alijeyrad/gymdesk_backend/internal/testutil"
	"github.com/Alijeyrad/gymdesk_backend/pkg/email"
)

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m email.Message) error {
	f.sent = append(f.sent, m)
	return f.err
}

type fakeInvalidator struct{ months []string }

func (f *fakeInvalidator) InvalidateMonth(_ context.Context, month string) {
	f.months = append(f.months, month)
}

var paidAt = time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)

func newTestService(db *gorm.DB, sender email.Sender, inv MonthInvalidator) *settlementService {
	s := New(db, sender, "Iron Gym", "EGP", inv).(*settlementService)
	s.now = func() time.Time { return paidAt }
	return s
}

func addCommission(t *testing.T, db *gorm.DB, coachID uint, month string, status schema.CommissionStatus, amount int64) {
	t.Helper()
	c := schema.CoachCommission{
		CoachID:  coachID,
		Type:     "sales_renewal_pt",
		Category: schema.CategorySalesRenewal,
		Tier:     "pt",
		Amount:   decimal.NewFromInt(amount),
		Month:    month,
		Status:   status,
	}
	require.NoError(t, db.Create(&c).Error)
}

func TestSettle_MarksEverythingPaid(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	sara := testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	mona := testutil.CreateStaff(t, db, "Mona", schema.PositionSales, false)
	addCommission(t, db, sara.ID, "2025-03", schema.CommissionPending, 100)
	addCommission(t, db, sara.ID, "2025-03", schema.CommissionApproved, 250)
	addCommission(t, db, sara.ID, "2025-02", schema.CommissionApproved, 50)
	addCommission(t, db, mona.ID, "2025-03", schema.CommissionApproved, 75)

	inv := &fakeInvalidator{}
	s := newTestService(db, nil, inv)

	res, err := s.Settle(ctx, SettleRequest{CoachID: sara.ID, Month: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.UpdatedCount)
	assert.Equal(t, "350", res.PaidTotal.String())
	assert.Equal(t, "Sara", res.CoachName)
	assert.Equal(t, []string{"2025-03"}, inv.months)

	var rows []schema.CoachCommission
	require.NoError(t, db.Where("coach_id = ? AND month = ?", sara.ID, "2025-03").Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, c := range rows {
		assert.Equal(t, schema.CommissionPaid, c.Status)
		require.NotNil(t, c.PaidAt)
	}

	// other month and other coach are untouched
	var unpaid int64
	require.NoError(t, db.Model(&schema.CoachCommission{}).Where("status <> ?", schema.CommissionPaid).Count(&unpaid).Error)
	assert.Equal(t, int64(2), unpaid)

	again, err := s.Settle(ctx, SettleRequest{CoachID: sara.ID, Month: "2025-03"})
	require.NoError(t, err)
	assert.Zero(t, again.UpdatedCount)
	assert.Len(t, inv.months, 1)
}

func TestSettle_Errors(t *testing.T) {
	db := testutil.NewDB(t)
	s := newTestService(db, nil, nil)
	ctx := context.Background()

	_, err := s.Settle(ctx, SettleRequest{CoachID: 42, Month: "2025-03"})
	assert.ErrorIs(t, err, ErrCoachNotFound)

	_, err = s.Settle(ctx, SettleRequest{CoachID: 1})
	assert.ErrorIs(t, err, ErrMonthRequired)

	_, err = s.Settle(ctx, SettleRequest{CoachID: 1, Month: "March"})
	assert.ErrorIs(t, err, commission.ErrInvalidMonth)
}

func TestSettle_SendsStatement(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	sara := testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	require.NoError(t, db.Model(&sara).Update("email", "sara@example.com").Error)
	addCommission(t, db, sara.ID, "2025-03", schema.CommissionApproved, 250)

	sender := &fakeSender{}
	s := newTestService(db, sender, nil)
	_, err := s.Settle(ctx, SettleRequest{CoachID: sara.ID, Month: "2025-03"})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"sara@example.com"}, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "2025-03")
	assert.Contains(t, sender.sent[0].TextBody, "250.00")
}

func TestSettle_EmailFailureIsNotAnError(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	sara := testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	require.NoError(t, db.Model(&sara).Update("email", "sara@example.com").Error)
	addCommission(t, db, sara.ID, "2025-03", schema.CommissionApproved, 250)

	s := newTestService(db, &fakeSender{err: errors.New("smtp down")}, nil)
	res, err := s.Settle(ctx, SettleRequest{CoachID: sara.ID, Month: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpdatedCount)
}

func TestStatus(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	sara := testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	mona := testutil.CreateStaff(t, db, "Mona", schema.PositionSales, false)
	omar := testutil.CreateStaff(t, db, "Omar", schema.PositionSales, false)
	addCommission(t, db, sara.ID, "2025-03", schema.CommissionApproved, 100)
	addCommission(t, db, mona.ID, "2025-03", schema.CommissionApproved, 100)
	addCommission(t, db, mona.ID, "2025-03", schema.CommissionApproved, 200)
	addCommission(t, db, omar.ID, "2025-03", schema.CommissionPending, 50)

	s := newTestService(db, nil, nil)
	_, err := s.Settle(ctx, SettleRequest{CoachID: sara.ID, Month: "2025-03"})
	require.NoError(t, err)
	// leave one of Mona's rows unpaid
	require.NoError(t, db.Model(&schema.CoachCommission{}).
		Where("coach_id = ? AND amount = ?", mona.ID, 100).
		Updates(map[string]any{"status": schema.CommissionPaid, "paid_at": paidAt}).Error)

	res, err := s.Status(ctx, "2025-03")
	require.NoError(t, err)
	require.Len(t, res.Coaches, 3)

	assert.Equal(t, sara.ID, res.Coaches[0].CoachID)
	assert.Equal(t, commission.SettlementSettled, res.Coaches[0].Status)
	require.NotNil(t, res.Coaches[0].LastPaidAt)

	assert.Equal(t, commission.SettlementPartial, res.Coaches[1].Status)
	assert.Equal(t, "200", res.Coaches[1].UnpaidAmount.String())
	assert.Equal(t, "Mona", res.Coaches[1].CoachName)

	assert.Equal(t, commission.SettlementUnsettled, res.Coaches[2].Status)
	assert.Equal(t, 1, res.Coaches[2].UnpaidCount)
}

// jsonCache keeps reports JSON-encoded in memory.
type jsonCache map[string][]byte

func (c jsonCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c jsonCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c[key] = raw
	return nil
}

func (c jsonCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range c {
		if strings.HasPrefix(k, prefix) {
			delete(c, k)
		}
	}
	return nil
}

func TestSettle_RefreshesCachedReports(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	cfg := &config.Config{Commission: config.CommissionConfig{
		SalesPosition:         schema.PositionSales,
		TopSalesSurcharge:     50,
		TopAchieverBase:       1000,
		TopAchieverPerRenewal: 50,
	}}
	cache := jsonCache{}
	calc, err := commission.New(db, cfg, cache)
	require.NoError(t, err)

	sara := testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	addCommission(t, db, sara.ID, "2025-03", schema.CommissionApproved, 250)

	before, err := calc.StaffReport(ctx, sara.ID, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, commission.SettlementUnsettled, before.SettlementStatus)
	_, err = calc.AllStaffReport(ctx, "2025-03")
	require.NoError(t, err)
	require.NotEmpty(t, cache)

	s := newTestService(db, nil, calc)
	_, err = s.Settle(ctx, SettleRequest{CoachID: sara.ID, Month: "2025-03"})
	require.NoError(t, err)

	after, err := calc.StaffReport(ctx, sara.ID, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, commission.SettlementSettled, after.SettlementStatus)
	assert.Equal(t, "250", after.PaidAmount.String())

	all, err := calc.AllStaffReport(ctx, "2025-03")
	require.NoError(t, err)
	require.Len(t, all.Staff, 1)
	assert.Equal(t, commission.SettlementSettled, all.Staff[0].SettlementStatus)
}
