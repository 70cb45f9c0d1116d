package commission

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/testutil"
)

var march = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, db *gorm.DB) *commissionService {
	t.Helper()
	s := newService(db, DefaultRateTable(), schema.PositionSales, time.UTC, nil)
	s.now = func() time.Time { return march }
	return s
}

func renewal(staffName string, rt RenewalType, amount int64) testutil.ReceiptOpts {
	return testutil.ReceiptOpts{
		Type:        schema.ReceiptTypeMembershipRenewal,
		StaffName:   staffName,
		Amount:      amount,
		RenewalType: string(rt),
		CreatedAt:   march,
	}
}

func TestStaffResolver_PrefersExactMatch(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	longer := testutil.CreateStaff(t, db, "Ahmed Ali Hassan", schema.PositionSales, false)
	exact := testutil.CreateStaff(t, db, "Ahmed Ali", schema.PositionSales, false)

	r := NewStaffResolver(db, schema.PositionSales)

	id, ok, err := r.StaffIDFromReceipt(ctx, &schema.Receipt{StaffName: "  Ahmed Ali "})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, exact.ID, id)

	id, ok, err = r.StaffIDFromReceipt(ctx, &schema.Receipt{StaffName: "Hassan"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, longer.ID, id)

	_, ok, err = r.StaffIDFromReceipt(ctx, &schema.Receipt{StaffName: "Mona"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.StaffIDFromReceipt(ctx, &schema.Receipt{StaffName: ""})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaffResolver_IgnoresInactive(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	gone := testutil.CreateStaff(t, db, "Omar", schema.PositionSales, false)
	testutil.DeactivateStaff(t, db, gone.ID)
	active := testutil.CreateStaff(t, db, "Omar Khaled", schema.PositionSales, false)
	coach := testutil.CreateStaff(t, db, "Karim", schema.PositionCoach, false)

	r := NewStaffResolver(db, schema.PositionSales)

	id, ok, err := r.StaffIDFromReceipt(ctx, &schema.Receipt{StaffName: "Omar"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, active.ID, id)

	_, err = r.StaffInfo(ctx, gone.ID)
	assert.ErrorIs(t, err, ErrStaffNotFound)

	isSales, err := r.IsSalesStaff(ctx, active.ID)
	require.NoError(t, err)
	assert.True(t, isSales)

	isSales, err = r.IsSalesStaff(ctx, coach.ID)
	require.NoError(t, err)
	assert.False(t, isSales)

	isSales, err = r.IsSalesStaff(ctx, gone.ID)
	require.NoError(t, err)
	assert.False(t, isSales)
}

func TestWriter_SecondInsertIsNoop(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	st := testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	rc := testutil.CreateReceipt(t, db, renewal("Sara", GymElite, 900))

	w := NewWriter(db)
	in := SalesRenewalInput{StaffID: st.ID, RenewalType: GymElite, Amount: 250, ReceiptID: rc.ID, Month: "2025-03"}

	c, created, err := w.CreateSalesRenewal(ctx, in)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "sales_renewal_gym_elite", c.Type)
	assert.Equal(t, schema.CommissionPending, c.Status)

	_, created, err = w.CreateSalesRenewal(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)

	var n int64
	require.NoError(t, db.Model(&schema.CoachCommission{}).Where("receipt_id = ?", rc.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCalculate_CreatesOnceThenReportsAlreadyProcessed(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	s := newTestService(t, db)

	st := testutil.CreateStaff(t, db, "Sara", schema.PositionSales, true)
	rc := testutil.CreateReceipt(t, db, renewal("Sara", GymFighter, 1200))

	res, err := s.Calculate(ctx, rc.ID)
	require.NoError(t, err)
	assert.True(t, res.Eligible)
	assert.False(t, res.AlreadyProcessed)
	assert.Equal(t, GymFighter, res.RenewalType)
	assert.Equal(t, st.ID, res.StaffID)
	assert.Equal(t, int64(150), res.Amount)
	assert.Equal(t, "2025-03", res.Month)
	require.NotNil(t, res.Commission)
	assert.Equal(t, "sales_renewal_gym_fighter", res.Commission.Type)

	again, err := s.Calculate(ctx, rc.ID)
	require.NoError(t, err)
	assert.True(t, again.Eligible)
	assert.True(t, again.AlreadyProcessed)
	assert.Equal(t, res.Commission.ID, again.Commission.ID)

	var n int64
	require.NoError(t, db.Model(&schema.CoachCommission{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCheckEligibility_DoesNotWrite(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	s := newTestService(t, db)

	testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	rc := testutil.CreateReceipt(t, db, testutil.ReceiptOpts{
		Type:        schema.ReceiptTypeMembershipRenewal,
		StaffName:   "Sara",
		Amount:      800,
		ItemDetails: `{"offerName":"Champion 🥇 Plan"}`,
		CreatedAt:   march,
	})

	res, err := s.CheckEligibility(ctx, rc.ID)
	require.NoError(t, err)
	assert.True(t, res.Eligible)
	assert.Equal(t, GymChampion, res.RenewalType)
	assert.Equal(t, int64(150), res.Amount)
	assert.Nil(t, res.Commission)

	var n int64
	require.NoError(t, db.Model(&schema.CoachCommission{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCalculate_Ineligible(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	s := newTestService(t, db)

	testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	testutil.CreateStaff(t, db, "Karim", schema.PositionCoach, false)

	cancelled := testutil.CreateReceipt(t, db, renewal("Sara", GymElite, 900))
	require.NoError(t, db.Model(&schema.Receipt{}).Where("id = ?", cancelled.ID).Update("is_cancelled", true).Error)

	tests := []struct {
		name   string
		opts   testutil.ReceiptOpts
		id     uint
		reason string
	}{
		{name: "cancelled", id: cancelled.ID, reason: ReasonCancelled},
		{name: "not a renewal", opts: testutil.ReceiptOpts{Type: schema.ReceiptTypeNewMembership, StaffName: "Sara", Amount: 500}, reason: ReasonNotRenewal},
		{name: "unknown staff", opts: renewal("Nobody", PT, 500), reason: ReasonNoStaff},
		{name: "coach not sales", opts: renewal("Karim", PT, 500), reason: ReasonNotSalesStaff},
		{name: "stored type without rate", opts: renewal("Sara", RenewalType("gym_gold"), 500), reason: ReasonNoRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.id
			if id == 0 {
				id = testutil.CreateReceipt(t, db, tt.opts).ID
			}
			res, err := s.Calculate(ctx, id)
			require.NoError(t, err)
			assert.False(t, res.Eligible)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}

	var n int64
	require.NoError(t, db.Model(&schema.CoachCommission{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err := s.Calculate(ctx, 9999)
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestCalculate_MonthUsesGymTimezone(t *testing.T) {
	db := testutil.NewDB(t)
	cairo, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)

	s := newService(db, DefaultRateTable(), schema.PositionSales, cairo, nil)
	testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)

	// 23:30 UTC on the last day of March is already April in Cairo.
	opts := renewal("Sara", PT, 500)
	opts.CreatedAt = time.Date(2025, time.March, 31, 23, 30, 0, 0, time.UTC)
	rc := testutil.CreateReceipt(t, db, opts)

	res, err := s.Calculate(context.Background(), rc.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-04", res.Month)
}

func TestRecalculate(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	s := newTestService(t, db)

	testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)

	done := testutil.CreateReceipt(t, db, renewal("Sara", GymElite, 900))
	_, err := s.Calculate(ctx, done.ID)
	require.NoError(t, err)

	legacy := testutil.CreateReceipt(t, db, testutil.ReceiptOpts{
		Type:        schema.ReceiptTypeMembershipRenewal,
		StaffName:   "Sara",
		Amount:      700,
		ItemDetails: `{"subscriptionType":"1year"}`,
		CreatedAt:   march,
	})
	orphan := testutil.CreateReceipt(t, db, renewal("Nobody", PT, 300))
	testutil.CreateReceipt(t, db, testutil.ReceiptOpts{Type: schema.ReceiptTypeNewMembership, StaffName: "Sara", Amount: 100})

	res, err := s.Recalculate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Errors)
	require.Len(t, res.Details, 2)

	assert.Equal(t, legacy.ID, res.Details[0].ReceiptID)
	assert.Equal(t, RecalcCreated, res.Details[0].Status)
	assert.Equal(t, string(GymElite), res.Details[0].RenewalType)
	assert.Equal(t, orphan.ID, res.Details[1].ReceiptID)
	assert.Equal(t, ReasonNoStaff, res.Details[1].Reason)

	// Nothing left for a second pass except the receipt that still has no staff.
	res, err = s.Recalculate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Zero(t, res.Created)
}

func TestRecalculate_PicksUpPaddedLegacyType(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	s := newTestService(t, db)

	testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)
	padded := testutil.CreateReceipt(t, db, testutil.ReceiptOpts{
		Type:      " " + schema.ReceiptTypePTRenewal + " ",
		StaffName: "Sara",
		Amount:    400,
		CreatedAt: march,
	})

	res, err := s.Recalculate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Details, 1)
	assert.Equal(t, padded.ID, res.Details[0].ReceiptID)
	assert.Equal(t, string(PT), res.Details[0].RenewalType)
}
