package receipt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/testutil"
)

type recordingTrigger struct {
	mu  sync.Mutex
	ids []uint
}

func (r *recordingTrigger) ReceiptCreated(_ context.Context, id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func TestCreate_NumbersSequentially(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, nil, time.UTC)
	ctx := context.Background()

	var last int64
	for i := 0; i < 3; i++ {
		rc, err := s.Create(ctx, CreateRequest{
			Type:      schema.ReceiptTypeNewMembership,
			Amount:    decimal.NewFromInt(500),
			StaffName: "Sara",
		})
		require.NoError(t, err)
		assert.Equal(t, last+1, rc.ReceiptNumber)
		last = rc.ReceiptNumber
	}
}

func TestCreate_RenewalTypeInferredAndTriggered(t *testing.T) {
	db := testutil.NewDB(t)
	trig := &recordingTrigger{}
	s := New(db, trig, time.UTC)
	ctx := context.Background()

	rc, err := s.Create(ctx, CreateRequest{
		Type:        schema.ReceiptTypeMembershipRenewal,
		Amount:      decimal.RequireFromString("1500.50"),
		StaffName:   " Sara ",
		ItemDetails: map[string]any{"offerName": "Elite 🏆", "subscriptionType": "1month"},
	})
	require.NoError(t, err)
	require.NotNil(t, rc.RenewalType)
	assert.Equal(t, "gym_elite", *rc.RenewalType)
	assert.Equal(t, "Sara", rc.StaffName)
	assert.Contains(t, rc.ItemDetails, "offerName")
	assert.Equal(t, []uint{rc.ID}, trig.ids)

	// non-renewal receipts do not reach the commission pipeline
	_, err = s.Create(ctx, CreateRequest{Type: schema.ReceiptTypeRemainingPayment, Amount: decimal.NewFromInt(10), StaffName: "Sara"})
	require.NoError(t, err)
	assert.Len(t, trig.ids, 1)
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, nil, time.UTC)
	ctx := context.Background()

	bad := "gym_gold"
	pt := "pt"
	missing := uint(77)

	tests := []struct {
		name string
		req  CreateRequest
		err  error
	}{
		{"zero amount", CreateRequest{Type: schema.ReceiptTypePTRenewal, StaffName: "Sara"}, ErrInvalidAmount},
		{"unknown renewal type", CreateRequest{Type: schema.ReceiptTypePTRenewal, StaffName: "Sara", Amount: decimal.NewFromInt(1), RenewalType: &bad}, ErrInvalidRenewalType},
		{"renewal type on sale", CreateRequest{Type: schema.ReceiptTypeNewMembership, StaffName: "Sara", Amount: decimal.NewFromInt(1), RenewalType: &pt}, ErrRenewalTypeMismatch},
		{"unknown member", CreateRequest{Type: schema.ReceiptTypePTRenewal, StaffName: "Sara", Amount: decimal.NewFromInt(1), MemberID: &missing}, ErrMemberNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCancel(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, nil, time.UTC)
	ctx := context.Background()

	rc, err := s.Create(ctx, CreateRequest{Type: schema.ReceiptTypePTRenewal, Amount: decimal.NewFromInt(300), StaffName: "Sara"})
	require.NoError(t, err)

	_, err = s.Cancel(ctx, rc.ID, "  ")
	assert.ErrorIs(t, err, ErrReasonRequired)

	got, err := s.Cancel(ctx, rc.ID, "duplicate")
	require.NoError(t, err)
	assert.True(t, got.IsCancelled)
	assert.NotNil(t, got.CancelledAt)
	assert.Equal(t, "duplicate", got.CancelReason)

	_, err = s.Cancel(ctx, rc.ID, "again")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = s.Cancel(ctx, 999, "x")
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestList(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, nil, time.UTC)
	ctx := context.Background()

	testutil.CreateReceipt(t, db, testutil.ReceiptOpts{Type: schema.ReceiptTypePTRenewal, StaffName: "Sara", Amount: 100, CreatedAt: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)})
	testutil.CreateReceipt(t, db, testutil.ReceiptOpts{Type: schema.ReceiptTypePTRenewal, StaffName: "Mona", Amount: 100, CreatedAt: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)})
	testutil.CreateReceipt(t, db, testutil.ReceiptOpts{Type: schema.ReceiptTypeNewMembership, StaffName: "Sara", Amount: 100, CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)})

	res, err := s.List(ctx, ListRequest{Month: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	res, err = s.List(ctx, ListRequest{StaffName: "Sara"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	res, err = s.List(ctx, ListRequest{Type: schema.ReceiptTypePTRenewal, PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.Data, 1)

	_, err = s.List(ctx, ListRequest{Month: "nope"})
	assert.Error(t, err)
}
