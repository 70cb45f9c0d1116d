package member

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestMemberCreateAndUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, "EG")
	ctx := context.Background()

	coach := testutil.CreateStaff(t, db, "Karim", schema.PositionCoach, false)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	m, err := s.Create(ctx, CreateRequest{
		Name:              "Youssef",
		Phone:             "0101 234 5678",
		SubscriptionStart: &start,
		FreePTSessions:    2,
		AssignedCoachID:   &coach.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "+201012345678", m.Phone)

	_, err = s.Create(ctx, CreateRequest{Name: "Other", Phone: "+201012345678"})
	assert.ErrorIs(t, err, ErrPhoneAlreadyExists)

	got, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedCoach)
	assert.Equal(t, "Karim", got.AssignedCoach.Name)

	end := start.AddDate(0, 3, 0)
	up, err := s.Update(ctx, m.ID, UpdateRequest{
		SubscriptionEnd: &end,
		LoyaltyPoints:   ptr(30),
		FreePTSessions:  ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, up.LoyaltyPoints)
	assert.Zero(t, up.FreePTSessions)
	require.NotNil(t, up.SubscriptionEnd)

	before := start.AddDate(0, -1, 0)
	_, err = s.Update(ctx, m.ID, UpdateRequest{SubscriptionEnd: &before})
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = s.Update(ctx, m.ID, UpdateRequest{FreeInvitations: ptr(-1)})
	assert.ErrorIs(t, err, ErrNegativeCounter)

	_, err = s.Update(ctx, m.ID, UpdateRequest{ReferringCoachID: ptr(uint(999))})
	assert.ErrorIs(t, err, ErrCoachNotFound)
}

func TestMemberValidationAndSearch(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, "EG")
	ctx := context.Background()

	_, err := s.Create(ctx, CreateRequest{Name: "Bad", Phone: "12"})
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = s.Create(ctx, CreateRequest{Name: "Youssef Ali", Phone: "01012345678"})
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateRequest{Name: "Mariam", Phone: "01112345678"})
	require.NoError(t, err)

	res, err := s.List(ctx, ListRequest{Search: "youssef"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	res, err = s.List(ctx, ListRequest{Search: "01112345678"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Mariam", res.Data[0].Name)

	res, err = s.List(ctx, ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	_, err = s.Get(ctx, 404)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
