package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestStaffLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, "EG", nil)
	ctx := context.Background()

	st, err := s.Create(ctx, CreateRequest{
		Name:     " Sara Adel ",
		Position: schema.PositionSales,
		Phone:    ptr("01012345678"),
		Email:    ptr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sara Adel", st.Name)
	require.NotNil(t, st.Phone)
	assert.Equal(t, "+201012345678", *st.Phone)
	assert.Nil(t, st.Email)
	assert.True(t, st.IsActive)

	coach, err := s.Create(ctx, CreateRequest{Name: "Karim", Position: schema.PositionCoach})
	require.NoError(t, err)

	up, err := s.Update(ctx, st.ID, UpdateRequest{IsTopSales: ptr(true), Email: ptr("sara@example.com")})
	require.NoError(t, err)
	assert.True(t, up.IsTopSales)
	assert.Equal(t, "sara@example.com", *up.Email)

	require.NoError(t, s.Deactivate(ctx, coach.ID))
	assert.ErrorIs(t, s.Deactivate(ctx, 999), ErrStaffNotFound)

	active, err := s.List(ctx, ListRequest{Active: ptr(true)})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, st.ID, active[0].ID)

	coaches, err := s.List(ctx, ListRequest{Position: schema.PositionCoach})
	require.NoError(t, err)
	require.Len(t, coaches, 1)
	assert.False(t, coaches[0].IsActive)
}

func TestStaffValidation(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, "EG", nil)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateRequest{Name: "Sara", Position: schema.PositionSales, Phone: ptr("123")})
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = s.Create(ctx, CreateRequest{Name: "  ", Position: schema.PositionSales})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = s.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = s.Update(ctx, 42, UpdateRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateReports(context.Context) { c.calls++ }

func TestStaffEditsInvalidateReports(t *testing.T) {
	db := testutil.NewDB(t)
	inv := &countingInvalidator{}
	s := New(db, "EG", inv)
	ctx := context.Background()

	st, err := s.Create(ctx, CreateRequest{Name: "Sara", Position: schema.PositionSales})
	require.NoError(t, err)
	assert.Zero(t, inv.calls)

	_, err = s.Update(ctx, st.ID, UpdateRequest{})
	require.NoError(t, err)
	assert.Zero(t, inv.calls, "no-op update")

	_, err = s.Update(ctx, st.ID, UpdateRequest{Name: ptr("Sara Adel")})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.calls)

	require.NoError(t, s.Deactivate(ctx, st.ID))
	assert.Equal(t, 2, inv.calls)

	assert.ErrorIs(t, s.Deactivate(ctx, 999), ErrStaffNotFound)
	assert.Equal(t, 2, inv.calls)
}
