package user

import (
	"context"
	"errors"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/internal/testutil"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/gymdesk_backend/pkg/util/password"
)

type grant struct {
	subject authorize.GroupSubject
	role    authorize.Role
	domain  authorize.Domain
}

type fakeAuthz struct {
	grants []grant
	err    error
}

func (f *fakeAuthz) Enforce(context.Context, authorize.GroupSubject, authorize.Domain, authorize.Resource, authorize.Action) (bool, error) {
	return false, nil
}

func (f *fakeAuthz) MustEnforce(context.Context, authorize.GroupSubject, authorize.Domain, authorize.Resource, authorize.Action) error {
	return authorize.ErrForbidden
}

func (f *fakeAuthz) AddRoleForUserInDomain(_ context.Context, s authorize.GroupSubject, r authorize.Role, d authorize.Domain) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.grants = append(f.grants, grant{s, r, d})
	return true, nil
}

func (f *fakeAuthz) GetRolesForUserInDomain(context.Context, authorize.GroupSubject, authorize.Domain) ([]authorize.Role, error) {
	return nil, nil
}

func (f *fakeAuthz) AddPermission(context.Context, authorize.Role, authorize.Domain, authorize.Resource, authorize.Action, authorize.PolicyEffect) (bool, error) {
	return true, nil
}

func (f *fakeAuthz) Raw() *casbin.DistributedEnforcer { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Password.LowMemoryMode = true
	return cfg
}

func TestCreate_LinksStaffAndAssignsRole(t *testing.T) {
	db := testutil.NewDB(t)
	authz := &fakeAuthz{}
	s := New(db, testConfig(), authz)
	ctx := context.Background()

	st := testutil.CreateStaff(t, db, "Sara", schema.PositionSales, false)

	res, err := s.Create(ctx, CreateRequest{Username: " Sara.Adel ", Role: "Reception", StaffID: &st.ID})
	require.NoError(t, err)
	assert.Equal(t, "sara.adel", res.User.Username)
	assert.Equal(t, "reception", res.User.Role)
	require.NotEmpty(t, res.GeneratedPassword)
	assert.NoError(t, password.Verify(res.User.PasswordHash, res.GeneratedPassword))

	require.Len(t, authz.grants, 1)
	assert.Equal(t, authorize.GroupSubject(res.User.ID.String()), authz.grants[0].subject)
	assert.Equal(t, authorize.RoleGymReception, authz.grants[0].role)
	assert.Equal(t, authorize.DomainGym, authz.grants[0].domain)

	var linked schema.Staff
	require.NoError(t, db.First(&linked, st.ID).Error)
	require.NotNil(t, linked.UserID)
	assert.Equal(t, res.User.ID, *linked.UserID)

	_, err = s.Create(ctx, CreateRequest{Username: "other", Password: "long-enough-pw", Role: "coach", StaffID: &st.ID})
	assert.ErrorIs(t, err, ErrStaffAlreadyLinked)

	_, err = s.Create(ctx, CreateRequest{Username: "SARA.ADEL", Password: "long-enough-pw", Role: "coach"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, testConfig(), &fakeAuthz{})
	ctx := context.Background()

	_, err := s.Create(ctx, CreateRequest{Username: "ab", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = s.Create(ctx, CreateRequest{Username: "manager1", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = s.Create(ctx, CreateRequest{Username: "manager1", Password: "short", Role: "manager"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	missing := uint(55)
	_, err = s.Create(ctx, CreateRequest{Username: "manager1", Password: "long-enough-pw", Role: "manager", StaffID: &missing})
	assert.ErrorIs(t, err, ErrStaffNotFound)

	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users, "failed creates must roll back")
}

func TestCreate_RoleFailureRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, testConfig(), &fakeAuthz{err: errors.New("casbin down")})

	_, err := s.Create(context.Background(), CreateRequest{Username: "admin1", Password: "long-enough-pw", Role: "admin"})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&schema.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
