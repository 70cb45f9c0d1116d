package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/gymdesk_backend/pkg/paseto"
	"github.com/Alijeyrad/gymdesk_backend/pkg/reqctx"
)

// domainAuthz allows whatever is listed for a domain.
type domainAuthz struct {
	allowed map[authorize.Domain]bool
}

func (a domainAuthz) Enforce(_ context.Context, _ authorize.GroupSubject, d authorize.Domain, _ authorize.Resource, _ authorize.Action) (bool, error) {
	return a.allowed[d], nil
}

func (a domainAuthz) MustEnforce(ctx context.Context, s authorize.GroupSubject, d authorize.Domain, r authorize.Resource, act authorize.Action) error {
	ok, _ := a.Enforce(ctx, s, d, r, act)
	if !ok {
		return authorize.ErrForbidden
	}
	return nil
}

func (domainAuthz) AddRoleForUserInDomain(context.Context, authorize.GroupSubject, authorize.Role, authorize.Domain) (bool, error) {
	return true, nil
}

func (domainAuthz) GetRolesForUserInDomain(context.Context, authorize.GroupSubject, authorize.Domain) ([]authorize.Role, error) {
	return nil, nil
}

func (domainAuthz) AddPermission(context.Context, authorize.Role, authorize.Domain, authorize.Resource, authorize.Action, authorize.PolicyEffect) (bool, error) {
	return true, nil
}

func (domainAuthz) Raw() *casbin.DistributedEnforcer { return nil }

func withClaims(c fiber.Ctx) error {
	c.Locals(pasetotoken.CtxKeyClaims, &pasetotoken.Claims{
		Type:   pasetotoken.TokenTypeAccess,
		UserID: uuid.New(),
	})
	return c.Next()
}

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRequirePermission(t *testing.T) {
	okHandler := func(c fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) }

	cases := []struct {
		name    string
		allowed map[authorize.Domain]bool
		claims  bool
		want    int
	}{
		{"gym role", map[authorize.Domain]bool{authorize.DomainGym: true}, true, http.StatusNoContent},
		{"superadmin falls back to sys", map[authorize.Domain]bool{authorize.DomainSys: true}, true, http.StatusNoContent},
		{"no grant", map[authorize.Domain]bool{}, true, http.StatusForbidden},
		{"anonymous", map[authorize.Domain]bool{authorize.DomainGym: true}, false, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			perm := RequirePermission(domainAuthz{allowed: tc.allowed}, authorize.ResourceCommission, authorize.ActionApprove)
			if tc.claims {
				app.Post("/", withClaims, perm, okHandler)
			} else {
				app.Post("/", perm, okHandler)
			}
			assert.Equal(t, tc.want, status(t, app, httptest.NewRequest(http.MethodPost, "/", nil)))
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	var seen string
	app.Get("/", func(c fiber.Ctx) error {
		seen = reqctx.RequestIDFromContext(c.Context())
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))
	assert.Equal(t, "abc-123", seen)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	assert.Equal(t, resp.Header.Get(HeaderRequestID), seen)
}

func TestAuthRequired_RejectsMissingOrMalformedHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/", AuthRequired(nil, nil), func(c fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, status(t, app, httptest.NewRequest(http.MethodGet, "/", nil)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, status(t, app, req))
}
