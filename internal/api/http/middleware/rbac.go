package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/gymdesk_backend/pkg/paseto"
)

// RequirePermission checks the caller's permission in the gym domain, then
// in the sys domain where platform superadmins hold their role.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		subject := authorize.GroupSubject(claims.UserID.String())
		for _, domain := range []authorize.Domain{authorize.DomainGym, authorize.DomainSys} {
			err := auth.MustEnforce(c.Context(), subject, domain, resource, action)
			if err == nil {
				return c.Next()
			}
			if !errors.Is(err, authorize.ErrForbidden) {
				return err
			}
		}
		return fiber.ErrForbidden
	}
}
