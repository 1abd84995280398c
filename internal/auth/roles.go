package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
)

// RequireAdmin ensures the principal holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequirePermission checks the permission table for resource and action.
func RequirePermission(policy *Policy, resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		allowed, err := policy.Allowed(principal.Role, resource, action)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if !allowed {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
