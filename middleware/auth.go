package middleware

import (
	"strings"

	"esport-accounts/apperrors"
	userModel "esport-accounts/models/user"
	"esport-accounts/services/token"
	"esport-accounts/types"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the access token and stores the caller's identity in
// fiber locals ("uuid", "email", "role"). The token comes from the
// Authorization bearer header or, failing that, the "access" cookie.
func RequireAuth(tokens *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return reject(c, apperrors.ErrMissingToken)
		}

		claims, err := tokens.ParseAccess(raw)
		if err != nil {
			return reject(c, err)
		}

		c.Locals("uuid", claims.UUID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// RequireSuperAdmin gates admin-only routes. It must run after RequireAuth.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(userModel.Role)
		if !ok || role != userModel.RoleSuperAdmin {
			return reject(c, apperrors.ErrForbidden)
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Cookies("access")
}

func reject(c *fiber.Ctx, err error) error {
	status := apperrors.StatusCode(err)
	return c.Status(status).JSON(types.ApiResponse{
		StatusCode:   status,
		Success:      false,
		ErrorMessage: apperrors.PublicMessage(err),
	})
}
