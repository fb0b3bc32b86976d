package middleware

import (
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RequireRoles lets the request through only when the token's role is one
// of roles. It must run after JWTProtected.
func RequireRoles(message string, roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		if !allowed[p.Role] {
			return apperr.Forbidden(message)
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return RequireRoles("Admin access required", models.RoleAdmin, models.RoleOwner)
}

func OwnerRequired() fiber.Handler {
	return RequireRoles("Owner access required", models.RoleOwner)
}
