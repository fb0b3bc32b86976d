package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const principalKey = "principal"

// Principal is the authenticated caller as stated by the bearer token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals("user").(*jwt.Token)
			p, err := principalFromToken(token)
			if err != nil {
				return err
			}
			c.Locals(principalKey, p)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return apperr.Unauthenticated("Access token required")
			}
			return apperr.Unauthenticated("Invalid or expired token")
		},
	})
}

func principalFromToken(token *jwt.Token) (Principal, error) {
	invalid := apperr.Unauthenticated("Invalid token claims")
	if token == nil {
		return Principal{}, invalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, invalid
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return Principal{}, invalid
	}
	rawRole, _ := claims["role"].(string)
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return Principal{}, invalid
	}
	email, _ := claims["email"].(string)

	return Principal{UserID: id, Email: email, Role: role}, nil
}

// CurrentPrincipal returns the caller stored by JWTProtected.
func CurrentPrincipal(c *fiber.Ctx) (Principal, error) {
	p, ok := c.Locals(principalKey).(Principal)
	if !ok {
		return Principal{}, apperr.Unauthenticated("Access token required")
	}
	return p, nil
}
