package services

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Credentials hashes passwords and signs access tokens.
type Credentials struct {
	secret []byte
	expiry time.Duration
	cost   int
}

// NewCredentials returns a Credentials signing HS256 tokens with secret.
// A cost <= 0 uses bcrypt.DefaultCost.
func NewCredentials(secret string, expiry time.Duration, cost int) *Credentials {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Credentials{secret: []byte(secret), expiry: expiry, cost: cost}
}

func (c *Credentials) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (c *Credentials) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token carrying the user's id, email and role.
func (c *Credentials) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(c.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
