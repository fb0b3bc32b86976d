package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 6
	maxBioLength      = 200
	previewLength     = 50
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLength || n > maxUsernameLength {
		return apperr.Validation("Username must be between 3 and 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return apperr.Validation("Username can only contain letters, numbers, and underscores")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperr.Validation("Valid email is required")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return apperr.Validation("Password must be at least 6 characters")
	}
	return nil
}

func validateBio(bio string) error {
	if utf8.RuneCountInString(bio) > maxBioLength {
		return apperr.Validation("Bio must not exceed 200 characters")
	}
	return nil
}

// normalizeContent trims post content and enforces its length rules.
func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperr.Validation(msgPostContentEmpty)
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLength {
		return "", apperr.Validation(msgPostTooLong)
	}
	return content, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// excerpt returns at most n runes of s.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
