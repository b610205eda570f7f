package utils

import (
	"regexp"
	"strings"

	"vidhub/pkg/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,50}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NormalizeUsername case-folds and trims a username before storage or
// lookup. Usernames are unique case-insensitively.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail case-folds and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUsername checks a normalized username.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidateEmail checks a normalized email address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidateTitle validates a video or playlist title.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < 1 || len(title) > 255 {
		return models.ErrInvalidInput
	}
	return nil
}
