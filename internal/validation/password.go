// Package validation holds input validation rules shared by handlers and services.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"nuvy/internal/models"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	minUsernameLen = 3
	maxUsernameLen = 30
	maxEmailLen    = 254
)

// ValidatePassword enforces the password policy: length bounds plus at least
// one upper, one lower, one digit and one special character.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < minPasswordLen {
		return models.NewValidationError("Password must be at least 12 characters")
	}
	if len(runes) > maxPasswordLen {
		return models.NewValidationError("Password must be at most 128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return models.NewValidationError("Password must contain upper and lower case letters, a digit and a special character")
	}
	return nil
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*[a-zA-Z0-9]$`)

// ValidateUsername enforces the username policy: 3-30 characters, letters,
// digits, underscore or dash, starting and ending alphanumeric.
func ValidateUsername(username string) error {
	runes := []rune(username)
	if len(runes) < minUsernameLen {
		return models.NewValidationError("Username must be at least 3 characters")
	}
	if len(runes) > maxUsernameLen {
		return models.NewValidationError("Username must be at most 30 characters")
	}
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("Username may only contain letters, digits, dashes and underscores, and must start and end with a letter or digit")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-zA-Z]{2,}$`)

// ValidateEmail performs a pragmatic syntactic check, not full RFC 5322.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return models.NewValidationError("Email too long")
	}
	if strings.HasSuffix(email, ".") || !emailRegex.MatchString(email) {
		return models.NewValidationError("Invalid email address")
	}
	return nil
}
