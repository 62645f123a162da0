package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 8
	MinPageSize       = 1
	MaxPageSize       = 100
)

func ValidateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("ID must be a positive integer, got %d", id)
	}
	return nil
}

func ValidateNonEmptyString(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

func ValidateEmail(email string) error {
	if err := ValidateNonEmptyString("email", email); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// ValidatePassword applies the Auth service's registration rule: at least eight
// characters with one uppercase letter, one lowercase letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return fmt.Errorf("password must contain at least one uppercase, one lowercase and one digit")
	}
	return nil
}

func ValidatePage(page, size int) error {
	if page < 0 {
		return fmt.Errorf("page must not be negative, got %d", page)
	}
	if size < MinPageSize || size > MaxPageSize {
		return fmt.Errorf("page size must be between %d and %d, got %d", MinPageSize, MaxPageSize, size)
	}
	return nil
}
