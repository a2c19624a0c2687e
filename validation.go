package authkit

import (
	"net/mail"
	"strings"
)

const passwordSymbols = "!@#$%^&*"

const (
	minPasswordLength = 8
	maxPasswordLength = 256
	maxNameLength     = 128
	maxEmailLength    = 254
)

// NormalizeEmail describes the normalizeemail operation and its observable behavior.
//
// NormalizeEmail may return an error when input validation, dependency calls, or security checks fail.
// NormalizeEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail describes the validateemail operation and its observable behavior.
//
// ValidateEmail may return an error when input validation, dependency calls, or security checks fail.
// ValidateEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ValidateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength {
		return ErrEmailInvalid
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}
	return nil
}

// ValidateName describes the validatename operation and its observable behavior.
//
// ValidateName may return an error when input validation, dependency calls, or security checks fail.
// ValidateName does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > maxNameLength {
		return ErrNameInvalid
	}
	return nil
}

// ValidatePassword describes the validatepassword operation and its observable behavior.
//
// ValidatePassword may return an error when input validation, dependency calls, or security checks fail.
// ValidatePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ValidatePassword(pw string) error {
	if len(pw) < minPasswordLength || len(pw) > maxPasswordLength {
		return ErrPasswordPolicy
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return ErrPasswordPolicy
	}
	return nil
}
