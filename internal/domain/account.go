package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Role constants define the allowed account roles.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// IsValidRole checks whether the given role string is a valid account role.
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// IsOperatorRole reports whether the role carries management authority over
// the access ledger and the content gate.
func IsOperatorRole(role string) bool {
	return role == RoleInstructor || role == RoleAdmin
}

// OTPChallenge is an outstanding verification challenge bound to an account.
// It is present only between issuance and successful verification.
type OTPChallenge struct {
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the challenge is expired at the given instant.
// A challenge is still valid exactly at its expiry time.
func (c OTPChallenge) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Account represents a registered account in the system. Accounts start
// unverified; only verified accounts may request access, enroll, or record
// progress.
type Account struct {
	ID           string        `json:"id"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email,omitempty"`
	PasswordHash string        `json:"-"`
	Role         string        `json:"role"`
	Verified     bool          `json:"verified"`
	Challenge    *OTPChallenge `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NormalizePhone converts a phone number to a canonical international form:
// a leading '+' followed by 8 to 15 digits. Spaces, dashes, dots, and
// parentheses are stripped; anything else is rejected.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, ch := range raw {
		switch {
		case unicode.IsDigit(ch):
			b.WriteRune(ch)
		case ch == '+' && b.Len() == 0:
			b.WriteRune(ch)
		case ch == ' ' || ch == '-' || ch == '.' || ch == '(' || ch == ')':
			// separator noise, drop it
		default:
			return "", fmt.Errorf("invalid character %q in phone number", ch)
		}
	}

	normalized := b.String()
	if !strings.HasPrefix(normalized, "+") {
		return "", fmt.Errorf("phone number must include a country code prefixed with '+'")
	}

	digits := len(normalized) - 1
	if digits < 8 || digits > 15 {
		return "", fmt.Errorf("phone number must contain 8 to 15 digits, got %d", digits)
	}

	return normalized, nil
}
