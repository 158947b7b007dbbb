/*
Package user contains the account model, role constants and credential policy.
*/
package user

import (
	"net/mail"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Roles recognised by role-gated routes.
const (
	RoleAdmin     = "admin"
	RoleSuperUser = "super-user"
	RoleUser      = "user"
)

// User is a shop account.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	IsActive bool     `json:"isActive"`
	Roles    []string `json:"roles"`

	// PasswordHash is the bcrypt hash; never serialized.
	PasswordHash string `json:"-"`
}

// HasAnyRole reports whether u holds at least one of roles. An empty list always matches.
func (u User) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}

	for _, role := range roles {
		if slices.Contains(u.Roles, role) {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a bare address such as "a@b.co".
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

// ValidPassword enforces 6-50 characters with an uppercase letter, a lowercase letter and
// a digit or symbol.
func ValidPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < 6 || n > 50 {
		return false
	}

	var upper, lower, digitOrSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			digitOrSymbol = true
		}
	}

	return upper && lower && digitOrSymbol
}

// ValidFullName requires 1-100 non-blank characters.
func ValidFullName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= 100
}
