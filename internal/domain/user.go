package domain

import (
	"strings"
	"time"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user, assigned on creation.
	ID int64 `json:"id"`

	// Email is unique across all users. Matching is exact and case-sensitive.
	Email string `json:"email"`

	// Username is an optional display name.
	Username string `json:"username,omitempty"`

	// Password is stored as plain text; hashing is outside this layer.
	// It is never exposed in API responses.
	Password string `json:"-"`

	// RegistrationDate is set once when the user is created.
	RegistrationDate time.Time `json:"registrationDate"`
}

// NewUser creates a new User stamped with the current registration time.
func NewUser(email, username, password string) *User {
	return &User{
		Email:            email,
		Username:         username,
		Password:         password,
		RegistrationDate: time.Now().UTC(),
	}
}

// Clone returns a copy that callers may keep without sharing store state.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// UserPatch carries the fields of a partial user update.
// Blank fields leave the stored value unchanged.
type UserPatch struct {
	Email    string
	Username string
	Password string
}

// EmailChange returns the new email and true when the patch replaces current.
func (p UserPatch) EmailChange(current string) (string, bool) {
	if IsBlank(p.Email) || p.Email == current {
		return "", false
	}
	return p.Email, true
}

// Apply copies the non-blank fields of the patch onto u.
func (p UserPatch) Apply(u *User) {
	if !IsBlank(p.Username) {
		u.Username = p.Username
	}
	if email, ok := p.EmailChange(u.Email); ok {
		u.Email = email
	}
	if !IsBlank(p.Password) {
		u.Password = p.Password
	}
}

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
