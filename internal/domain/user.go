package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role on the learning platform.
type Role string

// Possible role values
const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Common validation errors for User
var (
	ErrEmptyUserID  = errors.New("user ID cannot be empty")
	ErrEmptyEmail   = errors.New("email cannot be empty")
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInvalidRole  = errors.New("invalid role")
)

// User represents a platform account as seen by the generation service.
// Authentication and profile management live upstream; this type carries
// only what usage tracking and the review workflow need.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a new User with the given email and role.
// It generates a new UUID for the user ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewUser(email string, role Role) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !isValidRole(u.Role) {
		return ErrInvalidRole
	}

	return nil
}

// IsInstructor reports whether the user holds instructor privileges.
// Admins count as instructors for review purposes.
func (u *User) IsInstructor() bool {
	return u.Role == RoleInstructor || u.Role == RoleAdmin
}

// IsAdmin reports whether the user is a platform administrator.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ParseRole converts a string into a Role.
// Returns ErrInvalidRole for unknown values.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(s))
	if !isValidRole(role) {
		return "", ErrInvalidRole
	}
	return role, nil
}

// isValidRole checks if the given role is a known Role.
func isValidRole(role Role) bool {
	switch role {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// validateEmailFormat performs a minimal shape check on an email address.
// The identity service owns real validation; this only rejects values
// that cannot possibly be addresses.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domain := email[atIndex+1:]
	dotIndex := strings.IndexByte(domain, '.')
	if dotIndex <= 0 || dotIndex == len(domain)-1 {
		return false
	}

	return true
}
