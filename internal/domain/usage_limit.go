package domain

import (
	"errors"
	"time"
)

// ErrInvalidMonthlyLimit is returned when a monthly limit is not positive.
var ErrInvalidMonthlyLimit = errors.New("monthly limit must be greater than 0")

// UsageLimit is the monthly generation allowance for a role.
type UsageLimit struct {
	Role         Role      `json:"role"`
	MonthlyLimit int       `json:"monthly_limit"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultMonthlyLimits returns the built-in allowances applied when no
// limit row exists for a role.
func DefaultMonthlyLimits() map[Role]int {
	return map[Role]int{
		RoleStudent:    50,
		RoleInstructor: 200,
		RoleAdmin:      1000,
	}
}

// Validate checks if the UsageLimit has valid data.
// Returns an error if any field fails validation.
func (l *UsageLimit) Validate() error {
	if !isValidRole(l.Role) {
		return ErrInvalidRole
	}

	if l.MonthlyLimit <= 0 {
		return ErrInvalidMonthlyLimit
	}

	return nil
}
