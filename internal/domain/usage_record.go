package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for UsageRecord
var (
	ErrEmptyRecordID     = errors.New("usage record ID cannot be empty")
	ErrEmptyRecordUserID = errors.New("usage record user ID cannot be empty")
	ErrNegativeTokens    = errors.New("tokens used cannot be negative")
	ErrNegativeCost      = errors.New("cost estimate cannot be negative")
)

// UsageRecord captures one AI generation attempt, success or failure.
// Exactly one record exists per logical generation call. RequestData and
// ResponseData hold encrypted summaries of what was sent and received;
// they are never serialized into API responses.
type UsageRecord struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	ServiceKind  ServiceKind `json:"service_type"`
	TokensUsed   int         `json:"tokens_used"`
	CostEstimate float64     `json:"cost_estimate"`
	Success      bool        `json:"success"`
	ErrorMessage string      `json:"error_message,omitempty"`
	RequestData  string      `json:"-"`
	ResponseData string      `json:"-"`
	Provider     string      `json:"provider,omitempty"`
	ModelUsed    string      `json:"model_used,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewUsageRecord creates a new UsageRecord for the given user and service.
// It generates a new UUID for the record ID and sets the creation
// timestamp. Token counts, cost, outcome, and payload summaries are
// filled in by the caller before the record is persisted.
// Returns an error if validation fails.
func NewUsageRecord(userID uuid.UUID, kind ServiceKind) (*UsageRecord, error) {
	record := &UsageRecord{
		ID:          uuid.New(),
		UserID:      userID,
		ServiceKind: kind,
		CreatedAt:   time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the UsageRecord has valid data.
// Returns an error if any field fails validation.
func (r *UsageRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRecordID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyRecordUserID
	}

	if !r.ServiceKind.Valid() {
		return ErrInvalidServiceKind
	}

	if r.TokensUsed < 0 {
		return ErrNegativeTokens
	}

	if r.CostEstimate < 0 {
		return ErrNegativeCost
	}

	return nil
}
