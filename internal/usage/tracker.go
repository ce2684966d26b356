// Package usage enforces per-user AI consumption limits and records
// every generation attempt. Two limits stack: a fixed-window hourly
// rate cap (internal/ratelimit) and a monthly quota derived from the
// user's role. The rate cap is checked first and its denial takes
// precedence over the quota.
package usage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/ratelimit"
	"github.com/eduforge/aigen-api/internal/store"
)

// Encryptor seals payload summaries before they hit the database.
// Satisfied by *crypto.Manager.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
}

// FallbackMonthlyLimit applies when neither the store nor the
// configured defaults carry a limit for the user's role.
const FallbackMonthlyLimit = 50

// ErrNilUser is returned when a tracker method receives no user.
var ErrNilUser = errors.New("user is required")

// Decision is the outcome of a usage limit check. RetryAfter is in
// seconds and set only for rate-limit denials.
type Decision struct {
	Allowed      bool   `json:"allowed"`
	CurrentUsage int    `json:"current_usage"`
	MonthlyLimit int    `json:"monthly_limit"`
	Remaining    int    `json:"remaining"`
	Reason       string `json:"reason,omitempty"`
	RetryAfter   int    `json:"retry_after,omitempty"`
}

// MonthlyStats supplements a quota decision with per-kind counts for
// the usage endpoint.
type MonthlyStats struct {
	Decision
	ByKind map[domain.ServiceKind]int `json:"by_kind"`
}

// LogEntry describes one generation attempt to be recorded.
// RequestData and ResponseData are summary maps (lengths, scores,
// parameters), never raw prompts or completions.
type LogEntry struct {
	UserID       uuid.UUID
	Kind         domain.ServiceKind
	TokensUsed   int
	CostEstimate float64
	Success      bool
	ErrorMessage string
	RequestData  map[string]any
	ResponseData map[string]any
	Provider     string
	Model        string
}

// Tracker checks usage limits and writes usage records.
type Tracker struct {
	records   store.UsageRecordStore
	limits    store.UsageLimitStore
	limiter   *ratelimit.Limiter
	encryptor Encryptor
	defaults  map[domain.Role]int
	logger    *slog.Logger
}

// NewTracker creates a usage tracker. defaults maps roles to monthly
// limits used when the store has no row for a role; nil falls back to
// domain.DefaultMonthlyLimits().
func NewTracker(
	records store.UsageRecordStore,
	limits store.UsageLimitStore,
	limiter *ratelimit.Limiter,
	encryptor Encryptor,
	defaults map[domain.Role]int,
	logger *slog.Logger,
) *Tracker {
	if defaults == nil {
		defaults = domain.DefaultMonthlyLimits()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{
		records:   records,
		limits:    limits,
		limiter:   limiter,
		encryptor: encryptor,
		defaults:  defaults,
		logger:    logger.With(slog.String("component", "usage_tracker")),
	}
}

// WithTx returns a copy of the tracker whose record writes run inside
// the given transaction. Limit lookups and the rate limiter are
// unaffected.
func (t *Tracker) WithTx(tx *sql.Tx) *Tracker {
	clone := *t
	clone.records = t.records.WithTx(tx)
	return &clone
}

// CheckUsageLimit decides whether the user may run one more generation
// of the given kind. The hourly rate cap is evaluated first; a rate
// denial consumes one slot of the window and reports RetryAfter. The
// monthly quota counts only successful records created at or after the
// first instant of now's month.
func (t *Tracker) CheckUsageLimit(
	ctx context.Context,
	user *domain.User,
	kind domain.ServiceKind,
	now time.Time,
) (Decision, error) {
	if user == nil {
		return Decision{}, ErrNilUser
	}

	allowed, err := t.limiter.Allow(ctx, user.ID, kind)
	if err != nil {
		return Decision{}, err
	}
	if !allowed {
		return Decision{
			Allowed:    false,
			Reason:     fmt.Sprintf("rate limit exceeded (%d requests per hour)", t.limiter.Limit()),
			RetryAfter: int(t.limiter.Window().Seconds()),
		}, nil
	}

	return t.quotaDecision(ctx, user, now)
}

// MonthlyUsage reports the user's quota standing and per-kind counts
// for the current month. It never touches the rate limiter, so calling
// it does not consume a request slot.
func (t *Tracker) MonthlyUsage(ctx context.Context, user *domain.User, now time.Time) (MonthlyStats, error) {
	if user == nil {
		return MonthlyStats{}, ErrNilUser
	}

	decision, err := t.quotaDecision(ctx, user, now)
	if err != nil {
		return MonthlyStats{}, err
	}

	byKind, err := t.records.CountSuccessfulByKindSince(ctx, user.ID, firstInstantOfMonth(now))
	if err != nil {
		return MonthlyStats{}, fmt.Errorf("failed to count usage by kind: %w", err)
	}

	return MonthlyStats{Decision: decision, ByKind: byKind}, nil
}

// LogUsage writes exactly one usage record for a generation attempt.
// The request and response summaries are JSON-encoded and encrypted at
// rest; if encryption fails the plaintext JSON is stored instead so the
// record is never dropped.
func (t *Tracker) LogUsage(ctx context.Context, entry LogEntry) (*domain.UsageRecord, error) {
	record, err := domain.NewUsageRecord(entry.UserID, entry.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to build usage record: %w", err)
	}

	record.TokensUsed = entry.TokensUsed
	record.CostEstimate = entry.CostEstimate
	record.Success = entry.Success
	record.ErrorMessage = entry.ErrorMessage
	record.Provider = entry.Provider
	record.ModelUsed = entry.Model
	record.RequestData = t.sealPayload(ctx, entry.RequestData)
	record.ResponseData = t.sealPayload(ctx, entry.ResponseData)

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid usage record: %w", err)
	}

	if err := t.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save usage record: %w", err)
	}

	return record, nil
}

func (t *Tracker) quotaDecision(ctx context.Context, user *domain.User, now time.Time) (Decision, error) {
	limit := t.monthlyLimit(ctx, user.Role)

	count, err := t.records.CountSuccessfulSince(ctx, user.ID, firstInstantOfMonth(now))
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count monthly usage: %w", err)
	}

	decision := Decision{
		Allowed:      count < limit,
		CurrentUsage: count,
		MonthlyLimit: limit,
		Remaining:    max(0, limit-count),
	}
	if !decision.Allowed {
		decision.Reason = "monthly limit exceeded"
	}
	return decision, nil
}

// EffectiveMonthlyLimit reports the limit currently applied to a role
// after store lookup and configured defaults. Used by health checks to
// catch misconfigured quotas.
func (t *Tracker) EffectiveMonthlyLimit(ctx context.Context, role domain.Role) int {
	return t.monthlyLimit(ctx, role)
}

// monthlyLimit resolves the limit for a role: store row, then the
// configured default, then FallbackMonthlyLimit.
func (t *Tracker) monthlyLimit(ctx context.Context, role domain.Role) int {
	limit, err := t.limits.GetMonthlyLimit(ctx, role)
	if err == nil {
		return limit
	}
	if !store.IsNotFoundError(err) {
		t.logger.WarnContext(ctx, "failed to load monthly limit, using default",
			slog.String("role", string(role)),
			slog.String("error", err.Error()))
	}

	if fallback, ok := t.defaults[role]; ok {
		return fallback
	}
	return FallbackMonthlyLimit
}

// sealPayload encodes and encrypts a summary map for storage.
func (t *Tracker) sealPayload(ctx context.Context, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		t.logger.WarnContext(ctx, "failed to encode usage payload",
			slog.String("error", err.Error()))
		return "{}"
	}

	sealed, err := t.encryptor.Encrypt(string(raw))
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to encrypt usage data, storing plaintext",
			slog.String("error", err.Error()))
		return string(raw)
	}
	return sealed
}

// firstInstantOfMonth truncates now to midnight on the first day of its
// month, in now's location.
func firstInstantOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
