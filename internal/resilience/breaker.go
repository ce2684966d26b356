// Package resilience wraps provider calls in a per-service circuit
// breaker and an exponential backoff retry policy. The orchestration
// service composes the two with the breaker on the outside, so one
// retried operation counts once against the breaker regardless of how
// many attempts it took.
package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/eduforge/aigen-api/internal/domain"
)

// Breaker defaults.
const (
	DefaultFailureThreshold = 5
	DefaultRecoveryTimeout  = 60 * time.Second
)

// ErrCircuitOpen is returned when a call is refused because the
// service's circuit is open, or its single half-open trial slot is
// already taken.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitStatus is a point-in-time snapshot of one service's breaker.
type CircuitStatus struct {
	State           string    `json:"state"`
	FailureCount    int       `json:"failure_count"`
	LastFailureTime time.Time `json:"last_failure_time"`
}

// Open reports whether the snapshot shows an open circuit.
func (s CircuitStatus) Open() bool {
	return s.State == gobreaker.StateOpen.String()
}

// BreakerSettings tune every breaker the registry creates.
type BreakerSettings struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the circuit.
	FailureThreshold uint32

	// RecoveryTimeout is how long an open circuit waits before allowing
	// one half-open trial call.
	RecoveryTimeout time.Duration
}

// BreakerRegistry lazily creates and caches one circuit breaker per
// service kind. Breakers live for the process lifetime; state is not
// shared across instances.
type BreakerRegistry struct {
	mu          sync.Mutex
	breakers    map[domain.ServiceKind]*gobreaker.CircuitBreaker
	failures    map[domain.ServiceKind]int
	lastFailure map[domain.ServiceKind]time.Time
	settings    BreakerSettings
	logger      *slog.Logger
}

// NewBreakerRegistry creates a registry with the given settings.
// Zero-valued settings fall back to the defaults.
func NewBreakerRegistry(settings BreakerSettings, logger *slog.Logger) *BreakerRegistry {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = DefaultFailureThreshold
	}
	if settings.RecoveryTimeout <= 0 {
		settings.RecoveryTimeout = DefaultRecoveryTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BreakerRegistry{
		breakers:    make(map[domain.ServiceKind]*gobreaker.CircuitBreaker),
		failures:    make(map[domain.ServiceKind]int),
		lastFailure: make(map[domain.ServiceKind]time.Time),
		settings:    settings,
		logger:      logger.With(slog.String("component", "circuit_breaker")),
	}
}

// Execute runs fn under the breaker for the given service kind. When the
// circuit is open the call is refused with ErrCircuitOpen and fn never
// runs; otherwise fn's error is passed through unchanged.
func (r *BreakerRegistry) Execute(kind domain.ServiceKind, fn func() error) error {
	_, err := r.breaker(kind).Execute(func() (interface{}, error) {
		return nil, fn()
	})

	switch {
	case err == nil:
		r.recordSuccess(kind)
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %s", ErrCircuitOpen, kind)
	default:
		r.recordFailure(kind)
		return err
	}
}

// Status reports the breaker state for one service kind. Kinds that have
// never executed report a closed circuit with zero failures.
func (r *BreakerRegistry) Status(kind domain.ServiceKind) CircuitStatus {
	state := r.breaker(kind).State().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	return CircuitStatus{
		State:           state,
		FailureCount:    r.failures[kind],
		LastFailureTime: r.lastFailure[kind],
	}
}

// AllStatuses reports the breaker state for every known service kind.
func (r *BreakerRegistry) AllStatuses() map[domain.ServiceKind]CircuitStatus {
	statuses := make(map[domain.ServiceKind]CircuitStatus, len(domain.ServiceKinds()))
	for _, kind := range domain.ServiceKinds() {
		statuses[kind] = r.Status(kind)
	}
	return statuses
}

func (r *BreakerRegistry) breaker(kind domain.ServiceKind) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[kind]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: string(kind),
		// Exactly one trial call during half-open.
		MaxRequests: 1,
		// Interval 0: consecutive failure counts persist while closed.
		Interval: 0,
		Timeout:  r.settings.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= r.settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn("circuit breaker state change",
				slog.String("service", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	r.breakers[kind] = cb
	return cb
}

func (r *BreakerRegistry) recordFailure(kind domain.ServiceKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[kind]++
	r.lastFailure[kind] = time.Now().UTC()
}

func (r *BreakerRegistry) recordSuccess(kind domain.ServiceKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[kind] = 0
}
