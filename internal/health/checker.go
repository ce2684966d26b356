// Package health aggregates the subsystem probes behind the health
// endpoint: database and redis connectivity, provider credential
// validation, circuit breaker state, and usage limit sanity.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/provider"
	"github.com/eduforge/aigen-api/internal/resilience"
)

// Status classifies a check outcome or the aggregate report.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
)

const (
	// checkTimeout bounds each individual probe so a hung dependency
	// cannot stall the whole report.
	checkTimeout = 5 * time.Second

	// breakerFailureTolerance is the failure count above which a closed
	// circuit still degrades the report. Matches the breaker threshold
	// closely enough to warn before the circuit actually opens.
	breakerFailureTolerance = 3

	// maxSaneMonthlyLimit flags quota rows that were fat-fingered into
	// absurd territory.
	maxSaneMonthlyLimit = 10000
)

// CheckResult is the outcome of a single named probe.
type CheckResult struct {
	Status Status            `json:"status"`
	Error  string            `json:"error,omitempty"`
	Detail map[string]string `json:"detail,omitempty"`
}

// Report is the aggregate of all probes. Status is degraded as soon as
// any single check is.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// RedisPinger is the slice of the redis client the checker needs.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// CircuitReporter reports breaker state per service kind. Satisfied by
// generation.Service.
type CircuitReporter interface {
	CircuitStatuses() map[domain.ServiceKind]resilience.CircuitStatus
}

// LimitReporter resolves the monthly limit currently applied to a role.
// Satisfied by usage.Tracker.
type LimitReporter interface {
	EffectiveMonthlyLimit(ctx context.Context, role domain.Role) int
}

// Checker runs the named health probes and aggregates their results.
type Checker struct {
	db        *sql.DB
	redis     RedisPinger
	registry  *provider.Registry
	providers map[string]provider.Config
	circuits  CircuitReporter
	limits    LimitReporter
	logger    *slog.Logger
}

// NewChecker creates a health checker. providers maps provider ids to
// the configs they were wired with; only configured providers are
// probed.
func NewChecker(
	db *sql.DB,
	redisClient RedisPinger,
	registry *provider.Registry,
	providers map[string]provider.Config,
	circuits CircuitReporter,
	limits LimitReporter,
	logger *slog.Logger,
) *Checker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Checker{
		db:        db,
		redis:     redisClient,
		registry:  registry,
		providers: providers,
		circuits:  circuits,
		limits:    limits,
		logger:    logger.With(slog.String("component", "health_checker")),
	}
}

// Check runs every probe and returns the aggregate report. It never
// returns an error; failures surface as degraded check results.
func (c *Checker) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"database":         c.checkDatabase(ctx),
		"redis":            c.checkRedis(ctx),
		"providers":        c.checkProviders(ctx),
		"circuit_breakers": c.checkBreakers(),
		"usage_limits":     c.checkUsageLimits(ctx),
	}

	status := StatusOK
	for name, result := range checks {
		if result.Status != StatusOK {
			status = StatusDegraded
			c.logger.WarnContext(ctx, "health check degraded",
				slog.String("check", name),
				slog.String("error", result.Error))
		}
	}

	return Report{Status: status, Checks: checks}
}

func (c *Checker) checkDatabase(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error()}
	}
	return CheckResult{Status: StatusOK}
}

func (c *Checker) checkRedis(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := c.redis.Ping(ctx).Err(); err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error()}
	}
	return CheckResult{Status: StatusOK}
}

// checkProviders constructs each configured provider through the
// registry and runs its credential validation call.
func (c *Checker) checkProviders(ctx context.Context) CheckResult {
	if len(c.providers) == 0 {
		return CheckResult{Status: StatusDegraded, Error: "no providers configured"}
	}

	detail := make(map[string]string, len(c.providers))
	status := StatusOK
	for id, cfg := range c.providers {
		if err := c.probeProvider(ctx, id, cfg); err != nil {
			detail[id] = err.Error()
			status = StatusDegraded
			continue
		}
		detail[id] = string(StatusOK)
	}

	result := CheckResult{Status: status, Detail: detail}
	if status != StatusOK {
		result.Error = "provider validation failed"
	}
	return result
}

func (c *Checker) probeProvider(ctx context.Context, id string, cfg provider.Config) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	p, err := c.registry.Create(ctx, id, cfg)
	if err != nil {
		return err
	}
	return p.ValidateConfig(ctx)
}

// checkBreakers degrades when any circuit is open, or when a still
// closed circuit has accumulated enough failures to be close to
// opening.
func (c *Checker) checkBreakers() CheckResult {
	statuses := c.circuits.CircuitStatuses()

	detail := make(map[string]string, len(statuses))
	status := StatusOK
	for kind, st := range statuses {
		detail[string(kind)] = st.State
		if st.Open() || st.FailureCount > breakerFailureTolerance {
			status = StatusDegraded
		}
	}

	result := CheckResult{Status: status, Detail: detail}
	if status != StatusOK {
		result.Error = "one or more circuits are open or failing"
	}
	return result
}

// checkUsageLimits verifies every role resolves to a limit in sane
// bounds. A zero or negative limit blocks all generation for the role;
// an enormous one usually means a typo in the limits table.
func (c *Checker) checkUsageLimits(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	roles := []domain.Role{domain.RoleStudent, domain.RoleInstructor, domain.RoleAdmin}

	detail := make(map[string]string, len(roles))
	status := StatusOK
	for _, role := range roles {
		limit := c.limits.EffectiveMonthlyLimit(ctx, role)
		if limit <= 0 || limit > maxSaneMonthlyLimit {
			detail[string(role)] = fmt.Sprintf("limit %d out of range", limit)
			status = StatusDegraded
			continue
		}
		detail[string(role)] = strconv.Itoa(limit)
	}

	result := CheckResult{Status: status, Detail: detail}
	if status != StatusOK {
		result.Error = "usage limits out of range"
	}
	return result
}
