package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/provider"
	"github.com/eduforge/aigen-api/internal/resilience"
)

type fakeRedis struct {
	err error
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetErr(f.err)
	return cmd
}

type fakeCircuits struct {
	statuses map[domain.ServiceKind]resilience.CircuitStatus
}

func (f *fakeCircuits) CircuitStatuses() map[domain.ServiceKind]resilience.CircuitStatus {
	return f.statuses
}

type fakeLimits struct {
	limits map[domain.Role]int
}

func (f *fakeLimits) EffectiveMonthlyLimit(_ context.Context, role domain.Role) int {
	return f.limits[role]
}

// stubProvider satisfies provider.Provider with a configurable
// validation outcome.
type stubProvider struct {
	validateErr error
}

func (p *stubProvider) GenerateText(context.Context, string, provider.Options) provider.Response {
	return provider.Response{Success: true}
}

func (p *stubProvider) EstimateCost(int) float64 { return 0 }

func (p *stubProvider) MaxTokens() int { return 4096 }

func (p *stubProvider) ValidateConfig(context.Context) error { return p.validateErr }

func (p *stubProvider) Name() string { return "probe" }

// checkerFixture holds a checker with healthy defaults plus the knobs
// tests flip to break individual subsystems.
type checkerFixture struct {
	checker  *Checker
	dbMock   sqlmock.Sqlmock
	redis    *fakeRedis
	circuits *fakeCircuits
	limits   *fakeLimits
}

func newCheckerFixture(t *testing.T, validateErrs map[string]error) *checkerFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	registry := provider.NewRegistry()
	providers := make(map[string]provider.Config)
	for id, validateErr := range validateErrs {
		validateErr := validateErr
		registry.Register(id, func(_ context.Context, _ provider.Config) (provider.Provider, error) {
			return &stubProvider{validateErr: validateErr}, nil
		})
		providers[id] = provider.Config{APIKey: "key", Model: "model"}
	}

	redisClient := &fakeRedis{}
	circuits := &fakeCircuits{statuses: map[domain.ServiceKind]resilience.CircuitStatus{
		domain.ServiceQuizGeneration: {State: "closed"},
		domain.ServiceLessonSummary:  {State: "closed"},
	}}
	limits := &fakeLimits{limits: map[domain.Role]int{
		domain.RoleStudent:    50,
		domain.RoleInstructor: 200,
		domain.RoleAdmin:      1000,
	}}

	return &checkerFixture{
		checker:  NewChecker(db, redisClient, registry, providers, circuits, limits, nil),
		dbMock:   dbMock,
		redis:    redisClient,
		circuits: circuits,
		limits:   limits,
	}
}

func TestCheckAllHealthy(t *testing.T) {
	f := newCheckerFixture(t, map[string]error{"openai": nil, "anthropic": nil})
	f.dbMock.ExpectPing()

	report := f.checker.Check(context.Background())

	assert.Equal(t, StatusOK, report.Status)
	require.Len(t, report.Checks, 5)
	for name, result := range report.Checks {
		assert.Equal(t, StatusOK, result.Status, "check %s", name)
	}
	assert.Equal(t, "ok", report.Checks["providers"].Detail["openai"])
	assert.Equal(t, "50", report.Checks["usage_limits"].Detail["student"])
}

func TestCheckDatabaseDown(t *testing.T) {
	f := newCheckerFixture(t, map[string]error{"openai": nil})
	f.dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))

	report := f.checker.Check(context.Background())

	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, StatusDegraded, report.Checks["database"].Status)
	assert.Contains(t, report.Checks["database"].Error, "connection refused")
	// The other checks still run
	assert.Equal(t, StatusOK, report.Checks["redis"].Status)
}

func TestCheckRedisDown(t *testing.T) {
	f := newCheckerFixture(t, map[string]error{"openai": nil})
	f.dbMock.ExpectPing()
	f.redis.err = errors.New("redis: connection pool timeout")

	report := f.checker.Check(context.Background())

	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, StatusDegraded, report.Checks["redis"].Status)
}

func TestCheckProviderValidationFails(t *testing.T) {
	f := newCheckerFixture(t, map[string]error{
		"openai":    nil,
		"anthropic": errors.New("invalid api key"),
	})
	f.dbMock.ExpectPing()

	report := f.checker.Check(context.Background())

	assert.Equal(t, StatusDegraded, report.Status)
	providersCheck := report.Checks["providers"]
	assert.Equal(t, StatusDegraded, providersCheck.Status)
	assert.Equal(t, "ok", providersCheck.Detail["openai"])
	assert.Contains(t, providersCheck.Detail["anthropic"], "invalid api key")
}

func TestCheckNoProvidersConfigured(t *testing.T) {
	f := newCheckerFixture(t, nil)
	f.dbMock.ExpectPing()

	report := f.checker.Check(context.Background())

	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, "no providers configured", report.Checks["providers"].Error)
}

func TestCheckBreakerDegradesReport(t *testing.T) {
	tests := []struct {
		name   string
		status resilience.CircuitStatus
		want   Status
	}{
		{
			name:   "open circuit",
			status: resilience.CircuitStatus{State: "open", FailureCount: 5},
			want:   StatusDegraded,
		},
		{
			name:   "closed but accumulating failures",
			status: resilience.CircuitStatus{State: "closed", FailureCount: 4},
			want:   StatusDegraded,
		},
		{
			name:   "closed with few failures",
			status: resilience.CircuitStatus{State: "closed", FailureCount: 2},
			want:   StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckerFixture(t, map[string]error{"openai": nil})
			f.dbMock.ExpectPing()
			f.circuits.statuses[domain.ServiceQuizGeneration] = tc.status

			report := f.checker.Check(context.Background())

			assert.Equal(t, tc.want, report.Checks["circuit_breakers"].Status)
			assert.Equal(t, tc.status.State, report.Checks["circuit_breakers"].Detail["quiz_generation"])
		})
	}
}

func TestCheckUsageLimitsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{name: "zero limit", limit: 0},
		{name: "negative limit", limit: -5},
		{name: "absurdly large limit", limit: 20000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckerFixture(t, map[string]error{"openai": nil})
			f.dbMock.ExpectPing()
			f.limits.limits[domain.RoleStudent] = tc.limit

			report := f.checker.Check(context.Background())

			assert.Equal(t, StatusDegraded, report.Status)
			check := report.Checks["usage_limits"]
			assert.Equal(t, StatusDegraded, check.Status)
			assert.Contains(t, check.Detail["student"], "out of range")
			// Other roles stay in range
			assert.Equal(t, "200", check.Detail["instructor"])
		})
	}
}
