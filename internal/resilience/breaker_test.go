package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/aigen-api/internal/domain"
	"github.com/eduforge/aigen-api/internal/platform/logger"
)

// testSettings trips fast and recovers fast so state transitions can be
// observed without long sleeps.
func testSettings() BreakerSettings {
	return BreakerSettings{
		FailureThreshold: 3,
		RecoveryTimeout:  50 * time.Millisecond,
	}
}

func newTestRegistry(t *testing.T) *BreakerRegistry {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	return NewBreakerRegistry(testSettings(), log)
}

func TestExecutePassesThroughWhileClosed(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)

	err := registry.Execute(domain.ServiceQuizGeneration, func() error {
		return nil
	})
	require.NoError(t, err)

	cause := errors.New("provider timeout")
	err = registry.Execute(domain.ServiceQuizGeneration, func() error {
		return cause
	})
	assert.ErrorIs(t, err, cause)

	status := registry.Status(domain.ServiceQuizGeneration)
	assert.Equal(t, "closed", status.State)
	assert.Equal(t, 1, status.FailureCount)
}

func TestExecuteOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	cause := errors.New("provider unavailable")

	for i := 0; i < 3; i++ {
		err := registry.Execute(domain.ServiceQuizGeneration, func() error {
			return cause
		})
		assert.ErrorIs(t, err, cause)
	}

	status := registry.Status(domain.ServiceQuizGeneration)
	assert.Equal(t, "open", status.State)
	assert.Equal(t, 3, status.FailureCount)
	assert.False(t, status.LastFailureTime.IsZero())

	// The open breaker refuses without invoking the function.
	calls := 0
	err := registry.Execute(domain.ServiceQuizGeneration, func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Contains(t, err.Error(), "quiz_generation")
	assert.Equal(t, 0, calls)
}

func TestExecuteRecoversAfterTimeout(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	cause := errors.New("provider unavailable")

	for i := 0; i < 3; i++ {
		_ = registry.Execute(domain.ServiceLessonSummary, func() error {
			return cause
		})
	}
	require.Equal(t, "open", registry.Status(domain.ServiceLessonSummary).State)

	time.Sleep(80 * time.Millisecond)

	// First call after the recovery timeout is the half-open trial.
	err := registry.Execute(domain.ServiceLessonSummary, func() error {
		return nil
	})
	require.NoError(t, err)

	status := registry.Status(domain.ServiceLessonSummary)
	assert.Equal(t, "closed", status.State)
	assert.Equal(t, 0, status.FailureCount)
}

func TestExecuteReopensWhenTrialFails(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	cause := errors.New("still down")

	for i := 0; i < 3; i++ {
		_ = registry.Execute(domain.ServiceFlashcardGeneration, func() error {
			return cause
		})
	}

	time.Sleep(80 * time.Millisecond)

	err := registry.Execute(domain.ServiceFlashcardGeneration, func() error {
		return cause
	})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "open", registry.Status(domain.ServiceFlashcardGeneration).State)

	err = registry.Execute(domain.ServiceFlashcardGeneration, func() error {
		t.Fatal("function must not run while the breaker is open")
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestSuccessResetsConsecutiveFailures(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	cause := errors.New("flaky")

	for i := 0; i < 2; i++ {
		_ = registry.Execute(domain.ServiceQuizGeneration, func() error {
			return cause
		})
	}
	require.NoError(t, registry.Execute(domain.ServiceQuizGeneration, func() error {
		return nil
	}))

	// Two more failures stay below the threshold because the streak reset.
	for i := 0; i < 2; i++ {
		_ = registry.Execute(domain.ServiceQuizGeneration, func() error {
			return cause
		})
	}

	status := registry.Status(domain.ServiceQuizGeneration)
	assert.Equal(t, "closed", status.State)
	assert.Equal(t, 2, status.FailureCount)
}

func TestBreakersAreIsolatedPerKind(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	cause := errors.New("quiz backend down")

	for i := 0; i < 3; i++ {
		_ = registry.Execute(domain.ServiceQuizGeneration, func() error {
			return cause
		})
	}
	require.Equal(t, "open", registry.Status(domain.ServiceQuizGeneration).State)

	err := registry.Execute(domain.ServiceLessonSummary, func() error {
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "closed", registry.Status(domain.ServiceLessonSummary).State)
}

func TestAllStatusesCoversEveryServiceKind(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	statuses := registry.AllStatuses()

	require.Len(t, statuses, len(domain.ServiceKinds()))
	for _, kind := range domain.ServiceKinds() {
		status, ok := statuses[kind]
		require.True(t, ok, "missing status for %s", kind)
		assert.Equal(t, "closed", status.State)
		assert.Equal(t, 0, status.FailureCount)
		assert.True(t, status.LastFailureTime.IsZero())
	}
}

func TestNewBreakerRegistryAppliesDefaults(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	registry := NewBreakerRegistry(BreakerSettings{}, log)

	assert.Equal(t, uint32(DefaultFailureThreshold), registry.settings.FailureThreshold)
	assert.Equal(t, DefaultRecoveryTimeout, registry.settings.RecoveryTimeout)
}
