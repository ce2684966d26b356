package store_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduforge/aigen-api/internal/store"
)

// Compile-time checks that both connection and transaction handles satisfy
// the DBTX abstraction the store implementations are written against.
var (
	_ store.DBTX = (*sql.DB)(nil)
	_ store.DBTX = (*sql.Tx)(nil)
)

// TestErrorDefinitions ensures that the error definitions in the store
// package are defined as expected and can be used with errors.Is.
func TestErrorDefinitions(t *testing.T) {
	t.Parallel()

	t.Run("entity errors wrap ErrNotFound", func(t *testing.T) {
		t.Parallel()

		entityErrs := []error{
			store.ErrUsageRecordNotFound,
			store.ErrGeneratedContentNotFound,
			store.ErrServiceConfigNotFound,
			store.ErrUsageLimitNotFound,
			store.ErrLessonNotFound,
		}

		for _, err := range entityErrs {
			assert.True(t, errors.Is(err, store.ErrNotFound), "%v should wrap ErrNotFound", err)
			assert.False(t, errors.Is(err, store.ErrDuplicate), "%v should not wrap ErrDuplicate", err)
		}
	})

	t.Run("entity errors stay distinct", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("lookup failed: %w", store.ErrServiceConfigNotFound)

		assert.True(t, errors.Is(err, store.ErrServiceConfigNotFound))
		assert.False(t, errors.Is(err, store.ErrUsageLimitNotFound))
	})

	t.Run("error messages", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "entity not found: usage record", store.ErrUsageRecordNotFound.Error())
		assert.Equal(t, "entity not found: lesson", store.ErrLessonNotFound.Error())
		assert.Equal(t, "entity not found: service config", store.ErrServiceConfigNotFound.Error())
	})
}
