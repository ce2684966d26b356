// Package mocks holds shared mock implementations of the application's
// interfaces: the store contracts, the provider Generator, the generation
// service, the cache, and the JWT service. Tests across packages reuse
// these instead of declaring inline mocks.
//
// Every mock follows the same function-field pattern: each interface
// method delegates to an Fn field the test assigns, and unset fields fall
// back to a harmless default.
//
//	import "github.com/eduforge/aigen-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    mockJWTService := &mocks.MockJWTService{
//	        GenerateTokenFn: func(ctx context.Context, userID uuid.UUID, role string) (string, error) {
//	            return "mocked-token", nil
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
//
// New mocks go in a file named after the interface they stand in for.
package mocks
