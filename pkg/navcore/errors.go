package navcore

import (
	"errors"
	"fmt"

	"github.com/navcore-dev/navcore/pkg/navcore/router"
	"github.com/navcore-dev/navcore/pkg/navcore/routes"
)

// Sentinel errors for common conditions.
var (
	// ErrInvalidConfig indicates a configuration value navcore cannot use.
	ErrInvalidConfig = errors.New("invalid navcore configuration")
)

// NavigationError wraps a failure to set up or perform a navigation with the
// operation and route involved.
//
// Navigation itself degrades to a no-op rather than failing, so these errors
// mostly come from constructors and configuration, and from programmer errors
// such as navigating a virtual navigator to an undeclared route.
type NavigationError struct {
	Op    string       // Operation that failed (e.g., "load_config", "new_sheet_composer")
	Route routes.Route // Route involved, if any
	Err   error        // Underlying error
}

func (e *NavigationError) Error() string {
	switch {
	case e.Route != "" && e.Err != nil:
		return fmt.Sprintf("navcore: %s %s: %v", e.Op, e.Route, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("navcore: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("navcore: %s", e.Op)
	}
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// NewNavigationError creates a new navigation error.
func NewNavigationError(op string, route routes.Route, err error) *NavigationError {
	return &NavigationError{Op: op, Route: route, Err: err}
}

// IsNavigationError checks if an error is a navigation error.
func IsNavigationError(err error) bool {
	var navErr *NavigationError
	return errors.As(err, &navErr)
}

// IsInvalidRoute checks if an error reports a navigation to a route the
// target does not accept.
func IsInvalidRoute(err error) bool {
	return errors.Is(err, router.ErrUnknownRoute) || errors.Is(err, routes.ErrParamsMismatch)
}
