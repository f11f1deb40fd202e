package routing

import "errors"

// Sentinel errors for routing operations.
var (
	// ErrNoRouteMatch is returned when a route name cannot be reversed in a table.
	ErrNoRouteMatch = errors.New("routing: no route match")

	// ErrUnknownTable is returned when a table is not present in the registry.
	ErrUnknownTable = errors.New("routing: unknown table")

	// ErrInvalidMapping is returned when a mapping definition cannot be parsed.
	ErrInvalidMapping = errors.New("routing: invalid mapping")
)
