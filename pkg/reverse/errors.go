package reverse

import "errors"

var (
	// ErrInvalidConfig is returned by New for an unusable Config.
	ErrInvalidConfig = errors.New("reverse: invalid config")

	// ErrInvalidArguments is returned by template helpers for malformed
	// key/value argument lists.
	ErrInvalidArguments = errors.New("reverse: invalid arguments")
)
