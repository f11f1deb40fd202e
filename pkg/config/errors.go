package config

import "errors"

var (
	ErrParsingConfig = errors.New("config: failed to parse environment")
	ErrReadingFile   = errors.New("config: failed to read mapping file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)
