package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvLoaded sync.Once

// Load reads .env (when present) and the SUBDOMAINS_ environment, applies
// the mapping file named by MAPPING_FILE and validates the result.
// Every call reads the environment again, so Load can back a reload.
func Load() (Config, error) {
	c, err := LoadEnv()
	if err != nil {
		return Config{}, err
	}
	return c.Complete()
}

// LoadEnv is Load without the mapping file and validation, for callers
// that override settings before validating.
func LoadEnv() (Config, error) {
	dotenvLoaded.Do(func() {
		// A missing .env file is fine.
		_ = godotenv.Load()
	})
	return parseEnv(nil)
}

// Parse builds a Config from environ (names without the prefix are ignored).
// A nil environ reads the process environment.
func Parse(environ map[string]string) (Config, error) {
	c, err := parseEnv(environ)
	if err != nil {
		return Config{}, err
	}
	return c.Complete()
}

// Complete applies the mapping file, if any, and validates.
func (c Config) Complete() (Config, error) {
	c, err := c.ApplyFile()
	if err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyFile applies the mapping file named by MappingFile, if any.
func (c Config) ApplyFile() (Config, error) {
	if c.MappingFile == "" {
		return c, nil
	}
	f, err := LoadFile(c.MappingFile)
	if err != nil {
		return Config{}, err
	}
	return c.Apply(f), nil
}

func parseEnv(environ map[string]string) (Config, error) {
	var c Config
	opts := env.Options{Prefix: Prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return c, nil
}
