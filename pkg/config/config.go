package config

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/dmitrymomot/subdomains/pkg/db"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SUBDOMAINS_"

// Config is the full configuration surface of a subdomains deployment.
type Config struct {
	// Domain source. Exactly one of ParentDomain, PublicURL or SiteID
	// (with a database) is expected; the first one set wins.
	ParentDomain string `env:"PARENT_DOMAIN"`
	PublicURL    string `env:"PUBLIC_URL"`
	SiteID       int64  `env:"SITE_ID"`
	StripWWW     bool   `env:"STRIP_WWW" envDefault:"false"`

	// TableMapping is "key=table" pairs; "@" is the bare domain.
	TableMapping string `env:"TABLE_MAPPING"`
	MappingFile  string `env:"MAPPING_FILE"`
	DefaultTable string `env:"DEFAULT_TABLE"`

	DefaultScheme        string `env:"DEFAULT_SCHEME" envDefault:"http"`
	ForceVaryOnHost      bool   `env:"FORCE_VARY_ON_HOST" envDefault:"true"`
	StrictHostValidation bool   `env:"STRICT_HOST_VALIDATION" envDefault:"false"`
	NamespaceFallback    bool   `env:"NAMESPACE_FALLBACK" envDefault:"false"`

	DomainCacheTTL    time.Duration `env:"DOMAIN_CACHE_TTL" envDefault:"5m"`
	DomainRefreshSpec string        `env:"DOMAIN_REFRESH_SPEC"`

	RedisURL          string `env:"REDIS_URL"`
	InvalidateChannel string `env:"INVALIDATE_CHANNEL" envDefault:"subdomains:domain:invalidate"`

	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	SentryDSN string `env:"SENTRY_DSN"`
	Env       string `env:"ENV" envDefault:"development"`

	Database db.Config

	// Filled from the mapping file.
	FileMapping routing.Mapping
	Tables      map[string]TableSpec
}

// Mapping merges TableMapping with the mapping file. File entries win.
func (c Config) Mapping() (routing.Mapping, error) {
	m, err := routing.ParseMapping(c.TableMapping)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	maps.Copy(m, routing.NormalizeMapping(c.FileMapping))
	return m, nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.DefaultTable == "" {
		return fmt.Errorf("%w: default table is required", ErrInvalidConfig)
	}
	if c.ParentDomain == "" && c.PublicURL == "" && (c.SiteID == 0 || !c.Database.Enabled()) {
		return fmt.Errorf("%w: one of parent domain, public url or site id with a database is required", ErrInvalidConfig)
	}
	switch strings.ToLower(c.DefaultScheme) {
	case "", "http", "https":
	default:
		return fmt.Errorf("%w: unsupported default scheme %q", ErrInvalidConfig, c.DefaultScheme)
	}
	if c.DomainCacheTTL < 0 {
		return fmt.Errorf("%w: negative domain cache ttl", ErrInvalidConfig)
	}
	if _, err := c.Mapping(); err != nil {
		return err
	}
	return nil
}
