package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/subdomains/middlewares"
	"github.com/dmitrymomot/subdomains/pkg/config"
	"github.com/dmitrymomot/subdomains/pkg/logger"
)

// loadConfig reads the environment, then the mapping file, then the flags;
// later sources win.
func (c *cli) loadConfig() (config.Config, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return config.Config{}, err
	}
	if used := c.v.ConfigFileUsed(); used != "" && (c.cfgFile != "" || cfg.MappingFile == "") {
		cfg.MappingFile = used
	}
	if cfg, err = cfg.ApplyFile(); err != nil {
		return config.Config{}, err
	}
	return c.applyFlags(cfg), nil
}

func (c *cli) applyFlags(cfg config.Config) config.Config {
	if c.v.IsSet("cli.domain") {
		cfg.ParentDomain = c.v.GetString("cli.domain")
	}
	if c.v.IsSet("cli.default-table") {
		cfg.DefaultTable = c.v.GetString("cli.default-table")
	}
	if c.v.IsSet("cli.mapping") {
		cfg.TableMapping = c.v.GetString("cli.mapping")
		cfg.FileMapping = nil
	}
	if c.v.IsSet("cli.scheme") {
		cfg.DefaultScheme = c.v.GetString("cli.scheme")
	}
	if c.v.IsSet("cli.strip-www") {
		cfg.StripWWW = c.v.GetBool("cli.strip-www")
	}
	if c.v.IsSet("cli.log-level") {
		cfg.LogLevel = c.v.GetString("cli.log-level")
	}
	if c.v.IsSet("cli.log-format") {
		cfg.LogFormat = c.v.GetString("cli.log-format")
	}
	return cfg
}

func requireDomain(cfg config.Config) error {
	if cfg.ParentDomain == "" && cfg.PublicURL == "" && cfg.SiteID == 0 {
		return fmt.Errorf("%w: set --domain or SUBDOMAINS_PARENT_DOMAIN", config.ErrInvalidConfig)
	}
	return nil
}

func newLogger(cfg config.Config, out io.Writer) *slog.Logger {
	level, err := logger.ParseLevel(cfg.LogLevel)
	opts := []logger.Option{
		logger.WithOutput(out),
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithAttr(logger.Component("subdomains")),
		logger.WithContextExtractors(
			middlewares.RequestIDExtractor(),
			middlewares.SubdomainExtractor(),
			middlewares.TableExtractor(),
		),
	}
	if cfg.SentryDSN != "" {
		opts = append(opts, logger.WithSentry(logger.SentryConfig{DSN: cfg.SentryDSN, Environment: cfg.Env}))
	}

	log := logger.New(opts...)
	if err != nil {
		log.Warn("invalid log level, using info", logger.Error(err))
	}
	return log
}
