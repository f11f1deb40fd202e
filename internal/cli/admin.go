package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/subdomains/pkg/config"
	"github.com/dmitrymomot/subdomains/pkg/db"
	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/logger"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the sites table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return db.ErrNotConfigured
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			pool, err := db.Connect(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Migrate(cmd.Context(), pool, domain.Migrations, domain.MigrationsDir, cfg.Database.MigrationsTable, log)
		},
	}
}

func (c *cli) invalidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate",
		Short: "Tell every running server to drop its cached domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.RedisURL == "" {
				return fmt.Errorf("%w: SUBDOMAINS_REDIS_URL is not set", config.ErrInvalidConfig)
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			rdb, err := openRedis(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = rdb.Close() }()

			if err := domain.Publish(cmd.Context(), rdb, cfg.InvalidateChannel); err != nil {
				return err
			}
			_, _ = subdomainColor.Fprintln(cmd.OutOrStdout(), "invalidation published")
			return nil
		},
	}
}

func (c *cli) siteCmd() *cobra.Command {
	var name string

	site := &cobra.Command{
		Use:   "site",
		Short: "Manage the parent domain stored in the sites table",
	}

	set := &cobra.Command{
		Use:   "set DOMAIN",
		Short: "Store DOMAIN as the parent domain of SUBDOMAINS_SITE_ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return db.ErrNotConfigured
			}
			if cfg.SiteID == 0 {
				return fmt.Errorf("%w: SUBDOMAINS_SITE_ID is not set", config.ErrInvalidConfig)
			}
			log := newLogger(cfg, cmd.ErrOrStderr())
			ctx := cmd.Context()

			pool, err := db.Connect(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := domain.NewSiteSource(pool, cfg.SiteID).Save(ctx, args[0], name); err != nil {
				return err
			}

			if rdb, err := openRedis(ctx, cfg, log); err == nil && rdb != nil {
				defer func() { _ = rdb.Close() }()
				if err := domain.Publish(ctx, rdb, cfg.InvalidateChannel); err != nil {
					log.WarnContext(ctx, "invalidation not published", logger.Error(err))
				}
			}

			_, _ = subdomainColor.Fprintf(cmd.OutOrStdout(), "site %d: %s\n", cfg.SiteID, domain.Normalize(args[0], false))
			return nil
		},
	}
	set.Flags().StringVar(&name, "name", "", "display name of the site")

	site.AddCommand(set)
	return site
}
