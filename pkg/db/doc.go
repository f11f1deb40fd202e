// Package db connects to the PostgreSQL database that stores site domains.
//
// It is only needed when the parent domain is read from a "sites" table
// (see pkg/domain.SiteSource). Settings come from [Config], normally filled
// by pkg/config:
//
//	SUBDOMAINS_DATABASE_CONN_URL         connection URL; empty disables the database
//	SUBDOMAINS_DATABASE_MIGRATIONS_TABLE goose version table (default: subdomains_migrations)
//	SUBDOMAINS_DATABASE_MAX_CONNS        pool size (default: 4)
//	SUBDOMAINS_DATABASE_RETRY_ATTEMPTS   startup ping attempts (default: 3)
//
// Usage:
//
//	pool, err := db.Connect(ctx, cfg.Database, log)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, domain.Migrations, "migrations", cfg.Database.MigrationsTable, log); err != nil {
//	    return err
//	}
package db
