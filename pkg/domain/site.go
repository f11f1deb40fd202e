package domain

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Migrations creates the sites table read by SiteSource.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations holding the goose files.
const MigrationsDir = "migrations"

// Querier is the subset of *pgxpool.Pool SiteSource uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SiteSource reads the parent domain from the sites table.
// Each deployment is one row; the row is picked by its ID.
type SiteSource struct {
	db     Querier
	siteID int64
}

// NewSiteSource creates a source for the site with the given ID.
func NewSiteSource(db Querier, siteID int64) *SiteSource {
	return &SiteSource{db: db, siteID: siteID}
}

const (
	selectSiteDomain = `SELECT domain FROM sites WHERE id = $1`
	upsertSiteDomain = `INSERT INTO sites (id, domain, name) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET domain = EXCLUDED.domain, name = EXCLUDED.name, updated_at = now()`
)

// Domain returns the stored domain of the site.
func (s *SiteSource) Domain(ctx context.Context) (string, error) {
	var d string
	err := s.db.QueryRow(ctx, selectSiteDomain, s.siteID).Scan(&d)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: id %d", ErrSiteNotFound, s.siteID)
	}
	if err != nil {
		return "", err
	}
	return d, nil
}

// Save stores domain for the site, creating the row if needed.
// Resolvers caching the old value keep it until invalidated.
func (s *SiteSource) Save(ctx context.Context, domain, name string) error {
	d := Normalize(domain, false)
	if d == "" {
		return fmt.Errorf("%w: empty domain", ErrMisconfiguredDomain)
	}
	_, err := s.db.Exec(ctx, upsertSiteDomain, s.siteID, d, name)
	return err
}
