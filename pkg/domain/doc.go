// Package domain resolves the canonical parent domain of a deployment.
//
// Every subdomain decision is made relative to this domain, so it comes from
// a single [Source] wrapped by a [Resolver]:
//
//	r := domain.New(domain.Static("example.com"), domain.WithStripWWW(true))
//
// Sources:
//
//   - [Static] returns a fixed value, typically from configuration
//   - [FromURL] derives the registrable domain of a public URL
//   - [SiteSource] reads a row of the "sites" table in PostgreSQL; the schema
//     ships as goose [Migrations]
//   - [SourceFunc] adapts anything else
//
// A Resolver never falls back to a guessed value. A missing source, a source
// error or an empty value all fail with [ErrMisconfiguredDomain].
//
// # Caching
//
// Sources backed by a database are cached with [WithCache]. Cached values
// expire after the configured TTL and can be dropped early:
//
//   - [Resolver.Invalidate] in the current process
//   - [Refresher] on a cron schedule
//   - [Publish] and [Subscribe] across processes through Redis pub/sub
package domain
