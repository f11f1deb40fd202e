// Package health serves liveness and readiness probes for the demo server.
//
//	r.Get("/healthz", health.Liveness())
//	r.Get("/readyz", health.Readiness(health.Checks{
//	    "domain": resolver.Healthcheck(),
//	    "redis":  redis.Healthcheck(client),
//	}))
//
// Readiness responds 503 with a JSON [Report] naming each failed check.
package health
