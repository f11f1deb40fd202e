// Package server runs the demo HTTP server with graceful shutdown.
package server
