// Package cli implements the subdomains command line.
package cli
