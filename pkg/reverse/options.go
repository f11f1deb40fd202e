package reverse

import (
	"strings"

	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// Option describes one reversal.
type Option func(*request)

type request struct {
	args         routing.Args
	subdomain    string
	scheme       string
	port         int
	hasSubdomain bool
	hasScheme    bool
}

// Subdomain targets the table mapped to sub and builds the URL on
// "sub.<domain>". An empty sub is the same as Bare.
func Subdomain(sub string) Option {
	return func(r *request) {
		r.subdomain = strings.ToLower(strings.Trim(strings.TrimSpace(sub), "."))
		r.hasSubdomain = true
	}
}

// Bare targets the table mapped to the bare parent domain.
func Bare() Option {
	return Subdomain("")
}

// Args sets positional route arguments.
func Args(values ...string) Option {
	return func(r *request) {
		r.args.Positional = append(r.args.Positional, values...)
	}
}

// Params sets named route arguments.
func Params(values map[string]string) Option {
	return func(r *request) {
		if r.args.Named == nil {
			r.args.Named = make(map[string]string, len(values))
		}
		for k, v := range values {
			r.args.Named[k] = v
		}
	}
}

// Param sets one named route argument.
func Param(key, value string) Option {
	return Params(map[string]string{key: value})
}

// Scheme overrides the default scheme. An empty scheme produces a
// scheme-relative URL.
func Scheme(scheme string) Option {
	return func(r *request) {
		r.scheme = strings.ToLower(scheme)
		r.hasScheme = true
	}
}

// Port appends ":port" to the host. Zero means no port.
func Port(port int) Option {
	return func(r *request) {
		r.port = port
	}
}
