package reverse

import (
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// RequestReverser reverses with defaults taken from the current request:
// the request's subdomain, scheme and port. Explicit options win.
type RequestReverser struct {
	rev      *Reverser
	req      *http.Request
	defaults []Option
}

// FromRequest binds the reverser to req.
func (r *Reverser) FromRequest(req *http.Request) RequestReverser {
	return RequestReverser{rev: r, req: req, defaults: requestDefaults(req)}
}

// URL reverses name. Unless overridden, the URL stays on the subdomain
// the request arrived on, keeps its port and uses its scheme.
func (rr RequestReverser) URL(name string, opts ...Option) (string, error) {
	all := make([]Option, 0, len(rr.defaults)+len(opts))
	all = append(all, rr.defaults...)
	all = append(all, opts...)
	return rr.rev.Reverse(rr.req.Context(), name, all...)
}

// SafeURL is URL typed for templ href attributes.
func (rr RequestReverser) SafeURL(name string, opts ...Option) (templ.SafeURL, error) {
	u, err := rr.URL(name, opts...)
	if err != nil {
		return "", err
	}
	return templ.SafeURL(u), nil
}

// FuncMap returns a "url" function for html/template.
//
//	{{ url "api:user" "subdomain" "api" "id" 42 }}
//
// Arguments after the name are key/value pairs. The keys "subdomain",
// "scheme" and "port" set the matching option; any other key is a named
// route argument.
func (rr RequestReverser) FuncMap() template.FuncMap {
	return template.FuncMap{
		"url": func(name string, pairs ...any) (string, error) {
			opts, err := pairOptions(pairs)
			if err != nil {
				return "", err
			}
			return rr.URL(name, opts...)
		},
	}
}

func pairOptions(pairs []any) ([]Option, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of key/value arguments", ErrInvalidArguments)
	}

	opts := make([]Option, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: key %v is not a string", ErrInvalidArguments, pairs[i])
		}
		value := fmt.Sprint(pairs[i+1])

		switch key {
		case "subdomain":
			opts = append(opts, Subdomain(value))
		case "scheme":
			opts = append(opts, Scheme(value))
		case "port":
			p, err := strconv.Atoi(value)
			if err != nil || p < 0 {
				return nil, fmt.Errorf("%w: port %q", ErrInvalidArguments, value)
			}
			opts = append(opts, Port(p))
		default:
			opts = append(opts, Param(key, value))
		}
	}
	return opts, nil
}

func requestDefaults(req *http.Request) []Option {
	var opts []Option

	if b, ok := routing.BindingFromContext(req.Context()); ok {
		switch b.Result.Kind {
		case hostrouter.Subdomain:
			opts = append(opts, Subdomain(b.Result.Token))
		case hostrouter.Bare:
			opts = append(opts, Bare())
		}
	}

	opts = append(opts, Scheme(RequestScheme(req)))

	if _, port, err := net.SplitHostPort(req.Host); err == nil {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			opts = append(opts, Port(p))
		}
	}
	return opts
}

// RequestScheme reports the scheme the client used: X-Forwarded-Proto when
// it names http or https, otherwise https for TLS connections and http for
// the rest.
func RequestScheme(req *http.Request) string {
	if proto := req.Header.Get("X-Forwarded-Proto"); proto != "" {
		proto, _, _ = strings.Cut(proto, ",")
		switch proto = strings.ToLower(strings.TrimSpace(proto)); proto {
		case "http", "https":
			return proto
		}
	}
	if req.TLS != nil {
		return "https"
	}
	return "http"
}
