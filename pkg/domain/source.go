package domain

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Source yields the canonical parent domain of the deployment.
type Source interface {
	Domain(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (string, error)

func (f SourceFunc) Domain(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static returns a source that always yields domain.
func Static(domain string) Source {
	return SourceFunc(func(context.Context) (string, error) {
		return domain, nil
	})
}

// FromURL derives the parent domain from the public URL of the deployment.
// The registrable domain (eTLD+1) is used, so "https://app.example.co.uk"
// yields "example.co.uk". Hosts without a public suffix, such as "localhost"
// or IP addresses, are used as they are.
func FromURL(rawURL string) Source {
	return SourceFunc(func(context.Context) (string, error) {
		return registrableDomain(rawURL)
	})
}

func registrableDomain(rawURL string) (string, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, rawURL)
	}
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return host, nil
	}

	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// The host is itself a public suffix ("co.uk"); keep it.
		return host, nil
	}
	return d, nil
}
