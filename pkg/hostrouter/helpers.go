package hostrouter

import (
	"net/http"
	"strings"

	"golang.org/x/net/idna"
)

// GetDomain returns the normalized domain from the request Host header.
// Strips port, handles IPv6, and converts to lowercase.
//
// Examples:
//
//	"example.com:8080" -> "example.com"
//	"[::1]:8080" -> "[::1]"
//	"Example.COM" -> "example.com"
func GetDomain(r *http.Request) string {
	return normalizeHost(r.Host)
}

// GetSubdomain extracts the subdomain token from a request given a base domain.
// Returns empty string if the host is the base domain itself or does not belong to it.
// Use Extract when the two cases must be told apart.
//
// Examples:
//
//	GetSubdomain(req, "example.com") // req.Host = "foo.example.com" -> "foo"
//	GetSubdomain(req, "example.com") // req.Host = "bar.foo.example.com" -> "bar.foo"
//	GetSubdomain(req, "example.com") // req.Host = "example.com" -> ""
//	GetSubdomain(req, "example.com") // req.Host = "other.com" -> ""
func GetSubdomain(r *http.Request, baseDomain string) string {
	return Extract(baseDomain, r.Host).Token
}

// NormalizeDomain returns the canonical form of a parent domain:
// trimmed, without a trailing root dot, ASCII (punycode) and lower-case.
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return ""
	}
	return toASCII(domain)
}

// normalizeHost strips the port and normalizes the remaining host name.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)

	// Strip port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		// Check it's not an IPv6 address
		if !strings.Contains(host[idx:], "]") {
			host = host[:idx]
		}
	}

	host = strings.TrimSuffix(host, ".")
	if host == "" || strings.HasPrefix(host, "[") {
		return strings.ToLower(host)
	}
	return toASCII(host)
}

// toASCII applies IDNA lookup mapping. When the lookup profile rejects the
// whole name (underscores, IP literals, etc.), labels are converted one by
// one and the rejected ones are only lower-cased.
func toASCII(name string) string {
	if ascii, err := idna.Lookup.ToASCII(name); err == nil && ascii != "" {
		return strings.ToLower(ascii)
	}

	labels := strings.Split(name, ".")
	for i, label := range labels {
		if ascii, err := idna.Lookup.ToASCII(label); err == nil && ascii != "" {
			labels[i] = strings.ToLower(ascii)
			continue
		}
		labels[i] = strings.ToLower(label)
	}
	return strings.Join(labels, ".")
}
