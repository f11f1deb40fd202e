package hostrouter

import "strings"

// Kind classifies a host relative to a parent domain.
type Kind uint8

const (
	// Unmatched means the host does not belong to the parent domain.
	Unmatched Kind = iota
	// Bare means the host equals the parent domain.
	Bare
	// Subdomain means the host is a (possibly multi-level) subdomain of the parent domain.
	Subdomain
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Bare:
		return "bare"
	case Subdomain:
		return "subdomain"
	default:
		return "unmatched"
	}
}

// Result is the outcome of matching a host against a parent domain.
// Token is non-empty only when Kind is Subdomain.
type Result struct {
	Token string
	Kind  Kind
}

// Matched reports whether the host belongs to the parent domain.
func (r Result) Matched() bool {
	return r.Kind != Unmatched
}

// String renders the result for logs: "@" for bare, the token for subdomains
// and "!" for unmatched hosts.
func (r Result) String() string {
	switch r.Kind {
	case Bare:
		return "@"
	case Subdomain:
		return r.Token
	default:
		return "!"
	}
}

// BareResult returns the result for a host equal to the parent domain.
func BareResult() Result {
	return Result{Kind: Bare}
}

// SubdomainResult returns the result for the given token.
// An empty token yields a Bare result.
func SubdomainResult(token string) Result {
	token = strings.ToLower(strings.Trim(token, ". "))
	if token == "" {
		return BareResult()
	}
	return Result{Kind: Subdomain, Token: token}
}

// Extract matches host against the parent domain and returns the subdomain result.
//
// Examples:
//
//	Extract("example.com", "example.com")          // Bare
//	Extract("example.com", "API.example.com:8080") // Subdomain("api")
//	Extract("example.com", "a.b.example.com")      // Subdomain("a.b")
//	Extract("example.com", "www.example.com")      // Subdomain("www")
//	Extract("example.com", "example.org")          // Unmatched
func Extract(domain, host string) Result {
	domain = NormalizeDomain(domain)
	host = normalizeHost(host)

	if domain == "" || host == "" {
		return Result{}
	}

	if host == domain {
		return BareResult()
	}

	prefix, ok := strings.CutSuffix(host, "."+domain)
	if !ok || prefix == "" {
		return Result{}
	}

	return Result{Kind: Subdomain, Token: prefix}
}
