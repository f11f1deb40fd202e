package reverse

import "strings"

// DefaultScheme is used when neither the caller nor the Joiner names one.
const DefaultScheme = "http"

// Join builds scheme://domain/path. An empty scheme yields a scheme-relative
// URL ("//domain/path"). A path without a leading slash gets one; an empty
// path is left empty.
//
//	Join("example.com", "/x/", "https") // "https://example.com/x/"
//	Join("example.com", "/x/", "")      // "//example.com/x/"
func Join(domain, path, scheme string) string {
	var b strings.Builder
	b.Grow(len(scheme) + len(domain) + len(path) + 4)
	if scheme != "" {
		b.WriteString(scheme)
		b.WriteByte(':')
	}
	b.WriteString("//")
	b.WriteString(domain)
	if path != "" && path[0] != '/' {
		b.WriteByte('/')
	}
	b.WriteString(path)
	return b.String()
}

// Joiner joins with a configured default scheme.
type Joiner struct {
	// DefaultScheme applies when Join is called without a scheme.
	// Empty means DefaultScheme ("http").
	DefaultScheme string
}

// Scheme returns the effective default scheme.
func (j Joiner) Scheme() string {
	if j.DefaultScheme == "" {
		return DefaultScheme
	}
	return j.DefaultScheme
}

// Join joins domain and path with the default scheme.
func (j Joiner) Join(domain, path string) string {
	return Join(domain, path, j.Scheme())
}

// JoinScheme joins with scheme, which may be "" for a scheme-relative URL.
func (j Joiner) JoinScheme(domain, path, scheme string) string {
	return Join(domain, path, scheme)
}
