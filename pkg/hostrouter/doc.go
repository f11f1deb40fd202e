// Package hostrouter derives subdomain tokens from HTTP Host headers.
//
// A host is matched against a canonical parent domain and classified as one of
// three results:
//
//   - Bare: the host is exactly the parent domain ("example.com")
//   - Subdomain: the host ends with "." + parent domain; the token is everything
//     before that suffix and may itself contain dots ("a.b.example.com" -> "a.b")
//   - Unmatched: the host does not belong to the parent domain at all
//
// Matching is case-insensitive. Ports are stripped before matching, IPv6
// brackets are preserved, a trailing root dot is ignored, and internationalized
// names are compared in their ASCII (punycode) form.
//
// # Usage
//
//	res := hostrouter.Extract("example.com", r.Host)
//	switch res.Kind {
//	case hostrouter.Bare:
//	    // marketing site
//	case hostrouter.Subdomain:
//	    log.Println("subdomain:", res.Token)
//	case hostrouter.Unmatched:
//	    // host does not belong to example.com
//	}
//
// Extract never panics and never returns an error: callers decide whether an
// Unmatched host is a soft fallback or a hard failure.
package hostrouter
