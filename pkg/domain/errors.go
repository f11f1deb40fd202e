package domain

import "errors"

var (
	// ErrMisconfiguredDomain is returned when no usable parent domain can be
	// resolved: the source is missing, fails, or yields an empty value.
	ErrMisconfiguredDomain = errors.New("domain: misconfigured parent domain")

	ErrSiteNotFound = errors.New("domain: site not found")
	ErrInvalidURL   = errors.New("domain: invalid public URL")
	ErrInvalidSpec  = errors.New("domain: invalid refresh schedule")
)
