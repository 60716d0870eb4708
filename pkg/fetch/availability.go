package fetch

import (
	"net/url"
	"strings"
)

// Availability is the classifier verdict for a fetched resource.
type Availability int

const (
	Available Availability = iota
	Unavailable
)

func (a Availability) String() string {
	if a == Available {
		return "Available"
	}
	return "Unavailable"
}

// Classify decides whether a fetched page genuinely exists.
//
// The upstream catalog never answers a missing book or text body with an
// error status: it 302-redirects to its home page, which then renders with
// 200. So existence must be judged from the response's actual redirect
// chain and resolved URL, not the status code. Any redirect at all, or a
// final URL equal to the catalog home, means the resource is a placeholder.
func Classify(res *Result, home *url.URL) Availability {
	if res.Redirects > 0 {
		return Unavailable
	}
	if sameResource(res.FinalURL, home) {
		return Unavailable
	}
	return Available
}

// sameResource compares two URLs ignoring scheme case, host case, and the
// bare-path vs root-slash distinction.
func sameResource(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	if !strings.EqualFold(a.Scheme, b.Scheme) || !strings.EqualFold(a.Host, b.Host) {
		return false
	}
	return normalizePath(a.Path) == normalizePath(b.Path)
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}
