package enrichment

import (
	"net/url"
	"strings"
)

// LinkResult reports whether an article link is usable and its domain.
type LinkResult struct {
	Valid  bool
	Domain string
}

// ValidateLink accepts absolute http(s) URLs with a host. The domain keeps an
// explicit port and drops a leading "www.".
func ValidateLink(raw string) LinkResult {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LinkResult{}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return LinkResult{}
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return LinkResult{}
	}

	return LinkResult{Valid: true, Domain: strings.TrimPrefix(u.Host, "www.")}
}
