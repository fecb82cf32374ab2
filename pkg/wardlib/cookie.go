package wardlib

import (
	"strings"
	"time"
)

// SameSite mirrors the browser's SameSite cookie attribute.
type SameSite string

const (
	SameSiteUnspecified SameSite = ""
	SameSiteNone        SameSite = "None"
	SameSiteLax         SameSite = "Lax"
	SameSiteStrict      SameSite = "Strict"
)

// Cookie is a single browser cookie as observed in a live cookie store.
// Expires is in unix seconds; zero means a session cookie.
type Cookie struct {
	Name     string   `json:"name"`
	Value    string   `json:"value,omitempty"`
	Domain   string   `json:"domain"`
	Path     string   `json:"path,omitempty"`
	Secure   bool     `json:"secure,omitempty"`
	HttpOnly bool     `json:"http_only,omitempty"`
	SameSite SameSite `json:"same_site,omitempty"`
	Expires  int64    `json:"expires,omitempty"`
}

// keySep separates name and domain in cookie identity keys. A NUL byte
// cannot occur in either field, so keys are unambiguous.
const keySep = "\x00"

// Key returns the identity key of the cookie: name and normalized domain.
// Path is intentionally not part of the identity; two path variants of the
// same cookie share one permission and one history entry.
func (c *Cookie) Key() string {
	return c.Name + keySep + NormalizeDomain(c.Domain)
}

// SplitKey splits an identity key back into name and domain.
func SplitKey(key string) (name, domain string) {
	if i := strings.Index(key, keySep); i >= 0 {
		return key[:i], key[i+len(keySep):]
	}
	return key, ""
}

// SessionOnly reports whether the cookie expires with the browser session.
func (c *Cookie) SessionOnly() bool {
	return c.Expires == 0
}

// ExpiresAt returns the expiry time, or the zero time for session cookies.
func (c *Cookie) ExpiresAt() time.Time {
	if c.Expires == 0 {
		return time.Time{}
	}
	return time.Unix(c.Expires, 0)
}

// NormalizeDomain lower-cases a cookie domain and strips the leading dot
// browsers use to mark subdomain-inclusive cookies.
func NormalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
}

// SameSiteDomains reports whether two domains belong to the same site:
// equal after normalization, or one a dot-boundary suffix of the other.
// Used by the scorer's third-party check.
func SameSiteDomains(a, b string) bool {
	a, b = NormalizeDomain(a), NormalizeDomain(b)
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)
}

// RelatedDomains reports whether two domains are related by substring
// containment after normalization. This is the looser predicate used when
// folding history entries into a website's reconciled view, so that history
// recorded for "ads.example.com" still shows up when viewing "example.com"
// and vice versa.
func RelatedDomains(a, b string) bool {
	a, b = NormalizeDomain(a), NormalizeDomain(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
