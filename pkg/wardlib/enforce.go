package wardlib

import (
	"context"
	"log"
)

// CookieRemover deletes a cookie from a live browser store. Implemented by
// the browser store adapters.
type CookieRemover interface {
	RemoveCookie(ctx context.Context, rawURL, name string) error
}

// CanonicalURL builds the URL under which a cookie is addressed for
// removal: https or http by the Secure flag, dot-stripped domain, and the
// cookie's path (defaulting to /).
func CanonicalURL(c *Cookie) string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	path := c.Path
	if path == "" {
		path = "/"
	}
	return scheme + "://" + NormalizeDomain(c.Domain) + path
}

// Enforce applies a permission decision to a live cookie. For a blocking
// permission it removes the cookie and transitions the ledger entry to
// blocked (not removed), which is what distinguishes a policy removal from
// natural expiry. Removal failures are logged and returned but the
// permission stands; the next sighting re-enforces it.
func Enforce(ctx context.Context, l *log.Logger, remover CookieRemover, ledger *Ledger, c *Cookie, perm *Permission, auto bool) error {
	if perm == nil || !perm.Blocked {
		return nil
	}
	if remover == nil {
		return ErrNoRemover
	}
	if err := remover.RemoveCookie(ctx, CanonicalURL(c), c.Name); err != nil {
		if l != nil {
			l.Printf("enforce: failed to remove cookie %s on %s: %v", c.Name, NormalizeDomain(c.Domain), err)
		}
		return err
	}
	if ledger != nil {
		ledger.MarkBlocked(c.Key(), auto)
	}
	return nil
}
