package server

import (
	"context"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

// Service is the daemon surface the transports call into. The api
// package provides the implementation backed by the browser store, the
// permission store and the history ledger.
type Service interface {
	// View returns the reconciled cookie view for a website. An empty
	// website means all cookies the browser store knows about.
	View(ctx context.Context, website string) (*wardlib.View, error)

	// SetPermission stores a permission and enforces it immediately
	// when it blocks.
	SetPermission(ctx context.Context, cookie *wardlib.Cookie, action wardlib.Action, allowed []wardlib.Category) (*wardlib.Permission, error)

	// RemovePermission deletes a stored permission.
	RemovePermission(ctx context.Context, name, domain string) error

	// Explain produces a human readable explanation for a cookie.
	// cached reports whether the text came from the explanation cache.
	Explain(ctx context.Context, c *wardlib.Cookie) (explanation string, cached bool, err error)

	// Scan runs a full scan pass for a website and returns the
	// resulting stats.
	Scan(ctx context.Context, website string) (*wardlib.Stats, error)

	// Export builds an export document for a website.
	Export(ctx context.Context, website string) (*wardlib.ExportDocument, error)
}
