package browser

import (
	"context"
	"errors"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

// StoreFormat identifies the schema of an on-disk cookie store.
type StoreFormat int

const (
	// FormatUnknown means the cookie store format could not be detected.
	FormatUnknown StoreFormat = 0
	// FormatFirefox means the store uses the Firefox moz_cookies schema.
	FormatFirefox StoreFormat = 1
	// FormatChrome means the store uses the Chromium cookies schema.
	FormatChrome StoreFormat = 2
)

var (
	// ErrNoActiveTab is returned by stores that cannot observe tabs.
	ErrNoActiveTab = errors.New("active tab not available for this store")

	// ErrNoStore is returned when no supported cookie store was found.
	ErrNoStore = errors.New("no supported browser cookie store found")
)

// Store is the daemon's view of a browser cookie store.
type Store interface {
	// Cookies returns the cookies visible to the given site, including
	// parent domain cookies.
	Cookies(ctx context.Context, site string) ([]*wardlib.Cookie, error)

	// AllCookies returns every cookie in the store.
	AllCookies(ctx context.Context) ([]*wardlib.Cookie, error)

	// RemoveCookie deletes a cookie by page URL and name.
	RemoveCookie(ctx context.Context, rawURL, name string) error

	// ActiveTab returns the currently focused tab, if the store can
	// observe one.
	ActiveTab(ctx context.Context) (*wardlib.Tab, error)
}

// Source describes where cookies were read from. The path is shown only
// in debug output.
type Source struct {
	Path    string
	Format  StoreFormat
	Browser string
}
