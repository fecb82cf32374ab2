package browser

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

// FileStore reads a browser cookie database from disk. Reads go through
// a temp copy so the browser keeps its lock; removals write to the live
// file and only work while the browser is closed.
type FileStore struct {
	path   string
	format StoreFormat
	source Source
}

// OpenFileStore opens the cookie database at path, detecting its schema.
func OpenFileStore(path string) (*FileStore, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	browserName := "Chromium"
	if format == FormatFirefox {
		browserName = "Firefox"
	}
	return &FileStore{
		path:   path,
		format: format,
		source: Source{Path: path, Format: format, Browser: browserName},
	}, nil
}

// Source reports where this store reads from.
func (s *FileStore) Source() Source {
	return s.source
}

func (s *FileStore) parse(site string) ([]*wardlib.Cookie, error) {
	dbPath, cleanup, err := safeCopy(s.path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	switch s.format {
	case FormatFirefox:
		return parseFirefox(dbPath, site)
	default:
		return parseChrome(dbPath, site)
	}
}

func (s *FileStore) Cookies(_ context.Context, site string) ([]*wardlib.Cookie, error) {
	return s.parse(wardlib.NormalizeDomain(site))
}

func (s *FileStore) AllCookies(_ context.Context) ([]*wardlib.Cookie, error) {
	return s.parse("")
}

// RemoveCookie deletes a cookie from the live database. Fails when the
// browser still holds its lock.
func (s *FileStore) RemoveCookie(_ context.Context, rawURL, name string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("error: invalid cookie url: %w", err)
	}
	domain := wardlib.NormalizeDomain(u.Hostname())
	if domain == "" {
		return fmt.Errorf("error: cookie url %s has no host", rawURL)
	}
	switch s.format {
	case FormatFirefox:
		return deleteFirefox(s.path, name, domain)
	default:
		return deleteChrome(s.path, name, domain)
	}
}

// ActiveTab is not observable from an on-disk store.
func (s *FileStore) ActiveTab(_ context.Context) (*wardlib.Tab, error) {
	return nil, ErrNoActiveTab
}

var _ Store = (*FileStore)(nil)
