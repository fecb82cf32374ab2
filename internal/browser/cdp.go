package browser

import (
	"context"
	"fmt"

	"github.com/mafredri/cdp"
	"github.com/mafredri/cdp/devtool"
	"github.com/mafredri/cdp/protocol/network"
	"github.com/mafredri/cdp/rpcc"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

// DefaultDebugURL is the DevTools endpoint of a Chromium browser
// started with --remote-debugging-port=9222.
const DefaultDebugURL = "http://127.0.0.1:9222"

// CDPStore talks to a running Chromium-family browser over the DevTools
// protocol. Unlike FileStore it sees session cookies, can delete
// cookies while the browser runs, and knows the active tab.
type CDPStore struct {
	devt *devtool.DevTools
}

// NewCDPStore creates a store for the given DevTools HTTP endpoint.
// Pass an empty string for the default local endpoint.
func NewCDPStore(debugURL string) *CDPStore {
	if debugURL == "" {
		debugURL = DefaultDebugURL
	}
	return &CDPStore{devt: devtool.New(debugURL)}
}

// dial connects to the browser's first page target. The returned close
// function must be called when done.
func (s *CDPStore) dial(ctx context.Context) (*cdp.Client, func(), error) {
	pt, err := s.devt.Get(ctx, devtool.Page)
	if err != nil {
		return nil, nil, fmt.Errorf("error: cannot reach browser devtools: %w", err)
	}
	conn, err := rpcc.DialContext(ctx, pt.WebSocketDebuggerURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error: cannot dial devtools target: %w", err)
	}
	return cdp.NewClient(conn), func() { _ = conn.Close() }, nil
}

func fromCDPCookie(c network.Cookie) *wardlib.Cookie {
	var expires int64
	if !c.Session && c.Expires > 0 {
		expires = int64(c.Expires)
	}
	var sameSite wardlib.SameSite
	switch c.SameSite {
	case network.CookieSameSiteNone:
		sameSite = wardlib.SameSiteNone
	case network.CookieSameSiteLax:
		sameSite = wardlib.SameSiteLax
	case network.CookieSameSiteStrict:
		sameSite = wardlib.SameSiteStrict
	}
	return &wardlib.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  expires,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		SameSite: sameSite,
	}
}

// Cookies returns the cookies the browser would send to the given site.
func (s *CDPStore) Cookies(ctx context.Context, site string) ([]*wardlib.Cookie, error) {
	site = wardlib.NormalizeDomain(site)
	if site == "" {
		return s.AllCookies(ctx)
	}
	client, closeConn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeConn()

	args := network.NewGetCookiesArgs().SetURLs([]string{
		"https://" + site + "/",
		"http://" + site + "/",
	})
	reply, err := client.Network.GetCookies(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("error: devtools getCookies failed: %w", err)
	}
	cookies := make([]*wardlib.Cookie, 0, len(reply.Cookies))
	for _, c := range reply.Cookies {
		cookies = append(cookies, fromCDPCookie(c))
	}
	return cookies, nil
}

// AllCookies returns every cookie in the browser.
func (s *CDPStore) AllCookies(ctx context.Context) ([]*wardlib.Cookie, error) {
	client, closeConn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeConn()

	reply, err := client.Network.GetAllCookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: devtools getAllCookies failed: %w", err)
	}
	cookies := make([]*wardlib.Cookie, 0, len(reply.Cookies))
	for _, c := range reply.Cookies {
		cookies = append(cookies, fromCDPCookie(c))
	}
	return cookies, nil
}

// RemoveCookie deletes a cookie by page URL and name in the running
// browser.
func (s *CDPStore) RemoveCookie(ctx context.Context, rawURL, name string) error {
	client, closeConn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer closeConn()

	args := network.NewDeleteCookiesArgs(name).SetURL(rawURL)
	if err := client.Network.DeleteCookies(ctx, args); err != nil {
		return fmt.Errorf("error: devtools deleteCookies failed: %w", err)
	}
	return nil
}

// ActiveTab returns the browser's current page target.
func (s *CDPStore) ActiveTab(ctx context.Context) (*wardlib.Tab, error) {
	pt, err := s.devt.Get(ctx, devtool.Page)
	if err != nil {
		return nil, fmt.Errorf("error: cannot reach browser devtools: %w", err)
	}
	domain, secure := wardlib.SiteFromURL(pt.URL)
	return &wardlib.Tab{
		ID:     pt.ID,
		URL:    pt.URL,
		Title:  pt.Title,
		Domain: domain,
		Secure: secure,
	}, nil
}

var _ Store = (*CDPStore)(nil)
