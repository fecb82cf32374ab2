package wardcli

import (
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

// Version returns the daemon's version information.
func (c *Client) Version() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}

// ActiveTab returns the browser's active tab when the daemon's store
// can observe one.
func (c *Client) ActiveTab() (*common.ActiveTabResponse, error) {
	return invoke[common.ActiveTabResponse](c, common.UPDATE_ACTIVE_TAB, nil)
}

// Stats returns the reconciled counters for a website. An empty website
// scopes to the active tab, or the whole store when no tab is visible.
func (c *Client) Stats(website string) (*common.CookieStatsResponse, error) {
	return invoke[common.CookieStatsResponse](c, common.UPDATE_COOKIE_STATS, &common.CookieStatsParams{
		Website: website,
	})
}

// CookieData returns the full export document for a website.
func (c *Client) CookieData(website string) (*common.CookieDataResponse, error) {
	return invoke[common.CookieDataResponse](c, common.UPDATE_COOKIE_DATA, &common.CookieDataParams{
		Website: website,
	})
}

// SetPermission persists a user decision for a cookie and enforces it
// when it blocks.
func (c *Client) SetPermission(cookie wardlib.Cookie, action wardlib.Action, allowed []wardlib.Category) (*common.PermissionResponse, error) {
	return invoke[common.PermissionResponse](c, common.UPDATE_PERMISSIONS, &common.PermissionParams{
		Cookie:           cookie,
		Action:           action,
		AllowedDataTypes: allowed,
	})
}

// RemovePermission reverts a cookie to no-opinion.
func (c *Client) RemovePermission(name, domain string) (*common.PermissionResponse, error) {
	return invoke[common.PermissionResponse](c, common.UPDATE_REMOVE_PERMISSION, &common.RemovePermissionParams{
		Name:   name,
		Domain: domain,
	})
}

// Explain asks the daemon for a cookie explanation.
func (c *Client) Explain(cookie wardlib.Cookie) (*common.ExplanationResponse, error) {
	return invoke[common.ExplanationResponse](c, common.UPDATE_EXPLANATION, &common.ExplanationParams{
		Cookie: cookie,
	})
}

// Scan runs one scan pass on the daemon.
func (c *Client) Scan(website string) (*common.ScanResponse, error) {
	return invoke[common.ScanResponse](c, common.UPDATE_SCAN, &common.ScanParams{
		Website: website,
	})
}

// Attach registers this connection for push updates. Call Listen
// afterwards to receive them.
func (c *Client) Attach() (*common.AttachResponse, error) {
	return invoke[common.AttachResponse](c, common.UPDATE_ATTACH, nil)
}
