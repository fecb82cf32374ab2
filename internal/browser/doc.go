// Package browser provides access to browser cookie stores. It supports
// reading Firefox (moz_cookies SQLite) and Chromium-family (cookies
// SQLite) databases directly from disk, and talking to a running
// Chromium browser over the DevTools protocol for live reads, removals
// and active tab lookup.
//
// Cookie values are sensitive. They are never logged or formatted into
// error messages; only names and domains may appear in debug output.
package browser
