package wardlib

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Tab describes the browser tab a query runs against.
type Tab struct {
	ID     string `json:"id,omitempty"`
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Domain string `json:"domain"`
	Secure bool   `json:"secure"`
}

// SiteFromURL derives the website hostname and transport security from a
// page URL. Non-http(s) and unparseable URLs yield an empty domain, which
// downgrades third-party scoring to best effort instead of failing.
func SiteFromURL(rawURL string) (domain string, secure bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	return strings.ToLower(parsed.Hostname()), scheme == "https"
}

// SiteLabel returns the registrable domain (eTLD+1) of a hostname for
// grouping and display, falling back to the hostname itself when the public
// suffix list cannot resolve it (IPs, localhost, single labels).
func SiteLabel(host string) string {
	host = NormalizeDomain(host)
	if label, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return label
	}
	return host
}
