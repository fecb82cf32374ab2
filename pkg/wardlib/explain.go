package wardlib

import "strings"

// StaticExplanation returns a deterministic human-readable explanation of
// a cookie, chosen by coarse name keyword and category heuristics. It is the
// fallback when no explanation provider is available or the provider fails,
// and it never errors.
func StaticExplanation(c *Cookie, categories []Category) string {
	name := strings.ToLower(c.Name)
	switch {
	case strings.Contains(name, "session") || strings.Contains(name, "auth") || strings.Contains(name, "login"):
		return "This cookie keeps you signed in to " + NormalizeDomain(c.Domain) +
			" by storing a session identifier. It is usually required for the site to work."
	case strings.Contains(name, "track") || strings.Contains(name, "visitor"):
		return "This cookie tracks your activity across pages so the site or its partners " +
			"can build a profile of your browsing behavior."
	case strings.Contains(name, "_ga") || strings.Contains(name, "analytics"):
		return "This is an analytics cookie. It assigns you an identifier so the site can " +
			"measure visits and usage patterns, typically via a third-party analytics service."
	case strings.Contains(name, "ad") || strings.Contains(name, "doubleclick") || strings.Contains(name, "gclid"):
		return "This is an advertising cookie. It is used to attribute ad clicks and to show " +
			"you targeted advertisements based on your interests."
	case strings.Contains(name, "pref") || strings.Contains(name, "theme") || strings.Contains(name, "lang"):
		return "This cookie stores your preferences for " + NormalizeDomain(c.Domain) +
			", such as language or display settings."
	}
	if len(categories) > 0 {
		labels := make([]string, len(categories))
		for i, cat := range categories {
			labels[i] = strings.ReplaceAll(string(cat), "_", " ")
		}
		return "This cookie appears to store the following kinds of personal data: " +
			strings.Join(labels, ", ") + ". Review whether you trust " +
			NormalizeDomain(c.Domain) + " with this information."
	}
	return "No personal data types were detected in this cookie. It is most likely a " +
		"technical cookie used by " + NormalizeDomain(c.Domain) + " for site functionality."
}
