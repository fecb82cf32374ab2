package wardlib

import (
	"strings"
	"time"
)

// RiskLevel is the discrete risk classification derived from a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk level thresholds. A score at or above MediumRiskThreshold also marks
// a cookie as suspicious for stats and push notifications.
const (
	HighRiskThreshold   = 5
	MediumRiskThreshold = 3
)

const yearSeconds = 365 * 24 * 60 * 60

// trackerPatterns are name/value substrings of well-known trackers. Each
// match adds one point, cumulatively and uncapped.
var trackerPatterns = []string{
	"_ga", "_gid", "_gat", "_fbp", "_fbc",
	"track", "uid", "analytics", "ad", "pixel",
	"doubleclick", "gclid", "visitor",
}

// ScoreContext carries the page context a cookie was observed in.
// A zero Now means time.Now.
type ScoreContext struct {
	// ActiveDomain is the hostname of the page the cookie was seen on.
	// Empty disables the third-party bonus.
	ActiveDomain string
	// PageSecure reports whether the page was served over https. A cookie
	// without the Secure attribute on an https page earns the insecure
	// transport bonus.
	PageSecure bool
	Now        time.Time
}

func (sc ScoreContext) now() time.Time {
	if sc.Now.IsZero() {
		return time.Now()
	}
	return sc.Now
}

// Score computes the multi-factor risk score of a cookie:
//
//	category count
//	+ 1 per matched tracker pattern
//	+ 2 if third-party relative to the active domain
//	+ 1 if the expiry lies more than a year out
//	+ 1 if the cookie rides insecure transport on a secure page
//
// Pure with respect to its inputs; adding a matching tracker pattern or a
// category can only increase the result.
func Score(c *Cookie, categories []Category, sctx ScoreContext) int {
	score := len(categories)

	haystack := strings.ToLower(c.Name + c.Value)
	for _, pat := range trackerPatterns {
		if strings.Contains(haystack, pat) {
			score++
		}
	}

	if sctx.ActiveDomain != "" && !SameSiteDomains(c.Domain, sctx.ActiveDomain) {
		score += 2
	}

	if !c.SessionOnly() && c.Expires > sctx.now().Unix()+yearSeconds {
		score++
	}

	if sctx.PageSecure && !c.Secure {
		score++
	}

	return score
}

// LevelFor maps a risk score onto its discrete risk level.
func LevelFor(score int) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Suspicious reports whether a score warrants flagging the cookie in
// aggregate stats and push notifications.
func Suspicious(score int) bool {
	return score >= MediumRiskThreshold
}
