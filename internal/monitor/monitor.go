// Package monitor runs the scan loop. Each pass reads the browser
// store, folds the result into the history ledger, applies stored
// permissions, and pushes stats and suspicious cookie events to
// attached listeners.
package monitor

import (
	"context"
	"log"
	"sync"

	"github.com/cookieward/cookieward/internal/browser"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

// Notifier receives push events produced by scans. Both the socket pool
// and the WebSocket notifier implement it in the daemon.
type Notifier interface {
	StatsUpdated(website string, stats wardlib.Stats)
	SuspiciousCookie(website string, c *wardlib.Cookie, categories []wardlib.Category, score int, level wardlib.RiskLevel)
}

// Explainer produces an explanation for a cookie. The explain package
// provides the module-driven implementation.
type Explainer interface {
	Explain(ctx context.Context, c *wardlib.Cookie, categories []wardlib.Category) (string, error)
}

// Monitor owns the scan state. It is safe for concurrent use.
type Monitor struct {
	log      *log.Logger
	store    browser.Store
	ledger   *wardlib.Ledger
	perms    *wardlib.PermissionStore
	notifier Notifier
	explain  Explainer

	mu sync.Mutex
	// snapshots holds the cookie keys seen by the previous scan of each
	// scope, so removals can be detected per scope. Scope "" is the
	// whole store.
	snapshots map[string]map[string]struct{}
	// notified tracks which suspicious cookies were already pushed, one
	// notification per cookie key.
	notified map[string]struct{}
}

func New(l *log.Logger, store browser.Store, ledger *wardlib.Ledger, perms *wardlib.PermissionStore, notifier Notifier, explainer Explainer) *Monitor {
	return &Monitor{
		log:       l,
		store:     store,
		ledger:    ledger,
		perms:     perms,
		notifier:  notifier,
		explain:   explainer,
		snapshots: make(map[string]map[string]struct{}),
		notified:  make(map[string]struct{}),
	}
}

// resolveScope derives the scan scope and scoring context. An empty
// website resolves to the active tab's domain when the store can observe
// one; with no tab the scope stays empty, which covers the whole store
// including every history entry and blocking permission.
func (m *Monitor) resolveScope(ctx context.Context, website string) (string, wardlib.ScoreContext) {
	sctx := wardlib.ScoreContext{ActiveDomain: wardlib.NormalizeDomain(website)}
	tab, err := m.store.ActiveTab(ctx)
	if err == nil && tab != nil {
		sctx.PageSecure = tab.Secure
		if sctx.ActiveDomain == "" {
			sctx.ActiveDomain = wardlib.NormalizeDomain(tab.Domain)
		}
	}
	return sctx.ActiveDomain, sctx
}

func (m *Monitor) liveCookies(ctx context.Context, website string) ([]*wardlib.Cookie, error) {
	if website == "" {
		return m.store.AllCookies(ctx)
	}
	return m.store.Cookies(ctx, website)
}

// Scan runs one pass for a website and returns the reconciled stats. An
// empty website is the whole-store monitoring pass; the active tab still
// feeds the scoring context. Sightings and removals are folded into the
// ledger, blocking permissions are enforced, and push events go out to
// the notifier.
func (m *Monitor) Scan(ctx context.Context, website string) (*wardlib.Stats, error) {
	website = wardlib.NormalizeDomain(website)
	_, sctx := m.resolveScope(ctx, website)
	live, err := m.liveCookies(ctx, website)
	if err != nil {
		return nil, err
	}

	current := make(map[string]struct{}, len(live))
	for _, c := range live {
		key := c.Key()
		if _, dup := current[key]; dup {
			continue
		}
		current[key] = struct{}{}
		m.observe(ctx, c, sctx)
	}

	m.recordRemovals(website, current)

	view := wardlib.Reconcile(live, website, m.ledger, m.perms, sctx)
	if m.notifier != nil {
		m.notifier.StatsUpdated(website, view.Stats)
	}
	return &view.Stats, nil
}

// observe folds one live cookie into the ledger and applies permission
// state to it.
func (m *Monitor) observe(ctx context.Context, c *wardlib.Cookie, sctx wardlib.ScoreContext) {
	categories := wardlib.Classify(c.Name, c.Value)
	score := wardlib.Score(c, categories, sctx)
	level := wardlib.LevelFor(score)
	key := c.Key()

	entry := m.ledger.Entry(key)
	wasBlocked := entry != nil && entry.Status == wardlib.StatusBlocked

	m.ledger.RecordSighting(c, categories, score, level)

	perm := m.perms.GetPermission(c.Name, c.Domain)
	switch {
	case perm != nil && perm.Blocked:
		// The cookie came back despite a blocking permission, remove it
		// again. Failure is logged and retried on the next scan.
		if err := wardlib.Enforce(ctx, m.log, m.store, m.ledger, c, perm, false); err != nil {
			m.log.Printf("enforcement failed for %s: %v", c.Name, err)
		}
	case wasBlocked:
		// Blocked in history but the permission is gone; the user
		// unblocked it and the cookie is live again.
		m.ledger.MarkUnblocked(key)
	case perm == nil && level == wardlib.RiskHigh && m.perms.AutoBlockHigh():
		m.autoBlock(ctx, c)
	}

	if wardlib.Suspicious(score) && m.notifier != nil {
		m.mu.Lock()
		_, seen := m.notified[key]
		if !seen {
			m.notified[key] = struct{}{}
		}
		m.mu.Unlock()
		if !seen {
			m.notifier.SuspiciousCookie(sctx.ActiveDomain, c, categories, score, level)
		}
	}
}

// autoBlock stores a blocking permission for a high risk cookie and
// enforces it immediately.
func (m *Monitor) autoBlock(ctx context.Context, c *wardlib.Cookie) {
	perm, err := m.perms.SetPermission(c.Name, c.Domain, wardlib.ActionBlock, nil)
	if err != nil {
		m.log.Printf("auto-block store failed for %s: %v", c.Name, err)
		return
	}
	if err := wardlib.Enforce(ctx, m.log, m.store, m.ledger, c, perm, true); err != nil {
		m.log.Printf("auto-block enforcement failed for %s: %v", c.Name, err)
	}
}

// recordRemovals marks cookies that disappeared from this scope since
// the previous scan.
func (m *Monitor) recordRemovals(website string, current map[string]struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.snapshots[website]
	for key := range prev {
		if _, ok := current[key]; !ok {
			m.ledger.RecordRemoval(key)
		}
	}
	m.snapshots[website] = current
}

// ActiveTab reports the browser's active tab when the store can observe
// one.
func (m *Monitor) ActiveTab(ctx context.Context) (*wardlib.Tab, error) {
	return m.store.ActiveTab(ctx)
}

// View builds the reconciled cookie view for a website without
// mutating scan state. An empty website scopes to the active tab, or the
// whole store when no tab is visible.
func (m *Monitor) View(ctx context.Context, website string) (*wardlib.View, error) {
	website, sctx := m.resolveScope(ctx, website)
	live, err := m.liveCookies(ctx, website)
	if err != nil {
		return nil, err
	}
	return wardlib.Reconcile(live, website, m.ledger, m.perms, sctx), nil
}

// SetPermission stores a permission and enforces it immediately when it
// blocks. Enforcement failure does not fail the call; the permission
// stands and the next scan retries.
func (m *Monitor) SetPermission(ctx context.Context, c *wardlib.Cookie, action wardlib.Action, allowed []wardlib.Category) (*wardlib.Permission, error) {
	perm, err := m.perms.SetPermission(c.Name, c.Domain, action, allowed)
	if err != nil {
		return nil, err
	}
	if perm.Blocked {
		if err := wardlib.Enforce(ctx, m.log, m.store, m.ledger, c, perm, false); err != nil {
			m.log.Printf("enforcement failed for %s: %v", c.Name, err)
		}
	} else if entry := m.ledger.Entry(c.Key()); entry != nil && entry.Status == wardlib.StatusBlocked {
		m.ledger.MarkUnblocked(c.Key())
	}
	return perm, nil
}

// RemovePermission deletes a stored permission. A previously blocked
// history entry stays blocked until the cookie is sighted again.
func (m *Monitor) RemovePermission(_ context.Context, name, domain string) error {
	return m.perms.RemovePermission(name, domain)
}

// Explain produces an explanation for a cookie, serving from the
// ledger's cache when possible.
func (m *Monitor) Explain(ctx context.Context, c *wardlib.Cookie) (string, bool, error) {
	key := c.Key()
	if text, ok := m.ledger.CachedExplanation(key); ok {
		return text, true, nil
	}
	categories := wardlib.Classify(c.Name, c.Value)
	var text string
	if m.explain != nil {
		var err error
		text, err = m.explain.Explain(ctx, c, categories)
		if err != nil {
			m.log.Printf("explainer failed for %s, using built-in text: %v", c.Name, err)
			text = ""
		}
	}
	if text == "" {
		text = wardlib.StaticExplanation(c, categories)
	}
	m.ledger.CacheExplanation(key, text)
	return text, false, nil
}

// Export builds an export document for a website.
func (m *Monitor) Export(ctx context.Context, website string) (*wardlib.ExportDocument, error) {
	return m.ExportVersion(ctx, website, "")
}

// ExportVersion builds an export document stamped with a version.
func (m *Monitor) ExportVersion(ctx context.Context, website, version string) (*wardlib.ExportDocument, error) {
	view, err := m.View(ctx, website)
	if err != nil {
		return nil, err
	}
	return wardlib.BuildExport(view, m.perms, version), nil
}
