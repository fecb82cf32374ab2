package monitor

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

// fakeStore is an in-memory browser store.
type fakeStore struct {
	mu      sync.Mutex
	cookies map[string]*wardlib.Cookie
	tab     *wardlib.Tab
	failRm  bool
	removed []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{cookies: make(map[string]*wardlib.Cookie)}
}

func (f *fakeStore) add(c *wardlib.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookies[c.Key()] = c
}

func (f *fakeStore) Cookies(_ context.Context, site string) ([]*wardlib.Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*wardlib.Cookie
	for _, c := range f.cookies {
		if wardlib.RelatedDomains(c.Domain, site) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) AllCookies(_ context.Context) ([]*wardlib.Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*wardlib.Cookie, 0, len(f.cookies))
	for _, c := range f.cookies {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) RemoveCookie(_ context.Context, rawURL, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRm {
		return errors.New("store locked")
	}
	f.removed = append(f.removed, name)
	for key, c := range f.cookies {
		if c.Name == name {
			delete(f.cookies, key)
		}
	}
	return nil
}

func (f *fakeStore) ActiveTab(_ context.Context) (*wardlib.Tab, error) {
	if f.tab == nil {
		return nil, errors.New("no tab")
	}
	return f.tab, nil
}

// fakeNotifier records push events.
type fakeNotifier struct {
	mu         sync.Mutex
	stats      []wardlib.Stats
	suspicious []string
}

func (f *fakeNotifier) StatsUpdated(_ string, stats wardlib.Stats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = append(f.stats, stats)
}

func (f *fakeNotifier) SuspiciousCookie(_ string, c *wardlib.Cookie, _ []wardlib.Category, _ int, _ wardlib.RiskLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suspicious = append(f.suspicious, c.Name)
}

func newTestMonitor(t *testing.T, store *fakeStore) (*Monitor, *wardlib.Ledger, *wardlib.PermissionStore, *fakeNotifier) {
	t.Helper()
	if err := wardlib.SetConfigDir(t.TempDir()); err != nil {
		t.Fatalf("SetConfigDir: %v", err)
	}
	ledger, err := wardlib.OpenLedger()
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })
	perms, err := wardlib.OpenPermissionStore()
	if err != nil {
		t.Fatalf("OpenPermissionStore: %v", err)
	}
	t.Cleanup(func() { perms.Close() })

	notifier := &fakeNotifier{}
	m := New(log.New(io.Discard, "", 0), store, ledger, perms, notifier, nil)
	return m, ledger, perms, notifier
}

func TestScanRecordsSightings(t *testing.T) {
	store := newFakeStore()
	c := &wardlib.Cookie{Name: "theme", Domain: "example.com", Value: "dark"}
	store.add(c)

	m, ledger, _, notifier := newTestMonitor(t, store)
	stats, err := m.Scan(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if stats.Total != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if ledger.Entry(c.Key()) == nil {
		t.Fatal("sighting not recorded")
	}
	if len(notifier.stats) != 1 {
		t.Fatalf("stats pushed %d times, want 1", len(notifier.stats))
	}
}

func TestScanDetectsRemoval(t *testing.T) {
	store := newFakeStore()
	c := &wardlib.Cookie{Name: "sid", Domain: "example.com"}
	store.add(c)

	m, ledger, _, _ := newTestMonitor(t, store)
	ctx := context.Background()
	if _, err := m.Scan(ctx, "example.com"); err != nil {
		t.Fatal(err)
	}

	// Cookie vanishes between scans.
	store.mu.Lock()
	delete(store.cookies, c.Key())
	store.mu.Unlock()

	if _, err := m.Scan(ctx, "example.com"); err != nil {
		t.Fatal(err)
	}
	if e := ledger.Entry(c.Key()); e == nil || e.Status != wardlib.StatusRemoved {
		t.Fatalf("entry = %+v, want removed", e)
	}

	// Re-appearing flips it back to active.
	store.add(c)
	if _, err := m.Scan(ctx, "example.com"); err != nil {
		t.Fatal(err)
	}
	if e := ledger.Entry(c.Key()); e.Status != wardlib.StatusActive {
		t.Fatalf("status = %s after re-sighting, want active", e.Status)
	}
}

func TestScanEnforcesBlockingPermission(t *testing.T) {
	store := newFakeStore()
	c := &wardlib.Cookie{Name: "_fbp", Domain: ".tracker.net", Secure: true}
	store.add(c)

	m, ledger, perms, _ := newTestMonitor(t, store)
	if _, err := perms.SetPermission("_fbp", "tracker.net", wardlib.ActionBlock, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Scan(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if len(store.removed) != 1 || store.removed[0] != "_fbp" {
		t.Fatalf("removed = %v", store.removed)
	}
	if e := ledger.Entry(c.Key()); e == nil || e.Status != wardlib.StatusBlocked {
		t.Fatalf("entry = %+v, want blocked", e)
	}
}

func TestScanEnforcementFailureRetries(t *testing.T) {
	store := newFakeStore()
	c := &wardlib.Cookie{Name: "uid", Domain: "ads.net"}
	store.add(c)
	store.failRm = true

	m, ledger, perms, _ := newTestMonitor(t, store)
	if _, err := perms.SetPermission("uid", "ads.net", wardlib.ActionBlock, nil); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := m.Scan(ctx, ""); err != nil {
		t.Fatal(err)
	}
	// Removal failed, history stays active and the cookie stays put.
	if e := ledger.Entry(c.Key()); e.Status != wardlib.StatusActive {
		t.Fatalf("status = %s, want active after failed removal", e.Status)
	}

	// Store recovers, next scan succeeds.
	store.failRm = false
	if _, err := m.Scan(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if e := ledger.Entry(c.Key()); e.Status != wardlib.StatusBlocked {
		t.Fatalf("status = %s, want blocked after retry", e.Status)
	}
}

func TestScanAutoBlocksHighRisk(t *testing.T) {
	store := newFakeStore()
	store.tab = &wardlib.Tab{URL: "https://shop.com/", Domain: "shop.com", Secure: true}
	// Third-party tracker with enough factors to hit the high threshold.
	c := &wardlib.Cookie{
		Name:   "_ga_track_uid",
		Value:  "visitor@mail.com",
		Domain: ".tracker.net",
	}
	store.add(c)

	m, ledger, perms, _ := newTestMonitor(t, store)
	perms.SetSetting(wardlib.SettingAutoBlockHigh, "true")

	if _, err := m.Scan(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	perm := perms.GetPermission(c.Name, c.Domain)
	if perm == nil || !perm.Blocked {
		t.Fatalf("auto-block permission = %+v", perm)
	}
	e := ledger.Entry(c.Key())
	if e == nil || e.Status != wardlib.StatusBlocked || !e.AutoBlocked {
		t.Fatalf("entry = %+v, want auto-blocked", e)
	}
}

func TestScanSuspiciousNotifiedOnce(t *testing.T) {
	store := newFakeStore()
	c := &wardlib.Cookie{Name: "user_email_track", Domain: "shop.com", Value: "a@b.com"}
	store.add(c)

	m, _, _, notifier := newTestMonitor(t, store)
	ctx := context.Background()
	if _, err := m.Scan(ctx, "shop.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Scan(ctx, "shop.com"); err != nil {
		t.Fatal(err)
	}
	if len(notifier.suspicious) != 1 {
		t.Fatalf("suspicious notified %d times, want 1", len(notifier.suspicious))
	}
}

func TestViewDefaultScopeKeepsBlocked(t *testing.T) {
	store := newFakeStore()
	c := &wardlib.Cookie{Name: "_fbp", Domain: "tracker.net"}
	store.add(c)

	m, _, perms, _ := newTestMonitor(t, store)
	ctx := context.Background()
	if _, err := perms.SetPermission("_fbp", "tracker.net", wardlib.ActionBlock, nil); err != nil {
		t.Fatal(err)
	}
	// Enforcement removes the cookie from the live store.
	if _, err := m.Scan(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if len(store.removed) != 1 {
		t.Fatalf("removed = %v", store.removed)
	}

	sited, err := m.View(ctx, "tracker.net")
	if err != nil {
		t.Fatal(err)
	}
	if sited.Stats.Total != 1 || sited.Stats.Blocked != 1 {
		t.Fatalf("sited stats = %+v", sited.Stats)
	}

	// No website and no observable tab: the default scope covers the
	// whole store and must still report the blocked entry.
	whole, err := m.View(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if whole.Stats.Total != sited.Stats.Total || whole.Stats.Blocked != sited.Stats.Blocked {
		t.Fatalf("default-scope stats = %+v, want %+v", whole.Stats, sited.Stats)
	}
}

func TestViewEmptyWebsiteResolvesActiveTab(t *testing.T) {
	store := newFakeStore()
	store.tab = &wardlib.Tab{URL: "https://shop.com/", Domain: "shop.com", Secure: true}
	store.add(&wardlib.Cookie{Name: "cart", Domain: "shop.com"})
	store.add(&wardlib.Cookie{Name: "uid", Domain: "other.net"})

	m, _, _, _ := newTestMonitor(t, store)
	view, err := m.View(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if view.Website != "shop.com" {
		t.Fatalf("website = %q, want active tab domain", view.Website)
	}
	if view.Stats.Total != 1 || view.Entries[0].Cookie.Name != "cart" {
		t.Fatalf("view = %+v, want only the tab's cookie", view.Entries)
	}
}

func TestSetPermissionUnblockClearsHistory(t *testing.T) {
	store := newFakeStore()
	c := &wardlib.Cookie{Name: "sid", Domain: "example.com"}
	store.add(c)

	m, ledger, _, _ := newTestMonitor(t, store)
	ctx := context.Background()

	if _, err := m.SetPermission(ctx, c, wardlib.ActionBlock, nil); err != nil {
		t.Fatal(err)
	}
	// Blocking also needs the ledger to know the cookie.
	if _, err := m.Scan(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if e := ledger.Entry(c.Key()); e.Status != wardlib.StatusBlocked {
		t.Fatalf("status = %s, want blocked", e.Status)
	}

	if _, err := m.SetPermission(ctx, c, wardlib.ActionAllow, nil); err != nil {
		t.Fatal(err)
	}
	if e := ledger.Entry(c.Key()); e.Status != wardlib.StatusActive {
		t.Fatalf("status = %s after allow, want active", e.Status)
	}
}

func TestExplainCaches(t *testing.T) {
	store := newFakeStore()
	m, _, _, _ := newTestMonitor(t, store)
	c := &wardlib.Cookie{Name: "_ga", Domain: "shop.com", Value: "GA1.2"}

	ctx := context.Background()
	first, cached, err := m.Explain(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	if cached || first == "" {
		t.Fatalf("first explain: cached=%v text=%q", cached, first)
	}
	second, cached, err := m.Explain(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	if !cached || second != first {
		t.Fatalf("second explain: cached=%v text=%q", cached, second)
	}
}
