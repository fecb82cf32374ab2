package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"sync"
	"testing"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/monitor"
	"github.com/cookieward/cookieward/internal/server"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

type memStore struct {
	mu      sync.Mutex
	cookies map[string]*wardlib.Cookie
	tab     *wardlib.Tab
}

func newMemStore() *memStore {
	return &memStore{cookies: make(map[string]*wardlib.Cookie)}
}

func (m *memStore) add(c *wardlib.Cookie) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cookies[c.Key()] = c
}

func (m *memStore) Cookies(_ context.Context, site string) ([]*wardlib.Cookie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*wardlib.Cookie
	for _, c := range m.cookies {
		if wardlib.RelatedDomains(c.Domain, site) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) AllCookies(_ context.Context) ([]*wardlib.Cookie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*wardlib.Cookie, 0, len(m.cookies))
	for _, c := range m.cookies {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) RemoveCookie(_ context.Context, rawURL, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, c := range m.cookies {
		if c.Name == name {
			delete(m.cookies, key)
			return nil
		}
	}
	return errors.New("cookie not found")
}

func (m *memStore) ActiveTab(_ context.Context) (*wardlib.Tab, error) {
	if m.tab == nil {
		return nil, errors.New("no tab")
	}
	return m.tab, nil
}

func newTestApi(t *testing.T, store *memStore) *Api {
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

	l := log.New(io.Discard, "", 0)
	mon := monitor.New(l, store, ledger, perms, nil, nil)
	a, err := NewApi(l, mon, "1.2.3", "abc123", "test")
	if err != nil {
		t.Fatalf("NewApi: %v", err)
	}
	return a
}

func marshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestVersionHandler(t *testing.T) {
	a := newTestApi(t, newMemStore())
	utype, res, err := a.versionHandler(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if utype != common.UPDATE_VERSION {
		t.Fatalf("utype = %s", utype)
	}
	v := res.(*common.VersionResponse)
	if v.Version != "1.2.3" || v.Commit != "abc123" || v.BuildType != "test" {
		t.Fatalf("version = %+v", v)
	}
}

func TestScriptLoadedHandler(t *testing.T) {
	a := newTestApi(t, newMemStore())
	body := marshal(t, &common.ScriptLoadedParams{Url: "https://shop.com/", Secure: true})
	_, res, err := a.scriptLoadedHandler(nil, nil, body)
	if err != nil {
		t.Fatal(err)
	}
	if !res.(*common.ScriptLoadedResponse).Acknowledged {
		t.Fatal("expected acknowledgement")
	}
}

func TestActiveTabHandler(t *testing.T) {
	store := newMemStore()
	store.tab = &wardlib.Tab{URL: "https://shop.com/cart", Domain: "shop.com", Secure: true}
	a := newTestApi(t, store)

	_, res, err := a.activeTabHandler(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	tab := res.(*common.ActiveTabResponse).Tab
	if tab == nil || tab.Domain != "shop.com" {
		t.Fatalf("tab = %+v", tab)
	}
}

func TestPermissionsHandlerBlocks(t *testing.T) {
	store := newMemStore()
	c := &wardlib.Cookie{Name: "_fbp", Domain: ".tracker.net", Secure: true}
	store.add(c)
	a := newTestApi(t, store)

	body := marshal(t, &common.PermissionParams{Cookie: *c, Action: wardlib.ActionBlock})
	_, res, err := a.permissionsHandler(nil, nil, body)
	if err != nil {
		t.Fatal(err)
	}
	pr := res.(*common.PermissionResponse)
	if !pr.Success || pr.Permission == nil || !pr.Permission.Blocked {
		t.Fatalf("response = %+v", pr)
	}
	if cookies, _ := store.AllCookies(context.Background()); len(cookies) != 0 {
		t.Fatalf("live cookie not removed, %d left", len(cookies))
	}
}

func TestPermissionsHandlerInvalidAction(t *testing.T) {
	a := newTestApi(t, newMemStore())
	body := marshal(t, &common.PermissionParams{
		Cookie: wardlib.Cookie{Name: "sid", Domain: "shop.com"},
		Action: wardlib.Action("obliterate"),
	})
	if _, _, err := a.permissionsHandler(nil, nil, body); !errors.Is(err, wardlib.ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
}

func TestRemovePermissionHandler(t *testing.T) {
	store := newMemStore()
	c := &wardlib.Cookie{Name: "sid", Domain: "shop.com"}
	store.add(c)
	a := newTestApi(t, store)

	setBody := marshal(t, &common.PermissionParams{Cookie: *c, Action: wardlib.ActionAllow})
	if _, _, err := a.permissionsHandler(nil, nil, setBody); err != nil {
		t.Fatal(err)
	}

	rmBody := marshal(t, &common.RemovePermissionParams{Name: "sid", Domain: "shop.com"})
	_, res, err := a.removePermissionHandler(nil, nil, rmBody)
	if err != nil {
		t.Fatal(err)
	}
	if !res.(*common.PermissionResponse).Success {
		t.Fatal("expected success")
	}

	// Removing again reports not found.
	if _, _, err := a.removePermissionHandler(nil, nil, rmBody); !errors.Is(err, wardlib.ErrPermissionNotFound) {
		t.Fatalf("err = %v, want ErrPermissionNotFound", err)
	}
}

func TestCookieStatsHandler(t *testing.T) {
	store := newMemStore()
	store.add(&wardlib.Cookie{Name: "theme", Domain: "shop.com"})
	store.add(&wardlib.Cookie{Name: "sid", Domain: "shop.com"})
	a := newTestApi(t, store)

	body := marshal(t, &common.CookieStatsParams{Website: "shop.com"})
	_, res, err := a.cookieStatsHandler(nil, nil, body)
	if err != nil {
		t.Fatal(err)
	}
	sr := res.(*common.CookieStatsResponse)
	if sr.Website != "shop.com" || sr.Stats.Total != 2 {
		t.Fatalf("stats = %+v", sr)
	}
}

func TestCookieStatsHandlerDefaultScope(t *testing.T) {
	store := newMemStore()
	store.add(&wardlib.Cookie{Name: "_fbp", Domain: "tracker.net"})
	a := newTestApi(t, store)

	// Block the cookie; enforcement removes it from the live store.
	permBody := marshal(t, &common.PermissionParams{
		Cookie: wardlib.Cookie{Name: "_fbp", Domain: "tracker.net"},
		Action: wardlib.ActionBlock,
	})
	if _, _, err := a.permissionsHandler(nil, nil, permBody); err != nil {
		t.Fatal(err)
	}

	// Stats with no website must still count the blocked entry, matching
	// the sited query.
	for _, website := range []string{"tracker.net", ""} {
		body := marshal(t, &common.CookieStatsParams{Website: website})
		_, res, err := a.cookieStatsHandler(nil, nil, body)
		if err != nil {
			t.Fatal(err)
		}
		sr := res.(*common.CookieStatsResponse)
		if sr.Stats.Total != 1 || sr.Stats.Blocked != 1 {
			t.Fatalf("website %q: stats = %+v, want total=1 blocked=1", website, sr.Stats)
		}
	}
}

func TestCookieDataHandler(t *testing.T) {
	store := newMemStore()
	store.add(&wardlib.Cookie{Name: "theme", Domain: "shop.com"})
	a := newTestApi(t, store)

	body := marshal(t, &common.CookieDataParams{Website: "shop.com"})
	_, res, err := a.cookieDataHandler(nil, nil, body)
	if err != nil {
		t.Fatal(err)
	}
	doc := res.(*common.CookieDataResponse).Data
	if doc == nil || doc.ExportInfo.ExtensionName != wardlib.ExtensionName {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.ExportInfo.Version != "1.2.3" {
		t.Fatalf("version = %q", doc.ExportInfo.Version)
	}
	if len(doc.Cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(doc.Cookies))
	}
}

func TestExplanationHandler(t *testing.T) {
	a := newTestApi(t, newMemStore())
	body := marshal(t, &common.ExplanationParams{
		Cookie: wardlib.Cookie{Name: "_ga", Domain: "shop.com"},
	})
	_, res, err := a.explanationHandler(nil, nil, body)
	if err != nil {
		t.Fatal(err)
	}
	er := res.(*common.ExplanationResponse)
	if er.Explanation == "" || er.Cached {
		t.Fatalf("first response = %+v", er)
	}

	_, res, err = a.explanationHandler(nil, nil, body)
	if err != nil {
		t.Fatal(err)
	}
	if !res.(*common.ExplanationResponse).Cached {
		t.Fatal("expected cached explanation on second call")
	}
}

func TestScanHandler(t *testing.T) {
	store := newMemStore()
	store.add(&wardlib.Cookie{Name: "sid", Domain: "shop.com"})
	a := newTestApi(t, store)

	body := marshal(t, &common.ScanParams{Website: "shop.com"})
	_, res, err := a.scanHandler(nil, nil, body)
	if err != nil {
		t.Fatal(err)
	}
	sr := res.(*common.ScanResponse)
	if sr.Scanned != 1 || sr.Stats.Total != 1 {
		t.Fatalf("scan = %+v", sr)
	}
}

func TestAttachHandler(t *testing.T) {
	a := newTestApi(t, newMemStore())
	pool := server.NewPool()
	client, srvConn := net.Pipe()
	defer client.Close()
	defer srvConn.Close()

	_, res, err := a.attachHandler(server.NewSyncConn(srvConn), pool, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.(*common.AttachResponse).Attached {
		t.Fatal("expected attached")
	}
	if pool.Count() != 1 {
		t.Fatalf("pool count = %d, want 1", pool.Count())
	}
}
