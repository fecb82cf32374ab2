package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

const testSecret = "rpc-test-secret"

// fakeService is a canned Service implementation for transport tests.
type fakeService struct {
	view    *wardlib.View
	perms   map[string]*wardlib.Permission
	explain string
	stats   wardlib.Stats
	err     error
}

func newFakeService() *fakeService {
	return &fakeService{
		view: &wardlib.View{
			Website: "example.com",
			Stats:   wardlib.Stats{Total: 2, Suspicious: 1},
		},
		perms:   make(map[string]*wardlib.Permission),
		explain: "tracks you",
	}
}

func (f *fakeService) View(_ context.Context, website string) (*wardlib.View, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakeService) SetPermission(_ context.Context, c *wardlib.Cookie, action wardlib.Action, allowed []wardlib.Category) (*wardlib.Permission, error) {
	if f.err != nil {
		return nil, f.err
	}
	perm := &wardlib.Permission{
		Name:    c.Name,
		Domain:  wardlib.NormalizeDomain(c.Domain),
		Action:  action,
		Blocked: wardlib.IsBlocking(action, allowed),
	}
	f.perms[wardlib.PermissionKey(c.Name, c.Domain)] = perm
	return perm, nil
}

func (f *fakeService) RemovePermission(_ context.Context, name, domain string) error {
	key := wardlib.PermissionKey(name, domain)
	if _, ok := f.perms[key]; !ok {
		return wardlib.ErrPermissionNotFound
	}
	delete(f.perms, key)
	return nil
}

func (f *fakeService) Explain(_ context.Context, _ *wardlib.Cookie) (string, bool, error) {
	return f.explain, false, f.err
}

func (f *fakeService) Scan(_ context.Context, _ string) (*wardlib.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.stats, nil
}

func (f *fakeService) Export(_ context.Context, website string) (*wardlib.ExportDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &wardlib.ExportDocument{
		ExportInfo: wardlib.ExportInfo{ExtensionName: wardlib.ExtensionName, Website: website},
	}, nil
}

var _ Service = (*fakeService)(nil)

func newTestRPC(t *testing.T, svc Service) (string, func()) {
	t.Helper()
	rpc := NewRPCServer(&RPCConfig{
		Secret:    testSecret,
		Version:   "1.0.0-test",
		Commit:    "abc123",
		BuildType: "test",
	}, svc)
	ws := NewWebServer(log.New(io.Discard, "", 0), 0, rpc)
	srv := httptest.NewServer(ws.handler())
	return srv.URL, func() {
		srv.Close()
		rpc.Close()
	}
}

func rpcPost(t *testing.T, url, token, method string, params any) (int, map[string]any) {
	t.Helper()
	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		reqBody["params"] = params
	}
	data, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", url+"/jsonrpc", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var result map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			t.Fatalf("unmarshal: %v (body: %s)", err, string(body))
		}
	}
	return resp.StatusCode, result
}

func TestRPCAuthRequired(t *testing.T) {
	url, cleanup := newTestRPC(t, newFakeService())
	defer cleanup()

	code, _ := rpcPost(t, url, "", "system.getVersion", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d without token, want 401", code)
	}
	code, _ = rpcPost(t, url, "wrong-token", "system.getVersion", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d with wrong token, want 401", code)
	}
}

func TestRPCGetVersion(t *testing.T) {
	url, cleanup := newTestRPC(t, newFakeService())
	defer cleanup()

	code, resp := rpcPost(t, url, testSecret, "system.getVersion", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in %v", resp)
	}
	if result["version"] != "1.0.0-test" || result["buildType"] != "test" {
		t.Fatalf("result = %v", result)
	}
}

func TestRPCCookieStats(t *testing.T) {
	url, cleanup := newTestRPC(t, newFakeService())
	defer cleanup()

	_, resp := rpcPost(t, url, testSecret, "cookie.stats", map[string]any{"website": "example.com"})
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in %v", resp)
	}
	stats, _ := result["stats"].(map[string]any)
	if stats["total"] != float64(2) || stats["suspicious"] != float64(1) {
		t.Fatalf("stats = %v", stats)
	}
}

func TestRPCSetPermissionValidation(t *testing.T) {
	url, cleanup := newTestRPC(t, newFakeService())
	defer cleanup()

	_, resp := rpcPost(t, url, testSecret, "cookie.setPermission", map[string]any{
		"name": "sid", "domain": "example.com", "action": "destroy",
	})
	errObj, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error for invalid action, got %v", resp)
	}
	if errObj["code"] != float64(codeInvalidParams) {
		t.Fatalf("error code = %v", errObj["code"])
	}

	_, resp = rpcPost(t, url, testSecret, "cookie.setPermission", map[string]any{
		"name": "sid", "domain": "example.com", "action": "block",
	})
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in %v", resp)
	}
	if result["success"] != true {
		t.Fatalf("result = %v", result)
	}
	perm, _ := result["permission"].(map[string]any)
	if perm["blocked"] != true {
		t.Fatalf("permission = %v", perm)
	}
}

func TestRPCRemovePermissionNotFound(t *testing.T) {
	url, cleanup := newTestRPC(t, newFakeService())
	defer cleanup()

	_, resp := rpcPost(t, url, testSecret, "cookie.removePermission", map[string]any{
		"name": "ghost", "domain": "example.com",
	})
	errObj, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error, got %v", resp)
	}
	if errObj["code"] != float64(codePermissionNotFound) {
		t.Fatalf("error code = %v", errObj["code"])
	}
}

func TestRPCExplain(t *testing.T) {
	url, cleanup := newTestRPC(t, newFakeService())
	defer cleanup()

	_, resp := rpcPost(t, url, testSecret, "cookie.explain", map[string]any{
		"cookie": map[string]any{"name": "_ga", "domain": "example.com"},
	})
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in %v", resp)
	}
	if result["explanation"] != "tracks you" {
		t.Fatalf("result = %v", result)
	}
}
