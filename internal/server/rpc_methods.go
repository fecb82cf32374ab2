package server

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

// Custom JSON-RPC error codes for cookie operations.
const (
	codePermissionNotFound = jrpc2.Code(-32001)
	codeStoreUnavailable   = jrpc2.Code(-32002)
	codeInvalidParams      = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	Version   string // Daemon version
	Commit    string // Git commit
	BuildType string // Build type
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	secret    string
	version   string
	commit    string
	buildType string
	svc       Service
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// SiteParams is a common input with just a website.
type SiteParams struct {
	Website string `json:"website,omitempty"`
}

// StatsResult is the response for cookie.stats.
type StatsResult struct {
	Website string        `json:"website,omitempty"`
	Stats   wardlib.Stats `json:"stats"`
}

// SetPermissionParams is the input for cookie.setPermission.
type SetPermissionParams struct {
	Name    string             `json:"name"`
	Domain  string             `json:"domain"`
	Action  wardlib.Action     `json:"action"`
	Allowed []wardlib.Category `json:"allowedDataTypes,omitempty"`
}

// SetPermissionResult is the response for cookie.setPermission.
type SetPermissionResult struct {
	Success    bool                `json:"success"`
	Permission *wardlib.Permission `json:"permission,omitempty"`
}

// RemovePermissionParams is the input for cookie.removePermission.
type RemovePermissionParams struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// ExplainParams is the input for cookie.explain.
type ExplainParams struct {
	Cookie wardlib.Cookie `json:"cookie"`
}

// ExplainResult is the response for cookie.explain.
type ExplainResult struct {
	Explanation string `json:"explanation"`
	Cached      bool   `json:"cached"`
}

// ScanResult is the response for cookie.scan.
type ScanResult struct {
	Scanned bool          `json:"scanned"`
	Stats   wardlib.Stats `json:"stats"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
func NewRPCServer(cfg *RPCConfig, svc Service) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		svc:       svc,
	}

	rs.methods = handler.Map{
		"system.getVersion":       handler.New(rs.systemGetVersion),
		"cookie.list":             handler.New(rs.cookieList),
		"cookie.stats":            handler.New(rs.cookieStats),
		"cookie.setPermission":    handler.New(rs.cookieSetPermission),
		"cookie.removePermission": handler.New(rs.cookieRemovePermission),
		"cookie.explain":          handler.New(rs.cookieExplain),
		"cookie.scan":             handler.New(rs.cookieScan),
		"cookie.export":           handler.New(rs.cookieExport),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// cookieList returns the reconciled cookie view for a website.
func (rs *RPCServer) cookieList(ctx context.Context, p *SiteParams) (*wardlib.View, error) {
	view, err := rs.svc.View(ctx, p.Website)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeStoreUnavailable, Message: err.Error()}
	}
	return view, nil
}

// cookieStats returns only the counters of the reconciled view.
func (rs *RPCServer) cookieStats(ctx context.Context, p *SiteParams) (*StatsResult, error) {
	view, err := rs.svc.View(ctx, p.Website)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeStoreUnavailable, Message: err.Error()}
	}
	return &StatsResult{Website: view.Website, Stats: view.Stats}, nil
}

// cookieSetPermission stores a permission and enforces it when blocking.
func (rs *RPCServer) cookieSetPermission(ctx context.Context, p *SetPermissionParams) (*SetPermissionResult, error) {
	if p.Name == "" || p.Domain == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required params: name, domain"}
	}
	if !wardlib.ValidAction(p.Action) {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid action: " + string(p.Action)}
	}
	c := &wardlib.Cookie{Name: p.Name, Domain: p.Domain}
	perm, err := rs.svc.SetPermission(ctx, c, p.Action, p.Allowed)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeStoreUnavailable, Message: err.Error()}
	}
	return &SetPermissionResult{Success: true, Permission: perm}, nil
}

// cookieRemovePermission deletes a stored permission.
func (rs *RPCServer) cookieRemovePermission(ctx context.Context, p *RemovePermissionParams) (*EmptyResult, error) {
	if p.Name == "" || p.Domain == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required params: name, domain"}
	}
	if err := rs.svc.RemovePermission(ctx, p.Name, p.Domain); err != nil {
		if err == wardlib.ErrPermissionNotFound {
			return nil, &jrpc2.Error{Code: codePermissionNotFound, Message: "permission not found"}
		}
		return nil, &jrpc2.Error{Code: codeStoreUnavailable, Message: err.Error()}
	}
	return &EmptyResult{}, nil
}

// cookieExplain produces an explanation for a cookie.
func (rs *RPCServer) cookieExplain(ctx context.Context, p *ExplainParams) (*ExplainResult, error) {
	if p.Cookie.Name == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: cookie.name"}
	}
	text, cached, err := rs.svc.Explain(ctx, &p.Cookie)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeStoreUnavailable, Message: err.Error()}
	}
	return &ExplainResult{Explanation: text, Cached: cached}, nil
}

// cookieScan runs a scan pass for a website.
func (rs *RPCServer) cookieScan(ctx context.Context, p *SiteParams) (*ScanResult, error) {
	stats, err := rs.svc.Scan(ctx, p.Website)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeStoreUnavailable, Message: err.Error()}
	}
	return &ScanResult{Scanned: true, Stats: *stats}, nil
}

// cookieExport builds an export document for a website.
func (rs *RPCServer) cookieExport(ctx context.Context, p *SiteParams) (*wardlib.ExportDocument, error) {
	doc, err := rs.svc.Export(ctx, p.Website)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeStoreUnavailable, Message: err.Error()}
	}
	return doc, nil
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
