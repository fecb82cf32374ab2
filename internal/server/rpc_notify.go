package server

import (
	"context"
	"log"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

// JSON-RPC push notification methods.
const (
	NotifyStatsUpdated     = "stats.updated"
	NotifySuspiciousCookie = "cookie.suspicious"
)

// RPCNotifier maintains the set of connected jrpc2 WebSocket servers
// and broadcasts push notifications to all of them.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     *log.Logger
}

// NewRPCNotifier creates a new notifier.
func NewRPCNotifier(l *log.Logger) *RPCNotifier {
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     l,
	}
}

// Register adds a server to the broadcast set.
func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

// Unregister removes a server from the broadcast set.
func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Broadcast sends a push notification to all registered servers.
// Servers that fail to receive (e.g., disconnected) are unregistered.
func (n *RPCNotifier) Broadcast(method string, params any) {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	var failed []*jrpc2.Server
	for _, srv := range servers {
		if err := srv.Notify(context.Background(), method, params); err != nil {
			if n.log != nil {
				n.log.Printf("RPC push failed: %v", err)
			}
			failed = append(failed, srv)
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
}

// Count returns the number of registered servers (for testing).
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

// Notification param types for cookie events.

// StatsUpdatedNotification is sent when a scan changes a website's
// counters.
type StatsUpdatedNotification struct {
	Website string        `json:"website,omitempty"`
	Stats   wardlib.Stats `json:"stats"`
}

// SuspiciousCookieNotification is sent when a scan finds a cookie at or
// above the suspicion threshold.
type SuspiciousCookieNotification struct {
	Website    string             `json:"website,omitempty"`
	Cookie     *wardlib.Cookie    `json:"cookie"`
	Categories []wardlib.Category `json:"categories,omitempty"`
	RiskScore  int                `json:"riskScore"`
	RiskLevel  wardlib.RiskLevel  `json:"riskLevel"`
}
