package api

import (
	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

// Push fans scan events out to both transports: framed broadcasts for
// socket clients attached to the pool and JSON-RPC notifications for
// WebSocket clients.
type Push struct {
	pool     *server.Pool
	notifier *server.RPCNotifier
}

// NewPush creates a push bridge. notifier may be nil when the web
// transport is disabled.
func NewPush(pool *server.Pool, notifier *server.RPCNotifier) *Push {
	return &Push{pool: pool, notifier: notifier}
}

// Bind attaches the transports after construction. The monitor needs
// the bridge before the servers exist; call Bind before the servers
// start serving.
func (p *Push) Bind(pool *server.Pool, notifier *server.RPCNotifier) {
	p.pool = pool
	p.notifier = notifier
}

func (p *Push) StatsUpdated(website string, stats wardlib.Stats) {
	if p.pool != nil {
		p.pool.BroadcastUpdate(common.UPDATE_STATS_CHANGED, &common.StatsChangedUpdate{
			Website: website,
			Stats:   stats,
		})
	}
	if p.notifier != nil {
		p.notifier.Broadcast(server.NotifyStatsUpdated, &server.StatsUpdatedNotification{
			Website: website,
			Stats:   stats,
		})
	}
}

func (p *Push) SuspiciousCookie(website string, c *wardlib.Cookie, categories []wardlib.Category, score int, level wardlib.RiskLevel) {
	if p.pool != nil {
		p.pool.BroadcastUpdate(common.UPDATE_SUSPICIOUS_COOKIE, &common.SuspiciousCookieUpdate{
			Website:    website,
			Cookie:     *c,
			Categories: categories,
			RiskScore:  score,
			RiskLevel:  level,
		})
	}
	if p.notifier != nil {
		p.notifier.Broadcast(server.NotifySuspiciousCookie, &server.SuspiciousCookieNotification{
			Website:    website,
			Cookie:     c,
			Categories: categories,
			RiskScore:  score,
			RiskLevel:  level,
		})
	}
}
