package api

import (
	"context"
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
)

// cookieStatsHandler returns the reconciled counters for a website.
// This is the canonical pull path, push broadcasts are best-effort.
func (s *Api) cookieStatsHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.CookieStatsParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &m); err != nil {
			return common.UPDATE_COOKIE_STATS, nil, err
		}
	}
	view, err := s.mon.View(context.Background(), m.Website)
	if err != nil {
		return common.UPDATE_COOKIE_STATS, nil, err
	}
	return common.UPDATE_COOKIE_STATS, &common.CookieStatsResponse{
		Website: view.Website,
		Stats:   view.Stats,
	}, nil
}
