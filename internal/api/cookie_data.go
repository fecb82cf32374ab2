package api

import (
	"context"
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
)

// cookieDataHandler returns the full export document for a website:
// reconciled cookies, permissions, settings and stats.
func (s *Api) cookieDataHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.CookieDataParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &m); err != nil {
			return common.UPDATE_COOKIE_DATA, nil, err
		}
	}
	doc, err := s.mon.ExportVersion(context.Background(), m.Website, s.version)
	if err != nil {
		return common.UPDATE_COOKIE_DATA, nil, err
	}
	return common.UPDATE_COOKIE_DATA, &common.CookieDataResponse{Data: doc}, nil
}
