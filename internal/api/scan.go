package api

import (
	"context"
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
)

// scanHandler runs one scan pass on demand. Scheduled scans go through
// the same monitor path.
func (s *Api) scanHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ScanParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &m); err != nil {
			return common.UPDATE_SCAN, nil, err
		}
	}
	stats, err := s.mon.Scan(context.Background(), m.Website)
	if err != nil {
		return common.UPDATE_SCAN, nil, err
	}
	return common.UPDATE_SCAN, &common.ScanResponse{
		Scanned: stats.Total,
		Stats:   *stats,
	}, nil
}
