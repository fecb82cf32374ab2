package api

import (
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
)

// scriptLoadedHandler acknowledges a content script announcing itself on
// a page. The event is informational, page state flows in through scans.
func (s *Api) scriptLoadedHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ScriptLoadedParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_SCRIPT_LOADED, nil, err
	}
	s.log.Printf("content script loaded on %s (secure=%v)", m.Url, m.Secure)
	return common.UPDATE_SCRIPT_LOADED, &common.ScriptLoadedResponse{Acknowledged: true}, nil
}
