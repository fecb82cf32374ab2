package api

import (
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
)

// attachHandler registers the caller's connection for push updates.
// The connection keeps receiving stats and suspicious cookie broadcasts
// until it disconnects.
func (s *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	pool.Attach(sconn.Conn)
	return common.UPDATE_ATTACH, &common.AttachResponse{Attached: true}, nil
}
