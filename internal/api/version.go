package api

import (
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
)

// versionHandler returns the daemon's version information set at start.
func (s *Api) versionHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_VERSION, &common.VersionResponse{
		Version:   s.version,
		Commit:    s.commit,
		BuildType: s.buildType,
	}, nil
}
