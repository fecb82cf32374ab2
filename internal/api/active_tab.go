package api

import (
	"context"
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
)

func (s *Api) activeTabHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	tab, err := s.mon.ActiveTab(context.Background())
	if err != nil {
		return common.UPDATE_ACTIVE_TAB, nil, err
	}
	return common.UPDATE_ACTIVE_TAB, &common.ActiveTabResponse{Tab: tab}, nil
}
