package api

import (
	"context"
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
)

func (s *Api) explanationHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ExplanationParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_EXPLANATION, nil, err
	}
	text, cached, err := s.mon.Explain(context.Background(), &m.Cookie)
	if err != nil {
		return common.UPDATE_EXPLANATION, nil, err
	}
	return common.UPDATE_EXPLANATION, &common.ExplanationResponse{
		Explanation: text,
		Cached:      cached,
	}, nil
}
