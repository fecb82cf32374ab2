package api

import (
	"context"
	"encoding/json"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/server"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

// permissionsHandler persists a user decision and enforces it when it
// blocks. The response carries the stored record so the caller sees the
// derived blocked flag.
func (s *Api) permissionsHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.PermissionParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_PERMISSIONS, nil, err
	}
	if !wardlib.ValidAction(m.Action) {
		return common.UPDATE_PERMISSIONS, nil, wardlib.ErrInvalidAction
	}
	perm, err := s.mon.SetPermission(context.Background(), &m.Cookie, m.Action, m.AllowedDataTypes)
	if err != nil {
		return common.UPDATE_PERMISSIONS, nil, err
	}
	return common.UPDATE_PERMISSIONS, &common.PermissionResponse{
		Success:    true,
		Permission: perm,
	}, nil
}

// removePermissionHandler reverts a cookie to no-opinion. The cookie is
// allowed by default from then on unless the risk policy blocks it
// again.
func (s *Api) removePermissionHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.RemovePermissionParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_REMOVE_PERMISSION, nil, err
	}
	if err := s.mon.RemovePermission(context.Background(), m.Name, m.Domain); err != nil {
		return common.UPDATE_REMOVE_PERMISSION, nil, err
	}
	return common.UPDATE_REMOVE_PERMISSION, &common.PermissionResponse{Success: true}, nil
}
