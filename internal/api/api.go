// Package api exposes the monitor over the daemon's socket protocol.
// One file per handler, each mapped to a message type in common.
package api

import (
	"log"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/monitor"
	"github.com/cookieward/cookieward/internal/server"
)

type Api struct {
	log       *log.Logger
	mon       *monitor.Monitor
	version   string
	commit    string
	buildType string
}

func NewApi(l *log.Logger, mon *monitor.Monitor, version, commit, buildType string) (*Api, error) {
	return &Api{
		log:       l,
		mon:       mon,
		version:   version,
		commit:    commit,
		buildType: buildType,
	}, nil
}

func (s *Api) RegisterHandlers(srv *server.Server) {
	// extension messaging surface
	srv.RegisterHandler(common.UPDATE_SCRIPT_LOADED, s.scriptLoadedHandler)
	srv.RegisterHandler(common.UPDATE_ACTIVE_TAB, s.activeTabHandler)
	srv.RegisterHandler(common.UPDATE_PERMISSIONS, s.permissionsHandler)
	srv.RegisterHandler(common.UPDATE_REMOVE_PERMISSION, s.removePermissionHandler)
	srv.RegisterHandler(common.UPDATE_COOKIE_STATS, s.cookieStatsHandler)
	srv.RegisterHandler(common.UPDATE_COOKIE_DATA, s.cookieDataHandler)
	srv.RegisterHandler(common.UPDATE_EXPLANATION, s.explanationHandler)

	// daemon control methods
	srv.RegisterHandler(common.UPDATE_ATTACH, s.attachHandler)
	srv.RegisterHandler(common.UPDATE_SCAN, s.scanHandler)
	srv.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
}
