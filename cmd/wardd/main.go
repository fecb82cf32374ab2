// Command wardd runs a bare monitoring daemon with default settings and
// no command line surface. The full cookieward binary embeds the same
// daemon behind the "daemon" subcommand.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/api"
	"github.com/cookieward/cookieward/internal/browser"
	"github.com/cookieward/cookieward/internal/explain"
	"github.com/cookieward/cookieward/internal/monitor"
	"github.com/cookieward/cookieward/internal/server"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

func main() {
	if err := run(); err != nil {
		fmt.Println("wardd:", err.Error())
		os.Exit(1)
	}
}

func run() error {
	l := log.Default()

	ledger, err := wardlib.OpenLedger()
	if err != nil {
		return err
	}
	perms, err := wardlib.OpenPermissionStore()
	if err != nil {
		return err
	}
	store, err := browser.AutoDetectStore()
	if err != nil {
		return err
	}
	engine, err := explain.NewEngine(l)
	if err != nil {
		return err
	}

	push := api.NewPush(nil, nil)
	mon := monitor.New(l, store, ledger, perms, push, engine)

	serv := server.NewServer(l, nil, common.DefaultTCPPort)
	push.Bind(serv.Pool(), nil)

	a, err := api.NewApi(l, mon, "", "", "daemon")
	if err != nil {
		return err
	}
	a.RegisterHandlers(serv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serv.Start(ctx)
}
