package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/internal/api"
	"github.com/cookieward/cookieward/internal/browser"
	explainpkg "github.com/cookieward/cookieward/internal/explain"
	"github.com/cookieward/cookieward/internal/monitor"
	"github.com/cookieward/cookieward/internal/scheduler"
	"github.com/cookieward/cookieward/internal/server"
	"github.com/cookieward/cookieward/pkg/logger"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

var daemonFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "port, p",
		Usage: "tcp fallback port for the socket transport",
		Value: common.DefaultTCPPort,
	},
	cli.IntFlag{
		Name:  "web-port",
		Usage: "port for the extension's json-rpc and websocket endpoints",
		Value: common.DefaultWebPort,
	},
	cli.StringFlag{
		Name:  "secret",
		Usage: "bearer token required on the web endpoints (empty disables them)",
	},
	cli.BoolFlag{
		Name:  "no-web",
		Usage: "do not start the web transport at all",
	},
	cli.StringFlag{
		Name:  "store-path",
		Usage: "path to a browser cookie store file (skips auto detection)",
	},
	cli.BoolFlag{
		Name:  "cdp",
		Usage: "attach to a running browser over the devtools protocol",
	},
	cli.StringFlag{
		Name:  "debug-url",
		Usage: "devtools debug url used with --cdp",
		Value: browser.DefaultDebugURL,
	},
	cli.StringFlag{
		Name:  "schedule",
		Usage: "cron expression for periodic full scans (overrides the stored setting)",
	},
	cli.StringFlag{
		Name:  "log-file",
		Usage: "also append daemon logs to this file",
	},
}

func daemon(ctx *cli.Context) error {
	lg, l, err := buildLogger(ctx.String("log-file"))
	if err != nil {
		printRuntimeErr(ctx, "daemon", "logger", err)
		return nil
	}
	defer lg.Close()

	ledger, err := wardlib.OpenLedger()
	if err != nil {
		printRuntimeErr(ctx, "daemon", "open_ledger", err)
		return nil
	}
	perms, err := wardlib.OpenPermissionStore()
	if err != nil {
		printRuntimeErr(ctx, "daemon", "open_permissions", err)
		return nil
	}

	store, err := openStore(ctx)
	if err != nil {
		printRuntimeErr(ctx, "daemon", "browser_store", err)
		return nil
	}

	engine, err := explainpkg.NewEngine(l)
	if err != nil {
		printRuntimeErr(ctx, "daemon", "explain_engine", err)
		return nil
	}

	push := api.NewPush(nil, nil)
	mon := monitor.New(l, store, ledger, perms, push, engine)

	var ws *server.WebServer
	if !ctx.Bool("no-web") {
		rpc := server.NewRPCServer(&server.RPCConfig{
			Secret:    ctx.String("secret"),
			Version:   buildArgs.Version,
			Commit:    buildArgs.Commit,
			BuildType: buildArgs.BuildType,
		}, mon)
		ws = server.NewWebServer(l, ctx.Int("web-port"), rpc)
	}

	serv := server.NewServer(l, ws, ctx.Int("port"))
	if ws != nil {
		push.Bind(serv.Pool(), ws.Notifier())
	} else {
		push.Bind(serv.Pool(), nil)
	}

	a, err := api.NewApi(l, mon, buildArgs.Version, buildArgs.Commit, buildArgs.BuildType)
	if err != nil {
		printRuntimeErr(ctx, "daemon", "new_api", err)
		return nil
	}
	a.RegisterHandlers(serv)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startSchedule(runCtx, l, ctx.String("schedule"), perms, mon)
	watchStore(runCtx, l, store, mon)

	lg.Info("daemon started on port %d", ctx.Int("port"))
	if err := serv.Start(runCtx); err != nil {
		lg.Error("daemon stopped: %v", err)
		return nil
	}
	lg.Info("daemon stopped")
	return nil
}

// buildLogger creates the daemon log backend. With a file path, output
// goes to both stderr and the file.
func buildLogger(path string) (logger.Logger, *log.Logger, error) {
	if path == "" {
		console := logger.NewConsoleLogger("")
		return console, console.Raw(), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	std := log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags)
	return logger.NewStandardLogger(std), std, nil
}

// openStore picks the cookie source: an explicit file, a devtools
// session, or the auto-detected default profile.
func openStore(ctx *cli.Context) (browser.Store, error) {
	if ctx.Bool("cdp") {
		return browser.NewCDPStore(ctx.String("debug-url")), nil
	}
	if path := ctx.String("store-path"); path != "" {
		return browser.OpenFileStore(path)
	}
	return browser.AutoDetectStore()
}

// startSchedule seeds the scan scheduler from the flag or the stored
// scan_schedule setting. No schedule means scans run only on demand and
// on store changes.
func startSchedule(ctx context.Context, l *log.Logger, expr string, perms *wardlib.PermissionStore, mon *monitor.Monitor) {
	if expr == "" {
		expr, _ = perms.Setting(wardlib.SettingScanSchedule)
	}
	if expr == "" {
		return
	}
	if !scheduler.ValidSchedule(expr) {
		l.Printf("ignoring invalid scan schedule %q", expr)
		return
	}
	sched := scheduler.New(ctx, func(website string) {
		if _, err := mon.Scan(ctx, website); err != nil {
			l.Printf("scheduled scan failed: %v", err)
		}
	})
	job, err := scheduler.RecurringJob("", expr)
	if err != nil {
		l.Printf("ignoring invalid scan schedule %q: %v", expr, err)
		return
	}
	sched.Add(job)
}

// watchStore triggers a full scan whenever a file backed store changes
// on disk. CDP stores have no file to watch.
func watchStore(ctx context.Context, l *log.Logger, store browser.Store, mon *monitor.Monitor) {
	fs, ok := store.(*browser.FileStore)
	if !ok {
		return
	}
	path := fs.Source().Path
	go func() {
		err := browser.Watch(ctx, l, path, func() {
			if _, err := mon.Scan(ctx, ""); err != nil {
				l.Printf("change-triggered scan failed: %v", err)
			}
		})
		if err != nil && ctx.Err() == nil {
			l.Printf("store watch stopped: %v", err)
		}
	}()
}
