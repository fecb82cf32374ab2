package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/cookieward/cookieward/common"
	"github.com/cookieward/cookieward/pkg/wardcli"
	"github.com/cookieward/cookieward/pkg/wardlib"
)

var watchFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "min-level, m",
		Usage: "lowest risk level to report for suspicious cookies (low, medium, high)",
	},
}

func watch(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient(ctx, "watch")
	if err != nil {
		return nil
	}
	defer client.Close()

	if _, err := client.Attach(); err != nil {
		printRuntimeErr(ctx, "watch", "attach", err)
		return nil
	}

	client.AddHandler(common.UPDATE_STATS_CHANGED, wardcli.NewStatsHandler(printStatsUpdate))
	client.AddHandler(common.UPDATE_SUSPICIOUS_COOKIE, wardcli.NewSuspiciousCookieHandler(
		wardlib.RiskLevel(ctx.String("min-level")),
		printSuspiciousUpdate,
	))

	fmt.Println("watching for cookie events, press ctrl-c to stop")
	if err := client.Listen(); err != nil {
		printRuntimeErr(ctx, "watch", "listen", err)
	}
	return nil
}

func printStatsUpdate(u *common.StatsChangedUpdate) error {
	scope := u.Website
	if scope == "" {
		scope = "all websites"
	}
	fmt.Printf("[stats] %s: total=%d suspicious=%d blocked=%d allowed=%d\n",
		scope, u.Stats.Total, u.Stats.Suspicious, u.Stats.Blocked, u.Stats.Allowed)
	return nil
}

func printSuspiciousUpdate(u *common.SuspiciousCookieUpdate) error {
	cats := make([]string, len(u.Categories))
	for i, c := range u.Categories {
		cats[i] = string(c)
	}
	fmt.Printf("[%s risk] %s on %s (score %d) carries: %s\n",
		u.RiskLevel, u.Cookie.Name, u.Cookie.Domain, u.RiskScore, strings.Join(cats, ", "))
	return nil
}
