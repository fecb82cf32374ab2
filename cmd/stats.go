package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func stats(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient(ctx, "stats")
	if err != nil {
		return nil
	}
	defer client.Close()

	website := ctx.Args().First()
	resp, err := client.Stats(website)
	if err != nil {
		printRuntimeErr(ctx, "stats", "get_stats", err)
		return nil
	}
	scope := resp.Website
	if scope == "" {
		scope = "all websites"
	}
	fmt.Printf("Cookie stats for %s:\n", scope)
	fmt.Printf("  total:      %d\n", resp.Stats.Total)
	fmt.Printf("  suspicious: %d\n", resp.Stats.Suspicious)
	fmt.Printf("  blocked:    %d\n", resp.Stats.Blocked)
	fmt.Printf("  allowed:    %d\n", resp.Stats.Allowed)
	return nil
}
