package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func explain(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cookie, err := cookieArgs(ctx)
	if err != nil {
		return printErrWithCmdHelp(ctx, err)
	}
	client, err := getClient(ctx, "explain")
	if err != nil {
		return nil
	}
	defer client.Close()

	resp, err := client.Explain(cookie)
	if err != nil {
		printRuntimeErr(ctx, "explain", "get_explanation", err)
		return nil
	}
	fmt.Println(resp.Explanation)
	return nil
}
