package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

var customFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "category, c",
		Usage: "data category to allow (repeatable)",
	},
}

var errMissingCookieArgs = errors.New("cookie name and domain are required")

// cookieArgs reads the "<name> <domain>" argument pair shared by all
// permission commands.
func cookieArgs(ctx *cli.Context) (wardlib.Cookie, error) {
	name := ctx.Args().First()
	domain := ctx.Args().Get(1)
	if name == "" || domain == "" {
		return wardlib.Cookie{}, errMissingCookieArgs
	}
	return wardlib.Cookie{Name: name, Domain: domain}, nil
}

func block(ctx *cli.Context) error {
	return setPermission(ctx, "block", wardlib.ActionBlock, nil)
}

func allow(ctx *cli.Context) error {
	return setPermission(ctx, "allow", wardlib.ActionAllow, nil)
}

func custom(ctx *cli.Context) error {
	var allowed []wardlib.Category
	for _, c := range ctx.StringSlice("category") {
		allowed = append(allowed, wardlib.Category(c))
	}
	return setPermission(ctx, "custom", wardlib.ActionCustom, allowed)
}

func setPermission(ctx *cli.Context, cmd string, action wardlib.Action, allowed []wardlib.Category) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cookie, err := cookieArgs(ctx)
	if err != nil {
		return printErrWithCmdHelp(ctx, err)
	}
	client, err := getClient(ctx, cmd)
	if err != nil {
		return nil
	}
	defer client.Close()

	resp, err := client.SetPermission(cookie, action, allowed)
	if err != nil {
		printRuntimeErr(ctx, cmd, "set_permission", err)
		return nil
	}
	perm := resp.Permission
	if perm != nil && perm.Blocked {
		fmt.Printf("blocked %s on %s\n", cookie.Name, cookie.Domain)
	} else {
		fmt.Printf("stored %s permission for %s on %s\n", action, cookie.Name, cookie.Domain)
	}
	return nil
}

func unblock(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cookie, err := cookieArgs(ctx)
	if err != nil {
		return printErrWithCmdHelp(ctx, err)
	}
	client, err := getClient(ctx, "unblock")
	if err != nil {
		return nil
	}
	defer client.Close()

	if _, err := client.RemovePermission(cookie.Name, cookie.Domain); err != nil {
		printRuntimeErr(ctx, "unblock", "remove_permission", err)
		return nil
	}
	fmt.Printf("removed permission for %s on %s\n", cookie.Name, cookie.Domain)
	return nil
}
