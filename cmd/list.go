package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient(ctx, "list")
	if err != nil {
		return nil
	}
	defer client.Close()

	website := ctx.Args().First()
	resp, err := client.CookieData(website)
	if err != nil {
		printRuntimeErr(ctx, "list", "get_cookie_data", err)
		return nil
	}
	if resp.Data == nil || len(resp.Data.Cookies) == 0 {
		fmt.Println("cookieward: no cookies found")
		return nil
	}

	txt := "Here are your cookies:"
	txt += "\n\n--------------------------------------------------------------------------------------"
	txt += "\n|         Name         |        Domain        |      Status       | Risk |  Categories  |"
	txt += "\n|----------------------|----------------------|-------------------|------|--------------|"
	for _, e := range resp.Data.Cookies {
		txt += fmt.Sprintf("\n| %s | %s | %s | %s | %s |",
			beaut(clip(e.Cookie.Name, 20), 20),
			beaut(clip(e.Cookie.Domain, 20), 20),
			beaut(string(e.Status), 17),
			beaut(string(e.Level), 4),
			beaut(clip(joinCategories(e.Categories), 12), 12),
		)
	}
	txt += "\n--------------------------------------------------------------------------------------"
	fmt.Println(txt)
	return nil
}

func joinCategories(cats []wardlib.Category) string {
	if len(cats) == 0 {
		return "-"
	}
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func beaut(s string, n int) (b string) {
	x := n - len(s)
	if x < 0 {
		x = 0
	}
	x1 := x / 2
	w := strings.Repeat(" ", x1)
	b = w + s + w
	if x%2 != 0 {
		b += " "
	}
	return
}
