package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

var exportFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "output, o",
		Usage: "destination path or ftp://, ftps://, sftp:// url (default: stdout)",
	},
}

func export(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient(ctx, "export")
	if err != nil {
		return nil
	}
	defer client.Close()

	website := ctx.Args().First()
	resp, err := client.CookieData(website)
	if err != nil {
		printRuntimeErr(ctx, "export", "get_cookie_data", err)
		return nil
	}
	doc := resp.Data

	out := ctx.String("output")
	switch {
	case out == "":
		data, err := doc.Marshal()
		if err != nil {
			printRuntimeErr(ctx, "export", "marshal", err)
			return nil
		}
		fmt.Println(string(data))
	case isUploadURL(out):
		data, err := doc.Marshal()
		if err != nil {
			printRuntimeErr(ctx, "export", "marshal", err)
			return nil
		}
		if err := wardlib.UploadExport(context.Background(), out, data); err != nil {
			printRuntimeErr(ctx, "export", "upload", err)
			return nil
		}
		fmt.Printf("uploaded export to %s\n", out)
	default:
		if err := wardlib.WriteExport(afero.NewOsFs(), out, doc); err != nil {
			printRuntimeErr(ctx, "export", "write", err)
			return nil
		}
		fmt.Printf("wrote export to %s\n", out)
	}
	return nil
}

func isUploadURL(s string) bool {
	return strings.HasPrefix(s, "ftp://") ||
		strings.HasPrefix(s, "ftps://") ||
		strings.HasPrefix(s, "sftp://")
}
