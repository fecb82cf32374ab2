package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/cookieward/cookieward/common"
)

func scan(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient(ctx, "scan")
	if err != nil {
		return nil
	}
	defer client.Close()

	website := ctx.Args().First()

	p := mpb.New(mpb.WithWidth(64), mpb.WithRefreshRate(time.Millisecond*100))
	spinner := p.New(1,
		mpb.SpinnerStyle(),
		mpb.PrependDecorators(decor.Name("scanning ")),
		mpb.AppendDecorators(decor.Elapsed(decor.ET_STYLE_GO)),
	)

	type scanResult struct {
		resp *common.ScanResponse
		err  error
	}
	done := make(chan scanResult, 1)
	go func() {
		resp, err := client.Scan(website)
		done <- scanResult{resp, err}
	}()
	res := <-done
	spinner.Increment()
	p.Wait()

	if res.err != nil {
		printRuntimeErr(ctx, "scan", "run_scan", res.err)
		return nil
	}
	fmt.Printf("Scanned %d cookies: %d suspicious, %d blocked, %d allowed\n",
		res.resp.Scanned,
		res.resp.Stats.Suspicious,
		res.resp.Stats.Blocked,
		res.resp.Stats.Allowed,
	)
	return nil
}
