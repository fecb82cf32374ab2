// Package cmd implements the cookieward command line interface.
package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var buildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	buildArgs = bArgs
	app := cli.App{
		Name:                  "cookieward",
		HelpName:              "cookieward",
		Usage:                 "A browser cookie privacy assistant.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "cookieward <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          usageErrorCallback,
		Commands: []cli.Command{
			{
				Name:   "daemon",
				Usage:  "run the monitoring daemon",
				Action: daemon,
				Flags:  daemonFlags,
			},
			{
				Name:               "stats",
				Aliases:            []string{"s"},
				Usage:              "show cookie counters for a website",
				Action:             stats,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StatsDescription,
			},
			{
				Name:               "list",
				Aliases:            []string{"l"},
				Usage:              "list every known cookie for a website",
				Action:             list,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ListDescription,
			},
			{
				Name:               "scan",
				Usage:              "run one monitoring pass",
				Action:             scan,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ScanDescription,
			},
			{
				Name:               "block",
				Aliases:            []string{"b"},
				Usage:              "block a cookie and remove it from the browser",
				Action:             block,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        BlockDescription,
			},
			{
				Name:               "allow",
				Aliases:            []string{"a"},
				Usage:              "explicitly allow a cookie",
				Action:             allow,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        AllowDescription,
			},
			{
				Name:                   "custom",
				Usage:                  "allow only specific data categories for a cookie",
				Action:                 custom,
				OnUsageError:           usageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            CustomDescription,
				UseShortOptionHandling: true,
				Flags:                  customFlags,
			},
			{
				Name:               "unblock",
				Aliases:            []string{"u"},
				Usage:              "remove a stored cookie permission",
				Action:             unblock,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        UnblockDescription,
			},
			{
				Name:               "explain",
				Aliases:            []string{"e"},
				Usage:              "explain what a cookie likely does",
				Action:             explain,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ExplainDescription,
			},
			{
				Name:                   "export",
				Aliases:                []string{"x"},
				Usage:                  "export a website's cookie report as JSON",
				Action:                 export,
				OnUsageError:           usageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ExportDescription,
				UseShortOptionHandling: true,
				Flags:                  exportFlags,
			},
			{
				Name:               "watch",
				Aliases:            []string{"w"},
				Usage:              "stream stats changes and suspicious cookie alerts",
				Action:             watch,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        WatchDescription,
				Flags:              watchFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of cookieward",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             getVersion,
			},
		},
		Action:      stats,
		HideHelp:    true,
		HideVersion: true,
	}
	versionCmdStr = buildVersionString(app.Name, app.Version, bArgs.Date, bArgs.Commit)
	return app.Run(args)
}
