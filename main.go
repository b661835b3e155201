package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/protocontext/compiler/internal/compile"
	"github.com/protocontext/compiler/internal/validate"
)

func main() {
	app := &cli.App{
		Name:  "protocontext",
		Usage: "compile content snapshots into context.txt knowledge documents",
		Commands: []*cli.Command{
			{
				Name:   "compile",
				Usage:  "Compile one document, the site index, or the whole site",
				Action: compile.CompileAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Value: "site.yaml",
						Usage: "site configuration file",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "read content from a SQLite snapshot database",
					},
					&cli.StringFlag{
						Name:  "snapshot",
						Usage: "read content from a YAML snapshot file",
					},
					&cli.StringFlag{
						Name:  "slug",
						Usage: "compile a single item by slug",
					},
					&cli.BoolFlag{
						Name:  "index",
						Usage: "compile the site index document",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "compile every item plus the site index",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "output file for --slug or --index (default stdout)",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Value: "dist",
						Usage: "output directory for --all",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: 4,
						Usage: "worker count for --all",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Load a YAML content snapshot into a SQLite database",
				Action: compile.ImportAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "snapshot",
						Required: true,
						Usage:    "YAML snapshot file to import",
					},
					&cli.StringFlag{
						Name:  "db",
						Value: "snapshot.db",
						Usage: "SQLite database to write",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate compiled context.txt files",
				ArgsUsage: "FILE [FILE...]",
				Action:    validate.ValidateAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only print errors",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
