package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func (a *app) previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Print INSERT statements for sample rows",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "rows",
				Aliases:  []string{"r"},
				Usage:    "YAML file of sample rows keyed by CSV path",
				Required: true,
			},
		},
		Action: a.runPreview,
	}
}

func (a *app) runPreview(_ context.Context, cmd *cli.Command) error {
	cfg, err := a.loadConfig(false)
	if err != nil {
		return err
	}

	snapshot, err := a.loadValidSnapshot(cmd.Args().Slice(), "")
	if err != nil {
		return err
	}

	rows, err := loadSampleRows(cmd.String("rows"))
	if err != nil {
		return err
	}

	stmts, err := insertStatements(snapshot, rows, cfg.SpaceVidType())
	if err != nil {
		return err
	}

	if cfg.Space != "" {
		use := useStatement(cfg.Space)
		fmt.Fprintf(a.stdout, "%s;\n", use.Query)
	}

	for _, stmt := range stmts {
		fmt.Fprintf(a.stdout, "# %s\n%s;\n", stmt.Name, stmt.Query)
	}

	return nil
}
