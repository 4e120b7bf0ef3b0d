package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rlch/ngspec/runner"
	"github.com/rlch/ngspec/validate"
)

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check mapping documents",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "batch-size",
				Usage: "batch size to check (overrides config)",
			},
		},
		Action: a.runValidate,
	}
}

func (a *app) runValidate(_ context.Context, cmd *cli.Command) error {
	cfg, err := a.loadConfig(false)
	if err != nil {
		return err
	}

	batchSize := firstNonEmpty(cmd.String("batch-size"), cfg.Client.BatchSize)

	snapshot, err := a.loadValidSnapshot(cmd.Args().Slice(), batchSize)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "ok: %d vertex files, %d edge files\n", len(snapshot.Vertices), len(snapshot.Edges))

	return nil
}

func (a *app) printViolation(verr *validate.Error) {
	styles := runner.PlainStyles()
	if runner.IsTerminal(a.stderr) {
		styles = runner.DefaultStyles(a.stderr)
	}

	fmt.Fprintf(a.stderr, "%s %s\n", styles.Fail.Render("error["+verr.Code+"]:"), verr.Message)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
