package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/ngspec/databases/gateway"
)

// Submit command errors.
var ErrImportFailed = errors.New("import task did not finish")

func (a *app) submitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Compile mapping documents and submit the import job",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "batch-size",
				Usage: "rows per batch (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "wait",
				Aliases: []string{"w"},
				Usage:   "poll the task until it stops processing",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "poll interval with --wait",
				Value: 2 * time.Second,
			},
		},
		Action: a.runSubmit,
	}
}

func (a *app) runSubmit(ctx context.Context, cmd *cli.Command) error {
	cfg, err := a.loadConfig(true)
	if err != nil {
		return err
	}

	if cfg.Gateway == nil {
		return gateway.ErrNoGateway
	}

	spec, err := a.compile(cfg, cmd.Args().Slice(), cmd.String("batch-size"))
	if err != nil {
		return err
	}

	client := gateway.New(cfg.Gateway.URL, cfg.Connection, gateway.WithLogger(a.logger))
	defer func() { _ = client.Close() }()

	taskID, err := client.SubmitImport(ctx, spec)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "task %s submitted\n", taskID)

	if !cmd.Bool("wait") {
		return nil
	}

	status, err := a.waitForTask(ctx, client, taskID, cmd.Duration("interval"))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "task %s %s %s\n", status.TaskID, status.TaskStatus, status.TaskMessage)

	if status.TaskStatus != gateway.StatusFinished {
		return fmt.Errorf("%w: %s", ErrImportFailed, status.TaskStatus)
	}

	return nil
}

func (a *app) waitForTask(
	ctx context.Context,
	client *gateway.Client,
	taskID string,
	interval time.Duration,
) (*gateway.TaskStatus, error) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := client.ImportStatus(ctx, taskID)
		if err != nil {
			return nil, err
		}

		if status.Done() {
			return status, nil
		}

		a.logger.Debug("import task processing", zap.String("task", taskID), zap.String("message", status.TaskMessage))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
