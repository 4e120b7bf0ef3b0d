package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rlch/ngspec"
	"github.com/rlch/ngspec/mapping"
	"github.com/rlch/ngspec/runner"
)

// Dry run command errors.
var ErrDryRunFailed = errors.New("dry run failed")

func (a *app) dryrunCommand() *cli.Command {
	return &cli.Command{
		Name:      "dryrun",
		Usage:     "Run generated statements against the gateway",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "schema",
				Usage: "schema document whose DDL runs first",
			},
			&cli.StringFlag{
				Name:    "rows",
				Aliases: []string{"r"},
				Usage:   "YAML file of sample rows keyed by CSV path",
			},
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "EXPLAIN read-only statements and skip the rest",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "run only statements matching pattern",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "stop on the first rejected statement or transport error",
			},
			&cli.IntFlag{
				Name:  "max-rejected",
				Usage: "stop after this many statements the database rejects (0 for no limit)",
			},
			&cli.IntFlag{
				Name:  "max-errors",
				Usage: "stop after this many transport errors (0 for no limit)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "output format (dots, verbose, json, styled)",
				Value: runner.FormatStyled,
			},
		},
		Action: a.runDryRun,
	}
}

func (a *app) runDryRun(ctx context.Context, cmd *cli.Command) error {
	filter, err := runner.ParseFilter(cmd.String("run"))
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(true)
	if err != nil {
		return err
	}

	stmts, err := a.dryRunStatements(cfg, cmd)
	if err != nil {
		return err
	}

	database, err := ngspec.NewDatabase(ngspec.DatabaseGateway, cfg)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer func() { _ = database.Close() }()

	formatHandler := runner.NewFormatHandler(runner.NewFormatter(cmd.String("format"), a.stdout), a.stderr)

	r := runner.New(
		runner.WithExecutor(database),
		runner.WithHandler(formatHandler),
		runner.WithExplain(cmd.Bool("explain")),
		runner.WithFailureLimits(failureLimits(cmd)),
		runner.WithFilter(filter),
		runner.WithLogger(a.logger),
	)

	result, err := r.Run(ctx, cfg.Space, stmts)
	if err != nil {
		return fmt.Errorf("dry run: %w", err)
	}

	_ = formatHandler.Summary(result)

	if !result.Ok() {
		return ErrDryRunFailed
	}

	return nil
}

// failureLimits reads the stop limits. --fail-fast sets both to one.
func failureLimits(cmd *cli.Command) runner.FailureLimits {
	if cmd.Bool("fail-fast") {
		return runner.FailureLimits{Rejected: 1, Errors: 1}
	}

	return runner.FailureLimits{Rejected: cmd.Int("max-rejected"), Errors: cmd.Int("max-errors")}
}

// dryRunStatements orders the run: schema DDL (or a USE of the configured
// space), a LOOKUP per written tag and edge, then sample INSERTs.
func (a *app) dryRunStatements(cfg *ngspec.Config, cmd *cli.Command) ([]runner.Statement, error) {
	snapshot, err := a.loadValidSnapshot(cmd.Args().Slice(), cfg.Client.BatchSize)
	if err != nil {
		return nil, err
	}

	var schema *mapping.SchemaDocument
	if path := cmd.String("schema"); path != "" {
		schema, err = mapping.LoadSchema(path)
		if err != nil {
			return nil, err
		}
	}

	rows, err := loadSampleRows(cmd.String("rows"))
	if err != nil {
		return nil, err
	}

	inserts, err := insertStatements(snapshot, rows, cfg.SpaceVidType())
	if err != nil {
		return nil, err
	}

	stmts := schemaStatements(schema, cfg.Space)
	stmts = append(stmts, lookupStatements(snapshot)...)

	return append(stmts, inserts...), nil
}
