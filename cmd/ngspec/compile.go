package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/ngspec"
	"github.com/rlch/ngspec/importspec"
)

// Compile command errors.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func (a *app) compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compile mapping documents into an import job",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (json, yaml)",
				Value:   formatJSON,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the job to a file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "batch-size",
				Usage: "rows per batch (overrides config)",
			},
		},
		Action: a.runCompile,
	}
}

func (a *app) runCompile(_ context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	cfg, err := a.loadConfig(true)
	if err != nil {
		return err
	}

	spec, err := a.compile(cfg, cmd.Args().Slice(), cmd.String("batch-size"))
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if out == "" {
		return writeSpec(a.stdout, spec, format)
	}

	f, err := os.Create(filepath.Clean(out))
	if err != nil {
		return err
	}

	if err := writeSpec(f, spec, format); err != nil {
		_ = f.Close()
		return err
	}

	a.logger.Info("wrote import job", zap.String("path", out), zap.Int("files", len(spec.Files)))

	return f.Close()
}

// compile loads, validates and compiles the mappings named by args.
func (a *app) compile(cfg *ngspec.Config, args []string, batchSize string) (*importspec.Spec, error) {
	settings := importspec.SettingsFromConfig(cfg)
	if batchSize != "" {
		settings.BatchSize = batchSize
	}

	snapshot, err := a.loadValidSnapshot(args, settings.BatchSize)
	if err != nil {
		return nil, err
	}

	return importspec.Compile(snapshot, settings, importspec.WithLogger(a.logger)), nil
}

func writeSpec(w io.Writer, spec *importspec.Spec, format string) error {
	if format == formatYAML {
		return importspec.WriteYAML(w, spec)
	}

	return importspec.WriteJSON(w, spec)
}
