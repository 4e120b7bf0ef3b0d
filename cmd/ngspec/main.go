// Command ngspec compiles mapping documents into nebula-importer jobs and
// nGQL statements.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	// Register the gateway executor.
	_ "github.com/rlch/ngspec/databases/gateway"
)

func main() {
	cmd := newApp(os.Stdout, os.Stderr).command()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds state shared by every subcommand. Root flags are read once in
// the Before hook.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
	flags  rootFlags
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, logger: zap.NewNop()}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:  "ngspec",
		Usage: "Compile graph import mappings into import jobs and nGQL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default: nearest .ngspec.yaml)",
				Sources: cli.EnvVars("NGSPEC_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "space",
				Aliases: []string{"s"},
				Usage:   "graph space (overrides config)",
				Sources: cli.EnvVars("NGSPEC_SPACE"),
			},
			&cli.StringFlag{
				Name:    "vid-type",
				Usage:   "space VID type, INT64 or FIXED_STRING(n)",
				Sources: cli.EnvVars("NGSPEC_VID_TYPE"),
			},
			&cli.StringFlag{
				Name:    "gateway",
				Usage:   "nebula-http-gateway URL",
				Sources: cli.EnvVars("NGSPEC_GATEWAY"),
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "graphd user",
				Sources: cli.EnvVars("NGSPEC_USER"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "graphd password",
				Sources: cli.EnvVars("NGSPEC_PASSWORD"),
			},
			&cli.StringSliceFlag{
				Name:    "address",
				Usage:   "graphd address host:port (repeatable)",
				Sources: cli.EnvVars("NGSPEC_ADDRESS"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("NGSPEC_DEBUG"),
			},
		},
		Before: a.before,
		After: func(context.Context, *cli.Command) error {
			_ = a.logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			a.validateCommand(),
			a.compileCommand(),
			a.ddlCommand(),
			a.previewCommand(),
			a.dryrunCommand(),
			a.submitCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	a.flags = rootFlags{
		config:    cmd.String("config"),
		space:     cmd.String("space"),
		vidType:   cmd.String("vid-type"),
		gateway:   cmd.String("gateway"),
		user:      cmd.String("user"),
		password:  cmd.String("password"),
		addresses: cmd.StringSlice("address"),
	}
	a.logger = newLogger(a.stderr, cmd.Bool("debug"))

	return ctx, nil
}

// newLogger builds a development console logger on w.
func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))

	return zap.New(core, zap.Development())
}
