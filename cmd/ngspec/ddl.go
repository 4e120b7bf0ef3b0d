package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rlch/ngspec/mapping"
)

// DDL command errors.
var ErrNoSchema = errors.New("no schema document specified")

func (a *app) ddlCommand() *cli.Command {
	return &cli.Command{
		Name:      "ddl",
		Usage:     "Print the DDL for a schema document",
		ArgsUsage: "<schema.yaml>",
		Action:    a.runDDL,
	}
}

func (a *app) runDDL(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return ErrNoSchema
	}

	doc, err := mapping.LoadSchema(path)
	if err != nil {
		return err
	}

	for _, stmt := range doc.Statements() {
		fmt.Fprintf(a.stdout, "# %s\n%s;\n", stmt.Name, stmt.Query)
	}

	return nil
}
