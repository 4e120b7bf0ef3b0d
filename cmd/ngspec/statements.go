package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rlch/ngspec"
	"github.com/rlch/ngspec/dialects/ngql"
	"github.com/rlch/ngspec/mapping"
	"github.com/rlch/ngspec/runner"
)

// sampleRows are caller supplied data rows keyed by absolute CSV path.
type sampleRows map[string][][]string

// loadSampleRows reads a YAML document mapping CSV paths to rows:
//
//	players.csv:
//	  - ["p1", "Tim", "42"]
//
// Relative paths are resolved against the document's directory.
func loadSampleRows(path string) (sampleRows, error) {
	if path == "" {
		return sampleRows{}, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var raw map[string][][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing rows %s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	rows := make(sampleRows, len(raw))
	for file, r := range raw {
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}

		rows[filepath.Clean(file)] = r
	}

	return rows, nil
}

// insertStatements renders one INSERT per binding that has sample rows.
// Vertex bindings come first, then edges.
func insertStatements(s ngspec.Snapshot, rows sampleRows, vt ngspec.VidType) ([]runner.Statement, error) {
	var stmts []runner.Statement

	for _, v := range s.Vertices {
		r := rows[filepath.Clean(v.Path)]
		if len(r) == 0 {
			continue
		}

		query, err := ngql.InsertVertices(ngql.InsertVertexParams{Vid: v.Vid, Tags: v.Tags, Rows: r, VidType: vt})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.Path, err)
		}

		stmts = append(stmts, runner.Statement{Name: "insert/vertex/" + filepath.Base(v.Path), Query: query})
	}

	for _, e := range s.Edges {
		r := rows[filepath.Clean(e.Path)]
		if len(r) == 0 {
			continue
		}

		query, err := ngql.InsertEdges(ngql.InsertEdgeParams{Edge: e.Edge, Rows: r, VidType: vt})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Path, err)
		}

		stmts = append(stmts, runner.Statement{Name: "insert/edge/" + filepath.Base(e.Path), Query: query})
	}

	return stmts, nil
}

// lookupStatements renders an unfiltered LOOKUP for every tag and edge type
// the snapshot writes, each once.
func lookupStatements(s ngspec.Snapshot) []runner.Statement {
	var (
		stmts []runner.Statement
		seen  = make(map[string]bool)
	)

	add := func(kind, name string) {
		key := "lookup/" + kind + "/" + name
		if seen[key] {
			return
		}

		seen[key] = true

		// An unfiltered lookup cannot fail to render.
		query, _ := ngql.Lookup(ngql.LookupParams{Tag: name})
		stmts = append(stmts, runner.Statement{Name: key, Query: query, ReadOnly: true})
	}

	for _, v := range s.Vertices {
		for _, tag := range v.Tags {
			add("tag", tag.Name)
		}
	}

	for _, e := range s.Edges {
		add("edge", e.Edge.Type)
	}

	return stmts
}

// schemaStatements converts schema DDL into runner statements. A USE of
// space is added first when the document declares no space of its own.
func schemaStatements(doc *mapping.SchemaDocument, space string) []runner.Statement {
	var stmts []runner.Statement

	if doc == nil || doc.Space == nil {
		stmts = append(stmts, useStatement(space))
	}

	if doc == nil {
		return stmts
	}

	for _, s := range doc.Statements() {
		stmts = append(stmts, runner.Statement{
			Name:    s.Name,
			Query:   s.Query,
			Session: strings.HasPrefix(s.Name, "use/"),
		})
	}

	return stmts
}

func useStatement(space string) runner.Statement {
	return runner.Statement{Name: "use/" + space, Query: ngql.Use(space), Session: true}
}
