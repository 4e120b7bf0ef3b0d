// Package ngql builds nGQL statements.
//
// Every builder is a pure function from a typed parameter struct to exactly one
// statement, with no trailing semicolon. Builders that accept user-entered
// filter values return an error for operators or types they cannot render
// and never produce partial text.
package ngql

import (
	"strings"

	"github.com/rlch/ngspec"
)

// Kind selects between tag and edge statements.
type Kind string

// Schema kinds.
const (
	Tag  Kind = ngspec.KindTag
	Edge Kind = ngspec.KindEdge
)

// Join joins statements into one script.
func Join(stmts ...string) string {
	return strings.Join(stmts, ";\n")
}

// Val returns a pointer to s, for optional filter values and defaults.
func Val(s string) *string {
	return &s
}

// Use renders USE <space>.
func Use(space string) string {
	return "USE " + ngspec.QuoteIdent(space)
}
