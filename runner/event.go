// Package runner executes nGQL statements against a database and reports
// per-statement events.
package runner

import (
	"strings"
	"time"
)

// Action represents the type of statement event.
type Action string

// Action constants for statement events.
const (
	ActionRun    Action = "run"
	ActionPass   Action = "passed"
	ActionFail   Action = "failed"
	ActionSkip   Action = "skipped"
	ActionError  Action = "error"
	ActionOutput Action = "output"
)

// IsTerminal returns true if this action ends a statement.
func (a Action) IsTerminal() bool {
	return a == ActionPass || a == ActionFail || a == ActionSkip || a == ActionError
}

// Event represents a single event emitted during execution.
type Event struct {
	Time    time.Time     // When the event occurred
	Action  Action        // What happened
	Suite   string        // Origin of the statements, e.g. a schema file
	Path    []string      // Statement name split on "/": ["tag", "player"]
	Query   string        // The statement as sent
	Elapsed time.Duration // Time taken (for terminal events)
	Output  string        // Free text (for ActionOutput)
	Error   error         // Error details (for ActionFail/ActionError)

	Rows     int   // Result rows (for ActionPass)
	TimeCost int64 // Server side latency in microseconds (for ActionPass)
}

// PathString returns the path as a slash-separated string.
func (e Event) PathString() string {
	return strings.Join(e.Path, "/")
}

// ID returns a unique identifier: "suite::path::components".
func (e Event) ID() string {
	if e.Suite == "" {
		return strings.Join(e.Path, "::")
	}

	return e.Suite + "::" + strings.Join(e.Path, "::")
}

// Name returns the leaf statement name.
func (e Event) Name() string {
	if len(e.Path) == 0 {
		return ""
	}

	return e.Path[len(e.Path)-1]
}
