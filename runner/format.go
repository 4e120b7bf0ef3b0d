package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Formatter renders statement events and results.
type Formatter interface {
	Format(event Event, result *Result) error
	Summary(result *Result) error
}

// FormatHandler is a Handler that delegates to a Formatter.
type FormatHandler struct {
	formatter Formatter
	stderr    io.Writer
}

// NewFormatHandler creates a handler that formats events.
func NewFormatHandler(f Formatter, stderr io.Writer) *FormatHandler {
	return &FormatHandler{formatter: f, stderr: stderr}
}

// Event formats the event.
func (h *FormatHandler) Event(_ context.Context, event Event, result *Result) error {
	return h.formatter.Format(event, result)
}

// Err writes to stderr.
func (h *FormatHandler) Err(text string) error {
	_, err := fmt.Fprintln(h.stderr, text)

	return err
}

// Summary renders the final summary.
func (h *FormatHandler) Summary(result *Result) error {
	return h.formatter.Summary(result)
}

// tally is a snapshot of a Result's counts, shared by the summaries.
type tally struct {
	ok       bool
	total    int
	passed   int
	rejected int
	errors   int
	skipped  int
	notRun   int
	stopped  *LimitError
	elapsed  time.Duration
}

func tallyOf(r *Result) tally {
	elapsed := r.Elapsed().Round(time.Millisecond)
	ok := r.Ok()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return tally{
		ok:       ok,
		total:    r.Total,
		passed:   r.Passed,
		rejected: r.Failed,
		errors:   r.Errors,
		skipped:  r.Skipped,
		notRun:   r.NotRun,
		stopped:  r.Stopped,
		elapsed:  elapsed,
	}
}

func (t tally) status() string {
	if t.ok {
		return "PASS"
	}

	return "FAIL"
}

// counts renders "3 statements, 1 passed, 1 rejected, 0 errors, 1 skipped".
// Statements cut off by a failure limit are appended as "n not run".
func (t tally) counts() string {
	parts := []string{
		plural(t.total, "statement"),
		strconv.Itoa(t.passed) + " passed",
		strconv.Itoa(t.rejected) + " rejected",
		plural(t.errors, "error"),
		strconv.Itoa(t.skipped) + " skipped",
	}

	if t.notRun > 0 {
		parts = append(parts, strconv.Itoa(t.notRun)+" not run")
	}

	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return strconv.Itoa(n) + " " + noun + "s"
}

func failureLabel(a Action) string {
	if a == ActionError {
		return "ERROR"
	}

	return "REJECTED"
}

// -----------------------------------------------------------------------------
// Dots Formatter
// -----------------------------------------------------------------------------

// DotsFormatter prints one character per statement: "." passed, "R" rejected
// by the database, "E" transport error, "S" skipped.
type DotsFormatter struct {
	w     io.Writer
	count int
}

// NewDotsFormatter creates a dots formatter.
func NewDotsFormatter(w io.Writer) *DotsFormatter {
	return &DotsFormatter{w: w}
}

const lineWidth = 80

var dotMarks = map[Action]string{
	ActionPass:  ".",
	ActionFail:  "R",
	ActionSkip:  "S",
	ActionError: "E",
}

// Format prints a single character per terminal event.
func (d *DotsFormatter) Format(event Event, _ *Result) error {
	mark, ok := dotMarks[event.Action]
	if !ok {
		return nil
	}

	_, err := fmt.Fprint(d.w, mark)
	d.count++

	if d.count%lineWidth == 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	return err
}

// Summary prints each failure with its query, then the counts.
func (d *DotsFormatter) Summary(result *Result) error {
	if d.count%lineWidth != 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	_, _ = fmt.Fprintln(d.w)

	for _, sr := range result.FailedStatements() {
		_, _ = fmt.Fprintf(d.w, "%s %s\n", failureLabel(sr.Status), sr.PathString())
		_, _ = fmt.Fprintf(d.w, "  query: %s\n", sr.Query)
		_, _ = fmt.Fprintf(d.w, "  error: %v\n\n", sr.Error)
	}

	t := tallyOf(result)

	if t.stopped != nil {
		_, _ = fmt.Fprintln(d.w, t.stopped.Error())
	}

	_, err := fmt.Fprintf(d.w, "%s %s in %s\n", t.status(), t.counts(), t.elapsed)

	return err
}

// -----------------------------------------------------------------------------
// Verbose Formatter
// -----------------------------------------------------------------------------

// VerboseFormatter prints every statement, its query and its outcome.
type VerboseFormatter struct {
	w io.Writer
}

// NewVerboseFormatter creates a verbose formatter.
func NewVerboseFormatter(w io.Writer) *VerboseFormatter {
	return &VerboseFormatter{w: w}
}

// Format prints each event as it occurs.
func (v *VerboseFormatter) Format(event Event, _ *Result) error {
	var err error

	switch event.Action {
	case ActionRun:
		_, err = fmt.Fprintf(v.w, "=== RUN   %s\n    %s\n", event.PathString(), event.Query)
	case ActionPass:
		_, err = fmt.Fprintf(v.w, "--- PASS: %s (%s, %s)\n",
			event.PathString(), event.Elapsed, plural(event.Rows, "row"))
	case ActionFail, ActionError:
		_, err = fmt.Fprintf(v.w, "--- %s: %s (%s)\n    %v\n",
			failureLabel(event.Action), event.PathString(), event.Elapsed, event.Error)
	case ActionSkip:
		line := "--- SKIP: " + event.PathString()
		if event.Output != "" {
			line += " (" + event.Output + ")"
		}

		_, err = fmt.Fprintln(v.w, line)
	case ActionOutput:
		_, err = fmt.Fprintf(v.w, "    %s\n", event.Output)
	}

	return err
}

// Summary prints the final results.
func (v *VerboseFormatter) Summary(result *Result) error {
	t := tallyOf(result)

	_, _ = fmt.Fprintf(v.w, "\n%s\n  %s\n", t.status(), t.counts())

	if t.stopped != nil {
		_, _ = fmt.Fprintf(v.w, "  %s\n", t.stopped.Error())
	}

	_, err := fmt.Fprintf(v.w, "  elapsed: %s\n", t.elapsed)

	return err
}

// -----------------------------------------------------------------------------
// JSON Formatter
// -----------------------------------------------------------------------------

// JSONFormatter outputs newline-delimited JSON events.
type JSONFormatter struct {
	enc *json.Encoder
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{enc: json.NewEncoder(w)}
}

type jsonEvent struct {
	Time      string  `json:"time"`
	Action    string  `json:"action"`
	Suite     string  `json:"suite,omitempty"`
	Path      string  `json:"path"`
	Statement string  `json:"statement,omitempty"`
	Query     string  `json:"query,omitempty"`
	Elapsed   float64 `json:"elapsed,omitempty"`
	Output    string  `json:"output,omitempty"`
	Error     string  `json:"error,omitempty"`
	Rows      int     `json:"rows,omitempty"`
	TimeCost  int64   `json:"timeCost,omitempty"`
}

// Format outputs a JSON event.
func (j *JSONFormatter) Format(event Event, _ *Result) error {
	je := jsonEvent{
		Time:      event.Time.Format(time.RFC3339Nano),
		Action:    string(event.Action),
		Suite:     event.Suite,
		Path:      event.PathString(),
		Statement: event.Name(),
		Query:     event.Query,
		Output:    event.Output,
	}

	if event.Action.IsTerminal() {
		je.Elapsed = event.Elapsed.Seconds()
	}

	if event.Error != nil {
		je.Error = event.Error.Error()
	}

	if event.Action == ActionPass {
		je.Rows = event.Rows
		je.TimeCost = event.TimeCost
	}

	return j.enc.Encode(je)
}

type jsonSummary struct {
	Action   string  `json:"action"`
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Rejected int     `json:"rejected"`
	Errors   int     `json:"errors"`
	Skipped  int     `json:"skipped"`
	NotRun   int     `json:"notRun,omitempty"`
	Stopped  string  `json:"stopped,omitempty"`
	Elapsed  float64 `json:"elapsed"`
	Ok       bool    `json:"ok"`
}

// Summary outputs the final JSON summary.
func (j *JSONFormatter) Summary(result *Result) error {
	t := tallyOf(result)

	s := jsonSummary{
		Action:   "summary",
		Total:    t.total,
		Passed:   t.passed,
		Rejected: t.rejected,
		Errors:   t.errors,
		Skipped:  t.skipped,
		NotRun:   t.notRun,
		Elapsed:  t.elapsed.Seconds(),
		Ok:       t.ok,
	}

	if t.stopped != nil {
		s.Stopped = t.stopped.Error()
	}

	return j.enc.Encode(s)
}

// Formatter names accepted by NewFormatter.
const (
	FormatDots    = "dots"
	FormatVerbose = "verbose"
	FormatJSON    = "json"
	FormatStyled  = "styled"
)

// NewFormatter creates a formatter by name. Unknown names get dots.
func NewFormatter(name string, w io.Writer) Formatter {
	switch name {
	case FormatVerbose:
		return NewVerboseFormatter(w)
	case FormatJSON:
		return NewJSONFormatter(w)
	case FormatStyled:
		return NewStyledFormatter(w)
	default:
		return NewDotsFormatter(w)
	}
}
