package runner

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDotsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	_ = f.Format(Event{Action: ActionRun}, nil)

	if buf.Len() != 0 {
		t.Error("Non-terminal should produce no output")
	}

	_ = f.Format(Event{Action: ActionPass}, nil)
	_ = f.Format(Event{Action: ActionFail}, nil)
	_ = f.Format(Event{Action: ActionSkip}, nil)
	_ = f.Format(Event{Action: ActionError}, nil)

	if got := buf.String(); got != ".RSE" {
		t.Errorf("got %q, want %q", got, ".RSE")
	}
}

func TestDotsFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	result := NewResult()
	result.Add(Event{Action: ActionPass, Path: []string{"tag", "player"}})
	result.Add(Event{
		Action: ActionFail,
		Path:   []string{"edge", "follow"},
		Query:  "CREATE EDGE `follow` ()",
		Error:  errors.New("existed"),
	})
	result.Finish()

	_ = f.Summary(result)

	got := buf.String()

	for _, want := range []string{
		"REJECTED edge/follow",
		"query: CREATE EDGE `follow` ()",
		"error: existed",
		"FAIL 2 statements, 1 passed, 1 rejected, 0 errors, 0 skipped in ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestVerboseFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewVerboseFormatter(&buf)

	_ = f.Format(Event{Action: ActionRun, Path: []string{"lookup"}, Query: "LOOKUP ON `player` | LIMIT 100"}, nil)

	if got, want := buf.String(), "=== RUN   lookup\n    LOOKUP ON `player` | LIMIT 100\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	_ = f.Format(Event{Action: ActionPass, Path: []string{"lookup"}, Elapsed: 10 * time.Millisecond, Rows: 3}, nil)

	if got, want := buf.String(), "--- PASS: lookup (10ms, 3 rows)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	_ = f.Format(Event{Action: ActionFail, Path: []string{"lookup"}, Error: errors.New("SemanticError")}, nil)

	want := `--- REJECTED: lookup (0s)
    SemanticError
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	buf.Reset()

	_ = f.Format(Event{Action: ActionSkip, Path: []string{"tag", "t"}, Output: "not read-only"}, nil)

	if got, want := buf.String(), "--- SKIP: tag/t (not read-only)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	fixedTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	_ = f.Format(Event{
		Time:     fixedTime,
		Action:   ActionPass,
		Suite:    "schema.yaml",
		Path:     []string{"tag", "player"},
		Query:    "CREATE TAG `player` ()",
		Elapsed:  50 * time.Millisecond,
		Rows:     0,
		TimeCost: 812,
	}, nil)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got["action"] != "passed" {
		t.Errorf("action = %v, want passed", got["action"])
	}

	if got["path"] != "tag/player" {
		t.Errorf("path = %v, want tag/player", got["path"])
	}

	if got["statement"] != "player" {
		t.Errorf("statement = %v, want player", got["statement"])
	}

	if got["timeCost"] != float64(812) {
		t.Errorf("timeCost = %v, want 812", got["timeCost"])
	}
}

func TestJSONFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	result := NewResult()
	result.Add(Event{Action: ActionPass, Path: []string{"a"}})
	result.Add(Event{Action: ActionFail, Path: []string{"b"}})
	result.Finish()

	_ = f.Summary(result)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got["action"] != "summary" {
		t.Errorf("action = %v, want summary", got["action"])
	}

	total, ok := got["total"].(float64)
	if !ok || total != 2 {
		t.Errorf("total = %v, want 2", got["total"])
	}

	okVal, ok := got["ok"].(bool)
	if !ok || okVal {
		t.Errorf("ok = %v, want false", got["ok"])
	}

	if got["rejected"] != float64(1) {
		t.Errorf("rejected = %v, want 1", got["rejected"])
	}

	if _, present := got["stopped"]; present {
		t.Errorf("stopped should be omitted, got %v", got["stopped"])
	}
}

func stoppedResult() *Result {
	result := NewResult()
	result.Add(Event{Action: ActionPass, Path: []string{"use", "nba"}})
	result.Add(Event{Action: ActionError, Path: []string{"tag", "player"}, Error: errors.New("connection refused")})
	result.Stop(&LimitError{Action: ActionError, Limit: 1}, 3)
	result.Finish()

	return result
}

func TestFormatters_StoppedSummary(t *testing.T) {
	tests := []struct {
		name string
		new  func(w *bytes.Buffer) Formatter
		want []string
	}{
		{
			name: "dots",
			new:  func(w *bytes.Buffer) Formatter { return NewDotsFormatter(w) },
			want: []string{
				"ERROR tag/player",
				"runner: stopped after 1 transport error\n",
				"FAIL 2 statements, 1 passed, 0 rejected, 1 error, 0 skipped, 3 not run in ",
			},
		},
		{
			name: "verbose",
			new:  func(w *bytes.Buffer) Formatter { return NewVerboseFormatter(w) },
			want: []string{"\nFAIL\n", "  runner: stopped after 1 transport error\n", ", 3 not run\n"},
		},
		{
			name: "styled",
			new:  func(w *bytes.Buffer) Formatter { return NewStyledFormatter(w) },
			want: []string{"\nrunner: stopped after 1 transport error\nFAIL ", "3 not run in "},
		},
		{
			name: "json",
			new:  func(w *bytes.Buffer) Formatter { return NewJSONFormatter(w) },
			want: []string{`"notRun":3`, `"stopped":"runner: stopped after 1 transport error"`, `"errors":1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := tt.new(&buf).Summary(stoppedResult()); err != nil {
				t.Fatalf("Summary() error = %v", err)
			}

			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("missing %q in:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestVerboseFormatter_TransportError(t *testing.T) {
	var buf bytes.Buffer

	_ = NewVerboseFormatter(&buf).Format(Event{
		Action:  ActionError,
		Path:    []string{"lookup", "player"},
		Elapsed: time.Second,
		Error:   errors.New("EOF"),
	}, nil)

	if got, want := buf.String(), "--- ERROR: lookup/player (1s)\n    EOF\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	_ = NewVerboseFormatter(&buf).Format(Event{Action: ActionPass, Path: []string{"use"}, Rows: 1}, nil)

	if got, want := buf.String(), "--- PASS: use (0s, 1 row)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStyledFormatter_Plain(t *testing.T) {
	var buf bytes.Buffer

	f := NewStyledFormatter(&buf)

	_ = f.Format(Event{Action: ActionRun, Path: []string{"x"}}, nil)
	_ = f.Format(Event{Action: ActionPass, Path: []string{"tag", "player"}, Elapsed: 12 * time.Millisecond}, nil)
	_ = f.Format(Event{Action: ActionError, Path: []string{"tag", "team"}, Query: "CREATE TAG `team` ()", Error: errors.New("timeout")}, nil)
	_ = f.Format(Event{Action: ActionSkip, Path: []string{"index", "i"}}, nil)

	want := "✓ tag/player (12ms)\n" +
		"! tag/team (0s)\n" +
		"    CREATE TAG `team` ()\n" +
		"    timeout\n" +
		"- index/i\n"

	if got := buf.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestStyledFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewStyledFormatter(&buf)

	result := NewResult()
	result.Add(Event{Action: ActionPass, Path: []string{"a"}})
	result.Add(Event{Action: ActionSkip, Path: []string{"b"}})
	result.Finish()

	_ = f.Summary(result)

	if got := buf.String(); !strings.HasPrefix(got, "\nPASS 2 statements, 1 passed, 0 rejected, 0 errors, 1 skipped in ") {
		t.Errorf("unexpected summary %q", got)
	}

	if IsTerminal(&buf) {
		t.Error("a buffer is not a terminal")
	}
}

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer

	tests := map[string]Formatter{
		FormatVerbose: &VerboseFormatter{},
		FormatJSON:    &JSONFormatter{},
		FormatStyled:  &StyledFormatter{},
		FormatDots:    &DotsFormatter{},
		"unknown":     &DotsFormatter{},
	}

	for name, want := range tests {
		got := NewFormatter(name, &buf)
		if gotType, wantType := typeName(got), typeName(want); gotType != wantType {
			t.Errorf("NewFormatter(%q) = %s, want %s", name, gotType, wantType)
		}
	}
}

func typeName(f Formatter) string {
	switch f.(type) {
	case *VerboseFormatter:
		return "verbose"
	case *JSONFormatter:
		return "json"
	case *StyledFormatter:
		return "styled"
	case *DotsFormatter:
		return "dots"
	default:
		return "unknown"
	}
}
