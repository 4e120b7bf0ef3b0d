package runner

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds the lipgloss styles used by StyledFormatter.
type Styles struct {
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Skip    lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Summary lipgloss.Style
}

// DefaultStyles returns the colour styles for a terminal writer.
func DefaultStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)

	return Styles{
		Pass:    r.NewStyle().Foreground(lipgloss.Color("2")),
		Fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Skip:    r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		Dim:     r.NewStyle().Faint(true),
		Summary: r.NewStyle().Bold(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()

	return Styles{Pass: plain, Fail: plain, Skip: plain, Error: plain, Dim: plain, Summary: plain}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// StyledFormatter prints one line per statement with a status mark. Colours
// are used only when writing to a terminal.
type StyledFormatter struct {
	w      io.Writer
	styles Styles
}

// NewStyledFormatter creates a styled formatter.
func NewStyledFormatter(w io.Writer) *StyledFormatter {
	styles := PlainStyles()
	if IsTerminal(w) {
		styles = DefaultStyles(w)
	}

	return &StyledFormatter{w: w, styles: styles}
}

// Format prints terminal events.
func (s *StyledFormatter) Format(event Event, _ *Result) error {
	elapsed := s.styles.Dim.Render("(" + event.Elapsed.Round(time.Millisecond).String() + ")")

	var err error

	switch event.Action {
	case ActionPass:
		_, err = fmt.Fprintf(s.w, "%s %s %s\n", s.styles.Pass.Render("✓"), event.PathString(), elapsed)
	case ActionFail:
		_, err = fmt.Fprintf(s.w, "%s %s %s\n", s.styles.Fail.Render("✗"), event.PathString(), elapsed)
		s.detail(event)
	case ActionError:
		_, err = fmt.Fprintf(s.w, "%s %s %s\n", s.styles.Error.Render("!"), event.PathString(), elapsed)
		s.detail(event)
	case ActionSkip:
		line := s.styles.Skip.Render("-") + " " + event.PathString()
		if event.Output != "" {
			line += " " + s.styles.Dim.Render("("+event.Output+")")
		}

		_, err = fmt.Fprintln(s.w, line)
	case ActionRun, ActionOutput:
	}

	return err
}

func (s *StyledFormatter) detail(event Event) {
	_, _ = fmt.Fprintf(s.w, "    %s\n", s.styles.Dim.Render(event.Query))
	_, _ = fmt.Fprintf(s.w, "    %v\n", event.Error)
}

// Summary prints the final counts, and the limit that stopped the run.
func (s *StyledFormatter) Summary(result *Result) error {
	t := tallyOf(result)

	status := s.styles.Pass.Render(t.status())
	if !t.ok {
		status = s.styles.Fail.Render(t.status())
	}

	if t.stopped != nil {
		_, _ = fmt.Fprintf(s.w, "\n%s", s.styles.Error.Render(t.stopped.Error()))
	}

	_, err := fmt.Fprintf(s.w, "\n%s %s\n", status, s.styles.Summary.Render(t.counts()+" in "+t.elapsed.String()))

	return err
}
