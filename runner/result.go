package runner

import (
	"strings"
	"sync"
	"time"
)

// Result accumulates statement outcomes during execution.
type Result struct {
	mu sync.RWMutex

	StartTime time.Time
	EndTime   time.Time

	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int

	// Statements indexed by path string: "tag/player"
	Statements map[string]*StatementResult

	// Order preserves insertion order for display
	Order []string

	// Stopped is set when a failure limit ended the run early. NotRun counts
	// the statements after it that would have run.
	Stopped *LimitError
	NotRun  int
}

// NewResult creates an initialized Result.
func NewResult() *Result {
	return &Result{
		StartTime:  time.Now(),
		Statements: make(map[string]*StatementResult),
	}
}

// Add records a terminal event in the result.
func (r *Result) Add(event Event) {
	if !event.Action.IsTerminal() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path := event.PathString()

	r.Statements[path] = &StatementResult{
		Path:     event.Path,
		Query:    event.Query,
		Status:   event.Action,
		Elapsed:  event.Elapsed,
		Error:    event.Error,
		Rows:     event.Rows,
		TimeCost: event.TimeCost,
	}
	r.Order = append(r.Order, path)
	r.Total++

	switch event.Action {
	case ActionPass:
		r.Passed++
	case ActionFail:
		r.Failed++
	case ActionSkip:
		r.Skipped++
	case ActionError:
		r.Errors++
	case ActionRun, ActionOutput:
		// Not terminal actions
	}
}

// AddOutput appends output to an existing statement result.
func (r *Result) AddOutput(event Event) {
	if event.Action != ActionOutput {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if sr, ok := r.Statements[event.PathString()]; ok {
		sr.Output = append(sr.Output, event.Output)
	}
}

// Stop records the limit that ended the run and how many statements it
// cut off.
func (r *Result) Stop(err *LimitError, notRun int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Stopped = err
	r.NotRun = notRun
}

// Finish marks the result as complete.
func (r *Result) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EndTime = time.Now()
}

// Elapsed returns the total execution time.
func (r *Result) Elapsed() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}

	return r.EndTime.Sub(r.StartTime)
}

// Ok returns true if no statement failed or errored.
func (r *Result) Ok() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Failed == 0 && r.Errors == 0
}

// FailedStatements returns failed and errored results in execution order.
func (r *Result) FailedStatements() []*StatementResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failed []*StatementResult

	for _, path := range r.Order {
		sr := r.Statements[path]
		if sr.Status == ActionFail || sr.Status == ActionError {
			failed = append(failed, sr)
		}
	}

	return failed
}

// StatementResult holds the outcome of a single statement.
type StatementResult struct {
	Path     []string
	Query    string
	Status   Action
	Elapsed  time.Duration
	Error    error
	Output   []string
	Rows     int
	TimeCost int64
}

// PathString returns the path as a slash-separated string.
func (sr *StatementResult) PathString() string {
	return strings.Join(sr.Path, "/")
}
