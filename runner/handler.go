package runner

import "context"

// Handler receives statement events during execution.
type Handler interface {
	// Event is called for each event after it is recorded in result.
	Event(ctx context.Context, event Event, result *Result) error

	// Err is called for errors outside any statement.
	Err(text string) error
}

// chain records each event into the result, then hands it to every handler
// in order. The first handler error ends dispatch.
type chain []Handler

func (c chain) Event(ctx context.Context, event Event, result *Result) error {
	if event.Action == ActionOutput {
		result.AddOutput(event)
	} else {
		result.Add(event)
	}

	for _, h := range c {
		if err := h.Event(ctx, event, result); err != nil {
			return err
		}
	}

	return nil
}

func (c chain) Err(text string) error {
	for _, h := range c {
		if err := h.Err(text); err != nil {
			return err
		}
	}

	return nil
}

// FailureLimits bounds a run. Rejected counts statements the database
// refused (ActionFail); Errors counts statements that never got an answer
// (ActionError). Zero leaves that kind unbounded.
type FailureLimits struct {
	Rejected int
	Errors   int
}

func (l FailureLimits) enabled() bool {
	return l.Rejected > 0 || l.Errors > 0
}

// LimitError reports which limit stopped a run. It matches ErrMaxFailures.
type LimitError struct {
	Action Action
	Limit  int
}

func (e *LimitError) Error() string {
	kind := "rejected statement"
	if e.Action == ActionError {
		kind = "transport error"
	}

	return "runner: stopped after " + plural(e.Limit, kind)
}

func (e *LimitError) Unwrap() error {
	return ErrMaxFailures
}

// limitHandler stops the run once either FailureLimits bound is reached. A
// skipped statement under explain never counts against either bound.
type limitHandler struct {
	limits FailureLimits
}

func (h limitHandler) Event(_ context.Context, event Event, result *Result) error {
	switch event.Action {
	case ActionFail:
		if h.limits.Rejected > 0 && result.Failed >= h.limits.Rejected {
			return &LimitError{Action: ActionFail, Limit: h.limits.Rejected}
		}
	case ActionError:
		if h.limits.Errors > 0 && result.Errors >= h.limits.Errors {
			return &LimitError{Action: ActionError, Limit: h.limits.Errors}
		}
	case ActionRun, ActionPass, ActionSkip, ActionOutput:
	}

	return nil
}

func (h limitHandler) Err(string) error {
	return nil
}
