package runner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rlch/ngspec"
)

// Statement is one nGQL statement to execute. Name is a slash separated path
// used for filtering and reporting, e.g. "tag/player".
//
// Session statements such as USE only change session state. They run
// unchanged under explain.
type Statement struct {
	Name     string
	Query    string
	ReadOnly bool
	Session  bool
}

// Runner executes statements in order through an ngspec.Executor.
type Runner struct {
	executor ngspec.Executor
	handler  Handler
	limits   FailureLimits
	explain  bool
	filter   *regexp.Regexp
	logger   *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor sets the database executor.
func WithExecutor(e ngspec.Executor) Option {
	return func(r *Runner) {
		r.executor = e
	}
}

// WithHandler sets the event handler.
func WithHandler(h Handler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithFailFast stops on the first rejected statement or transport error.
func WithFailFast(enabled bool) Option {
	return func(r *Runner) {
		if enabled {
			r.limits = FailureLimits{Rejected: 1, Errors: 1}
		}
	}
}

// WithFailureLimits stops the run once either limit is reached. It replaces
// any limits set by WithFailFast.
func WithFailureLimits(limits FailureLimits) Option {
	return func(r *Runner) {
		r.limits = limits
	}
}

// WithExplain runs read-only statements under EXPLAIN and skips the rest, so
// nothing is written to the database.
func WithExplain(enabled bool) Option {
	return func(r *Runner) {
		r.explain = enabled
	}
}

// ParseFilter compiles a statement name pattern. An empty pattern matches
// every statement and yields nil.
func ParseFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidFilter, pattern, err)
	}

	return re, nil
}

// WithFilter runs only statements whose name matches filter. A nil filter
// runs everything.
func WithFilter(filter *regexp.Regexp) Option {
	return func(r *Runner) {
		r.filter = filter
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes the statements in order and returns the results. suite names
// their origin in events. A cancelled context stops the run and is returned.
func (r *Runner) Run(ctx context.Context, suite string, stmts []Statement) (*Result, error) {
	if r.executor == nil {
		return nil, ErrNoExecutor
	}

	result := NewResult()

	var handler chain
	if r.handler != nil {
		handler = append(handler, r.handler)
	}

	if r.limits.enabled() {
		handler = append(handler, limitHandler{limits: r.limits})
	}

	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			result.Finish()
			return result, err
		}

		err := r.runStatement(ctx, stmt, suite, handler, result)

		var limitErr *LimitError
		if errors.As(err, &limitErr) {
			result.Stop(limitErr, r.countMatching(stmts[i+1:]))
			r.logger.Debug("stopping after failure",
				zap.String("statement", stmt.Name),
				zap.Int("notRun", result.NotRun),
				zap.Error(err),
			)

			break
		}

		if err != nil {
			result.Finish()
			return result, err
		}
	}

	result.Finish()

	return result, nil
}

func (r *Runner) runStatement(
	ctx context.Context,
	stmt Statement,
	suite string,
	handler Handler,
	result *Result,
) error {
	path := strings.Split(stmt.Name, "/")

	if !r.matchesFilter(path) {
		return nil
	}

	query := stmt.Query
	if r.explain && stmt.ReadOnly && !stmt.Session {
		query = "EXPLAIN " + query
	}

	start := time.Now()

	err := handler.Event(ctx, Event{
		Time:   start,
		Action: ActionRun,
		Suite:  suite,
		Path:   path,
		Query:  query,
	}, result)
	if err != nil {
		return err
	}

	if r.explain && !stmt.ReadOnly && !stmt.Session {
		return handler.Event(ctx, Event{
			Time:   time.Now(),
			Action: ActionSkip,
			Suite:  suite,
			Path:   path,
			Query:  query,
			Output: "not read-only",
		}, result)
	}

	r.logger.Debug("executing statement",
		zap.String("statement", stmt.Name),
		zap.String("gql", query),
	)

	rs, execErr := r.executor.Execute(ctx, query)
	elapsed := time.Since(start)

	if execErr != nil {
		action := ActionError
		if errors.Is(execErr, ngspec.ErrQueryFailed) {
			action = ActionFail
		}

		r.logger.Debug("statement "+string(action),
			zap.String("statement", stmt.Name),
			zap.Error(execErr),
		)

		return handler.Event(ctx, Event{
			Time:    time.Now(),
			Action:  action,
			Suite:   suite,
			Path:    path,
			Query:   query,
			Elapsed: elapsed,
			Error:   execErr,
		}, result)
	}

	event := Event{
		Time:    time.Now(),
		Action:  ActionPass,
		Suite:   suite,
		Path:    path,
		Query:   query,
		Elapsed: elapsed,
	}

	if rs != nil {
		event.Rows = len(rs.Rows)
		event.TimeCost = rs.TimeCost
	}

	return handler.Event(ctx, event, result)
}

func (r *Runner) countMatching(stmts []Statement) int {
	n := 0

	for _, stmt := range stmts {
		if r.matchesFilter(strings.Split(stmt.Name, "/")) {
			n++
		}
	}

	return n
}

// matchesFilter returns true if the statement path matches the filter pattern.
// If no filter is set, all statements match.
func (r *Runner) matchesFilter(path []string) bool {
	if r.filter == nil {
		return true
	}

	return r.filter.MatchString(strings.Join(path, "/"))
}
