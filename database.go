package ngspec

import (
	"context"
	"fmt"
	"sort"
)

// Executor runs nGQL statements against a graph database.
type Executor interface {
	// Name returns the database identifier (e.g., "gateway").
	Name() string

	// Execute runs a single statement. A statement the database rejects is
	// reported as an error wrapping ErrQueryFailed.
	Execute(ctx context.Context, gql string) (*ResultSet, error)

	// Close releases any resources held by the executor.
	Close() error
}

// ResultSet is the tabular result of one statement.
type ResultSet struct {
	Headers  []string
	Rows     []map[string]any
	TimeCost int64 // microseconds, as reported by graphd
}

// DatabaseFactory creates an Executor from the loaded configuration.
type DatabaseFactory func(cfg *Config) (Executor, error)

var databases = make(map[string]DatabaseFactory)

// RegisterDatabase registers a database factory by name.
func RegisterDatabase(name string, factory DatabaseFactory) {
	databases[name] = factory
}

// NewDatabase creates an executor by name.
func NewDatabase(name string, cfg *Config) (Executor, error) {
	factory, ok := databases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
	}

	return factory(cfg)
}

// RegisteredDatabases returns the names of all registered databases, sorted.
func RegisteredDatabases() []string {
	names := make([]string, 0, len(databases))
	for name := range databases {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
