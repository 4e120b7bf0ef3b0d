package ngspec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExecutor struct{ space string }

func (s *stubExecutor) Name() string { return "stub" }

func (s *stubExecutor) Execute(context.Context, string) (*ResultSet, error) {
	return &ResultSet{}, nil
}

func (s *stubExecutor) Close() error { return nil }

func TestRegisterDatabase(t *testing.T) {
	RegisterDatabase("stub", func(cfg *Config) (Executor, error) {
		return &stubExecutor{space: cfg.Space}, nil
	})

	exec, err := NewDatabase("stub", &Config{Space: "s"})
	require.NoError(t, err)
	assert.Equal(t, "stub", exec.Name())
	assert.Equal(t, "s", exec.(*stubExecutor).space)
	assert.Contains(t, RegisteredDatabases(), "stub")

	_, err = NewDatabase("missing", &Config{})
	assert.ErrorIs(t, err, ErrUnknownDatabase)
}
