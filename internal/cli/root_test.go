package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gifterr "github.com/fargift/fargift/pkg/errors"
)

// initGlobals mutates package state, so these tests do not run in parallel.

func TestInitGlobalsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FARGIFT_HOME", home)

	require.NoError(t, initGlobals())
	t.Cleanup(cleanup)

	require.NotNil(t, cfg)
	require.NotNil(t, logger)
	require.NotNil(t, formatter)
	assert.Equal(t, home, cfg.Home)
}

func TestInitGlobalsVerboseFlag(t *testing.T) {
	t.Setenv("FARGIFT_HOME", t.TempDir())

	verbose = true
	t.Cleanup(func() { verbose = false })

	require.NoError(t, initGlobals())
	t.Cleanup(cleanup)

	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestExitCodeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "no error", err: nil, want: gifterr.ExitSuccess},
		{name: "rejection", err: gifterr.ErrUserRejected, want: gifterr.ExitRejected},
		{name: "invalid input", err: gifterr.ErrInvalidAmount, want: gifterr.ExitInput},
		{name: "not found", err: gifterr.ErrGiftNotFound, want: gifterr.ExitNotFound},
		{name: "plain error", err: assert.AnError, want: gifterr.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestRootCommandStructure(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, expected := range []string{"connect", "balance", "gift", "session", "config", "version"} {
		assert.True(t, names[expected], "missing command %q", expected)
	}
}
