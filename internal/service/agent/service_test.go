package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// agentConfig wires one fast check against a disabled action.
const agentConfig = `
actions:
  - name: silent
    type: log
    disable: true
checks:
  - name: Memory
    type: memory_usage
    interval: 1
    alarms:
      - name: High usage
        level: 99
        action: silent
`

// TestRunMissingConfig surfaces configuration load failures.
func TestRunMissingConfig(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(t.TempDir(), "nope.yaml"),
	})
	require.Error(t, err)
}

// TestRunStopsOnCancel wires a real config and verifies the scheduling
// loops exit when the context is canceled.
func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarm-agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(agentConfig), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	err := Run(ctx, &Options{ConfigPath: path})
	require.NoError(t, err)
}

// TestRunNothingEnabled rejects a config whose only check is disabled.
func TestRunNothingEnabled(t *testing.T) {
	t.Parallel()

	const disabledConfig = `
checks:
  - name: Memory
    type: memory_usage
    disable: true
`

	path := filepath.Join(t.TempDir(), "alarm-agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(disabledConfig), 0o600))

	err := Run(context.Background(), &Options{ConfigPath: path})
	require.ErrorIs(t, err, errNothingToRun)
}
