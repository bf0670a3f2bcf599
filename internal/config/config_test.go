package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleConfig is a minimal but realistic agent configuration.
const sampleConfig = `
log_level: debug
placeholders:
  datacenter: fra1
actions:
  - name: stderr
    type: log
    level: error
  - name: hook
    type: webhook
    url: https://alerts.local/notify
    timeout: 3
checks:
  - name: Filesystems
    type: filesystem_usage
    interval: 60
    mountpoints: ["/", "/home"]
    alarms:
      - name: High usage
        level: 90
        cycles: 3
        recover_cycles: 2
        action: hook
report:
  events:
    - name: Heartbeat
      action: stderr
`

// TestLoad parses a full configuration and checks defaults are applied.
func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarm-agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Actions, 2)
	require.Len(t, cfg.Checks, 1)

	// Unset action timeout gets the default, explicit one is kept.
	require.Equal(t, DefaultActionTimeout, cfg.Actions[0].Timeout)
	require.Equal(t, uint32(3), cfg.Actions[1].Timeout)

	check := cfg.Checks[0]
	require.Equal(t, uint32(60), check.Interval)
	require.Equal(t, []string{"/", "/home"}, check.Mountpoints)

	alarm := check.Alarms[0]
	require.Equal(t, uint32(3), alarm.Cycles)
	require.Equal(t, uint32(2), alarm.RecoverCycles)
	require.Zero(t, alarm.RepeatCycles)

	// Report interval defaults to a week.
	require.NotNil(t, cfg.Report)
	require.Equal(t, DefaultReportInterval, cfg.Report.Interval)
}

// TestLoadMissingFile ensures a readable error for an absent file.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

// TestValidate covers structural rejection cases.
func TestValidate(t *testing.T) {
	t.Parallel()

	// No checks at all.
	err := Validate(&Config{})
	require.ErrorIs(t, err, errNoChecks)

	// Duplicate action names.
	cfg := &Config{
		Actions: []Action{
			{Name: "dup", Type: "log"},
			{Name: "dup", Type: "webhook"},
		},
		Checks: []Check{{Name: "C", Type: "memory_usage"}},
	}

	err = Validate(cfg)
	require.ErrorIs(t, err, errDuplicateActionName)

	// Defaults for checks and alarms.
	cfg = &Config{
		Checks: []Check{{
			Name:   "C",
			Type:   "memory_usage",
			Alarms: []Alarm{{Name: "A", Action: "x"}},
		}},
	}

	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultCheckInterval, cfg.Checks[0].Interval)
	require.Equal(t, DefaultAlarmCycles, cfg.Checks[0].Alarms[0].Cycles)
	require.Equal(t, DefaultAlarmRecoverCycles, cfg.Checks[0].Alarms[0].RecoverCycles)
}
