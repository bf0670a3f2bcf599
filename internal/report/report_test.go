package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-agent/internal/action"
	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// recordingBackend captures every placeholder map an action delivers.
type recordingBackend struct {
	received []placeholder.Map
}

func (b *recordingBackend) Trigger(_ context.Context, placeholders placeholder.Map) error {
	b.received = append(b.received, placeholders)
	return nil
}

// newRegistry builds an action registry around the provided backend.
func newRegistry(t *testing.T, backend action.Backend) action.Map {
	t.Helper()

	a, err := action.New("heartbeat-hook", time.Second, nil, backend)
	require.NoError(t, err)

	return action.Map{"heartbeat-hook": a}
}

// TestFromConfig covers absence, disablement and validation.
func TestFromConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	actions := newRegistry(t, &recordingBackend{})

	// No report section at all.
	r, err := FromConfig(ctx, nil, actions, nil)
	require.NoError(t, err)
	require.Nil(t, r)

	// Disabled report.
	r, err = FromConfig(ctx, &config.Report{Disable: true, Interval: 60}, actions, nil)
	require.NoError(t, err)
	require.Nil(t, r)

	// Zero interval.
	_, err = FromConfig(ctx, &config.Report{}, actions, nil)
	require.ErrorIs(t, err, errZeroInterval)

	// Unnamed event.
	_, err = FromConfig(ctx, &config.Report{
		Interval: 60,
		Events:   []config.ReportEvent{{Action: "heartbeat-hook"}},
	}, actions, nil)
	require.ErrorIs(t, err, errEventNameEmpty)

	// Unresolvable action.
	_, err = FromConfig(ctx, &config.Report{
		Interval: 60,
		Events:   []config.ReportEvent{{Name: "Heartbeat", Action: "missing"}},
	}, actions, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Heartbeat")
}

// TestTrigger verifies event_name injection and placeholder layering.
func TestTrigger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := &recordingBackend{}

	r, err := FromConfig(ctx, &config.Report{
		Interval: 60,
		Events: []config.ReportEvent{
			{
				Name:         "Heartbeat",
				Action:       "heartbeat-hook",
				Placeholders: map[string]string{"datacenter": "fra1"},
			},
			{Name: "Inventory", Action: "heartbeat-hook", Disable: true},
		},
	}, newRegistry(t, backend), placeholder.Map{"datacenter": "global", "agent_version": "1.0.0"})
	require.NoError(t, err)
	require.Equal(t, time.Minute, r.Interval())

	r.Trigger(ctx)

	// The disabled event never fired.
	require.Len(t, backend.received, 1)
	require.Equal(t, placeholder.Map{
		"action_name":   "heartbeat-hook",
		"event_name":    "Heartbeat",
		"datacenter":    "fra1",
		"agent_version": "1.0.0",
	}, backend.received[0])
}
