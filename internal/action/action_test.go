package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// fakeBackend records every received placeholder map and optionally sleeps
// or fails, standing in for a real side-effecting backend.
type fakeBackend struct {
	delay    time.Duration
	err      error
	received []placeholder.Map
}

func (b *fakeBackend) Trigger(_ context.Context, placeholders placeholder.Map) error {
	// Deliberately ignores the context so the wrapper's own timeout
	// handling is what the tests observe.
	if b.delay > 0 {
		time.Sleep(b.delay)
	}

	b.received = append(b.received, placeholders)

	return b.err
}

// TestNewValidation rejects empty names and zero timeouts.
func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New("", time.Second, nil, &fakeBackend{})
	require.ErrorIs(t, err, errEmptyName)

	_, err = New("Name", 0, nil, &fakeBackend{})
	require.ErrorIs(t, err, errZeroTimeout)
}

// TestTriggerPlaceholders verifies the exact merged map the backend sees:
// action_name plus static placeholders layered under caller values.
func TestTriggerPlaceholders(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	a, err := New("Name", time.Second, placeholder.Map{"Hello": "World"}, backend)
	require.NoError(t, err)

	err = a.Trigger(context.Background(), placeholder.Map{"Foo": "Bar"})
	require.NoError(t, err)

	require.Len(t, backend.received, 1)
	require.Equal(t, placeholder.Map{
		"action_name": "Name",
		"Hello":       "World",
		"Foo":         "Bar",
	}, backend.received[0])
}

// TestTriggerCallerWins ensures caller-supplied values survive the merge.
func TestTriggerCallerWins(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	a, err := New("Name", time.Second, placeholder.Map{"Hello": "World"}, backend)
	require.NoError(t, err)

	err = a.Trigger(context.Background(), placeholder.Map{"Hello": "Caller"})
	require.NoError(t, err)

	require.Equal(t, "Caller", backend.received[0]["Hello"])
}

// TestTriggerTimeout verifies a slow backend produces a timeout error
// carrying the action name and the timeout in seconds.
func TestTriggerTimeout(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{delay: 2 * time.Second}
	a, err := New("Slowpoke", time.Second, nil, backend)
	require.NoError(t, err)

	start := time.Now()
	err = a.Trigger(context.Background(), placeholder.Map{})

	require.Error(t, err)
	require.Contains(t, err.Error(), "Slowpoke")
	require.Contains(t, err.Error(), "1 seconds")
	require.Less(t, time.Since(start), 2*time.Second)
}

// TestTriggerFastBackend verifies a prompt backend result passes through.
func TestTriggerFastBackend(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("backend broke")
	a, err := New("Name", time.Second, nil, &fakeBackend{err: wantErr})
	require.NoError(t, err)

	err = a.Trigger(context.Background(), placeholder.Map{})
	require.ErrorIs(t, err, wantErr)

	a, err = New("Name", time.Second, nil, &fakeBackend{})
	require.NoError(t, err)
	require.NoError(t, a.Trigger(context.Background(), placeholder.Map{}))
}

// TestDisabledAction ensures a disabled action never reaches a backend and
// always reports success.
func TestDisabledAction(t *testing.T) {
	t.Parallel()

	a, err := NewDisabled("Name", time.Second, placeholder.Map{"Hello": "World"})
	require.NoError(t, err)

	for _, placeholders := range []placeholder.Map{
		nil,
		{},
		{"event_name": "Heartbeat"},
		{"alarm_name": "A", "alarm_id": "/", "check_name": "FS"},
	} {
		require.NoError(t, a.Trigger(context.Background(), placeholders))
	}
}

// TestFromConfig covers registry construction and lookups.
func TestFromConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	m, err := FromConfig(ctx, []config.Action{
		{Name: "stderr", Type: "log", Timeout: 1, Level: "error"},
		{Name: "silent", Type: "webhook", Timeout: 1, Disable: true},
		{Name: "hook", Type: "webhook", Timeout: 1, URL: "https://alerts.local/notify"},
	})
	require.NoError(t, err)
	require.Len(t, m, 3)

	a, err := m.Get("stderr")
	require.NoError(t, err)
	require.Equal(t, "stderr", a.Name())

	_, err = m.Get("")
	require.ErrorIs(t, err, errEmptyName)

	_, err = m.Get("missing")
	require.ErrorIs(t, err, errNotFound)

	// The disabled action never needed a URL and still triggers fine.
	silent, err := m.Get("silent")
	require.NoError(t, err)
	require.NoError(t, silent.Trigger(ctx, placeholder.Map{}))
}

// TestFromConfigErrors covers construction failures.
func TestFromConfigErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Unknown type.
	_, err := FromConfig(ctx, []config.Action{{Name: "x", Type: "carrier-pigeon", Timeout: 1}})
	require.ErrorIs(t, err, errUnknownType)

	// Webhook without URL.
	_, err = FromConfig(ctx, []config.Action{{Name: "x", Type: "webhook", Timeout: 1}})
	require.ErrorIs(t, err, errWebhookURLRequired)

	// Zero timeout is rejected by the wrapper.
	_, err = FromConfig(ctx, []config.Action{{Name: "x", Type: "log"}})
	require.ErrorIs(t, err, errZeroTimeout)

	// Bad log level.
	_, err = FromConfig(ctx, []config.Action{{Name: "x", Type: "log", Timeout: 1, Level: "loud"}})
	require.ErrorIs(t, err, errBadLogLevel)
}
