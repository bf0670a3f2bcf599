package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/alarm-agent/internal/logger"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// Backend performs the actual side effect of an action, given a fully
// resolved placeholder map. Implementations must tolerate being abandoned
// when the owning action times out: the wrapper stops waiting but does not
// confirm cancellation, so a backend call may still complete in the
// background and must not leak resources when it does.
type Backend interface {
	// Trigger performs the side effect. The context carries the per-trigger
	// deadline; backends should honor it where their transport allows.
	Trigger(ctx context.Context, placeholders placeholder.Map) error
}

// Action wraps a backend with a name, a per-trigger timeout and static
// placeholder values. A disabled action keeps the same shape but never
// reaches a backend. Actions are shared read-only between all checks.
type Action struct {
	// name identifies the action in configuration, logs and placeholders.
	name string
	// timeout bounds every backend invocation.
	timeout time.Duration
	// placeholders are merged into every trigger, caller values win.
	placeholders placeholder.Map
	// backend performs the side effect; nil when the action is disabled.
	backend Backend
}

var (
	// errEmptyName rejects unnamed actions at construction time.
	errEmptyName = errors.New("'name' cannot be empty")
	// errZeroTimeout rejects unbounded actions at construction time.
	errZeroTimeout = errors.New("'timeout' cannot be 0")
)

// New builds an enabled action around the provided backend.
func New(
	name string,
	timeout time.Duration,
	placeholders placeholder.Map,
	backend Backend,
) (*Action, error) {
	if name == "" {
		return nil, errEmptyName
	}

	if timeout <= 0 {
		return nil, errZeroTimeout
	}

	return &Action{
		name:         name,
		timeout:      timeout,
		placeholders: placeholders,
		backend:      backend,
	}, nil
}

// NewDisabled builds a disabled action: it validates and logs like an
// enabled one but only ever writes a debug line when triggered.
func NewDisabled(
	name string,
	timeout time.Duration,
	placeholders placeholder.Map,
) (*Action, error) {
	return New(name, timeout, placeholders, nil)
}

// Name returns the configured action name.
func (a *Action) Name() string {
	return a.name
}

// Trigger merges the action's placeholders into the caller's map (caller
// values win), logs the trigger, and races the backend against the
// configured timeout. On timeout the backend call is abandoned and an error
// carrying the action name and timeout is returned.
func (a *Action) Trigger(ctx context.Context, placeholders placeholder.Map) error {
	if placeholders == nil {
		placeholders = make(placeholder.Map)
	}

	placeholders["action_name"] = a.name
	placeholder.Merge(placeholders, a.placeholders)

	if a.backend == nil {
		a.logTrigger(ctx, placeholders, true)
		return nil
	}

	a.logTrigger(ctx, placeholders, false)

	triggerCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// The backend runs detached so a stuck implementation cannot stall the
	// owning check past the timeout. Its result is dropped once abandoned.
	done := make(chan error, 1)

	go func() {
		done <- a.backend.Trigger(triggerCtx, placeholders)
	}()

	select {
	case err := <-done:
		return err
	case <-triggerCtx.Done():
		return fmt.Errorf(
			"action '%s' timed out after %d seconds",
			a.name,
			uint32(a.timeout.Seconds()),
		)
	}
}

// logTrigger writes the per-trigger log line. Report-style triggers carry
// event_name; alarm-style triggers carry alarm_name, alarm_id and
// check_name, both injected by the caller before dispatch.
func (a *Action) logTrigger(ctx context.Context, placeholders placeholder.Map, disabled bool) {
	if event, ok := placeholders["event_name"]; ok {
		if disabled {
			logger.Debugf(ctx, "Disabled action '%s' triggered for report event '%s'.", a.name, event)
		} else {
			logger.Infof(ctx, "Action '%s' triggered for report event '%s'.", a.name, event)
		}

		return
	}

	if disabled {
		logger.Debugf(ctx,
			"Disabled action '%s' triggered for alarm '%s', id '%s' from check '%s'.",
			a.name, placeholders["alarm_name"], placeholders["alarm_id"], placeholders["check_name"])
	} else {
		logger.Infof(ctx,
			"Action '%s' triggered for alarm '%s', id '%s' from check '%s'.",
			a.name, placeholders["alarm_name"], placeholders["alarm_id"], placeholders["check_name"])
	}
}
