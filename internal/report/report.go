package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/alarm-agent/internal/action"
	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/logger"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

var (
	// errZeroInterval rejects reports without an interval.
	errZeroInterval = errors.New("'interval' cannot be 0")
	// errEventNameEmpty rejects unnamed report events.
	errEventNameEmpty = errors.New("'name' cannot be empty")
)

// event is one action triggered per report tick.
type event struct {
	name         string
	action       *action.Action
	placeholders placeholder.Map
}

// Report periodically triggers its events so operators can tell a silent
// agent from a dead one. Event triggers carry event_name instead of the
// alarm identity, which switches the action log line to its report form.
type Report struct {
	interval uint32
	globals  placeholder.Map
	events   []event
}

// FromConfig assembles the report, resolving event actions from the
// registry. A nil or disabled configuration yields a nil report, which the
// scheduler treats as "no reporting".
func FromConfig(
	ctx context.Context,
	cfg *config.Report,
	actions action.Map,
	globals placeholder.Map,
) (*Report, error) {
	if cfg == nil || cfg.Disable {
		return nil, nil //nolint:nilnil // Absent report is not an error.
	}

	if cfg.Interval == 0 {
		return nil, errZeroInterval
	}

	events := make([]event, 0, len(cfg.Events))

	for i := range cfg.Events {
		eventCfg := &cfg.Events[i]
		if eventCfg.Name == "" {
			return nil, errEventNameEmpty
		}

		if eventCfg.Disable {
			logger.Infof(ctx, "Report event '%s' is disabled.", eventCfg.Name)
			continue
		}

		act, err := actions.Get(eventCfg.Action)
		if err != nil {
			return nil, fmt.Errorf("create report event '%s': %w", eventCfg.Name, err)
		}

		events = append(events, event{
			name:         eventCfg.Name,
			action:       act,
			placeholders: eventCfg.Placeholders,
		})
	}

	return &Report{
		interval: cfg.Interval,
		globals:  globals,
		events:   events,
	}, nil
}

// Interval returns the reporting period.
func (r *Report) Interval() time.Duration {
	return time.Duration(r.interval) * time.Second
}

// Trigger fires every event once. Failures are logged per event and never
// abort the remaining events.
func (r *Report) Trigger(ctx context.Context) {
	for i := range r.events {
		ev := &r.events[i]

		placeholders := ev.placeholders.Clone()
		placeholder.Merge(placeholders, r.globals)
		placeholders["event_name"] = ev.name

		if err := ev.action.Trigger(ctx, placeholders); err != nil {
			logger.Errorf(ctx, "Report event '%s' had an error: %s", ev.name, err)
		}
	}
}
