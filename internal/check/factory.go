package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/alarm-agent/internal/action"
	"github.com/oshokin/alarm-agent/internal/alarm"
	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/logger"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// errUnknownCheckType is wrapped with the unsupported type string.
var errUnknownCheckType = errors.New("unknown check type")

// FromConfig resolves the configured data source type and assembles the
// check with one alarm group per entity id. There is no partial-success
// mode: any construction error fails the whole check, wrapped with its
// name for context.
func FromConfig(
	ctx context.Context,
	cfg *config.Check,
	actions action.Map,
	globals placeholder.Map,
) (Check, error) {
	var (
		c   Check
		err error
	)

	// NOTE Add a mapping here when implementing a new data source.
	switch cfg.Type {
	case "filesystem_usage":
		c, err = buildTyped(ctx, cfg, actions, globals, newFilesystemUsage, newLevelSink)
	case "memory_usage":
		c, err = buildTyped(ctx, cfg, actions, globals, newMemoryUsage, newLevelSink)
	case "process_running":
		c, err = buildTyped(ctx, cfg, actions, globals, newProcessRunning, newRunningSink)
	default:
		err = fmt.Errorf("%w: '%s'", errUnknownCheckType, cfg.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create check '%s' from config: %w", cfg.Name, err)
	}

	return c, nil
}

// buildTyped pairs one source type with its sink type. The pairing stays
// internal to the factory; the rest of the agent only sees Check.
func buildTyped[T any, S Source[T]](
	ctx context.Context,
	cfg *config.Check,
	actions action.Map,
	globals placeholder.Map,
	newSource func(*config.Check) (S, error),
	newSink func(*config.Alarm) (alarm.Sink[T], error),
) (Check, error) {
	source, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	ids := source.IDs()
	groups := make([][]*alarm.Alarm[T], 0, len(ids))

	for i, id := range ids {
		group := make([]*alarm.Alarm[T], 0, len(cfg.Alarms))

		for j := range cfg.Alarms {
			alarmCfg := &cfg.Alarms[j]
			logID := fmt.Sprintf("Alarm '%s', id '%s' from check '%s'", alarmCfg.Name, id, cfg.Name)

			if alarmCfg.Disable {
				logger.Infof(ctx, "%s is disabled.", logID)
				continue
			}

			if i == 0 {
				logger.Infof(ctx,
					"%s will be triggered after %d bad cycles and recover after %d good cycles.",
					logID, alarmCfg.Cycles, alarmCfg.RecoverCycles)
			}

			entityAlarm, err := buildAlarm(alarmCfg, id, actions, newSink, logID)
			if err != nil {
				return nil, err
			}

			group = append(group, entityAlarm)
		}

		groups = append(groups, group)
	}

	return newBase(cfg.Interval, cfg.Name, cfg.Placeholders, globals, Source[T](source), groups)
}

// buildAlarm assembles one alarm instance for one entity id.
func buildAlarm[T any](
	cfg *config.Alarm,
	id string,
	actions action.Map,
	newSink func(*config.Alarm) (alarm.Sink[T], error),
	logID string,
) (*alarm.Alarm[T], error) {
	sink, err := newSink(cfg)
	if err != nil {
		return nil, err
	}

	machine, err := alarm.NewStateMachine(
		cfg.Cycles, cfg.RepeatCycles, cfg.RecoverCycles, cfg.ErrorRepeatCycles)
	if err != nil {
		return nil, err
	}

	primary, err := actions.Get(cfg.Action)
	if err != nil {
		return nil, err
	}

	var recoverAction *action.Action
	if cfg.RecoverAction != "" {
		if recoverAction, err = actions.Get(cfg.RecoverAction); err != nil {
			return nil, err
		}
	}

	var errorAction *action.Action
	if cfg.ErrorAction != "" {
		if errorAction, err = actions.Get(cfg.ErrorAction); err != nil {
			return nil, err
		}
	}

	return alarm.New(alarm.Params[T]{
		Name:                cfg.Name,
		ID:                  id,
		Action:              primary,
		Placeholders:        cfg.Placeholders,
		RecoverAction:       recoverAction,
		RecoverPlaceholders: cfg.RecoverPlaceholders,
		ErrorAction:         errorAction,
		ErrorPlaceholders:   cfg.ErrorPlaceholders,
		Invert:              cfg.Invert,
		StateMachine:        machine,
		Sink:                sink,
		LogID:               logID,
	})
}
