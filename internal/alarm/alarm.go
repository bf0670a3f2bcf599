package alarm

import (
	"context"
	"errors"

	"github.com/oshokin/alarm-agent/internal/action"
	"github.com/oshokin/alarm-agent/internal/logger"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// Sink evaluates one sampled item against the alarm's configured
// thresholds. The result is true when the cycle counts as bad.
type Sink[T any] interface {
	Evaluate(data T) bool
}

// Params carries everything needed to assemble one alarm instance.
type Params[T any] struct {
	// Name identifies the alarm; required.
	Name string
	// ID is the entity this instance watches; required.
	ID string
	// Action is the primary action; required.
	Action *action.Action
	// Placeholders are merged into primary triggers.
	Placeholders placeholder.Map
	// RecoverAction fires on recovery; optional.
	RecoverAction *action.Action
	// RecoverPlaceholders are merged into recover triggers.
	RecoverPlaceholders placeholder.Map
	// ErrorAction fires when sampling fails; optional.
	ErrorAction *action.Action
	// ErrorPlaceholders are merged into error triggers.
	ErrorPlaceholders placeholder.Map
	// Invert negates the sink's evaluation before it reaches the counters.
	Invert bool
	// StateMachine holds the cycle thresholds; required.
	StateMachine *StateMachine
	// Sink evaluates sampled items; required.
	Sink Sink[T]
	// LogID is the precomputed descriptive string used in all log lines.
	LogID string
}

var (
	// errAlarmNameEmpty rejects unnamed alarms at construction time.
	errAlarmNameEmpty = errors.New("'name' cannot be empty")
	// errAlarmIDEmpty rejects alarms without an entity id.
	errAlarmIDEmpty = errors.New("'id' cannot be empty")
	// errActionRequired rejects alarms without a primary action.
	errActionRequired = errors.New("'action' is required")
	// errStateMachineRequired rejects alarms without a state machine.
	errStateMachineRequired = errors.New("state machine is required")
	// errSinkRequired rejects alarms without a data sink.
	errSinkRequired = errors.New("data sink is required")
)

// Alarm binds one state machine to a data sink and up to three actions for
// a single (check, entity, configured-alarm) combination. It is created
// once at wiring time; only its state machine mutates between cycles, and
// only ever from the owning check's sequential tick.
type Alarm[T any] struct {
	name                string
	id                  string
	primary             *action.Action
	placeholders        placeholder.Map
	recoverAction       *action.Action
	recoverPlaceholders placeholder.Map
	errorAction         *action.Action
	errorPlaceholders   placeholder.Map
	invert              bool
	state               *StateMachine
	sink                Sink[T]
	logID               string
}

// New validates the parameters and assembles the alarm.
func New[T any](params Params[T]) (*Alarm[T], error) {
	switch {
	case params.Name == "":
		return nil, errAlarmNameEmpty
	case params.ID == "":
		return nil, errAlarmIDEmpty
	case params.Action == nil:
		return nil, errActionRequired
	case params.StateMachine == nil:
		return nil, errStateMachineRequired
	case params.Sink == nil:
		return nil, errSinkRequired
	}

	return &Alarm[T]{
		name:                params.Name,
		id:                  params.ID,
		primary:             params.Action,
		placeholders:        params.Placeholders,
		recoverAction:       params.RecoverAction,
		recoverPlaceholders: params.RecoverPlaceholders,
		errorAction:         params.ErrorAction,
		errorPlaceholders:   params.ErrorPlaceholders,
		invert:              params.Invert,
		state:               params.StateMachine,
		sink:                params.Sink,
		logID:               params.LogID,
	}, nil
}

// LogID returns the descriptive string used in all log lines for this
// alarm instance.
func (a *Alarm[T]) LogID() string {
	return a.logID
}

// PutData evaluates one sampled item, advances the state machine and
// dispatches whatever the resulting decisions require. A dispatch failure
// is returned for the owning check to log; it is never fatal.
func (a *Alarm[T]) PutData(ctx context.Context, data T, placeholders placeholder.Map) error {
	bad := a.sink.Evaluate(data)
	if a.invert {
		bad = !bad
	}

	a.injectIdentity(placeholders)

	var firstErr error

	// An error episode may end on the same cycle a trigger or recovery is
	// due, so a single evaluation can carry two decisions.
	for _, decision := range a.state.Evaluate(bad) {
		if err := a.dispatch(ctx, decision, placeholders); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// PutError feeds a hard sampling failure into the state machine and
// dispatches the error action when due. The caller injects the error text
// under check_error before this call.
func (a *Alarm[T]) PutError(ctx context.Context, placeholders placeholder.Map) error {
	a.injectIdentity(placeholders)

	return a.dispatch(ctx, a.state.Error(), placeholders)
}

// injectIdentity stamps the alarm's own identity into the placeholder base.
func (a *Alarm[T]) injectIdentity(placeholders placeholder.Map) {
	placeholders["alarm_name"] = a.name
	placeholders["alarm_id"] = a.id
}

// dispatch routes one decision to the bound action, if any.
func (a *Alarm[T]) dispatch(ctx context.Context, decision Decision, placeholders placeholder.Map) error {
	if decision != NoAction {
		logger.Debugf(ctx, "%s decided to %s.", a.logID, decision)
	}

	switch decision {
	case Trigger, RepeatTrigger:
		return a.triggerAction(ctx, a.primary, a.placeholders, placeholders)
	case Recover:
		if a.recoverAction == nil {
			return nil
		}

		return a.triggerAction(ctx, a.recoverAction, a.recoverPlaceholders, placeholders)
	case TriggerError, RepeatTriggerError:
		if a.errorAction == nil {
			return nil
		}

		return a.triggerAction(ctx, a.errorAction, a.errorPlaceholders, placeholders)
	case RecoverFromError, NoAction:
		return nil
	default:
		return nil
	}
}

// triggerAction layers the caller's placeholder base (which wins) over the
// alarm's own configured map and fires the action. Each dispatch gets its
// own clone so sibling decisions never observe each other's mutations.
func (a *Alarm[T]) triggerAction(
	ctx context.Context,
	act *action.Action,
	own placeholder.Map,
	base placeholder.Map,
) error {
	merged := base.Clone()
	placeholder.Merge(merged, own)

	return act.Trigger(ctx, merged)
}
