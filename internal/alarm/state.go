package alarm

import "errors"

// Decision is the state machine's verdict for one cycle.
type Decision uint8

const (
	// NoAction means nothing is dispatched this cycle.
	NoAction Decision = iota
	// Trigger fires the primary action for the first time.
	Trigger
	// RepeatTrigger re-fires the primary action while still alarmed.
	RepeatTrigger
	// Recover fires the recover action and returns to the normal state.
	Recover
	// TriggerError fires the error action on the first sampling failure.
	TriggerError
	// RepeatTriggerError re-fires the error action while still erroring.
	RepeatTriggerError
	// RecoverFromError marks the end of an error episode; the ordinary
	// good/bad tracking resumes from where it left off.
	RecoverFromError
)

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case NoAction:
		return "no action"
	case Trigger:
		return "trigger"
	case RepeatTrigger:
		return "repeat trigger"
	case Recover:
		return "recover"
	case TriggerError:
		return "trigger error"
	case RepeatTriggerError:
		return "repeat trigger error"
	case RecoverFromError:
		return "recover from error"
	default:
		return "unknown"
	}
}

// errZeroCycles rejects a trigger threshold of zero at construction time.
var errZeroCycles = errors.New("'cycles' cannot be 0")

// StateMachine tracks one alarm's position between normal, alarmed and
// erroring. It only ever observes logical cycles, never wall-clock time.
//
// The error track overlays the good/bad track: sampling failures leave the
// bad/good streaks untouched, so an alarm episode survives an error episode
// and resumes once data is available again.
type StateMachine struct {
	// cycles is the consecutive-bad threshold for the first trigger.
	cycles uint32
	// repeatCycles throttles re-triggering while alarmed; 0 never repeats.
	repeatCycles uint32
	// recoverCycles is the consecutive-good threshold for recovery;
	// 0 recovers on the first good cycle.
	recoverCycles uint32
	// errorRepeatCycles throttles repeated error triggers; 0 never repeats.
	errorRepeatCycles uint32

	// bad counts consecutive bad cycles (since the last trigger once alarmed).
	bad uint32
	// good counts consecutive good cycles while alarmed.
	good uint32
	// errs counts consecutive errors since the last error trigger.
	errs uint32
	// alarmed is true between Trigger and Recover.
	alarmed bool
	// erroring is true between TriggerError and RecoverFromError.
	erroring bool
}

// NewStateMachine validates the configured thresholds.
func NewStateMachine(cycles, repeatCycles, recoverCycles, errorRepeatCycles uint32) (*StateMachine, error) {
	if cycles == 0 {
		return nil, errZeroCycles
	}

	return &StateMachine{
		cycles:            cycles,
		repeatCycles:      repeatCycles,
		recoverCycles:     recoverCycles,
		errorRepeatCycles: errorRepeatCycles,
	}, nil
}

// Evaluate consumes one cycle's evaluation (true means the monitored
// condition is bad) and returns the decisions for this cycle: an optional
// RecoverFromError when an error episode just ended, followed by the
// ordinary good/bad-track decision.
func (s *StateMachine) Evaluate(bad bool) []Decision {
	decisions := make([]Decision, 0, 2) //nolint:mnd // Error recovery plus ordinary decision.

	if s.erroring {
		s.erroring = false
		s.errs = 0
		decisions = append(decisions, RecoverFromError)
	}

	if bad {
		decisions = append(decisions, s.evaluateBad())
	} else {
		decisions = append(decisions, s.evaluateGood())
	}

	return decisions
}

// Error consumes one cycle's hard failure (data unavailable) and returns
// the error-track decision. The good/bad streaks are left untouched.
func (s *StateMachine) Error() Decision {
	if !s.erroring {
		s.erroring = true
		s.errs = 0

		return TriggerError
	}

	s.errs++
	if s.errorRepeatCycles > 0 && s.errs > s.errorRepeatCycles {
		s.errs = 0

		return RepeatTriggerError
	}

	return NoAction
}

// evaluateBad advances the bad streak and decides on (re-)triggering.
func (s *StateMachine) evaluateBad() Decision {
	s.good = 0
	s.bad++

	if !s.alarmed {
		if s.bad >= s.cycles {
			s.alarmed = true
			s.bad = 0

			return Trigger
		}

		return NoAction
	}

	// While alarmed the repeat counter suppresses repeatCycles bad cycles
	// and fires on the next one; zero disables repetition entirely.
	if s.repeatCycles > 0 && s.bad > s.repeatCycles {
		s.bad = 0

		return RepeatTrigger
	}

	return NoAction
}

// evaluateGood advances the good streak and decides on recovery.
func (s *StateMachine) evaluateGood() Decision {
	s.bad = 0

	if !s.alarmed {
		s.good = 0

		return NoAction
	}

	s.good++

	threshold := s.recoverCycles
	if threshold == 0 {
		threshold = 1
	}

	if s.good >= threshold {
		s.alarmed = false
		s.good = 0

		return Recover
	}

	return NoAction
}
