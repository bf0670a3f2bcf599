package check

import (
	"errors"

	"github.com/oshokin/alarm-agent/internal/alarm"
	"github.com/oshokin/alarm-agent/internal/config"
)

// errZeroLevel rejects level alarms without a threshold.
var errZeroLevel = errors.New("'level' cannot be 0")

// levelSink flags usage percentages at or above the configured level.
type levelSink struct {
	level float64
}

func newLevelSink(cfg *config.Alarm) (alarm.Sink[float64], error) {
	if cfg.Level == 0 {
		return nil, errZeroLevel
	}

	return &levelSink{level: float64(cfg.Level)}, nil
}

func (s *levelSink) Evaluate(data float64) bool {
	return data >= s.level
}

// runningSink flags entities whose process is not running. The inverse
// semantics ("alarm while it IS running") come from the alarm-level
// invert flag, not from a second sink.
type runningSink struct{}

func newRunningSink(_ *config.Alarm) (alarm.Sink[bool], error) {
	return runningSink{}, nil
}

func (runningSink) Evaluate(data bool) bool {
	return !data
}
