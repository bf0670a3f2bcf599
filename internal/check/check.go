package check

import (
	"context"
	"errors"
	"time"

	"github.com/oshokin/alarm-agent/internal/alarm"
	"github.com/oshokin/alarm-agent/internal/logger"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// Check is one periodic sampler with its alarms. Trigger absorbs every
// runtime failure into logging so a broken cycle can never stop the
// owning scheduling loop.
type Check interface {
	// Trigger runs one sampling cycle.
	Trigger(ctx context.Context)
	// Interval returns the sampling period.
	Interval() time.Duration
	// Name returns the configured check name.
	Name() string
}

// Result is one entity's sample: a value or a per-entity error.
type Result[T any] struct {
	Data T
	Err  error
}

// Source produces one sample per entity id each time it is polled.
// The id ordering is fixed at construction and results are positionally
// aligned with IDs; callers rely on that alignment.
type Source[T any] interface {
	// IDs returns the ordered entity id list.
	IDs() []string
	// GetData samples every entity. A returned error means the fetch as a
	// whole failed and no per-entity results are available.
	GetData(ctx context.Context) ([]Result[T], error)
	// FormatData renders one sampled value for logging.
	FormatData(data T) string
}

var (
	// errZeroInterval rejects checks without a sampling period.
	errZeroInterval = errors.New("'interval' cannot be 0")
	// errCheckNameEmpty rejects unnamed checks.
	errCheckNameEmpty = errors.New("'name' cannot be empty")
)

// base drives one data source and the per-entity alarm groups.
// alarms is index-aligned with the source's entity ids.
type base[T any] struct {
	interval     uint32
	name         string
	placeholders placeholder.Map
	globals      placeholder.Map
	source       Source[T]
	alarms       [][]*alarm.Alarm[T]
}

func newBase[T any](
	interval uint32,
	name string,
	placeholders placeholder.Map,
	globals placeholder.Map,
	source Source[T],
	alarms [][]*alarm.Alarm[T],
) (*base[T], error) {
	if interval == 0 {
		return nil, errZeroInterval
	}

	if name == "" {
		return nil, errCheckNameEmpty
	}

	return &base[T]{
		interval:     interval,
		name:         name,
		placeholders: placeholders,
		globals:      globals,
		source:       source,
		alarms:       alarms,
	}, nil
}

// Trigger samples the data source once and feeds every entity's result to
// that entity's alarms. When the fetch itself fails, one error result per
// entity is synthesized so every alarm still receives a cycle signal;
// otherwise recovery and repeat counters would be throttled incorrectly.
func (c *base[T]) Trigger(ctx context.Context) {
	base := c.placeholders.Clone()
	placeholder.Merge(base, c.globals)
	base["check_name"] = c.name

	ids := c.source.IDs()

	results, err := c.source.GetData(ctx)
	if err != nil {
		results = make([]Result[T], len(ids))
		for i := range results {
			results[i] = Result[T]{Err: err}
		}
	}

	for i, result := range results {
		if i >= len(ids) || i >= len(c.alarms) {
			break
		}

		if result.Err != nil {
			logger.Warnf(ctx, "Check '%s' got no data for id '%s': %s", c.name, ids[i], result.Err)
		} else {
			logger.Debugf(ctx, "Check '%s' got %s for id '%s'.",
				c.name, c.source.FormatData(result.Data), ids[i])
		}

		for _, entityAlarm := range c.alarms[i] {
			// Every alarm gets its own clone so sibling alarms never
			// observe each other's placeholder mutations.
			alarmPlaceholders := base.Clone()

			var alarmErr error
			if result.Err != nil {
				alarmPlaceholders["check_error"] = result.Err.Error()
				alarmErr = entityAlarm.PutError(ctx, alarmPlaceholders)
			} else {
				alarmErr = entityAlarm.PutData(ctx, result.Data, alarmPlaceholders)
			}

			if alarmErr != nil {
				logger.Errorf(ctx, "%s had an error: %s", entityAlarm.LogID(), alarmErr)
			}
		}
	}
}

// Interval returns the sampling period.
func (c *base[T]) Interval() time.Duration {
	return time.Duration(c.interval) * time.Second
}

// Name returns the configured check name.
func (c *base[T]) Name() string {
	return c.name
}
