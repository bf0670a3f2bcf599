package check

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/oshokin/alarm-agent/internal/config"
)

// memoryUsage samples the used percentage of physical memory and,
// optionally, swap. Entity ids are fixed to "memory" and "swap".
type memoryUsage struct {
	ids  []string
	swap bool
}

func newMemoryUsage(cfg *config.Check) (*memoryUsage, error) {
	ids := []string{"memory"}
	if cfg.Swap {
		ids = append(ids, "swap")
	}

	return &memoryUsage{
		ids:  ids,
		swap: cfg.Swap,
	}, nil
}

func (s *memoryUsage) IDs() []string {
	return s.ids
}

func (s *memoryUsage) GetData(ctx context.Context) ([]Result[float64], error) {
	results := make([]Result[float64], 0, len(s.ids))

	virtual, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		results = append(results, Result[float64]{Err: fmt.Errorf("get memory usage: %w", err)})
	} else {
		results = append(results, Result[float64]{Data: virtual.UsedPercent})
	}

	if s.swap {
		swap, err := mem.SwapMemoryWithContext(ctx)
		if err != nil {
			results = append(results, Result[float64]{Err: fmt.Errorf("get swap usage: %w", err)})
		} else {
			results = append(results, Result[float64]{Data: swap.UsedPercent})
		}
	}

	return results, nil
}

func (s *memoryUsage) FormatData(data float64) string {
	return fmt.Sprintf("usage level %.1f%%", data)
}
