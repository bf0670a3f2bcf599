package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/oshokin/alarm-agent/internal/config"
)

// errNoMountpoints rejects filesystem checks without mountpoints.
var errNoMountpoints = errors.New("'mountpoints' cannot be empty")

// filesystemUsage samples the used-space percentage of configured
// mountpoints. Each mountpoint is one entity; a failing statfs only
// produces a per-entity error so the other mountpoints still get data.
type filesystemUsage struct {
	mountpoints []string
}

func newFilesystemUsage(cfg *config.Check) (*filesystemUsage, error) {
	if len(cfg.Mountpoints) == 0 {
		return nil, errNoMountpoints
	}

	return &filesystemUsage{mountpoints: cfg.Mountpoints}, nil
}

func (s *filesystemUsage) IDs() []string {
	return s.mountpoints
}

func (s *filesystemUsage) GetData(ctx context.Context) ([]Result[float64], error) {
	results := make([]Result[float64], 0, len(s.mountpoints))

	for _, mountpoint := range s.mountpoints {
		usage, err := disk.UsageWithContext(ctx, mountpoint)
		if err != nil {
			results = append(results, Result[float64]{
				Err: fmt.Errorf("get filesystem usage for '%s': %w", mountpoint, err),
			})

			continue
		}

		results = append(results, Result[float64]{Data: usage.UsedPercent})
	}

	return results, nil
}

func (s *filesystemUsage) FormatData(data float64) string {
	return fmt.Sprintf("usage level %.1f%%", data)
}
