package check

import (
	"context"
	"errors"
	"fmt"

	ps "github.com/mitchellh/go-ps"

	"github.com/oshokin/alarm-agent/internal/config"
)

// errNoProcesses rejects process checks without executable names.
var errNoProcesses = errors.New("'processes' cannot be empty")

// processRunning samples whether named executables currently have at least
// one live process. Listing the process table is a single operation, so a
// failure there is a check-level fetch error and the owning check
// synthesizes per-entity errors from it.
//
// Combined with the alarm-level invert flag this expresses both "alarm
// when X is running" and "alarm when X is not running".
type processRunning struct {
	processes []string
}

func newProcessRunning(cfg *config.Check) (*processRunning, error) {
	if len(cfg.Processes) == 0 {
		return nil, errNoProcesses
	}

	return &processRunning{processes: cfg.Processes}, nil
}

func (s *processRunning) IDs() []string {
	return s.processes
}

func (s *processRunning) GetData(_ context.Context) ([]Result[bool], error) {
	running, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	byName := make(map[string]bool, len(running))
	for _, process := range running {
		byName[process.Executable()] = true
	}

	results := make([]Result[bool], 0, len(s.processes))
	for _, name := range s.processes {
		results = append(results, Result[bool]{Data: byName[name]})
	}

	return results, nil
}

func (s *processRunning) FormatData(data bool) string {
	if data {
		return "a running process"
	}

	return "no running process"
}
