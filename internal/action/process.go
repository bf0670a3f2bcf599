package action

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// errProcessPathRequired rejects process actions without an executable path.
var errProcessPathRequired = errors.New("'path' cannot be empty")

// processBackend runs a local executable with placeholder-resolved
// arguments. The context kills the child when the trigger times out.
type processBackend struct {
	path      string
	arguments []string
}

func newProcessBackend(cfg *config.Action) (*processBackend, error) {
	if cfg.Path == "" {
		return nil, errProcessPathRequired
	}

	return &processBackend{
		path:      cfg.Path,
		arguments: cfg.Arguments,
	}, nil
}

// Trigger runs the executable and fails on a non-zero exit code.
func (b *processBackend) Trigger(ctx context.Context, placeholders placeholder.Map) error {
	arguments := make([]string, len(b.arguments))
	for i, argument := range b.arguments {
		arguments[i] = placeholder.Resolve(argument, placeholders)
	}

	cmd := exec.CommandContext(ctx, b.path, arguments...)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("process '%s' failed: %w (output: %s)", b.path, err, output)
	}

	return nil
}
