package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/logger"
)

// Map is the process-wide registry of named actions. It is built once at
// startup and read-only afterwards, so checks may share it without
// synchronization.
type Map map[string]*Action

var (
	// errNotFound is wrapped with the missing action name.
	errNotFound = errors.New("action not found")
	// errUnknownType is wrapped with the unsupported type string.
	errUnknownType = errors.New("unknown action type")
)

// FromConfig builds the action registry from configuration.
// Any invalid action aborts startup; there is no partial registry.
func FromConfig(ctx context.Context, cfgs []config.Action) (Map, error) {
	m := make(Map, len(cfgs))

	for i := range cfgs {
		cfg := &cfgs[i]

		a, err := fromActionConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create action '%s': %w", cfg.Name, err)
		}

		m[cfg.Name] = a
	}

	return m, nil
}

// Get resolves a named action from the registry.
func (m Map) Get(name string) (*Action, error) {
	if name == "" {
		return nil, errEmptyName
	}

	a, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errNotFound, name)
	}

	return a, nil
}

// fromActionConfig builds one action, resolving the configured backend type.
func fromActionConfig(ctx context.Context, cfg *config.Action) (*Action, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second

	if cfg.Disable {
		logger.Infof(ctx, "Action %s::'%s' is disabled.", cfg.Type, cfg.Name)
		return NewDisabled(cfg.Name, timeout, cfg.Placeholders)
	}

	var (
		backend Backend
		err     error
	)

	switch cfg.Type {
	case "log":
		backend, err = newLogBackend(cfg)
	case "webhook":
		backend, err = newWebhookBackend(cfg)
	case "process":
		backend, err = newProcessBackend(cfg)
	case "email":
		backend, err = newEmailBackend(cfg)
	default:
		return nil, fmt.Errorf("%w: '%s'", errUnknownType, cfg.Type)
	}

	if err != nil {
		return nil, err
	}

	return New(cfg.Name, timeout, cfg.Placeholders, backend)
}
