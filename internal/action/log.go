package action

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/logger"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// defaultLogTemplate is used when the configuration does not set one.
const defaultLogTemplate = "Action '{{action_name}}' was triggered."

// errBadLogLevel is wrapped with the unparseable level string.
var errBadLogLevel = errors.New("invalid log level")

// logBackend writes the resolved template to the agent's own log.
// It is the cheapest backend and doubles as a dry-run target.
type logBackend struct {
	level    zapcore.Level
	template string
}

func newLogBackend(cfg *config.Action) (*logBackend, error) {
	level := zapcore.InfoLevel

	if cfg.Level != "" {
		parsed, ok := logger.ParseLogLevel(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", errBadLogLevel, cfg.Level)
		}

		level = parsed
	}

	template := cfg.Template
	if template == "" {
		template = defaultLogTemplate
	}

	return &logBackend{
		level:    level,
		template: template,
	}, nil
}

// Trigger renders the template and logs it at the configured level.
func (b *logBackend) Trigger(ctx context.Context, placeholders placeholder.Map) error {
	logger.FromContext(ctx).Logf(b.level, "%s", placeholder.Resolve(b.template, placeholders))
	return nil
}
