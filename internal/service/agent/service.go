package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/oshokin/alarm-agent/internal/action"
	"github.com/oshokin/alarm-agent/internal/check"
	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/logger"
	"github.com/oshokin/alarm-agent/internal/placeholder"
	"github.com/oshokin/alarm-agent/internal/report"
	"github.com/oshokin/alarm-agent/internal/version"
)

// Options controls the agent run.
type Options struct {
	// ConfigPath specifies the path to the configuration YAML file.
	ConfigPath string
	// LogLevel overrides the configured log level when non-empty.
	LogLevel string
}

// errNothingToRun indicates every check ended up disabled and no report
// is configured.
var errNothingToRun = errors.New("no enabled checks and no report configured")

// Run wires the agent from configuration and runs the scheduling loops
// until the context is canceled. Each check ticks on its own timer; ticks
// of different checks are not synchronized.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-agent")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	applyLogLevel(ctx, cfg.LogLevel, opts.LogLevel)

	globals := globalPlaceholders(cfg)

	actions, err := action.FromConfig(ctx, cfg.Actions)
	if err != nil {
		return err
	}

	checks := make([]check.Check, 0, len(cfg.Checks))

	for i := range cfg.Checks {
		checkCfg := &cfg.Checks[i]
		if checkCfg.Disable {
			logger.Infof(ctx, "Check '%s' is disabled.", checkCfg.Name)
			continue
		}

		c, err := check.FromConfig(ctx, checkCfg, actions, globals)
		if err != nil {
			return err
		}

		checks = append(checks, c)
	}

	rep, err := report.FromConfig(ctx, cfg.Report, actions, globals)
	if err != nil {
		return err
	}

	if len(checks) == 0 && rep == nil {
		return errNothingToRun
	}

	logger.InfoKV(ctx, "Agent started",
		"version", version.Short(), "checks", len(checks), "actions", len(actions))

	var wg sync.WaitGroup

	for _, c := range checks {
		wg.Add(1)

		go func(c check.Check) {
			defer wg.Done()
			runCheck(ctx, c)
		}(c)
	}

	if rep != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()
			runReport(ctx, rep)
		}()
	}

	wg.Wait()
	logger.Info(ctx, "Context canceled, exiting")

	return nil
}

// runCheck ticks one check until the context is canceled. A slow or
// failing cycle only delays this check's own schedule.
func runCheck(ctx context.Context, c check.Check) {
	logger.InfoKV(ctx, "Starting check",
		"check_name", c.Name(), "interval", c.Interval().String())

	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Trigger(ctx)
		}
	}
}

// runReport ticks the report until the context is canceled.
func runReport(ctx context.Context, r *report.Report) {
	logger.InfoKV(ctx, "Starting report", "interval", r.Interval().String())

	ticker := time.NewTicker(r.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Trigger(ctx)
		}
	}
}

// applyLogLevel applies the configured level, preferring the CLI override.
func applyLogLevel(ctx context.Context, configured, override string) {
	levelStr := configured
	if override != "" {
		levelStr = override
	}

	if levelStr == "" {
		return
	}

	level, ok := logger.ParseLogLevel(levelStr)
	if !ok {
		logger.Warnf(ctx, "Unknown log level '%s', keeping '%s'.", levelStr, logger.Level())
		return
	}

	logger.SetLevel(level)
}

// globalPlaceholders layers the agent's own identity under the configured
// global placeholders.
func globalPlaceholders(cfg *config.Config) placeholder.Map {
	globals := placeholder.Map(cfg.Placeholders).Clone()
	placeholder.Merge(globals, placeholder.Map{"agent_version": version.Short()})

	if hostname, err := os.Hostname(); err == nil {
		placeholder.Merge(globals, placeholder.Map{"hostname": hostname})
	}

	return globals
}
