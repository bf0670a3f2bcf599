package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root of the agent configuration file.
type Config struct {
	// LogLevel is the minimum level for log output (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// Placeholders are global substitution values merged into every trigger.
	Placeholders map[string]string `yaml:"placeholders"`
	// Actions are the named notification/remediation endpoints.
	Actions []Action `yaml:"actions"`
	// Checks are the periodic metric samplers with their alarms.
	Checks []Check `yaml:"checks"`
	// Report optionally configures periodic heartbeat events.
	Report *Report `yaml:"report"`
}

// Action configures one named action endpoint.
type Action struct {
	// Name is the identifier alarms and report events refer to.
	Name string `yaml:"name"`
	// Type selects the backend: log, webhook, process or email.
	Type string `yaml:"type"`
	// Disable turns the action into a log-only stub.
	Disable bool `yaml:"disable"`
	// Timeout is the per-trigger deadline in seconds.
	Timeout uint32 `yaml:"timeout"`
	// Placeholders are merged into every trigger of this action.
	Placeholders map[string]string `yaml:"placeholders"`

	// Log backend.
	Level    string `yaml:"level"`
	Template string `yaml:"template"`

	// Webhook backend.
	URL     string            `yaml:"url"`
	Method  string            `yaml:"method"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`

	// Process backend.
	Path      string   `yaml:"path"`
	Arguments []string `yaml:"arguments"`

	// Email backend.
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	Subject    string `yaml:"subject"`
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   uint16 `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
}

// Check configures one periodic sampler and its alarms.
type Check struct {
	// Name identifies the check in logs and placeholders.
	Name string `yaml:"name"`
	// Type selects the data source:
	// filesystem_usage, memory_usage or process_running.
	Type string `yaml:"type"`
	// Interval is the sampling period in seconds.
	Interval uint32 `yaml:"interval"`
	// Disable skips the whole check at wiring time.
	Disable bool `yaml:"disable"`
	// Placeholders are merged into every trigger originating from this check.
	Placeholders map[string]string `yaml:"placeholders"`

	// Mountpoints lists filesystems for the filesystem_usage source.
	Mountpoints []string `yaml:"mountpoints"`
	// Swap additionally samples swap for the memory_usage source.
	Swap bool `yaml:"swap"`
	// Processes lists executable names for the process_running source.
	Processes []string `yaml:"processes"`

	// Alarms applies to every entity the data source reports.
	Alarms []Alarm `yaml:"alarms"`
}

// Alarm configures one alarm evaluated against every entity of a check.
type Alarm struct {
	// Name identifies the alarm in logs and placeholders.
	Name string `yaml:"name"`
	// Disable skips the alarm at wiring time.
	Disable bool `yaml:"disable"`
	// Level is the usage percentage at or above which a cycle counts as bad.
	Level uint8 `yaml:"level"`
	// Cycles is the number of consecutive bad cycles before the first trigger.
	Cycles uint32 `yaml:"cycles"`
	// RepeatCycles throttles re-triggering while alarmed; 0 never repeats.
	RepeatCycles uint32 `yaml:"repeat_cycles"`
	// RecoverCycles is the number of consecutive good cycles before recovery.
	RecoverCycles uint32 `yaml:"recover_cycles"`
	// ErrorRepeatCycles throttles repeated error triggers; 0 never repeats.
	ErrorRepeatCycles uint32 `yaml:"error_repeat_cycles"`
	// Invert negates the evaluation before it reaches the cycle counters.
	Invert bool `yaml:"invert"`

	// Action is the name of the primary action; required.
	Action string `yaml:"action"`
	// RecoverAction is triggered when the alarm recovers; optional.
	RecoverAction string `yaml:"recover_action"`
	// ErrorAction is triggered when sampling fails; optional.
	ErrorAction string `yaml:"error_action"`

	Placeholders        map[string]string `yaml:"placeholders"`
	RecoverPlaceholders map[string]string `yaml:"recover_placeholders"`
	ErrorPlaceholders   map[string]string `yaml:"error_placeholders"`
}

// Report configures periodic heartbeat events.
type Report struct {
	// Interval is the reporting period in seconds.
	Interval uint32 `yaml:"interval"`
	// Disable turns reporting off while keeping the section in the file.
	Disable bool `yaml:"disable"`
	// Events are triggered on every report tick.
	Events []ReportEvent `yaml:"events"`
}

// ReportEvent configures one action triggered per report tick.
type ReportEvent struct {
	// Name is injected into placeholders as event_name.
	Name string `yaml:"name"`
	// Disable skips the event at wiring time.
	Disable bool `yaml:"disable"`
	// Action is the name of the triggered action; required.
	Action string `yaml:"action"`
	// Placeholders are merged into every trigger of this event.
	Placeholders map[string]string `yaml:"placeholders"`
}

const (
	// DefaultConfigFilename is the default path of the agent configuration.
	DefaultConfigFilename = "alarm-agent.yaml"

	// DefaultCheckInterval is the sampling period applied
	// when a check does not set one.
	DefaultCheckInterval uint32 = 300

	// DefaultActionTimeout is the per-trigger deadline applied
	// when an action does not set one.
	DefaultActionTimeout uint32 = 10

	// DefaultAlarmCycles is the bad-cycle threshold applied
	// when an alarm does not set one.
	DefaultAlarmCycles uint32 = 1

	// DefaultAlarmRecoverCycles is the good-cycle threshold applied
	// when an alarm does not set one.
	DefaultAlarmRecoverCycles uint32 = 1

	// DefaultReportInterval is one week in seconds.
	DefaultReportInterval uint32 = 604800
)

var (
	// errNoChecks is returned when the configuration contains no checks.
	errNoChecks = errors.New("configuration must contain at least one check")
	// errDuplicateActionName is wrapped with the offending name.
	errDuplicateActionName = errors.New("duplicate action name")
)

// Load reads the configuration from the provided path,
// validates it and applies defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural requirements and fills in defaults.
// Per-component limits (empty names, zero timeouts) are enforced by the
// component constructors so the errors carry the owning check's context.
func Validate(cfg *Config) error {
	if len(cfg.Checks) == 0 {
		return errNoChecks
	}

	seen := make(map[string]struct{}, len(cfg.Actions))

	for i := range cfg.Actions {
		action := &cfg.Actions[i]
		if _, ok := seen[action.Name]; ok {
			return fmt.Errorf("%w: '%s'", errDuplicateActionName, action.Name)
		}

		seen[action.Name] = struct{}{}

		if action.Timeout == 0 {
			action.Timeout = DefaultActionTimeout
		}
	}

	for i := range cfg.Checks {
		check := &cfg.Checks[i]
		if check.Interval == 0 {
			check.Interval = DefaultCheckInterval
		}

		for j := range check.Alarms {
			alarm := &check.Alarms[j]
			if alarm.Cycles == 0 {
				alarm.Cycles = DefaultAlarmCycles
			}

			if alarm.RecoverCycles == 0 {
				alarm.RecoverCycles = DefaultAlarmRecoverCycles
			}
		}
	}

	if cfg.Report != nil && cfg.Report.Interval == 0 {
		cfg.Report.Interval = DefaultReportInterval
	}

	return nil
}
