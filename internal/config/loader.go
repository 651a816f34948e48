package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/torosent/volley/internal/launcher"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct {
	// Out receives usage/help text. Defaults to stdout.
	Out io.Writer
}

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{Out: os.Stdout}
}

// Load parses command-line arguments and an optional configuration file to
// produce a Config. Flag values override file values.
func (l *Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			DisplayUsage(l.out())
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			DisplayUsage(l.out())
			return nil, ErrHelpRequested
		}
	}

	cfg := &Config{
		Stagger: launcher.DefaultStagger,
		Tracing: TracingConfig{Protocol: "grpc", ServiceName: "volley"},
	}

	configPath := flagSet.Lookup("config").Value.String()
	if configPath != "" {
		cfgViper := viper.New()
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
			return nil, err
		}
		cfg.ConfigFile = configPath
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	cfg.LogFile = strings.TrimSpace(cfg.LogFile)
	cfg.HistoryFile = strings.TrimSpace(cfg.HistoryFile)
	cfg.Tracing.Endpoint = strings.TrimSpace(cfg.Tracing.Endpoint)
	cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(cfg.Tracing.Protocol))

	return cfg, nil
}

func (l *Loader) out() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stdout
}

// parseRuns parses the run count as an unsigned integer with an auto-detected
// base, so hex and octal forms keep working.
func parseRuns(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("runs value cannot be empty")
	}
	runs, err := strconv.ParseUint(trimmed, 0, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid runs value %q: %w", value, err)
	}
	return int(runs), nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "url", "target"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "runs"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("runs: %w", err)
		}
		cfg.Runs = val
	}

	if raw, ok := lookupSetting(settings, "silent"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("silent: %w", err)
		}
		cfg.Silent = val
	}

	if raw, ok := lookupSetting(settings, "stagger"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("stagger: %w", err)
		}
		cfg.Stagger = dur
	}

	if raw, ok := lookupSetting(settings, "timeout"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = dur
	}

	if raw, ok := lookupSetting(settings, "jsonoutput", "json_output", "json-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("jsonOutput: %w", err)
		}
		cfg.JSONOutput = val
	}

	if raw, ok := lookupSetting(settings, "logfile", "log_file", "log-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("logFile: %w", err)
		}
		cfg.LogFile = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "historyfile", "history_file", "history-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("historyFile: %w", err)
		}
		cfg.HistoryFile = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		tracing, err := parseTracing(raw)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		if tracing.Protocol == "" {
			tracing.Protocol = cfg.Tracing.Protocol
		}
		if tracing.ServiceName == "" {
			tracing.ServiceName = cfg.Tracing.ServiceName
		}
		cfg.Tracing = tracing
	}

	return nil
}

func parseTracing(value interface{}) (TracingConfig, error) {
	if value == nil {
		return TracingConfig{}, nil
	}
	entry, err := toStringKeyMap(value)
	if err != nil {
		return TracingConfig{}, err
	}

	var tracing TracingConfig
	if raw, ok := lookupSetting(entry, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("endpoint: %w", err)
		}
		tracing.Endpoint = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(entry, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("protocol: %w", err)
		}
		tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if raw, ok := lookupSetting(entry, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("insecure: %w", err)
		}
		tracing.Insecure = val
	}
	if raw, ok := lookupSetting(entry, "servicename", "service_name", "service-name"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("service_name: %w", err)
		}
		tracing.ServiceName = strings.TrimSpace(val)
	}
	return tracing, nil
}
