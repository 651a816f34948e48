// Package config provides configuration loading and validation for volley.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the validated run configuration handed to the core.
type Config struct {
	TargetURL   string        `mapstructure:"url"`
	Runs        int           `mapstructure:"runs"`
	Silent      bool          `mapstructure:"silent"`
	Stagger     time.Duration `mapstructure:"stagger"`
	Timeout     time.Duration `mapstructure:"timeout"`
	JSONOutput  bool          `mapstructure:"json_output"`
	LogFile     string        `mapstructure:"log_file"`
	HistoryFile string        `mapstructure:"history_file"`
	ShowHistory bool          `mapstructure:"-"`
	ConfigFile  string        `mapstructure:"-"`
	Tracing     TracingConfig `mapstructure:"tracing"`
}

// TracingConfig controls optional per-probe span export.
type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Protocol    string `mapstructure:"protocol"` // "grpc" or "http"
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name"`
}

// Enabled reports whether an exporter endpoint has been configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ValidationError enumerates every configuration issue found.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if c.ShowHistory {
		if strings.TrimSpace(c.HistoryFile) == "" {
			issues = append(issues, "show-history requires history-file")
		}
		if len(issues) > 0 {
			return ValidationError{issues: issues}
		}
		return nil
	}

	if strings.TrimSpace(c.TargetURL) == "" {
		issues = append(issues, "url is required")
	}
	if c.Runs < 1 {
		issues = append(issues, "runs must be >= 1")
	}
	if c.Stagger < 0 {
		issues = append(issues, "stagger must be >= 0")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}

	switch strings.ToLower(strings.TrimSpace(c.Tracing.Protocol)) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol %q is not supported", c.Tracing.Protocol))
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
