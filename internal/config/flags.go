package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/torosent/volley/internal/launcher"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "volley",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Core flags. Runs is registered as a string so the value can be parsed
	// with an auto-detected base (0x10, 010, 16 all work).
	flags.StringP("url", "u", "", "Target URL to load test")
	flags.StringP("runs", "r", "", "Number of independent requests to issue, one worker each")
	flags.BoolP("silent", "s", false, "Only print lines for failed requests")

	// Reserved shorthands, accepted for compatibility with older invocations.
	flags.BoolP("output", "o", false, "Reserved, no effect")
	flags.BoolP("list", "l", false, "Reserved, no effect")

	// Pacing and request behavior.
	flags.Duration("stagger", launcher.DefaultStagger, "Pause inserted between successive worker spawns")
	flags.Duration("timeout", 0, "Per-request timeout (0 means wait indefinitely)")

	// Output flags.
	flags.Bool("json-output", false, "Emit the report as JSON")
	flags.String("log-file", "", "Also append report lines to this file (lock-protected)")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// History flags.
	flags.String("history-file", "", "Record the run summary in this database file")
	flags.Bool("show-history", false, "List recorded runs from --history-file and exit")

	// Tracing flags.
	flags.String("trace-endpoint", "", "OTLP endpoint for per-request spans")
	flags.String("trace-protocol", "grpc", "OTLP protocol: grpc or http")
	flags.Bool("trace-insecure", false, "Disable TLS for the OTLP exporter")
}

// DisplayUsage prints the usage text, including the original tee-based logging
// examples.
func DisplayUsage(out io.Writer) {
	fmt.Fprintf(out, "Usage: volley -u URL -r RUNS [-s]\n\n")
	fmt.Fprintf(out, "Pipe through tee to create a logfile:\n")
	fmt.Fprintf(out, "\tvolley -u http://localhost -r 30000 | tee full.log\n")
	fmt.Fprintf(out, "\tvolley -u http://localhost -r 30000 -s | tee error.log\n\nFlags:\n")

	cmd := newFlagCommand()
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("url") {
		val, err := fs.GetString("url")
		if err != nil {
			return err
		}
		cfg.TargetURL = val
	}
	if fs.Changed("runs") {
		val, err := fs.GetString("runs")
		if err != nil {
			return err
		}
		runs, err := parseRuns(val)
		if err != nil {
			return err
		}
		cfg.Runs = runs
	}
	if fs.Changed("silent") {
		val, err := fs.GetBool("silent")
		if err != nil {
			return err
		}
		cfg.Silent = val
	}
	if fs.Changed("stagger") {
		val, err := fs.GetDuration("stagger")
		if err != nil {
			return err
		}
		cfg.Stagger = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("log-file") {
		val, err := fs.GetString("log-file")
		if err != nil {
			return err
		}
		cfg.LogFile = val
	}
	if fs.Changed("history-file") {
		val, err := fs.GetString("history-file")
		if err != nil {
			return err
		}
		cfg.HistoryFile = val
	}
	if fs.Changed("show-history") {
		val, err := fs.GetBool("show-history")
		if err != nil {
			return err
		}
		cfg.ShowHistory = val
	}
	if fs.Changed("trace-endpoint") {
		val, err := fs.GetString("trace-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = val
	}
	if fs.Changed("trace-protocol") {
		val, err := fs.GetString("trace-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = val
	}
	if fs.Changed("trace-insecure") {
		val, err := fs.GetBool("trace-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	return nil
}
