package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/volley/internal/clock"
	"github.com/torosent/volley/internal/config"
	"github.com/torosent/volley/internal/history"
	"github.com/torosent/volley/internal/launcher"
	"github.com/torosent/volley/internal/report"
	"github.com/torosent/volley/internal/tracing"
)

// Exit codes: 0 success, 1 usage/configuration failure, 2 fatal runtime
// failure. Request-level errors never affect the exit code; the summary line
// carries them.
const (
	exitOK    = 0
	exitUsage = 1
	exitFatal = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	loader := config.NewLoader()
	loader.Out = stdout
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		config.DisplayUsage(stdout)
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		config.DisplayUsage(stdout)
		return exitUsage
	}

	if cfg.ShowHistory {
		if err := showHistory(stdout, cfg.HistoryFile); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFatal
		}
		return exitOK
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		fmt.Fprintf(stderr, "volley: %v\n", err)
		return exitFatal
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(stderr, "volley: tracing shutdown: %v\n", err)
		}
	}()

	out := io.Writer(stdout)
	if cfg.LogFile != "" {
		logFile, err := report.OpenLogFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(stderr, "volley: %v\n", err)
			return exitFatal
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				fmt.Fprintf(stderr, "volley: close log file: %v\n", err)
			}
		}()
		out = io.MultiWriter(stdout, logFile.Writer())
	}

	started := time.Now().UTC()
	start := clock.Now()

	l := launcher.New(launcher.Options{
		URL:     cfg.TargetURL,
		Runs:    cfg.Runs,
		Stagger: cfg.Stagger,
		Timeout: cfg.Timeout,
		Tracer:  provider.Tracer(),
	})
	if err := l.Launch(ctx); err != nil {
		// Fatal: no partial report.
		fmt.Fprintf(stderr, "volley: %v\n", err)
		return exitFatal
	}
	results := l.Join()

	var summary report.Summary
	if cfg.JSONOutput {
		errCount := report.CountErrors(results)
		end := clock.Now()
		summary = report.Summary{Errors: errCount, Runs: cfg.Runs, Elapsed: end.Sub(start)}
		rep := report.JSONReport{
			RunID:   ulid.Make().String(),
			URL:     cfg.TargetURL,
			Summary: summary,
			Results: results,
		}
		if err := report.WriteJSON(out, rep, cfg.Silent); err != nil {
			fmt.Fprintf(stderr, "volley: %v\n", err)
			return exitFatal
		}
	} else {
		reporter := report.NewReporter(out, cfg.Silent)
		errCount := reporter.Report(results)
		end := clock.Now()
		summary = report.Summary{Errors: errCount, Runs: cfg.Runs, Elapsed: end.Sub(start)}
		reporter.WriteSummary(summary)
	}

	if cfg.HistoryFile != "" {
		if err := recordHistory(cfg, summary, started); err != nil {
			// History is best-effort; the report already went out.
			fmt.Fprintf(stderr, "volley: %v\n", err)
		}
	}

	return exitOK
}

func recordHistory(cfg *config.Config, summary report.Summary, started time.Time) error {
	store, err := history.Open(cfg.HistoryFile)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Append(history.Record{
		URL:        cfg.TargetURL,
		Runs:       summary.Runs,
		Errors:     summary.Errors,
		Elapsed:    summary.Elapsed.String(),
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	})
	return err
}

func showHistory(w io.Writer, path string) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Fprintf(w, "%s %s: %d errors out of %d runs in %s real seconds\n",
			rec.ID, rec.URL, rec.Errors, rec.Runs, rec.Elapsed)
	}
	return nil
}
