package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCoreFlags(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load([]string{"-u", "http://localhost:8080", "-r", "25", "-s"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetURL != "http://localhost:8080" {
		t.Fatalf("url = %q", cfg.TargetURL)
	}
	if cfg.Runs != 25 {
		t.Fatalf("runs = %d", cfg.Runs)
	}
	if !cfg.Silent {
		t.Fatal("silent flag not applied")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadRunsAutoDetectsBase(t *testing.T) {
	cases := map[string]int{
		"16":   16,
		"0x10": 16,
		"010":  8,
	}
	for input, want := range cases {
		loader := NewLoader()
		cfg, err := loader.Load([]string{"-u", "http://localhost", "-r", input})
		if err != nil {
			t.Fatalf("load %q: %v", input, err)
		}
		if cfg.Runs != want {
			t.Fatalf("runs %q = %d, want %d", input, cfg.Runs, want)
		}
	}
}

func TestLoadRejectsBadRuns(t *testing.T) {
	for _, input := range []string{"abc", "-5", "1.5", ""} {
		loader := NewLoader()
		if _, err := loader.Load([]string{"-u", "http://localhost", "-r", input}); err == nil {
			t.Fatalf("expected error for runs %q", input)
		}
	}
}

func TestValidateRequiresURLAndRuns(t *testing.T) {
	cases := []Config{
		{Runs: 5},                               // missing url
		{TargetURL: "http://localhost"},         // missing runs
		{TargetURL: "http://localhost", Runs: 0}, // zero runs
	}
	for i, cfg := range cases {
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d: expected ValidationError, got %T", i, err)
		}
		if len(verr.Issues()) == 0 {
			t.Fatalf("case %d: expected issues", i)
		}
	}
}

func TestReservedFlagsAccepted(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load([]string{"-u", "http://localhost", "-r", "1", "-o", "-l"})
	if err != nil {
		t.Fatalf("reserved flags must parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestHelpRequested(t *testing.T) {
	var buf bytes.Buffer
	loader := NewLoader()
	loader.Out = &buf
	_, err := loader.Load([]string{"--help"})
	if !errors.Is(err, ErrHelpRequested) {
		t.Fatalf("expected ErrHelpRequested, got %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Usage: volley")) {
		t.Fatalf("usage text missing: %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("tee full.log")) {
		t.Fatal("usage examples missing")
	}
}

func TestLoadConfigFileWithFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volley.json")
	body := `{
  "url": "http://from-file",
  "runs": 10,
  "silent": true,
  "stagger": "1ms",
  "timeout": "5s",
  "tracing": {"endpoint": "collector:4317", "insecure": true}
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load([]string{"--config", path, "-r", "99"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetURL != "http://from-file" {
		t.Fatalf("url = %q", cfg.TargetURL)
	}
	if cfg.Runs != 99 {
		t.Fatalf("flag must override file: runs = %d", cfg.Runs)
	}
	if !cfg.Silent {
		t.Fatal("silent not read from file")
	}
	if cfg.Stagger != time.Millisecond {
		t.Fatalf("stagger = %s", cfg.Stagger)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %s", cfg.Timeout)
	}
	if cfg.Tracing.Endpoint != "collector:4317" || !cfg.Tracing.Insecure {
		t.Fatalf("tracing = %+v", cfg.Tracing)
	}
	if cfg.Tracing.Protocol != "grpc" {
		t.Fatalf("tracing protocol default lost: %q", cfg.Tracing.Protocol)
	}
}

func TestValidateTracingProtocol(t *testing.T) {
	cfg := Config{
		TargetURL: "http://localhost",
		Runs:      1,
		Tracing:   TracingConfig{Protocol: "carrier-pigeon"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected protocol validation error")
	}
}

func TestValidateShowHistory(t *testing.T) {
	cfg := Config{ShowHistory: true}
	if err := cfg.Validate(); err == nil {
		t.Fatal("show-history without history-file must fail")
	}

	cfg.HistoryFile = "runs.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("show-history with history-file must pass url/runs checks: %v", err)
	}
}
