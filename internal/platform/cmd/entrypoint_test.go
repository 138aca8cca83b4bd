package cmd

import (
	"context"
	"errors"
	"flag"
	"io"
	"testing"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CMD_TEST_MODE" envDefault:"server"`
}

func TestParseConfigThenArgs(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("CMD_TEST_MODE", "env-mode")

	var cfg testConfig
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&cfg.Address, "address", cfg.Address, "address")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "mode")

	set, err := ParseArgs(fs, []string{"-address", "flag:9001"})
	if err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if cfg.Address != "flag:9001" {
		t.Fatalf("expected flag address, got %q", cfg.Address)
	}
	if cfg.Mode != "env-mode" {
		t.Fatalf("expected env mode, got %q", cfg.Mode)
	}
	if !set["address"] || set["mode"] {
		t.Fatalf("set flags = %v, want only address", set)
	}
}

func TestParseConfigRejectsNil(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestParseArgs(t *testing.T) {
	if _, err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected nil parser error")
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Bool("verbose", false, "verbose")
	if _, err := ParseArgs(fs, []string{"-unknown"}); err == nil {
		t.Fatal("expected unknown flag error")
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Bool("verbose", false, "verbose")
	set, err := ParseArgs(fs, nil)
	if err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected no flags set, got %v", set)
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), " ", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceDiceBot, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryRunsLoop(t *testing.T) {
	t.Setenv("DICEBOT_OTEL_ENDPOINT", "")

	boom := errors.New("boom")
	called := false
	err := RunWithTelemetry(context.Background(), ServiceMCP, func(context.Context) error {
		called = true
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected run error, got %v", err)
	}
	if !called {
		t.Fatal("expected run function to be called")
	}
}
