package grpc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func startHealthServer(t *testing.T, services ...string) *HealthServer {
	t.Helper()

	server, err := NewHealthServer("127.0.0.1:0", services...)
	if err != nil {
		t.Fatalf("new health server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("timed out waiting for health server to stop")
		}
	})
	return server
}

func TestHealthServerStartsNotServing(t *testing.T) {
	server := startHealthServer(t, "dicebot")

	err := Probe(context.Background(), server.Addr(), "", time.Second)
	if err == nil {
		t.Fatal("expected probe to fail before SetServing")
	}
	var probeErr *ProbeError
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected ProbeError, got %T", err)
	}
	if probeErr.Stage != ProbeStageHealth {
		t.Fatalf("stage = %q, want %q", probeErr.Stage, ProbeStageHealth)
	}
	if !strings.Contains(err.Error(), "NOT_SERVING") {
		t.Fatalf("expected NOT_SERVING in %q", err.Error())
	}
}

func TestHealthServerSetServing(t *testing.T) {
	server := startHealthServer(t, "dicebot")
	server.SetServing(true)

	for _, service := range []string{"", "dicebot"} {
		if err := Probe(context.Background(), server.Addr(), service, time.Second); err != nil {
			t.Fatalf("probe %q: %v", service, err)
		}
	}

	server.SetServing(false)
	if err := Probe(context.Background(), server.Addr(), "dicebot", time.Second); err == nil {
		t.Fatal("expected probe to fail after SetServing(false)")
	}
}

func TestHealthServerUnknownService(t *testing.T) {
	server := startHealthServer(t)
	server.SetServing(true)

	if err := Probe(context.Background(), server.Addr(), "missing", time.Second); err == nil {
		t.Fatal("expected probe of unknown service to fail")
	}
}

func TestWaitForHealthTransitionsToServing(t *testing.T) {
	server := startHealthServer(t)

	go func() {
		time.Sleep(150 * time.Millisecond)
		server.SetServing(true)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := WaitForHealth(ctx, server.Addr(), "", nil); err != nil {
		t.Fatalf("wait for health: %v", err)
	}
}

func TestWaitForHealthRespectsContext(t *testing.T) {
	server := startHealthServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var logged int
	err := WaitForHealth(ctx, server.Addr(), "", func(string, ...any) { logged++ })
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if logged == 0 {
		t.Fatal("expected wait progress to be logged")
	}
}

func TestNilHealthServer(t *testing.T) {
	var server *HealthServer
	if server.Addr() != "" {
		t.Fatal("expected empty addr")
	}
	server.SetServing(true)
	server.Close()
	if err := server.Serve(context.Background()); err == nil {
		t.Fatal("expected error serving nil server")
	}
}

func TestProbeErrorFormatting(t *testing.T) {
	wrapped := &ProbeError{Stage: ProbeStageConnect, Err: errors.New("boom")}
	if !strings.Contains(wrapped.Error(), "gRPC connect") {
		t.Fatalf("unexpected error: %s", wrapped.Error())
	}
	if wrapped.Unwrap() == nil {
		t.Fatal("expected wrapped error")
	}

	var nilErr *ProbeError
	if nilErr.Error() == "" {
		t.Fatal("expected fallback error message")
	}
	if nilErr.Unwrap() != nil {
		t.Fatal("expected nil unwrap for nil error")
	}
}

func TestCheckRequiresConn(t *testing.T) {
	if err := Check(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error for nil conn")
	}
}
