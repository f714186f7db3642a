package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfigTemplate = `{
  "general": {
    "logToFile": false,
    "logLevel": 2,
    "concurrency": {"model_pool_size": 1, "model_acquire_timeout_ms": 500},
    "grpc_server": {"host": "127.0.0.1", "port": 0},
    "http_server": {"host": "127.0.0.1", "port": 0, "read_timeout": 5}
  },
  "model": []
}`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	d := t.TempDir()
	p := filepath.Join(d, "cfg.json")
	if err := os.WriteFile(p, []byte(testConfigTemplate), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestManager_InitThenShutdown(t *testing.T) {
	m := New()
	if m.State() != Uninitialized {
		t.Fatalf("expected Uninitialized, got %v", m.State())
	}

	ok, err := m.Init(writeTestConfig(t))
	if err != nil || !ok {
		t.Fatalf("Init failed: ok=%v err=%v", ok, err)
	}
	if m.State() != Running {
		t.Fatalf("expected Running after Init, got %v", m.State())
	}

	time.Sleep(20 * time.Millisecond) // let the front-end goroutines actually bind

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if m.State() != Stopped {
		t.Fatalf("expected Stopped after Shutdown, got %v", m.State())
	}
}

func TestManager_Init_FrontEndsReportRunning(t *testing.T) {
	m := New()
	ok, err := m.Init(writeTestConfig(t))
	if err != nil || !ok {
		t.Fatalf("Init failed: ok=%v err=%v", ok, err)
	}
	time.Sleep(20 * time.Millisecond)

	if !m.httpRunning.Load() {
		t.Fatalf("expected httpRunning=true once the HTTP listener binds")
	}
	if !m.grpcRunning.Load() {
		t.Fatalf("expected grpcRunning=true once the gRPC listener binds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

const testConfigMonitoringDisabledTemplate = `{
  "general": {
    "logToFile": false,
    "logLevel": 2,
    "concurrency": {"model_pool_size": 1, "model_acquire_timeout_ms": 500, "enable_concurrency_monitoring": false},
    "grpc_server": {"host": "127.0.0.1", "port": 0},
    "http_server": {"host": "127.0.0.1", "port": 0, "read_timeout": 5}
  },
  "model": []
}`

func TestManager_Init_DisablesMonitoringWhenConfigured(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "cfg.json")
	if err := os.WriteFile(p, []byte(testConfigMonitoringDisabledTemplate), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	m := New()
	ok, err := m.Init(p)
	if err != nil || !ok {
		t.Fatalf("Init failed: ok=%v err=%v", ok, err)
	}
	time.Sleep(20 * time.Millisecond)

	m.httpMon.RequestStarted()
	if stats := m.httpMon.Stats(); stats.Total != 0 {
		t.Fatalf("expected monitoring disabled to gate counting, got %+v", stats)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.Shutdown(ctx)
}

func TestManager_Shutdown_IdempotentWhenNeverStarted(t *testing.T) {
	m := New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown on uninitialized manager should be a no-op: %v", err)
	}
}

func TestManager_Init_SecondCallIsNoOp(t *testing.T) {
	m := New()
	cfgPath := writeTestConfig(t)
	if ok, err := m.Init(cfgPath); err != nil || !ok {
		t.Fatalf("first Init failed: ok=%v err=%v", ok, err)
	}
	time.Sleep(20 * time.Millisecond)

	ok, err := m.Init(cfgPath)
	if err != nil || !ok {
		t.Fatalf("second Init should report success=true, got ok=%v err=%v", ok, err)
	}
	if m.State() != Running {
		t.Fatalf("expected still Running after repeated Init, got %v", m.State())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.Shutdown(ctx)
}
