package registry

import (
	"testing"
	"time"

	"inferd/internal/pool"
	"inferd/pkg/types"
)

func newTestRegistry() *Registry {
	return New(2, time.Second, pool.NewStubKernelFactory(), nil)
}

func TestRegistry_Build_AllSucceed(t *testing.T) {
	r := newTestRegistry()
	results := r.Build([]types.PoolDescriptor{
		{Name: "plate", ModelPath: "/models/plate.bin", ModelType: 1, ObjectThresh: 0.5},
		{Name: "gauge", ModelPath: "/models/gauge.bin", ModelType: 5, ObjectThresh: 0.6},
	})
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("unexpected build error for %+v: %v", res.Descriptor, res.Err)
		}
	}
	if len(r.AllPoolStatuses()) != 2 {
		t.Fatalf("expected 2 live pools, got %d", len(r.AllPoolStatuses()))
	}
}

func TestRegistry_Build_DuplicateTypeSkipped(t *testing.T) {
	r := newTestRegistry()
	results := r.Build([]types.PoolDescriptor{
		{Name: "a", ModelPath: "/x", ModelType: 1, ObjectThresh: 0.5},
		{Name: "b", ModelPath: "/y", ModelType: 1, ObjectThresh: 0.5},
	})
	if results[1].Err == nil {
		t.Fatalf("expected duplicate model_type to be rejected")
	}
	if len(r.AllPoolStatuses()) != 1 {
		t.Fatalf("expected only first descriptor registered")
	}
}

func TestRegistry_Build_PartialFailureContinues(t *testing.T) {
	r := newTestRegistry()
	results := r.Build([]types.PoolDescriptor{
		{Name: "bad", ModelPath: "/x", ModelType: 1, ObjectThresh: 1.5},
		{Name: "good", ModelPath: "/y", ModelType: 2, ObjectThresh: 0.5},
	})
	if results[0].Err == nil {
		t.Fatalf("expected out-of-range threshold to fail Init")
	}
	if results[1].Err != nil {
		t.Fatalf("expected second descriptor to succeed despite first failing: %v", results[1].Err)
	}
	if _, ok := r.Lookup(1); ok {
		t.Fatalf("failed descriptor must not be registered")
	}
	if _, ok := r.Lookup(2); !ok {
		t.Fatalf("expected model_type 2 registered")
	}
}

func TestRegistry_ControlSurface(t *testing.T) {
	r := newTestRegistry()
	r.Build([]types.PoolDescriptor{{Name: "a", ModelPath: "/x", ModelType: 1, ObjectThresh: 0.5}})

	if ok := r.SetModelEnabled(1, false); !ok {
		t.Fatalf("expected SetModelEnabled to find pool")
	}
	enabled, ok := r.IsModelEnabled(1)
	if !ok || enabled {
		t.Fatalf("expected pool 1 disabled, got enabled=%v ok=%v", enabled, ok)
	}
	if ok := r.SetModelEnabled(99, true); ok {
		t.Fatalf("expected unknown model type to report not-found")
	}

	status, ok := r.PoolStatus(1)
	if !ok || status.Total != 2 {
		t.Fatalf("unexpected status: %+v ok=%v", status, ok)
	}
	if _, ok := r.PoolStatus(99); ok {
		t.Fatalf("expected not-found for unknown model type")
	}
}

func TestRegistry_Shutdown_Idempotent(t *testing.T) {
	r := newTestRegistry()
	r.Build([]types.PoolDescriptor{{Name: "a", ModelPath: "/x", ModelType: 1, ObjectThresh: 0.5}})
	r.Shutdown()
	r.Shutdown() // must not panic
	status, _ := r.PoolStatus(1)
	if status.Total != 0 {
		t.Fatalf("expected pool drained after shutdown: %+v", status)
	}
}
