// Package registry implements the pool registry: a map from model
// type to pool, built once during startup, read concurrently thereafter,
// and torn down once during shutdown. It also hosts the thin control
// surface described in spec.md §4.5, since those operations are
// "thin wrappers around pool primitives with read-side locking at the
// registry level".
//
// Grounded on original_source/include/app/ApplicationManager.h's
// modelPools_ (unordered_map<int, unique_ptr<ModelPool>> guarded by a
// shared_mutex) — the direct analogue of a Go map guarded by sync.RWMutex.
package registry

import (
	"fmt"
	"sync"
	"time"

	"inferd/internal/pool"
	"inferd/pkg/types"
)

// Registry maps model type to its pool. Identity of a pool is its model
// type; duplicate types in a source descriptor list are rejected (second
// occurrence skipped with a warning).
type Registry struct {
	mu    sync.RWMutex
	pools map[int]*pool.Pool

	poolSize              int
	defaultAcquireTimeout time.Duration
	kernelFactory         pool.KernelFactory
	publisher             pool.EventPublisher
}

// New constructs an empty registry. poolSize is the per-pool instance
// count (general.concurrency.model_pool_size); defaultAcquireTimeout
// backs general.concurrency.model_acquire_timeout_ms.
func New(poolSize int, defaultAcquireTimeout time.Duration, factory pool.KernelFactory, publisher pool.EventPublisher) *Registry {
	return &Registry{
		pools:                 make(map[int]*pool.Pool),
		poolSize:              poolSize,
		defaultAcquireTimeout: defaultAcquireTimeout,
		kernelFactory:         factory,
		publisher:             publisher,
	}
}

// BuildResult reports, per descriptor, whether its pool was built.
type BuildResult struct {
	Descriptor types.PoolDescriptor
	Err        error
}

// Build constructs a pool per descriptor in list order (spec.md §4.4 step
// 3). A duplicate model type is skipped with a warning recorded in the
// result; a construction failure is local to that descriptor — Build
// continues with the rest. Partial success is acceptable.
func (r *Registry) Build(descriptors []types.PoolDescriptor) []BuildResult {
	results := make([]BuildResult, 0, len(descriptors))
	for _, d := range descriptors {
		r.mu.RLock()
		_, exists := r.pools[d.ModelType]
		r.mu.RUnlock()
		if exists {
			results = append(results, BuildResult{Descriptor: d, Err: fmt.Errorf("model_type %d already registered, skipping", d.ModelType)})
			continue
		}
		p := pool.New(r.poolSize, r.defaultAcquireTimeout, r.kernelFactory, r.publisher)
		if err := p.Init(d.ModelPath, d.ModelType, d.ObjectThresh); err != nil {
			results = append(results, BuildResult{Descriptor: d, Err: err})
			continue
		}
		r.mu.Lock()
		r.pools[d.ModelType] = p
		r.mu.Unlock()
		results = append(results, BuildResult{Descriptor: d})
	}
	return results
}

// Lookup returns the pool for modelType, dropping the registry lock before
// returning so callers never hold it across a (possibly blocking) pool
// Acquire (spec.md §5).
func (r *Registry) Lookup(modelType int) (*pool.Pool, bool) {
	r.mu.RLock()
	p, ok := r.pools[modelType]
	r.mu.RUnlock()
	return p, ok
}

// SetModelEnabled toggles the pool for modelType. Returns false if no such
// pool exists.
func (r *Registry) SetModelEnabled(modelType int, enabled bool) bool {
	p, ok := r.Lookup(modelType)
	if !ok {
		return false
	}
	p.SetEnabled(enabled)
	return true
}

// IsModelEnabled reports whether the pool for modelType is enabled.
func (r *Registry) IsModelEnabled(modelType int) (bool, bool) {
	p, ok := r.Lookup(modelType)
	if !ok {
		return false, false
	}
	return p.Enabled(), true
}

// PoolStatus returns the status snapshot for one pool.
func (r *Registry) PoolStatus(modelType int) (types.PoolStatus, bool) {
	p, ok := r.Lookup(modelType)
	if !ok {
		return types.PoolStatus{}, false
	}
	return toStatus(p.Status()), true
}

// AllPoolStatuses returns a snapshot for every live pool, keyed by model
// type. Pools that failed Init are absent (spec.md §8).
func (r *Registry) AllPoolStatuses() map[int]types.PoolStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int]types.PoolStatus, len(r.pools))
	for t, p := range r.pools {
		out[t] = toStatus(p.Status())
	}
	return out
}

// Shutdown tears down every pool exactly once (spec.md §4.4 shutdown
// ordering: called after front-ends have stopped accepting new work).
func (r *Registry) Shutdown() {
	r.mu.Lock()
	pools := make([]*pool.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.mu.Unlock()
	for _, p := range pools {
		p.Shutdown()
	}
}

func toStatus(s pool.Snapshot) types.PoolStatus {
	return types.PoolStatus{
		ModelType: s.ModelType,
		Enabled:   s.Enabled,
		Path:      s.Path,
		Variant:   s.Variant,
		Threshold: s.Threshold,
		Total:     s.Total,
		Available: s.Available,
		Busy:      s.Busy,
	}
}
