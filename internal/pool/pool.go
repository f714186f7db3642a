package pool

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Pool is a bounded set of instances for one model type: acquire/release
// with timeout, an enable flag, and observability counters (spec.md §3/§4.1).
type Pool struct {
	maxSize int

	mu        sync.Mutex
	all       map[*Instance]struct{}
	available []*Instance
	waiters   *list.List // of *waiter, front = longest-waiting
	enabled   bool
	shutdown  bool

	path      string
	variant   int
	modelType int
	threshold float64

	defaultAcquireTimeout time.Duration
	kernelFactory         KernelFactory
	publisher             EventPublisher

	acquires uint64
	releases uint64
	timeouts uint64
}

// New constructs an uninitialized pool. maxSize is the intended cardinality
// bound. defaultAcquireTimeout is used whenever Acquire is called
// with a negative timeout (spec.md §4.1 edge case).
func New(maxSize int, defaultAcquireTimeout time.Duration, factory KernelFactory, publisher EventPublisher) *Pool {
	if factory == nil {
		factory = NewStubKernelFactory()
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &Pool{
		maxSize:               maxSize,
		all:                   make(map[*Instance]struct{}, maxSize),
		waiters:               list.New(),
		defaultAcquireTimeout: defaultAcquireTimeout,
		kernelFactory:         factory,
		publisher:             publisher,
	}
}

// Init constructs exactly maxSize instances for modelType (variant =
// modelType mod 3) from path and threshold, and enables the pool. On any
// per-instance construction failure, every partially constructed instance
// is closed and the pool is left empty and disabled (spec.md §4.1). Calling
// Init on a pool that already holds instances or has been shut down returns
// an error without touching pool state; a pool whose Init failed holds no
// instances and accepts another Init.
func (p *Pool) Init(path string, modelType int, threshold float64) error {
	p.mu.Lock()
	if p.shutdown || len(p.all) > 0 {
		p.mu.Unlock()
		return fmt.Errorf("pool: already initialized")
	}
	p.mu.Unlock()

	if threshold < 0 || threshold > 1 {
		return &InitError{Index: 0, Err: fmt.Errorf("threshold %v out of [0,1]", threshold)}
	}
	variant := modelType % 3

	built := make([]*Instance, 0, p.maxSize)
	for idx := 0; idx < p.maxSize; idx++ {
		k := p.kernelFactory()
		if err := k.Construct(path, variant, modelType, threshold); err != nil {
			for _, inst := range built {
				_ = inst.close()
			}
			return &InitError{Index: idx, Err: err}
		}
		built = append(built, newInstance(k))
	}

	p.mu.Lock()
	p.path, p.variant, p.modelType, p.threshold = path, variant, modelType, threshold
	for _, inst := range built {
		p.all[inst] = struct{}{}
	}
	p.available = append(p.available, built...)
	p.enabled = true
	p.mu.Unlock()

	p.publisher.Publish(Event{Name: "pool_init", Fields: map[string]any{"model_type": modelType, "size": p.maxSize}})
	return nil
}

// Acquire checks out an instance, suspending the caller if none is
// immediately available. timeout<0 uses the pool's configured default;
// timeout==0 is a single non-blocking check. ctx cancellation while waiting
// is modeled as Timeout (see DESIGN.md, Open Question resolutions).
func (p *Pool) Acquire(ctx context.Context, timeout time.Duration) (*Instance, error) {
	atomic.AddUint64(&p.acquires, 1)

	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return nil, ErrShutdown
	}
	if !p.enabled {
		p.mu.Unlock()
		return nil, ErrDisabled
	}
	if n := len(p.available); n > 0 {
		inst := p.available[n-1]
		p.available = p.available[:n-1]
		p.mu.Unlock()
		return inst, nil
	}
	if timeout == 0 {
		p.mu.Unlock()
		atomic.AddUint64(&p.timeouts, 1)
		return nil, ErrTimeout
	}
	if timeout < 0 {
		timeout = p.defaultAcquireTimeout
	}
	w := newWaiter()
	el := p.waiters.PushBack(w)
	p.mu.Unlock()

	var timerC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerC = timer.C
	}

	select {
	case out := <-w.ch:
		if out.err != nil {
			return nil, out.err
		}
		return out.inst, nil
	case <-ctx.Done():
		atomic.AddUint64(&p.timeouts, 1)
		p.abandonWaiter(el, w)
		return nil, ErrTimeout
	case <-timerC:
		atomic.AddUint64(&p.timeouts, 1)
		p.abandonWaiter(el, w)
		return nil, ErrTimeout
	}
}

// removeWaiter drops el from the waiter list if it is still queued, and
// reports whether it did. It returns false when a concurrent Release has
// already popped el and is sending (or has sent) on w.ch — the caller no
// longer owns el once this returns false.
func (p *Pool) removeWaiter(el *list.Element) bool {
	p.mu.Lock()
	for e := p.waiters.Front(); e != nil; e = e.Next() {
		if e == el {
			p.waiters.Remove(e)
			p.mu.Unlock()
			return true
		}
	}
	p.mu.Unlock()
	return false
}

// abandonWaiter handles a waiter whose Acquire gave up on timeout or context
// cancellation. If the waiter is still queued, removing it is enough — no
// Release will ever find it there. But if a concurrent Release already won
// the race and popped it (removeWaiter returns false), that Release has sent
// (or is about to send) an instance on w.ch that nobody will read; draining it here
// and handing the instance back to the pool is what keeps
// |acquired|+|available|=|all|, instead of leaking the instance forever.
func (p *Pool) abandonWaiter(el *list.Element, w *waiter) {
	if p.removeWaiter(el) {
		return
	}
	out := <-w.ch
	if out.err == nil {
		p.reclaim(out.inst)
	}
}

// reclaim returns an instance recovered by abandonWaiter to circulation: to
// the next queued waiter if one exists, to the available set otherwise, or
// closed outright if the pool has since shut down.
func (p *Pool) reclaim(inst *Instance) {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		_ = inst.close()
		return
	}
	inst.clearScratch()
	if el := p.waiters.Front(); el != nil {
		w := p.waiters.Remove(el).(*waiter)
		p.mu.Unlock()
		w.ch <- waitOutcome{inst: inst}
		return
	}
	p.available = append(p.available, inst)
	p.mu.Unlock()
}

// Release returns a previously acquired instance. Preconditions: handle was
// produced by a prior Acquire from this pool.
func (p *Pool) Release(inst *Instance) {
	if inst == nil {
		return
	}
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		_ = inst.close()
		atomic.AddUint64(&p.releases, 1)
		return
	}
	if _, ok := p.all[inst]; !ok {
		p.mu.Unlock()
		p.publisher.Publish(Event{Name: "release_unknown_instance_dropped"})
		return
	}
	inst.clearScratch()
	if el := p.waiters.Front(); el != nil {
		w := p.waiters.Remove(el).(*waiter)
		p.mu.Unlock()
		w.ch <- waitOutcome{inst: inst}
		atomic.AddUint64(&p.releases, 1)
		return
	}
	p.available = append(p.available, inst)
	p.mu.Unlock()
	atomic.AddUint64(&p.releases, 1)
}

// SetEnabled toggles the enabled flag. It wakes no waiters on either edge:
// a false->true edge has nobody to re-evaluate, because Acquire checks the
// flag and joins the waiter queue under the same lock. Disabling never
// cancels outstanding holders.
func (p *Pool) SetEnabled(flag bool) {
	p.mu.Lock()
	edge := !p.enabled && flag
	p.enabled = flag
	p.mu.Unlock()
	// Queued waiters are unaffected by this edge: Acquire rejects with
	// ErrDisabled before a caller ever joins the waiter queue, so nobody
	// waiting here got in while disabled. They keep waiting for an
	// instance exactly as before (see DESIGN.md, Open Question 3).
	if edge {
		p.publisher.Publish(Event{Name: "pool_enabled"})
	} else if !flag {
		p.publisher.Publish(Event{Name: "pool_disabled"})
	}
}

// Enabled reports the current enabled flag.
func (p *Pool) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Status returns a mutually consistent snapshot (spec.md §4.1).
func (p *Pool) Status() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := len(p.all)
	avail := len(p.available)
	return Snapshot{
		Total:     total,
		Available: avail,
		Busy:      total - avail,
		Enabled:   p.enabled,
		Path:      p.path,
		Variant:   p.variant,
		ModelType: p.modelType,
		Threshold: p.threshold,
	}
}

// Counters returns the monotonic acquires/releases/timeouts triple.
func (p *Pool) Counters() (acquires, releases, timeouts uint64) {
	return atomic.LoadUint64(&p.acquires), atomic.LoadUint64(&p.releases), atomic.LoadUint64(&p.timeouts)
}

// Shutdown is idempotent. It latches shutdown=true, wakes every waiter with
// ErrShutdown, closes every idle instance, and empties both collections.
// Instances still held at this instant are closed later, by their own
// Release call observing shutdown (spec.md §4.1).
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return
	}
	p.shutdown = true
	for _, inst := range p.available {
		_ = inst.close()
	}
	p.available = nil
	p.all = make(map[*Instance]struct{})
	waiters := p.waiters
	p.waiters = list.New()
	p.mu.Unlock()

	for e := waiters.Front(); e != nil; e = e.Next() {
		w := e.Value.(*waiter)
		w.ch <- waitOutcome{err: ErrShutdown}
	}
	p.publisher.Publish(Event{Name: "pool_shutdown"})
}

// Snapshot is the read-only projection returned by Status().
type Snapshot struct {
	Total     int
	Available int
	Busy      int
	Enabled   bool
	Path      string
	Variant   int
	ModelType int
	Threshold float64
}
