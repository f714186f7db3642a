package monitor

import (
	"sync/atomic"

	"inferd/pkg/types"
)

// Counters tracks in-flight, cumulative, and failed request counts for one
// protocol front-end (spec.md §4.3). Two independent instances exist in
// a running gateway: one for HTTP, one for RPC — they never share state,
// so a failure storm on one transport cannot skew the other's numbers.
type Counters struct {
	protocol string

	enabled atomic.Bool
	active  int64
	total   int64
	failed  int64
}

// New constructs a Counters for the named protocol ("http" or "rpc"),
// used only as a Prometheus label — it has no effect on counting logic.
// Enabled by default; see SetEnabled.
func New(protocol string) *Counters {
	c := &Counters{protocol: protocol}
	c.enabled.Store(true)
	return c
}

// SetEnabled gates RequestStarted/Completed/Failed: when disabled, a
// request leaves no trace in the counters or the Prometheus vectors, per
// general.concurrency.enable_concurrency_monitoring (spec.md §6.1).
// Stats() still returns whatever was accumulated before the flag flipped.
func (c *Counters) SetEnabled(flag bool) {
	c.enabled.Store(flag)
}

// RequestStarted marks the beginning of a request: active and total both
// advance together so total is always >= active at any instant.
func (c *Counters) RequestStarted() {
	if !c.enabled.Load() {
		return
	}
	atomic.AddInt64(&c.active, 1)
	atomic.AddInt64(&c.total, 1)
	requestsActive.WithLabelValues(c.protocol).Inc()
	requestsTotal.WithLabelValues(c.protocol).Inc()
}

// RequestCompleted marks successful completion: active decrements, failed
// is untouched.
func (c *Counters) RequestCompleted() {
	if !c.enabled.Load() {
		return
	}
	atomic.AddInt64(&c.active, -1)
	requestsActive.WithLabelValues(c.protocol).Dec()
}

// RequestFailed marks a failed completion: active decrements and failed
// advances. A request is either Completed or Failed, never both.
func (c *Counters) RequestFailed() {
	if !c.enabled.Load() {
		return
	}
	atomic.AddInt64(&c.active, -1)
	atomic.AddInt64(&c.failed, 1)
	requestsActive.WithLabelValues(c.protocol).Dec()
	requestsFailed.WithLabelValues(c.protocol).Inc()
}

// Stats returns a point-in-time snapshot of the three counters.
func (c *Counters) Stats() types.MonitorStats {
	return types.MonitorStats{
		Active: atomic.LoadInt64(&c.active),
		Total:  atomic.LoadInt64(&c.total),
		Failed: atomic.LoadInt64(&c.failed),
	}
}
