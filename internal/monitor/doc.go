// Package monitor implements the concurrency monitor: atomic
// active/total/failed request counters kept independently per front-end
// protocol (HTTP and RPC each get their own instance, spec.md §4.3), plus
// the Prometheus gauges/counters that expose them. SetEnabled gates
// counting entirely, for general.concurrency.enable_concurrency_monitoring.
//
// Grounded on internal/httpapi/metrics.go's counter-vec style, generalized
// from per-route label cardinality to one monitor per protocol.
package monitor
