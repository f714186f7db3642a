// Package pool implements the model instance abstraction and the
// bounded model pool: a fixed-size set of hardware-backed instances
// of one model type, checked out and returned under strict FIFO fairness.
//
// Split into small files by concern, following the project's convention:
//
//   - kernel.go: the abstract inference-kernel capability consumed by an
//     Instance (construct/setInput/infer/takeResults/close).
//   - kernel_stub.go: a no-op kernel used where no real accelerator backend
//     is wired in; mirrors the source's always-out-of-scope kernel.
//   - instance.go: Instance, the non-thread-safe handle around one kernel.
//   - pool.go: Pool, its invariants, and the acquire/release/
//     setEnabled/status/shutdown contract from spec §4.1.
//   - waiter.go: the explicit FIFO waiter queue acquire blocks on.
//   - errors.go: the sentinel errors acquire/release/init can return.
//   - events.go / eventpub_memory.go / eventpub_log.go: lifecycle event
//     observability — EventPublisher plus an in-memory sink for tests and
//     a zerolog-backed sink for the running gateway.
//
// Callers outside this package should only use Pool's exported methods;
// Instance and kernel details are implementation.
package pool
