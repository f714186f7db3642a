package pool

import "inferd/pkg/types"

// Kernel is the abstract inference-kernel capability the core requires
// (spec.md §6.4). It is consumed by exactly one Instance at a time; no
// assumption beyond single-threaded access per instance is made.
type Kernel interface {
	// Construct loads the model and prepares the accelerator context for
	// the given variant. Returning an error leaves the kernel unusable;
	// the caller must not call any other method afterward.
	Construct(path string, variant int, modelType int, threshold float64) error
	// SetInput populates the per-call input fields. startValue/endValue are
	// meaningful only for the gauge variant (modelType 5); other model
	// types ignore them.
	SetInput(image []byte, startValue, endValue float64)
	// Infer runs the model against the current input. false indicates a
	// kernel-side failure; result fields are undefined in that case.
	Infer() bool
	// TakeResults consumes and returns the accumulated results, clearing
	// internal result storage as a side effect.
	TakeResults() (detections []types.DetectionRow, plates []string, gaugeValue *float64)
	// Close releases resources held by the kernel. Idempotent.
	Close() error
}

// KernelFactory constructs a fresh, unconstructed Kernel. Pool.Init calls
// this once per instance it builds.
type KernelFactory func() Kernel
