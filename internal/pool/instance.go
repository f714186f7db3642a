package pool

import "inferd/pkg/types"

// Instance is an opaque handle holding one loaded model plus per-call
// scratch state (spec.md §3). It carries no identity beyond its pool
// membership and is not safe for concurrent use: at most one caller may be
// executing SetInput/Infer/TakeResults on it at a time, which the owning
// Pool guarantees by handing out at most one reference at a time.
type Instance struct {
	kernel Kernel
}

func newInstance(k Kernel) *Instance {
	return &Instance{kernel: k}
}

// SetInput populates per-call input fields ahead of Infer.
func (i *Instance) SetInput(image []byte, startValue, endValue float64) {
	i.kernel.SetInput(image, startValue, endValue)
}

// Infer runs the model; false means a kernel-side failure.
func (i *Instance) Infer() bool {
	return i.kernel.Infer()
}

// TakeResults consumes and returns the current result state.
func (i *Instance) TakeResults() ([]types.DetectionRow, []string, *float64) {
	return i.kernel.TakeResults()
}

// clearScratch drops any per-call state the instance may still hold. Called
// by Pool.Release before an instance re-enters the available queue, so a
// future holder never observes a prior caller's leftovers.
func (i *Instance) clearScratch() {
	i.kernel.SetInput(nil, 0, 0)
}

func (i *Instance) close() error {
	return i.kernel.Close()
}
