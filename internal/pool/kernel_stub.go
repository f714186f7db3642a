package pool

import "inferd/pkg/types"

// stubKernel is a deterministic, dependency-free Kernel used when no real
// accelerator backend is wired in: default builds stay free of any
// hardware/CGO dependency, and failing loudly is preferable to mocking a
// result. Here there is nothing to fail at construct time since the
// kernel contract is entirely abstract (spec.md §6.4); the stub simply
// echoes a deterministic, empty-but-successful result so the pool/coordinator
// machinery above it is fully exercisable without real hardware.
type stubKernel struct {
	threshold float64
	variant   int
	modelType int

	image      []byte
	startValue float64
	endValue   float64
}

// NewStubKernelFactory returns a KernelFactory producing stubKernel
// instances, the default used when no real kernel is configured.
func NewStubKernelFactory() KernelFactory {
	return func() Kernel { return &stubKernel{} }
}

func (k *stubKernel) Construct(path string, variant int, modelType int, threshold float64) error {
	k.variant = variant
	k.modelType = modelType
	k.threshold = threshold
	return nil
}

func (k *stubKernel) SetInput(image []byte, startValue, endValue float64) {
	k.image = image
	k.startValue = startValue
	k.endValue = endValue
}

func (k *stubKernel) Infer() bool {
	return len(k.image) > 0
}

func (k *stubKernel) TakeResults() ([]types.DetectionRow, []string, *float64) {
	defer func() { k.image = nil }()
	var plates []string
	var gauge *float64
	switch k.modelType {
	case 1, 4:
		plates = []string{}
	case 5:
		v := k.endValue - k.startValue
		gauge = &v
	}
	return []types.DetectionRow{}, plates, gauge
}

func (k *stubKernel) Close() error { return nil }
