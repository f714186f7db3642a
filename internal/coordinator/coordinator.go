// Package coordinator implements the inference coordinator (spec.md
// §4.2): the sole entry point that resolves a pool, acquires an instance,
// drives one inference call, and maps every exit path onto the core error
// taxonomy. Front-ends (HTTP, RPC) call only ExecuteInference; neither
// knows the per-model-type post-processing rules.
//
// Implements the ensure → acquire → infer → release sequence, with the
// release always happening on every exit, generalized to the fixed-pool,
// no-eviction model of this system.
package coordinator

import (
	"context"
	"errors"
	"time"

	"inferd/internal/apierr"
	"inferd/internal/pool"
	"inferd/internal/registry"
	"inferd/pkg/types"
)

// plateModelTypes are the model types whose results include plate reads
// (spec.md §4.2 step 6).
const (
	plateModelTypeA = 1
	plateModelTypeB = 4
	gaugeModelType  = 5
)

// Coordinator drives one inference request end to end.
type Coordinator struct {
	registry *registry.Registry
}

func New(reg *registry.Registry) *Coordinator {
	return &Coordinator{registry: reg}
}

// ExecuteInference implements spec.md §4.2's algorithm verbatim. The
// acquired instance is released on every exit path, success or failure.
func (c *Coordinator) ExecuteInference(ctx context.Context, req types.InferenceRequest) (types.InferenceResponse, error) {
	start := time.Now()

	p, ok := c.registry.Lookup(req.ModelType)
	if !ok {
		return types.InferenceResponse{}, apierr.New(apierr.UnknownModel, "no pool registered for model type %d", req.ModelType)
	}
	if !p.Enabled() {
		return types.InferenceResponse{}, apierr.New(apierr.Disabled, "model type %d is disabled", req.ModelType)
	}

	timeout := time.Duration(req.TimeoutMillis) * time.Millisecond
	if req.TimeoutMillis <= 0 {
		timeout = -1 // pool.Acquire treats <0 as "use the pool's configured default"
	}

	inst, err := p.Acquire(ctx, timeout)
	if err != nil {
		switch {
		case errors.Is(err, pool.ErrTimeout):
			return types.InferenceResponse{}, apierr.New(apierr.Busy, "no instance available for model type %d within timeout", req.ModelType)
		case errors.Is(err, pool.ErrDisabled):
			return types.InferenceResponse{}, apierr.New(apierr.Disabled, "model type %d is disabled", req.ModelType)
		case errors.Is(err, pool.ErrShutdown):
			return types.InferenceResponse{}, apierr.New(apierr.Disabled, "model type %d is shutting down", req.ModelType)
		default:
			return types.InferenceResponse{}, apierr.New(apierr.Internal, "acquire failed: %v", err)
		}
	}

	inst.SetInput(req.Image, req.StartValue, req.EndValue)
	if !inst.Infer() {
		p.Release(inst)
		return types.InferenceResponse{}, apierr.New(apierr.InferenceFailed, "kernel reported inference failure for model type %d", req.ModelType)
	}

	detections, plates, gaugeValue := inst.TakeResults()
	p.Release(inst)

	resp := types.InferenceResponse{
		Detections:    detections,
		ElapsedMillis: time.Since(start).Milliseconds(),
	}
	switch req.ModelType {
	case plateModelTypeA, plateModelTypeB:
		resp.Plates = plates
	case gaugeModelType:
		resp.GaugeValue = gaugeValue
	}
	return resp, nil
}
