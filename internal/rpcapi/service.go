package rpcapi

import (
	"context"
	"encoding/base64"
	"errors"

	"inferd/internal/apierr"
	"inferd/pkg/types"
)

// Service is everything the RPC front-end needs from the core — the same
// shape as httpapi.Service, kept as an independent interface so the two
// transports never have to agree on an import cycle.
type Service interface {
	ExecuteInference(ctx context.Context, req types.InferenceRequest) (types.InferenceResponse, error)
	SetModelEnabled(modelType int, enabled bool) bool
	IsModelEnabled(modelType int) (bool, bool)
	PoolStatus(modelType int) (types.PoolStatus, bool)
	AllPoolStatuses() map[int]types.PoolStatus
	ConcurrencyStats() types.MonitorStats
	FrontEndStatus() (httpRunning, grpcRunning bool)
	ConcurrencyConfig() types.ConcurrencyConfigView
}

// aiModelServer implements the AIModelService method bodies.
type aiModelServer struct {
	svc Service
}

// processImage maps core errors per spec.md §6.3: UnknownModel surfaces as
// a real gRPC error (NOT_FOUND), bad args as INVALID_ARGUMENT, but
// Disabled/Busy are OK responses with success=false — the soft-failure
// distinction apierr.IsSoftFailure exists to express.
func (s *aiModelServer) processImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil || len(image) == 0 {
		return nil, apierr.New(apierr.BadImage, "image_base64 must be non-empty base64").GRPCError()
	}

	resp, err := s.svc.ExecuteInference(ctx, types.InferenceRequest{
		ModelType:     int(req.ModelType),
		Image:         image,
		StartValue:    req.StartValue,
		EndValue:      req.EndValue,
		TimeoutMillis: int(req.TimeoutMs),
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			if apierr.IsSoftFailure(ae.Kind) {
				return &ImageResponse{Success: false, Message: ae.Msg, Code: int32(ae.Kind)}, nil
			}
			return nil, ae.GRPCError()
		}
		return nil, err
	}

	out := &ImageResponse{
		Success:          true,
		DetectionResults: toDetectionValues(resp.Detections),
		PlateResults:     resp.Plates,
		ElapsedMs:        resp.ElapsedMillis,
	}
	if resp.GaugeValue != nil {
		out.GaugeValue = *resp.GaugeValue
		out.HasGaugeValue = true
	}
	return out, nil
}

func (s *aiModelServer) controlModel(ctx context.Context, req *ModelControlRequest) (*ModelControlResponse, error) {
	if req.ModelName == "" || req.ModelType <= 0 {
		return nil, apierr.New(apierr.BadRequest, "model_name and a positive model_type are required").GRPCError()
	}
	if !s.svc.SetModelEnabled(int(req.ModelType), req.Enabled) {
		return nil, apierr.New(apierr.UnknownModel, "no pool registered for model type %d", req.ModelType).GRPCError()
	}
	return &ModelControlResponse{Success: true, ModelName: req.ModelName, Enabled: req.Enabled}, nil
}

// statusServer implements the StatusService method bodies.
type statusServer struct {
	svc Service
}

func (s *statusServer) getSystemStatus(ctx context.Context, _ *StatusRequest) (*SystemStatusResponse, error) {
	statuses := s.svc.AllPoolStatuses()
	summary := make([]PoolSummary, 0, len(statuses))
	for t, st := range statuses {
		summary = append(summary, PoolSummary{
			ModelType: int32(t), Enabled: st.Enabled,
			Total: int32(st.Total), Available: int32(st.Available), Busy: int32(st.Busy),
		})
	}
	httpRunning, grpcRunning := s.svc.FrontEndStatus()
	cfg := s.svc.ConcurrencyConfig()
	return &SystemStatusResponse{
		Status:            "ok",
		HTTPServerRunning: httpRunning,
		GRPCServerRunning: grpcRunning,
		TotalModelPools:   int32(len(statuses)),
		ConcurrencyConfig: ConcurrencyConfigView{
			MaxConcurrentRequests: int32(cfg.MaxConcurrentRequests),
			ModelPoolSize:         int32(cfg.ModelPoolSize),
			RequestTimeoutMs:      int32(cfg.RequestTimeoutMs),
			ModelAcquireTimeoutMs: int32(cfg.ModelAcquireTimeoutMs),
			MonitoringEnabled:     cfg.MonitoringEnabled,
		},
		ModelPoolsSummary: summary,
	}, nil
}

func (s *statusServer) getModelPoolsStatus(ctx context.Context, _ *StatusRequest) (*ModelPoolsStatusResponse, error) {
	statuses := s.svc.AllPoolStatuses()
	entries := make([]ModelPoolStatusEntry, 0, len(statuses))
	for t, st := range statuses {
		entries = append(entries, ModelPoolStatusEntry{
			ModelType: int32(t), Enabled: st.Enabled, ModelPath: st.Path, Threshold: st.Threshold,
			Total: int32(st.Total), Available: int32(st.Available), Busy: int32(st.Busy),
			UtilizationRate:  st.UtilizationRate(),
			AvailabilityRate: st.AvailabilityRate(),
		})
	}
	return &ModelPoolsStatusResponse{Status: "ok", ModelPools: entries}, nil
}

func (s *statusServer) getConcurrencyStats(ctx context.Context, _ *StatusRequest) (*ConcurrencyStatsResponse, error) {
	stats := s.svc.ConcurrencyStats()
	return &ConcurrencyStatsResponse{
		Status:      "ok",
		Active:      stats.Active,
		Total:       stats.Total,
		Failed:      stats.Failed,
		Succeeded:   stats.Total - stats.Failed,
		FailureRate: stats.FailureRate(),
		SuccessRate: stats.SuccessRate(),
	}, nil
}
