package rpcapi

import (
	"context"
	"encoding/base64"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"inferd/internal/apierr"
	"inferd/pkg/types"
)

type mockService struct {
	inferResp   types.InferenceResponse
	inferErr    error
	enabled     map[int]bool
	statuses    map[int]types.PoolStatus
	stats       types.MonitorStats
	httpRunning bool
	grpcRunning bool
	concCfg     types.ConcurrencyConfigView
}

func (m *mockService) ExecuteInference(ctx context.Context, req types.InferenceRequest) (types.InferenceResponse, error) {
	return m.inferResp, m.inferErr
}
func (m *mockService) SetModelEnabled(modelType int, enabled bool) bool {
	if _, ok := m.enabled[modelType]; !ok {
		return false
	}
	m.enabled[modelType] = enabled
	return true
}
func (m *mockService) IsModelEnabled(modelType int) (bool, bool) {
	v, ok := m.enabled[modelType]
	return v, ok
}
func (m *mockService) PoolStatus(modelType int) (types.PoolStatus, bool) {
	s, ok := m.statuses[modelType]
	return s, ok
}
func (m *mockService) AllPoolStatuses() map[int]types.PoolStatus { return m.statuses }
func (m *mockService) ConcurrencyStats() types.MonitorStats      { return m.stats }
func (m *mockService) FrontEndStatus() (bool, bool)              { return m.httpRunning, m.grpcRunning }
func (m *mockService) ConcurrencyConfig() types.ConcurrencyConfigView {
	return m.concCfg
}

func TestProcessImage_Success(t *testing.T) {
	svc := &mockService{inferResp: types.InferenceResponse{ElapsedMillis: 3}}
	s := &aiModelServer{svc: svc}
	img := base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8})
	resp, err := s.processImage(context.Background(), &ImageRequest{ImageBase64: img, ModelType: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success: %+v", resp)
	}
}

func TestProcessImage_BadImage(t *testing.T) {
	svc := &mockService{}
	s := &aiModelServer{svc: svc}
	_, err := s.processImage(context.Background(), &ImageRequest{ImageBase64: "", ModelType: 1})
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestProcessImage_SoftFailureMapsToSuccessFalse(t *testing.T) {
	svc := &mockService{inferErr: apierr.New(apierr.Busy, "all busy")}
	s := &aiModelServer{svc: svc}
	img := base64.StdEncoding.EncodeToString([]byte{0xFF})
	resp, err := s.processImage(context.Background(), &ImageRequest{ImageBase64: img, ModelType: 1})
	if err != nil {
		t.Fatalf("expected OK status with success=false, got transport error: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected success=false for Busy")
	}
}

func TestProcessImage_UnknownModelIsTransportError(t *testing.T) {
	svc := &mockService{inferErr: apierr.New(apierr.UnknownModel, "no pool")}
	s := &aiModelServer{svc: svc}
	img := base64.StdEncoding.EncodeToString([]byte{0xFF})
	_, err := s.processImage(context.Background(), &ImageRequest{ImageBase64: img, ModelType: 99})
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		t.Fatalf("expected NotFound transport error, got %v", err)
	}
}

func TestControlModel_UnknownModel(t *testing.T) {
	svc := &mockService{enabled: map[int]bool{}}
	s := &aiModelServer{svc: svc}
	_, err := s.controlModel(context.Background(), &ModelControlRequest{ModelName: "cam1", ModelType: 42})
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestControlModel_BadArgsRejectedBeforeLookup(t *testing.T) {
	svc := &mockService{enabled: map[int]bool{42: true}}
	s := &aiModelServer{svc: svc}

	cases := []*ModelControlRequest{
		{ModelName: "", ModelType: 42},
		{ModelName: "cam1", ModelType: 0},
		{ModelName: "cam1", ModelType: -1},
	}
	for _, req := range cases {
		_, err := s.controlModel(context.Background(), req)
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.InvalidArgument {
			t.Fatalf("request %+v: expected InvalidArgument, got %v", req, err)
		}
	}
}

func TestGetSystemStatus(t *testing.T) {
	svc := &mockService{statuses: map[int]types.PoolStatus{1: {ModelType: 1, Enabled: true, Total: 2, Available: 2}}}
	s := &statusServer{svc: svc}
	resp, err := s.getSystemStatus(context.Background(), &StatusRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalModelPools != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetSystemStatus_ReflectsFrontEndAndConfigState(t *testing.T) {
	svc := &mockService{
		statuses:    map[int]types.PoolStatus{1: {ModelType: 1, Enabled: true, Total: 2, Available: 1}},
		httpRunning: false,
		grpcRunning: true,
		concCfg:     types.ConcurrencyConfigView{MaxConcurrentRequests: 16, ModelPoolSize: 2, MonitoringEnabled: true},
	}
	s := &statusServer{svc: svc}
	resp, err := s.getSystemStatus(context.Background(), &StatusRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.HTTPServerRunning || !resp.GRPCServerRunning {
		t.Fatalf("expected http=false grpc=true, got %+v", resp)
	}
	if resp.ConcurrencyConfig.MaxConcurrentRequests != 16 || !resp.ConcurrencyConfig.MonitoringEnabled {
		t.Fatalf("unexpected concurrency config: %+v", resp.ConcurrencyConfig)
	}
}

func TestRegisterAll_RegistersBothServices(t *testing.T) {
	names := RegisterAll(grpc.NewServer(), &mockService{})
	if len(names) != 2 {
		t.Fatalf("expected 2 services registered, got %d: %v", len(names), names)
	}
}
