// Package lifecycle implements the singleton lifecycle manager
// (spec.md §4.4): an idempotent Init/Shutdown state machine orchestrating
// logger -> monitors -> config -> registry -> protocol front-ends startup,
// and the reverse order on shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"

	"inferd/internal/config"
	"inferd/internal/coordinator"
	"inferd/internal/httpapi"
	"inferd/internal/logging"
	"inferd/internal/monitor"
	"inferd/internal/pool"
	"inferd/internal/registry"
	"inferd/internal/rpcapi"
	"inferd/pkg/types"

	"github.com/rs/zerolog"
)

// State is the lifecycle manager's state machine position (spec.md §4.4).
type State int

const (
	Uninitialized State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Manager owns the whole process's runtime dependency graph. Exactly one
// Manager is expected per process, but nothing here enforces that beyond
// convention: each call to New returns an independent manager.
type Manager struct {
	mu    sync.Mutex
	state State

	cfg      config.Config
	logger   zerolog.Logger
	httpMon  *monitor.Counters
	rpcMon   *monitor.Counters
	registry *registry.Registry
	coord    *coordinator.Coordinator

	httpSrv  *http.Server
	grpcSrv  *grpc.Server
	grpcLis  net.Listener

	httpRunning atomic.Bool
	grpcRunning atomic.Bool
	baseCancel  context.CancelFunc
}

// New constructs an unstarted manager.
func New() *Manager {
	return &Manager{state: Uninitialized}
}

// Init executes the startup ordering from spec.md §4.4 steps 1-4. A second
// call is a no-op returning success=true with a warning logged, matching
// "Re-initialization is not supported".
func (m *Manager) Init(cfgPath string) (success bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Uninitialized {
		m.logger.Warn().Msg("lifecycle: Init called again, ignoring")
		return true, nil
	}

	cfg, loadErr := config.Load(cfgPath)
	m.cfg = cfg
	m.logger = logging.Init(logging.Options{
		LogToFile: cfg.General.LogToFile,
		LogDir:    cfg.General.LogFilePath,
		MinLevel:  logging.ParseLevel(cfg.General.LogLevel),
	})
	if loadErr != nil {
		m.logger.Warn().Err(loadErr).Msg("config load failed, continuing with defaults")
	}
	httpapi.SetLogger(m.logger)

	baseCtx, baseCancel := context.WithCancel(context.Background())
	m.baseCancel = baseCancel
	httpapi.SetBaseContext(baseCtx)

	concurrency := cfg.General.Concurrency
	if ms := concurrency.RequestTimeoutMillis; ms > 0 {
		httpapi.SetInferTimeoutSeconds(int64(math.Ceil(float64(ms) / 1000.0)))
	} else {
		httpapi.SetInferTimeoutSeconds(0)
	}
	httpapi.SetCORSOptions(cfg.General.CORS.Enabled, cfg.General.CORS.AllowedOrigins, cfg.General.CORS.AllowedMethods, cfg.General.CORS.AllowedHeaders)

	m.httpMon = monitor.New("http")
	m.rpcMon = monitor.New("rpc")
	m.httpMon.SetEnabled(concurrency.EnableConcurrencyMonitoring)
	m.rpcMon.SetEnabled(concurrency.EnableConcurrencyMonitoring)

	descriptors, warnings := cfg.PoolDescriptors()
	for _, w := range warnings {
		m.logger.Warn().Str("model", w.Name).Err(w.Err).Msg("dropping invalid model descriptor")
	}

	// The real inference kernel is outside this core's scope (spec.md
	// §6.4); the registry drives every pool from the stub kernel until a
	// build-tagged real implementation is wired in.
	m.registry = registry.New(
		cfg.General.Concurrency.ModelPoolSize,
		time.Duration(cfg.General.Concurrency.ModelAcquireTimeoutMillis)*time.Millisecond,
		pool.NewStubKernelFactory(),
		pool.NewLogPublisher(m.logger),
	)
	buildResults := m.registry.Build(descriptors)
	liveCount := 0
	for _, r := range buildResults {
		if r.Err != nil {
			m.logger.Error().Str("model", r.Descriptor.Name).Err(r.Err).Msg("pool init failed, continuing")
			continue
		}
		liveCount++
	}
	m.coord = coordinator.New(m.registry)

	m.startFrontEnds()

	m.state = Running
	m.logger.Info().Int("live_pools", liveCount).Int("total_descriptors", len(descriptors)).Msg("lifecycle: Running")
	return true, nil
}

// concurrencyConfigView projects the loaded config's concurrency block onto
// the wire-facing shape both front-ends report from GET .../status/system.
func (m *Manager) concurrencyConfigView() types.ConcurrencyConfigView {
	c := m.cfg.General.Concurrency
	return types.ConcurrencyConfigView{
		MaxConcurrentRequests: c.MaxConcurrentRequests,
		ModelPoolSize:         c.ModelPoolSize,
		RequestTimeoutMs:      c.RequestTimeoutMillis,
		ModelAcquireTimeoutMs: c.ModelAcquireTimeoutMillis,
		MonitoringEnabled:     c.EnableConcurrencyMonitoring,
	}
}

func (m *Manager) startFrontEnds() {
	concCfg := m.concurrencyConfigView()
	svc := &coordinatorService{
		coord: m.coord, registry: m.registry, mon: m.httpMon,
		httpRunning: &m.httpRunning, grpcRunning: &m.grpcRunning, concurrencyCfg: concCfg,
	}
	mux := httpapi.NewMux(svc)
	addr := fmt.Sprintf("%s:%d", m.cfg.General.HTTPServer.Host, m.cfg.General.HTTPServer.Port)
	m.httpSrv = &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: time.Duration(m.cfg.General.HTTPServer.ReadTimeout) * time.Second,
	}
	httpLis, err := net.Listen("tcp", addr)
	if err != nil {
		m.logger.Error().Err(err).Msg("http listen failed, HTTP surface disabled")
	} else {
		m.httpRunning.Store(true)
		go func() {
			if err := m.httpSrv.Serve(httpLis); err != nil && err != http.ErrServerClosed {
				m.logger.Error().Err(err).Msg("http server error")
			}
			m.httpRunning.Store(false)
		}()
	}

	grpcAddr := fmt.Sprintf("%s:%d", m.cfg.General.GRPCServer.Host, m.cfg.General.GRPCServer.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		m.logger.Error().Err(err).Msg("grpc listen failed, RPC surface disabled")
		return
	}
	m.grpcLis = lis
	m.grpcSrv = grpc.NewServer()
	rpcSvc := &coordinatorService{
		coord: m.coord, registry: m.registry, mon: m.rpcMon,
		httpRunning: &m.httpRunning, grpcRunning: &m.grpcRunning, concurrencyCfg: concCfg,
	}
	rpcapi.RegisterAll(m.grpcSrv, rpcSvc)
	m.grpcRunning.Store(true)
	go func() {
		if err := m.grpcSrv.Serve(lis); err != nil {
			m.logger.Error().Err(err).Msg("grpc server error")
		}
		m.grpcRunning.Store(false)
	}()
}

// Shutdown executes the reverse-order teardown from spec.md §4.4:
// front-ends first, then pools, then monitors, then the logger. Idempotent.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Running {
		return nil
	}

	if m.httpSrv != nil {
		_ = m.httpSrv.Shutdown(ctx)
	}
	if m.grpcSrv != nil {
		m.grpcSrv.GracefulStop()
	}
	if m.baseCancel != nil {
		m.baseCancel()
	}
	if m.registry != nil {
		m.registry.Shutdown()
	}
	finalHTTP := m.httpMon.Stats()
	finalRPC := m.rpcMon.Stats()
	m.logger.Info().
		Int64("http_total", finalHTTP.Total).Int64("rpc_total", finalRPC.Total).
		Msg("lifecycle: final concurrency snapshot")

	_ = logging.Shutdown()
	m.state = Stopped
	return nil
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// coordinatorService adapts the coordinator+registry+monitor trio to the
// httpapi.Service and rpcapi.Service interfaces, and is where
// requestStarted/Completed/Failed get wired around ExecuteInference.
type coordinatorService struct {
	coord    *coordinator.Coordinator
	registry *registry.Registry
	mon      *monitor.Counters

	httpRunning    *atomic.Bool
	grpcRunning    *atomic.Bool
	concurrencyCfg types.ConcurrencyConfigView
}

func (s *coordinatorService) ExecuteInference(ctx context.Context, req types.InferenceRequest) (types.InferenceResponse, error) {
	s.mon.RequestStarted()
	resp, err := s.coord.ExecuteInference(ctx, req)
	if err != nil {
		s.mon.RequestFailed()
		return resp, err
	}
	s.mon.RequestCompleted()
	return resp, nil
}

func (s *coordinatorService) SetModelEnabled(modelType int, enabled bool) bool {
	return s.registry.SetModelEnabled(modelType, enabled)
}

func (s *coordinatorService) IsModelEnabled(modelType int) (bool, bool) {
	return s.registry.IsModelEnabled(modelType)
}

func (s *coordinatorService) PoolStatus(modelType int) (types.PoolStatus, bool) {
	return s.registry.PoolStatus(modelType)
}

func (s *coordinatorService) AllPoolStatuses() map[int]types.PoolStatus {
	return s.registry.AllPoolStatuses()
}

func (s *coordinatorService) ConcurrencyStats() types.MonitorStats {
	return s.mon.Stats()
}

// FrontEndStatus reports whether the HTTP and gRPC listeners are actually
// bound, reading the same atomics startFrontEnds flips on bind/exit —
// shared between the two coordinatorService instances so either front-end
// can report on both (spec.md §13's system-status summary).
func (s *coordinatorService) FrontEndStatus() (httpRunning, grpcRunning bool) {
	return s.httpRunning.Load(), s.grpcRunning.Load()
}

func (s *coordinatorService) ConcurrencyConfig() types.ConcurrencyConfigView {
	return s.concurrencyCfg
}
