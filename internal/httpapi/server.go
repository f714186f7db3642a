package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inferd/internal/apierr"
	"inferd/pkg/types"
)

// Service is everything the HTTP front-end needs from the core (spec.md
// §4.2/§4.5): run one inference, and read/toggle pool state for the status
// and model_config endpoints.
type Service interface {
	ExecuteInference(ctx context.Context, req types.InferenceRequest) (types.InferenceResponse, error)
	SetModelEnabled(modelType int, enabled bool) bool
	IsModelEnabled(modelType int) (bool, bool)
	PoolStatus(modelType int) (types.PoolStatus, bool)
	AllPoolStatuses() map[int]types.PoolStatus
	ConcurrencyStats() types.MonitorStats
	// FrontEndStatus reports whether this front-end and the other protocol
	// front-end are currently listening, for GET /api/status/system.
	FrontEndStatus() (httpRunning, grpcRunning bool)
	ConcurrencyConfig() types.ConcurrencyConfigView
}

// NewMux builds the HTTP router for the gateway's REST surface (spec.md
// §6.2). CORS, compression, and request-id middleware follow the same
// chi wiring used across the gateway's other endpoints.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Route("/api/model", func(r chi.Router) {
		r.Post("/inference", handleInference(svc))
		r.Get("/inference", handleInference(svc))
		r.Post("/model_config/{name}", handleModelConfig(svc))
		r.Get("/model_config/{name}", handleModelConfig(svc))
	})

	r.Route("/api/status", func(r chi.Router) {
		r.Get("/system", handleStatusSystem(svc))
		r.Get("/models", handleStatusModels(svc))
		r.Get("/concurrency", handleStatusConcurrency(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// inferenceRequestFromHTTP decodes + validates the wire request, mapping
// failures onto BadImage/BadRequest (spec.md §7).
func inferenceRequestFromHTTP(w http.ResponseWriter, r *http.Request) (types.InferenceRequest, error) {
	var body types.InferenceHTTPRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return types.InferenceRequest{}, apierr.New(apierr.BadRequest, "invalid JSON body: %v", err)
	}
	if body.ModelType <= 0 {
		return types.InferenceRequest{}, apierr.New(apierr.BadRequest, "modelType is required and must be > 0")
	}
	image, err := base64.StdEncoding.DecodeString(body.Img)
	if err != nil || len(image) == 0 {
		return types.InferenceRequest{}, apierr.New(apierr.BadImage, "img must be non-empty base64")
	}
	return types.InferenceRequest{
		ModelType:     body.ModelType,
		Image:         image,
		StartValue:    body.StartValue,
		EndValue:      body.EndValue,
		TimeoutMillis: body.Timeout,
	}, nil
}

func handleInference(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lvl := requestLogLevel(r)
		start := time.Now()

		req, err := inferenceRequestFromHTTP(w, r)
		if err != nil {
			writeCoreError(w, err)
			return
		}

		reqCtx := r.Context()
		if inferTimeout > 0 {
			deadlineCtx, cancelDeadline := context.WithTimeout(serverBaseCtx, time.Duration(inferTimeout)*time.Second)
			defer cancelDeadline()
			var cancelJoin context.CancelFunc
			reqCtx, cancelJoin = joinContexts(deadlineCtx, r.Context())
			defer cancelJoin()
		}

		resp, err := svc.ExecuteInference(reqCtx, req)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			writeCoreError(w, err)
			logInferOutcome(r, lvl, start, err)
			return
		}

		out := types.InferenceHTTPResponse{
			Status:           "success",
			DetectResults:    resp.Detections,
			PlateResults:     resp.Plates,
			DetectType:       req.ModelType,
			ProcessingTimeMs: resp.ElapsedMillis,
			GaugeValue:       resp.GaugeValue,
		}
		if stats := svc.ConcurrencyStats(); true {
			out.ConcurrencyInfo = &stats
		}
		_ = json.NewEncoder(w).Encode(out)
		logInferOutcome(r, lvl, start, nil)
	}
}

func logInferOutcome(r *http.Request, lvl LogLevel, start time.Time, err error) {
	if lvl < LevelInfo {
		return
	}
	dur := time.Since(start)
	if zlog == nil {
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Dur("dur", dur)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z.Err(err).Msg("inference end")
		return
	}
	z.Msg("inference end")
}

func handleModelConfig(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		modelType, err := strconv.Atoi(r.URL.Query().Get("modelType"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "modelType query parameter is required")
			return
		}

		if r.Method == http.MethodPost {
			isEnabledStr := r.URL.Query().Get("isEnabled")
			enabled, err := strconv.ParseBool(isEnabledStr)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "isEnabled query parameter must be true/false")
				return
			}
			if current, ok := svc.IsModelEnabled(modelType); ok && current == enabled {
				if zlog != nil {
					zlog.Debug().Int("modelType", modelType).Bool("enabled", enabled).Msg("model_config: already in requested state")
				}
			}
			if !svc.SetModelEnabled(modelType, enabled) {
				writeJSONError(w, http.StatusNotFound, "unknown model type")
				return
			}
		}

		status, ok := svc.PoolStatus(modelType)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "unknown model type")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.ModelConfigResponse{
			Status:    "success",
			ModelName: name,
			ModelType: modelType,
			Enabled:   status.Enabled,
			Pool: types.PoolInfo{
				Total:     status.Total,
				Available: status.Available,
				Busy:      status.Busy,
			},
		})
	}
}

func handleStatusSystem(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := svc.AllPoolStatuses()
		summary := make([]types.PoolSummary, 0, len(statuses))
		for t, s := range statuses {
			summary = append(summary, types.PoolSummary{
				ModelType: t,
				Enabled:   s.Enabled,
				Total:     s.Total,
				Available: s.Available,
				Busy:      s.Busy,
			})
		}
		stats := svc.ConcurrencyStats()
		httpRunning, grpcRunning := svc.FrontEndStatus()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.SystemStatusResponse{
			Status:            "ok",
			HTTPServerRunning: httpRunning,
			GRPCServerRunning: grpcRunning,
			TotalModelPools:   len(statuses),
			ConcurrencyConfig: svc.ConcurrencyConfig(),
			HTTPStats: types.MonitorStatsView{
				Active:      stats.Active,
				Total:       stats.Total,
				Failed:      stats.Failed,
				FailureRate: stats.FailureRate(),
			},
			ModelPoolsSummary: summary,
		})
	}
}

func handleStatusModels(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := svc.AllPoolStatuses()
		out := make(map[string]types.ModelPoolStatusEntry, len(statuses))
		for t, s := range statuses {
			out[strconv.Itoa(t)] = types.ModelPoolStatusEntry{
				ModelType: t,
				Enabled:   s.Enabled,
				ModelPath: s.Path,
				Threshold: s.Threshold,
				Pool: types.PoolInfo{
					Total:     s.Total,
					Available: s.Available,
					Busy:      s.Busy,
				},
				Efficiency: types.Efficiency{
					UtilizationRate:  s.UtilizationRate(),
					AvailabilityRate: s.AvailabilityRate(),
				},
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.ModelPoolsStatusResponse{Status: "ok", ModelPools: out})
	}
}

func handleStatusConcurrency(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := svc.ConcurrencyStats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.ConcurrencyStatsResponse{
			Status:    "ok",
			Timestamp: time.Now().Unix(),
			HTTPConcurrency: types.HTTPConcurrency{
				Active:      stats.Active,
				Total:       stats.Total,
				Failed:      stats.Failed,
				Succeeded:   stats.Total - stats.Failed,
				FailureRate: stats.FailureRate(),
				SuccessRate: stats.SuccessRate(),
			},
			Combined: types.CombinedStats{
				TotalActive:        stats.Active,
				TotalProcessed:     stats.Total,
				TotalFailed:        stats.Failed,
				OverallFailureRate: stats.FailureRate(),
			},
		})
	}
}
