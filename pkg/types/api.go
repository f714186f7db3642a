package types

// InferenceHTTPRequest is the JSON body of POST/GET /api/model/inference.
type InferenceHTTPRequest struct {
	// Base64-encoded image bytes.
	Img string `json:"img"`
	// Positive integer selecting the target model pool.
	// example: 1
	ModelType int `json:"modelType" example:"1"`
	// Optional per-request acquire timeout in milliseconds.
	// example: 3000
	Timeout int `json:"timeout,omitempty" example:"3000"`
	// Optional gauge-variant range start; ignored by other model types.
	StartValue float64 `json:"startValue,omitempty"`
	// Optional gauge-variant range end; ignored by other model types.
	EndValue float64 `json:"endValue,omitempty"`
}

// InferenceHTTPResponse is the JSON body returned by /api/model/inference.
type InferenceHTTPResponse struct {
	// Always "success"; a failed request is answered with ErrorResponse instead.
	// example: success
	Status string `json:"status" example:"success"`
	// Human-readable detail; the HTTP front-end leaves it empty.
	Message string `json:"message,omitempty"`
	// Best-effort width of the decoded image; image decoding is outside
	// this core's scope, so this is 0 unless a front-end chooses to fill it.
	ImageWidth int `json:"image_width"`
	ImageHeight int `json:"image_height"`
	// Per-row detection cells.
	DetectResults []DetectionRow `json:"detect_results,omitempty"`
	// License-plate strings, present only for modelType 1 or 4.
	PlateResults []string `json:"plate_results,omitempty"`
	// Echoes the requested model type.
	DetectType int `json:"detect_type"`
	// Wall-clock time spent inside executeInference, in milliseconds.
	ProcessingTimeMs int64 `json:"processing_time_ms"`
	// Optional gauge reading, present only for modelType 5.
	GaugeValue *float64 `json:"gauge_value,omitempty"`
	// Optional point-in-time concurrency snapshot.
	ConcurrencyInfo *MonitorStats `json:"concurrency_info,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// example: model pool disabled
	Error string `json:"error" example:"model pool disabled"`
	// example: 503
	Code int `json:"code" example:"503"`
}

// ModelConfigResponse is returned by both GET and POST
// /api/model/model_config/{name}.
type ModelConfigResponse struct {
	Status    string `json:"status"`
	ModelName string `json:"model_name"`
	ModelType int    `json:"model_type"`
	Enabled   bool   `json:"enabled"`
	Message   string `json:"message,omitempty"`
	Pool      PoolInfo `json:"pool_info"`
}

// PoolInfo is the compact pool-shape block shared by several status responses.
type PoolInfo struct {
	Total     int `json:"total_models"`
	Available int `json:"available_models"`
	Busy      int `json:"busy_models"`
}

// SystemStatusResponse is returned by GET /api/status/system.
type SystemStatusResponse struct {
	Status             string                `json:"status"`
	HTTPServerRunning  bool                  `json:"http_server_running"`
	GRPCServerRunning  bool                  `json:"grpc_server_running"`
	TotalModelPools    int                   `json:"total_model_pools"`
	ConcurrencyConfig  ConcurrencyConfigView `json:"concurrency_config"`
	HTTPStats          MonitorStatsView      `json:"http_stats"`
	ModelPoolsSummary  []PoolSummary         `json:"model_pools_summary"`
}

// ConcurrencyConfigView mirrors general.concurrency.* from the config document.
type ConcurrencyConfigView struct {
	MaxConcurrentRequests int  `json:"max_concurrent_requests"`
	ModelPoolSize         int  `json:"model_pool_size"`
	RequestTimeoutMs      int  `json:"request_timeout_ms"`
	ModelAcquireTimeoutMs int  `json:"model_acquire_timeout_ms"`
	MonitoringEnabled     bool `json:"monitoring_enabled"`
}

// MonitorStatsView adds the failure_rate derived field to MonitorStats.
type MonitorStatsView struct {
	Active      int64   `json:"active_requests"`
	Total       int64   `json:"total_requests"`
	Failed      int64   `json:"failed_requests"`
	FailureRate float64 `json:"failure_rate"`
}

// PoolSummary is one row of the model_pools_summary array.
type PoolSummary struct {
	ModelType int  `json:"model_type"`
	Enabled   bool `json:"enabled"`
	Total     int  `json:"total_models"`
	Available int  `json:"available_models"`
	Busy      int  `json:"busy_models"`
}

// ModelPoolsStatusResponse is returned by GET /api/status/models.
type ModelPoolsStatusResponse struct {
	Status     string                      `json:"status"`
	ModelPools map[string]ModelPoolStatusEntry `json:"model_pools"`
}

// ModelPoolStatusEntry is one value of ModelPoolsStatusResponse.ModelPools.
type ModelPoolStatusEntry struct {
	ModelType int        `json:"model_type"`
	Enabled   bool       `json:"enabled"`
	ModelPath string     `json:"model_path"`
	Threshold float64    `json:"threshold"`
	Pool      PoolInfo   `json:"pool_info"`
	Efficiency Efficiency `json:"efficiency"`
}

// Efficiency carries the supplemented utilization/availability fields
// (SPEC_FULL.md §13).
type Efficiency struct {
	UtilizationRate  float64 `json:"utilization_rate"`
	AvailabilityRate float64 `json:"availability_rate"`
}

// ConcurrencyStatsResponse is returned by GET /api/status/concurrency.
type ConcurrencyStatsResponse struct {
	Status          string           `json:"status"`
	Timestamp       int64            `json:"timestamp"`
	HTTPConcurrency HTTPConcurrency  `json:"http_concurrency"`
	Combined        CombinedStats    `json:"combined_stats"`
}

// HTTPConcurrency is the http_concurrency block of ConcurrencyStatsResponse.
type HTTPConcurrency struct {
	Active      int64   `json:"active_requests"`
	Total       int64   `json:"total_requests"`
	Failed      int64   `json:"failed_requests"`
	Succeeded   int64   `json:"success_requests"`
	FailureRate float64 `json:"failure_rate"`
	SuccessRate float64 `json:"success_rate"`
}

// CombinedStats is the combined_stats block of ConcurrencyStatsResponse.
type CombinedStats struct {
	TotalActive        int64   `json:"total_active"`
	TotalProcessed      int64  `json:"total_processed"`
	TotalFailed         int64  `json:"total_failed"`
	OverallFailureRate  float64 `json:"overall_failure_rate"`
}
