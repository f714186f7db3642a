package rpcapi

import "inferd/pkg/types"

// CellValue is the gob-friendly wire projection of types.Cell: unlike the
// JSON surface (which collapses a Cell to a bare number/string/null),
// gob has no tagged-union primitive, so the Kind travels alongside the
// three typed fields explicitly.
type CellValue struct {
	Kind   types.CellKind
	Int    int64
	Float  float64
	String string
}

// DetectionValues mirrors one detection row as a slice of CellValue, the
// gob-friendly equivalent of the protobuf "repeated Value" shape spec.md
// §6.3 describes for ImageResponse.detection_results.
type DetectionValues struct {
	Cells []CellValue
}

// ImageRequest is AIModelService.ProcessImage's request (spec.md §6.3).
type ImageRequest struct {
	ImageBase64 string
	ModelType   int32
	StartValue  float64
	EndValue    float64
	TimeoutMs   int32
}

// ImageResponse is AIModelService.ProcessImage's response.
type ImageResponse struct {
	Success         bool
	Message         string
	Code            int32
	DetectionResults []DetectionValues
	PlateResults    []string
	GaugeValue      float64
	HasGaugeValue   bool
	ElapsedMs       int64
}

// ModelControlRequest is AIModelService.ControlModel's request.
type ModelControlRequest struct {
	ModelName string
	ModelType int32
	Enabled   bool
}

// ModelControlResponse is AIModelService.ControlModel's response.
type ModelControlResponse struct {
	Success   bool
	Message   string
	ModelName string
	Enabled   bool
}

// StatusRequest is the (empty) request shared by all StatusService methods.
type StatusRequest struct{}

// SystemStatusResponse mirrors types.SystemStatusResponse for the RPC wire.
type SystemStatusResponse struct {
	Status            string
	HTTPServerRunning bool
	GRPCServerRunning bool
	TotalModelPools   int32
	ConcurrencyConfig ConcurrencyConfigView
	ModelPoolsSummary []PoolSummary
}

// ConcurrencyConfigView mirrors types.ConcurrencyConfigView for the RPC wire.
type ConcurrencyConfigView struct {
	MaxConcurrentRequests int32
	ModelPoolSize         int32
	RequestTimeoutMs      int32
	ModelAcquireTimeoutMs int32
	MonitoringEnabled     bool
}

// PoolSummary mirrors types.PoolSummary.
type PoolSummary struct {
	ModelType int32
	Enabled   bool
	Total     int32
	Available int32
	Busy      int32
}

// ModelPoolsStatusResponse mirrors types.ModelPoolsStatusResponse.
type ModelPoolsStatusResponse struct {
	Status     string
	ModelPools []ModelPoolStatusEntry
}

// ModelPoolStatusEntry mirrors types.ModelPoolStatusEntry, keyed by
// ModelType instead of a map (gob handles maps fine, but a slice keeps
// this message shape closer to a protobuf "repeated" field).
type ModelPoolStatusEntry struct {
	ModelType        int32
	Enabled          bool
	ModelPath        string
	Threshold        float64
	Total            int32
	Available        int32
	Busy             int32
	UtilizationRate  float64
	AvailabilityRate float64
}

// ConcurrencyStatsResponse mirrors types.ConcurrencyStatsResponse.
type ConcurrencyStatsResponse struct {
	Status      string
	Timestamp   int64
	Active      int64
	Total       int64
	Failed      int64
	Succeeded   int64
	FailureRate float64
	SuccessRate float64
}

func toDetectionValues(rows []types.DetectionRow) []DetectionValues {
	out := make([]DetectionValues, 0, len(rows))
	for _, row := range rows {
		cells := make([]CellValue, 0, len(row))
		for _, cell := range row {
			cells = append(cells, CellValue{Kind: cell.Kind, Int: cell.I, Float: cell.F, String: cell.S})
		}
		out = append(out, DetectionValues{Cells: cells})
	}
	return out
}
