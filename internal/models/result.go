package models

// TimeSeriesPoint is a single (timestamp, value) sample. Timestamps are
// epoch seconds as written by the metrics exporter.
type TimeSeriesPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// TimeSeries holds the per-metric sample series of one test run. Any series
// may be absent; absent series decode to nil and are treated as empty.
type TimeSeries struct {
	CPUCores                []TimeSeriesPoint `json:"cpu_cores"`
	MemoryGB                []TimeSeriesPoint `json:"memory_gb"`
	SpansPerSecond          []TimeSeriesPoint `json:"spans_per_second"`
	BytesPerSecond          []TimeSeriesPoint `json:"bytes_per_second"`
	P50LatencySeconds       []TimeSeriesPoint `json:"p50_latency_seconds"`
	P90LatencySeconds       []TimeSeriesPoint `json:"p90_latency_seconds"`
	P99LatencySeconds       []TimeSeriesPoint `json:"p99_latency_seconds"`
	QueryFailuresPerSecond  []TimeSeriesPoint `json:"query_failures_per_second"`
	DroppedSpansPerSecond   []TimeSeriesPoint `json:"dropped_spans_per_second"`
	DiscardedSpansPerSecond []TimeSeriesPoint `json:"discarded_spans_per_second"`
	AvgSpansReturned        []TimeSeriesPoint `json:"avg_spans_returned"`
	QPS                     []TimeSeriesPoint `json:"qps"`
}

// ContainerSeries is the sample series of one container within one pod.
type ContainerSeries struct {
	Container string            `json:"container"`
	Pod       string            `json:"pod"`
	Values    []TimeSeriesPoint `json:"values"`
}

// PerContainer holds per-container CPU and memory series for one test run.
type PerContainer struct {
	CPUCores []ContainerSeries `json:"cpu_cores"`
	MemoryGB []ContainerSeries `json:"memory_gb"`
}

// LoadConfig is the configured target rates of a load scenario.
type LoadConfig struct {
	MBPerSec  float64 `json:"mb_per_sec"`
	TargetQPS float64 `json:"target_qps"`
}

// Throughput holds measured ingestion rates.
type Throughput struct {
	BytesPerSecond float64 `json:"bytes_per_second"`
	SpansPerSecond float64 `json:"spans_per_second"`
}

// QueryLatencies holds query latency percentiles in seconds.
type QueryLatencies struct {
	P50Seconds float64 `json:"p50_seconds"`
	P90Seconds float64 `json:"p90_seconds"`
	P99Seconds float64 `json:"p99_seconds"`
	AvgSeconds float64 `json:"avg_seconds"`
}

// Resources holds aggregated resource usage over the test window.
type Resources struct {
	AvgCPUCores       float64 `json:"avg_cpu_cores"`
	MaxCPUCores       float64 `json:"max_cpu_cores"`
	MinCPUCores       float64 `json:"min_cpu_cores"`
	SustainedCPUCores float64 `json:"sustained_cpu_cores"`
	AvgMemoryGB       float64 `json:"avg_memory_gb"`
	MaxMemoryGB       float64 `json:"max_memory_gb"`
	MinMemoryGB       float64 `json:"min_memory_gb"`
	PeakMemoryGB      float64 `json:"peak_memory_gb"`
}

// ResourceRecommendations holds sizing recommendations derived by the
// framework (sustained usage plus a safety margin).
type ResourceRecommendations struct {
	CPUCores float64 `json:"cpu_cores"`
	MemoryGB float64 `json:"memory_gb"`
}

// ErrorCounters holds error rates observed during the run.
type ErrorCounters struct {
	ErrorRatePercent        float64 `json:"error_rate_percent"`
	DroppedSpansPerSecond   float64 `json:"dropped_spans_per_second"`
	DiscardedSpansPerSecond float64 `json:"discarded_spans_per_second"`
}

// QueryResults holds aggregate query statistics.
type QueryResults struct {
	ActualQPS        float64 `json:"actual_qps"`
	AvgSpansReturned float64 `json:"avg_spans_returned"`
}

// Metrics is the measured portion of a TestResult. Every block is optional
// in the JSON; absent blocks decode to zero values.
type Metrics struct {
	Throughput              Throughput              `json:"throughput"`
	QueryLatencies          QueryLatencies          `json:"query_latencies"`
	Resources               Resources               `json:"resources"`
	ResourceRecommendations ResourceRecommendations `json:"resource_recommendations"`
	Errors                  ErrorCounters           `json:"errors"`
	QueryResults            QueryResults            `json:"query_results"`
}

// TestResult is one raw result document, one per load configuration.
type TestResult struct {
	LoadName     string        `json:"load_name"`
	Config       LoadConfig    `json:"config"`
	Metrics      Metrics       `json:"metrics"`
	TimeSeries   *TimeSeries   `json:"timeseries,omitempty"`
	PerContainer *PerContainer `json:"per_container,omitempty"`
}

// Name returns the load name, or "unknown" for documents without one.
func (r *TestResult) Name() string {
	if r.LoadName == "" {
		return "unknown"
	}
	return r.LoadName
}

// HasTimeSeries reports whether the document carries a usable time-series
// block. The CPU series is the timestamp axis, so a block without CPU
// samples contributes no time-series rows.
func (r *TestResult) HasTimeSeries() bool {
	return r.TimeSeries != nil && len(r.TimeSeries.CPUCores) > 0
}

// HasPerContainer reports whether the document carries per-container data.
func (r *TestResult) HasPerContainer() bool {
	return r.PerContainer != nil && (len(r.PerContainer.CPUCores) > 0 || len(r.PerContainer.MemoryGB) > 0)
}
