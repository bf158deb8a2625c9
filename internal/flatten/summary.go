// Package flatten reshapes raw test result documents into flat tabular
// views: one summary row per load, one time-series row per (load,
// timestamp), and one container row per (load, container, pod, timestamp).
// Metrics absent from a document flatten to zero; they never drop a row.
package flatten

import (
	"sort"

	"github.com/rubenvp8510/perf-tests-tempo/internal/models"
)

// SummaryRow is one load configuration with every scalar metric flattened
// and derived fields precomputed.
type SummaryRow struct {
	LoadName string

	// Ingestion rates. MBPerSec is the configured target, MBPerSecActual
	// the measured rate derived from bytes/sec.
	MBPerSec       float64
	MBPerSecActual float64
	GBPerDay       float64
	BytesPerSec    float64

	// Query latencies in milliseconds.
	P50Ms        float64
	P90Ms        float64
	P99Ms        float64
	AvgLatencyMs float64

	CPUCores               float64
	CPUMillicores          float64
	MaxCPUCores            float64
	MaxCPUMillicores       float64
	MinCPUCores            float64
	MinCPUMillicores       float64
	SustainedCPU           float64
	SustainedCPUMillicores float64

	AvgMemoryGB  float64
	MemoryGB     float64 // max memory, kept under the legacy column name
	MaxMemoryGB  float64
	MinMemoryGB  float64
	PeakMemoryGB float64

	RecommendedCPU           float64
	RecommendedCPUMillicores float64
	RecommendedMemoryGB      float64

	SpansPerSec      float64
	ErrorRate        float64
	DroppedSpans     float64
	DiscardedSpans   float64
	AvgSpansReturned float64

	ActualQPS float64
	TargetQPS float64

	// Efficiency is actual/target throughput as a percentage, 0 when no
	// target is configured. QPSEfficiency is the same for queries; the
	// HTML layer renders it as N/A when target QPS is 0.
	Efficiency    float64
	QPSEfficiency float64
}

// BuildSummary flattens one row per document, sorted ascending by target
// MB/s. The sort is stable, so documents with equal targets keep their
// input (filename) order.
func BuildSummary(results []models.TestResult) []SummaryRow {
	rows := make([]SummaryRow, 0, len(results))
	for i := range results {
		rows = append(rows, summarize(&results[i]))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MBPerSec < rows[j].MBPerSec
	})
	return rows
}

func summarize(r *models.TestResult) SummaryRow {
	m := &r.Metrics

	bytesPerSec := m.Throughput.BytesPerSecond
	mbActual := bytesPerSec / (1024 * 1024)

	// MB/s * 86400 s/day / 1024 MB/GB
	gbPerDay := mbActual * 86400 / 1024

	row := SummaryRow{
		LoadName:       r.Name(),
		MBPerSec:       r.Config.MBPerSec,
		MBPerSecActual: mbActual,
		GBPerDay:       gbPerDay,
		BytesPerSec:    bytesPerSec,

		P50Ms:        m.QueryLatencies.P50Seconds * 1000,
		P90Ms:        m.QueryLatencies.P90Seconds * 1000,
		P99Ms:        m.QueryLatencies.P99Seconds * 1000,
		AvgLatencyMs: m.QueryLatencies.AvgSeconds * 1000,

		CPUCores:               m.Resources.AvgCPUCores,
		CPUMillicores:          m.Resources.AvgCPUCores * 1000,
		MaxCPUCores:            m.Resources.MaxCPUCores,
		MaxCPUMillicores:       m.Resources.MaxCPUCores * 1000,
		MinCPUCores:            m.Resources.MinCPUCores,
		MinCPUMillicores:       m.Resources.MinCPUCores * 1000,
		SustainedCPU:           m.Resources.SustainedCPUCores,
		SustainedCPUMillicores: m.Resources.SustainedCPUCores * 1000,

		AvgMemoryGB:  m.Resources.AvgMemoryGB,
		MemoryGB:     m.Resources.MaxMemoryGB,
		MaxMemoryGB:  m.Resources.MaxMemoryGB,
		MinMemoryGB:  m.Resources.MinMemoryGB,
		PeakMemoryGB: m.Resources.PeakMemoryGB,

		RecommendedCPU:           m.ResourceRecommendations.CPUCores,
		RecommendedCPUMillicores: m.ResourceRecommendations.CPUCores * 1000,
		RecommendedMemoryGB:      m.ResourceRecommendations.MemoryGB,

		SpansPerSec:      m.Throughput.SpansPerSecond,
		ErrorRate:        m.Errors.ErrorRatePercent,
		DroppedSpans:     m.Errors.DroppedSpansPerSecond,
		DiscardedSpans:   m.Errors.DiscardedSpansPerSecond,
		AvgSpansReturned: m.QueryResults.AvgSpansReturned,

		ActualQPS: m.QueryResults.ActualQPS,
		TargetQPS: r.Config.TargetQPS,
	}

	if row.MBPerSec > 0 {
		row.Efficiency = row.MBPerSecActual / row.MBPerSec * 100
	}
	if row.TargetQPS > 0 {
		row.QPSEfficiency = row.ActualQPS / row.TargetQPS * 100
	}
	return row
}
