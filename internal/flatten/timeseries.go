package flatten

import (
	"sort"

	"github.com/rubenvp8510/perf-tests-tempo/internal/models"
)

// TimeSeriesRow is one (load, timestamp) sample with every metric series
// joined by exact timestamp. A metric with no sample at a timestamp
// contributes zero, not a dropped row.
type TimeSeriesRow struct {
	LoadName  string
	Timestamp int64

	// Minute is 1-indexed relative to the load's first sample.
	Minute int

	CPUCores      float64
	CPUMillicores float64
	MemoryGB      float64

	SpansPerSec float64
	BytesPerSec float64

	P50Ms float64
	P90Ms float64
	P99Ms float64

	QueryFailures  float64
	DroppedSpans   float64
	DiscardedSpans float64

	AvgSpansReturned float64
	QPS              float64
	TargetQPS        float64
}

// BuildTimeSeries flattens the time-series blocks of every document into
// rows sorted by (load, timestamp). The CPU series defines the timestamp
// axis per document; documents without CPU samples contribute nothing.
func BuildTimeSeries(results []models.TestResult) []TimeSeriesRow {
	var rows []TimeSeriesRow

	for i := range results {
		r := &results[i]
		if !r.HasTimeSeries() {
			continue
		}
		ts := r.TimeSeries

		cpu := indexByTimestamp(ts.CPUCores)
		memory := indexByTimestamp(ts.MemoryGB)
		spans := indexByTimestamp(ts.SpansPerSecond)
		bytesPS := indexByTimestamp(ts.BytesPerSecond)
		p50 := indexByTimestamp(ts.P50LatencySeconds)
		p90 := indexByTimestamp(ts.P90LatencySeconds)
		p99 := indexByTimestamp(ts.P99LatencySeconds)
		failures := indexByTimestamp(ts.QueryFailuresPerSecond)
		dropped := indexByTimestamp(ts.DroppedSpansPerSecond)
		discarded := indexByTimestamp(ts.DiscardedSpansPerSecond)
		spansReturned := indexByTimestamp(ts.AvgSpansReturned)
		qps := indexByTimestamp(ts.QPS)

		for _, t := range sortedTimestamps(cpu) {
			rows = append(rows, TimeSeriesRow{
				LoadName:         r.Name(),
				Timestamp:        t,
				CPUCores:         cpu[t],
				CPUMillicores:    cpu[t] * 1000,
				MemoryGB:         memory[t],
				SpansPerSec:      spans[t],
				BytesPerSec:      bytesPS[t],
				P50Ms:            p50[t] * 1000,
				P90Ms:            p90[t] * 1000,
				P99Ms:            p99[t] * 1000,
				QueryFailures:    failures[t],
				DroppedSpans:     dropped[t],
				DiscardedSpans:   discarded[t],
				AvgSpansReturned: spansReturned[t],
				QPS:              qps[t],
				TargetQPS:        r.Config.TargetQPS,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].LoadName != rows[j].LoadName {
			return rows[i].LoadName < rows[j].LoadName
		}
		return rows[i].Timestamp < rows[j].Timestamp
	})

	numberMinutes(rows)
	return rows
}

// numberMinutes assigns the relative minute per load group, anchored to the
// group's minimum timestamp. Rows must already be sorted by load and
// timestamp so the first row of each group is the anchor.
func numberMinutes(rows []TimeSeriesRow) {
	var minTS int64
	currentLoad := ""
	for i := range rows {
		if rows[i].LoadName != currentLoad {
			currentLoad = rows[i].LoadName
			minTS = rows[i].Timestamp
		}
		rows[i].Minute = int((rows[i].Timestamp-minTS)/60) + 1
	}
}

// indexByTimestamp builds a timestamp lookup for one series. Duplicate
// timestamps keep the last sample, matching dict construction in the
// exporter's consumers.
func indexByTimestamp(points []models.TimeSeriesPoint) map[int64]float64 {
	m := make(map[int64]float64, len(points))
	for _, p := range points {
		m[p.Timestamp] = p.Value
	}
	return m
}

func sortedTimestamps(m map[int64]float64) []int64 {
	keys := make([]int64, 0, len(m))
	for t := range m {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
