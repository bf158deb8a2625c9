package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
)

func newTestGenerator(t *testing.T, suffix string) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	g, err := NewGenerator(dir, "Test Cluster", suffix)
	require.NoError(t, err)
	return g, dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestWriteSummaryTable(t *testing.T) {
	g, dir := newTestGenerator(t, "")

	rows := []flatten.SummaryRow{
		{
			LoadName:       "small",
			MBPerSec:       10,
			MBPerSecActual: 9.5,
			Efficiency:     95,
			ErrorRate:      0.5,
			ActualQPS:      4.2,
		},
		{
			LoadName:      "large",
			MBPerSec:      100,
			Efficiency:    60,
			ErrorRate:     7,
			TargetQPS:     5,
			ActualQPS:     4,
			QPSEfficiency: 80,
		},
	}
	require.NoError(t, g.WriteSummaryTable(rows))

	html := readFile(t, filepath.Join(dir, "summary.html"))
	assert.Contains(t, html, "Test Cluster")
	assert.Contains(t, html, "<strong>small</strong>")

	// Efficiency and error classes follow the 90/70 and 1/5 thresholds.
	assert.Contains(t, html, `class="metric-good">95.0%`)
	assert.Contains(t, html, `class="metric-bad">60.0%`)
	assert.Contains(t, html, `class="metric-good">0.50%`)
	assert.Contains(t, html, `class="metric-bad">7.00%`)

	// QPS target renders N/A when unconfigured; the actual value still
	// shows.
	assert.Contains(t, html, "<td>N/A</td>")
	assert.Contains(t, html, "<td>5.0</td>")
	assert.Contains(t, html, `class="metric-warn">4.00`)
}

func TestWriteSummaryTableSuffix(t *testing.T) {
	g, dir := newTestGenerator(t, "-ingest")
	require.NoError(t, g.WriteSummaryTable(nil))

	_, err := os.Stat(filepath.Join(dir, "summary-ingest.html"))
	assert.NoError(t, err)
}

func containerFixture() []flatten.ContainerStat {
	stats := []flatten.ContainerStat{
		{
			LoadName: "small", Container: "sidecar", Pod: "pod-0",
			AvgCPUCores: 0.1, AvgCPUMillicores: 100,
			MaxCPUCores: 0.2, MaxCPUMillicores: 200,
		},
		{
			LoadName: "small", Container: "tempo", Pod: "pod-0",
			AvgCPUCores: 0.3, AvgCPUMillicores: 300,
			MaxCPUCores: 0.6, MaxCPUMillicores: 600,
			AvgMemoryGB: 2, MaxMemoryGB: 4,
		},
	}
	for i := range stats {
		stats[i].PodAvgCPUCores = 0.4
		stats[i].PodMaxCPUCores = 0.8
		stats[i].PodAvgMemoryGB = 2
		stats[i].PodMaxMemoryGB = 4
		stats[i].AvgCPUPercent = stats[i].AvgCPUCores / 0.4 * 100
		stats[i].MaxCPUPercent = stats[i].MaxCPUCores / 0.8 * 100
	}
	stats[1].AvgMemoryPercent = 100
	stats[1].MaxMemoryPercent = 100
	return stats
}

func TestWritePerContainerReport(t *testing.T) {
	g, dir := newTestGenerator(t, "")
	require.NoError(t, g.WritePerContainerReport(containerFixture()))

	html := readFile(t, filepath.Join(dir, "per-container-report.html"))
	assert.Contains(t, html, "Per-Container Resource Usage Report")
	assert.Contains(t, html, "<td>sidecar</td>")
	assert.Contains(t, html, "<td>tempo</td>")
	assert.Contains(t, html, "Pod Total: pod-0")
	assert.Contains(t, html, "<td>0.400</td>") // pod avg CPU cores

	// Containers render before their pod total.
	assert.Less(t, strings.Index(html, "<td>tempo</td>"), strings.Index(html, "Pod Total"))
}

func TestWritePerContainerReportEmpty(t *testing.T) {
	g, dir := newTestGenerator(t, "")
	require.NoError(t, g.WritePerContainerReport(nil))

	_, err := os.Stat(filepath.Join(dir, "per-container-report.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestWritePerContainerCSV(t *testing.T) {
	g, dir := newTestGenerator(t, "")
	require.NoError(t, g.WritePerContainerCSV(containerFixture()))

	csvText := readFile(t, filepath.Join(dir, "per-container-report.csv"))
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"load_name,container,pod,"+
			"avg_cpu_cores,avg_cpu_millicores,avg_cpu_percent,"+
			"max_cpu_cores,max_cpu_millicores,max_cpu_percent,"+
			"avg_memory_gb,avg_memory_percent,max_memory_gb,max_memory_percent",
		lines[0])
	assert.Equal(t, "small,sidecar,pod-0,0.1,100,25.00,0.2,200,25.00,0,0.00,0,0.00", lines[1])
	assert.Equal(t, "small,tempo,pod-0,0.3,300,75.00,0.6,600,75.00,2,100.00,4,100.00", lines[2])
}

func TestWriteDashboard(t *testing.T) {
	g, dir := newTestGenerator(t, "")

	rows := []flatten.SummaryRow{
		{LoadName: "small", MBPerSec: 10, P50Ms: 12.5, CPUMillicores: 250},
	}
	require.NoError(t, g.WriteDashboard(rows))

	html := readFile(t, filepath.Join(dir, "dashboard.html"))
	assert.Contains(t, html, "Performance Test Dashboard")
	assert.Contains(t, html, "small (10 MB/s)")
	assert.Contains(t, html, `"label":"P50"`)
	assert.Contains(t, html, `"label":"Target MB/s"`)
}

func TestWriteTimeSeriesDashboard(t *testing.T) {
	g, dir := newTestGenerator(t, "")

	rows := []flatten.TimeSeriesRow{
		{LoadName: "small", Minute: 1, P99Ms: 50, CPUMillicores: 200, BytesPerSec: 1024 * 1024},
		{LoadName: "small", Minute: 2, P99Ms: 60, CPUMillicores: 220, BytesPerSec: 2 * 1024 * 1024},
	}
	require.NoError(t, g.WriteTimeSeriesDashboard(rows))

	html := readFile(t, filepath.Join(dir, "timeseries-dashboard.html"))
	assert.Contains(t, html, "Time Series Dashboard")
	assert.Contains(t, html, `"label":"small P99"`)
	assert.Contains(t, html, `"label":"small Memory"`)
	// Bytes convert to MB for the ingestion panel.
	assert.Contains(t, html, `{"x":1,"y":1}`)
}

func TestWriteTimeSeriesDashboardEmpty(t *testing.T) {
	g, dir := newTestGenerator(t, "")
	require.NoError(t, g.WriteTimeSeriesDashboard(nil))

	_, err := os.Stat(filepath.Join(dir, "timeseries-dashboard.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestGroupContainerStatsSplitsLoadsAndPods(t *testing.T) {
	stats := []flatten.ContainerStat{
		{LoadName: "a", Pod: "p1", Container: "c1"},
		{LoadName: "a", Pod: "p1", Container: "c2"},
		{LoadName: "a", Pod: "p2", Container: "c1"},
		{LoadName: "b", Pod: "p1", Container: "c1"},
	}

	loads := groupContainerStats(stats)
	require.Len(t, loads, 2)
	require.Len(t, loads[0].Pods, 2)
	assert.Len(t, loads[0].Pods[0].Containers, 2)
	assert.Len(t, loads[0].Pods[1].Containers, 1)
	require.Len(t, loads[1].Pods, 1)
	assert.Equal(t, "b", loads[1].Pods[0].LoadName)
}
