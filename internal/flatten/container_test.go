package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubenvp8510/perf-tests-tempo/internal/models"
)

func TestBuildContainerRowsUnionOfSeries(t *testing.T) {
	results := []models.TestResult{
		{
			LoadName: "small",
			PerContainer: &models.PerContainer{
				CPUCores: []models.ContainerSeries{
					{Container: "tempo", Pod: "tempo-0", Values: points(1000, 250, 1060, 300)},
				},
				MemoryGB: []models.ContainerSeries{
					// Overlaps at 1000 and adds a memory-only sample at 1120.
					{Container: "tempo", Pod: "tempo-0", Values: points(1000, 1500, 1120, 1600)},
				},
			},
		},
	}

	rows := BuildContainerRows(results)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1000), rows[0].Timestamp)
	assert.InDelta(t, 0.25, rows[0].CPUCores, 1e-9)
	assert.InDelta(t, 250.0, rows[0].CPUMillicores, 1e-9)
	assert.InDelta(t, 1.5, rows[0].MemoryGB, 1e-9)

	// CPU-only sample: memory defaults to zero.
	assert.Equal(t, int64(1060), rows[1].Timestamp)
	assert.InDelta(t, 0.3, rows[1].CPUCores, 1e-9)
	assert.Zero(t, rows[1].MemoryGB)

	// Memory-only sample: CPU defaults to zero.
	assert.Equal(t, int64(1120), rows[2].Timestamp)
	assert.Zero(t, rows[2].CPUCores)
	assert.InDelta(t, 1.6, rows[2].MemoryGB, 1e-9)
}

func TestBuildContainerRowsMinutePerContainer(t *testing.T) {
	results := []models.TestResult{
		{
			LoadName: "small",
			PerContainer: &models.PerContainer{
				CPUCores: []models.ContainerSeries{
					{Container: "tempo", Pod: "tempo-0", Values: points(1000, 100, 1060, 100)},
					// Distributor starts a minute later; its numbering
					// anchors to its own first sample.
					{Container: "distributor", Pod: "dist-0", Values: points(1060, 100, 1120, 100)},
				},
			},
		},
	}

	rows := BuildContainerRows(results)
	require.Len(t, rows, 4)

	// Sorted by container name: distributor first.
	assert.Equal(t, "distributor", rows[0].Container)
	assert.Equal(t, 1, rows[0].Minute)
	assert.Equal(t, 2, rows[1].Minute)

	assert.Equal(t, "tempo", rows[2].Container)
	assert.Equal(t, 1, rows[2].Minute)
	assert.Equal(t, 2, rows[3].Minute)
}

func TestBuildContainerRowsSkipsDocumentsWithoutBlock(t *testing.T) {
	results := []models.TestResult{
		{LoadName: "a"},
		{LoadName: "b", PerContainer: &models.PerContainer{}},
	}
	assert.Empty(t, BuildContainerRows(results))
}

func TestBuildContainerRowsSortOrder(t *testing.T) {
	results := []models.TestResult{
		{
			LoadName: "z",
			PerContainer: &models.PerContainer{
				CPUCores: []models.ContainerSeries{
					{Container: "c", Pod: "p", Values: points(2000, 100)},
				},
			},
		},
		{
			LoadName: "a",
			PerContainer: &models.PerContainer{
				CPUCores: []models.ContainerSeries{
					{Container: "c", Pod: "p", Values: points(3000, 100, 2000, 100)},
				},
			},
		},
	}

	rows := BuildContainerRows(results)
	require.Len(t, rows, 3)
	assert.Equal(t, "a", rows[0].LoadName)
	assert.Equal(t, int64(2000), rows[0].Timestamp)
	assert.Equal(t, int64(3000), rows[1].Timestamp)
	assert.Equal(t, "z", rows[2].LoadName)
}

func TestBuildContainerStats(t *testing.T) {
	results := []models.TestResult{
		{
			LoadName: "small",
			PerContainer: &models.PerContainer{
				CPUCores: []models.ContainerSeries{
					// Average over all samples, idle zeros included.
					{Container: "tempo", Pod: "pod-0", Values: points(1000, 0, 1060, 400, 1120, 200)},
					{Container: "sidecar", Pod: "pod-0", Values: points(1000, 100, 1060, 100)},
				},
				MemoryGB: []models.ContainerSeries{
					// Zero memory samples are collector gaps and are excluded.
					{Container: "tempo", Pod: "pod-0", Values: points(1000, 0, 1060, 2000, 1120, 4000)},
				},
			},
		},
	}

	stats := BuildContainerStats(results)
	require.Len(t, stats, 2)

	// Sorted by (load, pod, container): sidecar first.
	sidecar, tempo := stats[0], stats[1]
	assert.Equal(t, "sidecar", sidecar.Container)
	assert.Equal(t, "tempo", tempo.Container)

	assert.InDelta(t, 0.2, tempo.AvgCPUCores, 1e-9)
	assert.InDelta(t, 200.0, tempo.AvgCPUMillicores, 1e-9)
	assert.InDelta(t, 0.4, tempo.MaxCPUCores, 1e-9)
	assert.InDelta(t, 3.0, tempo.AvgMemoryGB, 1e-9)
	assert.InDelta(t, 4.0, tempo.MaxMemoryGB, 1e-9)

	// Pod totals span both containers.
	assert.InDelta(t, 0.3, tempo.PodAvgCPUCores, 1e-9)
	assert.InDelta(t, 0.5, tempo.PodMaxCPUCores, 1e-9)
	assert.InDelta(t, 0.2/0.3*100, tempo.AvgCPUPercent, 1e-9)
	assert.InDelta(t, 0.1/0.3*100, sidecar.AvgCPUPercent, 1e-9)

	// Sidecar has no memory series; percentages guard the zero total.
	assert.InDelta(t, 100.0, tempo.AvgMemoryPercent, 1e-9)
	assert.Zero(t, sidecar.AvgMemoryGB)
}

func TestBuildContainerStatsMemoryOnlyContainer(t *testing.T) {
	results := []models.TestResult{
		{
			LoadName: "small",
			PerContainer: &models.PerContainer{
				MemoryGB: []models.ContainerSeries{
					{Container: "cache", Pod: "pod-0", Values: points(1000, 1000)},
				},
			},
		},
	}

	stats := BuildContainerStats(results)
	require.Len(t, stats, 1)
	assert.Equal(t, "cache", stats[0].Container)
	assert.Zero(t, stats[0].AvgCPUCores)
	assert.InDelta(t, 1.0, stats[0].MaxMemoryGB, 1e-9)
}
