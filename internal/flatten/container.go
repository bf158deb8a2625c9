package flatten

import (
	"sort"

	"github.com/rubenvp8510/perf-tests-tempo/internal/models"
)

// ContainerRow is one (load, container, pod, timestamp) sample. CPU and
// memory are populated independently; a key present in only one series
// still produces a row with the other metric at zero.
type ContainerRow struct {
	LoadName  string
	Container string
	Pod       string
	Timestamp int64

	// Minute is 1-indexed relative to the (load, container) group's first
	// sample, a narrower anchor than the per-load one used for
	// TimeSeriesRow.
	Minute int

	CPUCores      float64
	CPUMillicores float64
	MemoryGB      float64
}

type containerKey struct {
	load      string
	container string
	pod       string
	timestamp int64
}

// BuildContainerRows flattens per-container blocks into rows sorted by
// (load, container, timestamp, pod). Documents without per-container data
// contribute nothing.
func BuildContainerRows(results []models.TestResult) []ContainerRow {
	byKey := make(map[containerKey]*ContainerRow)

	for i := range results {
		r := &results[i]
		if !r.HasPerContainer() {
			continue
		}

		for _, series := range r.PerContainer.CPUCores {
			for _, p := range series.Values {
				row := containerRowAt(byKey, r.Name(), &series, p.Timestamp)
				row.CPUCores = p.Value
				row.CPUMillicores = p.Value * 1000
			}
		}
		for _, series := range r.PerContainer.MemoryGB {
			for _, p := range series.Values {
				row := containerRowAt(byKey, r.Name(), &series, p.Timestamp)
				row.MemoryGB = p.Value
			}
		}
	}

	rows := make([]ContainerRow, 0, len(byKey))
	for _, row := range byKey {
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.LoadName != b.LoadName {
			return a.LoadName < b.LoadName
		}
		if a.Container != b.Container {
			return a.Container < b.Container
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.Pod < b.Pod
	})

	numberContainerMinutes(rows)
	return rows
}

func containerRowAt(byKey map[containerKey]*ContainerRow, load string, series *models.ContainerSeries, ts int64) *ContainerRow {
	container, pod := series.Container, series.Pod
	if container == "" {
		container = "unknown"
	}
	if pod == "" {
		pod = "unknown"
	}

	key := containerKey{load: load, container: container, pod: pod, timestamp: ts}
	row, ok := byKey[key]
	if !ok {
		row = &ContainerRow{
			LoadName:  load,
			Container: container,
			Pod:       pod,
			Timestamp: ts,
		}
		byKey[key] = row
	}
	return row
}

// numberContainerMinutes numbers minutes per (load, container) group.
// Rows must already be sorted by load, container, timestamp.
func numberContainerMinutes(rows []ContainerRow) {
	var minTS int64
	currentLoad, currentContainer := "", ""
	for i := range rows {
		if rows[i].LoadName != currentLoad || rows[i].Container != currentContainer {
			currentLoad = rows[i].LoadName
			currentContainer = rows[i].Container
			minTS = rows[i].Timestamp
		}
		rows[i].Minute = int((rows[i].Timestamp-minTS)/60) + 1
	}
}
