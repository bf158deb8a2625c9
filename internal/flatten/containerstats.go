package flatten

import (
	"sort"

	"github.com/rubenvp8510/perf-tests-tempo/internal/models"
)

// ContainerStat aggregates one container's resource usage over a run, with
// its share of the pod total.
type ContainerStat struct {
	LoadName  string
	Container string
	Pod       string

	AvgCPUCores      float64
	AvgCPUMillicores float64
	MaxCPUCores      float64
	MaxCPUMillicores float64
	AvgMemoryGB      float64
	MaxMemoryGB      float64

	PodAvgCPUCores float64
	PodMaxCPUCores float64
	PodAvgMemoryGB float64
	PodMaxMemoryGB float64

	AvgCPUPercent    float64
	MaxCPUPercent    float64
	AvgMemoryPercent float64
	MaxMemoryPercent float64
}

type statKey struct {
	load      string
	container string
	pod       string
}

type podKey struct {
	load string
	pod  string
}

// BuildContainerStats computes per-container averages and maxima across a
// run, pod totals, and each container's percentage of its pod. CPU
// averages include idle (zero) samples; memory averages exclude zero
// samples, which the collector emits for gaps.
func BuildContainerStats(results []models.TestResult) []ContainerStat {
	type agg struct {
		avgCPU float64
		maxCPU float64
		avgMem float64
		maxMem float64
		hasCPU bool
		hasMem bool
	}
	byKey := make(map[statKey]*agg)

	stat := func(load string, series *models.ContainerSeries) *agg {
		container, pod := series.Container, series.Pod
		if container == "" {
			container = "unknown"
		}
		if pod == "" {
			pod = "unknown"
		}
		key := statKey{load: load, container: container, pod: pod}
		a, ok := byKey[key]
		if !ok {
			a = &agg{}
			byKey[key] = a
		}
		return a
	}

	for i := range results {
		r := &results[i]
		if !r.HasPerContainer() {
			continue
		}

		for _, series := range r.PerContainer.CPUCores {
			if len(series.Values) == 0 {
				continue
			}
			sum, maxVal := 0.0, 0.0
			for _, p := range series.Values {
				sum += p.Value
				if p.Value > maxVal {
					maxVal = p.Value
				}
			}
			a := stat(r.Name(), &series)
			a.avgCPU = sum / float64(len(series.Values))
			a.maxCPU = maxVal
			a.hasCPU = true
		}

		for _, series := range r.PerContainer.MemoryGB {
			if len(series.Values) == 0 {
				continue
			}
			sum, maxVal := 0.0, 0.0
			n := 0
			for _, p := range series.Values {
				if p.Value <= 0 {
					continue
				}
				sum += p.Value
				if p.Value > maxVal {
					maxVal = p.Value
				}
				n++
			}
			a := stat(r.Name(), &series)
			if n > 0 {
				a.avgMem = sum / float64(n)
				a.maxMem = maxVal
			}
			a.hasMem = true
		}
	}

	stats := make([]ContainerStat, 0, len(byKey))
	for key, a := range byKey {
		stats = append(stats, ContainerStat{
			LoadName:         key.load,
			Container:        key.container,
			Pod:              key.pod,
			AvgCPUCores:      a.avgCPU,
			AvgCPUMillicores: a.avgCPU * 1000,
			MaxCPUCores:      a.maxCPU,
			MaxCPUMillicores: a.maxCPU * 1000,
			AvgMemoryGB:      a.avgMem,
			MaxMemoryGB:      a.maxMem,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := &stats[i], &stats[j]
		if a.LoadName != b.LoadName {
			return a.LoadName < b.LoadName
		}
		if a.Pod != b.Pod {
			return a.Pod < b.Pod
		}
		return a.Container < b.Container
	})

	applyPodTotals(stats)
	return stats
}

// applyPodTotals sums container stats per (load, pod) and derives each
// container's percentage of its pod total.
func applyPodTotals(stats []ContainerStat) {
	totals := make(map[podKey]*ContainerStat)
	for i := range stats {
		key := podKey{load: stats[i].LoadName, pod: stats[i].Pod}
		t, ok := totals[key]
		if !ok {
			t = &ContainerStat{}
			totals[key] = t
		}
		t.PodAvgCPUCores += stats[i].AvgCPUCores
		t.PodMaxCPUCores += stats[i].MaxCPUCores
		t.PodAvgMemoryGB += stats[i].AvgMemoryGB
		t.PodMaxMemoryGB += stats[i].MaxMemoryGB
	}

	pct := func(part, total float64) float64 {
		if total <= 0 {
			return 0
		}
		return part / total * 100
	}

	for i := range stats {
		t := totals[podKey{load: stats[i].LoadName, pod: stats[i].Pod}]
		stats[i].PodAvgCPUCores = t.PodAvgCPUCores
		stats[i].PodMaxCPUCores = t.PodMaxCPUCores
		stats[i].PodAvgMemoryGB = t.PodAvgMemoryGB
		stats[i].PodMaxMemoryGB = t.PodMaxMemoryGB
		stats[i].AvgCPUPercent = pct(stats[i].AvgCPUCores, t.PodAvgCPUCores)
		stats[i].MaxCPUPercent = pct(stats[i].MaxCPUCores, t.PodMaxCPUCores)
		stats[i].AvgMemoryPercent = pct(stats[i].AvgMemoryGB, t.PodAvgMemoryGB)
		stats[i].MaxMemoryPercent = pct(stats[i].MaxMemoryGB, t.PodMaxMemoryGB)
	}
}
