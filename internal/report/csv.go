package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
)

var containerCSVHeader = []string{
	"load_name", "container", "pod",
	"avg_cpu_cores", "avg_cpu_millicores", "avg_cpu_percent",
	"max_cpu_cores", "max_cpu_millicores", "max_cpu_percent",
	"avg_memory_gb", "avg_memory_percent",
	"max_memory_gb", "max_memory_percent",
}

// WritePerContainerCSV writes per-container-report<suffix>.csv, one row
// per (load, container, pod). Percentages are rounded to two decimals;
// the other metrics keep full precision.
func (g *Generator) WritePerContainerCSV(stats []flatten.ContainerStat) error {
	if len(stats) == 0 {
		return nil
	}

	out := g.path("per-container-report", ".csv")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(containerCSVHeader); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	pct := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	for i := range stats {
		s := &stats[i]
		record := []string{
			s.LoadName, s.Container, s.Pod,
			num(s.AvgCPUCores), num(s.AvgCPUMillicores), pct(s.AvgCPUPercent),
			num(s.MaxCPUCores), num(s.MaxCPUMillicores), pct(s.MaxCPUPercent),
			num(s.AvgMemoryGB), pct(s.AvgMemoryPercent),
			num(s.MaxMemoryGB), pct(s.MaxMemoryPercent),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	slog.Info("Created report", "path", out)
	return nil
}
