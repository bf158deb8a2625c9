package charts

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
)

// containerGroup is one (load, container, pod) line in sorted row order.
type containerGroup struct {
	load      string
	container string
	pod       string
	rows      []flatten.ContainerRow
}

func (g *containerGroup) label() string {
	return fmt.Sprintf("%s: %s (%s)", g.load, g.container, g.pod)
}

func groupContainers(rows []flatten.ContainerRow) []containerGroup {
	var groups []containerGroup
	for _, row := range rows {
		n := len(groups)
		if n == 0 || groups[n-1].load != row.LoadName || groups[n-1].container != row.Container || groups[n-1].pod != row.Pod {
			groups = append(groups, containerGroup{load: row.LoadName, container: row.Container, pod: row.Pod})
		}
		g := &groups[len(groups)-1]
		g.rows = append(g.rows, row)
	}
	return groups
}

// ContainerCharts renders the per-container CPU and memory charts, one
// line per (load, container, pod).
func (r *Renderer) ContainerCharts(rows []flatten.ContainerRow) error {
	if len(rows) == 0 {
		slog.Info("No per-container data available, skipping per-container charts")
		return nil
	}
	groups := groupContainers(rows)

	if err := r.containerCPUChart(groups); err != nil {
		return err
	}
	return r.containerMemoryChart(groups)
}

func (r *Renderer) containerCPUChart(groups []containerGroup) error {
	p := newPlot(r.title("Per-Container CPU Usage Over Time"), "Test Duration (minutes)", "CPU (millicores)")

	for i := range groups {
		g := &groups[i]
		xys := make(plotter.XYs, len(g.rows))
		for j := range g.rows {
			xys[j] = plotter.XY{X: float64(g.rows[j].Minute), Y: g.rows[j].CPUMillicores}
		}
		line, pts, err := newLine(xys, loadColor(i), false)
		if err != nil {
			return err
		}
		p.Add(line, pts)
		p.Legend.Add(g.label(), line)
	}

	return r.save(p, 14*vg.Inch, 7*vg.Inch, "per_container_cpu")
}

// containerMemoryChart skips zero-valued samples; they are collector gaps,
// not real usage.
func (r *Renderer) containerMemoryChart(groups []containerGroup) error {
	p := newPlot(r.title("Per-Container Memory Usage Over Time"), "Test Duration (minutes)", "Memory (GB)")

	drawn := false
	for i := range groups {
		g := &groups[i]
		var xys plotter.XYs
		for j := range g.rows {
			if g.rows[j].MemoryGB > 0 {
				xys = append(xys, plotter.XY{X: float64(g.rows[j].Minute), Y: g.rows[j].MemoryGB})
			}
		}
		if len(xys) == 0 {
			continue
		}
		line, pts, err := newLine(xys, loadColor(i), false)
		if err != nil {
			return err
		}
		p.Add(line, pts)
		p.Legend.Add(g.label(), line)
		drawn = true
	}
	if !drawn {
		slog.Info("No per-container memory samples, skipping memory chart")
		return nil
	}

	return r.save(p, 14*vg.Inch, 7*vg.Inch, "per_container_memory")
}
