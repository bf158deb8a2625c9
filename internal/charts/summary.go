package charts

import (
	"log/slog"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
)

// SummaryCharts renders every per-load comparison chart from the summary
// table.
func (r *Renderer) SummaryCharts(rows []flatten.SummaryRow) error {
	steps := []func([]flatten.SummaryRow) error{
		r.latencyChart,
		r.resourcesChart,
		r.throughputChart,
		r.errorsChart,
		r.bytesIngestedChart,
		r.spansReturnedChart,
		r.qpsComparisonChart,
		r.resourcesVsIngestionChart,
		r.resourcesVsQPSChart,
		r.combinedScalingChart,
	}
	for _, step := range steps {
		if err := step(rows); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) latencyChart(rows []flatten.SummaryRow) error {
	p := newPlot(r.title("Query Latency by Load Level"), "Load Configuration", "Latency (ms)")

	width := vg.Points(18)
	series := []struct {
		name  string
		color colorValue
		field func(*flatten.SummaryRow) float64
	}{
		{"P50", colorPrimary, func(s *flatten.SummaryRow) float64 { return s.P50Ms }},
		{"P90", colorSecondary, func(s *flatten.SummaryRow) float64 { return s.P90Ms }},
		{"P99", colorTertiary, func(s *flatten.SummaryRow) float64 { return s.P99Ms }},
	}
	for i, sp := range series {
		bar, err := newBar(summaryValues(rows, sp.field), vg.Length(i-1)*width, sp.color)
		if err != nil {
			return err
		}
		p.Add(bar)
		p.Legend.Add(sp.name, bar)
	}
	p.NominalX(loadLabels(rows)...)

	return r.save(p, 12*vg.Inch, 7*vg.Inch, "latency_comparison")
}

func (r *Renderer) resourcesChart(rows []flatten.SummaryRow) error {
	cpu := newPlot(r.title("CPU Usage (container_cpu_usage_seconds_total)"), "Load Configuration", "CPU (millicores)")
	cpuBar, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.CPUMillicores }), 0, colorPrimary)
	if err != nil {
		return err
	}
	cpu.Add(cpuBar)
	cpu.Legend.Add("Avg CPU (millicores)", cpuBar)
	cpu.NominalX(loadLabels(rows)...)

	mem := newPlot("Memory Usage (container_memory_working_set_bytes)", "Load Configuration", "Memory (GB)")
	memBar, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.MemoryGB }), 0, colorSecondary)
	if err != nil {
		return err
	}
	mem.Add(memBar)
	mem.Legend.Add("Max Memory (GB)", memBar)
	mem.NominalX(loadLabels(rows)...)

	return r.saveGrid([][]*plot.Plot{{cpu, mem}}, 14*vg.Inch, 6*vg.Inch, "resource_usage")
}

func (r *Renderer) throughputChart(rows []flatten.SummaryRow) error {
	p := newPlot(r.title("Throughput (Spans/sec) by Load Level"), "Load Configuration", "Spans per Second")

	bar, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.SpansPerSec }), 0, colorSuccess)
	if err != nil {
		return err
	}
	p.Add(bar)
	p.Legend.Add("Actual Spans/sec", bar)
	p.NominalX(loadLabels(rows)...)

	return r.save(p, 12*vg.Inch, 7*vg.Inch, "throughput_analysis")
}

func (r *Renderer) errorsChart(rows []flatten.SummaryRow) error {
	rate := newPlot(r.title("Error Metrics by Load Level"), "Load Configuration", "Error Rate (%)")
	rateBar, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.ErrorRate }), 0, colorSecondary)
	if err != nil {
		return err
	}
	rate.Add(rateBar)
	rate.Legend.Add("Error Rate (%)", rateBar)
	rate.NominalX(loadLabels(rows)...)

	spans := newPlot("Dropped and Discarded Spans", "Load Configuration", "Spans/sec")
	width := vg.Points(18)
	dropped, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.DroppedSpans }), -width/2, colorAccent)
	if err != nil {
		return err
	}
	discarded, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.DiscardedSpans }), width/2, colorTertiary)
	if err != nil {
		return err
	}
	spans.Add(dropped, discarded)
	spans.Legend.Add("Dropped Spans/sec", dropped)
	spans.Legend.Add("Discarded Spans/sec", discarded)
	spans.NominalX(loadLabels(rows)...)

	return r.saveGrid([][]*plot.Plot{{rate, spans}}, 14*vg.Inch, 6*vg.Inch, "error_metrics")
}

func (r *Renderer) bytesIngestedChart(rows []flatten.SummaryRow) error {
	p := newPlot(r.title("Bytes Ingested: Target vs Actual"), "Load Configuration", "Ingestion Rate (MB/s)")

	width := vg.Points(18)
	target, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.MBPerSec }), -width/2, colorQuaternary)
	if err != nil {
		return err
	}
	actual, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.MBPerSecActual }), width/2, colorPrimary)
	if err != nil {
		return err
	}
	p.Add(target, actual)
	p.Legend.Add("Target MB/s", target)
	p.Legend.Add("Actual MB/s", actual)
	p.NominalX(loadLabels(rows)...)

	return r.save(p, 12*vg.Inch, 7*vg.Inch, "bytes_ingested")
}

func (r *Renderer) spansReturnedChart(rows []flatten.SummaryRow) error {
	p := newPlot(r.title("Average Spans Returned per Query"), "Load Configuration", "Average Spans Returned")

	bar, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.AvgSpansReturned }), 0, colorAccent)
	if err != nil {
		return err
	}
	p.Add(bar)
	p.Legend.Add("Avg Spans Returned", bar)
	p.NominalX(loadLabels(rows)...)

	return r.save(p, 12*vg.Inch, 7*vg.Inch, "spans_returned")
}

func (r *Renderer) qpsComparisonChart(rows []flatten.SummaryRow) error {
	if !hasQPSData(rows) {
		slog.Info("No QPS data available, skipping QPS comparison chart")
		return nil
	}

	p := newPlot(r.title("QPS: Target vs Actual"), "Load Configuration", "Queries per Second (QPS)")

	width := vg.Points(18)
	target, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.TargetQPS }), -width/2, colorQuaternary)
	if err != nil {
		return err
	}
	actual, err := newBar(summaryValues(rows, func(s *flatten.SummaryRow) float64 { return s.ActualQPS }), width/2, colorPrimary)
	if err != nil {
		return err
	}
	p.Add(target, actual)
	p.Legend.Add("Target QPS", target)
	p.Legend.Add("Actual QPS", actual)
	p.NominalX(loadLabels(rows)...)

	return r.save(p, 12*vg.Inch, 7*vg.Inch, "qps_comparison")
}

// scalingXY returns (x, y) pairs sorted ascending by x, for the
// resource-vs-load line charts.
func scalingXY(rows []flatten.SummaryRow, x, y func(*flatten.SummaryRow) float64) plotter.XYs {
	xys := make(plotter.XYs, len(rows))
	for i := range rows {
		xys[i] = plotter.XY{X: x(&rows[i]), Y: y(&rows[i])}
	}
	sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })
	return xys
}

func (r *Renderer) scalingPanel(title, xLabel, yLabel string, lines []scalingLine) (*plot.Plot, error) {
	p := newPlot(title, xLabel, yLabel)
	for _, sl := range lines {
		line, pts, err := newLine(sl.xys, sl.color, sl.dashed)
		if err != nil {
			return nil, err
		}
		p.Add(line, pts)
		p.Legend.Add(sl.name, line)
	}
	p.X.Min = 0
	p.Y.Min = 0
	return p, nil
}

type scalingLine struct {
	name   string
	xys    plotter.XYs
	color  colorValue
	dashed bool
}

func (r *Renderer) resourcesVsIngestionChart(rows []flatten.SummaryRow) error {
	if len(rows) < 2 {
		slog.Info("Not enough data points for resources vs ingestion chart")
		return nil
	}

	actualMB := func(s *flatten.SummaryRow) float64 { return s.MBPerSecActual }
	cpu, err := r.scalingPanel(r.title("CPU Usage vs Ingestion Rate"), "Ingestion Rate (MB/s)", "CPU (millicores)", []scalingLine{
		{"Avg CPU", scalingXY(rows, actualMB, func(s *flatten.SummaryRow) float64 { return s.CPUMillicores }), colorPrimary, false},
		{"Sustained CPU", scalingXY(rows, actualMB, func(s *flatten.SummaryRow) float64 { return s.SustainedCPUMillicores }), colorTertiary, true},
	})
	if err != nil {
		return err
	}
	mem, err := r.scalingPanel("Memory Usage vs Ingestion Rate", "Ingestion Rate (MB/s)", "Memory (GB)", []scalingLine{
		{"Max Memory", scalingXY(rows, actualMB, func(s *flatten.SummaryRow) float64 { return s.MemoryGB }), colorSecondary, false},
		{"Peak Memory", scalingXY(rows, actualMB, func(s *flatten.SummaryRow) float64 { return s.PeakMemoryGB }), colorAccent, true},
	})
	if err != nil {
		return err
	}

	return r.saveGrid([][]*plot.Plot{{cpu, mem}}, 14*vg.Inch, 6*vg.Inch, "resources_vs_ingestion")
}

func (r *Renderer) resourcesVsQPSChart(rows []flatten.SummaryRow) error {
	if !hasActualQPS(rows) {
		slog.Info("No QPS data available, skipping resources vs QPS chart")
		return nil
	}
	if len(rows) < 2 {
		slog.Info("Not enough data points for resources vs QPS chart")
		return nil
	}

	qps := func(s *flatten.SummaryRow) float64 { return s.ActualQPS }
	cpu, err := r.scalingPanel(r.title("CPU Usage vs QPS"), "Queries per Second (QPS)", "CPU (millicores)", []scalingLine{
		{"Avg CPU", scalingXY(rows, qps, func(s *flatten.SummaryRow) float64 { return s.CPUMillicores }), colorPrimary, false},
		{"Sustained CPU", scalingXY(rows, qps, func(s *flatten.SummaryRow) float64 { return s.SustainedCPUMillicores }), colorTertiary, true},
	})
	if err != nil {
		return err
	}
	mem, err := r.scalingPanel("Memory Usage vs QPS", "Queries per Second (QPS)", "Memory (GB)", []scalingLine{
		{"Max Memory", scalingXY(rows, qps, func(s *flatten.SummaryRow) float64 { return s.MemoryGB }), colorSecondary, false},
		{"Peak Memory", scalingXY(rows, qps, func(s *flatten.SummaryRow) float64 { return s.PeakMemoryGB }), colorAccent, true},
	})
	if err != nil {
		return err
	}

	return r.saveGrid([][]*plot.Plot{{cpu, mem}}, 14*vg.Inch, 6*vg.Inch, "resources_vs_qps")
}

func (r *Renderer) combinedScalingChart(rows []flatten.SummaryRow) error {
	if len(rows) < 2 {
		slog.Info("Not enough data points for combined scaling chart")
		return nil
	}

	actualMB := func(s *flatten.SummaryRow) float64 { return s.MBPerSecActual }
	cpuVsIngest, err := r.scalingPanel(r.title("CPU vs Ingestion Rate"), "Ingestion Rate (MB/s)", "CPU (millicores)", []scalingLine{
		{"Avg CPU", scalingXY(rows, actualMB, func(s *flatten.SummaryRow) float64 { return s.CPUMillicores }), colorPrimary, false},
	})
	if err != nil {
		return err
	}
	memVsIngest, err := r.scalingPanel("Memory vs Ingestion Rate", "Ingestion Rate (MB/s)", "Memory (GB)", []scalingLine{
		{"Max Memory", scalingXY(rows, actualMB, func(s *flatten.SummaryRow) float64 { return s.MemoryGB }), colorSecondary, false},
	})
	if err != nil {
		return err
	}

	grid := [][]*plot.Plot{{cpuVsIngest, memVsIngest}}
	height := 5 * vg.Inch

	if hasActualQPS(rows) {
		qps := func(s *flatten.SummaryRow) float64 { return s.ActualQPS }
		cpuVsQPS, err := r.scalingPanel("CPU vs QPS", "Queries per Second (QPS)", "CPU (millicores)", []scalingLine{
			{"Avg CPU", scalingXY(rows, qps, func(s *flatten.SummaryRow) float64 { return s.CPUMillicores }), colorTertiary, false},
		})
		if err != nil {
			return err
		}
		memVsQPS, err := r.scalingPanel("Memory vs QPS", "Queries per Second (QPS)", "Memory (GB)", []scalingLine{
			{"Max Memory", scalingXY(rows, qps, func(s *flatten.SummaryRow) float64 { return s.MemoryGB }), colorAccent, false},
		})
		if err != nil {
			return err
		}
		grid = append(grid, []*plot.Plot{cpuVsQPS, memVsQPS})
		height = 10 * vg.Inch
	}

	return r.saveGrid(grid, 14*vg.Inch, height, "resource_scaling")
}

func hasQPSData(rows []flatten.SummaryRow) bool {
	for i := range rows {
		if rows[i].ActualQPS != 0 || rows[i].TargetQPS != 0 {
			return true
		}
	}
	return false
}

func hasActualQPS(rows []flatten.SummaryRow) bool {
	for i := range rows {
		if rows[i].ActualQPS != 0 {
			return true
		}
	}
	return false
}
