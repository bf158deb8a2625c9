package charts

import (
	"log/slog"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
)

// loadGroup is one load's time-series rows in timestamp order.
type loadGroup struct {
	name string
	rows []flatten.TimeSeriesRow
}

// groupByLoad splits sorted time-series rows into per-load groups,
// preserving order.
func groupByLoad(rows []flatten.TimeSeriesRow) []loadGroup {
	var groups []loadGroup
	for _, row := range rows {
		if len(groups) == 0 || groups[len(groups)-1].name != row.LoadName {
			groups = append(groups, loadGroup{name: row.LoadName})
		}
		g := &groups[len(groups)-1]
		g.rows = append(g.rows, row)
	}
	return groups
}

func (g *loadGroup) xys(field func(*flatten.TimeSeriesRow) float64) plotter.XYs {
	xys := make(plotter.XYs, len(g.rows))
	for i := range g.rows {
		xys[i] = plotter.XY{X: float64(g.rows[i].Minute), Y: field(&g.rows[i])}
	}
	return xys
}

// tsPanel draws one line per load for a single metric.
func tsPanel(title, yLabel string, groups []loadGroup, field func(*flatten.TimeSeriesRow) float64) (*plot.Plot, error) {
	p := newPlot(title, "Test Duration (minutes)", yLabel)
	for i := range groups {
		g := &groups[i]
		line, pts, err := newLine(g.xys(field), loadColor(i), false)
		if err != nil {
			return nil, err
		}
		p.Add(line, pts)
		p.Legend.Add(g.name, line)
	}
	return p, nil
}

// TimeSeriesCharts renders the over-time charts, one line per load.
func (r *Renderer) TimeSeriesCharts(rows []flatten.TimeSeriesRow) error {
	if len(rows) == 0 {
		slog.Info("No time-series data available, skipping time-series charts")
		return nil
	}
	groups := groupByLoad(rows)

	steps := []func([]loadGroup) error{
		r.timeSeriesLatencyChart,
		r.timeSeriesResourcesChart,
		r.timeSeriesThroughputChart,
		r.timeSeriesErrorsChart,
		r.timeSeriesSpansReturnedChart,
		r.timeSeriesQPSChart,
	}
	for _, step := range steps {
		if err := step(groups); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) timeSeriesLatencyChart(groups []loadGroup) error {
	p50, err := tsPanel(r.title("Query Latency Over Time - P50"), "Latency (ms)", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.P50Ms })
	if err != nil {
		return err
	}
	p90, err := tsPanel("P90", "Latency (ms)", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.P90Ms })
	if err != nil {
		return err
	}
	p99, err := tsPanel("P99", "Latency (ms)", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.P99Ms })
	if err != nil {
		return err
	}

	return r.saveGrid([][]*plot.Plot{{p50}, {p90}, {p99}}, 12*vg.Inch, 12*vg.Inch, "timeseries_latency")
}

func (r *Renderer) timeSeriesResourcesChart(groups []loadGroup) error {
	cpu, err := tsPanel(r.title("Resource Usage Over Time - CPU"), "CPU (millicores)", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.CPUMillicores })
	if err != nil {
		return err
	}
	mem, err := tsPanel("Memory", "Memory (GB)", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.MemoryGB })
	if err != nil {
		return err
	}

	return r.saveGrid([][]*plot.Plot{{cpu}, {mem}}, 12*vg.Inch, 9*vg.Inch, "timeseries_resources")
}

func (r *Renderer) timeSeriesThroughputChart(groups []loadGroup) error {
	spans, err := tsPanel(r.title("Throughput Over Time - Spans/sec"), "Spans per Second", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.SpansPerSec })
	if err != nil {
		return err
	}
	mb, err := tsPanel("Ingestion Rate", "MB/s", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.BytesPerSec / (1024 * 1024) })
	if err != nil {
		return err
	}

	return r.saveGrid([][]*plot.Plot{{spans}, {mb}}, 12*vg.Inch, 9*vg.Inch, "timeseries_throughput")
}

func (r *Renderer) timeSeriesErrorsChart(groups []loadGroup) error {
	failures, err := tsPanel(r.title("Errors Over Time - Query Failures"), "Failures/sec", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.QueryFailures })
	if err != nil {
		return err
	}
	dropped, err := tsPanel("Dropped Spans", "Spans/sec", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.DroppedSpans })
	if err != nil {
		return err
	}
	discarded, err := tsPanel("Discarded Spans", "Spans/sec", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.DiscardedSpans })
	if err != nil {
		return err
	}

	return r.saveGrid([][]*plot.Plot{{failures}, {dropped}, {discarded}}, 12*vg.Inch, 12*vg.Inch, "timeseries_errors")
}

func (r *Renderer) timeSeriesSpansReturnedChart(groups []loadGroup) error {
	p, err := tsPanel(r.title("Average Spans Returned Over Time"), "Average Spans Returned", groups,
		func(row *flatten.TimeSeriesRow) float64 { return row.AvgSpansReturned })
	if err != nil {
		return err
	}
	return r.save(p, 12*vg.Inch, 6*vg.Inch, "timeseries_spans_returned")
}

// timeSeriesQPSChart draws actual QPS per load with a dashed target line
// for each load that configured one.
func (r *Renderer) timeSeriesQPSChart(groups []loadGroup) error {
	hasQPS := false
	for i := range groups {
		for j := range groups[i].rows {
			if groups[i].rows[j].QPS != 0 || groups[i].rows[j].TargetQPS != 0 {
				hasQPS = true
			}
		}
	}
	if !hasQPS {
		slog.Info("No QPS data available, skipping QPS time-series chart")
		return nil
	}

	p := newPlot(r.title("Query Rate Over Time"), "Test Duration (minutes)", "Queries per Second (QPS)")
	for i := range groups {
		g := &groups[i]
		line, pts, err := newLine(g.xys(func(row *flatten.TimeSeriesRow) float64 { return row.QPS }), loadColor(i), false)
		if err != nil {
			return err
		}
		p.Add(line, pts)
		p.Legend.Add(g.name, line)

		if target := g.rows[0].TargetQPS; target > 0 {
			targetLine, err := plotter.NewLine(plotter.XYs{
				{X: float64(g.rows[0].Minute), Y: target},
				{X: float64(g.rows[len(g.rows)-1].Minute), Y: target},
			})
			if err != nil {
				return err
			}
			targetLine.LineStyle.Color = loadColor(i)
			targetLine.LineStyle.Width = vg.Points(1)
			targetLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(targetLine)
			p.Legend.Add(g.name+" target", targetLine)
		}
	}

	return r.save(p, 12*vg.Inch, 6*vg.Inch, "timeseries_qps")
}
