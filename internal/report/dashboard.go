package report

import (
	"fmt"
	"log/slog"

	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
)

// barDataset and lineDataset marshal straight into Chart.js dataset
// objects; the templates embed them via toJSON.
type barDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
}

type xyPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type lineDataset struct {
	Label           string    `json:"label"`
	Data            []xyPoint `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	BorderDash      []int     `json:"borderDash,omitempty"`
	BorderWidth     float64   `json:"borderWidth"`
	PointRadius     float64   `json:"pointRadius"`
	Fill            bool      `json:"fill"`
	YAxisID         string    `json:"yAxisID,omitempty"`
}

type dashboardData struct {
	ReportName string
	Labels     []string

	Latency   []barDataset
	Resources []barDataset
	Ingestion []barDataset
	Errors    []barDataset
}

func summarySeries(rows []flatten.SummaryRow, field func(*flatten.SummaryRow) float64) []float64 {
	values := make([]float64, len(rows))
	for i := range rows {
		values[i] = field(&rows[i])
	}
	return values
}

// WriteDashboard writes dashboard<suffix>.html: a four panel interactive
// view of the summary table.
func (g *Generator) WriteDashboard(rows []flatten.SummaryRow) error {
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = fmt.Sprintf("%s (%g MB/s)", row.LoadName, row.MBPerSec)
	}

	data := dashboardData{
		ReportName: g.ReportName,
		Labels:     labels,
		Latency: []barDataset{
			{Label: "P50", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.P50Ms }), BackgroundColor: colorPrimary},
			{Label: "P90", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.P90Ms }), BackgroundColor: colorSecondary},
			{Label: "P99", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.P99Ms }), BackgroundColor: colorTertiary},
		},
		Resources: []barDataset{
			{Label: "CPU (millicores)", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.CPUMillicores }), BackgroundColor: colorPrimary},
			{Label: "Memory (GB)", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.MemoryGB }), BackgroundColor: colorSecondary},
		},
		Ingestion: []barDataset{
			{Label: "Target MB/s", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.MBPerSec }), BackgroundColor: colorQuaternary},
			{Label: "Actual MB/s", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.MBPerSecActual }), BackgroundColor: colorPrimary},
		},
		Errors: []barDataset{
			{Label: "Error Rate (%)", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.ErrorRate }), BackgroundColor: colorSecondary},
			{Label: "Dropped Spans/sec", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.DroppedSpans }), BackgroundColor: colorAccent},
			{Label: "Discarded Spans/sec", Data: summarySeries(rows, func(s *flatten.SummaryRow) float64 { return s.DiscardedSpans }), BackgroundColor: colorTertiary},
		},
	}
	return g.render("dashboard.html", "dashboard", data)
}

type timeSeriesDashboardData struct {
	ReportName string

	Latency       []lineDataset
	Resources     []lineDataset
	Ingestion     []lineDataset
	Errors        []lineDataset
	SpansReturned []lineDataset
}

type tsGroup struct {
	name string
	rows []flatten.TimeSeriesRow
}

func groupTimeSeries(rows []flatten.TimeSeriesRow) []tsGroup {
	var groups []tsGroup
	for _, row := range rows {
		if len(groups) == 0 || groups[len(groups)-1].name != row.LoadName {
			groups = append(groups, tsGroup{name: row.LoadName})
		}
		g := &groups[len(groups)-1]
		g.rows = append(g.rows, row)
	}
	return groups
}

func (g *tsGroup) points(field func(*flatten.TimeSeriesRow) float64) []xyPoint {
	pts := make([]xyPoint, len(g.rows))
	for i := range g.rows {
		pts[i] = xyPoint{X: float64(g.rows[i].Minute), Y: field(&g.rows[i])}
	}
	return pts
}

// WriteTimeSeriesDashboard writes timeseries-dashboard<suffix>.html, one
// line per load in each panel. No-op when no document carried
// time-series data.
func (g *Generator) WriteTimeSeriesDashboard(rows []flatten.TimeSeriesRow) error {
	if len(rows) == 0 {
		slog.Info("No time-series data found, skipping time-series dashboard")
		return nil
	}
	groups := groupTimeSeries(rows)

	var data timeSeriesDashboardData
	data.ReportName = g.ReportName

	for i := range groups {
		grp := &groups[i]
		color := loadColor(i)

		data.Latency = append(data.Latency,
			lineDataset{Label: grp.name + " P99", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.P99Ms }), BorderColor: color, BorderWidth: 2, PointRadius: 2},
			lineDataset{Label: grp.name + " P90", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.P90Ms }), BorderColor: color, BorderWidth: 1.5, BorderDash: []int{6, 4}},
			lineDataset{Label: grp.name + " P50", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.P50Ms }), BorderColor: color, BorderWidth: 1, BorderDash: []int{2, 3}},
		)
		data.Resources = append(data.Resources,
			lineDataset{Label: grp.name + " CPU", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.CPUMillicores }), BorderColor: color, BorderWidth: 2, PointRadius: 2, YAxisID: "y"},
			lineDataset{Label: grp.name + " Memory", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.MemoryGB }), BorderColor: color, BorderWidth: 2, BorderDash: []int{6, 4}, YAxisID: "y1"},
		)
		data.Ingestion = append(data.Ingestion,
			lineDataset{Label: grp.name + " MB/sec", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.BytesPerSec / (1024 * 1024) }), BorderColor: color, BackgroundColor: color + "1A", BorderWidth: 2, PointRadius: 2, Fill: true},
		)
		data.Errors = append(data.Errors,
			lineDataset{Label: grp.name + " Failures", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.QueryFailures }), BorderColor: color, BorderWidth: 2, PointRadius: 2, YAxisID: "y"},
			lineDataset{Label: grp.name + " Dropped", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.DroppedSpans }), BorderColor: color, BorderWidth: 2, BorderDash: []int{6, 4}, YAxisID: "y1"},
			lineDataset{Label: grp.name + " Discarded", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.DiscardedSpans }), BorderColor: color, BorderWidth: 2, BorderDash: []int{2, 3}, YAxisID: "y1"},
		)
		data.SpansReturned = append(data.SpansReturned,
			lineDataset{Label: grp.name + " Spans Returned", Data: grp.points(func(r *flatten.TimeSeriesRow) float64 { return r.AvgSpansReturned }), BorderColor: color, BorderWidth: 2, PointRadius: 2},
		)
	}

	return g.render("timeseries-dashboard.html", "timeseries-dashboard", data)
}
