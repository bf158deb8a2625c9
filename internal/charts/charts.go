// Package charts renders the static PNG charts for a results directory
// using gonum/plot. Each chart function is best-effort: charts that have no
// data to show are skipped with a notice, never an error.
package charts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
)

// Renderer writes report-<timestamp>-<name>.png files into OutDir.
type Renderer struct {
	OutDir     string
	ReportName string
	Timestamp  string
}

func (r *Renderer) path(name string) string {
	return filepath.Join(r.OutDir, fmt.Sprintf("report-%s-%s.png", r.Timestamp, name))
}

func (r *Renderer) title(sub string) string {
	return r.ReportName + "\n" + sub
}

func (r *Renderer) save(p *plot.Plot, w, h vg.Length, name string) error {
	out := r.path(name)
	if err := p.Save(w, h, out); err != nil {
		return fmt.Errorf("saving chart %s: %w", out, err)
	}
	slog.Info("Created chart", "path", out)
	return nil
}

// saveGrid lays out plots in a tile grid and writes a single PNG. Nil cells
// are left blank.
func (r *Renderer) saveGrid(plots [][]*plot.Plot, w, h vg.Length, name string) error {
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(150))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Points(12),
		PadY: vg.Points(12),
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	out := r.path(name)
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating chart %s: %w", out, err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing chart %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing chart %s: %w", out, err)
	}
	slog.Info("Created chart", "path", out)
	return nil
}

// newPlot returns a plot with the shared grid and legend defaults.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	return p
}

// loadLabels builds the X axis labels used by every per-load bar chart.
func loadLabels(rows []flatten.SummaryRow) []string {
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = fmt.Sprintf("%s (%g MB/s)", row.LoadName, row.MBPerSec)
	}
	return labels
}

func newBar(values plotter.Values, offset vg.Length, c colorValue) (*plotter.BarChart, error) {
	bar, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("building bar chart: %w", err)
	}
	bar.Offset = offset
	bar.Color = c
	bar.LineStyle.Width = 0
	return bar, nil
}

func newLine(xys plotter.XYs, c colorValue, dashed bool) (*plotter.Line, *plotter.Scatter, error) {
	line, pts, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("building line: %w", err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	if dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	}
	pts.GlyphStyle.Color = c
	pts.GlyphStyle.Radius = vg.Points(1.8)
	pts.GlyphStyle.Shape = draw.CircleGlyph{}
	return line, pts, nil
}

func summaryValues(rows []flatten.SummaryRow, field func(*flatten.SummaryRow) float64) plotter.Values {
	values := make(plotter.Values, len(rows))
	for i := range rows {
		values[i] = field(&rows[i])
	}
	return values
}
