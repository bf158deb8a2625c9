// Package report writes the HTML and CSV artifacts for a results
// directory: the summary table, the per-container report, and the two
// interactive dashboards.
package report

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
)

// Generator renders report files into OutDir. Suffix, when set, is
// appended to every file name before the extension, so filtered runs can
// live next to the full report.
type Generator struct {
	OutDir     string
	ReportName string
	Suffix     string

	templates *template.Template
}

func NewGenerator(outDir, reportName, suffix string) (*Generator, error) {
	tmpl, err := template.New("report").
		Funcs(templateFuncs()).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing report templates: %w", err)
	}
	return &Generator{
		OutDir:     outDir,
		ReportName: reportName,
		Suffix:     suffix,
		templates:  tmpl,
	}, nil
}

func (g *Generator) path(base, ext string) string {
	return filepath.Join(g.OutDir, base+g.Suffix+ext)
}

func (g *Generator) render(name, base string, data any) error {
	out := g.path(base, ".html")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	if err := g.templates.ExecuteTemplate(f, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", out, err)
	}
	slog.Info("Created report", "path", out)
	return nil
}

type summaryData struct {
	ReportName string
	Rows       []flatten.SummaryRow
}

// WriteSummaryTable writes summary<suffix>.html, one row per load.
func (g *Generator) WriteSummaryTable(rows []flatten.SummaryRow) error {
	return g.render("summary.html", "summary", summaryData{
		ReportName: g.ReportName,
		Rows:       rows,
	})
}

// podSection is one pod's containers plus the pod total, taken from any
// member row since totals are identical across the pod.
type podSection struct {
	LoadName   string
	Pod        string
	Containers []flatten.ContainerStat
	Total      flatten.ContainerStat
}

type loadSection struct {
	Name string
	Pods []podSection
}

type containerData struct {
	ReportName string
	Loads      []loadSection
}

func groupContainerStats(stats []flatten.ContainerStat) []loadSection {
	var loads []loadSection
	for _, s := range stats {
		if len(loads) == 0 || loads[len(loads)-1].Name != s.LoadName {
			loads = append(loads, loadSection{Name: s.LoadName})
		}
		l := &loads[len(loads)-1]
		if len(l.Pods) == 0 || l.Pods[len(l.Pods)-1].Pod != s.Pod {
			l.Pods = append(l.Pods, podSection{LoadName: s.LoadName, Pod: s.Pod, Total: s})
		}
		p := &l.Pods[len(l.Pods)-1]
		p.Containers = append(p.Containers, s)
	}
	return loads
}

// WritePerContainerReport writes per-container-report<suffix>.html with a
// pod-total row after each pod's containers. No-op when there is no
// per-container data.
func (g *Generator) WritePerContainerReport(stats []flatten.ContainerStat) error {
	if len(stats) == 0 {
		slog.Info("No per-container data found, skipping per-container report")
		return nil
	}
	return g.render("per-container.html", "per-container-report", containerData{
		ReportName: g.ReportName,
		Loads:      groupContainerStats(stats),
	})
}
