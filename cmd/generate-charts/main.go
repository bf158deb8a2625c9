package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubenvp8510/perf-tests-tempo/internal/charts"
	"github.com/rubenvp8510/perf-tests-tempo/internal/flatten"
	"github.com/rubenvp8510/perf-tests-tempo/internal/loader"
	"github.com/rubenvp8510/perf-tests-tempo/internal/report"
)

var Version = "dev"

func main() {
	var (
		fileFilter   string
		outputSuffix string
	)

	cmd := &cobra.Command{
		Use:     "generate-charts <results-dir> [timestamp]",
		Short:   "Generate charts and reports from performance test results",
		Long:    "Reads JSON test results from <results-dir>/raw and writes PNG charts, interactive HTML dashboards, summary tables, and a per-container CSV into <results-dir>.",
		Version: Version,
		Args:    cobra.RangeArgs(1, 2),
		Example: `  generate-charts perf-tests/results 20251126-123954
  generate-charts perf-tests/results --filter '*-ingest.json' --output-suffix '-ingest'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resultsDir := args[0]
			timestamp := time.Now().Format("20060102-150405")
			if len(args) > 1 {
				timestamp = args[1]
			}
			return run(resultsDir, timestamp, fileFilter, outputSuffix)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&fileFilter, "filter", "", "glob pattern applied to result file names, e.g. '*-ingest.json'")
	cmd.Flags().StringVar(&outputSuffix, "output-suffix", "", "suffix appended to report file names, e.g. '-ingest'")

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(resultsDir, timestamp, fileFilter, outputSuffix string) error {
	slog.Info("Generating charts", "resultsDir", resultsDir, "timestamp", timestamp)
	if fileFilter != "" {
		slog.Info("Filtering result files", "filter", fileFilter)
	}

	meta := loader.LoadReportMetadata(resultsDir)
	reportName := loader.ReportName(meta)
	slog.Info("Report name resolved", "name", reportName)

	results, err := loader.LoadResults(resultsDir, fileFilter)
	if err != nil {
		return err
	}
	slog.Info("Loaded test results", "count", len(results))

	summary := flatten.BuildSummary(results)
	timeSeries := flatten.BuildTimeSeries(results)
	if len(timeSeries) > 0 {
		slog.Info("Extracted time-series data", "points", len(timeSeries))
	} else {
		slog.Info("No time-series data found (legacy format)")
	}
	containerRows := flatten.BuildContainerRows(results)
	containerStats := flatten.BuildContainerStats(results)

	chartsDir := filepath.Join(resultsDir, "charts")
	if err := os.MkdirAll(chartsDir, 0o755); err != nil {
		return fmt.Errorf("creating charts directory: %w", err)
	}

	renderer := &charts.Renderer{
		OutDir:     chartsDir,
		ReportName: reportName,
		Timestamp:  timestamp,
	}
	if err := renderer.SummaryCharts(summary); err != nil {
		return err
	}
	if err := renderer.TimeSeriesCharts(timeSeries); err != nil {
		return err
	}
	if err := renderer.ContainerCharts(containerRows); err != nil {
		return err
	}

	gen, err := report.NewGenerator(resultsDir, reportName, outputSuffix)
	if err != nil {
		return err
	}
	if err := gen.WriteDashboard(summary); err != nil {
		return err
	}
	if err := gen.WriteTimeSeriesDashboard(timeSeries); err != nil {
		return err
	}
	if err := gen.WriteSummaryTable(summary); err != nil {
		return err
	}
	if err := gen.WritePerContainerReport(containerStats); err != nil {
		return err
	}
	if err := gen.WritePerContainerCSV(containerStats); err != nil {
		return err
	}

	slog.Info("Chart generation complete",
		"charts", filepath.Join(chartsDir, fmt.Sprintf("report-%s-*.png", timestamp)),
		"dashboard", filepath.Join(resultsDir, "dashboard"+outputSuffix+".html"),
		"timeseriesDashboard", filepath.Join(resultsDir, "timeseries-dashboard"+outputSuffix+".html"),
		"summary", filepath.Join(resultsDir, "summary"+outputSuffix+".html"),
		"perContainerReport", filepath.Join(resultsDir, "per-container-report"+outputSuffix+".html"),
		"perContainerCSV", filepath.Join(resultsDir, "per-container-report"+outputSuffix+".csv"))
	return nil
}
