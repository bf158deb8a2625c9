// Package loader reads raw test result documents and report metadata from a
// results directory. Individual malformed files are skipped with a warning;
// a missing directory or an empty result set is an error.
package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/rubenvp8510/perf-tests-tempo/internal/models"
)

// LoadResults loads every parsable JSON document from <dir>/raw, in
// filename order. filter, when non-empty, is a glob matched against the
// base filename (e.g. "*-ingest.json").
func LoadResults(dir, filter string) ([]models.TestResult, error) {
	rawDir := filepath.Join(dir, "raw")
	if _, err := os.Stat(rawDir); err != nil {
		return nil, fmt.Errorf("raw results directory not found: %s", rawDir)
	}

	files, err := filepath.Glob(filepath.Join(rawDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", rawDir, err)
	}
	sort.Strings(files)

	var results []models.TestResult
	for _, file := range files {
		if filter != "" {
			ok, matchErr := path.Match(filter, filepath.Base(file))
			if matchErr != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, matchErr)
			}
			if !ok {
				continue
			}
		}

		data, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("Could not read result file", "file", file, "error", err)
			continue
		}

		var result models.TestResult
		if err := json.Unmarshal(data, &result); err != nil {
			slog.Warn("Could not parse result file", "file", file, "error", err)
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		if filter != "" {
			return nil, fmt.Errorf("no valid JSON result files found in %s matching %q", rawDir, filter)
		}
		return nil, fmt.Errorf("no valid JSON result files found in %s", rawDir)
	}

	return results, nil
}

// LoadReportMetadata reads the most recent report-*.json file (by name) in
// the results directory. An unreadable or malformed report file is not
// fatal; it yields empty metadata with a warning.
func LoadReportMetadata(dir string) models.ReportMetadata {
	files, err := filepath.Glob(filepath.Join(dir, "report-*.json"))
	if err != nil || len(files) == 0 {
		return models.ReportMetadata{}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	data, err := os.ReadFile(files[0])
	if err != nil {
		slog.Warn("Could not read report file", "file", files[0], "error", err)
		return models.ReportMetadata{}
	}

	var report models.ReportFile
	if err := json.Unmarshal(data, &report); err != nil {
		slog.Warn("Could not parse report file", "file", files[0], "error", err)
		return models.ReportMetadata{}
	}
	return report.ReportMetadata
}

// ReportName derives a display name from report metadata. Cluster names of
// the form "name/rest" are shortened to "name".
func ReportName(meta models.ReportMetadata) string {
	if name := meta.Cluster.Name; name != "" {
		for i := range name {
			if name[i] == '/' {
				return name[:i]
			}
		}
		return name
	}
	if len(meta.GeneratedAt) >= 10 {
		return "Report " + meta.GeneratedAt[:10]
	}
	return "Tempo Performance Test"
}
