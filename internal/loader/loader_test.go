package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubenvp8510/perf-tests-tempo/internal/models"
)

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	rawDir := filepath.Join(dir, "raw")
	require.NoError(t, os.MkdirAll(rawDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, name), []byte(content), 0o644))
}

func TestLoadResultsSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "small.json", `{"load_name":"small","config":{"mb_per_sec":10}}`)
	writeRaw(t, dir, "broken.json", `{"load_name": "oops"`)
	writeRaw(t, dir, "large.json", `{"load_name":"large","config":{"mb_per_sec":100}}`)

	results, err := LoadResults(dir, "")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Filename order: large.json sorts before small.json.
	assert.Equal(t, "large", results[0].LoadName)
	assert.Equal(t, "small", results[1].LoadName)
}

func TestLoadResultsMissingRawDir(t *testing.T) {
	_, err := LoadResults(t.TempDir(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "raw results directory not found")
}

func TestLoadResultsNoValidFiles(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "broken.json", `not json`)

	_, err := LoadResults(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid JSON result files")
	assert.NotContains(t, err.Error(), "matching")
}

func TestLoadResultsFilter(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "small-ingest.json", `{"load_name":"small"}`)
	writeRaw(t, dir, "small-query.json", `{"load_name":"small-q"}`)

	results, err := LoadResults(dir, "*-ingest.json")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "small", results[0].LoadName)
}

func TestLoadResultsFilterMatchesNothing(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "small.json", `{"load_name":"small"}`)

	_, err := LoadResults(dir, "*-ingest.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `matching "*-ingest.json"`)
}

func TestLoadReportMetadataPicksNewest(t *testing.T) {
	dir := t.TempDir()
	old := `{"report_metadata":{"cluster":{"name":"old-cluster"}}}`
	newer := `{"report_metadata":{"cluster":{"name":"tempo-perf-test/worker-1"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report-20250101-000000.json"), []byte(old), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report-20250301-000000.json"), []byte(newer), 0o644))

	meta := LoadReportMetadata(dir)
	assert.Equal(t, "tempo-perf-test/worker-1", meta.Cluster.Name)
}

func TestLoadReportMetadataMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report-20250101-000000.json"), []byte("nope"), 0o644))
	assert.Equal(t, models.ReportMetadata{}, LoadReportMetadata(dir))
}

func TestReportName(t *testing.T) {
	tests := []struct {
		name string
		meta models.ReportMetadata
		want string
	}{
		{
			name: "cluster name trimmed at slash",
			meta: models.ReportMetadata{Cluster: models.ClusterInfo{Name: "tempo-perf-test/worker-1"}},
			want: "tempo-perf-test",
		},
		{
			name: "plain cluster name",
			meta: models.ReportMetadata{Cluster: models.ClusterInfo{Name: "mycluster"}},
			want: "mycluster",
		},
		{
			name: "falls back to generation date",
			meta: models.ReportMetadata{GeneratedAt: "2025-11-26T12:39:54Z"},
			want: "Report 2025-11-26",
		},
		{
			name: "default",
			meta: models.ReportMetadata{},
			want: "Tempo Performance Test",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReportName(tt.meta))
		})
	}
}
