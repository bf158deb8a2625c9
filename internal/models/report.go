package models

// ReportFile is the top-level shape of a report-*.json metadata file.
type ReportFile struct {
	ReportMetadata ReportMetadata `json:"report_metadata"`
}

// ReportMetadata describes the run that produced a results directory.
type ReportMetadata struct {
	Cluster     ClusterInfo `json:"cluster"`
	GeneratedAt string      `json:"generated_at"`
}

// ClusterInfo identifies the cluster the test ran against.
type ClusterInfo struct {
	Name string `json:"name"`
}
