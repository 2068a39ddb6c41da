package interfaces

// ReportCache stores downloaded report snapshots keyed by date string.
// A cached file, once written for a date, is treated as immutable: reads use
// it as-is unless a refresh is explicitly requested.
type ReportCache interface {
	// DailyReportPath returns the cache file path for a date.
	DailyReportPath(date string) string

	// HasDailyReport reports whether a snapshot exists for the date.
	HasDailyReport(date string) bool

	// ReadDailyReport returns the raw snapshot bytes for a date.
	ReadDailyReport(date string) ([]byte, error)

	// WriteDailyReport stores snapshot bytes for a date.
	WriteDailyReport(date string, data []byte) error

	// LatestDailyReports returns up to n snapshot file paths ordered by
	// file modification time, most recent first.
	LatestDailyReports(n int) ([]string, error)
}
