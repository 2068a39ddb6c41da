// Package interfaces defines service contracts for Agmark
package interfaces

import "context"

// ReportClient downloads raw report spreadsheets from the upstream API.
type ReportClient interface {
	// DownloadDailyReport fetches the daily state report for one state and
	// date (YYYY-MM-DD) and returns its raw xlsx bytes.
	DownloadDailyReport(ctx context.Context, stateID int, date string) ([]byte, error)
}
