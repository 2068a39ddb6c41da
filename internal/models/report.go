// Package models defines the data types shared across Agmark
package models

// PriceRow is one market/commodity/variety observation parsed from a daily
// state report. Numeric fields are nil when the source cell was blank.
// A row is immutable once parsed and always carries the group and commodity
// markers that preceded it in the report.
type PriceRow struct {
	Group        string   `json:"group"`
	Commodity    string   `json:"commodity"`
	Market       string   `json:"market"`
	Arrivals     *float64 `json:"arrivals"`
	UnitArrivals string   `json:"unit_arrivals,omitempty"`
	Variety      string   `json:"variety,omitempty"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	ModalPrice   *float64 `json:"modal_price"`
	UnitPrice    string   `json:"unit_price,omitempty"`
}

// Snapshot is one parsed report for one calendar date. The date string
// (YYYY-MM-DD) doubles as the cache key.
type Snapshot struct {
	Date string     `json:"date"`
	Rows []PriceRow `json:"rows"`
}

// FetchRequest describes one orchestrated report retrieval.
type FetchRequest struct {
	StateID       int
	TargetDate    string // YYYY-MM-DD; empty means "use the anchor dates"
	DistrictName  string
	CommodityName string
	RefreshCache  bool
}

// FetchResult carries the filtered rows, the date they came from, and the
// decision trail. Rows is empty (never nil panics, never an error) when no
// date produced usable data; Reason then records why the last attempt failed.
type FetchResult struct {
	RequestID  string         `json:"request_id"`
	Rows       []PriceRow     `json:"rows"`
	ChosenDate string         `json:"chosen_date"`
	Reason     string         `json:"reason,omitempty"`
	Trail      []FetchAttempt `json:"trail"`
}

// FetchAttempt records one date the orchestrator considered and the outcome.
type FetchAttempt struct {
	Date     string `json:"date"`
	Source   string `json:"source"` // "cache" or "download"
	Fallback bool   `json:"fallback,omitempty"`
	Rows     int    `json:"rows"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// TrendEntry is one rising commodity derived from two successive snapshots.
// Only constructed when the old average is defined and non-zero.
type TrendEntry struct {
	Commodity   string  `json:"commodity"`
	OldAvgModal float64 `json:"old_avg_modal"`
	NewAvgModal float64 `json:"new_avg_modal"`
	PctChange   float64 `json:"pct_change"`
}

// CropSummary is the dashboard-facing primary crop price summary. Numeric
// fields are nil and Markets empty when no data was found; this shape never
// travels with an error.
type CropSummary struct {
	Crop       string   `json:"crop"`
	ModalPrice *float64 `json:"modal_price"`
	MinPrice   *float64 `json:"min_price"`
	MaxPrice   *float64 `json:"max_price"`
	Markets    []string `json:"markets"`
	Date       string   `json:"date"`
	RowsFound  int      `json:"rows_found"`
}
