package interfaces

import (
	"context"

	"github.com/agrisense/agmark/internal/models"
)

// Catalog resolves free-text names against the reference metadata.
type Catalog interface {
	// StateID resolves a state name to its upstream ID.
	StateID(name string) (int, error)

	// DistrictID resolves a district name within a state.
	DistrictID(stateID int, name string) (int, error)

	// MarketID resolves a market name within a state and district.
	MarketID(stateID, districtID int, name string) (int, error)

	// CommodityID resolves a commodity name to its upstream ID.
	CommodityID(name string) (int, error)

	// DistrictMarkets returns the normalized member market names of a
	// district; empty for unknown districts.
	DistrictMarkets(districtName string) map[string]struct{}

	// HasDistrict reports whether the district exists in the catalog.
	HasDistrict(districtName string) bool
}

// MarketService is the acquisition and resolution core: orchestrated report
// retrieval, trend aggregation, and the dashboard crop summary.
type MarketService interface {
	// FetchDailyReport retrieves and filters a daily report per the
	// cascading date-fallback policy. It never errors for "no data found";
	// absence is an empty row list plus a recorded reason.
	FetchDailyReport(ctx context.Context, req models.FetchRequest) (*models.FetchResult, error)

	// TrendingCrops compares the two most recent cached snapshots and
	// returns commodities whose average modal price rose.
	TrendingCrops(ctx context.Context, districtName string, topN int) ([]models.TrendEntry, error)

	// PrimaryCropSummary returns the dashboard price summary for one crop
	// in one district, or nil when nothing resolves. It never fails.
	PrimaryCropSummary(ctx context.Context, stateName, districtName, crop string) *models.CropSummary
}
