package market

import (
	"context"
	"sort"

	"github.com/agrisense/agmark/internal/models"
)

// PrimaryCropSummary aggregates the latest prices of a district's primary
// crop for dashboard display. Any failure along the way (unknown state,
// fetch error, no matching rows) yields nil rather than an error; the
// dashboard renders the gap.
func (s *Service) PrimaryCropSummary(ctx context.Context, stateName, districtName, crop string) *models.CropSummary {
	stateID, err := s.catalog.StateID(stateName)
	if err != nil {
		s.logger.Debug().Str("state", stateName).Msg("Unknown state for crop summary")
		return nil
	}

	res, err := s.FetchDailyReport(ctx, models.FetchRequest{
		StateID:       stateID,
		DistrictName:  districtName,
		CommodityName: crop,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("crop", crop).Msg("Crop summary fetch failed")
		return nil
	}
	if len(res.Rows) == 0 {
		s.logger.Debug().
			Str("district", districtName).
			Str("crop", crop).
			Str("reason", res.Reason).
			Msg("No rows for crop summary")
		return nil
	}

	summary := &models.CropSummary{
		Crop:       crop,
		ModalPrice: averageOf(res.Rows, func(r models.PriceRow) *float64 { return r.ModalPrice }),
		MinPrice:   averageOf(res.Rows, func(r models.PriceRow) *float64 { return r.MinPrice }),
		MaxPrice:   averageOf(res.Rows, func(r models.PriceRow) *float64 { return r.MaxPrice }),
		Markets:    uniqueMarkets(res.Rows),
		Date:       res.ChosenDate,
		RowsFound:  len(res.Rows),
	}
	return summary
}

// averageOf computes the mean of one price field, skipping absent values.
// All values absent yields nil.
func averageOf(rows []models.PriceRow, field func(models.PriceRow) *float64) *float64 {
	var sum float64
	var count int
	for _, r := range rows {
		if v := field(r); v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

func uniqueMarkets(rows []models.PriceRow) []string {
	seen := make(map[string]struct{})
	var markets []string
	for _, r := range rows {
		if r.Market == "" {
			continue
		}
		if _, ok := seen[r.Market]; ok {
			continue
		}
		seen[r.Market] = struct{}{}
		markets = append(markets, r.Market)
	}
	sort.Strings(markets)
	return markets
}
