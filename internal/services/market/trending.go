package market

import (
	"context"
	"math"
	"path/filepath"
	"sort"

	"github.com/agrisense/agmark/internal/models"
	"github.com/agrisense/agmark/internal/parser"
)

const defaultTopN = 3

// TrendingCrops compares the two most recent cached snapshots and returns
// the commodities whose average modal price rose, sorted by percentage
// gain. Fewer than two snapshots on disk yields an empty list, never an
// error; trends are a best-effort view over whatever the cache holds.
func (s *Service) TrendingCrops(ctx context.Context, districtName string, topN int) ([]models.TrendEntry, error) {
	if topN <= 0 {
		topN = defaultTopN
	}

	paths, err := s.cache.LatestDailyReports(2)
	if err != nil {
		return nil, err
	}
	if len(paths) < 2 {
		s.logger.Debug().Int("snapshots", len(paths)).Msg("Not enough snapshots for trends")
		return []models.TrendEntry{}, nil
	}

	var districtMarkets map[string]struct{}
	if districtName != "" {
		if !s.catalog.HasDistrict(districtName) {
			return []models.TrendEntry{}, nil
		}
		districtMarkets = s.catalog.DistrictMarkets(districtName)
		if len(districtMarkets) == 0 {
			return []models.TrendEntry{}, nil
		}
	}

	// paths are ordered newest first
	newRows, err := parser.ParseFile(paths[0])
	if err != nil {
		return nil, err
	}
	oldRows, err := parser.ParseFile(paths[1])
	if err != nil {
		return nil, err
	}
	if districtMarkets != nil {
		newRows = filterByMarkets(newRows, districtMarkets)
		oldRows = filterByMarkets(oldRows, districtMarkets)
	}

	newAvg := averageModalByCommodity(newRows)
	oldAvg := averageModalByCommodity(oldRows)

	var entries []models.TrendEntry
	for commodity, newMean := range newAvg {
		oldMean, ok := oldAvg[commodity]
		if !ok || oldMean == 0 {
			continue
		}
		pct := (newMean - oldMean) / oldMean
		if pct <= 0 {
			continue
		}
		entries = append(entries, models.TrendEntry{
			Commodity:   commodity,
			OldAvgModal: round2(oldMean),
			NewAvgModal: round2(newMean),
			PctChange:   round4(pct),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PctChange != entries[j].PctChange {
			return entries[i].PctChange > entries[j].PctChange
		}
		return entries[i].Commodity < entries[j].Commodity
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	if entries == nil {
		entries = []models.TrendEntry{}
	}

	s.logger.Debug().
		Str("new_snapshot", filepath.Base(paths[0])).
		Int("trending", len(entries)).
		Msg("Computed trending crops")
	return entries, nil
}

// averageModalByCommodity computes the mean modal price per commodity.
// Rows without a modal price are excluded from both sum and count.
func averageModalByCommodity(rows []models.PriceRow) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range rows {
		if r.ModalPrice == nil || r.Commodity == "" {
			continue
		}
		sums[r.Commodity] += *r.ModalPrice
		counts[r.Commodity]++
	}

	avgs := make(map[string]float64, len(sums))
	for commodity, sum := range sums {
		avgs[commodity] = sum / float64(counts[commodity])
	}
	return avgs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
