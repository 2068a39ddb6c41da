// Package market implements the acquisition and resolution core: the
// retrieval orchestrator with its cascading date-fallback policy, the trend
// aggregator, and the dashboard crop summary.
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrisense/agmark/internal/common"
	"github.com/agrisense/agmark/internal/interfaces"
	"github.com/agrisense/agmark/internal/matching"
	"github.com/agrisense/agmark/internal/models"
	"github.com/agrisense/agmark/internal/parser"
)

const dateLayout = "2006-01-02"

const (
	// A downloaded report is usable only when strictly more rows than this
	// parse out of it; reports published before districts finish uploading
	// contain a handful of stray rows.
	minAcceptedRows = 5

	// Reports publish with a lag, so anchor dates start two days back and
	// three anchors are tried.
	firstAnchorLag = 2
	anchorCount    = 3

	// The fallback cascade walks up to this many days before the first
	// anchor. Worst case per call: 3 anchors x (1 direct + 3 fallback) = 12
	// fetch attempts.
	maxFallbackDays = 3
)

// Service implements MarketService
type Service struct {
	cache            interfaces.ReportCache
	client           interfaces.ReportClient
	catalog          interfaces.Catalog
	textMatcher      *matching.Matcher
	commodityMatcher *matching.Matcher
	logger           *common.Logger
	now              func() time.Time
}

// NewService creates a new market service with default matcher thresholds.
func NewService(
	cache interfaces.ReportCache,
	client interfaces.ReportClient,
	catalog interfaces.Catalog,
	logger *common.Logger,
) *Service {
	return &Service{
		cache:            cache,
		client:           client,
		catalog:          catalog,
		textMatcher:      matching.NewMatcher(matching.DefaultTextThreshold),
		commodityMatcher: matching.NewMatcher(matching.DefaultCommodityThreshold),
		logger:           logger,
		now:              time.Now,
	}
}

// SetMatching applies configured similarity thresholds.
func (s *Service) SetMatching(cfg common.MatchingConfig) {
	s.textMatcher = matching.NewMatcher(cfg.TextThreshold)
	s.commodityMatcher = matching.NewMatcher(cfg.CommodityThreshold)
}

// FetchDailyReport retrieves and filters a daily state report per the
// candidate-date policy: a given target date is the only candidate;
// otherwise three anchors (today-2..today-4) are tried, with the fallback
// cascade available to the first anchor only. The method never errors for
// "no data found" — it degrades to an empty row list plus a recorded reason.
func (s *Service) FetchDailyReport(ctx context.Context, req models.FetchRequest) (*models.FetchResult, error) {
	res := &models.FetchResult{
		RequestID: uuid.NewString(),
		Rows:      []models.PriceRow{},
	}

	anchors, err := s.anchorDates(req.TargetDate)
	if err != nil {
		return nil, err
	}
	firstAnchor := anchors[0]
	res.ChosenDate = firstAnchor.Format(dateLayout)

	s.logger.Debug().
		Str("request_id", res.RequestID).
		Int("state", req.StateID).
		Str("district", req.DistrictName).
		Str("commodity", req.CommodityName).
		Str("first_anchor", res.ChosenDate).
		Msg("Fetching daily report")

	for idx, anchor := range anchors {
		date := anchor.Format(dateLayout)
		allowFallback := idx == 0

		rows, ok := s.loadAnchor(ctx, req.StateID, date, req.RefreshCache, res)
		if !ok {
			continue
		}

		switch s.resolve(ctx, req, rows, date, firstAnchor, allowFallback, res) {
		case resolved:
			s.logger.Info().
				Str("request_id", res.RequestID).
				Str("chosen_date", res.ChosenDate).
				Int("rows", len(res.Rows)).
				Msg("Daily report resolved")
			return res, nil
		case abortEmpty:
			return res, nil
		}
		// abandoned: try the next anchor
	}

	if res.Reason == "" {
		res.Reason = "no usable report for any candidate date"
	}
	res.ChosenDate = firstAnchor.Format(dateLayout)
	s.logger.Warn().
		Str("request_id", res.RequestID).
		Str("reason", res.Reason).
		Msg("Daily report exhausted all candidate dates")
	return res, nil
}

// anchorDates builds the candidate-date list.
func (s *Service) anchorDates(targetDate string) ([]time.Time, error) {
	if targetDate != "" {
		t, err := time.Parse(dateLayout, targetDate)
		if err != nil {
			return nil, &common.ValidationError{
				Field:  "target_date",
				Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", targetDate),
			}
		}
		return []time.Time{t}, nil
	}

	today := s.now()
	anchors := make([]time.Time, 0, anchorCount)
	for i := 0; i < anchorCount; i++ {
		anchors = append(anchors, today.AddDate(0, 0, -(firstAnchorLag + i)))
	}
	return anchors, nil
}

// outcome of resolving one anchor's snapshot against the request filters.
type outcome int

const (
	resolved outcome = iota
	abandoned
	abortEmpty
)

// filterStage identifies which filter triggered the fallback cascade.
type filterStage int

const (
	stageDistrict filterStage = iota
	stageCommodity
)

// resolve applies the district and commodity filters to an accepted
// snapshot, entering the fallback cascade on the first anchor when a stage
// yields nothing. On success it fills res.Rows and res.ChosenDate.
func (s *Service) resolve(
	ctx context.Context,
	req models.FetchRequest,
	snapshotRows []models.PriceRow,
	date string,
	firstAnchor time.Time,
	allowFallback bool,
	res *models.FetchResult,
) outcome {
	working := snapshotRows
	effectiveDate := date
	var districtMarkets map[string]struct{}

	if req.DistrictName != "" {
		if !s.catalog.HasDistrict(req.DistrictName) {
			res.ChosenDate = date
			res.Reason = fmt.Sprintf("district %q not found in catalog", req.DistrictName)
			return abortEmpty
		}
		districtMarkets = s.catalog.DistrictMarkets(req.DistrictName)
		if len(districtMarkets) == 0 {
			res.ChosenDate = date
			res.Reason = fmt.Sprintf("district %q has no markets listed in catalog", req.DistrictName)
			return abortEmpty
		}

		districtRows := filterByMarkets(working, districtMarkets)
		if len(districtRows) == 0 {
			res.Reason = fmt.Sprintf("no rows matched markets of district %q on %s", req.DistrictName, effectiveDate)
			if !allowFallback {
				return abandoned
			}
			fbRows, fbDate, ok := s.runCascade(ctx, req, firstAnchor, districtMarkets, stageDistrict, res)
			if !ok {
				return abandoned
			}
			districtRows = fbRows
			effectiveDate = fbDate
		}
		working = districtRows
	}

	if req.CommodityName != "" {
		matched, matchedBy := s.filterByCommodity(working, req.CommodityName)
		if len(matched) == 0 {
			res.Reason = fmt.Sprintf("no rows matched commodity %q on %s", req.CommodityName, effectiveDate)
			if !allowFallback {
				return abandoned
			}
			fbRows, fbDate, ok := s.runCascade(ctx, req, firstAnchor, districtMarkets, stageCommodity, res)
			if !ok {
				return abandoned
			}
			matched = fbRows
			effectiveDate = fbDate
		} else if matchedBy == "group" {
			s.logger.Debug().
				Str("commodity", req.CommodityName).
				Msg("No commodity-name matches; matched by group instead")
		}
		working = matched
	}

	res.Rows = working
	res.ChosenDate = effectiveDate
	res.Reason = ""
	return resolved
}

// runCascade tries up to maxFallbackDays extra dates, each one day further
// back, starting the day before the first anchor (not before the failing
// date). Each fallback date must parse more than minAcceptedRows rows; the
// stage that triggered the cascade is then re-applied in full (district
// membership, then commodity matching when that stage triggered). The first
// date with non-empty filtered rows wins: its filtered rows replace the
// stage's rows and the effective date advances to it.
func (s *Service) runCascade(
	ctx context.Context,
	req models.FetchRequest,
	firstAnchor time.Time,
	districtMarkets map[string]struct{},
	stage filterStage,
	res *models.FetchResult,
) ([]models.PriceRow, string, bool) {
	for back := 1; back <= maxFallbackDays; back++ {
		date := firstAnchor.AddDate(0, 0, -back).Format(dateLayout)

		rows, ok := s.loadFallback(ctx, req.StateID, date, req.RefreshCache, res)
		if !ok {
			continue
		}

		filtered := rows
		if req.DistrictName != "" {
			filtered = filterByMarkets(filtered, districtMarkets)
			if len(filtered) == 0 {
				continue
			}
		}
		if stage == stageCommodity {
			matched, _ := s.filterByCommodity(filtered, req.CommodityName)
			if len(matched) == 0 {
				continue
			}
			filtered = matched
		}

		s.logger.Info().
			Str("fallback_date", date).
			Int("rows", len(filtered)).
			Msg("Fallback date produced filtered rows")
		return filtered, date, true
	}
	return nil, "", false
}

// loadAnchor resolves a snapshot for an anchor date: a cached file that
// parses to at least one row is used as-is; otherwise a fresh download must
// clear the acceptance threshold.
func (s *Service) loadAnchor(ctx context.Context, stateID int, date string, refresh bool, res *models.FetchResult) ([]models.PriceRow, bool) {
	if !refresh && s.cache.HasDailyReport(date) {
		rows, err := parser.ParseFile(s.cache.DailyReportPath(date))
		attempt := models.FetchAttempt{Date: date, Source: "cache", Rows: len(rows)}
		if err == nil && len(rows) > 0 {
			attempt.Accepted = true
			res.Trail = append(res.Trail, attempt)
			return rows, true
		}
		if err != nil {
			attempt.Reason = err.Error()
		} else {
			attempt.Reason = "cached snapshot parsed to zero rows"
		}
		res.Trail = append(res.Trail, attempt)
		// Unusable cache: fall through to a fresh download.
	}
	return s.download(ctx, stateID, date, false, res)
}

// loadFallback resolves a snapshot for a fallback date. A cached file is
// used without re-download, but fallback dates always require more than
// minAcceptedRows rows.
func (s *Service) loadFallback(ctx context.Context, stateID int, date string, refresh bool, res *models.FetchResult) ([]models.PriceRow, bool) {
	if !refresh && s.cache.HasDailyReport(date) {
		rows, err := parser.ParseFile(s.cache.DailyReportPath(date))
		attempt := models.FetchAttempt{Date: date, Source: "cache", Fallback: true, Rows: len(rows)}
		if err == nil && len(rows) > minAcceptedRows {
			attempt.Accepted = true
			res.Trail = append(res.Trail, attempt)
			return rows, true
		}
		if err != nil {
			attempt.Reason = err.Error()
		} else {
			attempt.Reason = fmt.Sprintf("only %d rows parsed (need more than %d)", len(rows), minAcceptedRows)
		}
		res.Trail = append(res.Trail, attempt)
		return nil, false
	}
	return s.download(ctx, stateID, date, true, res)
}

// download fetches, caches, and parses a report for one date. Network and
// parse failures are recorded on the trail and abandon the date; they are
// never re-raised.
func (s *Service) download(ctx context.Context, stateID int, date string, fallback bool, res *models.FetchResult) ([]models.PriceRow, bool) {
	attempt := models.FetchAttempt{Date: date, Source: "download", Fallback: fallback}

	data, err := s.client.DownloadDailyReport(ctx, stateID, date)
	if err != nil {
		attempt.Reason = err.Error()
		res.Trail = append(res.Trail, attempt)
		res.Reason = attempt.Reason
		s.logger.Debug().Str("date", date).Err(err).Msg("Report download failed")
		return nil, false
	}

	if err := s.cache.WriteDailyReport(date, data); err != nil {
		// Parse from memory anyway; only caching for later calls is lost.
		s.logger.Warn().Str("date", date).Err(err).Msg("Failed to cache snapshot")
	}

	rows, err := parser.ParseWorkbook(data, date)
	if err != nil {
		attempt.Reason = err.Error()
		res.Trail = append(res.Trail, attempt)
		res.Reason = attempt.Reason
		return nil, false
	}

	attempt.Rows = len(rows)
	if len(rows) <= minAcceptedRows {
		attempt.Reason = fmt.Sprintf("only %d rows parsed (need more than %d)", len(rows), minAcceptedRows)
		res.Trail = append(res.Trail, attempt)
		res.Reason = attempt.Reason
		return nil, false
	}

	attempt.Accepted = true
	res.Trail = append(res.Trail, attempt)
	return rows, true
}

// filterByMarkets keeps rows whose normalized market name is a member of
// the district's market set. Raw names are never compared directly.
func filterByMarkets(rows []models.PriceRow, markets map[string]struct{}) []models.PriceRow {
	var kept []models.PriceRow
	for _, r := range rows {
		if _, ok := markets[matching.NormalizeMarket(r.Market)]; ok {
			kept = append(kept, r)
		}
	}
	return kept
}

// filterByCommodity matches rows against the commodity field first, then
// falls back to the looser group field (for queries like "Pulses" or
// "Oil Seeds"). Returns which field matched for the decision trail.
func (s *Service) filterByCommodity(rows []models.PriceRow, name string) ([]models.PriceRow, string) {
	var byName []models.PriceRow
	for _, r := range rows {
		if s.commodityMatcher.Matches(r.Commodity, name) {
			byName = append(byName, r)
		}
	}
	if len(byName) > 0 {
		return byName, "commodity"
	}

	var byGroup []models.PriceRow
	for _, r := range rows {
		if s.textMatcher.Matches(r.Group, name) {
			byGroup = append(byGroup, r)
		}
	}
	if len(byGroup) > 0 {
		return byGroup, "group"
	}
	return nil, ""
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
