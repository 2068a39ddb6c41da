package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agrisense/agmark/internal/common"
	"github.com/agrisense/agmark/internal/models"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig handles GET /api/config — non-secret runtime configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": cfg.Environment,
		"server": map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		},
		"storage": map[string]string{
			"downloads": cfg.Storage.Downloads.Path,
			"catalog":   cfg.Catalog.Path,
		},
		"matching": map[string]float64{
			"text_threshold":      cfg.Matching.TextThreshold,
			"commodity_threshold": cfg.Matching.CommodityThreshold,
		},
	})
}

// handlePrices handles GET /api/prices — the orchestrated daily report.
// Query parameters: state (name, required), district, commodity, date
// (YYYY-MM-DD), refresh.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	stateName := q.Get("state")
	if stateName == "" {
		WriteError(w, http.StatusBadRequest, "state is required")
		return
	}

	stateID, err := s.app.Catalog.StateID(stateName)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown state: %v", err))
		return
	}

	res, err := s.app.MarketService.FetchDailyReport(r.Context(), models.FetchRequest{
		StateID:       stateID,
		TargetDate:    q.Get("date"),
		DistrictName:  q.Get("district"),
		CommodityName: q.Get("commodity"),
		RefreshCache:  QueryBool(r, "refresh"),
	})
	if err != nil {
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			WriteError(w, http.StatusBadRequest, verr.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Fetch error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, res)
}

// handleTrending handles GET /api/dashboard/trending.
// Query parameters: district, top_n.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	entries, err := s.app.MarketService.TrendingCrops(r.Context(), r.URL.Query().Get("district"), QueryInt(r, "top_n", 0))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Trending error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trending": entries,
	})
}

// handlePrimaryCrop handles GET /api/dashboard/primary-crop.
// Query parameters: state, district, crop (all required).
func (s *Server) handlePrimaryCrop(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	state, district, crop := q.Get("state"), q.Get("district"), q.Get("crop")
	if state == "" || district == "" || crop == "" {
		WriteError(w, http.StatusBadRequest, "state, district and crop are required")
		return
	}

	summary := s.app.MarketService.PrimaryCropSummary(r.Context(), state, district, crop)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary, // null when nothing resolved
	})
}

// handleCatalogLookup handles GET /api/catalog/lookup — resolve free-text
// names to upstream IDs. Query parameters: state (required), district,
// market (requires district), commodity.
func (s *Server) handleCatalogLookup(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	stateName := q.Get("state")
	if stateName == "" {
		WriteError(w, http.StatusBadRequest, "state is required")
		return
	}

	stateID, err := s.app.Catalog.StateID(stateName)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown state: %v", err))
		return
	}

	result := map[string]interface{}{"state_id": stateID}

	if district := q.Get("district"); district != "" {
		districtID, err := s.app.Catalog.DistrictID(stateID, district)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown district: %v", err))
			return
		}
		result["district_id"] = districtID

		if mkt := q.Get("market"); mkt != "" {
			marketID, err := s.app.Catalog.MarketID(stateID, districtID, mkt)
			if err != nil {
				WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown market: %v", err))
				return
			}
			result["market_id"] = marketID
		}
	} else if q.Get("market") != "" {
		WriteError(w, http.StatusBadRequest, "market lookup requires district")
		return
	}

	if commodity := q.Get("commodity"); commodity != "" {
		commodityID, err := s.app.Catalog.CommodityID(commodity)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown commodity: %v", err))
			return
		}
		result["commodity_id"] = commodityID
	}

	WriteJSON(w, http.StatusOK, result)
}
