// Package catalog loads the static Agmarknet reference metadata (states,
// districts, markets, commodities, grades) into memory and resolves
// human-friendly names to their upstream IDs.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agrisense/agmark/internal/common"
	"github.com/agrisense/agmark/internal/matching"
	"github.com/agrisense/agmark/internal/models"
)

// File names expected inside the metadata directory.
const (
	statesFile      = "states.json"
	districtsFile   = "districts.json"
	marketsFile     = "markets.json"
	commoditiesFile = "commodities.json"
	gradesFile      = "grades.json"
)

// Catalog holds the reference collections. Loaded once at construction and
// read-only afterwards.
type Catalog struct {
	states      []models.State
	districts   []models.District
	markets     []models.Market
	commodities []models.Commodity
	grades      []models.Grade
}

// New loads all five metadata collections from dir. It fails fast with a
// NotFoundError if any expected file is absent.
func New(dir string) (*Catalog, error) {
	c := &Catalog{}

	loads := []struct {
		name string
		dest interface{}
	}{
		{statesFile, &c.states},
		{districtsFile, &c.districts},
		{marketsFile, &c.markets},
		{commoditiesFile, &c.commodities},
		{gradesFile, &c.grades},
	}

	for _, l := range loads {
		path := filepath.Join(dir, l.name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &common.NotFoundError{Kind: "metadata file", Name: path}
			}
			return nil, fmt.Errorf("failed to read metadata file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, l.dest); err != nil {
			return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
		}
	}

	return c, nil
}

// nameEqual is the catalog's exact-match rule: trimmed, case-insensitive.
func nameEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// StateID resolves a state name to its ID.
func (c *Catalog) StateID(name string) (int, error) {
	for _, s := range c.states {
		if s.Name != "" && nameEqual(s.Name, name) && s.ID != 0 {
			return s.ID, nil
		}
	}
	return 0, &common.NotFoundError{Kind: "state", Name: name}
}

// DistrictID resolves a district name within a state to its ID. Districts
// whose records carry no state reference are matched by name alone.
func (c *Catalog) DistrictID(stateID int, name string) (int, error) {
	for _, d := range c.districts {
		if d.StateID != 0 && d.StateID != stateID {
			continue
		}
		if d.Name != "" && nameEqual(d.Name, name) && d.ID != 0 {
			return d.ID, nil
		}
	}
	return 0, &common.NotFoundError{Kind: "district", Name: name}
}

// MarketID resolves a market name within a state and district to its ID.
func (c *Catalog) MarketID(stateID, districtID int, name string) (int, error) {
	for _, m := range c.markets {
		if m.StateID != stateID || m.DistrictID != districtID {
			continue
		}
		if m.Name != "" && nameEqual(m.Name, name) && m.ID != 0 {
			return m.ID, nil
		}
	}
	return 0, &common.NotFoundError{Kind: "market", Name: name}
}

// CommodityID resolves a commodity name to its ID.
func (c *Catalog) CommodityID(name string) (int, error) {
	for _, cm := range c.commodities {
		if cm.Name != "" && nameEqual(cm.Name, name) && cm.ID != 0 {
			return cm.ID, nil
		}
	}
	return 0, &common.NotFoundError{Kind: "commodity", Name: name}
}

// DistrictMarkets returns the normalized names of the district's member
// markets. Unknown districts, and districts with no markets listed, yield an
// empty set; membership tests are always performed on normalized names.
func (c *Catalog) DistrictMarkets(districtName string) map[string]struct{} {
	markets := make(map[string]struct{})
	for _, d := range c.districts {
		if !nameEqual(d.Name, districtName) {
			continue
		}
		for _, m := range d.Markets {
			if norm := matching.NormalizeMarket(m.Name); norm != "" {
				markets[norm] = struct{}{}
			}
		}
		break
	}
	return markets
}

// HasDistrict reports whether a district with the given name exists.
func (c *Catalog) HasDistrict(districtName string) bool {
	for _, d := range c.districts {
		if nameEqual(d.Name, districtName) {
			return true
		}
	}
	return false
}
