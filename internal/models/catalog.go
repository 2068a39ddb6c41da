package models

import (
	"encoding/json"
	"strconv"
)

// Catalog record types. The upstream metadata dumps are inconsistent about
// field names (a state's name may be under "state_name", "name", or
// "state"), so each type unmarshals through an alias list and keeps the
// first key that is present.

// State is one state record from states.json.
type State struct {
	ID   int
	Name string
}

func (s *State) UnmarshalJSON(data []byte) error {
	raw, err := decodeRecord(data)
	if err != nil {
		return err
	}
	s.ID = raw.intField("state_id", "id")
	s.Name = raw.stringField("state_name", "name", "state")
	return nil
}

// MarketRef is a market entry nested inside a district record.
type MarketRef struct {
	ID   int
	Name string
}

func (m *MarketRef) UnmarshalJSON(data []byte) error {
	raw, err := decodeRecord(data)
	if err != nil {
		return err
	}
	m.ID = raw.intField("id", "market_id", "mkt_id")
	m.Name = raw.stringField("mkt_name", "market_name", "name", "mkt")
	return nil
}

// District is one district record from districts.json, including its
// member markets.
type District struct {
	ID      int
	StateID int
	Name    string
	Markets []MarketRef
}

func (d *District) UnmarshalJSON(data []byte) error {
	raw, err := decodeRecord(data)
	if err != nil {
		return err
	}
	d.ID = raw.intField("district_id", "id")
	d.StateID = raw.intField("state_id", "state")
	d.Name = raw.stringField("district_name", "name", "district")
	if mkts, ok := raw["markets"]; ok {
		var refs []MarketRef
		if err := json.Unmarshal(mkts, &refs); err != nil {
			return err
		}
		d.Markets = refs
	}
	return nil
}

// Market is one standalone market record from markets.json.
type Market struct {
	ID         int
	StateID    int
	DistrictID int
	Name       string
}

func (m *Market) UnmarshalJSON(data []byte) error {
	raw, err := decodeRecord(data)
	if err != nil {
		return err
	}
	m.ID = raw.intField("id", "market_id", "mkt_id")
	m.StateID = raw.intField("state_id", "state")
	m.DistrictID = raw.intField("district_id", "district")
	m.Name = raw.stringField("mkt_name", "market_name", "name", "mkt")
	return nil
}

// Commodity is one commodity record from commodities.json.
type Commodity struct {
	ID      int
	GroupID int
	Name    string
}

func (c *Commodity) UnmarshalJSON(data []byte) error {
	raw, err := decodeRecord(data)
	if err != nil {
		return err
	}
	c.ID = raw.intField("cmdt_id", "commodity_id", "id")
	c.GroupID = raw.intField("cmdt_group_id", "group_id")
	c.Name = raw.stringField("cmdt_name", "commodity_name", "name")
	return nil
}

// Grade is one grade record from grades.json.
type Grade struct {
	ID   int
	Name string
}

func (g *Grade) UnmarshalJSON(data []byte) error {
	raw, err := decodeRecord(data)
	if err != nil {
		return err
	}
	g.ID = raw.intField("grade_id", "id")
	g.Name = raw.stringField("grade_name", "name", "grade")
	return nil
}

// --- alias-key helpers ---

type record map[string]json.RawMessage

func decodeRecord(data []byte) (record, error) {
	var raw record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// stringField returns the first alias present with a non-empty string value.
func (r record) stringField(aliases ...string) string {
	for _, key := range aliases {
		msg, ok := r[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// intField returns the first alias present that holds an integer, accepting
// both JSON numbers and numeric strings.
func (r record) intField(aliases ...string) int {
	for _, key := range aliases {
		msg, ok := r[key]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(msg, &n); err == nil {
			return n
		}
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			if v, err := strconv.Atoi(s); err == nil {
				return v
			}
		}
	}
	return 0
}
