package parser

import "testing"

// reportGrid builds a minimal well-formed report grid: title, blank row,
// column header, then the given body rows.
func reportGrid(body ...[]string) [][]string {
	grid := [][]string{
		{"Daily State Report"},
		{},
		{"Market", "Arrivals", "Unit of Arrivals", "Variety", "Min Price", "Max Price", "Modal Price", "Unit of Price"},
	}
	return append(grid, body...)
}

func TestParseGridSingleMarketRow(t *testing.T) {
	grid := reportGrid(
		[]string{"Commodity Group Name : Fibre Crops"},
		[]string{"Commodity Name : Cotton"},
		[]string{"Akola", "120", "Quintal", "Good", "5000", "5600", "5300", "Rs/Quintal"},
	)

	rows := ParseGrid(grid)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if r.Group != "Fibre Crops" {
		t.Errorf("Group = %q, want %q", r.Group, "Fibre Crops")
	}
	if r.Commodity != "Cotton" {
		t.Errorf("Commodity = %q, want %q", r.Commodity, "Cotton")
	}
	if r.Market != "Akola" {
		t.Errorf("Market = %q, want %q", r.Market, "Akola")
	}
	if r.ModalPrice == nil || *r.ModalPrice != 5300 {
		t.Errorf("ModalPrice = %v, want 5300", r.ModalPrice)
	}
	if r.Arrivals == nil || *r.Arrivals != 120 {
		t.Errorf("Arrivals = %v, want 120", r.Arrivals)
	}
	if r.Variety != "Good" {
		t.Errorf("Variety = %q, want %q", r.Variety, "Good")
	}
	if r.UnitPrice != "Rs/Quintal" {
		t.Errorf("UnitPrice = %q, want %q", r.UnitPrice, "Rs/Quintal")
	}
}

func TestParseGridDropsRowsBeforeMarkers(t *testing.T) {
	// A data row before any group/commodity marker is never emitted.
	grid := reportGrid(
		[]string{"Akola", "120", "Quintal", "Good", "5000", "5600", "5300", "Rs/Quintal"},
	)
	if rows := ParseGrid(grid); len(rows) != 0 {
		t.Errorf("got %d rows, want 0 for data before markers", len(rows))
	}

	// Group alone is not enough.
	grid = reportGrid(
		[]string{"Commodity Group Name : Fibre Crops"},
		[]string{"Akola", "120", "Quintal", "Good", "5000", "5600", "5300", "Rs/Quintal"},
	)
	if rows := ParseGrid(grid); len(rows) != 0 {
		t.Errorf("got %d rows, want 0 without a commodity marker", len(rows))
	}
}

func TestParseGridEveryRowHasGroupAndCommodity(t *testing.T) {
	grid := reportGrid(
		[]string{"Commodity Group Name : Fibre Crops"},
		[]string{"Commodity Name : Cotton"},
		[]string{"Akola", "120", "Quintal", "Good", "5000", "5600", "5300", "Rs/Quintal"},
		[]string{"Commodity Name : Kapas"},
		[]string{"Amravati", "80", "Quintal", "", "6000", "6400", "6200", "Rs/Quintal"},
		[]string{"Commodity Group Name : Oil Seeds"},
		[]string{"Commodity Name : Soyabean"},
		[]string{"Latur", "300", "Quintal", "Yellow", "4200", "4600", "4400", "Rs/Quintal"},
	)

	rows := ParseGrid(grid)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, r := range rows {
		if r.Group == "" || r.Commodity == "" {
			t.Errorf("row %d missing group/commodity: %+v", i, r)
		}
	}
	if rows[1].Commodity != "Kapas" || rows[1].Group != "Fibre Crops" {
		t.Errorf("row 1 = group %q commodity %q, want Fibre Crops/Kapas", rows[1].Group, rows[1].Commodity)
	}
	if rows[2].Group != "Oil Seeds" || rows[2].Commodity != "Soyabean" {
		t.Errorf("row 2 = group %q commodity %q, want Oil Seeds/Soyabean", rows[2].Group, rows[2].Commodity)
	}
}

func TestParseGridSkipsHeaderTokensAndStrayMarkers(t *testing.T) {
	grid := reportGrid(
		[]string{"Commodity Group Name : Fibre Crops"},
		[]string{"Commodity Name : Cotton"},
		[]string{"Market", "Arrivals"},
		[]string{"Variety"},
		[]string{"Commodity-wise Total"},
		[]string{""},
		[]string{"Akola", "120", "Quintal", "Good", "5000", "5600", "5300", "Rs/Quintal"},
	)

	rows := ParseGrid(grid)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Market != "Akola" {
		t.Errorf("Market = %q, want Akola", rows[0].Market)
	}
}

func TestParseGridShortAndBlankCells(t *testing.T) {
	grid := reportGrid(
		[]string{"Commodity Group Name : Fibre Crops"},
		[]string{"Commodity Name : Cotton"},
		[]string{"Akola", "", "Quintal"}, // truncated row, blank arrivals
	)

	rows := ParseGrid(grid)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Arrivals != nil {
		t.Errorf("Arrivals = %v, want nil for blank cell", *r.Arrivals)
	}
	if r.MinPrice != nil || r.MaxPrice != nil || r.ModalPrice != nil {
		t.Error("prices should be nil for columns beyond the row's length")
	}
	if r.UnitArrivals != "Quintal" {
		t.Errorf("UnitArrivals = %q, want Quintal", r.UnitArrivals)
	}
}

func TestParseGridTooSmall(t *testing.T) {
	if rows := ParseGrid(nil); rows != nil {
		t.Errorf("ParseGrid(nil) = %v, want nil", rows)
	}
	if rows := ParseGrid([][]string{{"Title"}, {}, {"Header"}}); len(rows) != 0 {
		t.Errorf("got %d rows for 3-row grid, want 0", len(rows))
	}
}

func TestParseGridMarkerWithoutColon(t *testing.T) {
	// A marker line with no colon sets nothing; following data rows stay
	// unemitted until a well-formed marker appears.
	grid := reportGrid(
		[]string{"Commodity Group Name Fibre Crops"},
		[]string{"Commodity Name : Cotton"},
		[]string{"Akola", "120", "Quintal", "Good", "5000", "5600", "5300", "Rs/Quintal"},
	)
	if rows := ParseGrid(grid); len(rows) != 0 {
		t.Errorf("got %d rows, want 0 when group marker lacks a colon", len(rows))
	}
}

func TestCellFloat(t *testing.T) {
	tests := []struct {
		cell string
		want *float64
	}{
		{"5300", f(5300)},
		{"5,300.50", f(5300.50)},
		{"", nil},
		{"NaN", nil},
		{"Rs/Quintal", nil},
	}
	for _, tt := range tests {
		got := cellFloat([]string{tt.cell}, 0)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("cellFloat(%q) = %v, want nil", tt.cell, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("cellFloat(%q) = %v, want %v", tt.cell, got, *tt.want)
		}
	}
}

func f(v float64) *float64 { return &v }
