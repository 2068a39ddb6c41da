// Package parser converts raw daily state report spreadsheets into typed
// price rows. The report layout is header-less: a title row, a blank row,
// a column header row, then data rows interleaved with commodity group and
// commodity name marker lines.
package parser

import (
	"strconv"
	"strings"

	"github.com/agrisense/agmark/internal/models"
)

// The first three grid rows (title, blank, column header) carry no data.
const headerRows = 3

// Marker prefixes and stray header tokens in column 0. The prefixes are
// case-sensitive, exactly as published.
const (
	groupMarkerPrefix     = "Commodity Group Name"
	commodityMarkerPrefix = "Commodity Name"
)

// ParseGrid scans a 2-D cell grid left to right and emits one PriceRow per
// market data row. A market row is only recognized once both a group marker
// and a commodity marker have been seen; earlier data rows are dropped.
// A grid with fewer than four rows, or without recognizable markers, yields
// no rows — that is not an error.
func ParseGrid(grid [][]string) []models.PriceRow {
	if len(grid) <= headerRows {
		return nil
	}

	var rows []models.PriceRow
	var group, commodity string
	var haveGroup, haveCommodity bool

	for _, row := range grid[headerRows:] {
		first := cellString(row, 0)
		if first == "" {
			continue
		}

		if strings.HasPrefix(first, groupMarkerPrefix) {
			if _, after, ok := strings.Cut(first, ":"); ok {
				group = strings.TrimSpace(after)
				haveGroup = true
			}
			continue
		}

		if strings.HasPrefix(first, commodityMarkerPrefix) {
			if _, after, ok := strings.Cut(first, ":"); ok {
				commodity = strings.TrimSpace(after)
				haveCommodity = true
			}
			continue
		}

		// A market row is anything that is not a stray header token or an
		// unrecognized Commodity marker, once both markers are in effect.
		if first == "Market" || first == "Variety" || strings.HasPrefix(first, "Commodity") {
			continue
		}
		if !haveGroup || !haveCommodity {
			continue
		}

		rows = append(rows, models.PriceRow{
			Group:        group,
			Commodity:    commodity,
			Market:       first,
			Arrivals:     cellFloat(row, 1),
			UnitArrivals: cellString(row, 2),
			Variety:      cellString(row, 3),
			MinPrice:     cellFloat(row, 4),
			MaxPrice:     cellFloat(row, 5),
			ModalPrice:   cellFloat(row, 6),
			UnitPrice:    cellString(row, 7),
		})
	}

	return rows
}

// cellString returns the trimmed cell at col, or "" when the row is shorter
// than col+1. The empty string is the grid's missing sentinel.
func cellString(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// cellFloat parses the cell at col as a number, tolerating thousands
// separators. Blank or non-numeric cells yield nil.
func cellFloat(row []string, col int) *float64 {
	s := cellString(row, col)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
