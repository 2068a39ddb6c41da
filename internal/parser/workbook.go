package parser

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/agrisense/agmark/internal/common"
	"github.com/agrisense/agmark/internal/models"
)

// ParseWorkbook decodes xlsx bytes and parses the first sheet's cell grid.
// Malformed workbook bytes yield a ParseError; the orchestrator treats that
// as a zero-row report for the affected date. Re-parsing the same bytes is
// idempotent.
func ParseWorkbook(data []byte, source string) ([]models.PriceRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &common.ParseError{Source: source, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &common.ParseError{Source: source, Err: err}
	}

	return ParseGrid(grid), nil
}

// ParseFile reads and parses a cached report file.
func ParseFile(path string) ([]models.PriceRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &common.ParseError{Source: filepath.Base(path), Err: err}
	}
	return ParseWorkbook(data, filepath.Base(path))
}
