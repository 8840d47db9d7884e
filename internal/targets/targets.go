// Package targets loads the product names to look for from a spreadsheet.
package targets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// DefaultColumn is the header of the column holding target product names
const DefaultColumn = "ITEM DESCRIPTION TO ENTER ON VAI"

// DefaultFile is the spreadsheet read when none is given
const DefaultFile = "Reedle Pricing for Innnovation Lab Revised Price Listing(TRADE).csv"

// ErrColumnNotFound is returned when the header row lacks the requested column
var ErrColumnNotFound = errors.New("column not found")

// Load reads every non-empty value of column from the spreadsheet at path.
// CSV files are read directly; .xlsx and .xlsm files are read from their
// first sheet. Values keep their spreadsheet order and duplicates.
func Load(path, column string) ([]string, error) {
	if column == "" {
		column = DefaultColumn
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	values, err := columnValues(rows, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().
		Str("file", path).
		Str("column", column).
		Int("targets", len(values)).
		Msg("Loaded targets")

	return values, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func columnValues(rows [][]string, column string) ([]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q (empty file)", ErrColumnNotFound, column)
	}

	idx := -1
	for i, h := range rows[0] {
		// Excel exports often carry a BOM on the first header
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	var values []string
	for _, row := range rows[1:] {
		if idx >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[idx]); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}
