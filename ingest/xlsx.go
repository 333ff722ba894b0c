package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/painelbi/painelbi/engine"
)

// ============================================================================
// XLSX INGESTION — excelize → engine.Dataset
// ============================================================================
// ERP exports rarely start at A1: there are title banners, filters and blank
// rows above the real header. The header is taken to be the densest row
// within the first few rows of the sheet.
// ============================================================================

// headerScanLimit bounds the header search — scanning the whole sheet for a
// header is pointless and slow on big exports.
const headerScanLimit = 15

// ParseXLSX parses the first sheet of a workbook into a Dataset. Cells are
// read raw, so date cells arrive as their numeric serials and formatted
// numbers arrive unlocalized.
func ParseXLSX(r io.Reader) (engine.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return engine.Dataset{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return engine.Dataset{}, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return engine.Dataset{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return engine.Dataset{}, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headerIdx := detectHeaderRow(raw)
	header := raw[headerIdx]

	columns := make([]string, 0, len(header))
	keep := make([]int, 0, len(header)) // cell index per kept column
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		columns = append(columns, h)
		keep = append(keep, i)
	}
	if len(columns) == 0 {
		return engine.Dataset{}, fmt.Errorf("no header row found in sheet %q", sheets[0])
	}

	rows := make([]engine.Row, 0, len(raw)-headerIdx-1)
	for _, record := range raw[headerIdx+1:] {
		row := make(engine.Row, len(columns))
		for c, idx := range keep {
			if idx >= len(record) {
				continue
			}
			if cell := coerceCell(record[idx]); cell.Kind != engine.CellEmpty {
				row[columns[c]] = cell
			}
		}
		rows = append(rows, row)
	}

	return engine.Dataset{Columns: columns, Rows: rows}, nil
}

// detectHeaderRow returns the index of the densest row (most non-empty
// cells) among the first headerScanLimit rows. Earlier rows win ties.
func detectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	headerIdx, maxCols := 0, 0
	for i := 0; i < limit; i++ {
		filled := 0
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				filled++
			}
		}
		if filled > maxCols {
			maxCols = filled
			headerIdx = i
		}
	}
	return headerIdx
}

// Parse dispatches on the file extension: .xlsx/.xlsm/.xls go through the
// workbook reader, everything else is treated as CSV.
func Parse(name string, r io.Reader) (engine.Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls":
		return ParseXLSX(r)
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return engine.Dataset{}, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return ParseCSV(data)
	}
}
