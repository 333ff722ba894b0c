package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/painelbi/painelbi/engine"
)

// ============================================================================
// CSV INGESTION — bytes → engine.Dataset
// ============================================================================
// The first record is the header. Cells that read as plain floats become
// number cells (so Excel date serials survive as numbers); everything else
// stays text for the normalizer to deal with later.
// ============================================================================

// ParseCSV parses CSV bytes into a Dataset. Header order is preserved —
// column inference depends on it. Malformed records are skipped, not fatal.
func ParseCSV(data []byte) (engine.Dataset, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return engine.Dataset{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, 0, len(header))
	for _, h := range header {
		h = strings.TrimSpace(h)
		if h != "" {
			columns = append(columns, h)
		}
	}
	if len(columns) == 0 {
		return engine.Dataset{}, fmt.Errorf("CSV header is empty")
	}

	var rows []engine.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		row := make(engine.Row, len(columns))
		col := 0
		for i, raw := range record {
			if i >= len(header) || col >= len(columns) {
				break
			}
			if strings.TrimSpace(header[i]) == "" {
				continue
			}
			if cell := coerceCell(raw); cell.Kind != engine.CellEmpty {
				row[columns[col]] = cell
			}
			col++
		}
		rows = append(rows, row)
	}

	return engine.Dataset{Columns: columns, Rows: rows}, nil
}

// coerceCell turns a raw string cell into its typed form: empty, number
// (strict float syntax only — "100,00" stays text for the normalizer) or
// text.
func coerceCell(raw string) engine.Cell {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return engine.Cell{}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return engine.NumberCell(f)
	}
	return engine.TextCell(raw)
}
