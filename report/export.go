package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/painelbi/painelbi/engine"
)

// ============================================================================
// EXPORT — Filtered rows and chart series as CSV downloads
// ============================================================================

// WriteRowsCSV writes the columns header followed by one record per row.
// Cells render in display form; absent cells render empty.
func WriteRowsCSV(w io.Writer, columns []string, rows []engine.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row.Cell(col).String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSeriesCSV writes one chart's series as name,value records, ready for
// a spreadsheet re-import.
func WriteSeriesCSV(w io.Writer, spec engine.ChartSpec) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"name", "value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range spec.Data {
		record := []string{p.Name, strconv.FormatFloat(p.Value, 'f', -1, 64)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
