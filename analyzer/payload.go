package analyzer

import (
	"github.com/painelbi/painelbi/engine"
)

// ============================================================================
// PAYLOAD OPTIMIZER — Trims the dataset sample before it leaves the process
// ============================================================================

// sampleRow is one row of the AI payload: display values only, long text
// truncated, absent cells omitted.
type sampleRow map[string]interface{}

// buildSample produces the trimmed sample the prompt embeds: at most
// sampleSize rows, all-empty columns dropped, text cells capped at
// maxCellChars characters.
func buildSample(ds engine.Dataset) []sampleRow {
	rows := ds.Rows
	if len(rows) > sampleSize {
		rows = rows[:sampleSize]
	}
	if len(rows) == 0 {
		return nil
	}

	keep := nonEmptyColumns(ds.Columns, rows)

	sample := make([]sampleRow, 0, len(rows))
	for _, row := range rows {
		out := make(sampleRow, len(keep))
		for _, col := range keep {
			cell, ok := row.Lookup(col)
			if !ok || cell.IsMissing() {
				continue
			}
			switch cell.Kind {
			case engine.CellNumber:
				out[col] = cell.Number
			default:
				out[col] = truncateText(cell.Text)
			}
		}
		sample = append(sample, out)
	}
	return sample
}

// nonEmptyColumns keeps only columns with at least one non-empty value in
// the sampled rows — empty columns are noise the AI pays tokens for.
func nonEmptyColumns(columns []string, rows []engine.Row) []string {
	keep := make([]string, 0, len(columns))
	for _, col := range columns {
		for _, row := range rows {
			if cell, ok := row.Lookup(col); ok && !cell.IsMissing() {
				keep = append(keep, col)
				break
			}
		}
	}
	return keep
}

func truncateText(s string) string {
	if len(s) <= maxCellChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxCellChars {
		return s
	}
	return string(runes[:maxCellChars]) + "..."
}
