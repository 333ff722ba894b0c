package engine

import "strings"

// ============================================================================
// COLUMN INFERENCE — Which column holds the row date?
// ============================================================================

// dateColumnHints are the name fragments that mark a column as the date
// column of an ERP export. Matched case-insensitively, accent variants
// included because Protheus exports use both.
var dateColumnHints = []string{
	"data",
	"date",
	"dt_",
	"emissao",
	"emissão",
	"periodo",
	"período",
}

// InferDateColumn returns the first header (in sheet order) whose name
// contains a date hint, or "" when none matches. Deterministic: the same
// header list always yields the same column.
func InferDateColumn(columns []string) string {
	for _, col := range columns {
		name := strings.ToLower(col)
		for _, hint := range dateColumnHints {
			if strings.Contains(name, hint) {
				return col
			}
		}
	}
	return ""
}
