package engine

// ============================================================================
// ROW FILTER — Date-range partitioning
// ============================================================================
// Single pass, stable (input order preserved), idempotent. Rows whose date
// cell cannot be parsed always pass: on ambiguity the dashboard prefers
// false inclusion over silently dropping data.
// ============================================================================

// FilterByDateRange returns the rows whose date falls inside the range,
// comparing at day granularity with inclusive bounds. Identity when the
// date column is unknown or both bounds are open.
func FilterByDateRange(rows []Row, dateColumn string, r DateRange) []Row {
	if dateColumn == "" || r.IsEmpty() {
		return rows
	}

	var startKey, endKey int
	if !r.Start.IsZero() {
		startKey = dayKey(r.Start)
	}
	if !r.End.IsZero() {
		endKey = dayKey(r.End)
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		t, ok := ParseDate(row.Cell(dateColumn))
		if !ok {
			out = append(out, row)
			continue
		}
		day := dayKey(t)
		if startKey != 0 && day < startKey {
			continue
		}
		if endKey != 0 && day > endKey {
			continue
		}
		out = append(out, row)
	}
	return out
}
