package engine

// ============================================================================
// DASHBOARD RECOMPUTE — (dataset, specs, range) → filtered rows + series
// ============================================================================
// The one entry point callers invoke on every state transition (new range,
// new dataset). Pure and idempotent: the reactive layer above may re-fire
// redundantly, so re-running with the same inputs must yield the same
// output. No caching, no partial mutation of previous results.
// ============================================================================

// DashboardData is one recomputation result: the effective row subset and
// the chart specs with their series replaced by recomputed ones.
type DashboardData struct {
	Rows     []Row       `json:"rows"`
	Charts   []ChartSpec `json:"charts"`
	Filtered bool        `json:"filtered"`
}

// Recompute filters the dataset by the range (using the inferred date
// column) and re-aggregates every chart against the filtered rows.
//
// When no filter is effective — no usable date column or both bounds open —
// the static series supplied with each spec are kept as-is: they already
// reflect the full dataset, so re-aggregating would be wasted work.
func Recompute(ds Dataset, charts []ChartSpec, r DateRange) DashboardData {
	dateColumn := InferDateColumn(ds.Columns)

	if dateColumn == "" || r.IsEmpty() {
		return DashboardData{Rows: ds.Rows, Charts: charts, Filtered: false}
	}

	rows := FilterByDateRange(ds.Rows, dateColumn, r)

	out := make([]ChartSpec, len(charts))
	for i, spec := range charts {
		spec.Data = Aggregate(rows, spec)
		out[i] = spec
	}

	return DashboardData{Rows: rows, Charts: out, Filtered: true}
}
