package engine

import (
	"math"
	"sort"
)

// ============================================================================
// CHART AGGREGATOR — Group-by-sum into renderable series
// ============================================================================
// Pipeline per chart: scan rows → sum per category label → sort/truncate by
// chart kind. The whole series is regenerated on every call; nothing is
// patched incrementally.
// ============================================================================

// FallbackCategory labels rows whose category cell is absent or empty.
const FallbackCategory = "N/A"

// Aggregate groups rows by the spec's category column and sums the value
// column per category. When the spec names no category or value column the
// static series is returned unchanged.
//
// Kind policy: bar, pie, donut and horizontalBar series are sorted
// descending by value (ties keep first-encountered order) and truncated to
// the kind's display cap; line and area series keep category insertion
// order untruncated.
func Aggregate(rows []Row, spec ChartSpec) []SeriesPoint {
	if spec.CategoryKey == "" || spec.DataKey == "" {
		return spec.Data
	}

	totals := make(map[string]float64)
	order := make([]string, 0)

	for _, row := range rows {
		label := categoryLabel(row.Cell(spec.CategoryKey))
		v := ParseNumber(row.Cell(spec.DataKey))
		if math.IsNaN(v) {
			// ParseNumber never produces NaN; guarded anyway so a bad
			// contribution can never poison a whole category sum.
			continue
		}
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		totals[label] += v
	}

	series := make([]SeriesPoint, 0, len(order))
	for _, label := range order {
		series = append(series, SeriesPoint{Name: label, Value: totals[label]})
	}

	if limit, sorted := spec.Kind.seriesPolicy(); sorted {
		// Stable sort over the insertion-ordered slice: equal values keep
		// first-seen order, so the result is deterministic for a given
		// row order.
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Value > series[j].Value
		})
		if limit > 0 && len(series) > limit {
			series = series[:limit]
		}
	}

	return series
}

// categoryLabel coerces a category cell to its display string, falling back
// to the literal N/A label for absent or empty cells. A numeric zero is a
// real category ("0"), not a missing one.
func categoryLabel(c Cell) string {
	if c.IsMissing() {
		return FallbackCategory
	}
	return c.String()
}
