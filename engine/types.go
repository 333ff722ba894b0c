package engine

import (
	"encoding/json"
	"strconv"
	"time"
)

// ============================================================================
// ENGINE TYPES — Rows, Chart Specs, Date Ranges
// ============================================================================
// The engine is the pure core of the dashboard: everything here is an
// immutable in-memory value. No I/O, no logging, no panics on dirty data.
// ============================================================================

// ============================================================================
// CELL — Raw spreadsheet value variant
// ============================================================================

// CellKind discriminates the raw value held by a Cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is a single raw spreadsheet value: absent, text, or numeric.
// Spreadsheet data is assumed dirty; normalization happens on read
// (ParseNumber / ParseDate), never at construction.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell wraps a string as a Cell.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// NumberCell wraps a float as a Cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// IsMissing reports whether the cell is absent or an empty string.
func (c Cell) IsMissing() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && c.Text == "")
}

// String returns the display form of the cell. Numbers render without
// trailing zeros ("100" not "100.000000"); empty cells render as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON renders text as a JSON string, numbers as JSON numbers and
// empty cells as null, matching the row shape the upload pipeline produces.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellText:
		return json.Marshal(c.Text)
	case CellNumber:
		return json.Marshal(c.Number)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, numbers and strings. Anything else (booleans,
// nested objects) is kept as its raw JSON text — dirty input never fails.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = NumberCell(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = TextCell(s)
		return nil
	}
	*c = TextCell(string(data))
	return nil
}

// ============================================================================
// ROW / DATASET
// ============================================================================

// Row is one ingested record, keyed by column name. Rows are immutable once
// ingested; a missing column is indistinguishable from an empty cell on read.
type Row map[string]Cell

// Lookup returns the cell for a column and whether the column exists.
func (r Row) Lookup(column string) (Cell, bool) {
	c, ok := r[column]
	return c, ok
}

// Cell returns the cell for a column, or an empty cell when absent.
func (r Row) Cell(column string) Cell {
	return r[column]
}

// Dataset is one loaded sheet: the ordered header list plus all rows.
// Column order is preserved from ingestion — Go maps iterate randomly, so
// deterministic column inference depends on this list.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// ============================================================================
// CHART SPEC / SERIES
// ============================================================================

// ChartKind enumerates the renderable chart types.
type ChartKind string

const (
	KindBar           ChartKind = "bar"
	KindLine          ChartKind = "line"
	KindPie           ChartKind = "pie"
	KindArea          ChartKind = "area"
	KindDonut         ChartKind = "donut"
	KindHorizontalBar ChartKind = "horizontalBar"
)

// seriesPolicy returns the post-aggregation cap for a chart kind and whether
// the kind wants its series sorted descending by value. Line and area charts
// keep insertion order and are never truncated.
func (k ChartKind) seriesPolicy() (limit int, sorted bool) {
	switch k {
	case KindPie, KindDonut:
		return 8, true
	case KindBar, KindHorizontalBar:
		return 15, true
	default:
		return 0, false
	}
}

// SeriesPoint is one (category label, aggregate value) pair of a chart series.
type SeriesPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChartSpec is an externally supplied chart descriptor. The AI analysis
// produces it; the engine only reads CategoryKey, DataKey and Kind, and uses
// Data as the static fallback series when recomputation is not possible.
// Never mutated — recomputation returns fresh specs.
type ChartSpec struct {
	Title       string        `json:"title"`
	Kind        ChartKind     `json:"type"`
	CategoryKey string        `json:"categoryKey"`
	DataKey     string        `json:"dataKey"`
	Data        []SeriesPoint `json:"data"`
}

// ============================================================================
// DATE RANGE
// ============================================================================

// DateRange bounds a filter window at day granularity. A zero time on either
// side means that side is open. Immutable value type.
type DateRange struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// IsEmpty reports whether both bounds are open (no filtering).
func (r DateRange) IsEmpty() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// ParseRange builds a DateRange from "YYYY-MM-DD" bound strings. Empty
// strings leave the corresponding side open. Malformed input is an error —
// range bounds come from callers, not from dirty sheet data.
func ParseRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if start != "" {
		r.Start, err = time.ParseInLocation("2006-01-02", start, time.Local)
		if err != nil {
			return DateRange{}, err
		}
	}
	if end != "" {
		r.End, err = time.ParseInLocation("2006-01-02", end, time.Local)
		if err != nil {
			return DateRange{}, err
		}
	}
	return r, nil
}

// dayKey collapses a time to a comparable local calendar day (yyyymmdd).
func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
