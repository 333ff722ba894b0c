package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// VALUE NORMALIZER — Locale-tolerant numeric and date coercion
// ============================================================================
// ERP exports mix pt-BR and en-US formatting in the same sheet. Everything
// here degrades instead of failing: unparseable numbers become 0,
// unparseable dates become (zero, false). No function in this file panics.
// ============================================================================

// Spreadsheet serials count days since the 1900 epoch; 25569 is the offset
// to 1970-01-01. Serials below 10000 (mid-1927) are treated as plain
// quantities, not dates.
const (
	serialEpochOffset = 25569
	serialFloor       = 10000
	secondsPerDay     = 86400
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumber coerces a raw cell into a float64. Numeric cells pass through
// unchanged; empty cells yield 0. Text containing a decimal comma (and no
// exponent marker) is read as pt-BR: periods are thousands separators, the
// comma is the decimal point. Currency symbols and other junk are stripped.
// Unparseable text yields 0.
func ParseNumber(c Cell) float64 {
	switch c.Kind {
	case CellNumber:
		return c.Number
	case CellEmpty:
		return 0
	}

	s := strings.TrimSpace(c.Text)
	if s == "" {
		return 0
	}

	// pt-BR: "1.234,56" → "1234.56". An exponent marker means the comma is
	// not a decimal separator.
	if strings.Contains(s, ",") && !strings.ContainsAny(s, "eE") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	s = nonNumeric.ReplaceAllString(s, "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

var brDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)

// genericLayouts are tried in order after the serial and DD/MM/YYYY branches.
// Day-first slash dates never reach this list.
var genericLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"January 2, 2006",
}

// ParseDate coerces a raw cell into a calendar date. Numeric cells are read
// as spreadsheet date serials (rejected below the plausibility floor) and
// rendered as the local calendar day a spreadsheet application would show.
// Text is tried as DD/MM/YYYY (Brazilian convention, day first), then
// against the generic layouts. Returns ok=false when nothing matches.
func ParseDate(c Cell) (time.Time, bool) {
	switch c.Kind {
	case CellEmpty:
		return time.Time{}, false

	case CellNumber:
		if c.Number < serialFloor {
			return time.Time{}, false
		}
		ms := int64(math.Round((c.Number - serialEpochOffset) * secondsPerDay * 1000))
		u := time.UnixMilli(ms).UTC()
		// Reinterpret the UTC components as local wall time so the calendar
		// day matches the sheet regardless of the host timezone.
		return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), 0, time.Local), true
	}

	s := strings.TrimSpace(c.Text)
	if s == "" {
		return time.Time{}, false
	}

	if brDatePattern.MatchString(s) {
		if t, ok := parseDayFirst(s); ok {
			return t, true
		}
		// invalid day/month combination falls through to generic parsing
	}

	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseDayFirst parses "D/M/YYYY" into a local date, rejecting combinations
// that would roll over (31/02 is not a date, not March 3rd).
func parseDayFirst(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// FormatDateLocalISO renders a date as zero-padded "YYYY-MM-DD" using its
// own calendar components — the canonical serialization for range bounds.
func FormatDateLocalISO(t time.Time) string {
	return t.Format("2006-01-02")
}
