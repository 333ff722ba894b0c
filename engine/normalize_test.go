package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// NORMALIZER TESTS
// ============================================================================

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want float64
	}{
		{"numeric passthrough", NumberCell(42.5), 42.5},
		{"negative numeric passthrough", NumberCell(-3), -3},
		{"empty cell", Cell{}, 0},
		{"empty string", TextCell(""), 0},
		{"whitespace only", TextCell("   "), 0},
		{"pt-BR thousands and decimal", TextCell("1.234,56"), 1234.56},
		{"pt-BR with currency symbol", TextCell("R$ 1.234,56"), 1234.56},
		{"pt-BR negative", TextCell("-1.500,00"), -1500},
		{"pt-BR plain decimal comma", TextCell("100,00"), 100},
		{"en-US decimal", TextCell("1234.56"), 1234.56},
		{"plain integer", TextCell("1500"), 1500},
		{"integer with dollar sign", TextCell("$250"), 250},
		{"garbage", TextCell("abc"), 0},
		{"mixed garbage", TextCell("n/a"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumber(tt.cell), 1e-9)
		})
	}
}

func TestParseNumberNeverPanics(t *testing.T) {
	inputs := []Cell{
		{},
		TextCell("...---..."),
		TextCell(",,,"),
		TextCell("1,2e3"),
		TextCell("∞"),
		NumberCell(0),
	}
	for _, c := range inputs {
		assert.NotPanics(t, func() { ParseNumber(c) })
	}
}

func TestParseDateSerial(t *testing.T) {
	// 45000 days after the 1900 epoch is 2023-03-15.
	d, ok := ParseDate(NumberCell(45000))
	require.True(t, ok)
	assert.Equal(t, 2023, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())

	// Below the plausibility floor: a quantity, not a date.
	_, ok = ParseDate(NumberCell(500))
	assert.False(t, ok)

	_, ok = ParseDate(NumberCell(9999))
	assert.False(t, ok)
}

func TestParseDateDayFirst(t *testing.T) {
	d, ok := ParseDate(TextCell("25/12/2025"))
	require.True(t, ok)
	assert.Equal(t, "2025-12-25", FormatDateLocalISO(d))

	// Single-digit day and month.
	d, ok = ParseDate(TextCell("1/2/2025"))
	require.True(t, ok)
	assert.Equal(t, "2025-02-01", FormatDateLocalISO(d))

	// 31/02 must not roll over into March.
	_, ok = ParseDate(TextCell("31/02/2025"))
	assert.False(t, ok)
}

func TestParseDateGeneric(t *testing.T) {
	iso, ok := ParseDate(TextCell("2025-12-25"))
	require.True(t, ok)

	br, ok2 := ParseDate(TextCell("25/12/2025"))
	require.True(t, ok2)

	// Both routes land on the same calendar day.
	assert.Equal(t, FormatDateLocalISO(br), FormatDateLocalISO(iso))

	d, ok := ParseDate(TextCell("2025-06-01 14:30:00"))
	require.True(t, ok)
	assert.Equal(t, "2025-06-01", FormatDateLocalISO(d))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"not a date", "", "32/13/9999", "//"} {
		_, ok := ParseDate(TextCell(raw))
		assert.False(t, ok, "input %q", raw)
	}
	_, ok := ParseDate(Cell{})
	assert.False(t, ok)
}

func TestParseDateIdempotent(t *testing.T) {
	cell := TextCell("15/06/2025")
	first, ok1 := ParseDate(cell)
	second, ok2 := ParseDate(cell)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.True(t, first.Equal(second))
}

func TestFormatDateLocalISOZeroPads(t *testing.T) {
	d := time.Date(2025, time.March, 5, 13, 45, 0, 0, time.Local)
	assert.Equal(t, "2025-03-05", FormatDateLocalISO(d))
}
