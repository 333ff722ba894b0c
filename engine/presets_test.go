package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// PRESET TESTS — clock injected, never read from the environment
// ============================================================================

func TestResolvePreset(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.Local)

	tests := []struct {
		preset    Preset
		wantStart string
		wantEnd   string
	}{
		{PresetLast30Days, "2025-02-13", "2025-03-15"},
		{PresetCurrentMonth, "2025-03-01", "2025-03-15"},
		{PresetLastMonth, "2025-02-01", "2025-02-28"},
		{PresetYearToDate, "2025-01-01", "2025-03-15"},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			r := ResolvePreset(tt.preset, now)
			require.False(t, r.IsEmpty())
			assert.Equal(t, tt.wantStart, FormatDateLocalISO(r.Start))
			assert.Equal(t, tt.wantEnd, FormatDateLocalISO(r.End))
		})
	}
}

func TestResolvePresetAllIsOpen(t *testing.T) {
	r := ResolvePreset(PresetAll, time.Now())
	assert.True(t, r.IsEmpty())
}

func TestResolvePresetUnknownIsOpen(t *testing.T) {
	r := ResolvePreset(Preset("fortnight"), time.Now())
	assert.True(t, r.IsEmpty())
}

func TestResolvePresetLastMonthAcrossYearBoundary(t *testing.T) {
	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.Local)
	r := ResolvePreset(PresetLastMonth, now)
	assert.Equal(t, "2024-12-01", FormatDateLocalISO(r.Start))
	assert.Equal(t, "2024-12-31", FormatDateLocalISO(r.End))
}

func TestResolvePresetLastMonthLeapFebruary(t *testing.T) {
	now := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local)
	r := ResolvePreset(PresetLastMonth, now)
	assert.Equal(t, "2024-02-29", FormatDateLocalISO(r.End))
}

func TestResolvePresetIsRelativeToNow(t *testing.T) {
	early := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)
	late := early.AddDate(0, 0, 10)

	a := ResolvePreset(PresetLast30Days, early)
	b := ResolvePreset(PresetLast30Days, late)
	assert.NotEqual(t, FormatDateLocalISO(a.Start), FormatDateLocalISO(b.Start))
}

func TestPresetLabels(t *testing.T) {
	assert.Equal(t, "Todo o Período", PresetAll.Label())
	assert.Equal(t, "Mês Anterior", PresetLastMonth.Label())
	assert.Equal(t, "Personalizado", Preset("custom").Label())

	for _, p := range Presets {
		assert.True(t, p.Valid())
	}
	assert.False(t, Preset("custom").Valid())
}
