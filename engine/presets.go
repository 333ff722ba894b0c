package engine

import "time"

// ============================================================================
// DATE-RANGE PRESETS — Named windows relative to an injected "now"
// ============================================================================
// Presets are resolved at call time; re-resolving later against a new now
// yields a different range. The clock is a parameter, never read globally.
// ============================================================================

// Preset names a relative date window.
type Preset string

const (
	PresetAll          Preset = "all"
	PresetLast30Days   Preset = "30d"
	PresetCurrentMonth Preset = "current_month"
	PresetLastMonth    Preset = "last_month"
	PresetYearToDate   Preset = "ytd"
)

// Presets lists every known preset in menu order.
var Presets = []Preset{
	PresetAll,
	PresetLast30Days,
	PresetCurrentMonth,
	PresetLastMonth,
	PresetYearToDate,
}

// Label returns the pt-BR display label for the preset.
func (p Preset) Label() string {
	switch p {
	case PresetAll:
		return "Todo o Período"
	case PresetLast30Days:
		return "Últimos 30 dias"
	case PresetCurrentMonth:
		return "Este Mês"
	case PresetLastMonth:
		return "Mês Anterior"
	case PresetYearToDate:
		return "Este Ano (YTD)"
	default:
		return "Personalizado"
	}
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

// ResolvePreset maps a preset to a concrete range relative to now. Unknown
// presets resolve like PresetAll (open range). Callers supplying explicit
// bounds bypass this entirely — a manual bound makes the range custom.
func ResolvePreset(p Preset, now time.Time) DateRange {
	switch p {
	case PresetLast30Days:
		return DateRange{Start: now.AddDate(0, 0, -30), End: now}

	case PresetCurrentMonth:
		return DateRange{Start: firstOfMonth(now), End: now}

	case PresetLastMonth:
		// Explicit calendar arithmetic: last day of the previous month is
		// the first of the current month minus one day.
		first := firstOfMonth(now)
		return DateRange{Start: first.AddDate(0, -1, 0), End: first.AddDate(0, 0, -1)}

	case PresetYearToDate:
		return DateRange{
			Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
			End:   now,
		}

	default:
		return DateRange{}
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
