// Package painelbi turns ERP spreadsheet exports into chart-ready dashboards.
// BI for messy pt-BR spreadsheets.
//
// Usage:
//
//	import "github.com/painelbi/painelbi/engine"
//
//	data := engine.Recompute(dataset, charts,
//	    engine.ResolvePreset(engine.PresetLast30Days, time.Now()),
//	)
//
// The engine takes a dataset (ordered columns plus generic cell rows) and
// chart specs, filters rows by the inferred date column and re-aggregates
// every chart, returning render-ready series. It understands pt-BR decimal
// commas, dd/mm/yyyy dates and Excel serial dates.
//
// AI analysis — classifying the export, picking KPIs and planning charts —
// is handled separately by the analyzer package. The engine never calls any
// external service — all computation is local.
package painelbi
