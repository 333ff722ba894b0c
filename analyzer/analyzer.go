package analyzer

import (
	"context"

	"github.com/painelbi/painelbi/engine"
	"github.com/painelbi/painelbi/report"
)

// ============================================================================
// ANALYZER — AI boundary for dataset → AnalysisResult
// ============================================================================
// The analyzer is the ONLY component that calls an external AI service.
// It receives a trimmed data sample — never the full dataset — and returns
// the analysis contract the dashboard consumes (classification, KPIs, chart
// specs, executive summary, column renames).
// ============================================================================

// Analyzer classifies and summarizes an ingested dataset.
// Implementations: Gemini (v1).
type Analyzer interface {
	Analyze(ctx context.Context, ds engine.Dataset) (*report.AnalysisResult, error)
}

// Config holds analyzer configuration.
type Config struct {
	APIKey string // AI provider API key
	Model  string // model name (empty = default)
}

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// sampleSize caps how many rows the AI ever sees.
const sampleSize = 50

// maxCellChars truncates very long text cells in the sample to save tokens.
const maxCellChars = 50
