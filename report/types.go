package report

import (
	"github.com/painelbi/painelbi/engine"
)

// ============================================================================
// REPORT TYPES — The AI analysis contract
// ============================================================================
// An AnalysisResult is the atomic unit of a dashboard session: rows and
// chart specs arrive together from the analyzer and are replaced wholesale
// by a new upload, never patched.
// ============================================================================

// ReportType classifies which ERP module produced the export. Values are
// the pt-BR module names the UI displays.
type ReportType string

const (
	ReportSales     ReportType = "Vendas"
	ReportStock     ReportType = "Estoque"
	ReportFinance   ReportType = "Financeiro"
	ReportPurchase  ReportType = "Compras"
	ReportHR        ReportType = "RH"
	ReportLogistics ReportType = "Logística"
	ReportFiscal    ReportType = "Fiscal"
	ReportPCP       ReportType = "PCP"
	ReportUnknown   ReportType = "Geral"
)

// Trend is a KPI direction indicator.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// KPI is one headline indicator card.
type KPI struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Trend       Trend  `json:"trend"`
	TrendValue  string `json:"trendValue"`
	Description string `json:"description"`
}

// HighlightTone colors an executive-summary highlight.
type HighlightTone string

const (
	ToneSuccess HighlightTone = "success"
	ToneDanger  HighlightTone = "danger"
	ToneWarning HighlightTone = "warning"
	ToneInfo    HighlightTone = "info"
)

// SummaryHighlight is a single callout in the executive summary.
type SummaryHighlight struct {
	Title       string        `json:"title"`
	Value       string        `json:"value"`
	Description string        `json:"description"`
	Tone        HighlightTone `json:"type"`
}

// Highlights are the four fixed executive-summary callouts.
type Highlights struct {
	Best    SummaryHighlight `json:"best"`
	Worst   SummaryHighlight `json:"worst"`
	Highest SummaryHighlight `json:"highest"`
	Lowest  SummaryHighlight `json:"lowest"`
}

// ActionPlanItem is one recommended action with its impact/effort rating.
type ActionPlanItem struct {
	Text   string `json:"text"`
	Impact string `json:"impact"` // ALTO, MÉDIO, BAIXO
	Effort string `json:"effort"` // IMEDIATO, CURTO PRAZO, MÉDIO PRAZO
}

// StructuredSummary is the narrative portion of the analysis.
type StructuredSummary struct {
	Highlights           Highlights       `json:"highlights"`
	SituationalDiagnosis string           `json:"situationalDiagnosis"`
	RootCauses           []string         `json:"rootCauses"`
	PositivePoints       []string         `json:"positivePoints"`
	BestDecision         string           `json:"bestDecision"`
	ActionPlan           []ActionPlanItem `json:"actionPlan"`
}

// AnalysisResult is everything one upload produces: classification, KPIs,
// chart specs with their static series, the narrative summary, the
// original→clean column renames, and the cleaned dataset itself.
type AnalysisResult struct {
	ReportType       ReportType         `json:"reportType"`
	ReportName       string             `json:"reportName"`
	KPIs             []KPI              `json:"kpis"`
	Charts           []engine.ChartSpec `json:"charts"`
	ExecutiveSummary StructuredSummary  `json:"executiveSummary"`
	ColumnMapping    map[string]string  `json:"columnMapping"`
	Dataset          engine.Dataset     `json:"cleanData"`
}

// ApplyColumnMapping renames dataset columns per the AI-provided mapping,
// preserving column order. Unmapped columns keep their original names.
func ApplyColumnMapping(ds engine.Dataset, mapping map[string]string) engine.Dataset {
	if len(mapping) == 0 {
		return ds
	}

	columns := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		if clean, ok := mapping[col]; ok && clean != "" {
			columns[i] = clean
		} else {
			columns[i] = col
		}
	}

	rows := make([]engine.Row, len(ds.Rows))
	for i, row := range ds.Rows {
		clean := make(engine.Row, len(row))
		for col, cell := range row {
			if name, ok := mapping[col]; ok && name != "" {
				clean[name] = cell
			} else {
				clean[col] = cell
			}
		}
		rows[i] = clean
	}

	return engine.Dataset{Columns: columns, Rows: rows}
}
