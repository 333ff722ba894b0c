package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/painelbi/painelbi/engine"
	"github.com/painelbi/painelbi/report"
)

// ============================================================================
// GEMINI ANALYZER — google.golang.org/genai implementation
// ============================================================================

// Gemini implements Analyzer against the Gemini API with structured output.
type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// NewGemini creates the analyzer. The API key is required; the model falls
// back to DefaultModel.
func NewGemini(ctx context.Context, cfg Config, log *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{client: client, model: cfg.Model, log: log}, nil
}

// analysisWire is the raw response shape. columnMapping arrives as an array
// of original/clean pairs and is folded into a map afterwards.
type analysisWire struct {
	ReportType       report.ReportType        `json:"reportType"`
	ReportName       string                   `json:"reportName"`
	KPIs             []report.KPI             `json:"kpis"`
	Charts           []engine.ChartSpec       `json:"charts"`
	ExecutiveSummary report.StructuredSummary `json:"executiveSummary"`
	ColumnMapping    []columnRename           `json:"columnMapping"`
}

type columnRename struct {
	Original string `json:"original"`
	Clean    string `json:"clean"`
}

// Analyze sends a trimmed sample of the dataset to Gemini and assembles the
// full analysis result: the AI output plus the column-renamed dataset.
func (g *Gemini) Analyze(ctx context.Context, ds engine.Dataset) (*report.AnalysisResult, error) {
	prompt, err := buildPrompt(buildSample(ds))
	if err != nil {
		return nil, err
	}

	g.log.Info("analyzing dataset",
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Columns)),
		zap.String("model", g.model))

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned an empty response")
	}

	wire, err := parseAnalysis(text)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string, len(wire.ColumnMapping))
	for _, m := range wire.ColumnMapping {
		if m.Original != "" && m.Clean != "" {
			mapping[m.Original] = m.Clean
		}
	}

	result := &report.AnalysisResult{
		ReportType:       wire.ReportType,
		ReportName:       wire.ReportName,
		KPIs:             wire.KPIs,
		Charts:           wire.Charts,
		ExecutiveSummary: wire.ExecutiveSummary,
		ColumnMapping:    mapping,
		Dataset:          report.ApplyColumnMapping(ds, mapping),
	}
	if result.ReportType == "" {
		result.ReportType = report.ReportUnknown
	}

	g.log.Info("analysis complete",
		zap.String("reportType", string(result.ReportType)),
		zap.Int("kpis", len(result.KPIs)),
		zap.Int("charts", len(result.Charts)))

	return result, nil
}

// parseAnalysis extracts the wire struct from the AI's JSON text, stripping
// markdown fences some models still wrap around structured output.
func parseAnalysis(text string) (*analysisWire, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var wire analysisWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w (response: %.200s)", err, text)
	}
	return &wire, nil
}
