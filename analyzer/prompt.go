package analyzer

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// ============================================================================
// PROMPT + RESPONSE SCHEMA — What the AI is asked and what shape it returns
// ============================================================================
// The response schema is enforced server-side (structured output), so the
// parser mostly deals with semantics, not syntax.
// ============================================================================

// buildPrompt embeds the trimmed sample into the analysis instructions.
// The prompt is pt-BR — the reports it analyzes and the dashboard it feeds
// are pt-BR.
func buildPrompt(sample []sampleRow) (string, error) {
	payload, err := json.Marshal(sample)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data sample: %w", err)
	}

	prompt := fmt.Sprintf(`Atue como um CFO, Auditor e Cientista de Dados Sênior especialista em Protheus (TOTVS).

Dados (amostra de até %d linhas):
%s

DIRETRIZES:
1. Identificação: módulo exato do Protheus (reportType) e um nome descritivo do relatório (reportName).
2. KPIs: 4 indicadores cruciais, com tendência e descrição.
3. Gráficos: gere entre 8 e 10 gráficos distintos. Varie os tipos (bar, line, pie, area). Explore correlações: curva ABC, sazonalidade, top clientes, top produtos, performance por filial. Em cada gráfico, categoryKey e dataKey devem ser nomes de colunas presentes nos dados.
4. Resumo executivo: highlights (campeão, gargalo, maior ticket, oportunidade), diagnóstico situacional em 3 parágrafos, pontos positivos, causas raiz, a melhor decisão estratégica em uma única frase, e plano de ação com impacto/esforço.
5. columnMapping: para colunas com nomes técnicos (ex.: A1_NOME), proponha nomes limpos.

Retorne JSON estrito.`, sampleSize, payload)

	return prompt, nil
}

// highlightSchema describes one executive-summary callout.
func highlightSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"value":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"type":        {Type: genai.TypeString, Enum: []string{"success", "danger", "warning", "info"}},
		},
		Required: []string{"title", "value", "description", "type"},
	}
}

// responseSchema is the strict shape the analysis response must satisfy.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"reportType": {Type: genai.TypeString},
			"reportName": {Type: genai.TypeString},
			"kpis": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"label":       {Type: genai.TypeString},
						"value":       {Type: genai.TypeString},
						"trend":       {Type: genai.TypeString, Enum: []string{"up", "down", "neutral"}},
						"trendValue":  {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
					},
				},
			},
			"charts": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":       {Type: genai.TypeString},
						"type":        {Type: genai.TypeString, Enum: []string{"bar", "line", "pie", "area", "donut", "horizontalBar"}},
						"dataKey":     {Type: genai.TypeString},
						"categoryKey": {Type: genai.TypeString},
						"data": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"name":  {Type: genai.TypeString},
									"value": {Type: genai.TypeNumber},
								},
							},
						},
					},
				},
			},
			"executiveSummary": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"highlights": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"best":    highlightSchema(),
							"worst":   highlightSchema(),
							"highest": highlightSchema(),
							"lowest":  highlightSchema(),
						},
						Required: []string{"best", "worst", "highest", "lowest"},
					},
					"situationalDiagnosis": {Type: genai.TypeString},
					"bestDecision":         {Type: genai.TypeString},
					"positivePoints":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"rootCauses":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"actionPlan": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"text":   {Type: genai.TypeString},
								"impact": {Type: genai.TypeString, Enum: []string{"ALTO", "MÉDIO", "BAIXO"}},
								"effort": {Type: genai.TypeString, Enum: []string{"IMEDIATO", "CURTO PRAZO", "MÉDIO PRAZO"}},
							},
						},
					},
				},
				Required: []string{"highlights", "situationalDiagnosis", "bestDecision", "positivePoints", "rootCauses", "actionPlan"},
			},
			"columnMapping": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"original": {Type: genai.TypeString},
						"clean":    {Type: genai.TypeString},
					},
				},
			},
		},
		Required: []string{"reportType", "reportName", "kpis", "charts", "executiveSummary", "columnMapping"},
	}
}
