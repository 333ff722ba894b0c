package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/painelbi/painelbi/analyzer"
	"github.com/painelbi/painelbi/engine"
	"github.com/painelbi/painelbi/ingest"
	"github.com/painelbi/painelbi/report"
)

var (
	analyzePreset string
	analyzeStart  string
	analyzeEnd    string
	analyzeOut    string
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a spreadsheet export and print the dashboard",
	Long: `Reads an XLSX or CSV export, runs the AI analysis and prints the
resulting dashboard. A date filter (--preset, or --start/--end) recomputes
the charts over the matching rows before printing.

Example:
  painelbi analyze vendas.xlsx --preset 30d`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePreset, "preset", "", "date preset: all, 30d, current_month, last_month, ytd")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "filter start date (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "filter end date (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write the full analysis JSON to this file")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full analysis as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ingest.Parse(filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	logger.Info("spreadsheet loaded",
		zap.String("file", path),
		zap.Int("columns", len(ds.Columns)),
		zap.Int("rows", len(ds.Rows)),
	)

	gem, err := analyzer.NewGemini(cmd.Context(), analyzer.Config{APIKey: geminiKey(), Model: model}, logger)
	if err != nil {
		return err
	}

	res, err := gem.Analyze(cmd.Context(), ds)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	rng, err := resolveRange()
	if err != nil {
		return err
	}
	data := engine.Recompute(res.Dataset, res.Charts, rng)

	if analyzeOut != "" {
		raw, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		if err := os.WriteFile(analyzeOut, raw, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", analyzeOut, err)
		}
		logger.Info("analysis written", zap.String("path", analyzeOut))
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printDashboard(res, data)
	return nil
}

func resolveRange() (engine.DateRange, error) {
	if analyzeStart != "" || analyzeEnd != "" {
		rng, err := engine.ParseRange(analyzeStart, analyzeEnd)
		if err != nil {
			return engine.DateRange{}, fmt.Errorf("invalid date filter (use YYYY-MM-DD): %w", err)
		}
		return rng, nil
	}
	if analyzePreset != "" {
		p := engine.Preset(analyzePreset)
		if !p.Valid() {
			return engine.DateRange{}, fmt.Errorf("unknown preset %q", analyzePreset)
		}
		return engine.ResolvePreset(p, time.Now()), nil
	}
	return engine.DateRange{}, nil
}

func printDashboard(res *report.AnalysisResult, data engine.DashboardData) {
	fmt.Printf("%s  [%s]\n", res.ReportName, res.ReportType)

	if len(res.KPIs) > 0 {
		fmt.Println("\nKPIs:")
		for _, k := range res.KPIs {
			fmt.Printf("  %-30s %s", k.Label, k.Value)
			if k.TrendValue != "" {
				fmt.Printf("  (%s %s)", trendArrow(k.Trend), k.TrendValue)
			}
			fmt.Println()
		}
	}

	for _, chart := range data.Charts {
		fmt.Printf("\n%s (%s)\n", chart.Title, chart.Kind)
		for _, p := range chart.Data {
			fmt.Printf("  %-30s %.2f\n", p.Name, p.Value)
		}
	}

	if diag := res.ExecutiveSummary.SituationalDiagnosis; diag != "" {
		fmt.Printf("\nDiagnóstico: %s\n", diag)
	}

	if data.Filtered {
		fmt.Printf("\n%d de %d linhas no período selecionado\n", len(data.Rows), len(res.Dataset.Rows))
	}
}

func trendArrow(t report.Trend) string {
	switch t {
	case report.TrendUp:
		return "↑"
	case report.TrendDown:
		return "↓"
	default:
		return "→"
	}
}
