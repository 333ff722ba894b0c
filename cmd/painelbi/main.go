package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.3.0"

var (
	// Global flags
	debug  bool
	apiKey string
	model  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "painelbi",
	Short: "PainelBI - AI-powered dashboard engine for ERP spreadsheet exports",
	Long: `painelbi turns raw ERP spreadsheet exports (Protheus and friends) into
classified, chart-ready dashboards.

An uploaded XLSX or CSV is cleaned, sampled and sent to Gemini for
classification, KPI extraction and chart planning. The resulting dashboard
can then be re-filtered by date range entirely offline: pt-BR numbers,
dd/mm/yyyy dates and Excel serial dates are all handled locally.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if debug {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the painelbi version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("painelbi %s\n", version)
	},
}

// geminiKey resolves the API key from the flag or the environment.
func geminiKey() string {
	if apiKey != "" {
		return apiKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Gemini model name (empty = default)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
