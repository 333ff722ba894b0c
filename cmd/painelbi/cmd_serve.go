package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/painelbi/painelbi/analyzer"
	"github.com/painelbi/painelbi/history"
	"github.com/painelbi/painelbi/server"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	Long: `Starts the HTTP API: spreadsheet upload and analysis, stored-analysis
history backed by SQLite, dashboard recomputation with date filters, and
CSV export.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "painelbi.db", "SQLite history database path")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := history.Open(serveDB)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	gem, err := analyzer.NewGemini(ctx, analyzer.Config{APIKey: geminiKey(), Model: model}, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    serveAddr,
		Handler: server.New(store, gem, logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", serveAddr), zap.String("db", serveDB))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
