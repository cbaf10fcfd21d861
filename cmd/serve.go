package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/api"
	"github.com/pable/go-tennis-grader/internal/metrics"
	"github.com/pable/go-tennis-grader/pkg/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored matches over a read-only JSON API",
	Long: `Start an HTTP server exposing stored matches, their rally contexts,
statistics and the inferred next server as JSON, plus Prometheus metrics.

Endpoints:
  GET /health
  GET /metrics
  GET /api/v1/matches
  GET /api/v1/matches/{id}
  GET /api/v1/matches/{id}/contexts
  GET /api/v1/matches/{id}/stats?at=N
  GET /api/v1/matches/{id}/next-serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}
	log := logger.Named("api")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m := metrics.NewManager()
	router := api.NewRouter(api.NewHandler(db, m, log), m, log, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(cmd.Context(), "listening", logger.String("addr", addr), logger.String("db", dbPath))
		fmt.Fprintf(os.Stdout, "✓ API listening on %s\n", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info(cmd.Context(), "shutting down", logger.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown: %w", err)
		}
	}
	return nil
}
