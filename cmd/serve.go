package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/credi-research/econ-cli/internal/batch"
	"github.com/credi-research/econ-cli/internal/model"
	"github.com/credi-research/econ-cli/internal/store"
)

var servePort int

// batchFunc runs one batch with the configured defaults and persists it.
type batchFunc func(ctx context.Context) (*model.Run, error)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (health, latest run, batch trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		indicator, periodRange := batchParams(catalog, "", 0, 0)
		runner := batch.NewRunner(newFetcher(), batch.Options{
			MaxConcurrent: cfg.Batch.MaxConcurrent,
		})

		runBatch := func(ctx context.Context) (*model.Run, error) {
			result, err := runner.Run(ctx, catalog.Entities, indicator, periodRange)
			if err != nil {
				return nil, err
			}
			return st.SaveRun(ctx, *result)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, runBatch),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the API routes. A batch already in flight declines a new
// trigger with 409.
func newRouter(st store.Store, runBatch batchFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	var batchInFlight atomic.Bool

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/runs/latest", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.LatestRun(req.Context())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no runs recorded"})
				return
			}
			zap.L().Error("latest run lookup failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	r.Post("/api/batch", func(w http.ResponseWriter, req *http.Request) {
		if !batchInFlight.CompareAndSwap(false, true) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a batch is already running"})
			return
		}
		defer batchInFlight.Store(false)

		run, err := runBatch(req.Context())
		if err != nil {
			zap.L().Error("batch trigger failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
