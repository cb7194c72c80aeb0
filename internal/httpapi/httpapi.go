// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpapi serves the service operations over HTTP.
//
//	POST /api/{operation}   JSON arguments in, service.Result out
//	GET  /api/operations    operation catalog with input schemas
//	GET  /health            liveness
//	GET  /metrics           Prometheus metrics
package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/analytics-scout/internal/metrics"
	"github.com/pdiddy/analytics-scout/internal/service"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Config holds the collaborators of the router.
type Config struct {
	Service *service.Service
	Metrics *metrics.Recorder
	Logger  *slog.Logger

	// Timeout bounds one request; zero disables it.
	Timeout time.Duration
}

// NewRouter builds the HTTP handler.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	known := map[string]bool{}
	type catalogEntry struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"input_schema"`
	}
	var catalog []catalogEntry
	for _, op := range service.Operations() {
		known[op.Name] = true
		catalog = append(catalog, catalogEntry{op.Name, op.Description, op.InputSchema})
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", cfg.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/operations", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, catalog)
		})
		r.Post("/{operation}", func(w http.ResponseWriter, r *http.Request) {
			op := chi.URLParam(r, "operation")
			if !known[op] {
				writeJSON(w, http.StatusNotFound, service.Result{Error: "unknown operation " + op})
				return
			}
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeJSON(w, http.StatusRequestEntityTooLarge, service.Result{Error: "request body too large"})
				return
			}
			res := cfg.Service.Call(r.Context(), op, body)
			writeJSON(w, status(res), res)
		})
	})
	return r
}

func status(res service.Result) int {
	switch {
	case res.OK:
		return http.StatusOK
	case res.InvalidInput():
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
