// Package server exposes the posture report over HTTP. Every report request
// rebuilds the table from the current directory contents, so concurrent
// requests never share mutable pipeline state.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tmnguyen/postureboard/internal/config"
	"github.com/tmnguyen/postureboard/internal/dashboard"
	"github.com/tmnguyen/postureboard/internal/export"
	"github.com/tmnguyen/postureboard/internal/finding"
	"github.com/tmnguyen/postureboard/internal/gateway"
	"github.com/tmnguyen/postureboard/internal/ingestion"
	"github.com/tmnguyen/postureboard/internal/observability"
	"github.com/tmnguyen/postureboard/internal/report"
)

// Server wires the ingest pipeline to the HTTP API.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	loader   *ingestion.Loader
	metrics  *observability.Metrics
	registry *prometheus.Registry
	limiter  *gateway.RateLimiter
}

// New creates a server. limiter may be nil when rate limiting is disabled.
func New(cfg *config.Config, logger *zap.Logger, limiter *gateway.RateLimiter) *Server {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	return &Server{
		cfg:      cfg,
		logger:   logger,
		loader:   ingestion.NewLoader(cfg.Ingest.InputDir, logger, metrics),
		metrics:  metrics,
		registry: registry,
		limiter:  limiter,
	}
}

// Router builds the chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/dashboard", s.handleDashboard)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware())
		}
		r.Get("/findings", s.handleFindings)
		r.Get("/summary", s.handleSummary)
		r.Get("/charts/severity", s.handleChartSeverity)
		r.Get("/charts/team", s.handleChartTeam)
		r.Get("/filters", s.handleFilters)
		r.Get("/export", s.handleExport)
	})

	return r
}

// Run starts the HTTP server and shuts it down when ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildTable runs the pipeline once for this request: fresh table, never a
// cached or shared one.
func (s *Server) buildTable(ctx context.Context) (finding.Table, error) {
	start := time.Now()
	table, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.TableBuildDuration.Observe(time.Since(start).Seconds())
	return table, nil
}

// selectionFromQuery builds a fresh filter selection from repeated query
// params: ?service=Guardduty&service=Inspector&severity=CRITICAL&team=...
func selectionFromQuery(r *http.Request) report.Selection {
	q := r.URL.Query()
	return report.Selection{
		Services:   q["service"],
		Severities: q["severity"],
		Teams:      q["team"],
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	f, err := http.Dir(s.cfg.Ingest.InputDir).Open(".")
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "input directory not readable",
		})
		return
	}
	f.Close()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleFindings(w http.ResponseWriter, r *http.Request) {
	table, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	view := selectionFromQuery(r).Apply(table)
	writeJSON(w, http.StatusOK, map[string]any{
		"columns": report.Columns,
		"rows":    report.Rows(view),
		"total":   len(view),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	table, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	view := selectionFromQuery(r).Apply(table)
	writeJSON(w, http.StatusOK, report.Summarize(view))
}

func (s *Server) handleChartSeverity(w http.ResponseWriter, r *http.Request) {
	table, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	view := selectionFromQuery(r).Apply(table)
	buckets := report.CountBySeverity(view)

	colors := make([]string, len(buckets))
	for i, b := range buckets {
		color, known := report.SeverityColors[b.Label]
		if !known {
			color = report.DefaultSeverityColor
		}
		colors[i] = color
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"buckets": buckets,
		"colors":  colors,
	})
}

func (s *Server) handleChartTeam(w http.ResponseWriter, r *http.Request) {
	table, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	view := selectionFromQuery(r).Apply(table)
	writeJSON(w, http.StatusOK, map[string]any{
		"buckets": report.CountByTeam(view),
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	table, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	// Options always come from the full table, not a filtered view.
	writeJSON(w, http.StatusOK, report.FilterOptions(table))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	table, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	view := selectionFromQuery(r).Apply(table)

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	if err := export.Write(w, view); err != nil {
		s.logger.Error("Export failed", zap.Error(err))
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	table, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	view := selectionFromQuery(r).Apply(table)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboard.Render(w, view); err != nil {
		s.logger.Error("Dashboard render failed", zap.Error(err))
	}
}

// loadTable builds the table and writes the terminal no-data response when
// the pipeline produced nothing. The false return means the response has
// already been written.
func (s *Server) loadTable(w http.ResponseWriter, r *http.Request) (finding.Table, bool) {
	table, err := s.buildTable(r.Context())
	if err != nil {
		if errors.Is(err, ingestion.ErrNoFindings) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "no findings detected in this directory",
			})
			return nil, false
		}
		s.logger.Error("Table build failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load findings",
		})
		return nil, false
	}
	return table, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// instrument records request count and duration metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.metrics.RequestsTotal.WithLabelValues(r.URL.Path, fmt.Sprintf("%d", ww.Status())).Inc()
		s.metrics.RequestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
