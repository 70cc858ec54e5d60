// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the reputation engine and the registry search over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/pub-reputation/internal/pubmed"
	"github.com/pdiddy/pub-reputation/internal/reputation"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

// DefaultShutdownTimeout bounds graceful shutdown when the config leaves it zero.
const DefaultShutdownTimeout = 10 * time.Second

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Client-facing error messages. Upstream errors stay in the server log
// because they can carry request URLs with credentials.
const (
	msgInvalidIdentifier   = "invalid publication identifier"
	msgMetadataUnavailable = "publication metadata unavailable"
	msgInternal            = "internal error"
	msgSearchUnavailable   = "search unavailable"
	msgArticleNotFound     = "article not found"
	msgDetailsUnavailable  = "article details unavailable"
)

// Scorer is satisfied by *reputation.Engine.
type Scorer interface {
	Score(ctx context.Context, id string) (types.Report, error)
}

// Registry is satisfied by *pubmed.Client.
type Registry interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.ArticleSummary, error)
	FetchDetails(ctx context.Context, pmid string) (types.ArticleDetails, error)
}

type handler struct {
	scorer   Scorer
	registry Registry
	logger   *slog.Logger
}

// NewRouter builds the API routes.
func NewRouter(scorer Scorer, registry Registry, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &handler{scorer: scorer, registry: registry, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.healthz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/reputation/{pmid}", h.reputation)
		r.Post("/search", h.search)
		r.Get("/articles/{pmid}", h.details)
	})
	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) reputation(w http.ResponseWriter, r *http.Request) {
	id := pubmed.ParsePMID(chi.URLParam(r, "pmid"))
	report, err := h.scorer.Score(r.Context(), id)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("scoring failed", "pmid", id, "err", err)
		} else {
			h.logger.Warn("scoring failed", "pmid", id, "status", status, "err", err)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	articles, err := h.registry.Search(r.Context(), req.Query, req.MaxResults)
	if err != nil {
		h.logger.Warn("search failed", "query", req.Query, "err", err)
		writeError(w, http.StatusServiceUnavailable, msgSearchUnavailable)
		return
	}
	if articles == nil {
		articles = []types.ArticleSummary{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func (h *handler) details(w http.ResponseWriter, r *http.Request) {
	id := pubmed.ParsePMID(chi.URLParam(r, "pmid"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "pmid is required")
		return
	}
	d, err := h.registry.FetchDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, pubmed.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgArticleNotFound)
			return
		}
		h.logger.Warn("details failed", "pmid", id, "err", err)
		writeError(w, http.StatusServiceUnavailable, msgDetailsUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// statusFor maps engine errors onto an HTTP status and a fixed message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, reputation.ErrInvalidIdentifier):
		return http.StatusBadRequest, msgInvalidIdentifier
	case errors.Is(err, reputation.ErrMetadataUnavailable):
		return http.StatusServiceUnavailable, msgMetadataUnavailable
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Serve runs handler on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, cfg types.ServerConfig, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	grace := cfg.ShutdownTimeout
	if grace <= 0 {
		grace = DefaultShutdownTimeout
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", grace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
