// Package server exposes the grid and the share exporter over local HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/runnerr0/grass/internal/grid"
	"github.com/runnerr0/grass/internal/notify"
	"github.com/runnerr0/grass/internal/render"
	"github.com/runnerr0/grass/internal/share"
	"github.com/runnerr0/grass/internal/storage"
)

// ActivityStore is the read side of the store the server needs.
type ActivityStore interface {
	ListActivities(ctx context.Context, q storage.ActivityQuery) ([]storage.Activity, error)
	GetProfile(ctx context.Context) (*storage.Profile, error)
}

// Options wires a Server.
type Options struct {
	Store      ActivityStore
	Aggregator *grid.Aggregator
	Rasterizer render.Rasterizer
	Exporter   *share.Exporter
	Recorder   *notify.Recorder
	Render     render.Options
	Filename   string
	Logger     *zap.Logger
}

type Server struct {
	store      ActivityStore
	agg        *grid.Aggregator
	rasterizer render.Rasterizer
	exporter   *share.Exporter
	recorder   *notify.Recorder
	opts       render.Options
	filename   string
	logger     *zap.Logger
	router     *mux.Router
}

func New(o Options) *Server {
	s := &Server{
		store:      o.Store,
		agg:        o.Aggregator,
		rasterizer: o.Rasterizer,
		exporter:   o.Exporter,
		recorder:   o.Recorder,
		opts:       o.Render,
		filename:   o.Filename,
		logger:     o.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.filename == "" {
		s.filename = "running-grass.png"
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/years", s.years).Methods(http.MethodGet)
	api.HandleFunc("/grid/{year}", s.gridView).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.stats).Methods(http.MethodGet)
	api.HandleFunc("/summary/{year}.png", s.summaryPNG).Methods(http.MethodGet)
	api.HandleFunc("/share/{year}", s.shareSummary).Methods(http.MethodPost)
	api.HandleFunc("/notifications", s.notifications).Methods(http.MethodGet)
	return r
}

// Handler wraps the router with access logging and panic recovery.
func (s *Server) Handler() http.Handler {
	access := zap.NewStdLog(s.logger.Named("http")).Writer()
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.LoggingHandler(access, s.router),
	)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// load returns every activity as aggregator records plus the profile, which
// may be nil.
func (s *Server) load(ctx context.Context) ([]grid.Activity, *storage.Profile, error) {
	acts, err := s.store.ListActivities(ctx, storage.ActivityQuery{})
	if err != nil {
		return nil, nil, fmt.Errorf("list activities: %w", err)
	}
	profile, err := s.store.GetProfile(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("get profile: %w", err)
	}
	return storage.Records(acts), profile, nil
}

func (s *Server) yearParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	year := mux.Vars(r)["year"]
	if _, ok := grid.ParseYear(year); !ok {
		writeError(w, http.StatusBadRequest, "year must be four digits")
		return "", false
	}
	return year, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
