package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"widgetdb/pkg/config"
	"widgetdb/pkg/dberrors"
	"widgetdb/pkg/metrics"
	"widgetdb/pkg/store"
	"widgetdb/pkg/widget"
)

const (
	contentTypeJSON = "application/json"
	widgetsPath     = "/api/v1/widgets"
)

type iWidgetStore interface {
	Insert(p widget.CreateParams) (widget.Widget, error)
	GetByID(id uuid.UUID) (widget.Widget, error)
	GetRange(page, size int) (store.Range, error)
	Update(id uuid.UUID, p widget.UpdateParams) (widget.Widget, error)
	Delete(id uuid.UUID) error
	Stats() store.Stats
	Check() error
}

// Server exposes the widget store over HTTP.
type Server struct {
	store      iWidgetStore
	metrics    *metrics.Registry
	cfg        config.Config
	httpServer *http.Server
	URL        string
	addr       string
}

// NewServer creates a new server instance
func NewServer(store iWidgetStore, cfg config.Config) *Server {
	port := strconv.Itoa(cfg.Server.Port)
	return &Server{
		store:   store,
		metrics: metrics.NewRegistry(),
		cfg:     cfg,
		URL:     "http://localhost:" + port,
		addr:    ":" + port,
	}
}

// SetMetrics replaces the registry served at /metrics, typically with the
// one the store reports to.
func (s *Server) SetMetrics(reg *metrics.Registry) {
	s.metrics = reg
}

// Start starts the server
func (s *Server) Start() error {
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

// Handler returns the routing tree; tests drive it directly.
func (s *Server) Handler() http.Handler {
	return s.createRouter()
}

// createRouter builds chi router
func (s *Server) createRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Get("/debug/consistency", s.handleConsistency)

	r.Post(widgetsPath, s.handleCreate)
	r.Get(widgetsPath, s.handleList)
	r.Get(widgetsPath+"/{id}", s.handleGet)
	r.Put(widgetsPath+"/{id}", s.handleUpdate)
	r.Delete(widgetsPath+"/{id}", s.handleDelete)

	return r
}

func (s *Server) startHTTPServer() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.createRouter(),
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("HTTP server started", "addr", s.URL)
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Error encoding response", "error", err)
	}
}

// writeError maps store errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, dberrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dberrors.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, dberrors.ErrCapacityExceeded):
		status = http.StatusUnprocessableEntity
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse("internal error"))
		return
	}
	s.writeJSON(w, status, NewErrorResponse(err.Error()))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("invalid request body: "+err.Error()))
		return false
	}
	return true
}

func (s *Server) widgetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("invalid widget id"))
		return uuid.UUID{}, false
	}
	return id, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewOKResponse())
}

// handleConsistency audits both index views against each other.
func (s *Server) handleConsistency(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Check(); err != nil {
		slog.Error("consistency check failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}
	s.writeJSON(w, http.StatusOK, NewOKResponse())
}

// handleMetrics refreshes the board gauges from Stats so they are right even
// when the store reports to a different collector.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	st := s.store.Stats()
	s.metrics.SetGauge(metrics.Widgets, nil, float64(st.Widgets))
	s.metrics.SetGauge(metrics.NextZ, nil, float64(st.NextZ))
	s.metrics.Handler().ServeHTTP(w, r)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !s.decode(w, r, &req) {
		return
	}

	params, missing := req.params()
	if len(missing) > 0 {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("missing fields: "+strings.Join(missing, ", ")))
		return
	}

	created, err := s.store.Insert(params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", widgetsPath+"/"+created.ID.String())
	s.writeJSON(w, http.StatusCreated, NewWidgetResponse(created))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.widgetID(w, r)
	if !ok {
		return
	}

	found, err := s.store.GetByID(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, NewWidgetResponse(found))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil || page < 0 {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("page must be a non-negative integer"))
		return
	}
	size, err := queryInt(r, "size", s.cfg.Store.DefaultPageSize)
	if err != nil || size < 1 || size > s.cfg.Store.MaxPageSize {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse(
			fmt.Sprintf("size must be between 1 and %d", s.cfg.Store.MaxPageSize)))
		return
	}

	rng, err := s.store.GetRange(page, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, NewRangeResponse(rng))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.widgetID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if !s.decode(w, r, &req) {
		return
	}

	updated, err := s.store.Update(id, req.params())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, NewWidgetResponse(updated))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.widgetID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, NewSuccessResponse())
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
