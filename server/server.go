// Package server serves an exported catalog and its item photos so the static
// front-end can be previewed locally, plus a small JSON API over the same
// filters the front-end applies.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"inventory-catalog/models"
	"inventory-catalog/services"
	"inventory-catalog/storage"
	"inventory-catalog/utils"
)

// Config points the server at an export.
type Config struct {
	CatalogPath string
	ItemsDir    string
}

type Server struct {
	cfg    Config
	logger *utils.Logger
	router chi.Router
}

func New(cfg Config, logger *utils.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/data/inventory.json", s.handleCatalogFile)
	r.Handle("/items/*", http.StripPrefix("/items/", http.FileServer(http.Dir(cfg.ItemsDir))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", s.handleListItems)
		r.Get("/items/{code}", s.handleGetItem)
		r.Get("/facets", s.handleFacets)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer wraps the handler with the timeouts used in production.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("[serve] %s %s %d %v (%s)",
			r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalogFile(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.cfg.CatalogPath); err != nil {
		writeError(w, http.StatusNotFound, "catalog has not been exported yet")
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, s.cfg.CatalogPath)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	catalog, ok := s.loadCatalog(w)
	if !ok {
		return
	}
	items := services.FilterItems(catalog.Items, filterFromQuery(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	catalog, ok := s.loadCatalog(w)
	if !ok {
		return
	}
	item, found := services.FindItem(catalog, chi.URLParam(r, "code"))
	if !found {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	catalog, ok := s.loadCatalog(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, services.FilterCounts(catalog.Items, filterFromQuery(r)))
}

// loadCatalog reads the export from disk on every request so a fresh export
// is visible without a restart.
func (s *Server) loadCatalog(w http.ResponseWriter) (*models.Catalog, bool) {
	catalog, err := storage.ReadCatalog(s.cfg.CatalogPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "catalog has not been exported yet")
			return nil, false
		}
		s.logger.Error("[serve] %v", err)
		writeError(w, http.StatusInternalServerError, "catalog could not be read")
		return nil, false
	}
	return catalog, true
}

func filterFromQuery(r *http.Request) services.FilterState {
	q := r.URL.Query()
	return services.FilterState{
		Category:     q.Get("category"),
		Manufacturer: q.Get("manufacturer"),
		Region:       q.Get("region"),
		Country:      q.Get("country"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
