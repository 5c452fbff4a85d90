package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/graphs/cytoscape"
	"github.com/psidex/zkgraph/internal/view"
)

const (
	defaultWriteTimeout = 10 * time.Second
	defaultMaxBodyBytes = 8 << 20
)

type ServerConfig struct {
	Title string
	// CDN overrides where the page loads Cytoscape.js from.
	CDN          string
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// Server serves a live page for one handle.
type Server struct {
	handle   *view.Handle
	hub      *Hub
	page     cytoscape.Page
	log      *slog.Logger
	maxBody  int64
	upgrader websocket.Upgrader
}

func NewServer(h *view.Handle, cfg ServerConfig, log *slog.Logger) *Server {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	page := *cytoscape.NewPage()
	page.Live = true
	page.SocketPath = "/ws"
	if cfg.Title != "" {
		page.Title = cfg.Title
	}
	if cfg.CDN != "" {
		page.CDN = cfg.CDN
	}

	return &Server{
		handle:  h,
		hub:     NewHub(h, log, cfg.WriteTimeout),
		page:    page,
		log:     log,
		maxBody: cfg.MaxBodyBytes,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Hub exposes the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.servePage)
	r.Get("/elements.json", s.serveElements)
	r.Post("/elements", s.addElements)
	r.Get("/ws", s.serveWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.hub.Close()
		return errors.Wrapf(err, "listen on %s", addr)
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
		)
	})
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Render(w, s.handle); err != nil {
		s.log.Error("render page", "err", err)
	}
}

func (s *Server) serveElements(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := graph.WriteJSON(w, s.handle.Elements()); err != nil {
		s.log.Error("write elements", "err", err)
	}
}

type addResponse struct {
	Added int `json:"added"`
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) addElements(w http.ResponseWriter, r *http.Request) {
	elements, err := graph.ReadJSON(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.handle.Add(elements...); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, addResponse{
		Added: len(elements),
		Nodes: s.handle.NodeCount(),
		Edges: s.handle.EdgeCount(),
	})
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade", "err", err)
		return
	}
	s.hub.Serve(c)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
