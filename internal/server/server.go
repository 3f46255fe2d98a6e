// Package server exposes the tracked-flight state over HTTP: a JSON API, a
// WebSocket push feed and the embedded Leaflet map page.
package server

import (
	"embed"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/unklstewy/routescope/pkg/config"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

//go:embed static
var staticFiles embed.FS

// Server holds the HTTP router and its dependencies
type Server struct {
	router   *chi.Mux
	store    *tracking.Store
	ids      []string
	mapCfg   config.MapConfig
	logger   *log.Logger
	upgrader websocket.Upgrader
	streams  streams
}

// Options configures a Server.
type Options struct {
	// TrackedIDs defaults to reference.TrackedIDs()
	TrackedIDs []string

	// Map is the base-map configuration handed to the page
	Map config.MapConfig

	// Logger defaults to log.Default()
	Logger *log.Logger

	// RequestLogging enables the chi request logger
	RequestLogging bool
}

// New creates a server reading from store.
func New(store *tracking.Store, opts Options) *Server {
	ids := opts.TrackedIDs
	if ids == nil {
		ids = reference.TrackedIDs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		router: chi.NewRouter(),
		store:  store,
		ids:    ids,
		mapCfg: opts.Map,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		streams: streams{done: make(chan struct{})},
	}
	s.setupRoutes(opts.RequestLogging)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(requestLogging bool) {
	r := s.router

	// Middleware
	if requestLogging {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	// WebSocket stays outside Compress so the connection can be hijacked
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/airports", s.handleGetAirports)
			r.Get("/routes", s.handleGetRoutes)
			r.Get("/tracked", s.handleGetTracked)
			r.Get("/flights", s.handleGetFlights)
			r.Get("/status", s.handleGetStatus)
			r.Get("/map", s.handleGetMap)
		})

		static, err := fs.Sub(staticFiles, "static")
		if err != nil {
			panic(err)
		}
		fileServer := http.FileServer(http.FS(static))
		r.Handle("/*", fileServer)
	})
}
