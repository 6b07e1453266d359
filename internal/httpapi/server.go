// Package httpapi exposes the resolution, relay and search wire surfaces over
// HTTP with the CORS behavior browser clients need.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/famomatic/vidgate/internal/ytdlp"
	"github.com/famomatic/vidgate/relay"
	"github.com/famomatic/vidgate/resolver"
)

// Searcher is the optional search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]ytdlp.SearchResult, error)
}

// Config holds configuration for the HTTP surface.
type Config struct {
	// PublicBaseURL prefixes relay locations handed to clients.
	// Empty keeps them relative to this server.
	PublicBaseURL string

	// RelayPath is the mount point of the relay endpoint.
	// Zero value uses DefaultRelayPath.
	RelayPath string

	// DefaultQuality is used when a resolve request omits the quality label.
	// Zero value uses "720p".
	DefaultQuality string
}

// DefaultRelayPath is where the relay endpoint is mounted.
const DefaultRelayPath = "/api/relay"

// Server wires the resolver, relay and search components behind HTTP.
type Server struct {
	resolver *resolver.Resolver
	relay    *relay.Relay
	searcher Searcher
	config   Config
	logger   *logrus.Logger
}

// NewServer creates the HTTP surface. searcher may be nil to disable search.
func NewServer(res *resolver.Resolver, rel *relay.Relay, searcher Searcher, config Config, logger *logrus.Logger) *Server {
	if config.RelayPath == "" {
		config.RelayPath = DefaultRelayPath
	}
	if config.DefaultQuality == "" {
		config.DefaultQuality = "720p"
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{
		resolver: res,
		relay:    rel,
		searcher: searcher,
		config:   config,
		logger:   logger,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(allowOrigin)

	r.Get("/api/resolve", s.handleResolve)
	r.Post("/api/resolve", s.handleResolve)
	r.Options("/api/resolve", s.handlePreflight)

	r.Get(s.config.RelayPath, s.handleRelay)
	r.Options(s.config.RelayPath, s.handlePreflight)

	r.Get("/api/search", s.handleSearch)
	r.Options("/api/search", s.handlePreflight)

	return r
}

// allowOrigin marks every response readable from any origin.
func allowOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// handlePreflight answers CORS preflight queries: wildcard origin, GET plus
// the request's own method, Range allowed, cached for a day.
func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	methods := "GET, OPTIONS"
	if m := r.Header.Get("Access-Control-Request-Method"); m != "" && m != http.MethodGet && m != http.MethodOptions {
		methods = m + ", GET, OPTIONS"
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Methods", methods)
	h.Set("Access-Control-Allow-Headers", "Content-Type, Range")
	h.Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusOK)
}
