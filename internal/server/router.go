package server

import (
	"net/http"
	"strings"

	"github.com/agentstation/toolhub/internal/server/handlers"
	"github.com/agentstation/toolhub/internal/server/middleware"
	"github.com/agentstation/toolhub/internal/server/response"
	"github.com/agentstation/toolhub/pkg/catalog"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.cache,
		s.broker,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/ready", h.HandleReady)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	// Collection endpoints
	for _, collection := range catalog.Collections() {
		base := prefix + "/" + collection
		mux.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				h.HandleList(w, r, collection)
			case http.MethodPost:
				h.HandleCreate(w, r, collection)
			default:
				response.MethodNotAllowed(w, r.Method)
			}
		})
		mux.HandleFunc(base+"/", func(w http.ResponseWriter, r *http.Request) {
			s.routeItem(w, r, h, collection, splitPath(strings.TrimPrefix(r.URL.Path, base+"/")))
		})
	}

	// Analytics endpoints
	mux.HandleFunc(prefix+"/analytics/events", methods(map[string]http.HandlerFunc{
		http.MethodPost: h.HandleRecordEvent,
	}))
	mux.HandleFunc(prefix+"/analytics/daily", methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandleDaily,
	}))
	mux.HandleFunc(prefix+"/analytics/pages", methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandlePages,
	}))

	mux.HandleFunc(prefix+"/stats", methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandleStats,
	}))

	// Real-time endpoints
	mux.HandleFunc(prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc(prefix+"/updates/stream", h.HandleSSE)

	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
}

// routeItem dispatches the paths below a collection.
func (s *Server) routeItem(w http.ResponseWriter, r *http.Request, h *handlers.Handlers, collection string, parts []string) {
	switch {
	case len(parts) == 0:
		response.NotFound(w, "Item ID required", "")

	case len(parts) == 1 && parts[0] == "facets":
		allow(w, r, http.MethodGet, func() { h.HandleFacets(w, r, collection) })
	case len(parts) == 1 && parts[0] == "export":
		allow(w, r, http.MethodGet, func() { h.HandleExport(w, r, collection) })
	case len(parts) == 1 && parts[0] == "template":
		allow(w, r, http.MethodGet, func() { h.HandleTemplate(w, r, collection) })
	case len(parts) == 1 && parts[0] == "import":
		allow(w, r, http.MethodPost, func() { h.HandleImport(w, r, collection) })

	case len(parts) == 1:
		id := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.HandleGet(w, r, collection, id)
		case http.MethodPut:
			h.HandleUpdate(w, r, collection, id)
		case http.MethodDelete:
			h.HandleDelete(w, r, collection, id)
		default:
			response.MethodNotAllowed(w, r.Method)
		}

	case len(parts) == 2 && parts[1] == "view":
		allow(w, r, http.MethodPost, func() { h.HandleView(w, r, collection, parts[0]) })
	case len(parts) == 2 && parts[1] == "click":
		allow(w, r, http.MethodPost, func() { h.HandleClick(w, r, collection, parts[0]) })

	default:
		response.NotFound(w, "Not found", r.URL.Path)
	}
}

// applyMiddleware wraps handler with middleware chain. The last wrapper
// runs first.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if s.rateLimiter != nil {
		handler = middleware.RateLimit(s.rateLimiter)(handler)
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.APIKey = cfg.APIKey
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		authConfig.Protected = adminRoute(cfg.PathPrefix)
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	if s.metrics != nil {
		handler = s.metrics.Middleware(cfg.PathPrefix)(handler)
	}

	// Logging and recovery are always on.
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}

// adminRoute reports whether a request changes the catalog or reads
// private reports. Views, clicks and analytics events stay public.
func adminRoute(prefix string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		rest, ok := strings.CutPrefix(r.URL.Path, prefix)
		if !ok {
			return false
		}
		parts := splitPath(rest)
		if len(parts) == 0 {
			return false
		}
		switch parts[0] {
		case "stats":
			return true
		case "analytics":
			return r.Method == http.MethodGet
		}
		if _, ok := catalog.KindForCollection(parts[0]); !ok {
			return false
		}
		if len(parts) == 2 && (parts[1] == "export" || parts[1] == "import") {
			return true
		}
		if len(parts) == 3 {
			return false // view and click
		}
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			return true
		}
		return false
	}
}

// methods routes by HTTP method.
func methods(byMethod map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fn, ok := byMethod[r.Method]; ok {
			fn(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	}
}

func allow(w http.ResponseWriter, r *http.Request, method string, fn func()) {
	if r.Method != method {
		response.MethodNotAllowed(w, r.Method)
		return
	}
	fn()
}

// splitPath splits a URL path into parts, removing empty strings.
func splitPath(path string) []string {
	parts := []string{}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
