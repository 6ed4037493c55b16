package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bytecodeman/addressesapi/internal/auth"
	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/metrics"
	"github.com/bytecodeman/addressesapi/internal/middleware"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// Health, version and metrics sit at the server root and are never gated.
// Everything else is mounted under the configured base path behind basic
// auth, except the configured public paths.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Base middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(s.Config.CORS))
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}
	if s.Config.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}

	requireAuth := auth.RequireAuth(s.authProviders.Basic, s.publicPaths())

	// Unmatched requests under the base path are authenticated before they are answered.
	r.NotFound(s.gateBasePath(requireAuth, func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "")
	}))
	r.MethodNotAllowed(s.gateBasePath(requireAuth, func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	}))

	system := s.Handlers.SystemHandler
	addresses := s.Handlers.AddressHandler

	// Operational routes (unprotected)
	r.Get(constants.HealthPath, system.Health)
	r.Get(constants.VersionPath, system.Version)
	if s.Config.Metrics.Enabled {
		r.Method(http.MethodGet, s.Config.Metrics.Path, metrics.Handler())
	}

	basePath := s.Config.Server.BasePath
	p := func(path string) string { return basePath + path }

	if basePath != "" {
		r.Get(basePath, system.RedirectToIndex)
	}
	r.Get(p("/"), system.Index)

	// API routes
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(chimiddleware.NoCache)

		r.Get(p(constants.AddressesPath), addresses.ListAddresses)
		r.Post(p(constants.AddressesPath), addresses.CreateAddress)
		r.Get(p(constants.AddressSearchPath), addresses.SearchAddresses)
		r.Get(p(constants.AddressCountPath), addresses.CountAddresses)
		r.Get(p(constants.AddressDetailPath), addresses.GetAddress)
		r.Put(p(constants.AddressDetailPath), addresses.ReplaceAddress)
		r.Patch(p(constants.AddressDetailPath), addresses.PatchAddress)
		r.Delete(p(constants.AddressDetailPath), addresses.DeleteAddress)

		r.Get(p(constants.WebScrapePagePath), addresses.WebScrapePage)
	})

	s.router = r
}

// gateBasePath wraps fallback so that requests under the base path pass through gate first.
// Requests outside it, such as an unknown root path, get fallback directly.
func (s *Server) gateBasePath(gate func(http.Handler) http.Handler, fallback http.HandlerFunc) http.HandlerFunc {
	gated := gate(fallback)
	basePath := s.Config.Server.BasePath
	return func(w http.ResponseWriter, r *http.Request) {
		if basePath == "" || r.URL.Path == basePath || strings.HasPrefix(r.URL.Path, basePath+"/") {
			gated.ServeHTTP(w, r)
			return
		}
		fallback(w, r)
	}
}

// publicPaths resolves the configured public paths against the base path.
func (s *Server) publicPaths() []string {
	paths := make([]string, 0, len(s.Config.Auth.PublicPaths))
	for _, path := range s.Config.Auth.PublicPaths {
		paths = append(paths, s.Config.Server.BasePath+path)
	}
	return paths
}

// GetRouter returns the configured router
func (s *Server) GetRouter() chi.Router {
	return s.router
}
