package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/config"
	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// RouteInfo describes one endpoint in the route index.
type RouteInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Auth        bool   `json:"auth"`
	Description string `json:"description"`
}

// RouteIndex is the body served at the API base path.
type RouteIndex struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Routes  []RouteInfo `json:"routes"`
}

// SystemHandler serves the operational endpoints
type SystemHandler struct {
	db       HealthChecker
	app      config.AppSettings
	basePath string
	index    RouteIndex
}

// NewSystemHandler creates a new SystemHandler.
// metricsPath is left out of the route index when empty.
func NewSystemHandler(db HealthChecker, app config.AppSettings, basePath, metricsPath string) *SystemHandler {
	return &SystemHandler{
		db:       db,
		app:      app,
		basePath: basePath,
		index:    buildRouteIndex(app, basePath, metricsPath),
	}
}

// Health pings the database
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, "Service is not healthy", nil, nil)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.app.Version,
	})
}

// Version reports the running build
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"version":     h.app.Version,
		"environment": h.app.Environment,
	})
}

// Index lists every endpoint. Operational routes sit at the server root.
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.index)
}

// RedirectToIndex sends clients of the bare base path to its trailing-slash form
func (h *SystemHandler) RedirectToIndex(w http.ResponseWriter, r *http.Request) {
	target := h.basePath + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func buildRouteIndex(app config.AppSettings, basePath, metricsPath string) RouteIndex {
	p := func(path string) string { return basePath + path }

	routes := []RouteInfo{
		{http.MethodGet, p(constants.AddressesPath), true, "List addresses; page and limit query parameters"},
		{http.MethodGet, p(constants.AddressSearchPath), true, "Ids of addresses containing the query parameter"},
		{http.MethodGet, p(constants.AddressCountPath), true, "Number of addresses"},
		{http.MethodGet, p(constants.AddressDetailPath), true, "One address with its position"},
		{http.MethodPost, p(constants.AddressesPath), true, "Add an address; all fields required"},
		{http.MethodPut, p(constants.AddressDetailPath), true, "Replace an address; all fields required"},
		{http.MethodPatch, p(constants.AddressDetailPath), true, "Update the supplied fields of an address"},
		{http.MethodDelete, p(constants.AddressDetailPath), true, "Delete an address"},
		{http.MethodGet, p(constants.WebScrapePagePath), false, "HTML table of every address"},
		{http.MethodGet, constants.HealthPath, false, "Database health"},
		{http.MethodGet, constants.VersionPath, false, "Running version"},
	}
	if metricsPath != "" {
		routes = append(routes, RouteInfo{http.MethodGet, metricsPath, false, "Prometheus metrics"})
	}

	return RouteIndex{
		Name:    app.Name,
		Version: app.Version,
		Routes:  routes,
	}
}
