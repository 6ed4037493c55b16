// Package constants provides shared constant values used throughout the application.
//
// The routes_const.go file defines route paths and request parameter names.
package constants

// Operational Routes are mounted at the server root.
const (
	HealthPath  = "/health"
	VersionPath = "/version"
)

// Resource Routes are relative to the configured API base path.
const (
	AddressesPath     = "/addresses"
	AddressSearchPath = "/addresses/search"
	AddressCountPath  = "/addresses/count"
	AddressDetailPath = "/addresses/{id}"
	WebScrapePagePath = "/webscrapepage"
)

// URL Parameters
const (
	ParamID = "id"
)

// Query Parameters
const (
	QueryParamPage   = "page"
	QueryParamLimit  = "limit"
	QueryParamSearch = "query"
)
