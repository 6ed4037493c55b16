package constants

// Context Key Names
const (
	RequestIDContextKey = "request_id"
	UsernameContextKey  = "username"
)

// Basic Authentication
const (
	BasicAuthScheme     = "Basic "
	CredentialSeparator = ":"
)

// DefaultPublicPaths are reachable without credentials, relative to the API base path.
var DefaultPublicPaths = []string{WebScrapePagePath}
