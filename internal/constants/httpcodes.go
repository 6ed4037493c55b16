// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines HTTP-related constants such as response codes,
// headers, and content types.
package constants

// HTTP Response Code Types define machine-readable error codes returned in error bodies.
const (
	// CodeBadRequest indicates a malformed request.
	CodeBadRequest = "bad_request"

	// CodeUnauthorized indicates missing credentials.
	CodeUnauthorized = "unauthorized"

	// CodeForbidden indicates rejected credentials.
	CodeForbidden = "forbidden"

	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound = "not_found"

	// CodeMethodNotAllowed indicates the HTTP method is not allowed for the endpoint.
	CodeMethodNotAllowed = "method_not_allowed"

	// CodeInternalError indicates an unexpected server error.
	CodeInternalError = "internal_error"

	// CodeValidationError indicates request validation failed.
	CodeValidationError = "validation_error"

	// CodeProfaneContent indicates a text field contained disallowed words.
	CodeProfaneContent = "profane_content"

	// CodeServiceUnavailable indicates the database is unreachable.
	CodeServiceUnavailable = "service_unavailable"
)

// HTTP Header Names define common HTTP headers used in requests and responses.
const (
	HeaderContentType           = "Content-Type"
	HeaderAuthorization         = "Authorization"
	HeaderWWWAuthenticate       = "WWW-Authenticate"
	HeaderXRequestID            = "X-Request-ID"
	HeaderXContentTypeOptions   = "X-Content-Type-Options"
	HeaderXFrameOptions         = "X-Frame-Options"
	HeaderXXSSProtection        = "X-XSS-Protection"
	HeaderReferrerPolicy        = "Referrer-Policy"
	HeaderContentSecurityPolicy = "Content-Security-Policy"
)

// HTTP Content Types define media types used in the Content-Type header.
const (
	// ContentTypeJSON specifies the content is in JSON format.
	ContentTypeJSON = "application/json"

	// ContentTypeHTML specifies the content is an HTML document.
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Security Header Values define the values for various security-related HTTP headers.
const (
	FrameOptionsDeny           = "DENY"
	XSSProtectionModeBlock     = "1; mode=block"
	ContentTypeOptionsNoSniff  = "nosniff"
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"
	CSPDefaultSrc              = "default-src 'self'; style-src 'self' 'unsafe-inline'"
)
