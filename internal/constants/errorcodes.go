// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling, categorization,
// and messaging. User-facing messages are deliberately generic where the underlying
// failure is a database problem.
package constants

// Error Types define the categories of errors that can occur in the application.
const (
	// ErrorNotFound indicates that a requested resource could not be found.
	ErrorNotFound = "resource not found"

	// ErrorUnauthorized indicates that credentials were required but not supplied.
	ErrorUnauthorized = "unauthorized access"

	// ErrorForbidden indicates that the supplied credentials were rejected.
	ErrorForbidden = "forbidden access"

	// ErrorBadRequest indicates that the request was malformed.
	ErrorBadRequest = "invalid request"

	// ErrorInternalServer indicates an unexpected internal error.
	ErrorInternalServer = "internal server error"

	// ErrorValidation indicates that input validation failed.
	ErrorValidation = "validation error"

	// ErrorProfaneContent indicates that a text field contained disallowed words.
	ErrorProfaneContent = "profane content"
)

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	// MsgAuthHeaderRequired is returned when the Authorization header is missing.
	MsgAuthHeaderRequired = "Authorization header is required"

	// MsgInvalidCredentials is returned when the supplied credentials do not match.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgBodyMustBeObject indicates that the request body is valid JSON but not an object.
	MsgBodyMustBeObject = "Request body must be a JSON object"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgRouteNotFound is returned for unmatched routes.
	MsgRouteNotFound = "Route not found"

	// MsgMethodNotAllowed indicates that the HTTP method is not supported for the endpoint.
	MsgMethodNotAllowed = "This method is not allowed for this resource"

	// MsgAddressNotFound is returned when no address has the requested identifier.
	MsgAddressNotFound = "Address not found"

	// MsgRecordNotFound is returned by get-by-id when no address has the identifier.
	MsgRecordNotFound = "Record not found"

	// MsgAllFieldsRequired is returned when create or replace is missing a field.
	MsgAllFieldsRequired = "All fields are required"

	// MsgNoFieldsToUpdate is returned for an empty partial update.
	MsgNoFieldsToUpdate = "Request body must contain fields to update"

	// MsgNoValidFields is returned when a partial update names no updatable field.
	MsgNoValidFields = "No valid fields to update"

	// MsgSearchQueryRequired is returned when the search keyword is missing.
	MsgSearchQueryRequired = "Search query is required"

	// MsgInvalidAddressID is returned when the id path parameter is not a positive integer.
	MsgInvalidAddressID = "Address ID must be a positive integer"

	// MsgProfaneContent is returned when one or more fields contain disallowed words.
	MsgProfaneContent = "Profane content detected in fields"
)

// Operation Failure Messages are the generic messages returned for persistence failures.
const (
	MsgFailedFetchAddresses = "Failed to fetch addresses"
	MsgFailedFetchAddress   = "Failed to fetch address"
	MsgFailedSearch         = "Failed to search addresses"
	MsgFailedCount          = "Failed to fetch address count"
	MsgFailedAdd            = "Failed to add address"
	MsgFailedUpdate         = "Failed to update address"
	MsgFailedDelete         = "Failed to delete address"
)

// Success Messages
const (
	MsgAddressAdded   = "Address added successfully"
	MsgAddressUpdated = "Address updated successfully"
	MsgAddressDeleted = "Address deleted successfully"
)

// Logger Constants define values used for structured logging.
const (
	// LogRedactedValue replaces secrets in log output.
	LogRedactedValue = "[REDACTED]"

	// LogCategoryAuth is the log category for authentication events.
	LogCategoryAuth = "auth"
)
