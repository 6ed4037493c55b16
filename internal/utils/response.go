// Package utils provides utility functions and helpers for the application.
// This file implements the response helpers shared by every endpoint.
//
// Successful responses are written as the bare payload the endpoint describes
// (for example {"count": 3} or {"message": "..."}). Failures always use the
// ErrorBody shape so clients can rely on an "error" key.
package utils

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/constants"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string         `json:"error"`             // A human-readable error message
	Code    string         `json:"code"`              // A machine-readable error code
	Fields  []string       `json:"fields,omitempty"`  // The offending request fields, if any
	Details map[string]any `json:"details,omitempty"` // Per-field error messages
}

// MessageBody is the body of mutating endpoints that only confirm success.
type MessageBody struct {
	Message string `json:"message"`
}

// PaginationParams contains parameters for pagination.
type PaginationParams struct {
	Page  int // The requested page number, starting at 1
	Limit int // The number of items per page
}

// Offset returns the number of rows to skip for the page.
// It saturates instead of overflowing for absurdly large page numbers.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages returns how many pages of Limit items hold total items.
func (p PaginationParams) TotalPages(total int64) int64 {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	limit := int64(p.Limit)
	return (total + limit - 1) / limit
}

// JSON sends the given payload as a JSON response with the given status code.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - data: The payload to marshal
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	SendJSON(w, statusCode, data)
}

// Message sends {"message": message} with the given status code.
func Message(w http.ResponseWriter, statusCode int, message string) {
	SendJSON(w, statusCode, MessageBody{Message: message})
}

// Error sends an error response with the given status code and error information.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - code: A machine-readable error code
//   - message: A human-readable error message
//   - fields: The request fields the error is about (may be nil)
//   - details: Additional details about the error (may be nil)
func Error(w http.ResponseWriter, statusCode int, code, message string, fields []string, details map[string]any) {
	SendJSON(w, statusCode, ErrorBody{
		Error:   message,
		Code:    code,
		Fields:  fields,
		Details: details,
	})
}

// ErrorFromAppError sends an error response based on an AppError.
// Developer information is logged at the call site, never written to the client.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	Error(w, err.StatusCode, errorCode(err), err.Message, err.Fields, err.Details)
}

// errorCode maps the sentinel behind an AppError to its machine-readable code.
func errorCode(err *AppError) string {
	switch {
	case errors.Is(err.Err, ErrNotFound):
		return constants.CodeNotFound
	case errors.Is(err.Err, ErrBadRequest):
		return constants.CodeBadRequest
	case errors.Is(err.Err, ErrUnauthorized):
		return constants.CodeUnauthorized
	case errors.Is(err.Err, ErrForbidden):
		return constants.CodeForbidden
	case errors.Is(err.Err, ErrValidation):
		return constants.CodeValidationError
	case errors.Is(err.Err, ErrProfaneContent):
		return constants.CodeProfaneContent
	default:
		return constants.CodeInternalError
	}
}

// SendJSON is a helper function to send JSON data with proper headers.
// This handles JSON marshaling and error handling for all response types.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"error":"Failed to generate response","code":"internal_error"}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		// Log write errors but don't try to recover
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgRouteNotFound
	}
	Error(w, http.StatusNotFound, constants.CodeNotFound, message, nil, nil)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil, nil)
}

// GetPaginationParams extracts pagination parameters from the request.
//
// Parameters:
//   - r: The HTTP request
//   - defaultLimit: The page size used when limit is absent or invalid
//   - maxLimit: The largest page size allowed; constants.UnlimitedPageSize disables the cap
//
// Returns:
//   - A PaginationParams struct containing the page and limit
//
// Missing, non-numeric and non-positive values fall back to the defaults rather
// than failing the request.
func GetPaginationParams(r *http.Request, defaultLimit, maxLimit int) PaginationParams {
	query := r.URL.Query()

	page, ok := ParsePositiveInt(query.Get(constants.QueryParamPage))
	if !ok {
		page = constants.DefaultPage
	}

	limit, ok := ParsePositiveInt(query.Get(constants.QueryParamLimit))
	if !ok {
		limit = defaultLimit
	}
	if maxLimit != constants.UnlimitedPageSize && limit > maxLimit {
		limit = maxLimit
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// ParsePositiveInt parses a base-10 integer greater than zero.
// It reports false for empty, malformed, out-of-range or non-positive input.
func ParsePositiveInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	value, err := strconv.Atoi(s)
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}
