package utils

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/bytecodeman/addressesapi/internal/constants"
)

// Custom error types for the application
var (
	ErrNotFound       = errors.New(constants.ErrorNotFound)
	ErrUnauthorized   = errors.New(constants.ErrorUnauthorized)
	ErrForbidden      = errors.New(constants.ErrorForbidden)
	ErrBadRequest     = errors.New(constants.ErrorBadRequest)
	ErrInternalServer = errors.New(constants.ErrorInternalServer)
	ErrValidation     = errors.New(constants.ErrorValidation)
	ErrProfaneContent = errors.New(constants.ErrorProfaneContent)
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error    // The underlying error
	StatusCode int      // HTTP status code
	Message    string   // User-friendly error message
	DevInfo    string   // Additional information for developers, never sent to clients
	Field      string   // Field related to the error (for validation errors)
	Fields     []string // Every offending field, when more than one can fail at once
	Details    map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error for a specific field.
// An empty field produces an error about the request as a whole.
func NewValidationError(field, message string) *AppError {
	appErr := &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Field:      field,
	}
	if field != "" {
		appErr.Fields = []string{field}
	}
	return appErr
}

// NewValidationErrorWithDetails creates a validation error with multiple field details.
// Fields are reported in sorted order so responses are stable.
func NewValidationErrorWithDetails(message string, details map[string]string) *AppError {
	detailsMap := make(map[string]any, len(details))
	fields := make([]string, 0, len(details))
	for k, v := range details {
		detailsMap[k] = v
		fields = append(fields, k)
	}
	sort.Strings(fields)

	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Fields:     fields,
		Details:    detailsMap,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewNotFoundError creates a new not found error with the given user message
func NewNotFoundError(message string) *AppError {
	if message == "" {
		message = "The requested resource could not be found"
	}
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

// NewAuthRequiredError is returned when a protected route is called without credentials.
func NewAuthRequiredError() *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgAuthHeaderRequired,
	}
}

// NewAuthRejectedError is returned when credentials are present but do not match.
// devInfo records why they were rejected and is only ever logged.
func NewAuthRejectedError(devInfo string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		StatusCode: http.StatusForbidden,
		Message:    constants.MsgInvalidCredentials,
		DevInfo:    devInfo,
	}
}

// NewProfaneContentError names every field whose value contains a disallowed word.
func NewProfaneContentError(fields []string) *AppError {
	return &AppError{
		Err:        ErrProfaneContent,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgProfaneContent,
		Fields:     fields,
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(err error) *AppError {
	return NewPersistenceError(constants.MsgInternalServerError, err)
}

// NewPersistenceError wraps a storage failure behind a generic, operation specific message.
// The cause is kept for logging only.
func NewPersistenceError(message string, err error) *AppError {
	appErr := &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
	if err != nil {
		appErr.Err = fmt.Errorf("%w: %w", ErrInternalServer, err)
		appErr.DevInfo = err.Error()
	}
	return appErr
}

// ParseError attempts to parse various types of errors into an AppError
func ParseError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError("")
	case errors.Is(err, ErrUnauthorized):
		return NewAuthRequiredError()
	case errors.Is(err, ErrForbidden):
		return NewAuthRejectedError(err.Error())
	case errors.Is(err, ErrBadRequest):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrValidation):
		return NewValidationError("", err.Error())
	}

	// Values wider than the column are a client problem, whichever driver reports them
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1406 {
		return &AppError{
			Err:        ErrValidation,
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("Values must be at most %d characters long", constants.MaxTextFieldLength),
			DevInfo:    mysqlErr.Error(),
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "22001": // string_data_right_truncation
			return &AppError{
				Err:        ErrValidation,
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("Values must be at most %d characters long", constants.MaxTextFieldLength),
				DevInfo:    pqErr.Error(),
			}
		case "23502": // not_null_violation
			field := pqErr.Column
			return &AppError{
				Err:        ErrValidation,
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("The %s field cannot be empty", field),
				DevInfo:    pqErr.Error(),
				Field:      field,
				Fields:     []string{field},
			}
		}
	}

	return NewInternalServerError(err)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
