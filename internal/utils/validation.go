package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/constants"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

// InitValidator initializes the validator with custom validations
func InitValidator() {
	validate = validator.New()

	// Report json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations(validate)

	log.Info().Msg("Validator initialized")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// LimitBody caps the request body at constants.MaxRequestBodySize.
func LimitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)
}

// DecodeJSON decodes a JSON request body into the provided value
// with improved error handling and size limits.
// Unknown fields are ignored so clients may send extra keys.
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, constants.MaxRequestBodySize)

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(v); err != nil {
		return MapJSONError(err)
	}

	// Check for additional JSON data that would be ignored
	if dec.More() {
		return NewBadRequestError("Request body must only contain a single JSON object")
	}

	return nil
}

// MapJSONError converts an encoding/json or body-reading failure into an AppError.
func MapJSONError(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesError):
		return NewBadRequestError(constants.MsgRequestBodyTooLarge)

	case errors.Is(err, io.EOF):
		return NewBadRequestError(constants.MsgEmptyRequestBody)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return NewBadRequestError(constants.MsgMalformedJSON)

	case errors.As(err, &syntaxError):
		return NewBadRequestError(fmt.Sprintf("Request body contains malformed JSON (at position %d)", syntaxError.Offset))

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return NewValidationError(unmarshalTypeError.Field, fmt.Sprintf("Must be a %s", unmarshalTypeError.Type.String()))
		}
		return NewBadRequestError(fmt.Sprintf("Request body contains incorrect JSON type (at position %d)", unmarshalTypeError.Offset))

	case errors.As(err, &invalidUnmarshalError):
		return NewInternalServerError(err)

	default:
		return NewBadRequestError(fmt.Sprintf("Error decoding JSON: %s", err.Error()))
	}
}

// ValidateStruct validates a struct using the validator.
// Every failing field is reported; when all of them are missing the message
// is the generic "All fields are required".
func ValidateStruct(v interface{}) error {
	err := GetValidator().Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return NewBadRequestError(err.Error())
	}

	details := make(map[string]string, len(validationErrors))
	allRequired := true
	for _, e := range validationErrors {
		details[e.Field()] = getErrorMessage(e)
		if e.Tag() != "required" {
			allRequired = false
		}
	}

	message := "Validation failed"
	if allRequired {
		message = constants.MsgAllFieldsRequired
	}

	appErr := NewValidationErrorWithDetails(message, details)
	if len(validationErrors) == 1 {
		appErr.Field = validationErrors[0].Field()
	}
	return appErr
}

// ValidateVar validates a single value against a tag and reports the failure against field.
func ValidateVar(field string, value interface{}, tag string) error {
	err := GetValidator().Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return NewValidationError(field, getErrorMessage(validationErrors[0]))
	}
	return NewValidationError(field, err.Error())
}

// getErrorMessage returns a user-friendly error message for a validation error
func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Must not be blank"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long", e.Param())
		}
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters long", e.Param())
		}
		return fmt.Sprintf("Must be at most %s", e.Param())
	default:
		return fmt.Sprintf("Failed validation on the '%s' tag", e.Tag())
	}
}

// registerCustomValidations adds custom validation functions to the validator
func registerCustomValidations(v *validator.Validate) {
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		log.Error().Err(err).Msg("Failed to register notblank validation")
	}
}

// validateNotBlank rejects strings made only of whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
