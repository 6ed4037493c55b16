package utils

import (
	"database/sql"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/config"
	"github.com/bytecodeman/addressesapi/internal/constants"
)

// maxLoggedArgLength bounds how much of each query argument reaches the logs.
const maxLoggedArgLength = 64

// InitLogger initializes the application logger with the given configuration
func InitLogger(cfg *config.AppConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = newLogger(cfg, os.Stdout)

	log.Info().Msg("Logger initialized")
}

// newLogger builds the global logger writing to out.
// Console output is only used outside production.
func newLogger(cfg *config.AppConfig, out io.Writer) zerolog.Logger {
	output := out
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment).
		Logger()
}

// LogHTTPRequest logs an HTTP request with request details
func LogHTTPRequest(requestID, method, path, remoteAddr, userAgent string, statusCode int, latency time.Duration) {
	event := log.Info()

	switch {
	case statusCode >= 500:
		event = log.Error()
	case statusCode >= 400:
		event = log.Warn()
	case strings.HasSuffix(path, constants.HealthPath) || strings.HasSuffix(path, constants.DefaultMetricsPath):
		// High-volume probes only show up in debug mode
		event = log.Debug()
	}

	event.
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Str("user_agent", userAgent).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP Request")
}

// LogAppError logs a failed request on behalf of username, which is empty for
// anonymous callers. Server-side failures are logged at error level, missing
// records and rejected input at debug level and other client errors at warn.
func LogAppError(requestID, username string, appErr *AppError) {
	var event *zerolog.Event
	switch {
	case appErr.StatusCode >= 500:
		event = log.Error().Err(appErr.Err)
	case IsNotFoundError(appErr) || IsValidationError(appErr):
		event = log.Debug()
	default:
		event = log.Warn()
	}

	if username != "" {
		event = event.Str(constants.UsernameContextKey, username)
	}

	event.
		Str(constants.RequestIDContextKey, requestID).
		Int("status", appErr.StatusCode).
		Str("message", appErr.Message).
		Str("dev_info", appErr.DevInfo).
		Strs("fields", appErr.Fields).
		Msg("Request failed")
}

// LogPanic logs a recovered panic value
func LogPanic(recovered interface{}, stack []byte) {
	log.Error().
		Interface("panic", recovered).
		Str("stack", string(stack)).
		Msg("Panic recovered")
}

// LogDBQuery logs a database query for debugging.
// Failed queries are logged at error level; an empty result is not a failure.
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	safeArgs := make([]interface{}, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			safeArgs[i] = TruncateString(s, maxLoggedArgLength)
		} else {
			safeArgs[i] = arg
		}
	}

	event := log.Debug()
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		event = log.Error().Err(err)
	}

	event.
		Str("query", query).
		Interface("args", safeArgs).
		Dur("duration", duration).
		Msg("Database query executed")
}

// LogAuth logs authentication events
func LogAuth(event, username string, success bool, reason string) {
	logEvent := log.Debug()
	if !success {
		logEvent = log.Warn()
	}

	logEvent = logEvent.
		Str("category", constants.LogCategoryAuth).
		Str("event", event).
		Str(constants.UsernameContextKey, username).
		Bool("success", success)

	if reason != "" {
		logEvent = logEvent.Str("reason", reason)
	}

	logEvent.Msg("Authentication attempt")
}
