// Package auth provides authentication for the addresses API.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/metrics"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for storing the authenticated user and request metadata.
const (
	// UsernameContextKey is the context key for storing the authenticated username.
	UsernameContextKey ContextKey = constants.UsernameContextKey

	// RequestIDContextKey is the context key for storing the unique request ID.
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// AuthProvider authenticates a request and returns the caller's username.
// Failures are *utils.AppError values carrying the status to answer with.
type AuthProvider interface {
	Authenticate(r *http.Request) (string, error)
}

// RequireAuth is a middleware that rejects requests the provider does not authenticate.
// Requests for one of publicPaths pass through without credentials.
func RequireAuth(provider AuthProvider, publicPaths []string) func(http.Handler) http.Handler {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[normalizePath(p)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := public[normalizePath(r.URL.Path)]; ok {
				next.ServeHTTP(w, r)
				return
			}

			requestID, _ := GetRequestID(r)

			username, err := provider.Authenticate(r)
			if err != nil {
				var appErr *utils.AppError
				if !errors.As(err, &appErr) {
					appErr = utils.NewAuthRejectedError(err.Error())
				}

				reason := appErr.DevInfo
				if reason == "" {
					reason = appErr.Message
				}
				utils.LogAuth("authenticate", username, false, reason)
				metrics.RecordAuthFailure(failureReason(appErr))

				log.Debug().
					Str("request_id", requestID).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", appErr.StatusCode).
					Msg("Authentication failed")

				if appErr.StatusCode == http.StatusUnauthorized {
					w.Header().Set(constants.HeaderWWWAuthenticate, `Basic realm="addresses"`)
				}
				utils.ErrorFromAppError(w, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), UsernameContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// failureReason is a low-cardinality label for a rejected request.
func failureReason(appErr *utils.AppError) string {
	if appErr.StatusCode == http.StatusUnauthorized {
		return "missing_credentials"
	}
	return "invalid_credentials"
}

func normalizePath(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

// GetUsername extracts the authenticated username from the request context.
func GetUsername(r *http.Request) (string, bool) {
	username, ok := r.Context().Value(UsernameContextKey).(string)
	return username, ok
}

// GetRequestID extracts the request ID from the request context.
func GetRequestID(r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(RequestIDContextKey).(string)
	return requestID, ok
}
