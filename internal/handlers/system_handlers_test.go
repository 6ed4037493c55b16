package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytecodeman/addressesapi/internal/config"
	"github.com/bytecodeman/addressesapi/internal/handlers"
)

type stubHealthChecker struct {
	err error
}

func (s stubHealthChecker) HealthCheck(ctx context.Context) error {
	return s.err
}

var testApp = config.AppSettings{Name: "addresses-api", Version: "1.2.3", Environment: "test"}

func TestHealth(t *testing.T) {
	h := handlers.NewSystemHandler(stubHealthChecker{}, testApp, "", "/metrics")

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","version":"1.2.3"}`, rr.Body.String())
}

func TestHealth_Unavailable(t *testing.T) {
	h := handlers.NewSystemHandler(stubHealthChecker{err: errors.New("ping failed")}, testApp, "", "")

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.NotContains(t, rr.Body.String(), "ping failed")
}

func TestVersion(t *testing.T) {
	h := handlers.NewSystemHandler(stubHealthChecker{}, testApp, "", "")

	rr := httptest.NewRecorder()
	h.Version(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.JSONEq(t, `{"version":"1.2.3","environment":"test"}`, rr.Body.String())
}

func TestIndex(t *testing.T) {
	h := handlers.NewSystemHandler(stubHealthChecker{}, testApp, "/csc114/api", "/metrics")

	rr := httptest.NewRecorder()
	h.Index(rr, httptest.NewRequest(http.MethodGet, "/csc114/api/", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var index handlers.RouteIndex
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &index))
	assert.Equal(t, "addresses-api", index.Name)

	paths := make(map[string]bool)
	for _, route := range index.Routes {
		paths[route.Method+" "+route.Path] = route.Auth
	}
	assert.True(t, paths["PATCH /csc114/api/addresses/{id}"])
	auth, ok := paths["GET /csc114/api/webscrapepage"]
	assert.True(t, ok)
	assert.False(t, auth)
	_, ok = paths["GET /metrics"]
	assert.True(t, ok)
	_, ok = paths["GET /health"]
	assert.True(t, ok)
}

func TestRedirectToIndex(t *testing.T) {
	h := handlers.NewSystemHandler(stubHealthChecker{}, testApp, "/csc114/api", "")

	rr := httptest.NewRecorder()
	h.RedirectToIndex(rr, httptest.NewRequest(http.MethodGet, "/csc114/api?x=1", nil))

	assert.Equal(t, http.StatusMovedPermanently, rr.Code)
	assert.Equal(t, "/csc114/api/?x=1", rr.Header().Get("Location"))
}
