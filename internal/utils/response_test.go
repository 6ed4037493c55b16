package utils_test

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	utils.JSON(w, http.StatusOK, map[string]int64{"count": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.ContentTypeJSON, w.Header().Get(constants.HeaderContentType))
	assert.JSONEq(t, `{"count":3}`, w.Body.String())
}

func TestJSON_MarshalFailure(t *testing.T) {
	w := httptest.NewRecorder()
	utils.JSON(w, http.StatusOK, map[string]interface{}{"bad": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate response")
}

func TestMessage(t *testing.T) {
	w := httptest.NewRecorder()
	utils.Message(w, http.StatusOK, "Address deleted successfully")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Address deleted successfully"}`, w.Body.String())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	utils.Error(w, http.StatusBadRequest, constants.CodeProfaneContent, "Profane content detected in fields", []string{"name"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Profane content detected in fields","code":"profane_content","fields":["name"]}`, w.Body.String())
}

func TestErrorFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        *utils.AppError
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{name: "Not found", err: utils.NewNotFoundError("Address not found"), wantStatus: http.StatusNotFound, wantCode: constants.CodeNotFound, wantError: "Address not found"},
		{name: "Auth required", err: utils.NewAuthRequiredError(), wantStatus: http.StatusUnauthorized, wantCode: constants.CodeUnauthorized, wantError: "Authorization header is required"},
		{name: "Auth rejected", err: utils.NewAuthRejectedError("bad password"), wantStatus: http.StatusForbidden, wantCode: constants.CodeForbidden, wantError: "Invalid credentials"},
		{name: "Validation", err: utils.NewValidationError("", "No valid fields to update"), wantStatus: http.StatusBadRequest, wantCode: constants.CodeValidationError, wantError: "No valid fields to update"},
		{name: "Bad request", err: utils.NewBadRequestError("Request body contains malformed JSON"), wantStatus: http.StatusBadRequest, wantCode: constants.CodeBadRequest, wantError: "Request body contains malformed JSON"},
		{name: "Profanity", err: utils.NewProfaneContentError([]string{"city"}), wantStatus: http.StatusBadRequest, wantCode: constants.CodeProfaneContent, wantError: "Profane content detected in fields"},
		{name: "Persistence", err: utils.NewPersistenceError("Failed to fetch addresses", errors.New("dial tcp: refused")), wantStatus: http.StatusInternalServerError, wantCode: constants.CodeInternalError, wantError: "Failed to fetch addresses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			utils.ErrorFromAppError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body utils.ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantError, body.Error)
			// Driver details never leak into the response
			assert.NotContains(t, w.Body.String(), "dial tcp")
		})
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	utils.NotFound(w, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found","code":"not_found"}`, w.Body.String())

	w = httptest.NewRecorder()
	utils.MethodNotAllowed(w)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		maxLimit  int
		wantPage  int
		wantLimit int
	}{
		{name: "Defaults", query: "", maxLimit: 100, wantPage: 1, wantLimit: 10},
		{name: "Explicit values", query: "?page=3&limit=25", maxLimit: 100, wantPage: 3, wantLimit: 25},
		{name: "Non-numeric falls back", query: "?page=abc&limit=xyz", maxLimit: 100, wantPage: 1, wantLimit: 10},
		{name: "Zero falls back", query: "?page=0&limit=0", maxLimit: 100, wantPage: 1, wantLimit: 10},
		{name: "Negative falls back", query: "?page=-2&limit=-5", maxLimit: 100, wantPage: 1, wantLimit: 10},
		{name: "Fraction falls back", query: "?page=1.5", maxLimit: 100, wantPage: 1, wantLimit: 10},
		{name: "Limit capped", query: "?limit=5000", maxLimit: 100, wantPage: 1, wantLimit: 100},
		{name: "Unlimited cap", query: "?limit=5000", maxLimit: constants.UnlimitedPageSize, wantPage: 1, wantLimit: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/addresses"+tt.query, nil)
			params := utils.GetPaginationParams(req, constants.DefaultPageSize, tt.maxLimit)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestPaginationParams_OffsetAndTotalPages(t *testing.T) {
	p := utils.PaginationParams{Page: 3, Limit: 10}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, int64(3), p.TotalPages(25))
	assert.Equal(t, int64(3), p.TotalPages(30))
	assert.Equal(t, int64(0), p.TotalPages(0))

	assert.Equal(t, 0, utils.PaginationParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, math.MaxInt, utils.PaginationParams{Page: math.MaxInt, Limit: 10}.Offset())
}

func TestParsePositiveInt(t *testing.T) {
	v, ok := utils.ParsePositiveInt(" 42 ")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	for _, in := range []string{"", "0", "-1", "abc", "4.2", "99999999999999999999999"} {
		_, ok := utils.ParsePositiveInt(in)
		assert.False(t, ok, "input %q", in)
	}
}
