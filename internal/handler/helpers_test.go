package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqwire/internal/domain"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: name required", domain.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("project x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"conflict", &domain.ConflictError{Message: "name taken", ResourceType: "project"}, http.StatusConflict},
		{"unknown", errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			assert.Equal(t, tt.want, rec.Code)
			doc := decodeProblem(t, rec)
			assert.Equal(t, float64(tt.want), doc["status"])
		})
	}
}

func TestHandleError_InternalErrorsAreOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, errors.New("pq: relation dev_projects does not exist"))

	doc := decodeProblem(t, rec)
	assert.Equal(t, "internal server error", doc["detail"])
}

func TestHandleError_VersionConflictCarriesExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, &domain.VersionConflictError{
		ResourceType:    "requirement",
		ResourceID:      uuid.NewString(),
		ExpectedVersion: 3,
		StoredVersion:   5,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	doc := decodeProblem(t, rec)
	assert.Equal(t, float64(3), doc["expected_version"])
	assert.Equal(t, float64(5), doc["stored_version"])
}

func TestPathUUID(t *testing.T) {
	mux := http.NewServeMux()
	var got uuid.UUID
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r)
		if !ok {
			return
		}
		got = id
		w.WriteHeader(http.StatusOK)
	})

	id := uuid.New()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, got)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryUUID(t *testing.T) {
	id := uuid.New()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/things?project_id="+id.String(), nil)
	got, ok := queryUUID(rec, r, "project_id")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	// Absent parameter is fine and yields nil.
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/things", nil)
	got, ok = queryUUID(rec, r, "project_id")
	require.True(t, ok)
	assert.Nil(t, got)

	// Malformed parameter writes a 400.
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/things?project_id=zzz", nil)
	_, ok = queryUUID(rec, r, "project_id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
