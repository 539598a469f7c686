package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthewbaird/schemagen/internal/service"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Limit: 20}},
		{"page_size=5&offset=10", Pagination{Limit: 5, Offset: 10}},
		{"page_size=500", Pagination{Limit: 100}},
		{"page_size=-1&offset=-3", Pagination{Limit: 20}},
		{"page_size=abc", Pagination{Limit: 20}},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/v1/runs?"+tt.query, nil)
		assert.Equal(t, tt.want, parsePagination(r), tt.query)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(service.KindMalformed))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.KindUnknownTarget))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(service.KindUnsupportedType))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(service.KindUnsupportedDefault))
	assert.Equal(t, http.StatusNotFound, statusFor(service.KindSessionNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(service.KindInternal))
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestLogging_RecordsStatus(t *testing.T) {
	var seen int
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		seen = w.(*statusRecorder).status
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusTeapot, seen)
}
