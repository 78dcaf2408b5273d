package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantBody   string
	}{
		{name: "NoDatabase", db: nil, wantStatus: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "DatabaseUp", db: pingFunc(func(context.Context) error { return nil }), wantStatus: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "DatabaseDown", db: pingFunc(func(context.Context) error { return errors.New("refused") }), wantStatus: http.StatusServiceUnavailable, wantBody: `{"status":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, testLogger)
			rec := httptest.NewRecorder()

			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
