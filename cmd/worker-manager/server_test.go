package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/common/database"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var fixedNow = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

func get(t *testing.T, mux http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	mux := newServeMux(nil, fixedNow)

	rec, body := get(t, mux, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2024-03-01T12:00:00Z", body["time"])
}

func TestReady(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })

	t.Run("all dependencies up", func(t *testing.T) {
		mux := newServeMux(map[string]database.Pinger{"postgres": ok, "redis": ok}, fixedNow)
		rec, body := get(t, mux, "/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("failing dependency", func(t *testing.T) {
		down := pingFunc(func(context.Context) error { return errors.New("redis ping failed: connection refused") })
		mux := newServeMux(map[string]database.Pinger{"postgres": ok, "redis": down}, fixedNow)

		rec, body := get(t, mux, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", body["status"])
		failed, isMap := body["failed"].(map[string]interface{})
		require.True(t, isMap)
		assert.Contains(t, failed, "redis")
		assert.NotContains(t, failed, "postgres")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := get(t, newServeMux(nil, fixedNow), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
