package searchvisacatalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/catalog"
	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
)

func newSearchServer(t *testing.T, status int, body string, delay time.Duration) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client
}

func newTestHandler(t *testing.T, client *elasticsearch.Client) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		Searcher: catalog.NewSearcher(client, "visa-catalog"),
		Logger:   logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func TestNewHandler_RequiresSearcher(t *testing.T) {
	_, err := NewHandler(HandlerOptions{})
	assert.ErrorContains(t, err, "requires a catalog searcher")
}

func TestExecute_Success(t *testing.T) {
	client := newSearchServer(t, http.StatusOK, `{
		"took": 2,
		"hits": {
			"total": {"value": 1},
			"max_score": 2.5,
			"hits": [{"_id": "f1", "_score": 2.5, "_source": {"id": "f1", "code": "F-1", "name": "Academic Student", "category": "student", "tier": "entry", "difficulty": 1}}]
		}
	}`, 0)
	h := newTestHandler(t, client)

	out, err := h.Execute(context.Background(), &Input{Query: "student", Categories: []string{"student"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.TotalHits)
	require.Len(t, out.Visas, 1)
	assert.Equal(t, "F-1", out.Visas[0].Code)
	assert.Equal(t, 2.5, out.MaxScore)
}

func TestExecute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.ErrorCode
	}{
		{"missing index", http.StatusNotFound, `{"error":{"type":"index_not_found_exception"},"status":404}`, errors.ErrCodeIndexNotFound},
		{"bad request", http.StatusBadRequest, `{"error":{"type":"parsing_exception"},"status":400}`, errors.ErrCodeCatalogSearchFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, newSearchServer(t, tt.status, tt.body, 0))
			_, err := h.Execute(context.Background(), &Input{})
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, stdErr.Code)
		})
	}
}

func TestExecute_Timeout(t *testing.T) {
	h := newTestHandler(t, newSearchServer(t, http.StatusOK, `{}`, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{Query: "slow"})
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSearchTimeout, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
