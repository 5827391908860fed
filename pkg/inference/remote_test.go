package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

var testCtx = context.Background()

func TestRemoteBackendInfer(t *testing.T) {
	var gotIDs []int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logits", r.URL.Path)
		var req inferRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotIDs = req.InputIDs

		resp := inferResponse{
			Logits: [][]float32{{9, 0}, {0, 9}, {9, 0}},
			Real:   []bool{false, true, false},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer ts.Close()

	backend := NewRemoteBackend(ts.URL, 5*time.Second)
	scores, real, err := backend.Infer(testCtx, []int64{42})
	assert.NoError(t, err)
	assert.Equal(t, []int64{42}, gotIDs)
	assert.Len(t, scores, 3)
	assert.Equal(t, []bool{false, true, false}, real)
}

func TestRemoteBackendInferServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	}))
	defer ts.Close()

	backend := NewRemoteBackend(ts.URL, 5*time.Second)
	_, _, err := backend.Infer(testCtx, []int64{1})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrBackendUnavailable)
}

func TestRemoteBackendInferUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	backend := NewRemoteBackend(ts.URL, time.Second)
	backend.client.RetryMax = 0

	_, _, err := backend.Infer(testCtx, []int64{1})
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)
}

func TestRemoteBackendPing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	backend := NewRemoteBackend(ts.URL, 5*time.Second)
	assert.NoError(t, backend.Ping(testCtx))

	ts.Close()
	backend.client.RetryMax = 0
	assert.ErrorIs(t, backend.Ping(testCtx), models.ErrBackendUnavailable)
}
