package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sitefinder/pkg/buildinfo"
	"github.com/matzehuels/sitefinder/pkg/errors"
	"github.com/matzehuels/sitefinder/pkg/observability"
	"github.com/matzehuels/sitefinder/pkg/observability/prometheus"
	"github.com/matzehuels/sitefinder/pkg/pipeline"
	"github.com/matzehuels/sitefinder/pkg/store"
)

func twoClusterRows() [][]int {
	rows := make([][]int, 10)
	for i := range rows {
		rows[i] = make([]int, 10)
	}
	for _, p := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}} {
		rows[p[0]][p[1]] = 9
	}
	for _, p := range [][2]int{{6, 6}, {6, 7}, {7, 6}, {7, 7}} {
		rows[p[0]][p[1]] = 5
	}
	return rows
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{
		Runner:   pipeline.NewRunner(nil, nil, store.NewMemoryStore(), nil),
		Defaults: pipeline.Options{TargetSize: 20, Count: 4, SeedPool: 100, Workers: 1},
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+buildinfo.Version+`"}`, rec.Body.String())
}

func TestSearch(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/search", SearchRequest{
		Matrix:  twoClusterRows(),
		Options: pipeline.Options{TargetSize: 4, Count: 2},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[SearchResponse](t, rec)
	require.NotNil(t, resp.Document)
	require.Len(t, resp.Sites, 2)
	assert.Equal(t, 36, resp.Sites[0].TotalScore)
	assert.Equal(t, 20, resp.Sites[1].TotalScore)
	assert.Equal(t, 4, resp.TargetSize)
	assert.NotEmpty(t, resp.RunID)
	assert.Len(t, resp.MatrixHash, 64)
	assert.False(t, resp.CacheHit)
	assert.Equal(t, 2, resp.Stats.RegionsReturned)

	// The run is retrievable.
	rec = do(t, h, http.MethodGet, "/api/v1/results/"+resp.RunID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[store.Record](t, rec)
	assert.Equal(t, resp.RunID, got.ID)
	assert.Equal(t, resp.MatrixHash, got.MatrixHash)
	assert.Equal(t, 4, got.Options.TargetSize)
}

func TestSearchDefaults(t *testing.T) {
	rows := [][]int{{1, 2, 3}}
	rec := do(t, newTestServer(t).Handler(), http.MethodPost, "/api/v1/search", SearchRequest{Matrix: rows})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[SearchResponse](t, rec)
	assert.Equal(t, 20, resp.TargetSize)
	assert.Equal(t, 4, resp.Count)
}

func TestSearchEmptyResult(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodPost, "/api/v1/search",
		`{"matrix": [[0, -1], [-1, 0]], "options": {"target_size": 2, "count": 1}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.JSONEq(t, `[]`, string(raw["sites"]))
}

func TestSearchTargetLargerThanMatrix(t *testing.T) {
	h := newTestServer(t).Handler()
	for _, workers := range []int{1, 4} {
		body := fmt.Sprintf(`{"matrix": [[5, 5, 5], [5, 5, 5], [5, 5, 5]], "options": {"target_size": %d, "count": 1, "workers": %d}}`,
			1<<62, workers)
		rec := do(t, h, http.MethodPost, "/api/v1/search", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.JSONEq(t, `[]`, string(raw["sites"]))
	}
}

func TestSearchInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed json", `{"matrix": [[1, 2]`, errors.ErrCodeInvalidInput},
		{"unknown field", `{"matrix": [[1]], "zone": {}}`, errors.ErrCodeInvalidInput},
		{"no matrix", `{}`, errors.ErrCodeInvalidMatrix},
		{"ragged", `{"matrix": [[1, 2], [3]]}`, errors.ErrCodeInvalidMatrix},
		{"bad target", `{"matrix": [[1]], "options": {"target_size": -1}}`, errors.ErrCodeInvalidTargetSize},
		{"bad count", `{"matrix": [[1]], "options": {"count": -2}}`, errors.ErrCodeInvalidCount},
	}
	h := newTestServer(t).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/search", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestResults(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results": []}`, rec.Body.String())

	for range 3 {
		rec := do(t, h, http.MethodPost, "/api/v1/search", SearchRequest{
			Matrix:  twoClusterRows(),
			Options: pipeline.Options{TargetSize: 4, Count: 1},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/results?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Results []store.Record `json:"results"`
	}](t, rec)
	assert.Len(t, list.Results, 2)

	rec = do(t, h, http.MethodGet, "/api/v1/results?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultNotFound(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodGet, "/api/v1/results/"+store.NewID(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, errors.ErrCodeNotFound, resp.Code)
}

type brokenStore struct{ store.MemoryStore }

func (*brokenStore) List(context.Context, int) ([]store.Record, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestInternalErrorMasked(t *testing.T) {
	s := New(Config{Runner: pipeline.NewRunner(nil, nil, &brokenStore{}, nil)})
	rec := do(t, s.Handler(), http.MethodGet, "/api/v1/results", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, errors.ErrCodeInternal, resp.Code)
	assert.NotContains(t, resp.Error, "EOF")
}

func TestMetricsRoute(t *testing.T) {
	m := prometheus.New()
	m.Register()
	t.Cleanup(observability.Reset)

	s := New(Config{
		Runner:  pipeline.NewRunner(nil, nil, nil, nil),
		Metrics: m.Handler(),
	})
	h := s.Handler()

	do(t, h, http.MethodGet, "/api/v1/results/"+store.NewID(), nil)
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `sitefinder_http_requests_total{method="GET",route="/api/v1/results/{id}",status="404"} 1`)
	assert.Contains(t, body, `sitefinder_http_request_errors_total{method="GET",route="/api/v1/results/{id}"} 1`)
}

func TestNoMetricsRoute(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
