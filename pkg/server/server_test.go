package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/matchbench/pkg/bench"
	"github.com/matzehuels/matchbench/pkg/cache"
	errs "github.com/matzehuels/matchbench/pkg/errors"
	"github.com/matzehuels/matchbench/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s, err := New(cfg, pipeline.NewRunner(c, nil, nil), nil, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{Version: "v1.2.3"})
	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "v1.2.3", body["version"])
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestMatch(t *testing.T) {
	s := newTestServer(t, Config{})
	const body = `{"left": 6, "right": 5, "edges": 12, "seed": 7}`

	rec := do(t, s, http.MethodPost, "/v1/match", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeBody[matchResponse](t, rec)

	want, err := pipeline.Compute(t.Context(), pipeline.Options{Left: 6, Right: 5, Edges: 12, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, want.Size, first.Size)
	assert.Equal(t, want.Matching, first.Matching)
	assert.Len(t, first.Matching, 5)
	assert.False(t, first.Cached)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), first.ID)
	assert.Empty(t, first.DOT)

	rec = do(t, s, http.MethodPost, "/v1/match", body)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[matchResponse](t, rec)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Matching, second.Matching)
}

func TestMatchWithDOT(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/v1/match", `{"left": 3, "right": 3, "edges": 4, "dot": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[matchResponse](t, rec)
	assert.True(t, strings.HasPrefix(resp.DOT, "digraph"), resp.DOT)
	assert.Equal(t, resp.Size, strings.Count(resp.DOT, "color=red"))
}

func TestMatchErrors(t *testing.T) {
	s := newTestServer(t, Config{MaxEdges: 10})
	tests := []struct {
		name string
		body string
		code errs.Code
	}{
		{"empty body", "", errs.ErrCodeInvalidInput},
		{"malformed", `{"left":`, errs.ErrCodeInvalidInput},
		{"unknown field", `{"left": 2, "right": 2, "edges": 1, "colour": "red"}`, errs.ErrCodeInvalidInput},
		{"trailing data", `{"left": 2, "right": 2, "edges": 1} {}`, errs.ErrCodeInvalidInput},
		{"too many edges for graph", `{"left": 2, "right": 2, "edges": 5}`, errs.ErrCodeInvalidSampleSize},
		{"negative side", `{"left": -1, "right": 2, "edges": 0}`, errs.ErrCodeInvalidInput},
		{"over server limit", `{"left": 10, "right": 10, "edges": 11}`, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/match", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decodeBody[errorBody](t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestDOT(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/v1/dot", `{"left": 2, "right": 2, "edges": 3, "matched_only": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/vnd.graphviz", rec.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "digraph")
	assert.NotContains(t, rec.Body.String(), "arrowhead=none]")

	rec = do(t, s, http.MethodPost, "/v1/dot", `{"left": 2, "right": 2, "edges": 3, "matched_only": true}`)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestDOTInvalidFormat(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/v1/dot?format=gif", `{"left": 2, "right": 2, "edges": 3}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrCodeInvalidFormat, decodeBody[errorBody](t, rec).Code)
}

func TestBenchAndRuns(t *testing.T) {
	s := newTestServer(t, Config{Version: "test"})
	rec := do(t, s, http.MethodPost, "/v1/bench",
		`{"left": 4, "right": 4, "from": 2, "to": 6, "step": 2, "trials": 3, "seed": 9}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decodeBody[bench.Run](t, rec)
	assert.True(t, run.Complete)
	assert.Equal(t, "test", run.Version)
	require.Len(t, run.Records, 6)
	for _, r := range run.Records {
		assert.Equal(t, 16, r.N)
		assert.LessOrEqual(t, r.Size, 4)
	}

	rec = do(t, s, http.MethodGet, "/v1/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[struct {
		Runs []bench.Run `json:"runs"`
	}](t, rec)
	require.Len(t, list.Runs, 1)
	assert.Equal(t, run.ID, list.Runs[0].ID)
	assert.Empty(t, list.Runs[0].Records)

	rec = do(t, s, http.MethodGet, "/v1/runs/"+run.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[bench.Run](t, rec)
	assert.Equal(t, run.Records, got.Records)
}

func TestBenchLimits(t *testing.T) {
	s := newTestServer(t, Config{MaxEdges: 10, MaxTrials: 4})
	tests := []struct {
		name string
		body string
	}{
		{"edges over limit", `{"left": 4, "right": 4, "from": 2, "to": 14, "step": 4, "trials": 1}`},
		{"trials over limit", `{"left": 4, "right": 4, "from": 2, "to": 6, "step": 2, "trials": 3}`},
		{"invalid sweep", `{"left": 2, "right": 2, "from": 1, "to": 9, "step": 1, "trials": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/bench", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestBenchFromZero(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodPost, "/v1/bench", `{"left": 20, "right": 20, "from": 0, "trials": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decodeBody[bench.Run](t, rec)
	require.Len(t, run.Records, 10)
	assert.Equal(t, 0, run.Records[0].M)
	assert.Equal(t, 0, run.Records[0].Size)
	assert.Equal(t, 18, run.Records[9].M)

	// Leaving from out keeps the derived start.
	rec = do(t, s, http.MethodPost, "/v1/bench", `{"left": 20, "right": 20, "trials": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run = decodeBody[bench.Run](t, rec)
	require.NotEmpty(t, run.Records)
	assert.Equal(t, 2, run.Records[0].M)
}

func TestNodeLimit(t *testing.T) {
	s := newTestServer(t, Config{MaxNodes: 10})
	tests := []struct {
		name, path, body string
	}{
		{"match", "/v1/match", `{"left": 6, "right": 6, "edges": 0}`},
		{"dot", "/v1/dot", `{"left": 6, "right": 6, "edges": 0}`},
		{"bench", "/v1/bench", `{"left": 6, "right": 6, "from": 0, "to": 2, "step": 1, "trials": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, errs.ErrCodeInvalidInput, decodeBody[errorBody](t, rec).Code)
		})
	}

	rec := do(t, s, http.MethodPost, "/v1/match", `{"left": 5, "right": 5, "edges": 3}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestInvalidColor(t *testing.T) {
	s := newTestServer(t, Config{})
	const color = `"red]\n\tevil [label=\"x\""`
	tests := []struct {
		name, path, body string
	}{
		{"dot", "/v1/dot", `{"left": 2, "right": 2, "edges": 3, "color": ` + color + `}`},
		{"match with dot", "/v1/match", `{"left": 2, "right": 2, "edges": 3, "dot": true, "color": ` + color + `}`},
		{"dot with attribute list", "/v1/dot", `{"left": 2, "right": 2, "edges": 3, "color": "red,style=bold"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, errs.ErrCodeInvalidInput, decodeBody[errorBody](t, rec).Code)
			assert.NotContains(t, rec.Body.String(), "digraph")
		})
	}

	rec := do(t, s, http.MethodPost, "/v1/dot", `{"left": 2, "right": 2, "edges": 3, "color": "#00ff00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `color="#00ff00"`)
}

func TestBenchBusy(t *testing.T) {
	s := newTestServer(t, Config{MaxSweeps: 1})

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, s.sweeps.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	rec := do(t, s, http.MethodPost, "/v1/bench", `{"left": 4, "right": 4, "from": 2, "to": 4, "step": 2, "trials": 1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Equal(t, errs.ErrCodeUnavailable, decodeBody[errorBody](t, rec).Code)

	close(release)
	assert.Eventually(t, func() bool { return s.sweeps.Running() == 0 }, time.Second, 5*time.Millisecond)

	rec = do(t, s, http.MethodPost, "/v1/bench", `{"left": 4, "right": 4, "from": 2, "to": 4, "step": 2, "trials": 1}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRunsErrors(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodGet, "/v1/runs/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.ErrCodeNotFound, decodeBody[errorBody](t, rec).Code)

	rec = do(t, s, http.MethodGet, "/v1/runs?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/runs?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"runs": []}`, rec.Body.String())
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t, Config{})
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: 1})
	const body = `{"left": 2, "right": 2, "edges": 1}`

	rec := do(t, s, http.MethodPost, "/v1/match", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/match", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, errs.ErrCodeRateLimited, decodeBody[errorBody](t, rec).Code)

	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", "").Code)
}

func TestRecoverer(t *testing.T) {
	s := newTestServer(t, Config{})
	h := requestID(s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", bytes.NewReader(nil)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, errs.ErrCodeInternal, body.Code)
	assert.Equal(t, "internal error", body.Message)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeInvalidConfig, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeUnavailable, "x"), http.StatusServiceUnavailable},
		{errs.New(errs.ErrCodeRateLimited, "x"), http.StatusTooManyRequests},
		{errs.New(errs.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
