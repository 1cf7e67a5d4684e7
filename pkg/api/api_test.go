package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/polypack/pkg/cache"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	pkgio "github.com/matzehuels/polypack/pkg/io"
	"github.com/matzehuels/polypack/pkg/observability"
	"github.com/matzehuels/polypack/pkg/pipeline"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	opts.Logger = logger
	return NewRouter(pipeline.NewRunner(fc, nil, logger), opts)
}

func do(t *testing.T, h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, Options{})
	rec := do(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "build")
}

func TestCatalogue(t *testing.T) {
	h := newTestRouter(t, Options{MaxK: 6})

	rec := do(t, h, http.MethodGet, "/v1/catalogue?max_k=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body catalogueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.MaxK)
	assert.Equal(t, []int{1, 1, 2, 5, 12}, body.Counts)
	assert.Equal(t, 21, body.Total)
	assert.False(t, body.Cached)
	require.Len(t, body.Classes, 5)
	assert.Equal(t, polyomino.Shape{{X: 0, Y: 0}, {X: 0, Y: 1}}, body.Classes[1].Shapes[0])

	rec = do(t, h, http.MethodGet, "/v1/catalogue?max_k=5&shapes=false", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = catalogueResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Cached)
	assert.Empty(t, body.Classes)
	assert.Equal(t, []int{1, 1, 2, 5, 12}, body.Counts)
}

func TestCatalogueErrors(t *testing.T) {
	h := newTestRouter(t, Options{MaxK: 6})

	tests := []struct {
		name   string
		target string
		status int
		code   perrors.Code
	}{
		{"max_k over cap", "/v1/catalogue?max_k=7", http.StatusBadRequest, perrors.ErrCodeInvalidArgument},
		{"max_k zero", "/v1/catalogue?max_k=0", http.StatusBadRequest, perrors.ErrCodeInvalidArgument},
		{"max_k not a number", "/v1/catalogue?max_k=abc", http.StatusBadRequest, perrors.ErrCodeInvalidArgument},
		{"bad include_holes", "/v1/catalogue?max_k=3&include_holes=maybe", http.StatusBadRequest, perrors.ErrCodeInvalidArgument},
		{"bad shapes", "/v1/catalogue?max_k=3&shapes=nope", http.StatusBadRequest, perrors.ErrCodeInvalidArgument},
		{"size not a number", "/v1/catalogue/x", http.StatusBadRequest, perrors.ErrCodeInvalidArgument},
		{"size zero", "/v1/catalogue/0", http.StatusNotFound, perrors.ErrCodeNotFound},
		{"size above max_k", "/v1/catalogue/5?max_k=3", http.StatusNotFound, perrors.ErrCodeNotFound},
		{"size above cap", "/v1/catalogue/9", http.StatusBadRequest, perrors.ErrCodeInvalidArgument},
		{"unknown route", "/v2/nothing", http.StatusNotFound, perrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "", nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestSizeClass(t *testing.T) {
	h := newTestRouter(t, Options{MaxK: 8})

	tests := []struct {
		target string
		count  int
	}{
		{"/v1/catalogue/3", 2},
		{"/v1/catalogue/4?max_k=6", 5},
		{"/v1/catalogue/7", 107},
		{"/v1/catalogue/7?include_holes=true", 108},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var body classBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.count, body.Count)
			assert.Len(t, body.Shapes, tt.count)
		})
	}
}

func TestCases(t *testing.T) {
	h := newTestRouter(t, Options{MaxK: 6})
	req := `{"seed": 7, "max_k": 5, "min_exp": 1, "max_exp": 2}`

	rec := do(t, h, http.MethodPost, "/v1/cases", req, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var first caseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, uint64(7), first.Seed)
	assert.False(t, first.Cached)
	assert.Equal(t, 5, first.KUse)
	assert.Equal(t, 21, first.PoolSize)
	assert.GreaterOrEqual(t, first.Cells, first.Target)
	assert.NotEmpty(t, first.Shapes)

	rec = do(t, h, http.MethodPost, "/v1/cases", req, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var second caseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Case, second.Case)

	rec = do(t, h, http.MethodPost, "/v1/cases", req, map[string]string{"Accept": "text/plain"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	shapes, err := pkgio.ReadCase(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, first.Shapes, shapes)
}

func TestCasesDefaults(t *testing.T) {
	h := newTestRouter(t, Options{MaxK: 4})

	rec := do(t, h, http.MethodPost, "/v1/cases", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body caseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.KUse)
	assert.Equal(t, 9, body.PoolSize)
	assert.GreaterOrEqual(t, body.Target, 100)
}

func TestCasesErrors(t *testing.T) {
	h := newTestRouter(t, Options{MaxK: 6})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"seed":`},
		{"unknown field", `{"seed": 1, "colour": "red"}`},
		{"max_k over cap", `{"max_k": 7}`},
		{"negative max_k", `{"max_k": -1}`},
		{"empty pick range", `{"max_k": 3, "min_pick": 5, "max_pick": 4}`},
		{"exp above limit", `{"max_k": 3, "max_exp": 9}`},
		{"negative min_exp", `{"max_k": 3, "min_exp": -1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/cases", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, perrors.ErrCodeInvalidArgument, decodeError(t, rec).Error.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodGet, "/healthz", "", nil)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	rec = do(t, h, http.MethodGet, "/healthz", "", map[string]string{RequestIDHeader: id})
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	rec = do(t, h, http.MethodGet, "/healthz", "", map[string]string{RequestIDHeader: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

type httpRecorder struct {
	mu        sync.Mutex
	requests  []string
	responses []int
}

func (r *httpRecorder) OnRequest(_ context.Context, method, route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, method+" "+route)
}

func (r *httpRecorder) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	h := newTestRouter(t, Options{MaxK: 4})
	do(t, h, http.MethodGet, "/v1/catalogue/3", "", nil)
	do(t, h, http.MethodGet, "/v1/catalogue/9", "", nil)

	assert.Equal(t, []string{"GET /v1/catalogue/{size}", "GET /v1/catalogue/{size}"}, rec.requests)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, rec.responses)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code perrors.Code
		want int
	}{
		{perrors.ErrCodeInvalidArgument, http.StatusBadRequest},
		{perrors.ErrCodeNotFound, http.StatusNotFound},
		{perrors.ErrCodeResourceExhausted, http.StatusUnprocessableEntity},
		{perrors.ErrCodeEmptyPool, http.StatusUnprocessableEntity},
		{perrors.ErrCodeCancelled, http.StatusServiceUnavailable},
		{perrors.ErrCodeIO, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestResourceExhausted(t *testing.T) {
	h := newTestRouter(t, Options{MaxK: 8, MaxShapes: 20})

	rec := do(t, h, http.MethodGet, "/v1/catalogue?max_k=6", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, perrors.ErrCodeResourceExhausted, decodeError(t, rec).Error.Code)
}

func TestListenAndServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler(), log.New(io.Discard))
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
