package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/internal/state"
	"github.com/unyt-org/datex-go/internal/testutil"
	"github.com/unyt-org/datex-go/pkg/compiler"
	"github.com/unyt-org/datex-go/pkg/token"
)

func newTestServer(t *testing.T, store state.Store) *httptest.Server {
	t.Helper()
	srv := New(Config{Store: store, Logger: testutil.NewTestLogger(t)})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := get(t, ts, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestCheck(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		source string
		ok     bool
		kind   string
	}{
		{name: "valid", source: "var a = 1; a + 2", ok: true},
		{name: "undeclared", source: "b + 1", ok: false, kind: "UndeclaredVariable"},
		{name: "syntax", source: "var = 1", ok: false, kind: compiler.KindSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(SourceRequest{Source: tt.source})
			require.NoError(t, err)

			resp := postJSON(t, ts, "/api/check", string(body))
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var res CheckResponse
			decode(t, resp, &res)
			assert.Equal(t, tt.ok, res.OK)
			if tt.ok {
				assert.Empty(t, res.Diagnostics)
				return
			}
			require.NotEmpty(t, res.Diagnostics)
			assert.Equal(t, tt.kind, res.Diagnostics[0].Kind)
			assert.Equal(t, 1, res.Diagnostics[0].Line)
		})
	}
}

func TestCheckRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts, "/api/check", "{")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts, "/api/check", `{"source": "1", "extra": true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	plain, err := http.Post(ts.URL+"/api/check", "text/plain", strings.NewReader("1"))
	require.NoError(t, err)
	defer func() { _ = plain.Body.Close() }()
	assert.Equal(t, http.StatusUnsupportedMediaType, plain.StatusCode)
}

func TestInfer(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts, "/api/infer", `{"source": "var x: integer = 1;\nx"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res output.InferOutput
	decode(t, resp, &res)
	assert.NotEmpty(t, res.Type)
	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Variables, 1)
	assert.Equal(t, "x", res.Variables[0].Name)
	assert.Equal(t, "Var", res.Variables[0].Shape)
	assert.Equal(t, 1, res.Variables[0].Line)
}

func TestRunsDisabled(t *testing.T) {
	ts := newTestServer(t, nil)

	assert.Equal(t, http.StatusNotFound, get(t, ts, "/api/runs").StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, ts, "/api/runs/abc").StatusCode)
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	run, err := store.CreateRun(ctx)
	require.NoError(t, err)
	diags := []compiler.Diagnostic{{Span: token.Span{Start: 0, End: 1}, Kind: "UndeclaredVariable", Message: "Use of undeclared variable: b"}}
	require.NoError(t, store.RecordDiagnostics(ctx, run.ID, "main.dx", diags))
	require.NoError(t, store.CompleteRun(ctx, run.ID, 1, 1))

	ts := newTestServer(t, store)

	resp := get(t, ts, "/api/runs")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var runs []output.RunInfo
	decode(t, resp, &runs)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 1, runs[0].Errors)
	assert.NotNil(t, runs[0].CompletedAt)

	resp = get(t, ts, "/api/runs/"+run.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail RunResponse
	decode(t, resp, &detail)
	assert.Equal(t, run.ID, detail.Run.ID)
	require.Len(t, detail.Diagnostics, 1)
	assert.Equal(t, "main.dx", detail.Diagnostics[0].Path)
	assert.Equal(t, "UndeclaredVariable", detail.Diagnostics[0].Kind)

	assert.Equal(t, http.StatusNotFound, get(t, ts, "/api/runs/missing").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, ts, "/api/runs?limit=zero").StatusCode)
}

func TestServeListenerShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(Config{Logger: testutil.NewTestLogger(t)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	url := fmt.Sprintf("http://%s/healthz", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
