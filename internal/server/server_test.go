package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/entigraph/pkg/engine"
	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/extract"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/graph/graphtest"
	"github.com/matzehuels/entigraph/pkg/observability/prom"
	"github.com/matzehuels/entigraph/pkg/session"
)

type testEnv struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestEnv(t *testing.T, ex extract.Extractor) *testEnv {
	t.Helper()
	reg := session.NewRegistry(session.Options{
		NewEngine: func() *engine.Engine { return engine.New(engine.Options{Extractor: ex}) },
	})
	s := New(Options{Sessions: reg, Metrics: prom.NewRegistry()})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{t: t, srv: srv}
}

func sampleExtractor() extract.Extractor {
	return extract.Func(func(ctx context.Context, text string) (*graph.Response, error) {
		if text == "nothing here" {
			return &graph.Response{Entities: map[string][]string{}, Graph: &graph.Raw{Nodes: []string{}}}, nil
		}
		return graphtest.SampleResponse(), nil
	})
}

func (e *testEnv) do(method, path string, body any) (*http.Response, []byte) {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, data
}

func (e *testEnv) session() string {
	e.t.Helper()
	resp, body := e.do(http.MethodPost, "/api/sessions", nil)
	require.Equal(e.t, http.StatusCreated, resp.StatusCode)
	var out sessionResponse
	require.NoError(e.t, json.Unmarshal(body, &out))
	require.NotEmpty(e.t, out.ID)
	return out.ID
}

func errorCode(t *testing.T, body []byte) errors.Code {
	t.Helper()
	var out errorBody
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out.Error.Code
}

type viewBody struct {
	Empty bool `json:"empty"`
	Frame struct {
		Points []struct {
			ID    string `json:"id"`
			Color string `json:"color"`
			Text  string `json:"text"`
		} `json:"points"`
		EdgeLines []struct {
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"edgeLines"`
		Focal string `json:"focal"`
	} `json:"frame"`
	Tree []struct {
		Type    string `json:"type"`
		Checked bool   `json:"checked"`
	} `json:"tree"`
	Entities []graph.EntityGroup `json:"entities"`
}

func TestHealthAndLegend(t *testing.T) {
	env := newTestEnv(t, sampleExtractor())

	resp, body := env.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	resp, body = env.do(http.MethodGet, "/api/legend", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var legend legendResponse
	require.NoError(t, json.Unmarshal(body, &legend))
	assert.Len(t, legend.Legend, 5)
	assert.NotEmpty(t, legend.Caption)
}

func TestExtractAndEvents(t *testing.T) {
	env := newTestEnv(t, sampleExtractor())
	id := env.session()
	base := "/api/sessions/" + id

	resp, body := env.do(http.MethodPost, base+"/extract", extractRequest{Text: "Elon Musk founded SpaceX."})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var view viewBody
	require.NoError(t, json.Unmarshal(body, &view))
	assert.False(t, view.Empty)
	assert.Len(t, view.Frame.Points, 4)
	assert.Len(t, view.Frame.EdgeLines, 3)
	assert.Len(t, view.Tree, 3)
	assert.Len(t, view.Entities, 3)

	resp, body = env.do(http.MethodPost, base+"/events", engine.NodeToggle("California", false))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &view))
	require.Len(t, view.Frame.EdgeLines, 2)
	for _, l := range view.Frame.EdgeLines {
		assert.NotEqual(t, "California", l.Target)
	}
	assert.Equal(t, "rgba(0,0,0,0)", view.Frame.Points[3].Color)
	assert.Empty(t, view.Frame.Points[3].Text)

	resp, body = env.do(http.MethodPost, base+"/events", engine.ClickAt(engine.TraceNode, 0))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, "Elon Musk", view.Frame.Focal)

	resp, body = env.do(http.MethodPost, base+"/events", engine.Button(engine.KindDoubleClick))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Empty(t, view.Frame.Focal)

	resp, body = env.do(http.MethodGet, base+"/tree", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"id":"California","checked":false`)

	resp, body = env.do(http.MethodGet, base+"/entities", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), `[{"type":"PERSON"`), string(body))
}

func TestEmptyExtraction(t *testing.T) {
	env := newTestEnv(t, sampleExtractor())
	base := "/api/sessions/" + env.session()

	resp, body := env.do(http.MethodPost, base+"/extract", extractRequest{Text: "nothing here"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var view viewBody
	require.NoError(t, json.Unmarshal(body, &view))
	assert.True(t, view.Empty)
	assert.Empty(t, view.Frame.Points)

	resp, body = env.do(http.MethodGet, base+"/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st engine.Status
	require.NoError(t, json.Unmarshal(body, &st))
	assert.False(t, st.HasGraph)
	assert.Empty(t, st.LastError)

	resp, body = env.do(http.MethodPost, base+"/events", engine.Button(engine.KindShowAll))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeNoGraph, errorCode(t, body))
}

func TestExtractionFailure(t *testing.T) {
	ex := extract.Func(func(ctx context.Context, text string) (*graph.Response, error) {
		return nil, errors.New(errors.ErrCodeNetwork, "connection refused")
	})
	env := newTestEnv(t, ex)
	base := "/api/sessions/" + env.session()

	resp, body := env.do(http.MethodPost, base+"/extract", extractRequest{Text: "some text"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var out errorBody
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, errors.ErrCodeExtraction, out.Error.Code)
	assert.Equal(t, errors.ExtractionFailedMessage, out.Error.Message)

	_, body = env.do(http.MethodGet, base+"/status", nil)
	assert.Contains(t, string(body), errors.ExtractionFailedMessage)
}

func TestRequestErrors(t *testing.T) {
	env := newTestEnv(t, sampleExtractor())
	base := "/api/sessions/" + env.session()
	env.do(http.MethodPost, base+"/extract", extractRequest{Text: "Elon Musk"})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   errors.Code
	}{
		{"blank text", http.MethodPost, base + "/extract", extractRequest{Text: "  "}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing kind", http.MethodPost, base + "/events", map[string]any{"node": "Tesla"}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, base + "/events", map[string]any{"kind": "show_all", "zoom": 2}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown kind", http.MethodPost, base + "/events", engine.Event{Kind: "zoom"}, http.StatusBadRequest, errors.ErrCodeInvalidEvent},
		{"unknown node", http.MethodPost, base + "/events", engine.NodeToggle("Mars", true), http.StatusBadRequest, errors.ErrCodeUnknownNode},
		{"bad format", http.MethodGet, base + "/frame?format=gif", nil, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown session", http.MethodGet, "/api/sessions/6f1c1c9e-4e8e-4a8e-9a36-2b0c9d8f1e11/status", nil, http.StatusNotFound, errors.ErrCodeSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			assert.Equal(t, tt.code, errorCode(t, body))
		})
	}
}

func TestFrameFormats(t *testing.T) {
	env := newTestEnv(t, sampleExtractor())
	base := "/api/sessions/" + env.session()
	env.do(http.MethodPost, base+"/extract", extractRequest{Text: "Elon Musk"})

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"", "application/json", `"points"`},
		{"json", "application/json", `"edgeLines"`},
		{"plotly", "application/json", `"Relationships"`},
		{"dot", "text/vnd.graphviz", "graph G {"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, body := env.do(http.MethodGet, base+"/frame?format="+tt.format, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			assert.Contains(t, string(body), tt.contains)
		})
	}
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t, sampleExtractor())
	id := env.session()

	resp, _ := env.do(http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(http.MethodGet, "/api/sessions/"+id+"/status", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, sampleExtractor())
	env.do(http.MethodGet, "/healthz", nil)

	resp, body := env.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "entigraph_http_requests_total")
}
