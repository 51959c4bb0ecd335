package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-assistant/internal/agents"
	"legal-assistant/internal/models"
)

type fakeQueryAgent struct {
	rc  *agents.RetrievalContext
	err error
}

func (f *fakeQueryAgent) Process(ctx context.Context, query string) (*agents.RetrievalContext, error) {
	return f.rc, f.err
}

type fakeSummaryAgent struct {
	resp models.LegalResponse
	err  error
}

func (f *fakeSummaryAgent) Summarize(ctx context.Context, query string, rc *agents.RetrievalContext) (models.LegalResponse, error) {
	return f.resp, f.err
}

func workingServer() *Server {
	resp := models.EmptyLegalResponse()
	resp.SimpleExplanation = "You file a plaint in the civil court."
	resp.KeyPoints = []string{"File in the right court"}
	resp.Sources = []models.Source{{Text: "passage", Document: "cpc.pdf", Relevance: "similarity 0.90"}}

	return New(
		&fakeQueryAgent{rc: &agents.RetrievalContext{IsLegal: true}},
		&fakeSummaryAgent{resp: resp},
	)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestRootEndpoint(t *testing.T) {
	rec := doRequest(t, workingServer(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got["status"])
}

func TestHealthBothAgentsUp(t *testing.T) {
	rec := doRequest(t, workingServer(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got.Status)
	assert.True(t, got.Agents["query_agent"])
	assert.True(t, got.Agents["summary_agent"])
}

func TestHealthReportsFailedAgent(t *testing.T) {
	srv := New(nil, &fakeSummaryAgent{})

	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var got healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "unhealthy", got.Status)
	assert.False(t, got.Agents["query_agent"])
	assert.True(t, got.Agents["summary_agent"])
}

func TestProcessQuerySuccessHasAllKeys(t *testing.T) {
	rec := doRequest(t, workingServer(), http.MethodPost, "/process-query",
		`{"query": "How do I file a lawsuit?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.JSONEq(t, `"success"`, string(got["status"]))

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(got["data"], &data))
	for _, key := range []string{
		"simple_explanation", "key_points", "important_terms",
		"warnings_and_deadlines", "step_by_step_guide", "sources",
	} {
		assert.Contains(t, data, key)
	}
}

func TestProcessQueryEmptyQuery(t *testing.T) {
	rec := doRequest(t, workingServer(), http.MethodPost, "/process-query", `{"query": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "error", env.Status)
}

func TestProcessQueryInvalidBody(t *testing.T) {
	rec := doRequest(t, workingServer(), http.MethodPost, "/process-query", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessQueryMethodNotAllowed(t *testing.T) {
	rec := doRequest(t, workingServer(), http.MethodGet, "/process-query", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestProcessQueryRetrievalError(t *testing.T) {
	srv := New(
		&fakeQueryAgent{err: agents.ErrEmptyIndex},
		&fakeSummaryAgent{},
	)

	rec := doRequest(t, srv, http.MethodPost, "/process-query", `{"query": "What is bail?"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// failure envelope still carries the full empty schema
	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.JSONEq(t, `"error"`, string(got["status"]))

	var data models.LegalResponse
	require.NoError(t, json.Unmarshal(got["data"], &data))
	assert.Empty(t, data.SimpleExplanation)
	assert.NotNil(t, data.KeyPoints)
	assert.Empty(t, data.KeyPoints)
}

func TestProcessQuerySummaryError(t *testing.T) {
	srv := New(
		&fakeQueryAgent{rc: &agents.RetrievalContext{}},
		&fakeSummaryAgent{err: errors.New("model unavailable")},
	)

	rec := doRequest(t, srv, http.MethodPost, "/process-query", `{"query": "What is bail?"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProcessQueryAgentsNotReady(t *testing.T) {
	srv := New(nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/process-query", `{"query": "What is bail?"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
