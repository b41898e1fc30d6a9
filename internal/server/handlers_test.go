package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/docstore"
	"github.com/hyperjump/docsearch/internal/keyword"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, maxSessions int) (*Server, http.Handler) {
	t.Helper()
	store, err := docstore.New()
	require.NoError(t, err)
	idx := keyword.NewIndex(store)
	t.Cleanup(func() { _ = idx.Close() })
	logger := zap.NewNop()
	srv := NewServer(idx, store, session.NewManager(idx, maxSessions, logger), &config.ServerConfig{Port: 8080}, logger)
	return srv, srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHandleHealth(t *testing.T) {
	_, h := newTestServer(t, 0)
	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleSearch(t *testing.T) {
	srv, h := newTestServer(t, 0)
	assert.False(t, srv.index.Built())

	w := do(t, h, http.MethodGet, "/api/v1/search?q=Guide", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Guide", resp.Query)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, []models.SearchResult{{Name: "Intro", URL: "/sqlite-client/docs/"}}, resp.Results)
	assert.True(t, srv.index.Built())
}

func TestHandleSearch_emptyQuery(t *testing.T) {
	_, h := newTestServer(t, 0)
	w := do(t, h, http.MethodGet, "/api/v1/search?q=", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Results)
}

func TestHandleDropdown(t *testing.T) {
	_, h := newTestServer(t, 0)
	w := do(t, h, http.MethodGet, "/search/dropdown?q=Guide", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	body := w.Body.String()
	assert.Contains(t, body, `id="result-0"`)
	assert.Contains(t, body, `href="/sqlite-client/docs/"`)

	w = do(t, h, http.MethodGet, "/search/dropdown?q=", nil)
	assert.Equal(t, `<ul id="search-dropdown-content" class="dropdown-content show"></ul>`, w.Body.String())
}

func TestHandleListDocuments(t *testing.T) {
	_, h := newTestServer(t, 0)
	w := do(t, h, http.MethodGet, "/api/v1/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"documents":[{"title":"Intro","url":"/sqlite-client/docs/"}]}`, w.Body.String())
}

func TestHandleStatus(t *testing.T) {
	_, h := newTestServer(t, 0)
	w := do(t, h, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Documents  int  `json:"documents"`
		IndexBuilt bool `json:"index_built"`
		Sessions   int  `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, 1, out.Documents)
	assert.False(t, out.IndexBuilt)
	assert.Zero(t, out.Sessions)
}

func TestSessions_lifecycle(t *testing.T) {
	_, h := newTestServer(t, 0)

	w := do(t, h, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, "closed", snap.State)
	base := "/api/v1/sessions/" + snap.ID

	for _, a := range []session.Action{
		{Type: session.ActionClick, Target: "#search-bar"},
		{Type: session.ActionText, Text: "Guide"},
	} {
		w = do(t, h, http.MethodPost, base+"/actions", a)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
	assert.Equal(t, "open", snap.State)
	assert.Equal(t, []models.SearchResult{{Name: "Intro", URL: "/sqlite-client/docs/"}}, snap.Results)

	w = do(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_errors(t *testing.T) {
	_, h := newTestServer(t, 1)

	w := do(t, h, http.MethodGet, "/api/v1/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, http.MethodDelete, "/api/v1/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))

	w = do(t, h, http.MethodPost, "/api/v1/sessions", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	actions := "/api/v1/sessions/" + snap.ID + "/actions"
	r := httptest.NewRequest(http.MethodPost, actions, strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = do(t, h, http.MethodPost, actions, session.Action{Type: "hover"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, actions, session.Action{Type: session.ActionClick, Target: "#missing"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
