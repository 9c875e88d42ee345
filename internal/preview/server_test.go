package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OddSageID/neuroshield-site/internal/prefs"
	"github.com/OddSageID/neuroshield-site/internal/theme"
)

type fixedScheme struct{ dark bool }

func (s fixedScheme) PrefersDark() bool { return s.dark }

func newTestServer(t *testing.T, systemDark bool) (*Server, *prefs.MemoryStore) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"),
		[]byte(`<!DOCTYPE html><html lang="en"><head><title>Home</title></head><body></body></html>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "style.css"), []byte("body {}"), 0644))

	store := prefs.NewMemoryStore()
	doc := NewDocumentState("data-theme")
	control := NewControlState()

	ctrl := theme.NewController(store, fixedScheme{dark: systemDark}, doc, nil)
	ctrl.Initialize()
	ctrl.AttachControl(control)

	return New(Options{
		Root:       root,
		CSP:        "default-src 'none'",
		Controller: ctrl,
		Store:      store,
		Document:   doc,
		Control:    control,
	}), store
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServe_HTMLGetsSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t, false)
	rec := get(t, srv, "/index.html")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Permissions-Policy"))
}

func TestServe_LightSystemHasNoMarker(t *testing.T) {
	srv, _ := newTestServer(t, false)
	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "data-theme")
}

func TestServe_DarkSystemInjectsMarker(t *testing.T) {
	srv, _ := newTestServer(t, true)
	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="en" data-theme="dark">`)
}

func TestServe_NonHTMLServedAsIs(t *testing.T) {
	srv, _ := newTestServer(t, false)
	rec := get(t, srv, "/style.css")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "body {}", rec.Body.String())
}

func TestServe_TraversalRejected(t *testing.T) {
	srv, _ := newTestServer(t, false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/static", nil)
	req.URL.Path = "/../../etc/passwd"
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThemeStatus(t *testing.T) {
	srv, _ := newTestServer(t, false)
	rec := get(t, srv, "/_theme")

	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Theme    string `json:"theme"`
		Explicit bool   `json:"explicit"`
		Pressed  bool   `json:"pressed"`
		Label    string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))

	assert.Equal(t, "light", status.Theme)
	assert.False(t, status.Explicit)
	assert.False(t, status.Pressed)
	assert.Equal(t, theme.LabelSwitchToDark, status.Label)
}

func TestThemeToggle_PersistsAndFlipsMarker(t *testing.T) {
	srv, store := newTestServer(t, false)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/_theme/toggle", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	mode, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok, "toggle writes the preference store")
	assert.Equal(t, theme.ModeDark, mode)

	page := get(t, srv, "/")
	assert.Contains(t, page.Body.String(), `data-theme="dark"`)

	var status struct {
		Theme   string `json:"theme"`
		Pressed bool   `json:"pressed"`
		Label   string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "dark", status.Theme)
	assert.True(t, status.Pressed)
	assert.Equal(t, theme.LabelSwitchToLight, status.Label)
}

func TestInjectMarker(t *testing.T) {
	tests := []struct {
		name    string
		content string
		dark    bool
		want    string
	}{
		{
			name:    "dark adds attribute",
			content: `<html lang="en"><body></body></html>`,
			dark:    true,
			want:    `<html lang="en" data-theme="dark"><body></body></html>`,
		},
		{
			name:    "light removes attribute",
			content: `<html lang="en" data-theme="dark"><body></body></html>`,
			dark:    false,
			want:    `<html lang="en"><body></body></html>`,
		},
		{
			name:    "dark replaces stale value",
			content: `<html data-theme="light"><body></body></html>`,
			dark:    true,
			want:    `<html data-theme="dark"><body></body></html>`,
		},
		{
			name:    "bare html tag",
			content: `<html><body></body></html>`,
			dark:    true,
			want:    `<html data-theme="dark"><body></body></html>`,
		},
		{
			name:    "idempotent for dark",
			content: `<html data-theme="dark"><body></body></html>`,
			dark:    true,
			want:    `<html data-theme="dark"><body></body></html>`,
		},
		{
			name:    "no html tag untouched",
			content: `<p>fragment</p>`,
			dark:    true,
			want:    `<p>fragment</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InjectMarker(tt.content, "data-theme", tt.dark))
		})
	}
}
