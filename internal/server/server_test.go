package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/jsdoc2swagger/internal/json"
	"github.com/mark3labs/jsdoc2swagger/internal/spec"
)

func testDocument() *spec.Document {
	doc := spec.NewDocument(&spec.Document{Info: &spec.Info{Title: "Pet <Store>", Version: "1.0.0"}})
	doc.Paths["/pets"] = spec.PathItem{"get": {
		Tags:      []string{"default"},
		Responses: map[string]*spec.Response{"200": {Description: "OK"}},
	}}
	return doc
}

func serveRequest(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	h, err := NewRouter(testDocument(), Config{})
	require.NoError(t, err)

	t.Run("JSON document at the docs path", func(t *testing.T) {
		w := serveRequest(h, http.MethodGet, "/api-docs.json")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "2.0", got["swagger"])
		assert.Contains(t, got["paths"], "/pets")
	})

	t.Run("YAML twin", func(t *testing.T) {
		w := serveRequest(h, http.MethodGet, "/api-docs.yaml")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/x-yaml", w.Header().Get("Content-Type"))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "2.0", got["swagger"])
	})

	t.Run("UI page references the docs path", func(t *testing.T) {
		for _, path := range []string{"/api-docs", "/api-docs/"} {
			w := serveRequest(h, http.MethodGet, path)
			assert.Equal(t, http.StatusOK, w.Code, path)
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
			body := w.Body.String()
			assert.Contains(t, body, `url: "/api-docs.json"`)
			assert.Contains(t, body, "<title>Pet &lt;Store&gt;</title>")
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		w := serveRequest(h, http.MethodGet, "/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewRouter_CustomPaths(t *testing.T) {
	h, err := NewRouter(testDocument(), Config{DocsPath: "docs/swagger.json", UIPath: "/docs/", Title: "Custom"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serveRequest(h, http.MethodGet, "/docs/swagger.json").Code)
	assert.Equal(t, http.StatusOK, serveRequest(h, http.MethodGet, "/docs/swagger.yaml").Code)
	w := serveRequest(h, http.MethodGet, "/docs")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Custom</title>")
}

func TestNewRouter_CORS(t *testing.T) {
	h, err := NewRouter(testDocument(), Config{AllowedOrigins: []string{"https://editor.swagger.io"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api-docs.json", nil)
	req.Header.Set("Origin", "https://editor.swagger.io")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://editor.swagger.io", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api-docs.json", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_NilDocument(t *testing.T) {
	_, err := NewRouter(nil, Config{})
	require.Error(t, err)
}

func TestYAMLPath(t *testing.T) {
	assert.Equal(t, "/api-docs.yaml", YAMLPath("/api-docs.json"))
	assert.Equal(t, "/spec.yaml", YAMLPath("/spec"))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	log := logrus.New()
	log.SetOutput(io.Discard)

	done := make(chan error, 1)
	go func() { done <- ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler(), log) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
