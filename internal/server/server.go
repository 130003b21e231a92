// Package server exposes a generated document over HTTP: the JSON document,
// a YAML rendition of it and an interactive Swagger UI page.
package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/jsdoc2swagger/internal/json"
	"github.com/mark3labs/jsdoc2swagger/internal/spec"
)

const (
	DefaultUIPath   = "/api-docs"
	DefaultDocsPath = "/api-docs.json"
)

// Config configures the routes registered by NewRouter.
type Config struct {
	// DocsPath serves the JSON document (default "/api-docs.json"). The YAML
	// rendition is served next to it with a ".yaml" extension.
	DocsPath string
	// UIPath serves the Swagger UI page (default "/api-docs").
	UIPath string
	// Title overrides the page title (default: info.title).
	Title string
	// AllowedOrigins enables CORS for the listed origins. Empty disables it.
	AllowedOrigins []string
}

func (c Config) docsPath() string {
	if c.DocsPath == "" {
		return DefaultDocsPath
	}
	return ensureLeadingSlash(c.DocsPath)
}

func (c Config) uiPath() string {
	if c.UIPath == "" {
		return DefaultUIPath
	}
	return ensureLeadingSlash(strings.TrimRight(c.UIPath, "/"))
}

// YAMLPath returns where the YAML rendition of a JSON docs path is served.
func YAMLPath(docsPath string) string {
	return strings.TrimSuffix(docsPath, ".json") + ".yaml"
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// NewRouter returns a handler serving doc. Both encodings are produced up
// front, so a document that cannot be encoded fails here rather than per
// request.
func NewRouter(doc *spec.Document, cfg Config) (http.Handler, error) {
	if doc == nil {
		return nil, errors.New("server: document is nil")
	}
	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document as JSON: %w", err)
	}
	yamlData, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document as YAML: %w", err)
	}

	docsPath := cfg.docsPath()
	uiPath := cfg.uiPath()
	title := cfg.Title
	if title == "" && doc.Info != nil {
		title = doc.Info.Title
	}
	if title == "" {
		title = "API documentation"
	}
	page := []byte(swaggerUITemplate(title, docsPath))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			MaxAge:         300,
		}))
	}

	r.Get(docsPath, serveBytes("application/json", jsonData))
	if yamlPath := YAMLPath(docsPath); yamlPath != docsPath {
		r.Get(yamlPath, serveBytes("application/x-yaml", yamlData))
	}
	ui := serveBytes("text/html; charset=utf-8", page)
	r.Get(uiPath, ui)
	if uiPath != "/" {
		r.Get(uiPath+"/", ui)
	}
	return r, nil
}

func serveBytes(contentType string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func swaggerUITemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"});
</script>
</body>
</html>`, html.EscapeString(title), specPath)
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// the server down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("serving API documentation")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
