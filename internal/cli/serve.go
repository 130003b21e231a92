package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mark3labs/jsdoc2swagger/internal/server"
)

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated document together with Swagger UI",
		Long: "Build the Swagger 2.0 document once, then serve it as JSON and YAML " +
			"next to a Swagger UI page until interrupted.",
		Example: strings.TrimSpace(`  jsdoc2swagger serve --definition base.yaml --basedir . --files 'routes/**/*.js'
  jsdoc2swagger serve -c jsdoc2swagger.yaml --listen 127.0.0.1:8080 --url /docs --docs /docs.json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return serveRunner(cmd.Context(), cfg)
		},
	}

	addSourceFlags(cmd.Flags())
	cmd.Flags().String("listen", defaultListen, "Address to listen on")
	cmd.Flags().String("url", server.DefaultUIPath, "Route serving the Swagger UI page")
	cmd.Flags().String("docs", server.DefaultDocsPath, "Route serving the JSON document")
	cmd.Flags().StringSlice("cors", nil, "Origins allowed to fetch the document cross-origin")
	return cmd
}

func runServe(ctx context.Context, cfg *Config) error {
	log := newLogger(cfg.LogOutput, cfg.Verbose)
	doc, err := buildDocument(ctx, cfg, log)
	if err != nil {
		return err
	}
	handler, err := server.NewRouter(doc, server.Config{
		DocsPath:       cfg.RouteDocs,
		UIPath:         cfg.RouteURL,
		AllowedOrigins: cfg.CORS,
	})
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.WithFields(logrus.Fields{
		"ui":   cfg.RouteURL,
		"docs": cfg.RouteDocs,
	}).Debug("routes registered")
	return server.ListenAndServe(ctx, cfg.Listen, handler, log)
}
