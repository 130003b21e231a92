package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/jsdoc2swagger/internal/json"
	"github.com/mark3labs/jsdoc2swagger/internal/spec"
)

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a Swagger 2.0 document from annotated source comments",
		Long: "Scan the files matched by --files under --basedir for documentation comments " +
			"and raw YAML/JSON fragments, and write the aggregated Swagger 2.0 document. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  jsdoc2swagger generate --definition base.yaml --basedir . --files 'routes/**/*.js' --out swagger.json
  jsdoc2swagger --config jsdoc2swagger.yaml generate --format yaml`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	addSourceFlags(cmd.Flags())
	cmd.Flags().String("out", "", "Output file; - writes to stdout (default -)")
	cmd.Flags().String("format", "", "Output format (json|yaml); inferred from --out when omitted")
	return cmd
}

// addSourceFlags registers the flags shared by every command that builds a
// document.
func addSourceFlags(flags *pflag.FlagSet) {
	flags.String("definition", "", "YAML or JSON file holding the base swagger definition (info, host, ...)")
	flags.String("basedir", "", "Directory the --files patterns are resolved against")
	flags.StringSlice("files", nil, "Glob patterns of files to scan; ** matches across directories")
	flags.StringSlice("exclude", nil, "Glob patterns, relative to --basedir, of files to skip")
	flags.Bool("validate", true, "Validate the generated document and log any problems")
}

func runGenerate(ctx context.Context, cfg *Config) error {
	log := newLogger(cfg.LogOutput, cfg.Verbose)
	doc, err := buildDocument(ctx, cfg, log)
	if err != nil {
		return err
	}
	data, err := encodeDocument(doc, cfg.Format)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if cfg.Out == stdoutTarget {
		_, err := os.Stdout.Write(data)
		return err
	}
	absOut, err := filepath.Abs(cfg.Out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := writeFileAtomic(absOut, data); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"out":   absOut,
		"paths": len(doc.Paths),
	}).Info("wrote swagger document")
	return nil
}

// buildDocument runs the generator and turns configuration problems into
// usage errors.
func buildDocument(ctx context.Context, cfg *Config, log logrus.FieldLogger) (*spec.Document, error) {
	definition, err := cfg.loadDefinition()
	if err != nil {
		return nil, err
	}
	doc, err := spec.Generate(ctx, spec.Options{
		RawDefinition: definition,
		Files:         cfg.Files,
		BaseDir:       cfg.BaseDir,
		Exclude:       cfg.Exclude,
		Validate:      cfg.Validate,
		Logger:        log,
	})
	if err != nil {
		var se *spec.SpecError
		if errors.As(err, &se) {
			msg := fmt.Sprintf("spec: %s", se.Message)
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			if se.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
			}
			return nil, newUsageError(msg)
		}
		return nil, err
	}
	return doc, nil
}

func encodeDocument(doc *spec.Document, format string) ([]byte, error) {
	if format == formatYAML {
		return yaml.Marshal(doc)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes via temp file + rename so readers never observe a
// partial document.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("cannot create parent directory: %v", err))
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return newUsageError(fmt.Sprintf("cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("cannot place file at %s: %v", path, err))
	}
	return nil
}
