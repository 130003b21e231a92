package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "jsdoc2swagger.yaml"

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample jsdoc2swagger configuration file",
		Long:  "Scaffold a commented jsdoc2swagger configuration file that documents available options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return initRunner(cmd.Context(), &InitConfig{OutputPath: out, Force: force})
		},
	}

	cmd.Flags().String("out", defaultConfigFile, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")
	return cmd
}

func runInit(_ context.Context, cfg *InitConfig) error {
	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = defaultConfigFile
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force && st.Mode().IsRegular() {
		return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
	}

	if err := writeFileAtomic(absPath, []byte(strings.TrimSpace(sampleConfigYAML)+"\n")); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# jsdoc2swagger configuration (YAML)
# Command-line flags override config values. Relative paths are resolved
# against the directory holding this file.

# Base swagger definition, inline. Use either this or definition.
swaggerDefinition:
  info:
    title: My API
    version: 1.0.0
  host: localhost:3000
  basePath: /
  produces: [application/json]
  schemes: [http]

# File holding the base definition instead of swaggerDefinition.
# definition: ./swagger-base.yaml

# Directory the file patterns are resolved against.
basedir: .

# Glob patterns of files to scan (** matches across directories).
files:
  - ./routes/**/*.js

# Patterns, relative to basedir, of files to skip.
# exclude: [node_modules/**]

# Validate the generated document and log any problems.
# validate: true

# Output file for generate; - writes to stdout.
# out: swagger.json

# Output format (json|yaml); inferred from out when omitted.
# format: json

# Routes used by serve.
# route:
#   url: /api-docs
#   docs: /api-docs.json

# Address serve listens on.
# listen: :3000

# Origins allowed to fetch the document cross-origin.
# cors: ["*"]

# Enable verbose logging.
# verbose: false
`
