package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestApplyConfigFromFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "cfg.yaml", `
swaggerDefinition:
  info:
    title: From config
    version: 1.0.0
base_dir: ./src
files: ./routes/*.js, ./models/*.js
exclude: [node_modules/**]
validate: "no"
out: swagger.yaml
route:
  url: /docs
  docs: /docs.json
cors: "*"
verbose: true
`)
	cfg := defaultConfig()
	require.NoError(t, applyConfigFromFile(&cfg, path))

	assert.Equal(t, "From config", cfg.SwaggerDefinition["info"].(map[string]any)["title"])
	assert.Equal(t, filepath.Join(filepath.Dir(path), "src"), cfg.BaseDir)
	assert.Equal(t, []string{"./routes/*.js", "./models/*.js"}, cfg.Files)
	assert.Equal(t, []string{"node_modules/**"}, cfg.Exclude)
	assert.False(t, cfg.Validate)
	assert.Equal(t, "swagger.yaml", cfg.Out)
	assert.Equal(t, "/docs", cfg.RouteURL)
	assert.Equal(t, "/docs.json", cfg.RouteDocs)
	assert.Equal(t, []string{"*"}, cfg.CORS)
	assert.True(t, cfg.Verbose)

	cfg.normalize()
	assert.Equal(t, formatYAML, cfg.Format, "format follows the output extension")
	require.NoError(t, cfg.validate())
}

func TestApplyConfigFromFile_Errors(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"unknown key":      "lang: go\n",
		"bad bool":         "validate: maybe\n",
		"bad list":         "files: {a: b}\n",
		"bad route":        "route:\n  ui: /x\n",
		"route not a map":  "route: /x\n",
		"definition shape": "swaggerDefinition: [a]\n",
		"not yaml":         "files: [unterminated\n",
	}
	for name, content := range cases {
		content := content
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			err := applyConfigFromFile(&cfg, writeConfig(t, "cfg.yaml", content))
			require.ErrorIs(t, err, ErrUsage)
		})
	}

	cfg := defaultConfig()
	require.ErrorIs(t, applyConfigFromFile(&cfg, filepath.Join(t.TempDir(), "missing.yaml")), ErrUsage)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad format", func(c *Config) { c.Format = "xml" }, false},
		{"both definitions", func(c *Config) {
			c.SwaggerDefinition = map[string]any{}
			c.DefinitionPath = "base.yaml"
		}, false},
		{"same routes", func(c *Config) { c.RouteURL = "/x"; c.RouteDocs = "/x" }, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			cfg.normalize()
			tc.mutate(&cfg)
			err := cfg.validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUsage)
			}
		})
	}
}

func TestApplyFlagOverrides_OnlyChangedFlags(t *testing.T) {
	t.Parallel()
	cmd := &cobra.Command{}
	addSourceFlags(cmd.Flags())
	cmd.Flags().String("out", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--files", "a.js,b.js", "--files", "a.js", "--validate=false"}))

	cfg := defaultConfig()
	cfg.BaseDir = "from-config"
	cfg.Out = "from-config.json"
	require.NoError(t, applyFlagOverrides(cmd.Flags(), &cfg))

	assert.Equal(t, []string{"a.js", "b.js"}, cfg.Files)
	assert.False(t, cfg.Validate)
	assert.Equal(t, "from-config", cfg.BaseDir)
	assert.Equal(t, "from-config.json", cfg.Out)
}

func TestLoadDefinition(t *testing.T) {
	t.Parallel()
	cfg := Config{DefinitionPath: writeConfig(t, "base.json", `{"info": {"title": "JSON base", "version": "2"}}`)}
	raw, err := cfg.loadDefinition()
	require.NoError(t, err)
	assert.Equal(t, "JSON base", raw["info"].(map[string]any)["title"])

	empty := Config{DefinitionPath: writeConfig(t, "empty.yaml", "")}
	raw, err = empty.loadDefinition()
	require.NoError(t, err)
	assert.NotNil(t, raw)

	inline := Config{SwaggerDefinition: map[string]any{"host": "x"}}
	raw, err = inline.loadDefinition()
	require.NoError(t, err)
	assert.Equal(t, "x", raw["host"])

	missing := Config{DefinitionPath: filepath.Join(t.TempDir(), "nope.yaml")}
	_, err = missing.loadDefinition()
	assert.ErrorIs(t, err, ErrUsage)
}

func TestValueHelpers(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "swaggerdefinition", normalizeKey(" swagger_Definition "))
	assert.Equal(t, "basedir", normalizeKey("base-dir"))

	p, err := valueAsPath("/abs/dir", "/cfg")
	require.NoError(t, err)
	assert.Equal(t, "/abs/dir", p)

	_, err = valueAsString(3)
	assert.Error(t, err)

	items, err := valueAsStringSlice([]any{" a ", "", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)

	assert.Nil(t, sanitizeList([]string{" ", ""}))
}
