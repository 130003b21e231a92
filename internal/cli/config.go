package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/jsdoc2swagger/internal/server"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"

	defaultListen = ":3000"
	stdoutTarget  = "-"
)

// Config captures all inputs that influence the generate and serve commands
// after merging defaults, config file values, and CLI overrides.
type Config struct {
	// SwaggerDefinition is the inline seed document. DefinitionPath points
	// to a YAML or JSON file holding one instead.
	SwaggerDefinition map[string]any
	DefinitionPath    string

	Files    []string
	BaseDir  string
	Exclude  []string
	Validate bool

	Out    string
	Format string

	RouteURL  string
	RouteDocs string
	Listen    string
	CORS      []string

	ConfigPath string
	Verbose    bool

	// LogOutput receives log lines; nil means the process stderr.
	LogOutput io.Writer
}

func defaultConfig() Config {
	return Config{
		Validate:  true,
		Out:       stdoutTarget,
		RouteURL:  server.DefaultUIPath,
		RouteDocs: server.DefaultDocsPath,
		Listen:    defaultListen,
	}
}

func resolveConfig(cmd *cobra.Command) (*Config, error) {
	cfg := defaultConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.LogOutput = cmd.ErrOrStderr()
	return &cfg, nil
}

func applyFlagOverrides(flags *pflag.FlagSet, cfg *Config) error {
	stringFlags := map[string]*string{
		"basedir":    &cfg.BaseDir,
		"definition": &cfg.DefinitionPath,
		"out":        &cfg.Out,
		"format":     &cfg.Format,
		"listen":     &cfg.Listen,
		"url":        &cfg.RouteURL,
		"docs":       &cfg.RouteDocs,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}

	sliceFlags := map[string]*[]string{
		"files":   &cfg.Files,
		"exclude": &cfg.Exclude,
		"cors":    &cfg.CORS,
	}
	for name, dst := range sliceFlags {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*dst = sanitizeList(value)
	}

	if flags.Changed("validate") {
		value, err := flags.GetBool("validate")
		if err != nil {
			return err
		}
		cfg.Validate = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}
	return nil
}

func (c *Config) normalize() {
	c.DefinitionPath = strings.TrimSpace(c.DefinitionPath)
	c.BaseDir = strings.TrimSpace(c.BaseDir)
	c.Out = strings.TrimSpace(c.Out)
	if c.Out == "" {
		c.Out = stdoutTarget
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = formatFromExt(c.Out)
	}
	c.Files = sanitizeList(c.Files)
	c.Exclude = sanitizeList(c.Exclude)
	c.CORS = sanitizeList(c.CORS)
	if c.RouteURL == "" {
		c.RouteURL = server.DefaultUIPath
	}
	if c.RouteDocs == "" {
		c.RouteDocs = server.DefaultDocsPath
	}
	if c.Listen == "" {
		c.Listen = defaultListen
	}
}

func (c *Config) validate() error {
	switch c.Format {
	case formatJSON, formatYAML:
	default:
		return newUsageError(fmt.Sprintf("unsupported --format %q (allowed: json, yaml)", c.Format))
	}
	if c.SwaggerDefinition != nil && c.DefinitionPath != "" {
		return newUsageError("swaggerDefinition and definition are mutually exclusive")
	}
	if c.RouteURL == c.RouteDocs {
		return newUsageError(fmt.Sprintf("route url and docs must differ (both %q)", c.RouteURL))
	}
	return nil
}

func formatFromExt(out string) string {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}

// applyConfigFromFile layers a YAML or JSON config file over cfg. Relative
// basedir and definition paths are taken relative to the config file.
func applyConfigFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}
	dir := filepath.Dir(path)

	for key, value := range raw {
		var err error
		switch normalizeKey(key) {
		case "swaggerdefinition":
			cfg.SwaggerDefinition, err = valueAsMap(value)
		case "definition":
			cfg.DefinitionPath, err = valueAsPath(value, dir)
		case "files":
			cfg.Files, err = valueAsStringSlice(value)
		case "basedir":
			cfg.BaseDir, err = valueAsPath(value, dir)
		case "exclude":
			cfg.Exclude, err = valueAsStringSlice(value)
		case "validate":
			cfg.Validate, err = valueAsBool(value)
		case "out":
			cfg.Out, err = valueAsString(value)
		case "format":
			cfg.Format, err = valueAsString(value)
		case "route":
			err = applyRouteConfig(cfg, value)
		case "listen":
			cfg.Listen, err = valueAsString(value)
		case "cors":
			cfg.CORS, err = valueAsStringSlice(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}
	return nil
}

func applyRouteConfig(cfg *Config, value any) error {
	route, err := valueAsMap(value)
	if err != nil {
		return err
	}
	for key, v := range route {
		switch normalizeKey(key) {
		case "url":
			cfg.RouteURL, err = valueAsString(v)
		case "docs":
			cfg.RouteDocs, err = valueAsString(v)
		default:
			return fmt.Errorf("unknown field %q", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// loadDefinition returns the seed document in decoded form, reading the
// definition file when one is configured.
func (c *Config) loadDefinition() (map[string]any, error) {
	if c.DefinitionPath == "" {
		return c.SwaggerDefinition, nil
	}
	data, err := os.ReadFile(c.DefinitionPath)
	if err != nil {
		return nil, newUsageError(fmt.Sprintf("read definition %q: %v", c.DefinitionPath, err))
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, newUsageError(fmt.Sprintf("parse definition %q: %v", c.DefinitionPath, err))
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsPath(v any, base string) (string, error) {
	p, err := valueAsString(v)
	if err != nil || p == "" || filepath.IsAbs(p) {
		return p, err
	}
	return filepath.Join(base, p), nil
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func valueAsMap(v any) (map[string]any, error) {
	switch val := v.(type) {
	case map[string]any:
		return val, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func sanitizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
