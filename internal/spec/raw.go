package spec

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// pluralKeys maps fragment keys, including their legacy singular spellings,
// to the document property they fold into.
var pluralKeys = map[string]string{
	"consume":             "consumes",
	"consumes":            "consumes",
	"produce":             "produces",
	"produces":            "produces",
	"path":                "paths",
	"paths":               "paths",
	"tag":                 "tags",
	"tags":                "tags",
	"definition":          "definitions",
	"definitions":         "definitions",
	"schema":              "definitions",
	"schemas":             "definitions",
	"securityDefinition":  "securityDefinitions",
	"securityDefinitions": "securityDefinitions",
	"scheme":              "schemes",
	"schemes":             "schemes",
	"response":            "responses",
	"responses":           "responses",
	"parameter":           "parameters",
	"parameters":          "parameters",
}

// NormalizeKey returns the document property a fragment key folds into, or
// "" when the key is not a foldable property.
func NormalizeKey(key string) string {
	return pluralKeys[key]
}

// DecodeFragment turns a decoded YAML or JSON fragment file into a Fragment.
// Keys are normalized through the singular to plural table; anything else is
// reported in Unrecognized.
func DecodeFragment(raw map[string]any) (*Fragment, error) {
	frag := newFragment()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		var err error
		switch NormalizeKey(key) {
		case "paths":
			err = decodeMapInto(value, frag.Paths)
		case "definitions":
			err = decodeMapInto(value, frag.Definitions)
		case "parameters":
			err = decodeMapInto(value, frag.Parameters)
		case "responses":
			err = decodeMapInto(value, frag.Responses)
		case "securityDefinitions":
			err = decodeMapInto(value, frag.SecurityDefinitions)
		case "tags":
			var tags []Tag
			if _, single := value.(map[string]any); single {
				value = []any{value}
			}
			err = decodeInto(value, &tags)
			frag.Tags = append(frag.Tags, tags...)
		case "consumes":
			frag.Consumes, err = decodeStrings(value, frag.Consumes)
		case "produces":
			frag.Produces, err = decodeStrings(value, frag.Produces)
		case "schemes":
			frag.Schemes, err = decodeStrings(value, frag.Schemes)
		default:
			frag.Unrecognized = append(frag.Unrecognized, key)
		}
		if err != nil {
			return nil, fmt.Errorf("fragment key %q: %w", key, err)
		}
	}
	return frag, nil
}

// DecodeDefinition decodes a caller-supplied seed definition.
func DecodeDefinition(raw map[string]any) (*Document, error) {
	var doc Document
	if err := decodeInto(raw, &doc); err != nil {
		return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("decode swaggerDefinition: %v", err), Cause: err}
	}
	return &doc, nil
}

// decodeMapInto decodes value into a fresh map and adds its entries to dst,
// keeping entries already present from an earlier alias of the same key.
func decodeMapInto[V any](value any, dst map[string]V) error {
	var m map[string]V
	if err := decodeInto(value, &m); err != nil {
		return err
	}
	mergeKeys(dst, m)
	return nil
}

func decodeStrings(value any, dst []string) ([]string, error) {
	if s, ok := value.(string); ok {
		return appendUnique(dst, s), nil
	}
	var list []string
	if err := decodeInto(value, &list); err != nil {
		return dst, err
	}
	return appendUnique(dst, list...), nil
}

// decodeInto re-encodes a generic YAML/JSON tree into a typed value.
func decodeInto(value, dst any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, dst)
}
