package spec

import (
	"slices"
	"sort"
)

// NewDocument creates the running document from the caller's seed. The
// version is forced to 2.0 and every collection the aggregator writes to is
// initialized. The seed itself is not modified.
func NewDocument(seed *Document) *Document {
	doc := &Document{}
	if seed != nil {
		*doc = *seed
	}
	doc.Swagger = swaggerVersion
	doc.Paths = copyMap(doc.Paths)
	for uri, item := range doc.Paths {
		cp := make(PathItem, len(item))
		for method, op := range item {
			if op == nil {
				continue
			}
			clone := *op
			cp[method] = &clone
		}
		doc.Paths[uri] = cp
	}
	doc.Consumes = slices.Clone(doc.Consumes)
	doc.Produces = slices.Clone(doc.Produces)
	doc.Schemes = slices.Clone(doc.Schemes)
	doc.Definitions = copyMap(doc.Definitions)
	doc.Parameters = copyMap(doc.Parameters)
	doc.Responses = copyMap(doc.Responses)
	doc.SecurityDefinitions = copyMap(doc.SecurityDefinitions)

	seedTags := doc.Tags
	doc.Tags = []Tag{}
	doc.addTags(seedTags...)
	return doc
}

// AddData folds fragments into the document and returns the keys of
// map-like entries that were already present and therefore kept as they
// were, formatted as "definitions/Pet".
//
// Paths compose per URI: methods new to a URI are added, and an operation
// documented again for the same URI and method is overridden field by field.
// Tags are deduplicated by name, first occurrence winning. Definitions,
// parameters, responses and security definitions keep their first write.
func (d *Document) AddData(fragments ...*Fragment) []string {
	var kept []string
	for _, frag := range fragments {
		if frag == nil {
			continue
		}
		mergePathItems(d.Paths, frag.Paths)
		d.addTags(frag.Tags...)
		kept = append(kept, prefixed("definitions", mergeKeys(d.Definitions, frag.Definitions))...)
		kept = append(kept, prefixed("parameters", mergeKeys(d.Parameters, frag.Parameters))...)
		kept = append(kept, prefixed("responses", mergeKeys(d.Responses, frag.Responses))...)
		kept = append(kept, prefixed("securityDefinitions", mergeKeys(d.SecurityDefinitions, frag.SecurityDefinitions))...)
		d.Consumes = appendUnique(d.Consumes, frag.Consumes...)
		d.Produces = appendUnique(d.Produces, frag.Produces...)
		d.Schemes = appendUnique(d.Schemes, frag.Schemes...)
	}
	return kept
}

// HasTag reports whether a tag with the given name is present.
func (d *Document) HasTag(name string) bool {
	for _, t := range d.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (d *Document) addTags(tags ...Tag) {
	for _, t := range tags {
		if !d.HasTag(t.Name) {
			d.Tags = append(d.Tags, t)
		}
	}
}

// mergePathItems spreads the methods of src over dst per URI.
func mergePathItems(dst, src map[string]PathItem) {
	for uri, item := range src {
		existing := dst[uri]
		if existing == nil {
			existing = PathItem{}
			dst[uri] = existing
		}
		for method, op := range item {
			if op == nil {
				continue
			}
			if cur := existing[method]; cur != nil {
				mergeOperation(cur, op)
				continue
			}
			existing[method] = op
		}
	}
}

// mergeOperation overrides dst with every field src declares.
func mergeOperation(dst, src *Operation) {
	if len(src.Tags) > 0 {
		dst.Tags = src.Tags
	}
	if src.Summary != "" {
		dst.Summary = src.Summary
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.OperationID != "" {
		dst.OperationID = src.OperationID
	}
	if len(src.Consumes) > 0 {
		dst.Consumes = src.Consumes
	}
	if len(src.Produces) > 0 {
		dst.Produces = src.Produces
	}
	if len(src.Parameters) > 0 {
		dst.Parameters = src.Parameters
	}
	if len(src.Responses) > 0 {
		dst.Responses = src.Responses
	}
	if len(src.Security) > 0 {
		dst.Security = src.Security
	}
	if src.Deprecated {
		dst.Deprecated = true
	}
}

// mergeKeys copies entries of src missing from dst and returns the sorted
// keys dst already had.
func mergeKeys[V any](dst, src map[string]V) []string {
	var kept []string
	for k, v := range src {
		if _, ok := dst[k]; ok {
			kept = append(kept, k)
			continue
		}
		dst[k] = v
	}
	sort.Strings(kept)
	return kept
}

func prefixed(kind string, keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = kind + "/" + k
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
