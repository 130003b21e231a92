package spec

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/jsdoc2swagger/internal/annotation"
)

// ParseTypedef translates a block whose first tag is a typedef into a named
// definition. Subsequent property tags become the definition's properties;
// other tags are ignored.
func ParseTypedef(tags []annotation.Tag) (string, *Schema, error) {
	if len(tags) == 0 {
		return "", nil, errors.New("empty typedef block")
	}
	head := tags[0]
	if head.Name == "" {
		return "", nil, errors.New("typedef without a name")
	}
	def := &Schema{Properties: map[string]*Schema{}}
	if base := baseModel(head.Type); base != "" {
		def.AllOf = []*Schema{refSchema(base)}
	}
	for _, tag := range tags[1:] {
		if KindOf(tag.Title) != KindProperty {
			continue
		}
		name, prop, required, err := parseProperty(tag)
		if err != nil {
			return "", nil, fmt.Errorf("typedef %s: %w", head.Name, err)
		}
		if required {
			def.Required = append(def.Required, name)
		}
		def.Properties[name] = prop
	}
	return head.Name, def, nil
}

// baseModel returns the definition a typedef extends, if any. Primitive
// keywords such as object do not count as a base.
func baseModel(t *annotation.TypeExpr) string {
	if t == nil || t.IsApplied() || t.Name == "" {
		return ""
	}
	if model, ok := modelName(t.Name); ok {
		return model
	}
	if _, ok := keywords[strings.ToLower(t.Name)]; ok {
		return ""
	}
	return t.Name
}

// parseProperty decodes "name.required.readOnly" and the property's type.
// A resolvable schema is used as is; otherwise the description may carry an
// example after "- eg:".
func parseProperty(tag annotation.Tag) (string, *Schema, bool, error) {
	if tag.Name == "" {
		return "", nil, false, errors.New("property without a name")
	}
	segments := strings.Split(tag.Name, ".")
	name, modifiers := segments[0], segments[1:]
	required := slices.Contains(modifiers, "required")
	readOnly := slices.Contains(modifiers, "readOnly")

	if schema := ResolveSchema(tag.Type); schema != nil {
		return name, schema, required, nil
	}

	typ := ResolveType(tag.Type)
	parts := exampleRe.Split(tag.Description, 2)
	prop := &Schema{
		Type:        typ,
		Description: strings.TrimSpace(parts[0]),
		Items:       ResolveItems(tag.Type),
		ReadOnly:    readOnly,
	}
	var example string
	if len(parts) > 1 {
		example = strings.TrimSpace(parts[1])
	}
	if typ == "enum" {
		e := ParseEnum("-eg:" + example)
		prop.Type = e.Type
		prop.Enum = e.Values
		return name, prop, required, nil
	}
	if example != "" {
		prop.Example = coerce(typ, example)
	}
	return name, prop, required, nil
}
