package spec

import (
	"strings"

	"github.com/mark3labs/jsdoc2swagger/internal/annotation"
)

const (
	definitionsPrefix = "#/definitions/"
	modelSuffix       = "model"
	defaultType       = "string"
)

// keywords are type names lowered to their canonical spelling, so {Integer}
// and {integer} resolve alike.
var keywords = map[string]struct{}{
	"string": {}, "integer": {}, "number": {}, "boolean": {},
	"object": {}, "array": {}, "file": {}, "enum": {},
}

// itemPrimitives are the element types that stay inline instead of
// becoming a $ref.
var itemPrimitives = map[string]struct{}{
	"object": {}, "string": {}, "integer": {}, "boolean": {},
}

// ResolveType maps a type expression to a bare type token. A nil expression
// is a string. A `Name.model` expression yields the model name.
func ResolveType(expr *annotation.TypeExpr) string {
	switch {
	case expr == nil:
		return defaultType
	case expr.IsApplied():
		return strings.ToLower(expr.Expression.Name)
	case expr.Name != "":
		if model, ok := modelName(expr.Name); ok {
			return model
		}
		return canonical(expr.Name)
	}
	return defaultType
}

// ResolveSchema maps a type expression to a schema, or nil when the caller
// should fall back to ResolveType. A nil return also covers applications
// without type arguments.
func ResolveSchema(expr *annotation.TypeExpr) *Schema {
	if expr == nil {
		return nil
	}
	if !expr.IsApplied() {
		if model, ok := modelName(expr.Name); ok {
			return refSchema(model)
		}
		return nil
	}
	container := strings.ToLower(expr.Expression.Name)
	switch len(expr.Applications) {
	case 0:
		return nil
	case 1:
		return &Schema{Type: container, Items: elementSchema(expr.Applications[0])}
	}
	oneOf := make([]*Schema, 0, len(expr.Applications))
	for _, app := range expr.Applications {
		oneOf = append(oneOf, elementSchema(app))
	}
	return &Schema{Type: container, Items: &Schema{OneOf: oneOf}}
}

// ResolveItems returns the element schema of a simple property declaration:
// always a plain {type} or {$ref}, never an array wrapper.
func ResolveItems(expr *annotation.TypeExpr) *Schema {
	if !expr.IsApplied() || len(expr.Applications) == 0 || expr.Applications[0].Name == "" {
		return nil
	}
	return primitiveOrRef(expr.Applications[0].Name)
}

func elementSchema(expr *annotation.TypeExpr) *Schema {
	if expr.IsApplied() {
		if nested := ResolveSchema(expr); nested != nil {
			return nested
		}
		return &Schema{Type: strings.ToLower(expr.Expression.Name)}
	}
	return primitiveOrRef(expr.Name)
}

func primitiveOrRef(name string) *Schema {
	if model, ok := modelName(name); ok {
		return refSchema(model)
	}
	lowered := strings.ToLower(name)
	if _, ok := itemPrimitives[lowered]; ok {
		return &Schema{Type: lowered}
	}
	return refSchema(name)
}

func refSchema(name string) *Schema {
	return &Schema{Ref: definitionsPrefix + name}
}

// modelName splits `Pet.model` into `Pet`.
func modelName(name string) (string, bool) {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[1] == modelSuffix {
		return parts[0], true
	}
	return "", false
}

func canonical(name string) string {
	lowered := strings.ToLower(name)
	if _, ok := keywords[lowered]; ok {
		return lowered
	}
	return name
}
