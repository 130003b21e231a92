package annotation

// Block is one documentation comment: its free text and the ordered tags that
// followed it.
type Block struct {
	Description string
	Tags        []Tag
	// Raw holds the comment as it appeared in the source, used for diagnostics.
	Raw string
	// Line is the 1-based line where the comment starts.
	Line int
}

// Tag is one structured directive such as `@param {string} id.path - The id`.
type Tag struct {
	Title       string
	Name        string
	Description string
	Type        *TypeExpr
}

// TypeExpr is an annotated type.
//
// A named type sets Name (for example "Pet.model" or "integer"). An applied
// type sets Expression to the container and Applications to its type
// arguments (for example Array.<Pet>). A nil *TypeExpr means the tag carried
// no type.
type TypeExpr struct {
	Name         string
	Expression   *TypeExpr
	Applications []*TypeExpr
}

// Named builds a named type expression.
func Named(name string) *TypeExpr { return &TypeExpr{Name: name} }

// Applied builds a container type applied to the given arguments.
func Applied(container string, args ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Expression: Named(container), Applications: args}
}

// IsApplied reports whether t is a generic application.
func (t *TypeExpr) IsApplied() bool {
	return t != nil && t.Expression != nil
}

// Filter drops blocks that carry no tags.
func Filter(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if len(b.Tags) > 0 {
			out = append(out, b)
		}
	}
	return out
}
