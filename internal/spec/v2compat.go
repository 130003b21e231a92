package spec

import (
	"slices"

	"github.com/mark3labs/jsdoc2swagger/internal/json"
)

const multipartForm = "multipart/form-data"

// compatCopy returns a deep copy of doc with operations rewritten so the
// 2.0 to 3.0 conversion used for validation accepts them:
//   - several body parameters are merged into a single object body whose
//     properties are the merged body parameters;
//   - body parameters mixed with formData ones become formData parameters and
//     the operation consumes multipart/form-data.
//
// doc itself is never modified; the reported flag tells whether the copy
// differs from it.
func compatCopy(doc *Document) (*Document, bool, error) {
	var cp Document
	if err := json.Convert(doc, &cp); err != nil {
		return nil, false, err
	}
	changed := false
	for _, item := range cp.Paths {
		for _, op := range item {
			if op != nil && adjustBodyParameters(op) {
				changed = true
			}
		}
	}
	return &cp, changed, nil
}

func adjustBodyParameters(op *Operation) bool {
	bodies, hasFormData := 0, false
	for _, p := range op.Parameters {
		switch p.In {
		case "body":
			bodies++
		case "formData":
			hasFormData = true
		}
	}
	if bodies == 0 || (bodies == 1 && !hasFormData) {
		return false
	}

	if hasFormData {
		params := make([]*Parameter, 0, len(op.Parameters))
		for _, p := range op.Parameters {
			if p.In == "body" {
				p = formDataFromBody(p)
			}
			params = append(params, p)
		}
		op.Parameters = params
		if !slices.Contains(op.Consumes, multipartForm) {
			op.Consumes = append(op.Consumes, multipartForm)
		}
		return true
	}

	merged := &Schema{Type: "object", Properties: map[string]*Schema{}}
	rest := make([]*Parameter, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		if p.In != "body" {
			rest = append(rest, p)
			continue
		}
		name := p.Name
		if name == "" {
			name = "field"
		}
		merged.Properties[name] = bodySchema(p)
		if p.Required {
			merged.Required = append(merged.Required, name)
		}
	}
	op.Parameters = append([]*Parameter{{Name: "body", In: "body", Schema: merged}}, rest...)
	return true
}

// bodySchema is the schema a body parameter carries, synthesized from its
// bare type when it has none.
func bodySchema(p *Parameter) *Schema {
	if p.Schema != nil {
		return p.Schema
	}
	if p.Type == "" {
		return &Schema{Type: defaultType}
	}
	return &Schema{Type: p.Type, Format: p.Format, Items: p.Items}
}

// formDataFromBody degrades a body parameter to a formData one. Referenced
// models cannot be represented in a form and become strings.
func formDataFromBody(p *Parameter) *Parameter {
	out := &Parameter{
		Name:        p.Name,
		In:          "formData",
		Description: p.Description,
		Required:    p.Required,
		Type:        p.Type,
		Format:      p.Format,
		Items:       p.Items,
	}
	if out.Name == "" {
		out.Name = "field"
	}
	if s := p.Schema; s != nil {
		out.Type, out.Format, out.Items = s.Type, s.Format, s.Items
	}
	if out.Type == "" {
		out.Type = defaultType
	}
	return out
}
