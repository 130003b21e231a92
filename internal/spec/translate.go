package spec

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/mark3labs/jsdoc2swagger/internal/annotation"
	"github.com/mark3labs/jsdoc2swagger/internal/json"
)

const (
	defaultMethod = "get"
	// defaultLocation is what a param without a location segment gets. It is
	// not a valid parameter location; validation reports it downstream.
	defaultLocation = "get"
	defaultGroup    = "default"
)

var (
	exampleRe      = regexp.MustCompile(`-\s*eg:\s*`)
	headerSplitRe  = regexp.MustCompile(`\s+-\s+`)
	headerWordRe   = regexp.MustCompile(`\w+`)
	headerDigitsRe = regexp.MustCompile(`\d+`)
)

// Route is the method and URI declared by a route tag.
type Route struct {
	Method string
	URI    string
}

// ParseRoute parses "METHOD /uri".
func ParseRoute(desc string) Route {
	r := Route{Method: defaultMethod}
	fields := strings.Fields(desc)
	if len(fields) > 0 {
		r.Method = strings.ToLower(fields[0])
	}
	if len(fields) > 1 {
		r.URI = fields[1]
	}
	return r
}

// Field is a decoded "name.location.required" param name.
type Field struct {
	Name     string
	In       string
	Required bool
}

// ParseField splits a param name on dots.
func ParseField(s string) Field {
	parts := strings.Split(s, ".")
	f := Field{Name: parts[0], In: defaultLocation}
	if len(parts) > 1 && parts[1] != "" {
		f.In = parts[1]
	}
	f.Required = len(parts) > 2 && parts[2] == "required"
	return f
}

// ParseParam translates a param tag. A model or array type becomes the
// parameter schema, anything else a bare type.
func ParseParam(tag annotation.Tag) (*Parameter, error) {
	if tag.Name == "" {
		return nil, errors.New("param without a name")
	}
	field := ParseField(tag.Name)
	p := &Parameter{
		Name:        field.Name,
		In:          field.In,
		Description: tag.Description,
		Required:    field.Required,
	}
	if schema := ResolveSchema(tag.Type); schema != nil {
		p.Schema = schema
		return p, nil
	}
	p.Type = ResolveType(tag.Type)
	if p.Type == "enum" {
		e := ParseEnum(tag.Description)
		p.Type = e.Type
		p.Enum = e.Values
	}
	return p, nil
}

// Enum is the result of parsing an "- eg: type:a,b,c" list.
type Enum struct {
	Type   string
	Values []any
}

// ParseEnum reads the enum list following the example marker. The type
// prefix is optional, must be a type keyword, and defaults to string. Without a marker the enum is an
// unconstrained string.
func ParseEnum(desc string) Enum {
	parts := exampleRe.Split(desc, 2)
	if len(parts) < 2 {
		return Enum{Type: defaultType}
	}
	e := Enum{Type: defaultType}
	list := strings.TrimSpace(parts[1])
	if typ, rest, ok := strings.Cut(list, ":"); ok {
		if _, known := keywords[strings.ToLower(strings.TrimSpace(typ))]; known {
			e.Type = canonical(strings.TrimSpace(typ))
			list = rest
		}
	}
	for _, v := range strings.Split(list, ",") {
		if v = strings.TrimSpace(v); v != "" {
			e.Values = append(e.Values, coerce(e.Type, v))
		}
	}
	return e
}

// coerce converts a literal to the Go value matching typ. Unparsable
// numbers stay strings.
func coerce(typ, raw string) any {
	switch typ {
	case "boolean":
		return raw == "true"
	case "integer":
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case "number":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

// ParseReturns translates a returns tag of the form "code - description".
// headers is the block's header table keyed by status code.
func ParseReturns(tag annotation.Tag, headers map[string]map[string]*Header) (string, *Response, error) {
	parts := strings.Split(tag.Description, "-")
	code := strings.TrimSpace(parts[0])
	if code == "" {
		return "", nil, errors.New("returns without a status code")
	}
	resp := &Response{Headers: headers[code]}
	if len(parts) > 1 {
		resp.Description = strings.TrimSpace(parts[1])
	}
	if tag.Type != nil {
		resp.Schema = ResolveSchema(tag.Type)
	}
	return code, resp, nil
}

// ParseHeaders collects every headers tag of a block into a table keyed by
// status code then header name. Each description reads
// "type(code).Header-Name - description". The first malformed tag stops the
// pass; entries gathered before it are kept.
func ParseHeaders(tags []annotation.Tag) map[string]map[string]*Header {
	headers := map[string]map[string]*Header{}
	for _, tag := range tags {
		if KindOf(tag.Title) != KindHeaders {
			continue
		}
		desc := headerSplitRe.Split(tag.Description, -1)
		codeToName := strings.Split(desc[0], ".")
		if len(codeToName) < 2 {
			break
		}
		typ := headerWordRe.FindString(codeToName[0])
		code := headerDigitsRe.FindString(codeToName[0])
		if typ == "" || code == "" {
			break
		}
		if headers[code] == nil {
			headers[code] = map[string]*Header{}
		}
		h := &Header{Type: typ}
		if len(desc) > 1 {
			h.Description = desc[1]
		}
		headers[code][codeToName[1]] = h
	}
	return headers
}

// ParseSecurity reads a JSON security requirement list (or a single
// requirement object). Anything else is taken as a bare scheme name.
func ParseSecurity(desc string) []SecurityRequirement {
	data := []byte(desc)
	var reqs []SecurityRequirement
	if err := json.Unmarshal(data, &reqs); err == nil && reqs != nil {
		return reqs
	}
	var single SecurityRequirement
	if err := json.Unmarshal(data, &single); err == nil && single != nil {
		return []SecurityRequirement{single}
	}
	return []SecurityRequirement{{strings.TrimSpace(desc): []string{}}}
}

// ParseMediaTypes splits a produces or consumes list on whitespace.
func ParseMediaTypes(desc string) []string {
	return strings.Fields(desc)
}

// ParseGroup finds the block's group tag, "name - description".
func ParseGroup(tags []annotation.Tag) Tag {
	for _, tag := range tags {
		if KindOf(tag.Title) != KindGroup {
			continue
		}
		parts := strings.Split(tag.Description, "-")
		g := Tag{Name: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			g.Description = strings.TrimSpace(parts[1])
		}
		return g
	}
	return Tag{Name: defaultGroup}
}
