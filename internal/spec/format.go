package spec

import (
	"fmt"
	"strings"

	"github.com/mark3labs/jsdoc2swagger/internal/annotation"
)

// FormatBlock translates one comment block. A block opening with a typedef
// contributes a single definition. Any other block is walked tag by tag:
// every route tag opens a new operation, and operation tags attach to the
// most recent route. Tags placed before the first route attach to it.
func FormatBlock(block annotation.Block) (*Fragment, error) {
	frag := newFragment()
	if len(block.Tags) == 0 {
		return frag, nil
	}
	if KindOf(block.Tags[0].Title) == KindTypedef {
		name, def, err := ParseTypedef(block.Tags)
		if err != nil {
			return nil, err
		}
		frag.Definitions[name] = def
		return frag, nil
	}

	f := &blockFormatter{
		frag:        frag,
		description: strings.TrimSpace(strings.Replace(block.Description, "/**", "", 1)),
		headers:     ParseHeaders(block.Tags),
		group:       ParseGroup(block.Tags),
		current:     newOperationBuilder(),
	}
	for _, tag := range block.Tags {
		if err := f.apply(tag); err != nil {
			return nil, fmt.Errorf("@%s: %w", tag.Title, err)
		}
	}
	f.finish()
	return frag, nil
}

func newFragment() *Fragment {
	return &Fragment{
		Paths:               map[string]PathItem{},
		Definitions:         map[string]*Schema{},
		Parameters:          map[string]*Parameter{},
		Responses:           map[string]*Response{},
		SecurityDefinitions: map[string]*SecurityScheme{},
	}
}

// operationBuilder accumulates the tags scoped to one route.
type operationBuilder struct {
	route  Route
	routed bool
	op     *Operation
}

func newOperationBuilder() *operationBuilder {
	return &operationBuilder{op: &Operation{Responses: map[string]*Response{}}}
}

type blockFormatter struct {
	frag        *Fragment
	description string
	headers     map[string]map[string]*Header
	group       Tag

	done    []*operationBuilder
	current *operationBuilder
}

func (f *blockFormatter) apply(tag annotation.Tag) error {
	op := f.current.op
	switch KindOf(tag.Title) {
	case KindRoute:
		f.startRoute(ParseRoute(tag.Description))
	case KindParam:
		p, err := ParseParam(tag)
		if err != nil {
			return err
		}
		op.Parameters = append(op.Parameters, p)
	case KindReturns:
		code, resp, err := ParseReturns(tag, f.headers)
		if err != nil {
			return err
		}
		op.Responses[code] = resp
	case KindSecurity:
		op.Security = ParseSecurity(tag.Description)
	case KindProduces:
		op.Produces = ParseMediaTypes(tag.Description)
	case KindConsumes:
		op.Consumes = ParseMediaTypes(tag.Description)
	case KindDeprecated:
		op.Deprecated = true
	case KindSummary:
		op.Summary = tag.Description
	case KindOperationID:
		op.OperationID = tag.Description
	case KindGroup, KindHeaders:
		// read once per block before the walk
	default:
		// KindUnknown, or a typedef/property outside a typedef block.
		f.frag.Unrecognized = append(f.frag.Unrecognized, tag.Title)
	}
	return nil
}

func (f *blockFormatter) startRoute(route Route) {
	if f.current.routed {
		f.done = append(f.done, f.current)
		f.current = newOperationBuilder()
	}
	f.current.route = route
	f.current.routed = true
	f.current.op.Description = f.description
	f.current.op.Tags = []string{f.group.Name}
	f.frag.Tags = append(f.frag.Tags, f.group)
}

func (f *blockFormatter) finish() {
	if f.current.routed {
		f.done = append(f.done, f.current)
	}
	for _, b := range f.done {
		mergePathItems(f.frag.Paths, map[string]PathItem{
			b.route.URI: {b.route.Method: b.op},
		})
	}
}
