package spec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func petstore() *Document {
	doc := NewDocument(&Document{Info: &Info{Title: "Petstore", Version: "1.0.0"}})
	doc.Definitions["Pet"] = &Schema{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]*Schema{
			"id":   {Type: "integer"},
			"name": {Type: "string", Example: "doggie"},
		},
	}
	doc.Paths["/pets/{id}"] = PathItem{"get": {
		Tags:       []string{"default"},
		Parameters: []*Parameter{{Name: "id", In: "path", Required: true, Type: "integer"}},
		Responses: map[string]*Response{
			"200": {Description: "OK", Schema: &Schema{Ref: "#/definitions/Pet"}},
		},
	}}
	doc.Tags = []Tag{{Name: "default"}}
	return doc
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()
	require.NoError(t, Validate(context.Background(), petstore()))
}

func TestValidate_MissingLocationIsReported(t *testing.T) {
	t.Parallel()
	doc := petstore()
	op := doc.Paths["/pets/{id}"]["get"]
	op.Parameters = append(op.Parameters, &Parameter{Name: "limit", In: ParseField("limit").In, Type: "integer"})

	err := Validate(context.Background(), doc)
	require.Error(t, err)
	var se *SpecError
	require.True(t, errors.As(err, &se), "expected SpecError, got %T", err)
	assert.Equal(t, ValidationError, se.Code)
	assert.Contains(t, se.Message, "get")
}

func TestValidate_NilDocument(t *testing.T) {
	t.Parallel()
	err := Validate(context.Background(), nil)
	var se *SpecError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, InputError, se.Code)
}

func TestValidate_DoesNotRewriteTheDocument(t *testing.T) {
	t.Parallel()
	doc := petstore()
	doc.Paths["/pets"] = PathItem{"post": {
		Parameters: []*Parameter{
			{Name: "pet", In: "body", Required: true, Schema: &Schema{Ref: "#/definitions/Pet"}},
			{Name: "note", In: "body", Type: "string"},
		},
		Responses: map[string]*Response{"201": {Description: "created"}},
	}}

	require.NoError(t, Validate(context.Background(), doc))
	assert.Len(t, doc.Paths["/pets"]["post"].Parameters, 2)
}

func TestCompatCopy_MultipleBodyMerged(t *testing.T) {
	t.Parallel()
	doc := NewDocument(nil)
	doc.Paths["/x"] = PathItem{"post": {
		Parameters: []*Parameter{
			{Name: "a", In: "body", Required: true, Schema: &Schema{Type: "string"}},
			{Name: "q", In: "query", Type: "string"},
			{Name: "b", In: "body", Type: "integer"},
		},
		Responses: map[string]*Response{"200": {Description: "ok"}},
	}}

	cp, changed, err := compatCopy(doc)
	require.NoError(t, err)
	require.True(t, changed)

	params := cp.Paths["/x"]["post"].Parameters
	require.Len(t, params, 2)
	assert.Equal(t, "body", params[0].Name)
	assert.Equal(t, "body", params[0].In)
	assert.Equal(t, &Schema{
		Type:     "object",
		Required: []string{"a"},
		Properties: map[string]*Schema{
			"a": {Type: "string"},
			"b": {Type: "integer"},
		},
	}, params[0].Schema)
	assert.Equal(t, "q", params[1].Name)

	assert.Len(t, doc.Paths["/x"]["post"].Parameters, 3, "source document untouched")
}

func TestCompatCopy_BodyAndFormDataToFormData(t *testing.T) {
	t.Parallel()
	doc := NewDocument(nil)
	doc.Paths["/upload"] = PathItem{"post": {
		Parameters: []*Parameter{
			{Name: "desc", In: "body", Schema: &Schema{Type: "string"}},
			{Name: "meta", In: "body", Schema: &Schema{Ref: "#/definitions/Meta"}},
			{Name: "file", In: "formData", Type: "file", Required: true},
		},
		Responses: map[string]*Response{"200": {Description: "ok"}},
	}}

	cp, changed, err := compatCopy(doc)
	require.NoError(t, err)
	require.True(t, changed)

	op := cp.Paths["/upload"]["post"]
	for _, p := range op.Parameters {
		assert.Equal(t, "formData", p.In, p.Name)
		assert.Nil(t, p.Schema, p.Name)
	}
	assert.Equal(t, "string", op.Parameters[0].Type)
	assert.Equal(t, "string", op.Parameters[1].Type, "referenced models degrade to string")
	assert.Equal(t, []string{"multipart/form-data"}, op.Consumes)
}

func TestCompatCopy_SingleBodyUnchanged(t *testing.T) {
	t.Parallel()
	_, changed, err := compatCopy(petstore())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCanProceedDespiteValidation(t *testing.T) {
	t.Parallel()
	assert.True(t, canProceedDespiteValidation(nil))
	assert.True(t, canProceedDespiteValidation(errors.New("found unresolved ref: \"#/components/schemas/X\"")))
	assert.False(t, canProceedDespiteValidation(errors.New("invalid paths")))
}

func TestExtractJSONPointer(t *testing.T) {
	t.Parallel()
	assert.Empty(t, extractJSONPointer(nil))
	cases := map[string]string{
		`bad value at #/paths/~1pets/get: oops`:           "#/paths/~1pets/get",
		`bad value at #/definitions/Pet, expected object`: "#/definitions/Pet",
		`error at "#/paths/~1pets/{id}/get/parameters/0"`: "#/paths/~1pets/{id}/get/parameters/0",
		`pointer '#/tags/1' is invalid`:                   "#/tags/1",
		`no pointer here`:                                 "",
	}
	for msg, want := range cases {
		assert.Equal(t, want, extractJSONPointer(errors.New(msg)), msg)
	}
}
