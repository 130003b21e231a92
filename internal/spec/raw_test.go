package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeYAML(t *testing.T, src string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	return raw
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "consumes", NormalizeKey("consume"))
	assert.Equal(t, "securityDefinitions", NormalizeKey("securityDefinition"))
	assert.Equal(t, "definitions", NormalizeKey("schemas"))
	assert.Equal(t, "paths", NormalizeKey("paths"))
	assert.Empty(t, NormalizeKey("info"))
}

func TestDecodeFragment(t *testing.T) {
	t.Parallel()
	raw := decodeYAML(t, `
paths:
  /store/inventory:
    get:
      summary: inventory
      responses:
        "200":
          description: OK
tag:
  name: store
  description: Access to orders
definition:
  Order:
    type: object
    properties:
      id: {type: integer}
schemas:
  Order:
    type: string
  Category:
    type: object
securityDefinition:
  api_key: {type: apiKey, name: api_key, in: header}
consume: application/json
produces: [application/json, application/xml]
info:
  title: ignored
`)
	frag, err := DecodeFragment(raw)
	require.NoError(t, err)

	op := frag.Paths["/store/inventory"]["get"]
	require.NotNil(t, op)
	assert.Equal(t, "inventory", op.Summary)
	assert.Equal(t, "OK", op.Responses["200"].Description)

	assert.Equal(t, []Tag{{Name: "store", Description: "Access to orders"}}, frag.Tags)
	require.Contains(t, frag.Definitions, "Order")
	assert.Equal(t, "object", frag.Definitions["Order"].Type, "the definition key sorts before schemas and wins")
	assert.Contains(t, frag.Definitions, "Category")
	assert.Equal(t, "apiKey", frag.SecurityDefinitions["api_key"].Type)
	assert.Equal(t, []string{"application/json"}, frag.Consumes)
	assert.Equal(t, []string{"application/json", "application/xml"}, frag.Produces)
	assert.Equal(t, []string{"info"}, frag.Unrecognized)
}

func TestDecodeFragment_BadShape(t *testing.T) {
	t.Parallel()
	_, err := DecodeFragment(map[string]any{"definitions": []any{"not", "a", "map"}})
	require.ErrorContains(t, err, `"definitions"`)
}

func TestDecodeDefinition(t *testing.T) {
	t.Parallel()
	raw := decodeYAML(t, `
info:
  title: Petstore
  version: 1.0.0
host: petstore.example.com
basePath: /v2
schemes: [https]
tags:
  - name: pet
securityDefinitions:
  petstore_auth:
    type: oauth2
    flow: implicit
    authorizationUrl: https://petstore.example.com/oauth
    scopes:
      write:pets: modify pets
`)
	doc, err := DecodeDefinition(raw)
	require.NoError(t, err)
	assert.Equal(t, "Petstore", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Equal(t, "petstore.example.com", doc.Host)
	assert.Equal(t, "/v2", doc.BasePath)
	assert.Equal(t, []string{"https"}, doc.Schemes)
	assert.Equal(t, []Tag{{Name: "pet"}}, doc.Tags)
	assert.Equal(t, map[string]string{"write:pets": "modify pets"}, doc.SecurityDefinitions["petstore_auth"].Scopes)
}

func TestDecodeDefinition_Error(t *testing.T) {
	t.Parallel()
	_, err := DecodeDefinition(map[string]any{"tags": "not a list"})
	require.Error(t, err)
	var se *SpecError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ParseError, se.Code)
}
