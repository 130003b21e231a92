package spec

// Swagger 2.0 object model produced by the translators and folded by the
// aggregator. Field order follows the Swagger 2.0 schema so encoded documents
// read naturally.

const swaggerVersion = "2.0"

// Document is the root Swagger object.
type Document struct {
	Swagger             string                     `json:"swagger" yaml:"swagger"`
	Info                *Info                      `json:"info,omitempty" yaml:"info,omitempty"`
	Host                string                     `json:"host,omitempty" yaml:"host,omitempty"`
	BasePath            string                     `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Schemes             []string                   `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Consumes            []string                   `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces            []string                   `json:"produces,omitempty" yaml:"produces,omitempty"`
	Paths               map[string]PathItem        `json:"paths" yaml:"paths"`
	Definitions         map[string]*Schema         `json:"definitions" yaml:"definitions"`
	Parameters          map[string]*Parameter      `json:"parameters" yaml:"parameters"`
	Responses           map[string]*Response       `json:"responses" yaml:"responses"`
	SecurityDefinitions map[string]*SecurityScheme `json:"securityDefinitions" yaml:"securityDefinitions"`
	Security            []SecurityRequirement      `json:"security,omitempty" yaml:"security,omitempty"`
	Tags                []Tag                      `json:"tags" yaml:"tags"`
	ExternalDocs        *ExternalDocs              `json:"externalDocs,omitempty" yaml:"externalDocs,omitempty"`
}

// Info provides metadata about the API.
type Info struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	TermsOfService string   `json:"termsOfService,omitempty" yaml:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
	License        *License `json:"license,omitempty" yaml:"license,omitempty"`
	Version        string   `json:"version" yaml:"version"`
}

type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

type License struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

type ExternalDocs struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url" yaml:"url"`
}

// PathItem maps a lowercase HTTP method to its operation.
type PathItem map[string]*Operation

// Operation describes one API operation on a path.
type Operation struct {
	Tags        []string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Consumes    []string              `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces    []string              `json:"produces,omitempty" yaml:"produces,omitempty"`
	Parameters  []*Parameter          `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   map[string]*Response  `json:"responses" yaml:"responses"`
	Security    []SecurityRequirement `json:"security,omitempty" yaml:"security,omitempty"`
	Deprecated  bool                  `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Parameter describes a single operation parameter. Exactly one of Type and
// Schema is set.
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required" yaml:"required"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string  `json:"format,omitempty" yaml:"format,omitempty"`
	Items       *Schema `json:"items,omitempty" yaml:"items,omitempty"`
	Enum        []any   `json:"enum,omitempty" yaml:"enum,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Response describes a single response from an operation.
type Response struct {
	Description string             `json:"description" yaml:"description"`
	Schema      *Schema            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Headers     map[string]*Header `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Header describes a response header.
type Header struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Schema is the subset of the 2.0 schema object the translators emit, plus
// oneOf for multi-argument applications.
type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	AllOf       []*Schema          `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	OneOf       []*Schema          `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Enum        []any              `json:"enum,omitempty" yaml:"enum,omitempty"`
	Example     any                `json:"example,omitempty" yaml:"example,omitempty"`
	ReadOnly    bool               `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
}

// Tag is a named operation grouping.
type Tag struct {
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty" yaml:"externalDocs,omitempty"`
}

// SecurityScheme is a security definition.
type SecurityScheme struct {
	Type             string            `json:"type" yaml:"type"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty"`
	Name             string            `json:"name,omitempty" yaml:"name,omitempty"`
	In               string            `json:"in,omitempty" yaml:"in,omitempty"`
	Flow             string            `json:"flow,omitempty" yaml:"flow,omitempty"`
	AuthorizationURL string            `json:"authorizationUrl,omitempty" yaml:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty" yaml:"tokenUrl,omitempty"`
	Scopes           map[string]string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// SecurityRequirement maps a scheme name to the scopes it needs.
type SecurityRequirement map[string][]string

// Fragment is the unit the aggregator folds into a Document: the output of
// one formatted comment block or one raw fragment file.
type Fragment struct {
	Paths               map[string]PathItem
	Tags                []Tag
	Definitions         map[string]*Schema
	Parameters          map[string]*Parameter
	Responses           map[string]*Response
	SecurityDefinitions map[string]*SecurityScheme
	Consumes            []string
	Produces            []string
	Schemes             []string

	// Unrecognized lists tag titles or fragment keys nothing could translate.
	Unrecognized []string
}
