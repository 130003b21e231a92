package spec

// TagKind is the closed set of comment tags the translators understand.
type TagKind int

const (
	KindUnknown TagKind = iota
	KindRoute
	KindGroup
	KindParam
	KindReturns
	KindHeaders
	KindSecurity
	KindProduces
	KindConsumes
	KindDeprecated
	KindSummary
	KindOperationID
	KindTypedef
	KindProperty
)

var kindByTitle = map[string]TagKind{
	"route":       KindRoute,
	"group":       KindGroup,
	"param":       KindParam,
	"returns":     KindReturns,
	"return":      KindReturns,
	"headers":     KindHeaders,
	"header":      KindHeaders,
	"security":    KindSecurity,
	"produces":    KindProduces,
	"consumes":    KindConsumes,
	"deprecated":  KindDeprecated,
	"summary":     KindSummary,
	"operationId": KindOperationID,
	"typedef":     KindTypedef,
	"property":    KindProperty,
	"prop":        KindProperty,
}

// KindOf classifies a tag title. Unlisted titles are KindUnknown.
func KindOf(title string) TagKind {
	return kindByTitle[title]
}

func (k TagKind) String() string {
	switch k {
	case KindRoute:
		return "route"
	case KindGroup:
		return "group"
	case KindParam:
		return "param"
	case KindReturns:
		return "returns"
	case KindHeaders:
		return "headers"
	case KindSecurity:
		return "security"
	case KindProduces:
		return "produces"
	case KindConsumes:
		return "consumes"
	case KindDeprecated:
		return "deprecated"
	case KindSummary:
		return "summary"
	case KindOperationID:
		return "operationId"
	case KindTypedef:
		return "typedef"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}
