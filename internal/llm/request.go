package llm

// Request is a single generation call.
type Request struct {
	Prompt            string
	SystemInstruction string
	Tier              ModelTier
	Params            GenerationParams
	// JSONOutput asks the provider for an application/json response without a schema.
	JSONOutput bool
	// Schema, when set, constrains the response to JSON of this shape.
	Schema *Schema
}

// GenerationParams holds sampling parameters. Zero values leave the provider default in place.
type GenerationParams struct {
	Temperature     *float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

// Temperature returns a pointer to t for use in GenerationParams.
func Temperature(t float32) *float32 {
	return &t
}

// SchemaType is a JSON Schema type name in the provider's OpenAPI subset.
type SchemaType string

// Schema types
const (
	TypeString  SchemaType = "STRING"
	TypeNumber  SchemaType = "NUMBER"
	TypeInteger SchemaType = "INTEGER"
	TypeBoolean SchemaType = "BOOLEAN"
	TypeArray   SchemaType = "ARRAY"
	TypeObject  SchemaType = "OBJECT"
)

// Schema describes the structured output a request expects.
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Properties  map[string]*Schema
	// Order fixes property order when the schema is rendered into prompt text.
	Order    []string
	Required []string
	Items    *Schema
}
