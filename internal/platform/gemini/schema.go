package gemini

import (
	"github.com/phrazzld/skillpath-api/internal/generation"
	"google.golang.org/genai"
)

var schemaTypes = map[generation.Type]genai.Type{
	generation.TypeString:  genai.TypeString,
	generation.TypeNumber:  genai.TypeNumber,
	generation.TypeInteger: genai.TypeInteger,
	generation.TypeBoolean: genai.TypeBoolean,
	generation.TypeArray:   genai.TypeArray,
	generation.TypeObject:  genai.TypeObject,
}

// toGenaiSchema converts a provider-neutral schema into its genai form.
func toGenaiSchema(s *generation.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
		// Keep the model's field order stable across calls.
		out.PropertyOrdering = s.Required
	}
	return out
}
