package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateDocumentSchema generates the JSON Schema of the flat settings
// document for s. Only value types are constrained: out-of-domain values are
// repaired by the validator after import rather than rejected here.
func GenerateDocumentSchema(s *Schema) ([]byte, error) {
	root := &jsonschema.Schema{
		Version:              "http://json-schema.org/draft-07/schema#",
		Title:                s.ID(),
		Description:          "Portable settings document",
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}

	for _, key := range s.Keys() {
		def, _ := s.Lookup(key)
		prop := &jsonschema.Schema{
			Type:        def.Type.JSONType(),
			Description: describe(def),
			Default:     def.Default,
		}
		root.Properties.Set(string(key), prop)
	}

	return json.MarshalIndent(root, "", "  ")
}

func describe(def *Definition) string {
	switch {
	case def.Domain != nil:
		return fmt.Sprintf("%s (one of %d %s)", def.Summary, def.Domain.Len(), def.Domain.Name())
	case def.Bounded && def.Type == TypeInt:
		return fmt.Sprintf("%s (%d to %d)", def.Summary, int(def.Min), int(def.Max))
	case def.Bounded:
		return fmt.Sprintf("%s (%g to %g)", def.Summary, def.Min, def.Max)
	}
	return def.Summary
}
