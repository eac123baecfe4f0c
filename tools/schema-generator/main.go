// Command schema-generator writes the JSON Schemas published with wallprefs:
// the tool configuration, its logging section and the settings document
// accepted by import.
package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/wallprefs/config"
	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/schema"
	"github.com/invopop/jsonschema"
)

func loggingSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	s := r.Reflect(&logging.Config{})
	s.Title = "wallprefs Logging Configuration"
	s.Description = "Schema for the 'logging' section of wallprefs.yml."
	// Every field is optional.
	s.Required = nil

	return json.MarshalIndent(s, "", "  ")
}

func main() {
	outputDir := "schema/definitions"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	generators := []struct {
		file string
		gen  func() ([]byte, error)
	}{
		{"wallprefs.schema.json", config.GenerateSchema},
		{"logging.schema.json", loggingSchema},
		{"settings-document.schema.json", func() ([]byte, error) {
			return schema.GenerateDocumentSchema(schema.Wallpaper())
		}},
	}

	for _, g := range generators {
		data, err := g.gen()
		if err != nil {
			log.Fatalf("Error generating %s: %v", g.file, err)
		}
		outputPath := filepath.Join(outputDir, g.file)
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Fatalf("Error writing schema file: %v", err)
		}
		log.Printf("Generated %s", outputPath)
	}
}
