package hooks

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the hook configuration types into a JSON Schema.
// The embedded precommit.schema.json is produced from this by the
// hooks-schema-generator tool.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown keys are tolerated at load time with a warning, but the
		// schema itself describes the strict shape.
		AllowAdditionalProperties: false,
		// Expand the root struct instead of hiding it behind a $ref.
		ExpandedStruct: true,
		// Property names come from the YAML tags.
		FieldNameTag: "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Hook Configuration"
	schema.Description = "Schema for pre-commit hook configuration files."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
