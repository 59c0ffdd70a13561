package hooks

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/grovetools/quill/errors"
)

//go:embed precommit.schema.json
var schemaJSON []byte

var compiledSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("precommit.schema.json", strings.NewReader(string(schemaJSON))); err != nil {
		panic(fmt.Sprintf("failed to add hook schema resource: %v", err))
	}
	schema, err := compiler.Compile("precommit.schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile hook schema: %v", err))
	}
	compiledSchema = schema
}

// Validate checks a parsed hook configuration against the embedded JSON
// schema and returns every violation, not just the first.
func Validate(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal hook config for validation")
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to unmarshal hook config for validation")
	}

	if err := compiledSchema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if e, ok := err.(*jsonschema.ValidationError); ok {
			ve = e
		} else {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "hook config validation failed")
		}

		var violations []string
		collectViolations(ve, &violations)
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("hook config validation failed:\n  - %s", strings.Join(violations, "\n  - ")))
	}

	return nil
}

// collectViolations walks the validation error tree and keeps the leaf
// messages, which carry the actual violations.
func collectViolations(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		location := ve.InstanceLocation
		if location == "" {
			location = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", location, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectViolations(cause, out)
	}
}
