package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema is the JSON Schema for the service configuration file.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "version": {"type": "string", "enum": ["1"]},
    "case files": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "extension files": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "compact files": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "update files": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "request keys": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "key defaults": {"type": "object"},
    "require request keys": {"type": "boolean"},
    "default response status": {"type": "integer", "minimum": 100, "maximum": 599},
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "format": {"type": "string", "enum": ["text", "json"]}
      },
      "additionalProperties": false
    }
  },
  "required": ["case files"],
  "additionalProperties": false
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.schema.json", strings.NewReader(configSchema)); err != nil {
		panic(fmt.Sprintf("config: add schema resource: %v", err))
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		panic(fmt.Sprintf("config: compile schema: %v", err))
	}
	return schema
}

// SchemaError is a single schema-validation failure.
type SchemaError struct {
	Path    string // config location, e.g. "/request keys/0"
	Message string
}

func (e SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// SchemaErrors aggregates every schema-validation failure in one file.
type SchemaErrors struct {
	Errors []SchemaError
}

func (e *SchemaErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		msgs[i] = se.Error()
	}
	return "schema validation failed: " + strings.Join(msgs, "; ")
}

// ValidateSchema checks a decoded configuration document against the config
// schema. The document is round-tripped through JSON so that YAML-decoded
// types normalize to what the validator expects.
func ValidateSchema(doc any) error {
	normalized, err := normalizeForSchema(doc)
	if err != nil {
		return err
	}
	if err := compiledSchema.Validate(normalized); err != nil {
		result := &SchemaErrors{}
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			collectSchemaErrors(ve, result)
		} else {
			result.Errors = append(result.Errors, SchemaError{Message: err.Error()})
		}
		return result
	}
	return nil
}

func normalizeForSchema(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("configuration is not JSON-representable: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func collectSchemaErrors(err *jsonschema.ValidationError, result *SchemaErrors) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, SchemaError{
			Path:    err.InstanceLocation,
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, result)
	}
}
