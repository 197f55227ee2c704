package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/esgdesk/extraction-review/internal/validation"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "classification.json"

func classificationSchema() map[string]any {
	tables := []any{}
	for _, t := range validation.Tables() {
		tables = append(tables, t)
	}

	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"document_type", "extractions"},
		"properties": map[string]any{
			"document_type": map[string]any{"type": "string", "minLength": 1},
			"extractions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"target_table", "extracted_fields"},
					"properties": map[string]any{
						"target_table":     map[string]any{"type": "string", "enum": tables},
						"extracted_fields": map[string]any{"type": "object"},
						"confidence_scores": map[string]any{
							"type": "object",
							"additionalProperties": map[string]any{
								"type":    "number",
								"minimum": 0,
								"maximum": 100,
							},
						},
						"suggested_mappings": map[string]any{"type": "object"},
					},
				},
			},
		},
	}
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validatePayload checks raw gateway output before it is decoded into a Classification.
func validatePayload(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
