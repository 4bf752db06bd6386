package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/courtdocs/constants"
)

// BuildParsedDocumentSchema returns the JSON-Schema every committed
// parsed_document.json must satisfy.
func BuildParsedDocumentSchema() map[string]any {
	sexes := []any{string(constants.SexMasculine), string(constants.SexFeminine), nil}

	props := map[string]any{
		"document_sections": object(map[string]any{
			"header":   nullableString(),
			"ruling":   nullableString(),
			"decision": nullableString(),
		}, "header", "ruling", "decision"),
		"document_issue_date": nullableString(),
		"document_regulatory_framework": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"document_decision_status": map[string]any{
			"enum": []any{constants.DecisionSatisfied, constants.DecisionRejected, constants.NoOccurrence, nil},
		},
		"case_form": map[string]any{
			"enum": append(stringsAsAny(constants.CaseFormsAsStrings()), nil),
		},
		"case_parties_info": object(map[string]any{
			"total": map[string]any{"type": "integer", "minimum": 0},
			"parties": map[string]any{
				"type": "array",
				"items": object(map[string]any{
					"name": map[string]any{"type": "string", "pattern": `^ОСОБА_\d+$`},
					"sex":  map[string]any{"enum": sexes},
				}, "name", "sex"),
			},
		}, "total", "parties"),
		"court_commission": object(map[string]any{
			"judge":      nullableString(),
			"prosecutor": nullableString(),
			"clerk":      nullableString(),
		}, "judge", "prosecutor", "clerk"),
		"court_location": nullableString(),
	}

	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

func stringsAsAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func parsedDocumentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildParsedDocumentSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("parsed_document.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("parsed_document.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateParsedDocument checks serialized output against the schema.
func ValidateParsedDocument(data []byte) error {
	schema, err := parsedDocumentSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("parsed document does not match schema: %w", err)
	}
	return nil
}
