// Package validation checks configuration documents against JSON schemas.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/shuv-amp/sp-differ/domain/entities"
	"github.com/shuv-amp/sp-differ/domain/ports"
)

// SchemaValidator implements DocumentValidator using a compiled JSON schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles schema under the given resource name.
func NewSchemaValidator(name string, schema []byte) (ports.DocumentValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}
	return &SchemaValidator{schema: sch}, nil
}

// Validate checks doc against the schema. Violations are reported in the
// result; the error is reserved for documents that cannot be prepared.
func (v *SchemaValidator) Validate(doc any) (*entities.ValidationResult, error) {
	// Round-trip through JSON so YAML-decoded values get JSON types.
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}
	var obj any
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}

	result := &entities.ValidationResult{Valid: true}
	err = v.schema.Validate(obj)
	if err == nil {
		return result, nil
	}

	result.Valid = false
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, entities.ValidationError{Message: err.Error()})
		return result, nil
	}
	collectLeaves(ve, &result.Errors)
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Field < result.Errors[j].Field
	})
	return result, nil
}

// collectLeaves flattens the cause tree into its most specific errors.
func collectLeaves(ve *jsonschema.ValidationError, out *[]entities.ValidationError) {
	if len(ve.Causes) == 0 {
		*out = append(*out, entities.ValidationError{
			Field:   fieldPath(ve.InstanceLocation),
			Message: ve.Message,
		})
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}

// fieldPath turns a JSON pointer such as /workers/cpp into workers.cpp.
func fieldPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}
	return strings.Join(parts, ".")
}
