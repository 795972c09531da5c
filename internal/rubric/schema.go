package rubric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/rubricai-api/internal/models"
)

const schemaURL = "rubricai://evaluation.schema.json"

const evaluationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": [
    "logic_score",
    "logic_feedback",
    "readability_score",
    "readability_feedback",
    "total_score",
    "final_summary"
  ],
  "properties": {
    "logic_score": {"type": "integer", "minimum": 0, "maximum": 5},
    "logic_feedback": {"type": "string"},
    "readability_score": {"type": "integer", "minimum": 0, "maximum": 5},
    "readability_feedback": {"type": "string"},
    "total_score": {"type": "integer", "minimum": 0, "maximum": 10},
    "final_summary": {"type": "string"}
  }
}`

// SchemaViolationError reports a well-formed reply that does not follow the rubric shape.
type SchemaViolationError struct {
	Raw    string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("ai response does not match rubric schema: %s", e.Reason)
}

// Is reports ErrMalformedResponse; a schema mismatch is handled like unparseable output.
func (e *SchemaViolationError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Validator checks evaluations against the rubric schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded rubric schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(evaluationSchema)); err != nil {
		return nil, fmt.Errorf("add rubric schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile rubric schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate returns a *SchemaViolationError when the evaluation misses rubric fields.
func (v *Validator) Validate(evaluation models.Evaluation) error {
	decoder := json.NewDecoder(bytes.NewReader(evaluation))
	decoder.UseNumber()

	var payload interface{}
	if err := decoder.Decode(&payload); err != nil {
		return &SchemaViolationError{Raw: string(evaluation), Reason: err.Error()}
	}

	if err := v.schema.Validate(payload); err != nil {
		return &SchemaViolationError{Raw: string(evaluation), Reason: err.Error()}
	}
	return nil
}
