// Package schemas validates evaluation output against JSON Schema.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed evaluation_result.schema.json
var evaluationResultSchema string

// EvaluationResultSchema returns the embedded schema for a list of evaluation results.
func EvaluationResultSchema() string {
	return evaluationResultSchema
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateResults checks that results serialise to a document matching the embedded schema.
func ValidateResults(results []types.EvaluationResult) error {
	if results == nil {
		results = []types.EvaluationResult{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return validate(gojsonschema.NewStringLoader(evaluationResultSchema), "(embedded evaluation schema)",
		gojsonschema.NewBytesLoader(data))
}

// ValidateResult checks a single result.
func ValidateResult(result types.EvaluationResult) error {
	return ValidateResults([]types.EvaluationResult{result})
}

// ValidateResultsFile validates a results JSON file written by the CLI
func ValidateResultsFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", absPath)
	}
	return validate(gojsonschema.NewStringLoader(evaluationResultSchema), "(embedded evaluation schema)",
		gojsonschema.NewReferenceLoader("file://"+absPath))
}

func validate(schemaLoader gojsonschema.JSONLoader, schemaName string, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
