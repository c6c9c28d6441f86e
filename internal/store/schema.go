package store

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/propath/internal/utils"
)

//go:embed schema/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://github.com/nibzard/propath/schema/"

var (
	schemasOnce sync.Once
	schemas     map[int]*jsonschema.Schema
	schemasErr  error
)

func compiledSchemas() (map[int]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiled := make(map[int]*jsonschema.Schema, 2)
		for version, name := range map[int]string{
			VersionLegacy:  "snapshot-v1.json",
			CurrentVersion: "snapshot-v2.json",
		} {
			data, err := schemaFS.ReadFile("schema/" + name)
			if err != nil {
				schemasErr = fmt.Errorf("read schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(data)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
			sch, err := compiler.Compile(schemaBaseURL + name)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			compiled[version] = sch
		}
		schemas = compiled
	})
	return schemas, schemasErr
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the offending value
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Version  int // 0 when the shape matched no known version
	Errors   []error
	Warnings []string
}

// DetectVersion reports the snapshot version of a generic document, or 0
// if it looks like neither version.
func DetectVersion(doc any) int {
	switch v := doc.(type) {
	case []any:
		return VersionLegacy
	case map[string]any:
		if n, ok := v["schema_version"].(float64); ok && int(n) == CurrentVersion {
			return CurrentVersion
		}
	}
	return 0
}

// validateDocument checks a canonical JSON document against the schema of
// its version.
func validateDocument(canonical []byte) *ValidationResult {
	result := &ValidationResult{Valid: true}

	var doc any
	if err := json.Unmarshal(canonical, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("decode document: %w", err)})
		return result
	}

	result.Version = DetectVersion(doc)
	if result.Version == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: errors.New("not a course list: expected an array (v1) or an object with schema_version 2"),
		})
		return result
	}
	if result.Version == VersionLegacy {
		result.Warnings = append(result.Warnings, "legacy v1 snapshot; it will be migrated on next save")
	}

	compiled, err := compiledSchemas()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("schema validation not available: %v", err))
		return result
	}
	if err := compiled[result.Version].Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
