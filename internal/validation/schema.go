package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// FrontMatterSchema returns the JSON schema applied to doc front matter.
// Unknown keys are allowed so authors can carry custom metadata.
func FrontMatterSchema() map[string]any {
	headingLevel := map[string]any{"type": "integer", "minimum": 2, "maximum": 6}
	optionalDocRef := map[string]any{"type": []any{"string", "null"}}

	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"id":                    map[string]any{"type": "string", "minLength": 1, "pattern": "^[^/]+$"},
			"title":                 map[string]any{"type": "string"},
			"description":           map[string]any{"type": "string"},
			"slug":                  map[string]any{"type": "string", "minLength": 1},
			"sidebar_label":         map[string]any{"type": "string"},
			"sidebar_position":      map[string]any{"type": "number"},
			"tags":                  map[string]any{"type": []any{"array", "string"}, "items": map[string]any{"type": "string"}},
			"draft":                 map[string]any{"type": "boolean"},
			"unlisted":              map[string]any{"type": "boolean"},
			"hide_title":            map[string]any{"type": "boolean"},
			"toc_min_heading_level": headingLevel,
			"toc_max_heading_level": headingLevel,
			"pagination_prev":       optionalDocRef,
			"pagination_next":       optionalDocRef,
		},
		"additionalProperties": true,
	}
}

// Validator validates payloads against a compiled schema. It is safe for
// concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schema, falling back to FrontMatterSchema when it is
// empty.
func NewValidator(schema map[string]any) (*Validator, error) {
	if len(schema) == 0 {
		schema = FrontMatterSchema()
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Validator{schema: compiled}, nil
}

// ExtendFrontMatterSchema layers extra property definitions over the default
// front matter schema.
func ExtendFrontMatterSchema(properties map[string]any) map[string]any {
	schema := FrontMatterSchema()
	if len(properties) == 0 {
		return schema
	}
	merged := maps.Clone(schema["properties"].(map[string]any))
	maps.Copy(merged, properties)
	schema["properties"] = merged
	return schema
}

// Validate checks payload. Values are round-tripped through JSON so YAML
// decoded numbers and nested maps validate like their JSON equivalents.
func (v *Validator) Validate(payload map[string]any) error {
	if v == nil || v.schema == nil {
		return nil
	}
	if payload == nil {
		payload = map[string]any{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	var instance any
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := v.schema.Validate(instance); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
