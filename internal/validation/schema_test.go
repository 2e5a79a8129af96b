package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatorAcceptsDocFrontMatter(t *testing.T) {
	validator, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	payload := map[string]any{
		"sidebar_position": 1,
		"tags":             []any{"kotlin", "basics"},
		"pagination_next":  nil,
		"audience":         "beginners",
		"nested":           map[string]any{"level": 2},
	}
	if err := validator.Validate(payload); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
	if err := validator.Validate(nil); err != nil {
		t.Fatalf("expected empty payload to validate, got %v", err)
	}
}

func TestValidatorReportsIssues(t *testing.T) {
	validator, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	tests := []struct {
		name     string
		payload  map[string]any
		location string
	}{
		{name: "id with slash", payload: map[string]any{"id": "a/b"}, location: "/id"},
		{name: "position type", payload: map[string]any{"sidebar_position": "first"}, location: "/sidebar_position"},
		{name: "toc range", payload: map[string]any{"toc_max_heading_level": 7}, location: "/toc_max_heading_level"},
		{name: "draft type", payload: map[string]any{"draft": "yes"}, location: "/draft"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.payload)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !errors.Is(err, ErrSchemaValidation) {
				t.Fatalf("expected ErrSchemaValidation, got %v", err)
			}
			issues := Issues(err)
			if len(issues) == 0 {
				t.Fatalf("expected issues for %v", err)
			}
			found := false
			for _, issue := range issues {
				if strings.HasSuffix(issue.Location, tt.location) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue at %s, got %+v", tt.location, issues)
			}
		})
	}
}

func TestExtendFrontMatterSchema(t *testing.T) {
	schema := ExtendFrontMatterSchema(map[string]any{
		"audience": map[string]any{"type": "string", "enum": []any{"beginners", "experts"}},
	})
	validator, err := NewValidator(schema)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	if err := validator.Validate(map[string]any{"audience": "beginners"}); err != nil {
		t.Fatalf("expected valid audience, got %v", err)
	}
	if err := validator.Validate(map[string]any{"audience": "everyone"}); err == nil {
		t.Fatalf("expected enum violation")
	}
	if _, ok := FrontMatterSchema()["properties"].(map[string]any)["audience"]; ok {
		t.Fatalf("extending must not mutate the base schema")
	}
}

func TestNewValidatorRejectsBrokenSchema(t *testing.T) {
	_, err := NewValidator(map[string]any{"type": 12})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidatorDecodesNumbersFromYAMLValues(t *testing.T) {
	validator, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	payload := map[string]any{
		"sidebar_position":      2.5,
		"toc_min_heading_level": float64(2),
		"toc_max_heading_level": uint8(4),
		"tags":                  "kotlin",
	}
	if err := validator.Validate(payload); err != nil {
		t.Fatalf("expected numeric front matter to validate, got %v", err)
	}

	err = validator.Validate(map[string]any{"toc_min_heading_level": 2.5})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected fractional heading level to fail, got %v", err)
	}
}
