// Package validation checks job variables against JSON Schema documents.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Details renders the errors as "field: message" strings for BPMN error payloads.
func (r *ValidationResult) Details() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return out
}

func (r *ValidationResult) String() string {
	if r.Valid {
		return "valid"
	}
	return strings.Join(r.Details(), "; ")
}

// Validator holds compiled schemas by name. It is safe for concurrent use.
type Validator struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{schemas: make(map[string]*gojsonschema.Schema)}
}

func CompileSchema(schema map[string]interface{}) (*gojsonschema.Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// Register compiles schema under name. An empty schema accepts everything.
func (v *Validator) Register(name string, schema map[string]interface{}) error {
	if len(schema) == 0 {
		schema = map[string]interface{}{"type": "object"}
	}
	compiled, err := CompileSchema(schema)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	v.mu.Lock()
	v.schemas[name] = compiled
	v.mu.Unlock()
	return nil
}

func (v *Validator) Has(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.schemas[name]
	return ok
}

// Validate checks doc against the schema registered as name. Unregistered
// names validate successfully.
func (v *Validator) Validate(name string, doc interface{}) (*ValidationResult, error) {
	v.mu.RLock()
	schema, ok := v.schemas[name]
	v.mu.RUnlock()
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}
	return validate(schema, doc)
}

// ValidateDocument compiles schema and checks doc in one step.
func ValidateDocument(schema map[string]interface{}, doc interface{}) (*ValidationResult, error) {
	compiled, err := CompileSchema(schema)
	if err != nil {
		return nil, err
	}
	return validate(compiled, doc)
}

func validate(schema *gojsonschema.Schema, doc interface{}) (*ValidationResult, error) {
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	if res.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	errs := make([]ValidationError, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldOf(desc),
			Message: desc.Description(),
			Code:    codeOf(desc.Type()),
		})
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return &ValidationResult{Valid: false, Errors: errs}, nil
}

const rootContext = "(root)"

func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == rootContext {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}

var errorCodes = map[string]string{
	"required":                        "REQUIRED_FIELD_MISSING",
	"invalid_type":                    "INVALID_TYPE",
	"enum":                            "INVALID_ENUM_VALUE",
	"number_gte":                      "MIN_VALUE_VIOLATION",
	"number_lte":                      "MAX_VALUE_VIOLATION",
	"string_gte":                      "MIN_LENGTH_VIOLATION",
	"string_lte":                      "MAX_LENGTH_VIOLATION",
	"pattern":                         "PATTERN_MISMATCH",
	"additional_property_not_allowed": "EXTRA_FIELD",
}

func codeOf(kind string) string {
	if code, ok := errorCodes[kind]; ok {
		return code
	}
	return "SCHEMA_VIOLATION"
}
