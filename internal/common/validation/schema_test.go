package validation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"userId"},
	"properties": map[string]interface{}{
		"userId": map[string]interface{}{"type": "string", "minLength": 1},
		"size":   map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 50},
		"mode":   map[string]interface{}{"type": "string", "enum": []interface{}{"fast", "full"}},
	},
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Register("load", profileSchema))
	assert.True(t, v.Has("load"))

	tests := []struct {
		name  string
		doc   map[string]interface{}
		valid bool
		field string
		code  string
	}{
		{name: "valid", doc: map[string]interface{}{"userId": "u1", "size": 10, "extra": true}, valid: true},
		{name: "missing required", doc: map[string]interface{}{}, field: "userId", code: "REQUIRED_FIELD_MISSING"},
		{name: "wrong type", doc: map[string]interface{}{"userId": 7}, field: "userId", code: "INVALID_TYPE"},
		{name: "empty string", doc: map[string]interface{}{"userId": ""}, field: "userId", code: "MIN_LENGTH_VIOLATION"},
		{name: "above maximum", doc: map[string]interface{}{"userId": "u", "size": 51}, field: "size", code: "MAX_VALUE_VIOLATION"},
		{name: "enum", doc: map[string]interface{}{"userId": "u", "mode": "slow"}, field: "mode", code: "INVALID_ENUM_VALUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate("load", tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.valid {
				assert.Empty(t, res.Errors)
				assert.Equal(t, "valid", res.String())
				return
			}
			require.NotEmpty(t, res.Errors)
			assert.Equal(t, tt.field, res.Errors[0].Field)
			assert.Equal(t, tt.code, res.Errors[0].Code)
			assert.Contains(t, res.String(), tt.field+": ")
		})
	}
}

func TestValidator_UnregisteredAndEmpty(t *testing.T) {
	v := NewValidator()

	res, err := v.Validate("nope", map[string]interface{}{"anything": 1})
	require.NoError(t, err)
	assert.True(t, res.Valid)

	require.NoError(t, v.Register("open", nil))
	res, err = v.Validate("open", map[string]interface{}{"x": 1})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestRegister_RejectsBrokenSchema(t *testing.T) {
	err := NewValidator().Register("broken", map[string]interface{}{"type": 12})
	assert.ErrorContains(t, err, "broken")
}

func TestValidateDocument_Nested(t *testing.T) {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"userProfile": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"educationLevel"},
			},
		},
	}
	res, err := ValidateDocument(schema, map[string]interface{}{"userProfile": map[string]interface{}{}})
	require.NoError(t, err)
	require.False(t, res.Valid)
	assert.Equal(t, "userProfile.educationLevel", res.Errors[0].Field)
	assert.Equal(t, []string{res.Errors[0].Field + ": " + res.Errors[0].Message}, res.Details())
}

func TestValidator_Concurrent(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Register("load", profileSchema))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := v.Validate("load", map[string]interface{}{"userId": "u"})
			assert.NoError(t, err)
			assert.True(t, res.Valid)
		}()
	}
	wg.Wait()
}
