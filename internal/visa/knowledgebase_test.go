package visa

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_IsValid(t *testing.T) {
	kb := NewDefault()

	assert.Empty(t, kb.Validate())
	assert.Equal(t, len(DefaultCatalog()), kb.Len())
	assert.Equal(t, "b2", kb.IDs()[0])

	k1, ok := kb.Get("k1")
	require.True(t, ok)
	assert.Empty(t, k1.EligibilityRules)
}

func TestDefaultCatalog_ReturnsFreshCopies(t *testing.T) {
	a := DefaultCatalog()
	a[0].ID = "mutated"
	assert.Equal(t, "b2", DefaultCatalog()[0].ID)
}

func TestNew_RejectsDuplicateAndEmptyIDs(t *testing.T) {
	_, err := New([]Definition{{ID: "a"}, {ID: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = New([]Definition{{ID: ""}})
	require.Error(t, err)
}

func TestNew_IsolatedFromCallerSlices(t *testing.T) {
	defs := []Definition{{
		ID:               "a",
		Category:         CategoryWorker,
		Tier:             TierEntry,
		Difficulty:       1,
		EligibilityRules: []EligibilityRule{{Field: FieldCountryOfCitizenship, Operator: OpIncludes, Value: List("CA")}},
	}}
	kb := MustNew(defs)

	defs[0].EligibilityRules[0].Value.List[0] = "XX"
	got, _ := kb.Get("a")
	assert.Equal(t, []string{"CA"}, got.EligibilityRules[0].Value.List)
}

func TestValidate_ReportsIssues(t *testing.T) {
	kb := MustNew([]Definition{
		{
			ID:         "a",
			Category:   CategoryWorker,
			Tier:       TierEntry,
			Difficulty: 2,
			EligibilityRules: []EligibilityRule{
				{Field: FieldCountryOfCitizenship, Operator: OpIncludes, Value: Str("CA")},
				{Field: FieldYearsOfExperience, Operator: OpGTE, Value: Str("three")},
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("doctorate")},
				{Field: "shoeSize", Operator: OpEQ, Value: Num(9)},
			},
			CommonNextSteps: []NextStep{{VisaID: "ghost"}, {VisaID: "a"}},
		},
		{ID: "B", Category: "pirate", Tier: "legendary", TimeHorizon: "forever", Difficulty: 7},
	})

	issues := kb.Validate()
	var msgs []string
	for _, is := range issues {
		msgs = append(msgs, is.String())
	}
	joined := strings.Join(msgs, "\n")

	assert.Contains(t, joined, "includes requires a list value")
	assert.Contains(t, joined, "gte requires a number value")
	assert.Contains(t, joined, `unknown education level "doctorate"`)
	assert.Contains(t, joined, `unknown field "shoeSize"`)
	assert.Contains(t, joined, `next step "ghost" does not resolve`)
	assert.Contains(t, joined, "points to itself")
	assert.Contains(t, joined, "lowercase")
	assert.Contains(t, joined, `unknown category "pirate"`)
	assert.Contains(t, joined, `unknown tier "legendary"`)
	assert.Contains(t, joined, `unknown time horizon "forever"`)
	assert.Contains(t, joined, "difficulty 7")
}

func TestRuleValue_JSON(t *testing.T) {
	var rule EligibilityRule
	require.NoError(t, json.Unmarshal([]byte(`{"field":"investmentAmount","operator":"gte","value":787500}`), &rule))
	assert.Equal(t, Num(787500), rule.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"field":"countryOfCitizenship","operator":"includes","value":["CA","MX"]}`), &rule))
	assert.Equal(t, List("CA", "MX"), rule.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"field":"previousVisa","operator":"eq","value":"f1"}`), &rule))
	assert.Equal(t, Str("f1"), rule.Value)

	err := json.Unmarshal([]byte(`{"field":"x","operator":"includes","value":["a",1]}`), &rule)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"field":"x","operator":"eq","value":{"nested":true}}`), &rule)
	assert.Error(t, err)
}

func TestCatalogFile_WriteThenLoad(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, "2024.1", DefaultCatalog()))

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	kb, err := LoadKnowledgeBase(path)
	require.NoError(t, err)
	assert.Equal(t, NewDefault().IDs(), kb.IDs())
	assert.Empty(t, kb.Validate())

	eb5, ok := kb.Get("eb5")
	require.True(t, ok)
	assert.Equal(t, KindNumber, eb5.EligibilityRules[0].Value.Kind)
	assert.Equal(t, 787500.0, eb5.EligibilityRules[0].Value.Num)
}

func TestReadCatalog_Errors(t *testing.T) {
	_, err := ReadCatalog(strings.NewReader(`{"version":"1","visas":[]}`))
	assert.Error(t, err)

	_, err = ReadCatalog(strings.NewReader(`{"visas":[{"id":"a","bogus":1}]}`))
	assert.Error(t, err)

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadKnowledgeBase_EmptyPathUsesDefault(t *testing.T) {
	kb, err := LoadKnowledgeBase("")
	require.NoError(t, err)
	assert.True(t, kb.Has("h1b"))
}

func TestClassifyCitizenship(t *testing.T) {
	tests := []struct {
		code string
		want RestrictionCategory
	}{
		{"US", RestrictionUSNational},
		{"as", RestrictionUSNational},
		{"IN", RestrictionRestricted},
		{" cn ", RestrictionRestricted},
		{"MX", RestrictionRestricted},
		{"PH", RestrictionRestricted},
		{"DE", RestrictionUnrestricted},
		{"", RestrictionUnrestricted},
		{"ZZ", RestrictionUnrestricted},
		{"not-a-country", RestrictionUnrestricted},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCitizenship(tt.code))
		})
	}
}
