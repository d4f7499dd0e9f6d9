package visa

import (
	"fmt"
	"regexp"

	"visa-pathway-workers/internal/models"
)

// KnowledgeBase is an immutable, ordered catalog of visa definitions.
// It is safe for concurrent use once constructed.
type KnowledgeBase struct {
	defs  []Definition
	index map[string]int
}

var idPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// New builds a knowledge base from defs, keeping their declaration order.
// Only structural problems (empty or duplicate ids) are rejected here; catalog
// quality problems are reported by Validate.
func New(defs []Definition) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("visa definition at position %d has an empty id", i)
		}
		if _, dup := kb.index[d.ID]; dup {
			return nil, fmt.Errorf("duplicate visa id %q", d.ID)
		}
		kb.index[d.ID] = len(kb.defs)
		kb.defs = append(kb.defs, cloneDefinition(d))
	}
	return kb, nil
}

// MustNew is New for catalogs known to be well formed, such as DefaultCatalog.
func MustNew(defs []Definition) *KnowledgeBase {
	kb, err := New(defs)
	if err != nil {
		panic(err)
	}
	return kb
}

// NewDefault returns a knowledge base over the built-in catalog.
func NewDefault() *KnowledgeBase {
	return MustNew(DefaultCatalog())
}

func (kb *KnowledgeBase) Get(id string) (Definition, bool) {
	i, ok := kb.index[id]
	if !ok {
		return Definition{}, false
	}
	return kb.defs[i], true
}

func (kb *KnowledgeBase) Has(id string) bool {
	_, ok := kb.index[id]
	return ok
}

// All returns the definitions in declaration order. Callers must not modify
// the rule or next-step slices of the returned values.
func (kb *KnowledgeBase) All() []Definition {
	out := make([]Definition, len(kb.defs))
	copy(out, kb.defs)
	return out
}

func (kb *KnowledgeBase) IDs() []string {
	ids := make([]string, len(kb.defs))
	for i, d := range kb.defs {
		ids[i] = d.ID
	}
	return ids
}

func (kb *KnowledgeBase) Len() int {
	return len(kb.defs)
}

// Issue is a catalog data problem found by Validate.
type Issue struct {
	VisaID  string `json:"visaId"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.VisaID, i.Message)
}

// Validate reports dangling next-step edges, out-of-range enums and rules
// whose operator and value do not pair.
func (kb *KnowledgeBase) Validate() []Issue {
	var issues []Issue
	add := func(id, format string, args ...interface{}) {
		issues = append(issues, Issue{VisaID: id, Message: fmt.Sprintf(format, args...)})
	}

	for _, d := range kb.defs {
		if !idPattern.MatchString(d.ID) {
			add(d.ID, "id must be a lowercase alphanumeric token")
		}
		if !d.Category.Valid() {
			add(d.ID, "unknown category %q", d.Category)
		}
		if !d.Tier.Valid() {
			add(d.ID, "unknown tier %q", d.Tier)
		}
		if !d.TimeHorizon.Valid() {
			add(d.ID, "unknown time horizon %q", d.TimeHorizon)
		}
		if d.Difficulty < 1 || d.Difficulty > 3 {
			add(d.ID, "difficulty %d outside 1..3", d.Difficulty)
		}

		for i, r := range d.EligibilityRules {
			if msg := CheckRule(r); msg != "" {
				add(d.ID, "rule %d (%s): %s", i, r.Field, msg)
			}
		}

		for _, step := range d.CommonNextSteps {
			switch {
			case step.VisaID == d.ID:
				add(d.ID, "next step points to itself")
			case !kb.Has(step.VisaID):
				add(d.ID, "next step %q does not resolve to a visa", step.VisaID)
			}
		}
	}
	return issues
}

// CheckRule returns a description of what is wrong with r, or "" if it is well formed.
func CheckRule(r EligibilityRule) string {
	if !r.Field.Known() {
		return fmt.Sprintf("unknown field %q", r.Field)
	}
	if !r.Operator.Known() {
		return fmt.Sprintf("unknown operator %q", r.Operator)
	}

	switch r.Operator {
	case OpIncludes, OpExcludes:
		if r.Value.Kind != KindList {
			return fmt.Sprintf("%s requires a list value, got %s", r.Operator, r.Value.Kind)
		}
	case OpGTE, OpLTE:
		if r.Field == FieldEducationLevel && r.Value.Kind == KindString {
			if _, ok := models.EducationLevel(r.Value.Str).Ordinal(); !ok {
				return fmt.Sprintf("unknown education level %q", r.Value.Str)
			}
			return ""
		}
		if r.Value.Kind != KindNumber {
			return fmt.Sprintf("%s requires a number value, got %s", r.Operator, r.Value.Kind)
		}
	case OpEQ:
		if r.Value.Kind != KindNumber && r.Value.Kind != KindString {
			return fmt.Sprintf("eq requires a scalar value, got %s", r.Value.Kind)
		}
	}
	return ""
}

func cloneDefinition(d Definition) Definition {
	out := d
	out.EligibilityRules = make([]EligibilityRule, len(d.EligibilityRules))
	for i, r := range d.EligibilityRules {
		r.Value.List = append([]string(nil), r.Value.List...)
		out.EligibilityRules[i] = r
	}
	out.CommonNextSteps = make([]NextStep, len(d.CommonNextSteps))
	copy(out.CommonNextSteps, d.CommonNextSteps)
	return out
}
