// Package visa holds the visa catalog schema, the built-in catalog and the
// immutable KnowledgeBase that the eligibility and pathway engines read from.
package visa

import (
	"encoding/json"
	"fmt"
)

type Category string

const (
	CategoryStudent   Category = "student"
	CategoryWorker    Category = "worker"
	CategoryVisitor   Category = "visitor"
	CategoryInvestor  Category = "investor"
	CategoryImmigrant Category = "immigrant"
	CategoryFamily    Category = "family"
	CategorySpecial   Category = "special"
	CategoryTourist   Category = "tourist"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryStudent, CategoryWorker, CategoryVisitor, CategoryInvestor,
		CategoryImmigrant, CategoryFamily, CategorySpecial, CategoryTourist:
		return true
	}
	return false
}

type Tier string

const (
	TierStart        Tier = "start"
	TierEntry        Tier = "entry"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

func (t Tier) Valid() bool {
	return t.Level() >= 0
}

// Level is the progression index of the tier, or -1 for an unknown tier.
func (t Tier) Level() int {
	switch t {
	case TierStart:
		return 0
	case TierEntry:
		return 1
	case TierIntermediate:
		return 2
	case TierAdvanced:
		return 3
	}
	return -1
}

type TimeHorizon string

const (
	HorizonUnset  TimeHorizon = ""
	HorizonShort  TimeHorizon = "short"
	HorizonMedium TimeHorizon = "medium"
	HorizonLong   TimeHorizon = "long"
)

func (h TimeHorizon) Valid() bool {
	switch h {
	case HorizonUnset, HorizonShort, HorizonMedium, HorizonLong:
		return true
	}
	return false
}

// Field names a profile attribute, or a value derived from one, that a rule tests.
type Field string

const (
	FieldEducationLevel                 Field = "educationLevel"
	FieldYearsOfExperience              Field = "yearsOfExperience"
	FieldFieldOfWork                    Field = "fieldOfWork"
	FieldEnglishProficiency             Field = "englishProficiency"
	FieldCountryOfCitizenship           Field = "countryOfCitizenship"
	FieldInvestmentAmount               Field = "investmentAmount"
	FieldCitizenshipRestrictionCategory Field = "citizenshipRestrictionCategory"
	FieldPreviousVisa                   Field = "previousVisa"
)

// KnownFields lists every field a rule may reference.
func KnownFields() []Field {
	return []Field{
		FieldEducationLevel,
		FieldYearsOfExperience,
		FieldFieldOfWork,
		FieldEnglishProficiency,
		FieldCountryOfCitizenship,
		FieldInvestmentAmount,
		FieldCitizenshipRestrictionCategory,
		FieldPreviousVisa,
	}
}

func (f Field) Known() bool {
	for _, k := range KnownFields() {
		if f == k {
			return true
		}
	}
	return false
}

type Operator string

const (
	OpGTE      Operator = "gte"
	OpLTE      Operator = "lte"
	OpEQ       Operator = "eq"
	OpIncludes Operator = "includes"
	OpExcludes Operator = "excludes"
)

func (o Operator) Known() bool {
	switch o {
	case OpGTE, OpLTE, OpEQ, OpIncludes, OpExcludes:
		return true
	}
	return false
}

type ValueKind int

const (
	KindNone ValueKind = iota
	KindNumber
	KindString
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	}
	return "none"
}

// RuleValue is the operand of a rule: a number, a string or a string list.
// It encodes to JSON as the bare value.
type RuleValue struct {
	Kind ValueKind
	Num  float64
	Str  string
	List []string
}

func Num(n float64) RuleValue { return RuleValue{Kind: KindNumber, Num: n} }
func Str(s string) RuleValue { return RuleValue{Kind: KindString, Str: s} }
func List(items ...string) RuleValue { return RuleValue{Kind: KindList, List: items} }

func (v RuleValue) String() string {
	switch v.Kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case KindString:
		return v.Str
	case KindList:
		return fmt.Sprintf("%v", v.List)
	}
	return "<none>"
}

func (v RuleValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindString:
		return json.Marshal(v.Str)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	}
	return []byte("null"), nil
}

func (v *RuleValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case nil:
		*v = RuleValue{}
	case float64:
		*v = Num(t)
	case string:
		*v = Str(t)
	case []interface{}:
		items := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("rule value list item %d is %T, want string", i, item)
			}
			items = append(items, s)
		}
		*v = List(items...)
	default:
		return fmt.Errorf("unsupported rule value type %T", raw)
	}
	return nil
}

type EligibilityRule struct {
	Field       Field     `json:"field"`
	Operator    Operator  `json:"operator"`
	Value       RuleValue `json:"value"`
	Description string    `json:"description"`
}

type NextStep struct {
	VisaID string `json:"visaId"`
	Reason string `json:"reason"`
}

type Definition struct {
	ID               string            `json:"id"`
	Code             string            `json:"code"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Category         Category          `json:"category"`
	Tier             Tier              `json:"tier"`
	EligibilityRules []EligibilityRule `json:"eligibilityRules"`
	CommonNextSteps  []NextStep        `json:"commonNextSteps"`
	TimeHorizon      TimeHorizon       `json:"timeHorizon,omitempty"`
	Difficulty       int               `json:"difficulty"`
}
