// Package eligibility evaluates visa eligibility rules against a user profile
// and turns the results into per-visa scores.
package eligibility

import (
	"strings"

	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/visa"
)

// resolved is a profile field after derivation. Education carries both its
// ordinal and its level name.
type resolved struct {
	numeric bool
	text    bool
	num     float64
	str     string
}

type resolver func(p *models.UserProfile) resolved

var resolvers = map[visa.Field]resolver{
	visa.FieldEducationLevel: func(p *models.UserProfile) resolved {
		ord, _ := p.EducationLevel.Ordinal()
		return resolved{numeric: true, text: true, num: float64(ord), str: string(p.EducationLevel)}
	},
	visa.FieldYearsOfExperience: func(p *models.UserProfile) resolved {
		return resolved{numeric: true, num: float64(p.YearsOfExperience)}
	},
	visa.FieldEnglishProficiency: func(p *models.UserProfile) resolved {
		return resolved{numeric: true, num: float64(p.EnglishProficiency)}
	},
	visa.FieldInvestmentAmount: func(p *models.UserProfile) resolved {
		return resolved{numeric: true, num: p.InvestmentAmount}
	},
	visa.FieldFieldOfWork: func(p *models.UserProfile) resolved {
		return resolved{text: true, str: p.FieldOfWork}
	},
	visa.FieldCountryOfCitizenship: func(p *models.UserProfile) resolved {
		return resolved{text: true, str: strings.ToUpper(strings.TrimSpace(p.CountryOfCitizenship))}
	},
	visa.FieldCitizenshipRestrictionCategory: func(p *models.UserProfile) resolved {
		return resolved{text: true, str: string(visa.ClassifyCitizenship(p.CountryOfCitizenship))}
	},
	visa.FieldPreviousVisa: func(p *models.UserProfile) resolved {
		return resolved{text: true, str: p.CurrentVisaID()}
	},
}

// Evaluator applies a single rule to a profile. Rules it cannot evaluate
// pass and are logged at warn level.
type Evaluator struct {
	logger logger.Logger
}

func NewEvaluator(log logger.Logger) *Evaluator {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Evaluator{logger: log}
}

func (e *Evaluator) Evaluate(rule visa.EligibilityRule, p *models.UserProfile) bool {
	if p == nil {
		p = &models.UserProfile{}
	}

	resolve, ok := resolvers[rule.Field]
	if !ok {
		return e.failOpen(rule, "unknown field")
	}
	got := resolve(p)

	switch rule.Operator {
	case visa.OpGTE, visa.OpLTE:
		want, ok := numericOperand(rule)
		if !ok || !got.numeric {
			return e.failOpen(rule, "operator needs numeric operands")
		}
		if rule.Operator == visa.OpGTE {
			return got.num >= want
		}
		return got.num <= want

	case visa.OpEQ:
		switch rule.Value.Kind {
		case visa.KindString:
			if !got.text {
				return e.failOpen(rule, "text eq against a numeric field")
			}
			return got.str == rule.Value.Str
		case visa.KindNumber:
			if !got.numeric {
				return e.failOpen(rule, "numeric eq against a text field")
			}
			return got.num == rule.Value.Num
		default:
			return e.failOpen(rule, "eq needs a scalar value")
		}

	case visa.OpIncludes, visa.OpExcludes:
		if rule.Value.Kind != visa.KindList {
			return e.failOpen(rule, "membership operator needs a list value")
		}
		if !got.text {
			return e.failOpen(rule, "membership test against a numeric field")
		}
		member := contains(rule.Value.List, got.str)
		if rule.Operator == visa.OpIncludes {
			return member
		}
		return !member

	default:
		return e.failOpen(rule, "unknown operator")
	}
}

// numericOperand returns the rule value as a number. Education rules may name
// a level instead of giving its ordinal.
func numericOperand(rule visa.EligibilityRule) (float64, bool) {
	switch rule.Value.Kind {
	case visa.KindNumber:
		return rule.Value.Num, true
	case visa.KindString:
		if rule.Field != visa.FieldEducationLevel {
			return 0, false
		}
		ord, ok := models.EducationLevel(rule.Value.Str).Ordinal()
		return float64(ord), ok
	}
	return 0, false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func (e *Evaluator) failOpen(rule visa.EligibilityRule, reason string) bool {
	e.logger.Warn("eligibility rule not evaluable, treating as passed", map[string]interface{}{
		"field":    string(rule.Field),
		"operator": string(rule.Operator),
		"value":    rule.Value.String(),
		"reason":   reason,
	})
	return true
}
