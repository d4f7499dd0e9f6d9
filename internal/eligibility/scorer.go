package eligibility

import (
	"math"

	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/visa"
)

type Status string

const (
	StatusRecommended Status = "recommended"
	StatusAvailable   Status = "available"
	StatusLocked      Status = "locked"
)

const (
	RecommendedThreshold = 90
	AvailableThreshold   = 50
)

// Thresholds are inclusive lower bounds on the match percentage.
type Thresholds struct {
	Recommended int
	Available   int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Recommended: RecommendedThreshold, Available: AvailableThreshold}
}

func (t Thresholds) Classify(matchPercentage int) Status {
	switch {
	case matchPercentage >= t.Recommended:
		return StatusRecommended
	case matchPercentage >= t.Available:
		return StatusAvailable
	default:
		return StatusLocked
	}
}

// Score is the result of checking one profile against one visa.
type Score struct {
	VisaID          string   `json:"visaId"`
	Status          Status   `json:"status"`
	MatchedRules    int      `json:"matchedRules"`
	TotalRules      int      `json:"totalRules"`
	MatchPercentage int      `json:"matchPercentage"`
	FailedRules     []string `json:"failedRules"`
}

type Scorer struct {
	kb         *visa.KnowledgeBase
	evaluator  *Evaluator
	thresholds Thresholds
}

// NewScorer returns a scorer over kb classifying with thresholds as given.
// Use DefaultThresholds for the standard 90/50 split.
func NewScorer(kb *visa.KnowledgeBase, evaluator *Evaluator, thresholds Thresholds) *Scorer {
	if evaluator == nil {
		evaluator = NewEvaluator(nil)
	}
	return &Scorer{kb: kb, evaluator: evaluator, thresholds: thresholds}
}

func (s *Scorer) KnowledgeBase() *visa.KnowledgeBase {
	return s.kb
}

func (s *Scorer) Thresholds() Thresholds {
	return s.thresholds
}

// Score checks p against the visa with id visaID. It reports false for an unknown id.
func (s *Scorer) Score(visaID string, p *models.UserProfile) (Score, bool) {
	def, ok := s.kb.Get(visaID)
	if !ok {
		return Score{}, false
	}
	return s.scoreDefinition(def, p), true
}

// ScoreAll scores every visa in the knowledge base.
func (s *Scorer) ScoreAll(p *models.UserProfile) map[string]Score {
	out := make(map[string]Score, s.kb.Len())
	for _, def := range s.kb.All() {
		out[def.ID] = s.scoreDefinition(def, p)
	}
	return out
}

// ScoreList scores the given ids in order, skipping unknown ones. An empty
// ids list scores the whole catalog in declaration order.
func (s *Scorer) ScoreList(ids []string, p *models.UserProfile) []Score {
	if len(ids) == 0 {
		ids = s.kb.IDs()
	}
	out := make([]Score, 0, len(ids))
	for _, id := range ids {
		if sc, ok := s.Score(id, p); ok {
			out = append(out, sc)
		}
	}
	return out
}

func (s *Scorer) scoreDefinition(def visa.Definition, p *models.UserProfile) Score {
	total := len(def.EligibilityRules)
	failed := make([]string, 0)
	matched := 0

	for _, rule := range def.EligibilityRules {
		if s.evaluator.Evaluate(rule, p) {
			matched++
			continue
		}
		failed = append(failed, rule.Description)
	}

	pct := 100
	if total > 0 {
		pct = int(math.Round(float64(matched) / float64(total) * 100))
	}

	return Score{
		VisaID:          def.ID,
		Status:          s.thresholds.Classify(pct),
		MatchedRules:    matched,
		TotalRules:      total,
		MatchPercentage: pct,
		FailedRules:     failed,
	}
}

// Summary counts scores per status.
type Summary struct {
	Recommended int `json:"recommendedCount"`
	Available   int `json:"availableCount"`
	Locked      int `json:"lockedCount"`
}

func Summarize(scores []Score) Summary {
	var sum Summary
	for _, sc := range scores {
		switch sc.Status {
		case StatusRecommended:
			sum.Recommended++
		case StatusAvailable:
			sum.Available++
		default:
			sum.Locked++
		}
	}
	return sum
}
