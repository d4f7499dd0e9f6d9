package pathway

import (
	"fmt"
	"sort"

	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/visa"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Defaults for RecommendOptions.
const (
	DefaultMaxExtensions          = 3
	DefaultExtendThreshold        = 50
	DefaultHighConfidenceCutoff   = 85
	DefaultMediumConfidenceCutoff = 60
	DefaultUnsetHorizonMonths     = 12
)

var DefaultEntryCandidates = []string{"f1", "j1", "h1b", "l1", "tn", "o1", "e2"}

func DefaultHorizonMonths() map[visa.TimeHorizon]int {
	return map[visa.TimeHorizon]int{
		visa.HorizonShort:  9,
		visa.HorizonMedium: 24,
		visa.HorizonLong:   48,
		visa.HorizonUnset:  DefaultUnsetHorizonMonths,
	}
}

type RecommendOptions struct {
	// MaxExtensions bounds how many steps are added after the first one.
	MaxExtensions int
	// ExtendThreshold is the lowest match percentage that may extend a path.
	// Nil selects DefaultExtendThreshold; 0 extends regardless of score.
	ExtendThreshold  *int
	EntryCandidates  []string
	HorizonMonths    map[visa.TimeHorizon]int
	HighConfidence   int
	MediumConfidence int
}

func DefaultRecommendOptions() RecommendOptions {
	return RecommendOptions{
		MaxExtensions:    DefaultMaxExtensions,
		ExtendThreshold:  intPtr(DefaultExtendThreshold),
		EntryCandidates:  append([]string(nil), DefaultEntryCandidates...),
		HorizonMonths:    DefaultHorizonMonths(),
		HighConfidence:   DefaultHighConfidenceCutoff,
		MediumConfidence: DefaultMediumConfidenceCutoff,
	}
}

func intPtr(n int) *int {
	return &n
}

type PathStep struct {
	VisaID              string             `json:"visaId"`
	Code                string             `json:"code"`
	Score               int                `json:"score"`
	Status              eligibility.Status `json:"status"`
	Reason              string             `json:"reason"`
	EstimatedTimeMonths int                `json:"estimatedTimeMonths"`
}

type RecommendedPath struct {
	Steps                []PathStep `json:"steps"`
	TotalEstimatedMonths int        `json:"totalEstimatedMonths"`
	Confidence           Confidence `json:"confidence"`
}

// Recommender greedily walks next-step edges choosing the best scoring visa at each hop.
type Recommender struct {
	kb     *visa.KnowledgeBase
	scorer *eligibility.Scorer
	adj    *Adjacency
	opts   RecommendOptions
}

// NewRecommender restricts candidate steps to the nodes of adj. Zero-valued
// option fields, and a nil ExtendThreshold, fall back to their defaults.
func NewRecommender(scorer *eligibility.Scorer, adj *Adjacency, opts RecommendOptions) *Recommender {
	def := DefaultRecommendOptions()
	if opts.MaxExtensions < 0 {
		opts.MaxExtensions = 0
	} else if opts.MaxExtensions == 0 {
		opts.MaxExtensions = def.MaxExtensions
	}
	if opts.ExtendThreshold == nil {
		opts.ExtendThreshold = def.ExtendThreshold
	}
	if len(opts.EntryCandidates) == 0 {
		opts.EntryCandidates = def.EntryCandidates
	}
	if opts.HorizonMonths == nil {
		opts.HorizonMonths = def.HorizonMonths
	}
	if opts.HighConfidence == 0 {
		opts.HighConfidence = def.HighConfidence
	}
	if opts.MediumConfidence == 0 {
		opts.MediumConfidence = def.MediumConfidence
	}

	return &Recommender{
		kb:     scorer.KnowledgeBase(),
		scorer: scorer,
		adj:    adj,
		opts:   opts,
	}
}

type candidate struct {
	id     string
	reason string
	score  eligibility.Score
	order  int
}

// RecommendPath returns the best path forward for p, or nil when no viable
// first step exists. A current visa missing from the catalog counts as none.
func (r *Recommender) RecommendPath(p *models.UserProfile) *RecommendedPath {
	scores := r.scorer.ScoreAll(p)
	visited := make(map[string]bool)

	var first *candidate
	current := p.CurrentVisaID()
	if _, known := r.kb.Get(current); known {
		visited[current] = true
		ranked := r.rank(r.nextCandidates(current, visited, scores))
		if len(ranked) == 0 || ranked[0].score.MatchPercentage <= 0 {
			return nil
		}
		first = &ranked[0]
	} else {
		first = r.bestEntry(scores)
		if first == nil {
			return nil
		}
	}

	steps := []PathStep{r.toStep(*first)}
	visited[first.id] = true

	last := first.id
	for i := 0; i < r.opts.MaxExtensions; i++ {
		ranked := r.rank(r.nextCandidates(last, visited, scores))
		if len(ranked) == 0 || ranked[0].score.MatchPercentage < *r.opts.ExtendThreshold {
			break
		}
		best := ranked[0]
		steps = append(steps, r.toStep(best))
		visited[best.id] = true
		last = best.id
	}

	return r.finish(steps)
}

// bestEntry picks the highest scoring entry candidate. Ties go to the earlier candidate.
func (r *Recommender) bestEntry(scores map[string]eligibility.Score) *candidate {
	var best *candidate
	for i, id := range r.opts.EntryCandidates {
		def, ok := r.kb.Get(id)
		if !ok || (r.adj != nil && !r.adj.Has(id)) {
			continue
		}
		sc := scores[id]
		if best == nil || sc.MatchPercentage > best.score.MatchPercentage {
			best = &candidate{
				id:     id,
				reason: fmt.Sprintf("Best starting point: %s", def.Name),
				score:  sc,
				order:  i,
			}
		}
	}
	if best == nil || best.score.MatchPercentage <= 0 {
		return nil
	}
	return best
}

func (r *Recommender) nextCandidates(from string, visited map[string]bool, scores map[string]eligibility.Score) []candidate {
	def, ok := r.kb.Get(from)
	if !ok {
		return nil
	}
	out := make([]candidate, 0, len(def.CommonNextSteps))
	for i, step := range def.CommonNextSteps {
		if visited[step.VisaID] || !r.kb.Has(step.VisaID) {
			continue
		}
		if r.adj != nil && !r.adj.Has(step.VisaID) {
			continue
		}
		out = append(out, candidate{id: step.VisaID, reason: step.Reason, score: scores[step.VisaID], order: i})
	}
	return out
}

// rank orders recommended visas first, then by descending match, then by declaration order.
func (r *Recommender) rank(cands []candidate) []candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		ri := cands[i].score.Status == eligibility.StatusRecommended
		rj := cands[j].score.Status == eligibility.StatusRecommended
		if ri != rj {
			return ri
		}
		if cands[i].score.MatchPercentage != cands[j].score.MatchPercentage {
			return cands[i].score.MatchPercentage > cands[j].score.MatchPercentage
		}
		return cands[i].order < cands[j].order
	})
	return cands
}

func (r *Recommender) toStep(c candidate) PathStep {
	def, _ := r.kb.Get(c.id)
	return PathStep{
		VisaID:              c.id,
		Code:                def.Code,
		Score:               c.score.MatchPercentage,
		Status:              c.score.Status,
		Reason:              c.reason,
		EstimatedTimeMonths: r.monthsFor(def.TimeHorizon),
	}
}

func (r *Recommender) monthsFor(h visa.TimeHorizon) int {
	if m, ok := r.opts.HorizonMonths[h]; ok {
		return m
	}
	if m, ok := r.opts.HorizonMonths[visa.HorizonUnset]; ok {
		return m
	}
	return DefaultUnsetHorizonMonths
}

func (r *Recommender) finish(steps []PathStep) *RecommendedPath {
	total, sum := 0, 0
	for _, s := range steps {
		total += s.EstimatedTimeMonths
		sum += s.Score
	}
	avg := float64(sum) / float64(len(steps))

	conf := ConfidenceLow
	switch {
	case avg >= float64(r.opts.HighConfidence):
		conf = ConfidenceHigh
	case avg >= float64(r.opts.MediumConfidence):
		conf = ConfidenceMedium
	}

	return &RecommendedPath{
		Steps:                steps,
		TotalEstimatedMonths: total,
		Confidence:           conf,
	}
}
