// Package engine assembles the knowledge base, scorer and pathway components
// from configuration so workers share one immutable instance.
package engine

import (
	"fmt"

	"visa-pathway-workers/internal/common/config"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/pathway"
	"visa-pathway-workers/internal/visa"
)

type Engine struct {
	KB         *visa.KnowledgeBase
	Scorer     *eligibility.Scorer
	Categories []visa.Category
	MaxDepth   int
	Layout     *pathway.LayoutAssigner

	adjacency   *pathway.Adjacency
	recommender *pathway.Recommender
}

// New loads the catalog named by cfg (the built-in one when unset). Catalog
// issues are logged, and fatal when cfg.StrictCatalog is set.
func New(cfg config.EngineConfig, log logger.Logger) (*Engine, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	kb, err := visa.LoadKnowledgeBase(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load visa catalog: %w", err)
	}

	issues := kb.Validate()
	for _, issue := range issues {
		log.Warn("visa catalog issue", map[string]interface{}{
			"visaId": issue.VisaID,
			"issue":  issue.Message,
		})
	}
	if cfg.StrictCatalog && len(issues) > 0 {
		return nil, fmt.Errorf("visa catalog has %d issue(s), first: %s", len(issues), issues[0])
	}

	return NewWithKnowledgeBase(kb, cfg, log), nil
}

// NewWithKnowledgeBase wires the engine around an already loaded catalog.
func NewWithKnowledgeBase(kb *visa.KnowledgeBase, cfg config.EngineConfig, log logger.Logger) *Engine {
	categories := pathway.ParseCategories(cfg.AllowedCategories)
	if len(categories) == 0 {
		categories = pathway.DefaultCategories
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = pathway.DefaultMaxDepth
	}

	scorer := eligibility.NewScorer(kb, eligibility.NewEvaluator(log), eligibility.Thresholds{
		Recommended: intOr(cfg.RecommendedThreshold, eligibility.RecommendedThreshold),
		Available:   intOr(cfg.AvailableThreshold, eligibility.AvailableThreshold),
	})
	adj := pathway.BuildAdjacency(kb, categories)

	return &Engine{
		KB:         kb,
		Scorer:     scorer,
		Categories: categories,
		MaxDepth:   maxDepth,
		Layout: pathway.NewLayoutAssigner(kb, pathway.LayoutOptions{
			ColumnSpacing:    cfg.Layout.ColumnSpacing,
			RowSpacing:       cfg.Layout.RowSpacing,
			MarginX:          cfg.Layout.MarginX,
			CenterY:          cfg.Layout.CenterY,
			DifficultyOffset: cfg.Layout.DifficultyOffset,
		}),
		adjacency: adj,
		recommender: pathway.NewRecommender(scorer, adj, pathway.RecommendOptions{
			MaxExtensions:   cfg.MaxExtensions,
			ExtendThreshold: cfg.ExtendThreshold,
			EntryCandidates: cfg.EntryCandidates,
		}),
	}
}

// Adjacency returns the graph for categories, reusing the configured one when
// categories is empty.
func (e *Engine) Adjacency(categories []visa.Category) *pathway.Adjacency {
	if len(categories) == 0 {
		return e.adjacency
	}
	return pathway.BuildAdjacency(e.KB, categories)
}

func (e *Engine) Recommender() *pathway.Recommender {
	return e.recommender
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
