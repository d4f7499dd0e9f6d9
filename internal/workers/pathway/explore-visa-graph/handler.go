package explorevisagraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"visa-pathway-workers/internal/common/camunda"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/common/observability"
	"visa-pathway-workers/internal/common/validation"
	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/engine"
	"visa-pathway-workers/internal/models"
	"visa-pathway-workers/internal/pathway"
	"visa-pathway-workers/internal/profile"
)

const TaskType = "explore-visa-graph"

type Handler struct {
	config *Config
	engine *engine.Engine
	store  profile.Store
	logger logger.Logger
	runner *camunda.JobRunner
}

type HandlerOptions struct {
	Config        *Config
	Engine        *engine.Engine
	Store         profile.Store
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("%s requires an engine", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config: cfg,
		engine: opts.Engine,
		store:  opts.Store,
		logger: log,
		runner: camunda.NewJobRunner(TaskType, cfg.Timeout, opts.Validator, log, opts.Observability),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

// Execute lays out the graph reachable from the start visa. An explicit
// startVisa wins over the profile's current visa. Statuses are only filled
// when a profile is supplied.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var p *models.UserProfile
	if input.UserProfile != nil || strings.TrimSpace(input.UserID) != "" {
		resolved, err := profile.Resolve(ctx, h.store, input.UserID, input.UserProfile)
		if err != nil {
			return nil, err
		}
		p = resolved
	}

	var start *string
	switch {
	case input.StartVisa != nil && *input.StartVisa != "":
		start = input.StartVisa
	case p != nil && p.CurrentVisa != nil:
		start = p.CurrentVisa
	}

	maxDepth := h.engine.MaxDepth
	if input.MaxDepth != nil {
		maxDepth = *input.MaxDepth
	}

	adj := h.engine.Adjacency(pathway.ParseCategories(input.AllowedCategories))
	tiers := pathway.TieredBFS(start, adj, maxDepth)

	inGraph := make(map[string]bool)
	reachable := make([]string, 0)
	for _, id := range tiers.Nodes() {
		inGraph[id] = true
		if id != pathway.StartNodeID {
			reachable = append(reachable, id)
		}
	}

	edges := make([]pathway.Edge, 0)
	for _, e := range adj.Edges() {
		if inGraph[e.From] && inGraph[e.To] {
			edges = append(edges, e)
		}
	}

	out := &Output{
		StartVisa: tiers[0][0],
		Tiers:     tiers,
		Reachable: reachable,
		Positions: h.engine.Layout.AssignPositions(tiers),
		Edges:     edges,
	}

	if p != nil {
		out.Statuses = make(map[string]eligibility.Status, len(reachable))
		for _, id := range reachable {
			if sc, ok := h.engine.Scorer.Score(id, p); ok {
				out.Statuses[id] = sc.Status
			}
		}
	}

	h.logger.Debug("visa graph explored", map[string]interface{}{
		"startVisa": out.StartVisa,
		"levels":    len(tiers),
		"nodes":     len(reachable),
	})
	return out, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}
