package scorevisaeligibility

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"visa-pathway-workers/internal/common/camunda"
	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/common/metrics"
	"visa-pathway-workers/internal/common/observability"
	"visa-pathway-workers/internal/common/validation"
	"visa-pathway-workers/internal/eligibility"
	"visa-pathway-workers/internal/engine"
	"visa-pathway-workers/internal/profile"
)

const TaskType = "score-visa-eligibility"

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

// Execute scores the resolved profile against input.VisaIDs, or the whole
// catalog when none are given. Unknown ids are reported, not scored.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	p, err := profile.Resolve(ctx, h.store, input.UserID, input.UserProfile)
	if err != nil {
		return nil, err
	}

	var unknown []string
	for _, id := range input.VisaIDs {
		if !h.engine.KB.Has(id) {
			unknown = append(unknown, id)
		}
	}
	if len(input.VisaIDs) > 0 && len(unknown) == len(input.VisaIDs) {
		return nil, errors.NewVisaNotFoundError(unknown[0])
	}
	if len(unknown) > 0 {
		h.logger.Warn("skipping unknown visa ids", map[string]interface{}{"visaIds": unknown})
	}

	scores := h.engine.Scorer.ScoreList(input.VisaIDs, p)
	summary := eligibility.Summarize(scores)
	metrics.RecordScores(string(eligibility.StatusRecommended), summary.Recommended)
	metrics.RecordScores(string(eligibility.StatusAvailable), summary.Available)
	metrics.RecordScores(string(eligibility.StatusLocked), summary.Locked)

	userID := p.ID
	if userID == "" {
		userID = input.UserID
	}
	return &Output{
		UserID:         userID,
		Scores:         scores,
		Summary:        summary,
		UnknownVisaIDs: unknown,
	}, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
