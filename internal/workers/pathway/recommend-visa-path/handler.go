package recommendvisapath

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"visa-pathway-workers/internal/common/camunda"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/common/metrics"
	"visa-pathway-workers/internal/common/observability"
	"visa-pathway-workers/internal/common/validation"
	"visa-pathway-workers/internal/engine"
	"visa-pathway-workers/internal/profile"
)

const TaskType = "recommend-visa-path"

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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	p, err := profile.Resolve(ctx, h.store, input.UserID, input.UserProfile)
	if err != nil {
		return nil, err
	}

	out := &Output{UserID: p.ID}
	if out.UserID == "" {
		out.UserID = input.UserID
	}

	path := h.engine.Recommender().RecommendPath(p)
	if path == nil {
		metrics.RecommendedPathSteps.Observe(0)
		h.logger.Info("no viable path", map[string]interface{}{"currentVisa": p.CurrentVisaID()})
		return out, nil
	}

	metrics.RecommendedPathSteps.Observe(float64(len(path.Steps)))
	out.HasPath = true
	out.RecommendedPath = path
	return out, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}
