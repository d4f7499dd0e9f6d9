package searchvisacatalog

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"visa-pathway-workers/internal/catalog"
	"visa-pathway-workers/internal/common/camunda"
	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/common/observability"
	"visa-pathway-workers/internal/common/validation"
)

const TaskType = "search-visa-catalog"

// Searcher is satisfied by *catalog.Searcher.
type Searcher interface {
	Search(ctx context.Context, q catalog.Query) (*catalog.Result, error)
	Index() string
}

type Handler struct {
	config   *Config
	searcher Searcher
	logger   logger.Logger
	runner   *camunda.JobRunner
}

type HandlerOptions struct {
	Config        *Config
	Searcher      Searcher
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
	if opts.Searcher == nil {
		return nil, fmt.Errorf("%s requires a catalog searcher", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:   cfg,
		searcher: opts.Searcher,
		logger:   log,
		runner:   camunda.NewJobRunner(TaskType, cfg.Timeout, opts.Validator, log, opts.Observability),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	res, err := h.searcher.Search(ctx, catalog.Query{
		Text:       input.Query,
		Categories: input.Categories,
		Size:       input.Size,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, catalog.ErrIndexNotFound):
			return nil, errors.NewIndexNotFoundError(h.searcher.Index())
		case stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded:
			return nil, errors.NewSearchTimeoutError(h.searcher.Index())
		default:
			return nil, errors.NewCatalogSearchFailedError(err)
		}
	}

	h.logger.Debug("catalog searched", map[string]interface{}{
		"query":     input.Query,
		"totalHits": res.TotalHits,
	})
	return &Output{
		Visas:     res.Hits,
		TotalHits: res.TotalHits,
		MaxScore:  res.MaxScore,
		Took:      res.Took,
	}, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}
