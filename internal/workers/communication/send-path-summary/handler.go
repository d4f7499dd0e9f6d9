package sendpathsummary

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"visa-pathway-workers/internal/common/aws"
	"visa-pathway-workers/internal/common/camunda"
	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/common/observability"
	"visa-pathway-workers/internal/common/validation"
	"visa-pathway-workers/internal/engine"
	"visa-pathway-workers/internal/profile"
)

const TaskType = "send-path-summary"

// Mailer is satisfied by the SES client.
type Mailer interface {
	Send(ctx context.Context, e aws.Email) (string, error)
}

type Handler struct {
	config *Config
	engine *engine.Engine
	store  profile.Store
	mailer Mailer
	logger logger.Logger
	runner *camunda.JobRunner
}

type HandlerOptions struct {
	Config        *Config
	Engine        *engine.Engine
	Store         profile.Store
	Mailer        Mailer
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
	if opts.Mailer == nil {
		return nil, fmt.Errorf("%s requires a mailer", TaskType)
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
		mailer: opts.Mailer,
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

// Execute emails the recommended path. A path passed in from an earlier
// recommend step is reused; otherwise it is computed from the profile.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Email == "" {
		return nil, errors.NewInvalidInputError("email is required")
	}

	path := input.RecommendedPath
	if path == nil || len(path.Steps) == 0 {
		p, err := profile.Resolve(ctx, h.store, input.UserID, input.UserProfile)
		if err != nil {
			return nil, err
		}
		path = h.engine.Recommender().RecommendPath(p)
	}

	text, html, err := Render(path)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("render path summary: %w", err))
	}

	msgID, err := h.mailer.Send(ctx, aws.Email{
		To:       input.Email,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
	if err != nil {
		return nil, errors.NewNotificationSendFailedError("ses", err)
	}

	h.logger.Info("path summary sent", map[string]interface{}{
		"userId":    input.UserID,
		"messageId": msgID,
	})
	return &Output{Sent: true, MessageID: msgID, HasPath: path != nil}, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}
