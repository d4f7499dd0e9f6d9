package saveuserprofile

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"visa-pathway-workers/internal/common/camunda"
	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/common/observability"
	"visa-pathway-workers/internal/common/validation"
	"visa-pathway-workers/internal/profile"
)

const (
	TaskType = "save-user-profile"

	EventProfileUpdated = "profile.updated"
)

// EventPublisher is satisfied by the SNS client.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload interface{}) (string, error)
}

type Handler struct {
	config    *Config
	store     profile.Store
	publisher EventPublisher
	logger    logger.Logger
	runner    *camunda.JobRunner
	newID     func() string
}

type HandlerOptions struct {
	Config        *Config
	Store         profile.Store
	Publisher     EventPublisher
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
	if opts.Store == nil {
		return nil, fmt.Errorf("%s requires a profile store", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:    cfg,
		store:     opts.Store,
		publisher: opts.Publisher,
		logger:    log,
		runner:    camunda.NewJobRunner(TaskType, cfg.Timeout, opts.Validator, log, opts.Observability),
		newID:     uuid.NewString,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

// Execute validates and upserts the profile. The user id comes from userId,
// then userProfile.id, and is generated when both are empty. A failed event
// publish is logged and reported in the output; the save itself stands.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	p := input.UserProfile
	if p == nil {
		return nil, errors.NewInvalidInputError("userProfile is required")
	}
	if err := p.Validate(); err != nil {
		return nil, errors.NewProfileInvalidError(err.Error())
	}

	out := &Output{UserID: input.UserID}
	if out.UserID == "" {
		out.UserID = p.ID
	}
	if out.UserID == "" {
		out.UserID = h.newID()
		out.Created = true
	}

	if err := h.store.Save(ctx, out.UserID, p); err != nil {
		return nil, errors.NewProfileSaveFailedError(out.UserID, err)
	}
	out.Saved = true

	if h.publisher == nil {
		return out, nil
	}
	msgID, err := h.publisher.PublishEvent(ctx, EventProfileUpdated, ProfileUpdatedEvent{
		EventID:     h.newID(),
		UserID:      out.UserID,
		CurrentVisa: p.CurrentVisa,
		UpdatedAt:   p.UpdatedAt,
	})
	if err != nil {
		h.logger.Warn("profile event publish failed", map[string]interface{}{
			"userId": out.UserID,
			"error":  err.Error(),
		})
		return out, nil
	}
	out.EventPublished = true
	out.EventMessageID = msgID
	return out, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}
