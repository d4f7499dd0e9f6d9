package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/common/metrics"
	"visa-pathway-workers/internal/common/observability"
	"visa-pathway-workers/internal/common/validation"
)

// ExecFunc runs a job's business logic once its variables are decoded.
type ExecFunc func(ctx context.Context) (interface{}, error)

// JobRunner drives the lifecycle shared by every handler: decode and validate
// variables, execute under a timeout, then complete the job or hand the error
// to the ErrorHandler.
type JobRunner struct {
	TaskType  string
	Timeout   time.Duration
	Validator *validation.Validator
	Logger    logger.Logger
	Errors    *errors.ErrorHandler
	Obs       *observability.Observability
}

func NewJobRunner(taskType string, timeout time.Duration, v *validation.Validator, log logger.Logger, obs *observability.Observability) *JobRunner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &JobRunner{
		TaskType:  taskType,
		Timeout:   timeout,
		Validator: v,
		Logger:    log,
		Errors:    errors.NewErrorHandler(log),
		Obs:       obs,
	}
}

// Run decodes the job into input and calls exec. input must be a pointer.
func (r *JobRunner) Run(client worker.JobClient, job entities.Job, input interface{}, exec ExecFunc) {
	timer := metrics.StartJob(r.TaskType)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()
	ctx, span := r.Obs.StartSpan(ctx, r.TaskType,
		attribute.Int64("job.key", job.GetKey()),
		attribute.Int64("process.instance.key", job.GetProcessInstanceKey()),
	)
	defer span.End()

	log := r.Logger.WithFields(map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})
	log.Info("processing job", nil)

	var output interface{}
	err := DecodeVariables(job, r.Validator, r.TaskType, input)
	if err == nil {
		output, err = exec(ctx)
	}
	if err != nil {
		stdErr := errors.Normalize(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stdErr.Code))
		timer.Done(string(stdErr.Code))
		r.Obs.RecordJob(ctx, r.TaskType, "failed", time.Since(start))
		r.Errors.HandleJobError(ctx, client, job, stdErr)
		return
	}

	if err := CompleteJob(ctx, client, job, output); err != nil {
		log.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		timer.Done("COMPLETE_FAILED")
		r.Obs.RecordJob(ctx, r.TaskType, "failed", time.Since(start))
		return
	}

	timer.Done("")
	r.Obs.RecordJob(ctx, r.TaskType, "completed", time.Since(start))
	log.Info("job completed", map[string]interface{}{"durationMs": time.Since(start).Milliseconds()})
}
