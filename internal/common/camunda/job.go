package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/validation"
)

// DecodeVariables checks the job variables against the schema registered for
// taskType, then unmarshals them into dst. A nil validator skips the schema step.
func DecodeVariables(job entities.Job, v *validation.Validator, taskType string, dst interface{}) error {
	raw := job.GetVariables()
	if raw == "" {
		raw = "{}"
	}

	if v != nil {
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return errors.NewParseError(err)
		}
		result, err := v.Validate(taskType, doc)
		if err != nil {
			return errors.NewInternalError(fmt.Errorf("validate %s variables: %w", taskType, err))
		}
		if !result.Valid {
			return errors.NewInvalidInputError(result.String())
		}
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.NewParseError(err)
	}
	return nil
}

// CompleteJob sends the output as the job's result variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete command: %w", err)
	}
	return nil
}
