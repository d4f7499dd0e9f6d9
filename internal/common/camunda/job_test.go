package camunda

import (
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/common/errors"
	"visa-pathway-workers/internal/common/validation"
)

func jobWithVariables(vars string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Type: "load-user-profile", Variables: vars}}
}

func TestDecodeVariables(t *testing.T) {
	v := validation.NewValidator()
	require.NoError(t, v.Register("load-user-profile", map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"userId"},
		"properties": map[string]interface{}{
			"userId": map[string]interface{}{"type": "string", "minLength": 1},
		},
	}))

	type input struct {
		UserID string `json:"userId"`
	}

	t.Run("valid", func(t *testing.T) {
		var in input
		require.NoError(t, DecodeVariables(jobWithVariables(`{"userId":"u1","extra":true}`), v, "load-user-profile", &in))
		assert.Equal(t, "u1", in.UserID)
	})

	t.Run("schema violation", func(t *testing.T) {
		var in input
		err := DecodeVariables(jobWithVariables(`{"userId":""}`), v, "load-user-profile", &in)
		stdErr, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
		assert.Contains(t, stdErr.Details, "userId")
	})

	t.Run("empty variables fail required check", func(t *testing.T) {
		var in input
		err := DecodeVariables(jobWithVariables(""), v, "load-user-profile", &in)
		stdErr, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		var in input
		err := DecodeVariables(jobWithVariables(`{"userId":`), v, "load-user-profile", &in)
		stdErr, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeParseError, stdErr.Code)
	})

	t.Run("no validator", func(t *testing.T) {
		var in input
		require.NoError(t, DecodeVariables(jobWithVariables(`{"userId":""}`), nil, "load-user-profile", &in))
		assert.Empty(t, in.UserID)
	})
}
