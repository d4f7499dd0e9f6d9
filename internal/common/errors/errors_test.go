package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"retryable load failure", NewProfileLoadFailedError("u1", fmt.Errorf("conn reset")), "PROFILE_LOAD_FAILED", 3},
		{"business error", NewProfileNotFoundError("u1"), "PROFILE_NOT_FOUND", 0},
		{"parse error maps to invalid input", NewParseError(fmt.Errorf("bad json")), "INVALID_INPUT", 0},
		{"timeout", NewSearchTimeoutError("visa-catalog"), "SEARCH_TIMEOUT", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_NonRetryableOverride(t *testing.T) {
	stdErr := NewCatalogSearchFailedError(fmt.Errorf("boom"))
	stdErr.Retryable = false

	assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewProfileNotFoundError("u9"))
	stdErr := Normalize(wrapped)
	assert.Equal(t, ErrCodeProfileNotFound, stdErr.Code)

	plain := Normalize(fmt.Errorf("plain failure"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "plain failure", plain.Details)
}

func TestStandardError_Unwrap(t *testing.T) {
	driverErr := errors.New("pq: connection refused")

	tests := []struct {
		name string
		err  *StandardError
	}{
		{"load", NewProfileLoadFailedError("u1", driverErr)},
		{"save", NewProfileSaveFailedError("u1", driverErr)},
		{"database", NewDatabaseConnectionFailedError(driverErr)},
		{"search", NewCatalogSearchFailedError(driverErr)},
		{"notification", NewNotificationSendFailedError("ses", driverErr)},
		{"event", NewEventPublishFailedError("profile.updated", driverErr)},
		{"graph", NewGraphSyncFailedError(driverErr)},
		{"internal", NewInternalError(driverErr)},
		{"parse", NewParseError(driverErr)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, driverErr)

			wrapped := fmt.Errorf("job 42: %w", tt.err)
			assert.ErrorIs(t, wrapped, driverErr)
			stdErr, ok := AsStandardError(wrapped)
			require.True(t, ok)
			assert.Same(t, tt.err, stdErr)
		})
	}

	assert.Nil(t, NewProfileNotFoundError("u1").Unwrap())
}

func TestStandardError_CauseNotSerialized(t *testing.T) {
	data, err := json.Marshal(NewProfileLoadFailedError("u1", errors.New("secret dsn")))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "cause")
	assert.Contains(t, string(data), `"code":"PROFILE_LOAD_FAILED"`)
}

func TestToErrorVariables(t *testing.T) {
	vars := ConvertToBPMNError(NewVisaNotFoundError("zz")).ToErrorVariables()
	require.Contains(t, vars, "errorCode")
	assert.Equal(t, "VISA_NOT_FOUND", vars["errorCode"])
	assert.Equal(t, false, vars["retryable"])
	assert.Contains(t, vars, "timestamp")
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "PROFILE", GetErrorCategory(ErrCodeProfileSaveFailed))
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeVisaNotFound))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeCatalogSearchFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeEventPublishFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
