package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"

	ErrCodeProfileNotFound   ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileInvalid    ErrorCode = "PROFILE_INVALID"
	ErrCodeProfileLoadFailed ErrorCode = "PROFILE_LOAD_FAILED"
	ErrCodeProfileSaveFailed ErrorCode = "PROFILE_SAVE_FAILED"

	ErrCodeVisaNotFound   ErrorCode = "VISA_NOT_FOUND"
	ErrCodeCatalogInvalid ErrorCode = "CATALOG_INVALID"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeCatalogSearchFailed ErrorCode = "CATALOG_SEARCH_FAILED"
	ErrCodeSearchTimeout       ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound       ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeEventPublishFailed     ErrorCode = "EVENT_PUBLISH_FAILED"

	ErrCodeGraphSyncFailed ErrorCode = "GRAPH_SYNC_FAILED"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the error that caused e.
func (e *StandardError) Unwrap() error {
	return e.Cause
}

// AsStandardError unwraps err looking for a *StandardError.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func wrapError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	e := newError(code, message, details, retryable)
	e.Cause = cause
	return e
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job input failed validation", details, false)
}

func NewParseError(err error) *StandardError {
	return wrapError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false, err)
}

func NewProfileNotFoundError(userID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "User profile not found", fmt.Sprintf("userId: %s", userID), false)
}

func NewProfileInvalidError(details string) *StandardError {
	return newError(ErrCodeProfileInvalid, "User profile is invalid", details, false)
}

func NewProfileLoadFailedError(userID string, err error) *StandardError {
	return wrapError(ErrCodeProfileLoadFailed, "Failed to load user profile",
		fmt.Sprintf("userId: %s, error: %s", userID, err.Error()), true, err)
}

func NewProfileSaveFailedError(userID string, err error) *StandardError {
	return wrapError(ErrCodeProfileSaveFailed, "Failed to save user profile",
		fmt.Sprintf("userId: %s, error: %s", userID, err.Error()), true, err)
}

func NewVisaNotFoundError(visaID string) *StandardError {
	return newError(ErrCodeVisaNotFound, "Visa not found in catalog", fmt.Sprintf("visaId: %s", visaID), false)
}

func NewCatalogInvalidError(details string) *StandardError {
	return newError(ErrCodeCatalogInvalid, "Visa catalog failed validation", details, false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return wrapError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

func NewQueryTimeoutError(operation string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("operation: %s", operation), true)
}

func NewCatalogSearchFailedError(err error) *StandardError {
	return wrapError(ErrCodeCatalogSearchFailed, "Visa catalog search failed", err.Error(), true, err)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout", fmt.Sprintf("index: %s", index), true)
}

func NewIndexNotFoundError(index string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found", fmt.Sprintf("index: %s", index), false)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return wrapError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true, err)
}

func NewEventPublishFailedError(topic string, err error) *StandardError {
	return wrapError(ErrCodeEventPublishFailed, "Event publish failed",
		fmt.Sprintf("topic: %s, error: %s", topic, err.Error()), true, err)
}

func NewGraphSyncFailedError(err error) *StandardError {
	return wrapError(ErrCodeGraphSyncFailed, "Graph projection failed", err.Error(), true, err)
}

func NewInternalError(err error) *StandardError {
	return wrapError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeParseError:               "INVALID_INPUT",
	ErrCodeProfileNotFound:          "PROFILE_NOT_FOUND",
	ErrCodeProfileInvalid:           "PROFILE_INVALID",
	ErrCodeProfileLoadFailed:        "PROFILE_LOAD_FAILED",
	ErrCodeProfileSaveFailed:        "PROFILE_SAVE_FAILED",
	ErrCodeVisaNotFound:             "VISA_NOT_FOUND",
	ErrCodeCatalogInvalid:           "CATALOG_INVALID",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeCatalogSearchFailed:      "CATALOG_SEARCH_FAILED",
	ErrCodeSearchTimeout:            "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:            "INDEX_NOT_FOUND",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeEventPublishFailed:       "EVENT_PUBLISH_FAILED",
	ErrCodeGraphSyncFailed:          "GRAPH_SYNC_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileLoadFailed,
		ErrCodeProfileSaveFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeCatalogSearchFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeEventPublishFailed,
		ErrCodeGraphSyncFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILE"
	case strings.Contains(codeStr, "VISA") || strings.Contains(codeStr, "CATALOG_INVALID"):
		return "CATALOG"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "EVENT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "GRAPH"):
		return "GRAPH"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
