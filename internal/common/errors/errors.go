// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidQuestionnaire ErrorCode = "INVALID_QUESTIONNAIRE"
	ErrCodeSchemaValidation     ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeParseError           ErrorCode = "PARSE_ERROR"

	ErrCodeScoringFailed    ErrorCode = "PITCH_SCORING_FAILED"
	ErrCodeOfferBuildFailed ErrorCode = "OFFER_BUILD_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateSubmission      ErrorCode = "DUPLICATE_SUBMISSION"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeSearchIndexFailed ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeCRMRelayFailed   ErrorCode = "CRM_RELAY_FAILED"
	ErrCodeCRMRelayTimeout  ErrorCode = "CRM_RELAY_TIMEOUT"
	ErrCodeCRMAPIError      ErrorCode = "CRM_API_ERROR"
	ErrCodeCRMDuplicateLead ErrorCode = "CRM_DUPLICATE_LEAD"

	ErrCodeConversionTrackingFailed ErrorCode = "CONVERSION_TRACKING_FAILED"

	ErrCodeProcessStartFailed ErrorCode = "PROCESS_START_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying driver or transport error.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
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

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidQuestionnaireError creates a non-retryable error listing the
// offending fields.
func NewInvalidQuestionnaireError(fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuestionnaire,
		Message:   "Questionnaire is incomplete or has invalid values",
		Details:   strings.Join(fields, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaValidationError creates a non-retryable input schema error.
func NewSchemaValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidation,
		Message:   "Input failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable error for undecodable job variables.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		cause:     err,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewScoringFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringFailed,
		Message:   "Pitch scoring failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewOfferBuildFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOfferBuildFailed,
		Message:   "Offer could not be built",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateSubmissionError creates a non-retryable duplicate submission error.
func NewDuplicateSubmissionError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateSubmission,
		Message:   "Pitch already submitted",
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexFailedError creates a retryable indexing error.
func NewSearchIndexFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Elasticsearch indexing error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(index string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch request timeout",
		Details:   fmt.Sprintf("index: %s", index),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMRelayFailedError creates a retryable webhook relay error.
func NewCRMRelayFailedError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMRelayFailed,
		Message:   "CRM submission failed",
		Details:   status,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewCRMRelayTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMRelayTimeout,
		Message:   "CRM webhook timeout",
		Details:   err.Error(),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMAPIError creates a retryable CRM API error.
func NewCRMAPIError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMAPIError,
		Message:   "CRM API error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewConversionTrackingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConversionTrackingFailed,
		Message:   "Conversion event delivery failed",
		Details:   err.Error(),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewProcessStartFailedError(processID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProcessStartFailed,
		Message:   "Failed to start workflow instance",
		Details:   fmt.Sprintf("processId: %s, error: %s", processID, err.Error()),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		cause:     err,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the pitch-intake process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidQuestionnaire:     "INVALID_QUESTIONNAIRE",
	ErrCodeSchemaValidation:         "INVALID_QUESTIONNAIRE",
	ErrCodeParseError:               "INVALID_QUESTIONNAIRE",
	ErrCodeScoringFailed:            "PITCH_SCORING_FAILED",
	ErrCodeOfferBuildFailed:         "OFFER_BUILD_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeDuplicateSubmission:      "DUPLICATE_SUBMISSION",
	ErrCodeSearchIndexFailed:        "SEARCH_INDEX_FAILED",
	ErrCodeSearchTimeout:            "SEARCH_INDEX_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeCRMRelayFailed:           "CRM_RELAY_FAILED",
	ErrCodeCRMRelayTimeout:          "CRM_RELAY_FAILED",
	ErrCodeCRMAPIError:              "CRM_API_ERROR",
	ErrCodeCRMDuplicateLead:         "CRM_DUPLICATE_LEAD",
	ErrCodeConversionTrackingFailed: "CONVERSION_TRACKING_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeCRMRelayFailed,
		ErrCodeCRMAPIError,
		ErrCodeConversionTrackingFailed,
		ErrCodeProcessStartFailed:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout,
		ErrCodeCRMRelayTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "QUESTIONNAIRE") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SCORING") || strings.Contains(codeStr, "OFFER"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "SUBMISSION") || strings.Contains(codeStr, "CACHE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "CRM") || strings.Contains(codeStr, "CONVERSION"):
		return "INTEGRATION"
	default:
		return "OTHER"
	}
}
