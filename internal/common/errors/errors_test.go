package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError_Mapping(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"invalid questionnaire", NewInvalidQuestionnaireError([]string{"email"}), "INVALID_QUESTIONNAIRE", 0},
		{"schema maps to questionnaire", NewSchemaValidationError("bad enum"), "INVALID_QUESTIONNAIRE", 0},
		{"insert failure retries", NewDatabaseInsertFailedError(fmt.Errorf("conn reset")), "DATABASE_INSERT_FAILED", 3},
		{"relay timeout retries twice", NewCRMRelayTimeoutError(fmt.Errorf("deadline")), "CRM_RELAY_FAILED", 2},
		{"duplicate is final", NewDuplicateSubmissionError("a@b.co"), "DUPLICATE_SUBMISSION", 0},
		{"unmapped code passes through", NewBusinessRuleError("nope", ""), "BUSINESS_RULE_VIOLATION", 0},
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

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	stdErr := NewInvalidQuestionnaireError([]string{"email", "platform"})
	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, []string{"email", "platform"}, vars["fields"])
	assert.Equal(t, "INVALID_QUESTIONNAIRE", vars["errorCode"])
	assert.Equal(t, "email, platform", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("relay: %w", NewCRMRelayFailedError("Bad Gateway"))
	stdErr := Normalize(wrapped)
	assert.Equal(t, ErrCodeCRMRelayFailed, stdErr.Code)

	plain := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidQuestionnaire))
	assert.Equal(t, "ASSESSMENT", GetErrorCategory(ErrCodeScoringFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDuplicateSubmission))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchIndexFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "INTEGRATION", GetErrorCategory(ErrCodeConversionTrackingFailed))
	assert.Equal(t, "OTHER", GetErrorCategory("SOMETHING_ELSE"))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeProcessStartFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidQuestionnaire))
}

func TestWithMetadata(t *testing.T) {
	err := NewScoringFailedError("x").WithMetadata("jobKey", int64(7))
	require.NotNil(t, err.Metadata)
	assert.Equal(t, int64(7), err.Metadata["jobKey"])
}

func TestStandardError_Unwrap(t *testing.T) {
	sentinel := stderrors.New("pq: connection refused")

	err := fmt.Errorf("create pitch record: %w", NewDatabaseInsertFailedError(sentinel))
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, ErrCodeDatabaseInsertFailed, Normalize(err).Code)

	assert.ErrorIs(t, Normalize(sentinel), sentinel)
	assert.Nil(t, NewBusinessRuleError("no CRM client", "").Unwrap())
}

func TestRemainingRetries(t *testing.T) {
	tests := []struct {
		name       string
		jobRetries int32
		errRetries int
		want       int
	}{
		{"first failure", 3, 3, 2},
		{"engine has fewer left", 1, 3, 0},
		{"code allows fewer", 3, 1, 1},
		{"non retryable", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: tt.jobRetries}}
			assert.Equal(t, tt.want, remainingRetries(job, &BPMNError{Retries: tt.errRetries}))
		})
	}
}

func TestRetryBackoff(t *testing.T) {
	h := NewErrorHandler(nil)
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: retries}}
	}
	bpmnErr := &BPMNError{Retries: 3}

	assert.Equal(t, 2*time.Second, h.retryBackoff(job(3), bpmnErr))
	assert.Equal(t, 4*time.Second, h.retryBackoff(job(2), bpmnErr))
	assert.Equal(t, 8*time.Second, h.retryBackoff(job(1), bpmnErr))
	assert.Equal(t, 2*time.Second, h.retryBackoff(job(5), bpmnErr))
	assert.Equal(t, time.Minute, h.retryBackoff(job(1), &BPMNError{Retries: 40}))
}
