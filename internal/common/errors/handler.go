package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler reports a failed job to the engine: a retryable failure
// goes back with a retry backoff, anything else becomes a BPMN error the
// pitch-intake process can catch.
type ErrorHandler struct {
	logger      Logger
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{
		logger:      logger,
		baseBackoff: 2 * time.Second,
		maxBackoff:  time.Minute,
	}
}

func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	if retries := remainingRetries(job, bpmnErr); retries > 0 {
		h.failJob(ctx, client, job, bpmnErr, retries)
		return
	}
	h.throwBPMNError(ctx, client, job, bpmnErr)
}

// Normalize unwraps a *StandardError from err, or wraps err as an
// INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// remainingRetries never grants more retries than the engine has left for
// the job, and never more than the error code allows.
func remainingRetries(job entities.Job, bpmnErr *BPMNError) int {
	left := int(job.Retries) - 1
	if bpmnErr.Retries < left {
		return bpmnErr.Retries
	}
	return left
}

// retryBackoff doubles with every retry already consumed.
func (h *ErrorHandler) retryBackoff(job entities.Job, bpmnErr *BPMNError) time.Duration {
	used := bpmnErr.Retries - int(job.Retries)
	if used < 0 {
		used = 0
	}
	if used > 16 {
		return h.maxBackoff
	}
	d := h.baseBackoff << used
	if d <= 0 || d > h.maxBackoff {
		return h.maxBackoff
	}
	return d
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message).
		RetryBackoff(h.retryBackoff(job, bpmnErr))

	var err error
	if varsJSON, jsonErr := json.Marshal(bpmnErr.ToErrorVariables()); jsonErr == nil {
		withVars, varErr := cmd.VariablesFromString(string(varsJSON))
		if varErr != nil {
			_, err = cmd.Send(ctx)
		} else {
			_, err = withVars.Send(ctx)
		}
	} else {
		_, err = cmd.Send(ctx)
	}
	if err != nil {
		h.logger.Warn("fail job command rejected", map[string]interface{}{"jobKey": job.Key, "error": err.Error()})
	}
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	var err error
	if varsJSON, jsonErr := json.Marshal(bpmnErr.ToErrorVariables()); jsonErr == nil {
		withVars, varErr := cmd.VariablesFromString(string(varsJSON))
		if varErr != nil {
			_, err = cmd.Send(ctx)
		} else {
			_, err = withVars.Send(ctx)
		}
	} else {
		_, err = cmd.Send(ctx)
	}
	if err != nil {
		h.logger.Warn("throw error command rejected", map[string]interface{}{"jobKey": job.Key, "bpmnErrorCode": bpmnErr.Code, "error": err.Error()})
	}
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":             job.Key,
		"jobType":            job.Type,
		"errorCode":          string(stdErr.Code),
		"bpmnErrorCode":      bpmnErr.Code,
		"details":            stdErr.Details,
		"retryable":          stdErr.Retryable,
		"retriesLeft":        job.Retries,
		"errorCategory":      GetErrorCategory(stdErr.Code),
		"processInstanceKey": job.ProcessInstanceKey,
	})
}
