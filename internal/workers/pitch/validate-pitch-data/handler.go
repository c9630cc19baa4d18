// internal/workers/pitch/validate-pitch-data/handler.go
package validatepitchdata

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/common/validation"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "validate-pitch-data"
)

type Handler struct {
	config *Config
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		logger: l,
		errors: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	run := camunda.BeginJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := observability.StartSpan(ctx, TaskType, attribute.Int64("job.key", job.Key))

	output, err := h.run(ctx, job)
	observability.EndSpan(span, err)
	run.Done(ctx, err)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{"jobKey": job.Key})
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

func parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

// Execute validates the form data without a job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	q, err := ValidateForm(input.FormData)
	var formErr *FormError
	switch {
	case stderrors.As(err, &formErr):
		fields := formErr.Fields()
		h.logger.Info("validation completed", map[string]interface{}{
			"isValid":    false,
			"errorCount": len(formErr.Problems),
			"fields":     fields,
		})
		return &Output{IsValid: false, ValidationErrors: formErr.Problems},
			errors.NewInvalidQuestionnaireError(fields).WithMetadata("validationErrors", formErr.Problems)
	case err != nil:
		return nil, errors.NewSchemaValidationError(err.Error())
	}

	h.logger.Info("validation completed", map[string]interface{}{
		"isValid":    true,
		"errorCount": 0,
	})

	return &Output{
		IsValid:          true,
		ValidationErrors: []validation.ValidationError{},
		FormData:         pitch.ToMap(q),
		SelectedAddOnIDs: normalizeAddOns(input.SelectedAddOnIDs),
	}, nil
}
