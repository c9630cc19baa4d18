package crmleadupsert

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "crm-lead-upsert"

type Handler struct {
	config  *Config
	service *Service
	logger  logger.Logger
	errors  *errors.ErrorHandler
}

type HandlerOptions struct {
	Config *Config
	// Store overrides the Zoho client built from Config.
	Store  LeadStore
	Logger logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Config == nil {
		opts.Config = DefaultConfig()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	l := opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  opts.Config,
		service: NewService(opts.Config, opts.Store, l),
		logger:  l,
		errors:  errors.NewErrorHandler(l),
	}, nil
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

	var output *Output
	input, err := parseInput(job)
	if err == nil {
		output, err = h.execute(ctx, input)
	}

	observability.EndSpan(span, err)
	run.Done(ctx, err)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
	}
}

func parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.Enabled {
		return &Output{CRMProvider: providerZoho, SkipReason: "disabled"}, nil
	}

	q, err := pitch.FromMap(input.FormData)
	if err != nil {
		var invalid *pitch.InvalidQuestionnaireError
		if stderrors.As(err, &invalid) {
			return nil, errors.NewInvalidQuestionnaireError(invalid.Fields())
		}
		return nil, errors.NewSchemaValidationError(err.Error())
	}

	score := pitch.Evaluate(q)
	if input.Score != nil {
		score = *input.Score
	}

	return h.service.Upsert(ctx, q, score, input.Offer)
}
