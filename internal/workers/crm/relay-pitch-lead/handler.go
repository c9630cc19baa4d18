// internal/workers/crm/relay-pitch-lead/handler.go
package relaypitchlead

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/errors"
	commonhttp "pitch-workers/internal/common/http"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "relay-pitch-lead"

type Handler struct {
	config *Config
	client *commonhttp.Client
	logger logger.Logger
	errors *errors.ErrorHandler
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: commonhttp.NewClient(config.Timeout,
			commonhttp.WithRateLimit(config.RequestsPerSecond, config.Burst)),
		logger: l,
		errors: errors.NewErrorHandler(l),
		now:    time.Now,
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
	var input Input
	err := json.Unmarshal([]byte(job.Variables), &input)
	if err != nil {
		err = errors.NewParseError(err)
	} else {
		output, err = h.execute(ctx, &input)
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.Enabled {
		h.logger.Info("relay disabled by configuration", nil)
		return &Output{Relayed: false, SkipReason: "disabled"}, nil
	}

	q, err := pitch.FromMap(input.FormData)
	if err != nil {
		var invalid *pitch.InvalidQuestionnaireError
		if stderrors.As(err, &invalid) {
			return nil, errors.NewInvalidQuestionnaireError(invalid.Fields())
		}
		return nil, errors.NewCRMRelayFailedError(err.Error())
	}

	submittedAt := h.now()
	if input.SubmittedAt != "" {
		if t, err := time.Parse(time.RFC3339, input.SubmittedAt); err == nil {
			submittedAt = t
		}
	}
	payload := NewLeadPayload(q, input.Score, input.Offer, submittedAt, h.config.Source)

	headers := map[string]string{}
	if h.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + h.config.APIKey
	}

	resp, err := h.client.PostJSON(ctx, h.config.WebhookURL, headers, payload)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewCRMRelayTimeoutError(err)
		}
		return nil, errors.NewCRMRelayFailedError(err.Error())
	}
	if !resp.OK() {
		h.logger.Warn("crm webhook rejected lead", map[string]interface{}{
			"status": resp.StatusCode,
			"email":  q.Email,
		})
		return nil, errors.NewCRMRelayFailedError(resp.StatusText()).
			WithMetadata("crmStatusCode", resp.StatusCode)
	}

	h.logger.Info("lead relayed to crm", map[string]interface{}{
		"status":    resp.StatusCode,
		"scoreBand": payload.ScoreBand,
	})

	return &Output{
		Relayed:        true,
		StatusCode:     resp.StatusCode,
		SubmissionDate: payload.SubmissionDate,
	}, nil
}
