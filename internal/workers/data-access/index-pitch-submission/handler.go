// internal/workers/data-access/index-pitch-submission/handler.go
package indexpitchsubmission

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/database"
	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/models"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "index-pitch-submission"
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: client,
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
	ctx, span := observability.StartSpan(ctx, TaskType,
		attribute.Int64("job.key", job.Key),
		attribute.String("es.index", h.config.Index),
	)

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
	if input.SubmissionID == "" {
		return nil, errors.NewSchemaValidationError("submissionId is required")
	}

	q, err := pitch.FromMap(input.FormData)
	if err != nil {
		var invalid *pitch.InvalidQuestionnaireError
		if stderrors.As(err, &invalid) {
			return nil, errors.NewInvalidQuestionnaireError(invalid.Fields())
		}
		return nil, errors.NewSearchIndexFailedError(h.config.Index, err)
	}

	var submittedAt time.Time
	if input.SubmittedAt != "" {
		if t, err := time.Parse(time.RFC3339, input.SubmittedAt); err == nil {
			submittedAt = t
		}
	}

	doc := models.NewSubmissionDocument(input.SubmissionID, q, input.Score, input.Offer, submittedAt)
	if err := database.IndexDocument(ctx, h.client, h.config.Index, input.SubmissionID, doc); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewSearchTimeoutError(h.config.Index)
		}
		return nil, errors.NewSearchIndexFailedError(h.config.Index, err)
	}

	h.logger.Info("submission indexed", map[string]interface{}{
		"index":        h.config.Index,
		"submissionId": input.SubmissionID,
		"scoreBand":    doc.ScoreBand,
	})

	return &Output{
		Indexed:    true,
		IndexName:  h.config.Index,
		DocumentID: input.SubmissionID,
	}, nil
}
