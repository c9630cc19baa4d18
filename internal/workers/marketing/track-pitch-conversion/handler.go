package trackpitchconversion

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/meta"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "track-pitch-conversion"

	contentName = "Pitch Submission"
	currencyUSD = "USD"
)

type Handler struct {
	config *Config
	client *meta.Client
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: meta.NewClient(config.Meta),
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
	if !h.client.Configured() {
		h.logger.Warn("Meta Pixel ID or Access Token not configured", nil)
		metrics.ConversionEvents.WithLabelValues("skipped").Inc()
		return &Output{Tracked: false, SkipReason: "not_configured"}, nil
	}

	q, err := pitch.FromMap(input.FormData)
	if err != nil {
		var invalid *pitch.InvalidQuestionnaireError
		if stderrors.As(err, &invalid) {
			return nil, errors.NewInvalidQuestionnaireError(invalid.Fields())
		}
		return nil, errors.NewSchemaValidationError(err.Error())
	}

	event := h.leadEvent(q, input)
	resp, err := h.client.Send(ctx, event)
	if err != nil {
		metrics.ConversionEvents.WithLabelValues("failed").Inc()
		return nil, errors.NewConversionTrackingFailedError(err)
	}

	metrics.ConversionEvents.WithLabelValues("sent").Inc()
	h.logger.Info("conversion event sent", map[string]interface{}{
		"eventId":        event.EventID,
		"eventsReceived": resp.EventsReceived,
		"fbtraceId":      resp.FBTraceID,
	})
	return &Output{Tracked: true, EventID: event.EventID, EventsReceived: resp.EventsReceived}, nil
}

// leadEvent uses the submission id as event id so a browser pixel firing the
// same id is deduplicated.
func (h *Handler) leadEvent(q pitch.Questionnaire, input *Input) meta.Event {
	first, last := meta.SplitName(q.FullName)
	event := meta.Event{
		EventName:      meta.EventLead,
		EventID:        input.SubmissionID,
		EventSourceURL: h.config.SourceURL,
		ActionSource:   meta.ActionSourceWebsite,
		UserData: meta.UserData{
			Email:     q.Email,
			FirstName: first,
			LastName:  last,
		},
		CustomData: &meta.CustomData{
			ContentName:     contentName,
			ContentCategory: "pitch",
		},
	}

	if cc := input.ClientContext; cc != nil {
		event.UserData.ClientIPAddress = cc.IPAddress
		event.UserData.ClientUserAgent = cc.UserAgent
		event.UserData.Fbp = cc.Fbp
		event.UserData.Fbc = cc.Fbc
		if cc.SourceURL != "" {
			event.EventSourceURL = cc.SourceURL
		}
	}

	if input.Offer != nil {
		event.CustomData.ContentCategory = input.Offer.Band.String()
		event.CustomData.Value = float64(input.Offer.TotalPrice)
		event.CustomData.Currency = currencyUSD
	}
	return event
}
