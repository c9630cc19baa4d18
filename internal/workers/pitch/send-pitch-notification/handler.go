package sendpitchnotification

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/models"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "send-pitch-notification"

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, text, html string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
	errors *errors.ErrorHandler
	now    func() time.Time
}

// NewHandler accepts nil senders; the matching channel is then reported as
// disabled.
func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
		logger: l,
		errors: errors.NewErrorHandler(l),
		now:    time.Now,
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
	var offer pitch.Offer
	if input.Offer != nil {
		offer = *input.Offer
	} else {
		offer = pitch.BuildOffer(q, score, nil)
	}

	var deliveries []models.Delivery

	admin := pitch.AdminNotification(q, score, offer)
	deliveries = append(deliveries, h.sendEmail(ctx, models.RecipientAdmin, h.config.AdminEmail, admin))

	founder := pitch.FounderEmail(q, score, offer)
	deliveries = append(deliveries, h.sendEmail(ctx, models.RecipientFounder, q.Email, founder))

	if offer.Band == pitch.BandHigh {
		msg := fmt.Sprintf("High-scoring pitch: %s (%d/100) - %s", q.FullName, score.Total, q.IdeaSummary)
		deliveries = append(deliveries, h.sendSMS(ctx, h.config.AdminPhone, truncateSMS(msg)))
	}

	status := summarize(deliveries)
	h.logger.Info("notifications processed", map[string]interface{}{
		"status":       status,
		"deliveries":   len(deliveries),
		"submissionId": input.SubmissionID,
	})
	if status == models.NotificationFailed {
		return nil, errors.NewNotificationSendFailedError("email", stderrors.New(firstError(deliveries))).
			WithMetadata("deliveries", deliveries)
	}

	return &Output{
		Deliveries:         deliveries,
		NotificationStatus: status,
		SentAt:             h.now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) sendEmail(ctx context.Context, recipient, to string, e pitch.Email) models.Delivery {
	d := models.Delivery{Recipient: recipient, Channel: models.ChannelEmail}
	if !h.config.EmailEnabled || h.email == nil || to == "" {
		d.Status = models.NotificationDisabled
		return record(d)
	}
	id, err := h.email.SendEmail(ctx, []string{to}, e.Subject, e.Text, e.HTML)
	if err != nil {
		h.logger.Error("email send failed", map[string]interface{}{
			"recipient": recipient,
			"error":     err.Error(),
		})
		d.Status = models.NotificationFailed
		d.Error = err.Error()
		return record(d)
	}
	d.Status = models.NotificationSent
	d.MessageID = id
	return record(d)
}

func (h *Handler) sendSMS(ctx context.Context, phone, message string) models.Delivery {
	d := models.Delivery{Recipient: models.RecipientAdmin, Channel: models.ChannelSMS}
	if !h.config.SMSEnabled || h.sms == nil || phone == "" {
		d.Status = models.NotificationDisabled
		return record(d)
	}
	id, err := h.sms.SendSMS(ctx, phone, message)
	if err != nil {
		h.logger.Warn("sms send failed", map[string]interface{}{"error": err.Error()})
		d.Status = models.NotificationFailed
		d.Error = err.Error()
		return record(d)
	}
	d.Status = models.NotificationSent
	d.MessageID = id
	return record(d)
}

func record(d models.Delivery) models.Delivery {
	metrics.NotificationDeliveries.WithLabelValues(d.Channel, d.Status).Inc()
	return d
}

// summarize is "failed" only when something was attempted and nothing got
// through.
func summarize(deliveries []models.Delivery) string {
	var sent, failed int
	for _, d := range deliveries {
		switch d.Status {
		case models.NotificationSent:
			sent++
		case models.NotificationFailed:
			failed++
		}
	}
	switch {
	case sent > 0:
		return models.NotificationSent
	case failed > 0:
		return models.NotificationFailed
	default:
		return models.NotificationDisabled
	}
}

func firstError(deliveries []models.Delivery) string {
	for _, d := range deliveries {
		if d.Error != "" {
			return d.Error
		}
	}
	return "no delivery succeeded"
}

// SNS splits anything longer than one 160 character segment.
func truncateSMS(msg string) string {
	r := []rune(msg)
	if len(r) <= 160 {
		return msg
	}
	return string(r[:157]) + "..."
}
