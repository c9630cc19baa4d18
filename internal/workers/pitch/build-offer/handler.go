// internal/workers/pitch/build-offer/handler.go
package buildoffer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "build-offer"
)

type Handler struct {
	config *Config
	offers *pitch.OfferBuilder
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		offers: pitch.NewOfferBuilder(config.Links),
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	q, err := pitch.FromMap(input.FormData)
	if err != nil {
		var invalid *pitch.InvalidQuestionnaireError
		if stderrors.As(err, &invalid) {
			return nil, errors.NewInvalidQuestionnaireError(invalid.Fields())
		}
		return nil, errors.NewOfferBuildFailedError(err.Error())
	}

	score, err := resolveScore(q, input.Score)
	if err != nil {
		return nil, err
	}

	offer := h.offers.Build(q, score, input.SelectedAddOnIDs)
	metrics.PitchOffers.WithLabelValues(offer.Band.String()).Inc()

	h.logger.Info("offer built", map[string]interface{}{
		"scoreBand":  offer.Band.String(),
		"package":    offer.BasePackage.Name,
		"totalPrice": offer.TotalPrice,
		"addOns":     len(offer.TriggeredAddOns()),
	})

	return &Output{
		Offer:      offer,
		ScoreBand:  offer.Band,
		TotalPrice: offer.TotalPrice,
		Prompts:    pitch.Prompts(q),
	}, nil
}

// resolveScore uses the score computed upstream, or scores q when the
// process carries none. A carried score whose total disagrees with its
// categories is rejected.
func resolveScore(q pitch.Questionnaire, carried *pitch.Score) (pitch.Score, error) {
	if carried == nil {
		return pitch.Evaluate(q), nil
	}
	sum := 0
	for _, c := range carried.Breakdown() {
		sum += c.Value
	}
	if sum != carried.Total {
		return pitch.Score{}, errors.NewOfferBuildFailedError(
			fmt.Sprintf("score total %d does not match category sum %d", carried.Total, sum))
	}
	return *carried, nil
}
