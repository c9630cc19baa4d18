// internal/workers/pitch/score-pitch/handler.go
package scorepitch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/database"
	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "score-pitch"

	cacheKeyPrefix = "pitch:score:v1:"
)

type Handler struct {
	config *Config
	cache  *database.RedisClient
	logger logger.Logger
	errors *errors.ErrorHandler
}

// NewHandler builds the scorer. A nil client disables the score cache.
func NewHandler(config *Config, rdb *redis.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	h := &Handler{
		config: config,
		logger: l,
		errors: errors.NewErrorHandler(l),
	}
	if rdb != nil {
		h.cache = &database.RedisClient{Client: rdb}
	}
	return h
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
		return nil, errors.NewScoringFailedError(err.Error())
	}

	key, err := cacheKey(q)
	if err != nil {
		return nil, errors.NewScoringFailedError(err.Error())
	}

	if score, ok := h.lookup(ctx, key); ok {
		return newOutput(score, true), nil
	}

	score := pitch.Evaluate(q)
	metrics.PitchScore.Observe(float64(score.Total))
	h.store(ctx, key, score)

	h.logger.Info("pitch scored", map[string]interface{}{
		"total": score.Total,
		"flags": score.FlagStrings(),
	})
	return newOutput(score, false), nil
}

func newOutput(score pitch.Score, cached bool) *Output {
	return &Output{
		Score:      score,
		ScoreTotal: score.Total,
		Flags:      score.FlagStrings(),
		Cached:     cached,
	}
}

func (h *Handler) lookup(ctx context.Context, key string) (pitch.Score, bool) {
	var score pitch.Score
	if h.cache == nil {
		return score, false
	}
	err := h.cache.GetJSON(ctx, key, &score)
	switch {
	case err == nil:
		metrics.PitchScoreCache.WithLabelValues("hit").Inc()
		return score, true
	case stderrors.Is(err, database.ErrCacheMiss):
		metrics.PitchScoreCache.WithLabelValues("miss").Inc()
	default:
		metrics.PitchScoreCache.WithLabelValues("error").Inc()
		h.logger.Warn("score cache read failed", map[string]interface{}{"error": err.Error()})
	}
	return pitch.Score{}, false
}

func (h *Handler) store(ctx context.Context, key string, score pitch.Score) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetJSON(ctx, key, score, h.config.CacheTTL); err != nil {
		h.logger.Warn("score cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// cacheKey hashes the canonical JSON form of q. Scoring is a pure function
// of the questionnaire, so equal records share an entry.
func cacheKey(q pitch.Questionnaire) (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encode questionnaire: %w", err)
	}
	sum := sha256.Sum256(raw)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}
