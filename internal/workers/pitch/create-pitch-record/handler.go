// internal/workers/pitch/create-pitch-record/handler.go
package createpitchrecord

import (
	"context"
	"database/sql"
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
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "create-pitch-record"

	uniqueViolation = "23505"
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
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
		input.ProcessInstanceKey = job.ProcessInstanceKey
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
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{"jobKey": job.Key})
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
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	// A redelivered job finds the row its earlier attempt wrote.
	if existing, err := h.findByInstance(ctx, input.ProcessInstanceKey); err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	} else if existing != nil {
		h.logger.Info("pitch record already stored for this process instance", map[string]interface{}{
			"submissionId":       existing.SubmissionID,
			"processInstanceKey": input.ProcessInstanceKey,
		})
		return existing, nil
	}

	submissionID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	formJSON, err := json.Marshal(pitch.ToMap(q))
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	scoreJSON, err := json.Marshal(input.Score)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO pitch_submissions (
			id, email, full_name, idea_summary, form_data,
			score_total, score_breakdown, flags, score_band, total_price,
			source, status, created_at, updated_at, process_instance_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13, $14)`,
		submissionID,
		q.Email,
		q.FullName,
		q.IdeaSummary,
		formJSON,
		input.Score.Total,
		scoreJSON,
		pq.Array(input.Score.FlagStrings()),
		input.Offer.Band.String(),
		input.Offer.TotalPrice,
		h.config.Source,
		models.SubmissionStatusSubmitted,
		createdAt,
		sql.NullInt64{Int64: input.ProcessInstanceKey, Valid: input.ProcessInstanceKey != 0},
	)
	var pqErr *pq.Error
	switch {
	case stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation:
		// The same founder already pitched this idea, or a concurrent
		// attempt for this instance got there first.
		if pqErr.Constraint == database.ConstraintProcessInstance {
			existing, findErr := h.findByInstance(ctx, input.ProcessInstanceKey)
			if findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, errors.NewDuplicateSubmissionError(q.Email)
	case err != nil:
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	// Audit log entry is best effort.
	auditJSON, err := json.Marshal(map[string]interface{}{
		"email":      q.Email,
		"scoreTotal": input.Score.Total,
		"scoreBand":  input.Offer.Band.String(),
		"totalPrice": input.Offer.TotalPrice,
	})
	if err != nil {
		auditJSON = []byte("{}")
	}
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"pitch_submitted",
		"pitch_submission",
		submissionID,
		auditJSON,
		createdAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":        err.Error(),
			"submissionId": submissionID,
		})
	}

	h.logger.Info("pitch record created", map[string]interface{}{
		"submissionId": submissionID,
		"scoreTotal":   input.Score.Total,
		"scoreBand":    input.Offer.Band.String(),
	})

	return &Output{
		SubmissionID:     submissionID,
		SubmissionStatus: models.SubmissionStatusSubmitted,
		CreatedAt:        createdAt,
	}, nil
}

// findByInstance returns the record stored for processInstanceKey, or nil.
// Key 0 means the call did not come from a job.
func (h *Handler) findByInstance(ctx context.Context, processInstanceKey int64) (*Output, error) {
	if processInstanceKey == 0 {
		return nil, nil
	}
	var (
		out       Output
		createdAt time.Time
	)
	err := h.db.QueryRowContext(ctx, `
		SELECT id, status, created_at FROM pitch_submissions
		WHERE process_instance_key = $1`, processInstanceKey).
		Scan(&out.SubmissionID, &out.SubmissionStatus, &createdAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &out, nil
}
