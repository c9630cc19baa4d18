package camunda

import (
	"context"
	"fmt"
	"time"

	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// CompleteJob completes job with output serialized as process variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("complete job %d: %w", job.Key, err)
	}
	return nil
}

// JobRun tracks one activation for the worker metrics.
type JobRun struct {
	taskType string
	start    time.Time
}

// BeginJob marks a job of taskType as active.
func BeginJob(taskType string) *JobRun {
	metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobRun{taskType: taskType, start: time.Now()}
}

// Done records the outcome. err is the error the job failed with, or nil.
func (r *JobRun) Done(ctx context.Context, err error) {
	elapsed := time.Since(r.start)
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())

	status := "completed"
	if err != nil {
		status = "failed"
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(errors.Normalize(err).Code)).Inc()
	} else {
		metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	}
	observability.RecordJob(ctx, r.taskType, status, elapsed)
}
