// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"pitch-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every pitch worker.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// WorkerOptions tunes a single job subscription.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// WorkerPool owns the open job workers so they can be closed together.
type WorkerPool struct {
	client  zbc.Client
	logger  logger.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerPool(client zbc.Client, log logger.Logger) *WorkerPool {
	return &WorkerPool{
		client:  client,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Register opens a job worker for taskType. Registering the same task type
// twice replaces the earlier subscription.
func (p *WorkerPool) Register(taskType string, handler JobHandler, opts WorkerOptions) {
	step := p.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle)
	if opts.MaxJobsActive > 0 {
		step = step.MaxJobsActive(opts.MaxJobsActive)
	}
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}
	jw := step.Name(taskType).Open()

	p.mu.Lock()
	if prev, ok := p.workers[taskType]; ok {
		prev.Close()
	}
	p.workers[taskType] = jw
	p.mu.Unlock()

	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
}

// TaskTypes lists the registered task types.
func (p *WorkerPool) TaskTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.workers))
	for t := range p.workers {
		out = append(out, t)
	}
	return out
}

// Close stops polling and waits for in-flight jobs to finish.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for taskType, jw := range p.workers {
		jw.Close()
		jw.AwaitClose()
		p.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	p.workers = make(map[string]worker.JobWorker)
}
