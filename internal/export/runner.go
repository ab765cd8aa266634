package export

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"cutroom/internal/logging"
)

// Job is one export running in the background.
type Job struct {
	ID     string
	Plan   Plan
	Output string

	cancel     context.CancelFunc
	onComplete CompletionFunc
	done       chan struct{}
	result     Result
	err        error
}

// Done is closed when the job finishes.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes and returns its outcome.
func (j *Job) Wait() (Result, error) {
	<-j.done
	return j.result, j.err
}

// Cancel asks the job to stop between steps. The running engine call is
// interrupted through its context.
func (j *Job) Cancel() {
	j.cancel()
}

// CompletionFunc observes finished jobs.
type CompletionFunc func(job *Job, result Result, err error)

// Runner executes at most one export at a time off the caller's goroutine.
type Runner struct {
	executor *Executor
	logger   *slog.Logger

	mu      sync.Mutex
	current *Job
}

// NewRunner constructs a runner around executor.
func NewRunner(executor *Executor, logger *slog.Logger) *Runner {
	return &Runner{
		executor: executor,
		logger:   logging.NewComponentLogger(logger, "export-runner"),
	}
}

// Busy reports whether an export is in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Current returns the running job, if any.
func (r *Runner) Current() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Start launches plan in a new goroutine. It returns ErrExportInFlight when
// another job is still running. onComplete, when non-nil, runs after the job
// finishes and before its Done channel closes.
func (r *Runner) Start(ctx context.Context, plan Plan, output string, onComplete CompletionFunc) (*Job, error) {
	r.mu.Lock()
	if r.current != nil {
		r.mu.Unlock()
		return nil, ErrExportInFlight
	}
	id := uuid.NewString()
	jobCtx, cancel := context.WithCancel(logging.WithExportID(ctx, id))
	job := &Job{
		ID:         id,
		Plan:       plan,
		Output:     output,
		cancel:     cancel,
		onComplete: onComplete,
		done:       make(chan struct{}),
	}
	r.current = job
	r.mu.Unlock()

	r.logger.Info("export queued",
		logging.String(logging.FieldExportID, id),
		logging.String("output", output),
	)

	go r.run(jobCtx, job)
	return job, nil
}

func (r *Runner) run(ctx context.Context, job *Job) {
	defer job.cancel()
	job.result, job.err = r.executor.Execute(ctx, job.Plan, job.Output)

	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()

	if job.onComplete != nil {
		job.onComplete(job, job.result, job.err)
	}
	close(job.done)
}
