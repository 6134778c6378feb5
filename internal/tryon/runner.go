package tryon

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/fitroom/internal/logging"
)

// Generator is what a Runner executes; *Orchestrator satisfies it.
type Generator interface {
	Generate(ctx context.Context, userID string, userPhoto []byte, sel Selection) (*GeneratedImage, error)
}

// Runner executes try-on requests on background goroutines, at most limit
// at a time. Each job owns its own context and can be canceled on its own.
type Runner struct {
	gen Generator
	sem *semaphore.Weighted
	wg  sync.WaitGroup
	log logging.Logger
}

func NewRunner(gen Generator, limit int, log logging.Logger) *Runner {
	if limit <= 0 {
		limit = 1
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{gen: gen, sem: semaphore.NewWeighted(int64(limit)), log: log}
}

type Job struct {
	cancel context.CancelFunc
	done   chan struct{}
	result *GeneratedImage
	err    error
}

// Start launches a job derived from ctx. The job stops when ctx is done or
// Cancel is called, whichever comes first.
func (r *Runner) Start(ctx context.Context, userID string, userPhoto []byte, sel Selection) *Job {
	jobCtx, cancel := context.WithCancel(ctx)
	j := &Job{cancel: cancel, done: make(chan struct{})}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(j.done)
		defer cancel()

		if err := r.sem.Acquire(jobCtx, 1); err != nil {
			j.err = err
			return
		}
		defer r.sem.Release(1)

		j.result, j.err = r.gen.Generate(jobCtx, userID, userPhoto, sel)
	}()

	return j
}

// Wait blocks until all started jobs have returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Wait returns the job's outcome, or ctx.Err() if ctx is done first. The
// job keeps running in that case.
func (j *Job) Wait(ctx context.Context) (*GeneratedImage, error) {
	select {
	case <-j.done:
		return j.result, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (j *Job) Cancel() { j.cancel() }

func (j *Job) Done() <-chan struct{} { return j.done }
