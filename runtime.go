package solver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/AntoineSebert/scheduling-solver/internal/clock"
	"github.com/AntoineSebert/scheduling-solver/model"
	"github.com/AntoineSebert/scheduling-solver/progress"
	"github.com/AntoineSebert/scheduling-solver/runtime/pipeline"
	"github.com/AntoineSebert/scheduling-solver/service/dao"
	daomem "github.com/AntoineSebert/scheduling-solver/service/dao/memory"
	"github.com/AntoineSebert/scheduling-solver/service/messaging"
	"github.com/AntoineSebert/scheduling-solver/service/messaging/memory"
)

// job couples a submitted problem with its batch id.
type job struct {
	id      string
	problem *model.Problem
}

// Runtime processes independent scheduling problems on a bounded worker
// pool. Problems share nothing, so a failure stays confined to its own
// result; siblings already in flight keep running.
type Runtime struct {
	config     *Config
	driver     *pipeline.Driver
	logger     *log.Logger
	results    dao.Service[string, pipeline.Result]
	queue      messaging.Queue[job]
	tracker    *progress.Tracker
	progressCb func(progress.Progress)

	pending  sync.WaitGroup
	workers  []*worker
	workerWg sync.WaitGroup
	started  bool
	shutdown sync.Once
}

type worker struct {
	id       int
	runtime  *Runtime
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a batch runtime.
func New(options ...Option) (*Runtime, error) {
	r := &Runtime{config: DefaultConfig()}
	for _, opt := range options {
		opt(r)
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.results == nil {
		r.results = daomem.New()
	}
	if r.driver == nil {
		r.driver = pipeline.New(pipeline.WithLogger(r.logger))
	}
	r.queue = memory.NewQueue[job](r.config.Runtime.QueueBuffer)
	r.tracker = progress.NewTracker("", r.progressCb)
	return r, nil
}

// Start spawns the worker pool.
func (r *Runtime) Start(ctx context.Context) error {
	if r.started {
		return fmt.Errorf("runtime already started")
	}
	r.started = true
	for i := 0; i < r.config.Runtime.Workers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{id: i, runtime: r, ctx: workerCtx, cancelFn: cancel}
		r.workers = append(r.workers, w)
		r.workerWg.Add(1)
		go w.run()
	}
	return nil
}

// Submit queues one problem and returns the id its result will be stored
// under.
func (r *Runtime) Submit(ctx context.Context, p *model.Problem) (string, error) {
	if p == nil {
		return "", model.NewConfigurationError("nil problem")
	}
	id := uuid.New().String()
	r.pending.Add(1)
	if err := r.queue.Publish(ctx, &job{id: id, problem: p}); err != nil {
		r.pending.Done()
		return "", err
	}
	r.tracker.Update(progress.Delta{Submitted: 1})
	return id, nil
}

// Drain blocks until every submitted problem has a recorded result, or the
// context ends first.
func (r *Runtime) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result returns the recorded outcome of one submission.
func (r *Runtime) Result(ctx context.Context, id string) (*pipeline.Result, error) {
	return r.results.Load(ctx, id)
}

// Results returns all recorded outcomes.
func (r *Runtime) Results(ctx context.Context) ([]*pipeline.Result, error) {
	return r.results.List(ctx)
}

// Progress returns a snapshot of the batch counters.
func (r *Runtime) Progress() progress.Progress {
	return r.tracker.Snapshot()
}

// Shutdown stops the workers and waits for them to exit. Queued problems
// not yet consumed are abandoned.
func (r *Runtime) Shutdown() {
	r.shutdown.Do(func() {
		for _, w := range r.workers {
			w.cancelFn()
		}
		r.workerWg.Wait()
	})
}

// run consumes jobs until the worker context ends. Every job produces a
// stored result, success or failure; an error never cancels siblings.
func (w *worker) run() {
	defer w.runtime.workerWg.Done()
	for {
		msg, err := w.runtime.queue.Consume(w.ctx)
		if err != nil {
			// Context errors are a normal shutdown; anything else means the
			// queue itself broke, and retrying against it would spin hot.
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				w.runtime.logger.Printf("worker %d: consume failed, stopping: %v", w.id, err)
			}
			return
		}
		if solveErr := w.process(msg.T()); solveErr != nil {
			_ = msg.Nack(solveErr)
		} else {
			_ = msg.Ack()
		}
	}
}

func (w *worker) process(j *job) error {
	defer w.runtime.pending.Done()
	started := clock.Now()
	solution, err := w.runtime.driver.Solve(w.ctx, j.problem)
	result := &pipeline.Result{
		ID:       j.id,
		Problem:  j.problem,
		Solution: solution,
		Err:      err,
		Elapsed:  clock.Since(started),
	}
	if saveErr := w.runtime.results.Save(w.ctx, result); saveErr != nil {
		w.runtime.logger.Printf("worker %d: failed to save result %s: %v", w.id, j.id, saveErr)
	}
	if err != nil {
		w.runtime.logger.Printf("worker %d: case %s failed: %v", w.id, j.problem.Filepaths.Tsk, err)
		w.runtime.tracker.Update(progress.Delta{Failed: 1})
		return err
	}
	w.runtime.tracker.Update(progress.Delta{Solved: 1})
	return nil
}
