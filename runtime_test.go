package solver

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoineSebert/scheduling-solver/model"
	"github.com/AntoineSebert/scheduling-solver/progress"
	"github.com/AntoineSebert/scheduling-solver/service/messaging"
)

func testProblem(name string, budget int) *model.Problem {
	return &model.Problem{
		Filepaths: model.FilepathPair{Tsk: name + ".tsk", Cfg: name + ".cfg"},
		Graph: []model.Chain{
			{
				ID:     0,
				Name:   name,
				Budget: budget,
				Tasks: []model.Task{
					{ID: 0, Name: "sense", WCET: 2, Period: 10, Deadline: 10},
					{ID: 1, Name: "actuate", WCET: 3, Period: 10, Deadline: 10},
				},
			},
		},
		Arch: model.Architecture{
			{ID: 0, Cores: []model.Core{{ID: 0}, {ID: 1}}},
		},
	}
}

func TestRuntimeBatch(t *testing.T) {
	runtime, err := New(
		WithWorkers(2),
		WithLogger(log.New(io.Discard, "", 0)),
	)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, runtime.Start(ctx))
	defer runtime.Shutdown()

	okID, err := runtime.Submit(ctx, testProblem("case_1", 10))
	require.NoError(t, err)
	ok2ID, err := runtime.Submit(ctx, testProblem("case_2", 10))
	require.NoError(t, err)
	// Budget below the chain duration: this case fails, the others do not.
	badID, err := runtime.Submit(ctx, testProblem("case_3", 1))
	require.NoError(t, err)

	require.NoError(t, runtime.Drain(ctx))

	solved, err := runtime.Result(ctx, okID)
	require.NoError(t, err)
	require.NoError(t, solved.Err)
	assert.Equal(t, 3, solved.Solution.Hyperperiod)

	solved, err = runtime.Result(ctx, ok2ID)
	require.NoError(t, err)
	assert.NoError(t, solved.Err)

	failed, err := runtime.Result(ctx, badID)
	require.NoError(t, err)
	var infeasible *model.InfeasibleChainError
	require.ErrorAs(t, failed.Err, &infeasible)
	assert.Nil(t, failed.Solution)

	snapshot := runtime.Progress()
	assert.Equal(t, 3, snapshot.SubmittedCases)
	assert.Equal(t, 2, snapshot.SolvedCases)
	assert.Equal(t, 1, snapshot.FailedCases)
	assert.Equal(t, 0, snapshot.Pending())

	results, err := runtime.Results(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRuntimeProgressCallback(t *testing.T) {
	var mu sync.Mutex
	var updates []progress.Progress
	runtime, err := New(
		WithWorkers(1),
		WithLogger(log.New(io.Discard, "", 0)),
		WithProgressCallback(func(p progress.Progress) {
			mu.Lock()
			updates = append(updates, p)
			mu.Unlock()
		}),
	)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, runtime.Start(ctx))
	defer runtime.Shutdown()

	_, err = runtime.Submit(ctx, testProblem("case_1", 10))
	require.NoError(t, err)
	require.NoError(t, runtime.Drain(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 2)
	assert.Equal(t, 1, updates[0].SubmittedCases)
	assert.Equal(t, 1, updates[1].SolvedCases)
}

func TestRuntimeSubmitNil(t *testing.T) {
	runtime, err := New(WithLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	_, err = runtime.Submit(context.Background(), nil)
	var configErr *model.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}

func TestRuntimeStartTwice(t *testing.T) {
	runtime, err := New(WithLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, runtime.Start(ctx))
	defer runtime.Shutdown()
	assert.Error(t, runtime.Start(ctx))
}

func TestRuntimeDrainHonoursContext(t *testing.T) {
	runtime, err := New(WithLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)
	// Never started: the submitted case can never complete.
	_, err = runtime.Submit(context.Background(), testProblem("case_1", 10))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, runtime.Drain(ctx), context.DeadlineExceeded)
}

func TestRuntimeInvalidConfig(t *testing.T) {
	_, err := New(WithWorkers(0))
	assert.Error(t, err)
}

// brokenQueue fails every operation, standing in for a backing queue that
// went away mid-batch.
type brokenQueue struct{ err error }

func (q *brokenQueue) Publish(context.Context, *job) error { return q.err }

func (q *brokenQueue) Consume(context.Context) (messaging.Message[job], error) {
	return nil, q.err
}

func TestRuntimeWorkerStopsOnQueueFailure(t *testing.T) {
	runtime, err := New(
		WithWorkers(2),
		WithLogger(log.New(io.Discard, "", 0)),
	)
	require.NoError(t, err)
	runtime.queue = &brokenQueue{err: errors.New("queue unavailable")}
	require.NoError(t, runtime.Start(context.Background()))
	defer runtime.Shutdown()

	// A queue failure that is not a context error must stop the worker, not
	// spin it against the broken queue.
	done := make(chan struct{})
	go func() {
		runtime.workerWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers kept consuming from a failed queue")
	}
}
