package assign

import (
	"container/heap"
	"context"
	"math/big"

	"github.com/AntoineSebert/scheduling-solver/model"
	"github.com/AntoineSebert/scheduling-solver/runtime/load"
	"github.com/AntoineSebert/scheduling-solver/tracing"
)

// Stress scores how time-critical an unplaced task is, (period-offset)/wcet.
// A task with little slack relative to its own execution cost must claim
// capacity early, so a lower score is dequeued first.
func Stress(t *model.Task) *big.Rat {
	return big.NewRat(int64(t.Period-t.Offset), int64(t.WCET))
}

// item is one unplaced task awaiting placement. Entries carry the task's
// ref and a precomputed score, never a pointer into the graph.
type item struct {
	stress *big.Rat
	ref    model.TaskRef
}

// queue orders items by ascending stress; ties break by chain id then task
// id so that placement stays reproducible.
type queue []item

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if cmp := q[i].stress.Cmp(q[j].stress); cmp != 0 {
		return cmp < 0
	}
	if q[i].ref.ChainID != q[j].ref.ChainID {
		return q[i].ref.ChainID < q[j].ref.ChainID
	}
	return q[i].ref.TaskID < q[j].ref.TaskID
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x interface{}) { *q = append(*q, x.(item)) }

func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// Run places every unplaced task of the problem: most stressed first, each
// on the least loaded core of its pinned processor, recomputing that one
// processor's load view after every placement. Placement is terminal, the
// loop never revisits a placed task, and every task carries a valid
// processor id, so the queue drains completely.
func Run(ctx context.Context, p *model.Problem) (err error) {
	_, span := tracing.StartSpan(ctx, "assign.Run", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	pq := make(queue, 0, p.TaskCount())
	for i := range p.Graph {
		chain := &p.Graph[i]
		for ii := range chain.Tasks {
			task := &chain.Tasks[ii]
			if task.Placed() {
				continue
			}
			pq = append(pq, item{
				stress: Stress(task),
				ref:    model.TaskRef{ChainID: chain.ID, TaskID: task.ID},
			})
		}
	}
	heap.Init(&pq)

	trackers, err := load.NewSet(p)
	if err != nil {
		return err
	}
	for pq.Len() > 0 {
		next := heap.Pop(&pq).(item)
		task := p.Task(next.ref)
		if task == nil {
			return model.NewConfigurationError("dangling task ref %d/%d", next.ref.ChainID, next.ref.TaskID)
		}
		coreID, err := trackers.LeastLoaded(task.CPUID)
		if err != nil {
			return err
		}
		task.Place(coreID)
		if err := trackers.Recompute(p, task.CPUID); err != nil {
			return err
		}
	}
	return nil
}
