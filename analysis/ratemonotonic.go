package analysis

import (
	"math"
	"math/big"

	"github.com/AntoineSebert/scheduling-solver/model"
)

// Utilization returns the exact fraction of core capacity a task requires,
// wcet/period. The task must come from a validated problem (period > 0).
func Utilization(t *model.Task) *big.Rat {
	return big.NewRat(int64(t.WCET), int64(t.Period))
}

// Workload sums the utilizations of a task set. The empty set carries no
// workload. Summation stays exact; floating point drifts too far across
// many tasks to survive the bound comparison.
func Workload(tasks []*model.Task) *big.Rat {
	total := new(big.Rat)
	for _, t := range tasks {
		total.Add(total, Utilization(t))
	}
	return total
}

// SufficientCondition returns the Liu-Layland utilization bound
// n*(2^(1/n)-1) under which n tasks are schedulable with static priorities.
// The irrational exponent makes this the one legitimately floating-point
// term of the analysis. n must be positive.
func SufficientCondition(n int) float64 {
	return float64(n) * (math.Pow(2, 1/float64(n)) - 1)
}

// Schedulable reports whether the task set passes the sufficient
// schedulability condition. The empty set is trivially schedulable; it is
// short-circuited before the bound, which is undefined for n = 0.
func Schedulable(tasks []*model.Task) bool {
	if len(tasks) == 0 {
		return true
	}
	bound := new(big.Float).SetFloat64(SufficientCondition(len(tasks)))
	workload := new(big.Float).SetRat(Workload(tasks))
	return workload.Cmp(bound) <= 0
}

// ShortestSchedulingTime returns the theoretical shortest scheduling time of
// a graph, the cumulative WCET of its most trivial chain. Informational
// only; an empty graph schedules in no time.
func ShortestSchedulingTime(graph []model.Chain) int {
	if len(graph) == 0 {
		return 0
	}
	shortest := graph[0].Duration()
	for i := 1; i < len(graph); i++ {
		if duration := graph[i].Duration(); duration < shortest {
			shortest = duration
		}
	}
	return shortest
}
