package schedule

import (
	"sort"

	"github.com/AntoineSebert/scheduling-solver/model"
)

// Generate lays out the execution slices of a fully placed problem and
// returns its hyperperiod. Chains are processed by descending priority, then
// descending task count: long chains have the least slack relative to
// wall-clock and must claim core time before short ones saturate it. Per
// core the slices come out back to back, gap-free and in insertion order.
//
// Generate appends; callers invoke it exactly once per problem.
func Generate(p *model.Problem) (int, error) {
	order := make([]int, len(p.Graph))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := &p.Graph[order[i]], &p.Graph[order[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if len(a.Tasks) != len(b.Tasks) {
			return len(a.Tasks) > len(b.Tasks)
		}
		return a.ID < b.ID
	})

	for _, idx := range order {
		chain := &p.Graph[idx]
		for ii := range chain.Tasks {
			task := &chain.Tasks[ii]
			coreID, err := task.CoreID.Get()
			if err != nil {
				return 0, model.NewConfigurationError("task %d in chain %d is unplaced", task.ID, chain.ID)
			}
			cpu := p.Arch.Processor(task.CPUID)
			if cpu == nil {
				return 0, model.NewConfigurationError("task %d in chain %d references unknown processor %d", task.ID, chain.ID, task.CPUID)
			}
			core := cpu.Core(coreID)
			if core == nil {
				return 0, model.NewConfigurationError("task %d in chain %d references unknown core %d on processor %d", task.ID, chain.ID, coreID, task.CPUID)
			}
			start := core.LastSliceEnd()
			core.Slices = append(core.Slices, model.Slice{
				Task:  model.TaskRef{ChainID: chain.ID, TaskID: task.ID},
				Start: start,
				End:   start + task.WCET,
			})
		}
	}
	return Hyperperiod(p.Arch), nil
}

// Hyperperiod returns the latest slice end across all cores, 0 when no core
// holds a slice.
func Hyperperiod(arch model.Architecture) int {
	var hyperperiod int
	for i := range arch {
		for ii := range arch[i].Cores {
			if end := arch[i].Cores[ii].LastSliceEnd(); end > hyperperiod {
				hyperperiod = end
			}
		}
	}
	return hyperperiod
}
