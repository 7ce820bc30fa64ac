package model

import (
	"github.com/markphelps/optional"
)

type (
	// Slice is one contiguous execution window of a task on a core.
	// End-Start always equals the task's WCET.
	Slice struct {
		Task  TaskRef `json:"task"`
		Start int     `json:"start"`
		End   int     `json:"end"`
	}

	// Core is a schedulable execution unit of a processor. Slices stay empty
	// until the schedule generator runs and are append-only afterwards.
	Core struct {
		ID        int          `json:"id"`
		Macrotick optional.Int `json:"macrotick"`
		Slices    []Slice      `json:"slices"`
	}

	// Processor groups the cores a task can be pinned to via Task.CPUID.
	Processor struct {
		ID    int    `json:"id"`
		Cores []Core `json:"cores"`
	}

	// Architecture is the ordered processor topology of one problem. The
	// topology is immutable; only slices mutate as the pipeline runs.
	Architecture []Processor
)

// Processor returns the processor with the given id, or nil.
func (a Architecture) Processor(id int) *Processor {
	for i := range a {
		if a[i].ID == id {
			return &a[i]
		}
	}
	return nil
}

// Core returns the core with the given id, or nil.
func (p *Processor) Core(id int) *Core {
	for i := range p.Cores {
		if p.Cores[i].ID == id {
			return &p.Cores[i]
		}
	}
	return nil
}

// LastSliceEnd returns the end of the core's last slice, or 0 when the core
// holds no slices yet.
func (c *Core) LastSliceEnd() int {
	if len(c.Slices) == 0 {
		return 0
	}
	return c.Slices[len(c.Slices)-1].End
}
