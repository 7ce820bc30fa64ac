package model

import (
	"github.com/markphelps/optional"
)

type (
	// TaskRef identifies a task by its owning chain and its id within that
	// chain. Queue entries and slices carry refs, never pointers into the
	// graph; resolution and mutation go through the owning Problem.
	TaskRef struct {
		ChainID int `json:"chainId"`
		TaskID  int `json:"taskId"`
	}

	// Task is a periodic real-time task pinned to a processor. CoreID stays
	// absent until the assignment engine places the task.
	Task struct {
		ID        int          `json:"id"`
		Name      string       `json:"name,omitempty"`
		WCET      int          `json:"wcet"`
		Period    int          `json:"period"`
		Deadline  int          `json:"deadline"`
		MaxJitter optional.Int `json:"maxJitter"`
		Offset    int          `json:"offset"`
		CPUID     int          `json:"cpuId"`
		CoreID    optional.Int `json:"coreId"`
	}
)

// Placed reports whether the task has been assigned to a core.
func (t *Task) Placed() bool {
	return t.CoreID.Present()
}

// Place assigns the task to the given core. Placement is terminal: the
// assignment engine never moves a placed task.
func (t *Task) Place(coreID int) {
	t.CoreID.Set(coreID)
}
