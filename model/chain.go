package model

// Chain is an ordered sequence of tasks forming a precedence path with a
// shared end-to-end budget. Higher priority chains are scheduled first.
type Chain struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Priority int    `json:"priority"`
	Budget   int    `json:"budget"`
	Tasks    []Task `json:"tasks"`
}

// Task returns the task with the given id, or nil.
func (c *Chain) Task(id int) *Task {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}

// Duration returns the cumulative WCET of all tasks in the chain.
func (c *Chain) Duration() int {
	var total int
	for i := range c.Tasks {
		total += c.Tasks[i].WCET
	}
	return total
}

// PlacedDuration returns the cumulative WCET of the tasks already assigned
// to a core. A chain whose budget cannot cover it is infeasible.
func (c *Chain) PlacedDuration() int {
	var total int
	for i := range c.Tasks {
		if c.Tasks[i].Placed() {
			total += c.Tasks[i].WCET
		}
	}
	return total
}
