package model

type (
	// FilepathPair records the *.tsk and *.cfg files a case was built from.
	// It is provenance only and opaque to the solving pipeline.
	FilepathPair struct {
		Tsk string `json:"tsk"`
		Cfg string `json:"cfg"`
	}

	// Problem is one independent scheduling case: a chain set and the
	// architecture to place it on. A problem is consumed exactly once; its
	// architecture is exclusively owned by the pipeline processing it.
	Problem struct {
		Filepaths FilepathPair `json:"filepaths"`
		Graph     []Chain      `json:"graph"`
		Arch      Architecture `json:"arch"`
	}

	// Solution wraps the fully scheduled architecture of a problem together
	// with its hyperperiod, the latest slice end across all cores.
	Solution struct {
		Filepaths   FilepathPair `json:"filepaths"`
		Hyperperiod int          `json:"hyperperiod"`
		Arch        Architecture `json:"arch"`
	}
)

// Chain returns the chain with the given id, or nil.
func (p *Problem) Chain(id int) *Chain {
	for i := range p.Graph {
		if p.Graph[i].ID == id {
			return &p.Graph[i]
		}
	}
	return nil
}

// Task resolves a ref against the graph, or nil when either id dangles.
func (p *Problem) Task(ref TaskRef) *Task {
	chain := p.Chain(ref.ChainID)
	if chain == nil {
		return nil
	}
	return chain.Task(ref.TaskID)
}

// TaskCount returns the number of tasks across all chains.
func (p *Problem) TaskCount() int {
	var count int
	for i := range p.Graph {
		count += len(p.Graph[i].Tasks)
	}
	return count
}
