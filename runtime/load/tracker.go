package load

import (
	"container/heap"
	"math/big"
	"sync"

	"github.com/AntoineSebert/scheduling-solver/analysis"
	"github.com/AntoineSebert/scheduling-solver/model"
)

// coreLoad is one (utilization, core) entry of a tracker's ordered view.
type coreLoad struct {
	coreID int
	util   *big.Rat
}

// coreHeap orders cores by ascending utilization, ties by core id so that
// extraction stays deterministic.
type coreHeap []coreLoad

func (h coreHeap) Len() int { return len(h) }

func (h coreHeap) Less(i, j int) bool {
	if cmp := h[i].util.Cmp(h[j].util); cmp != 0 {
		return cmp < 0
	}
	return h[i].coreID < h[j].coreID
}

func (h coreHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *coreHeap) Push(x interface{}) { *h = append(*h, x.(coreLoad)) }

func (h *coreHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Tracker holds one processor's workload state: the aggregate utilization
// and a min-ordered view over its cores. The mutex makes recomputation and
// queries on the same processor a critical section; different processors
// never contend.
type Tracker struct {
	mu    sync.Mutex
	total *big.Rat
	cores coreHeap
}

// LeastLoaded returns the id of the processor's least utilized core. It
// returns model.ErrNoCoreAvailable when the processor has no cores, which a
// validated architecture rules out.
func (t *Tracker) LeastLoaded() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.cores) == 0 {
		return 0, model.ErrNoCoreAvailable
	}
	return t.cores[0].coreID, nil
}

// Total returns a copy of the processor's aggregate utilization.
func (t *Tracker) Total() *big.Rat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(big.Rat).Set(t.total)
}

// Set holds one tracker per processor of a single problem. The trackers are
// an ordering view only; cores remain owned by the architecture.
type Set struct {
	trackers map[int]*Tracker
}

// NewSet builds trackers for every processor of the problem and primes them
// from the current, possibly partial, assignment.
func NewSet(p *model.Problem) (*Set, error) {
	s := &Set{trackers: make(map[int]*Tracker, len(p.Arch))}
	for i := range p.Arch {
		s.trackers[p.Arch[i].ID] = &Tracker{total: new(big.Rat)}
	}
	if err := s.RecomputeAll(p); err != nil {
		return nil, err
	}
	return s, nil
}

// LeastLoaded returns the least utilized core of the given processor.
func (s *Set) LeastLoaded(cpuID int) (int, error) {
	tracker, ok := s.trackers[cpuID]
	if !ok {
		return 0, model.NewConfigurationError("no tracker for processor %d", cpuID)
	}
	return tracker.LeastLoaded()
}

// Total returns the aggregate utilization of the given processor.
func (s *Set) Total(cpuID int) (*big.Rat, error) {
	tracker, ok := s.trackers[cpuID]
	if !ok {
		return nil, model.NewConfigurationError("no tracker for processor %d", cpuID)
	}
	return tracker.Total(), nil
}

// Recompute rebuilds one processor's ordered view from scratch by scanning
// the graph for tasks currently placed on any of its cores. Safe to run
// concurrently across different processors, never for the same one.
func (s *Set) Recompute(p *model.Problem, cpuID int) error {
	tracker, ok := s.trackers[cpuID]
	if !ok {
		return model.NewConfigurationError("no tracker for processor %d", cpuID)
	}
	cpu := p.Arch.Processor(cpuID)
	if cpu == nil {
		return model.NewConfigurationError("unknown processor %d", cpuID)
	}

	utils := make(map[int]*big.Rat, len(cpu.Cores))
	for i := range cpu.Cores {
		utils[cpu.Cores[i].ID] = new(big.Rat)
	}
	for i := range p.Graph {
		chain := &p.Graph[i]
		for ii := range chain.Tasks {
			task := &chain.Tasks[ii]
			if task.CPUID != cpuID {
				continue
			}
			coreID, err := task.CoreID.Get()
			if err != nil {
				continue // unplaced
			}
			util, ok := utils[coreID]
			if !ok {
				return model.NewConfigurationError("task %d in chain %d references unknown core %d on processor %d", task.ID, chain.ID, coreID, cpuID)
			}
			util.Add(util, analysis.Utilization(task))
		}
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.total = new(big.Rat)
	tracker.cores = make(coreHeap, 0, len(cpu.Cores))
	for i := range cpu.Cores {
		id := cpu.Cores[i].ID
		tracker.total.Add(tracker.total, utils[id])
		tracker.cores = append(tracker.cores, coreLoad{coreID: id, util: utils[id]})
	}
	heap.Init(&tracker.cores)
	return nil
}

// RecomputeAll rebuilds every processor's view, one goroutine per processor.
// Processors are disjoint, so the fan-out is race-free; the first error wins.
func (s *Set) RecomputeAll(p *model.Problem) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for cpuID := range s.trackers {
		wg.Add(1)
		go func(cpuID int) {
			defer wg.Done()
			if err := s.Recompute(p, cpuID); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(cpuID)
	}
	wg.Wait()
	return firstErr
}
