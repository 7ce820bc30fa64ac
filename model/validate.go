package model

// Validate checks the structural preconditions the solving pipeline relies
// on: a non-empty architecture with unique ids, non-empty chains with unique
// ids, positive WCETs and periods, and no dangling processor or core
// references. An empty graph is valid and yields an empty schedule.
func (p *Problem) Validate() error {
	if len(p.Arch) == 0 {
		return NewConfigurationError("architecture has no processor")
	}
	seenCPUs := make(map[int]bool, len(p.Arch))
	for i := range p.Arch {
		cpu := &p.Arch[i]
		if seenCPUs[cpu.ID] {
			return NewConfigurationError("duplicate processor id %d", cpu.ID)
		}
		seenCPUs[cpu.ID] = true
		if len(cpu.Cores) == 0 {
			return NewConfigurationError("processor %d has no core", cpu.ID)
		}
		seenCores := make(map[int]bool, len(cpu.Cores))
		for ii := range cpu.Cores {
			if seenCores[cpu.Cores[ii].ID] {
				return NewConfigurationError("duplicate core id %d on processor %d", cpu.Cores[ii].ID, cpu.ID)
			}
			seenCores[cpu.Cores[ii].ID] = true
		}
	}

	seenChains := make(map[int]bool, len(p.Graph))
	for i := range p.Graph {
		chain := &p.Graph[i]
		if seenChains[chain.ID] {
			return NewConfigurationError("duplicate chain id %d", chain.ID)
		}
		seenChains[chain.ID] = true
		if len(chain.Tasks) == 0 {
			return NewConfigurationError("chain %d has no task", chain.ID)
		}
		if chain.Budget < 0 {
			return NewConfigurationError("chain %d has a negative budget %d", chain.ID, chain.Budget)
		}
		seenTasks := make(map[int]bool, len(chain.Tasks))
		for ii := range chain.Tasks {
			if err := validateTask(chain, &chain.Tasks[ii], seenTasks, p.Arch); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateTask(chain *Chain, task *Task, seen map[int]bool, arch Architecture) error {
	if seen[task.ID] {
		return NewConfigurationError("duplicate task id %d in chain %d", task.ID, chain.ID)
	}
	seen[task.ID] = true
	if task.WCET <= 0 {
		return NewConfigurationError("task %d in chain %d has a non-positive wcet %d", task.ID, chain.ID, task.WCET)
	}
	if task.Period <= 0 {
		return NewConfigurationError("task %d in chain %d has a non-positive period %d", task.ID, chain.ID, task.Period)
	}
	if task.WCET > task.Period {
		return NewConfigurationError("task %d in chain %d has wcet %d above its period %d", task.ID, chain.ID, task.WCET, task.Period)
	}
	if task.Offset < 0 {
		return NewConfigurationError("task %d in chain %d has a negative offset %d", task.ID, chain.ID, task.Offset)
	}
	cpu := arch.Processor(task.CPUID)
	if cpu == nil {
		return NewConfigurationError("task %d in chain %d references unknown processor %d", task.ID, chain.ID, task.CPUID)
	}
	if coreID, err := task.CoreID.Get(); err == nil && cpu.Core(coreID) == nil {
		return NewConfigurationError("task %d in chain %d references unknown core %d on processor %d", task.ID, chain.ID, coreID, task.CPUID)
	}
	return nil
}
