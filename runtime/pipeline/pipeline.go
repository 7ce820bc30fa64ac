package pipeline

import (
	"context"
	"log"
	"math/big"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/AntoineSebert/scheduling-solver/analysis"
	"github.com/AntoineSebert/scheduling-solver/internal/clock"
	"github.com/AntoineSebert/scheduling-solver/model"
	"github.com/AntoineSebert/scheduling-solver/runtime/assign"
	"github.com/AntoineSebert/scheduling-solver/runtime/schedule"
	"github.com/AntoineSebert/scheduling-solver/tracing"
)

// Driver orchestrates the full solving pipeline for a single problem:
// validation, feasibility reporting, assignment, budget check, schedule
// generation. One problem, no retries; the caller owns batching.
type Driver struct {
	logger *log.Logger
}

// Option customises a Driver.
type Option func(*Driver)

// WithLogger sets the sink the driver reports to.
func WithLogger(logger *log.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// New creates a driver. Without options it reports to the default logger.
func New(options ...Option) *Driver {
	d := &Driver{}
	for _, opt := range options {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.Default()
	}
	return d
}

// Solve runs the pipeline on one problem and wraps the scheduled
// architecture into a solution. Any error aborts this problem only.
func (d *Driver) Solve(ctx context.Context, p *model.Problem) (solution *model.Solution, err error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Solve", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	if p == nil {
		return nil, model.NewConfigurationError("nil problem")
	}
	span.WithAttributes(map[string]string{
		"case.tsk":   p.Filepaths.Tsk,
		"case.cfg":   p.Filepaths.Cfg,
		"case.tasks": strconv.Itoa(p.TaskCount()),
	})
	started := clock.Now()

	if err = p.Validate(); err != nil {
		return nil, err
	}
	d.logger.Printf("case %s: shortest theoretical scheduling time %d", p.Filepaths.Tsk, analysis.ShortestSchedulingTime(p.Graph))

	// Chains carrying pre-placed tasks may already be infeasible.
	if err = checkBudgets(p); err != nil {
		return nil, err
	}
	if err = d.assignTasks(ctx, p); err != nil {
		return nil, err
	}
	// All tasks are placed now, so this covers each chain's full duration.
	// An infeasible chain blocks the schedule generator.
	if err = checkBudgets(p); err != nil {
		return nil, err
	}

	var hyperperiod int
	if hyperperiod, err = d.generateSchedule(ctx, p); err != nil {
		return nil, err
	}
	d.reportBalance(p)
	d.logger.Printf("case %s: solved in %s, hyperperiod %d", p.Filepaths.Tsk, clock.Since(started), hyperperiod)

	return &model.Solution{
		Filepaths:   p.Filepaths,
		Hyperperiod: hyperperiod,
		Arch:        p.Arch,
	}, nil
}

func (d *Driver) assignTasks(ctx context.Context, p *model.Problem) error {
	started := clock.Now()
	if err := assign.Run(ctx, p); err != nil {
		return err
	}
	d.logger.Printf("case %s: assigned %d tasks in %s", p.Filepaths.Tsk, p.TaskCount(), clock.Since(started))
	return nil
}

func (d *Driver) generateSchedule(ctx context.Context, p *model.Problem) (hyperperiod int, err error) {
	_, span := tracing.StartSpan(ctx, "schedule.Generate", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	started := clock.Now()
	if hyperperiod, err = schedule.Generate(p); err != nil {
		return 0, err
	}
	d.logger.Printf("case %s: generated schedule in %s", p.Filepaths.Tsk, clock.Since(started))
	return hyperperiod, nil
}

func checkBudgets(p *model.Problem) error {
	for i := range p.Graph {
		chain := &p.Graph[i]
		if placed := chain.PlacedDuration(); chain.Budget < placed {
			return &model.InfeasibleChainError{ChainID: chain.ID, Budget: chain.Budget, Placed: placed}
		}
	}
	return nil
}

// reportBalance logs the spread of per-core utilizations so that skewed
// placements show up in the case log.
func (d *Driver) reportBalance(p *model.Problem) {
	type coreKey struct{ cpuID, coreID int }
	utils := make(map[coreKey]*big.Rat)
	for i := range p.Graph {
		chain := &p.Graph[i]
		for ii := range chain.Tasks {
			task := &chain.Tasks[ii]
			coreID, err := task.CoreID.Get()
			if err != nil {
				continue
			}
			key := coreKey{cpuID: task.CPUID, coreID: coreID}
			if utils[key] == nil {
				utils[key] = new(big.Rat)
			}
			utils[key].Add(utils[key], analysis.Utilization(task))
		}
	}

	var samples []float64
	for i := range p.Arch {
		for ii := range p.Arch[i].Cores {
			key := coreKey{cpuID: p.Arch[i].ID, coreID: p.Arch[i].Cores[ii].ID}
			if util, ok := utils[key]; ok {
				value, _ := util.Float64()
				samples = append(samples, value)
			} else {
				samples = append(samples, 0)
			}
		}
	}
	if len(samples) == 0 {
		return
	}
	d.logger.Printf("case %s: core utilization mean %.4f stddev %.4f across %d cores",
		p.Filepaths.Tsk, stat.Mean(samples, nil), stat.StdDev(samples, nil), len(samples))
}

// Result is the recorded outcome of one problem in a batch: either a
// solution or the error that stopped its pipeline.
type Result struct {
	ID       string
	Problem  *model.Problem
	Solution *model.Solution
	Err      error
	Elapsed  time.Duration
}

// Clone returns a shallow copy; the problem and solution are owned by the
// finished pipeline and treated as read-only from here on.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
