// Package solver assigns periodic real-time tasks, organised into
// precedence chains, onto the cores of a multiprocessor architecture and
// produces a time-sliced execution plan with a feasibility verdict.
//
// The root package exposes the batch runtime: independent problems are
// submitted to a bounded worker pool and each runs the full pipeline
// (feasibility analysis, stress-driven assignment, schedule generation) in
// isolation:
//
//	rt, _ := solver.New(solver.WithWorkers(4))
//	_ = rt.Start(ctx)
//	defer rt.Shutdown()
//	id, _ := rt.Submit(ctx, problem)
//	_ = rt.Drain(ctx)
//	result, _ := rt.Result(ctx, id)
//
// Problems come from service/builder, solutions render via service/format.
package solver
