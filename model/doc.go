// Package model defines the typed scheduling domain: periodic tasks grouped
// into precedence chains, the processor/core architecture they are placed
// on, and the problem/solution pair the pipeline consumes and produces.
//
// Tasks live in a flat owned collection indexed by (chain id, task id);
// everything that needs to point at a task carries a TaskRef and resolves it
// through the owning Problem.
package model
