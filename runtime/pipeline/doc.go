// Package pipeline drives one problem through feasibility analysis, task
// assignment and schedule generation, producing a solution or a per-problem
// error.
package pipeline
