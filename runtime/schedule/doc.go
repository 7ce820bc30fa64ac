// Package schedule turns a fully placed problem into a concrete time-sliced
// execution plan and computes its hyperperiod.
package schedule
