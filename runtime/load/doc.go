// Package load tracks per-processor, per-core workload during assignment
// and answers least-loaded-core queries in O(log cores).
package load
