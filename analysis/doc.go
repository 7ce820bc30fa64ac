// Package analysis implements the rate-monotonic feasibility test: exact
// rational utilization accounting and the Liu-Layland sufficient
// schedulability condition.
package analysis
