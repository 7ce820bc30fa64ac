// Package assign implements the greedy, stress-driven task-to-core
// allocator: the most time-critical unplaced task always claims the least
// loaded compatible core next.
package assign
