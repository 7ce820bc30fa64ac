// Package format renders solutions to JSON, the schedule-table XML schema
// or a raw debug string. It treats the solution as read-only.
package format
