package model

import (
	"errors"
	"fmt"
)

// ErrNoCoreAvailable is returned when a least-loaded-core query hits a
// processor without cores. A validated architecture never triggers it.
var ErrNoCoreAvailable = errors.New("processor has no core available")

// ConfigurationError reports a structural precondition violation in a
// problem. It aborts the affected problem only; sibling problems in a batch
// keep running.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// NewConfigurationError builds a ConfigurationError from a format string.
func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// InfeasibleChainError reports a chain whose budget cannot cover the
// cumulative WCET of its placed tasks. The schedule generator must not run
// on a problem carrying this condition.
type InfeasibleChainError struct {
	ChainID int
	Budget  int
	Placed  int
}

func (e *InfeasibleChainError) Error() string {
	return fmt.Sprintf("chain %d is infeasible: budget %d is below the placed duration %d", e.ChainID, e.Budget, e.Placed)
}
