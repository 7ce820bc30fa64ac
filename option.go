package solver

import (
	"log"

	"github.com/AntoineSebert/scheduling-solver/progress"
	"github.com/AntoineSebert/scheduling-solver/runtime/pipeline"
	"github.com/AntoineSebert/scheduling-solver/service/dao"
)

// Option customises a Runtime.
type Option func(r *Runtime)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(r *Runtime) {
		if config != nil {
			r.config = config
		}
	}
}

// WithWorkers overrides the worker count.
func WithWorkers(count int) Option {
	return func(r *Runtime) { r.config.Runtime.Workers = count }
}

// WithLogger sets the sink runtime and driver report to.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

// WithDriver replaces the default per-problem driver.
func WithDriver(driver *pipeline.Driver) Option {
	return func(r *Runtime) { r.driver = driver }
}

// WithResultDAO replaces the default in-memory result store.
func WithResultDAO(results dao.Service[string, pipeline.Result]) Option {
	return func(r *Runtime) { r.results = results }
}

// WithProgressCallback registers a callback invoked after every counter
// change of the batch tracker.
func WithProgressCallback(cb func(progress.Progress)) Option {
	return func(r *Runtime) { r.progressCb = cb }
}
