// Package builder turns a *.tsk/*.cfg file pair into a validated
// model.Problem. It is the only place that knows the input file formats;
// the solving pipeline consumes the typed model exclusively.
package builder
