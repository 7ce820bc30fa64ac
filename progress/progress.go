package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the batch
// runtime. Fields are signed, so both increments and corrections work.
type Delta struct {
	Submitted int
	Solved    int
	Failed    int
}

// Progress is a point-in-time view of one batch's case counters.
type Progress struct {
	// Identification, informative only.
	Batch     string
	StartedAt time.Time

	SubmittedCases int
	SolvedCases    int
	FailedCases    int
}

// Pending returns the number of submitted cases not yet solved or failed.
func (p Progress) Pending() int {
	return p.SubmittedCases - p.SolvedCases - p.FailedCases
}

// Tracker aggregates case counters for one batch. Safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	current  Progress
	onChange func(Progress)
}

// NewTracker creates a tracker for the named batch.
func NewTracker(batch string, onChange func(Progress)) *Tracker {
	return &Tracker{
		current:  Progress{Batch: batch, StartedAt: time.Now()},
		onChange: onChange,
	}
}

// Update applies the supplied delta. The onChange callback, when set, runs
// outside the critical section with a snapshot, so slow consumers never
// block the workers.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.current.SubmittedCases += d.Submitted
	t.current.SolvedCases += d.Solved
	t.current.FailedCases += d.Failed
	snapshot := t.current
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy suitable for read-only inspection.
func (t *Tracker) Snapshot() Progress {
	if t == nil {
		return Progress{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Pending returns the number of cases still in flight.
func (t *Tracker) Pending() int {
	return t.Snapshot().Pending()
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it; only one callback can be active.
func (t *Tracker) OnChange(cb func(Progress)) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.onChange = cb
	t.mu.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker for the named batch, embeds it in a
// derived context and returns both.
func WithNewTracker(ctx context.Context, batch string, onChange func(Progress)) (context.Context, *Tracker) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := NewTracker(batch, onChange)
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx, when present.
func FromContext(ctx context.Context) (*Tracker, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Tracker)
	return tr, ok
}
