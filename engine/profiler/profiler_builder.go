package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithInterval is an option builder that sets how often stats are logged.
// Non-positive intervals are ignored.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval to a profiler
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithDetail is an option builder that appends extra text to every stats line.
//
// Parameters:
//   - fn: returns the text, for example the current action
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the detail source to a profiler
func WithDetail(fn func() string) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.detail = fn
	}
}

// WithClock is an option builder that replaces time.Now.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the clock to a profiler
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
