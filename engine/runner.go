package engine

import "agvsim/model"

// Runner drives an Engine's Scheduler to completion on its own goroutine,
// streaming lifecycle events out on a channel — the same events/stop/wait
// shape as the teacher's sim.StartRunner, adapted from a real-time,
// per-bus-goroutine simulation to a single-threaded virtual-clock one: here
// a single goroutine owns the scheduler, and Stop asks it to cut the run
// short at the next event boundary rather than canceling concurrent
// per-vehicle workers (there are none — the whole network advances on one
// logical thread, per spec §5).
type Runner struct {
	eng     *Engine
	sch     *Scheduler
	horizon float64
	obs     *ChannelObserver
	done    chan struct{}
	stopped bool
}

// NewRunner wraps eng/sch with a ChannelObserver and registers it, so
// callers receive every lifecycle event without installing their own
// Observer. horizon bounds the run; pass math.Inf(1) to run to exhaustion.
func NewRunner(eng *Engine, sch *Scheduler, horizon float64, eventBuffer int) *Runner {
	obs := NewChannelObserver(eventBuffer, sch.Now)
	eng.AddObserver(obs)
	return &Runner{eng: eng, sch: sch, horizon: horizon, obs: obs, done: make(chan struct{})}
}

// Events returns the channel lifecycle events are delivered on. It is
// closed once the run finishes.
func (r *Runner) Events() <-chan Event { return r.obs.Events }

// Start runs the scheduler on a new goroutine until the horizon is reached,
// the queue drains, or Stop is called. Events and Events-channel closure
// happen on that goroutine; Wait blocks until it exits.
func (r *Runner) Start() (stop func(), wait func()) {
	go func() {
		defer close(r.obs.Events)
		defer close(r.done)
		cursor := r.sch.Now()
		for r.sch.Pending() > 0 && !r.stopped && !r.eng.Halted() {
			// Advance in small slices of the horizon so Stop takes effect
			// promptly rather than only once the whole horizon has run.
			cursor++
			if cursor > r.horizon {
				cursor = r.horizon
			}
			r.sch.RunUntil(cursor)
			if cursor >= r.horizon {
				break
			}
		}
	}()
	return r.stop, r.wait
}

func (r *Runner) stop() { r.stopped = true }
func (r *Runner) wait() { <-r.done }

// RequestToEnter and Exit forward to the wrapped Engine, for callers that
// only hold a Runner.
func (r *Runner) RequestToEnter(v *model.Vehicle, cp uint16) { r.eng.RequestToEnter(v, cp) }
func (r *Runner) Exit(v *model.Vehicle, cp uint16)           { r.eng.Exit(v, cp) }
