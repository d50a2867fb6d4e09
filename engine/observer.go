package engine

import "agvsim/model"

// Observer receives synchronous notification of vehicle lifecycle
// transitions (spec §4.6). Hooks are invoked inline, on the scheduler's own
// goroutine, in the order observers were registered; an observer must not
// call back into Engine except Exit (spec §4.6, "observers must not
// re-enter mutating engine operations").
type Observer interface {
	// OnEnter fires when a vehicle is admitted onto a segment at cp.
	OnEnter(v *model.Vehicle, cp uint16)
	// OnArrive fires when a vehicle occupies (is now traversing) seg.
	OnArrive(v *model.Vehicle, seg *model.Segment)
	// OnComplete fires when a vehicle finishes traversing seg and joins
	// its OutPending.
	OnComplete(v *model.Vehicle, seg *model.Segment)
	// OnDepart fires when a vehicle leaves seg's OutPending for the next
	// segment. A vehicle leaving for the exit gets OnReadyToExit instead.
	OnDepart(v *model.Vehicle, seg *model.Segment)
	// OnReadyToExit fires when a vehicle has nothing left to do but leave
	// the network at cp; the caller is expected to eventually call
	// Engine.Exit(v, cp).
	OnReadyToExit(v *model.Vehicle, cp uint16)
}

// NoOpObserver implements Observer with no-op methods. Embed it to satisfy
// the interface while overriding only the hooks of interest, the same
// partial-implementation idiom the teacher uses for its Event-handling
// switch default cases.
type NoOpObserver struct{}

func (NoOpObserver) OnEnter(*model.Vehicle, uint16)            {}
func (NoOpObserver) OnArrive(*model.Vehicle, *model.Segment)   {}
func (NoOpObserver) OnComplete(*model.Vehicle, *model.Segment) {}
func (NoOpObserver) OnDepart(*model.Vehicle, *model.Segment)   {}
func (NoOpObserver) OnReadyToExit(*model.Vehicle, uint16)      {}
