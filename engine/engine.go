// Package engine implements the movement state machine (spec §4.5): the
// discrete-event transitions that advance vehicles across a model.Network
// one capacity-limited segment at a time, honoring no-overtake, backward
// capacity propagation (congestion), and admission smoothing.
//
// The transition graph is grounded on the teacher's driver/batch.go event
// loop (a container/heap-scheduled sequence of stop arrivals/departures)
// generalized from a fixed bus route to an arbitrary directed network, and
// on sim/runner.go's observer-notification shape, generalized from a
// single channel of named events to a registered-Observer list (spec
// §4.6).
package engine

import (
	"agvsim/model"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// vehiclePathPair is an entry on the ready-to-exit list: a vehicle that has
// nothing left to do but leave the network, and the segment (if any) whose
// capacity must be released when it does. Segment is nil when the vehicle
// reached its destination during RequestToEnter without ever occupying a
// segment (spec §4.5, request_to_enter).
type vehiclePathPair struct {
	Vehicle   *model.Vehicle
	Segment   *model.Segment
	ExitPoint uint16
}

// Engine is the movement state machine for one network/routing-table pair.
// It is not safe for concurrent use: every transition assumes it runs on
// the Scheduler's single logical thread of control.
type Engine struct {
	net *model.Network
	rt  *model.RoutingTable
	sch *Scheduler

	smoothFactor   float64
	coldStartDelay float64
	minimalTick    float64

	observers []Observer

	// entryPending holds, per control point, the FIFO of vehicles waiting
	// to be admitted onto an outbound segment (spec §3, entry_pending).
	entryPending map[uint16][]*model.Vehicle

	// readyToExit holds vehicles that have announced OnReadyToExit and are
	// awaiting a matching Exit call.
	readyToExit []vehiclePathPair

	halted  bool
	haltErr error
	log     *logrus.Entry
}

// Config bundles the timing tunables an Engine needs beyond the network,
// routing table and scheduler (spec §4.5).
type Config struct {
	SmoothFactor   float64
	ColdStartDelay float64
	MinimalTick    float64
}

// New constructs an Engine over net and rt, driven by sch. log may be nil,
// in which case a standard logrus logger is used.
func New(net *model.Network, rt *model.RoutingTable, sch *Scheduler, cfg Config, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		net:            net,
		rt:             rt,
		sch:            sch,
		smoothFactor:   cfg.SmoothFactor,
		coldStartDelay: cfg.ColdStartDelay,
		minimalTick:    cfg.MinimalTick,
		entryPending:   make(map[uint16][]*model.Vehicle),
		log:            log,
	}
}

// AddObserver registers o. Hooks fire in registration order.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Halted reports whether an invariant violation has stopped the engine
// from processing further transitions (spec §7).
func (e *Engine) Halted() bool { return e.halted }

// HaltErr returns the diagnostic that halted the engine, or nil.
func (e *Engine) HaltErr() error { return e.haltErr }

// RequestToEnter is the public entry point for a vehicle wanting to join
// the network at cp (spec §4.5). If cp is already the vehicle's only
// remaining target, the vehicle never occupies a segment: it is marked
// ready to exit immediately.
func (e *Engine) RequestToEnter(v *model.Vehicle, cp uint16) {
	if e.halted {
		return
	}
	for len(v.Targets) > 0 && v.Targets[0] == cp {
		v.Targets = v.Targets[1:]
	}
	if len(v.Targets) == 0 {
		e.markReadyToExit(v, nil, cp)
		return
	}
	e.entryPending[cp] = append(e.entryPending[cp], v)
	e.sch.Schedule(e.minimalTick, func() { e.attemptToEnter(cp) })
}

// Exit is the public counterpart to a prior OnReadyToExit notification: it
// releases any capacity the vehicle still holds and wakes anything that
// was waiting on it. A call naming a (vehicle, cp) pair not currently on
// the ready-to-exit list is a silent no-op (spec §7, "bad exit call").
func (e *Engine) Exit(v *model.Vehicle, cp uint16) {
	if e.halted {
		return
	}
	idx := -1
	for i, pair := range e.readyToExit {
		if pair.Vehicle == v && pair.ExitPoint == cp {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	pair := e.readyToExit[idx]
	e.readyToExit = append(e.readyToExit[:idx], e.readyToExit[idx+1:]...)

	seg := pair.Segment
	if seg == nil {
		return
	}
	seg.RemainingCapacity += v.CapacityNeeded
	v.CurrentSegment = nil
	if e.invariantViolated(seg, "exit") {
		return
	}
	if len(seg.InPending) > 0 {
		entry := seg.InPending[0]
		e.sch.Schedule(e.minimalTick, func() { e.attemptToDepart(entry.UpstreamSegment, entry.Vehicle) })
	}
	from := seg.From
	e.sch.Schedule(e.minimalTick, func() { e.attemptToEnter(from) })
}

// attemptToEnter scans entryPending[cp] in FIFO order, admitting the first
// vehicle for which the next segment has room (after smoothing). Vehicles
// that can't be resolved to a route, or whose next segment is full, are
// skipped over (they remain queued); a vehicle whose route is admissible
// but held back by smoothing stops the scan, since the reschedule will
// revisit the same head on the next pass.
func (e *Engine) attemptToEnter(cp uint16) {
	if e.halted {
		return
	}
	snapshot := append([]*model.Vehicle(nil), e.entryPending[cp]...)
	for _, v := range snapshot {
		p, err := v.NextSegment(e.net, e.rt, cp)
		if err != nil {
			if errors.Is(err, model.ErrArrived) {
				e.removeFromEntryPending(cp, v)
				e.markReadyToExit(v, nil, cp)
				continue
			}
			e.log.WithFields(logrus.Fields{"vehicle": v.Name, "point": cp}).Warn("routing miss on entry: vehicle stalls")
			continue
		}
		if !p.HasRoom(v.CapacityNeeded) {
			continue
		}
		delta := e.sch.Now() - p.EnterTimeStamp
		if delta < e.smoothFactor {
			e.sch.Schedule(e.smoothFactor-delta, func() { e.attemptToEnter(cp) })
			return
		}
		e.enter(v, p, cp)
		return
	}
}

func (e *Engine) enter(v *model.Vehicle, p *model.Segment, cp uint16) {
	p.EnterTimeStamp = e.sch.Now()
	e.removeFromEntryPending(cp, v)
	for _, o := range e.observers {
		o.OnEnter(v, cp)
	}
	v.IsStopped = true
	e.arrive(v, p)
}

func (e *Engine) arrive(v *model.Vehicle, p *model.Segment) {
	for _, o := range e.observers {
		o.OnArrive(v, p)
	}
	v.CurrentSegment = p
	v.RemoveTarget(p.From)
	p.RemainingCapacity -= v.CapacityNeeded
	if e.invariantViolated(p, "arrive") {
		return
	}

	tau := p.Length / v.Speed
	if v.IsStopped {
		tau += e.coldStartDelay
		v.IsStopped = false
	}
	seg := p
	e.sch.Schedule(tau, func() { e.complete(v, seg) })
}

func (e *Engine) complete(v *model.Vehicle, p *model.Segment) {
	p.OutPending = append(p.OutPending, v)
	for _, o := range e.observers {
		o.OnComplete(v, p)
	}
	e.sch.Schedule(e.minimalTick, func() { e.attemptToDepart(p, nil) })
}

// attemptToDepart tries to move v (or, if v is nil, the head of
// p.OutPending) off p and onto its next segment. A vehicle held back by
// smoothing marks p congested and is retried once the smoothing interval
// has passed. A vehicle whose next segment is full stays queued and, if it
// is the only vehicle in p.OutPending and not yet registered anywhere, is
// appended to that segment's InPending, so that capacity freed there
// re-triggers this same attempt.
//
// When v successfully departs and leaves a new head behind in p.OutPending,
// that new head is promoted into its own next segment's InPending right
// away (spec §4.5 transition 5) rather than waiting for its own completion
// event to discover it is blocked — with three or more vehicles ever queued
// on p at once, that head may have already been sitting in OutPending for a
// while, so the promotion cannot be deferred to the len(p.OutPending) == 1
// case below without stranding it.
func (e *Engine) attemptToDepart(p *model.Segment, v *model.Vehicle) {
	if e.halted {
		return
	}
	if len(p.OutPending) == 0 {
		return
	}
	if v == nil {
		v = p.OutPendingHead()
	} else {
		found := false
		for _, x := range p.OutPending {
			if x == v {
				found = true
				break
			}
		}
		if !found {
			return
		}
	}

	v.IsStopped = p.IsCongested

	q, err := v.NextSegment(e.net, e.rt, p.To)
	if err != nil {
		if errors.Is(err, model.ErrArrived) {
			e.removeFromOutPending(p, v)
			e.readyToExit(v, p)
			return
		}
		e.log.WithFields(logrus.Fields{"vehicle": v.Name, "segment": [2]uint16{p.From, p.To}}).
			Warn("routing miss on departure: vehicle stalls")
		return
	}

	delta := e.sch.Now() - q.DepartTimeStamp
	if q.HasRoom(v.CapacityNeeded) {
		if delta < e.smoothFactor {
			p.IsCongested = true
			e.sch.Schedule(e.smoothFactor-delta, func() { e.attemptToDepart(p, v) })
			return
		}
		p.IsCongested = false
		e.removeFromOutPending(p, v)

		if w := p.OutPendingHead(); w != nil && w.PendingSegment == nil {
			if r, rerr := w.NextSegment(e.net, e.rt, p.To); rerr == nil {
				r.InPending = append(r.InPending, model.InPendingEntry{Vehicle: w, UpstreamSegment: p})
				w.PendingSegment = r
			}
		}

		if v.PendingSegment != nil {
			v.PendingSegment.PopInPendingHead()
			v.PendingSegment = nil
		}

		e.depart(v, p)
		q.DepartTimeStamp = e.sch.Now()
		return
	}

	if len(p.OutPending) == 1 && v.PendingSegment == nil {
		q.InPending = append(q.InPending, model.InPendingEntry{Vehicle: v, UpstreamSegment: p})
		v.PendingSegment = q
	}
}

func (e *Engine) depart(v *model.Vehicle, p *model.Segment) {
	for _, o := range e.observers {
		o.OnDepart(v, p)
	}
	p.RemainingCapacity += v.CapacityNeeded
	if e.invariantViolated(p, "depart") {
		return
	}

	if q, err := v.NextSegment(e.net, e.rt, p.To); err == nil {
		e.arrive(v, q)
	} else if !errors.Is(err, model.ErrArrived) {
		e.log.WithFields(logrus.Fields{"vehicle": v.Name, "point": p.To}).Warn("routing miss after departure: vehicle stalls")
	}

	e.sch.Schedule(e.minimalTick, func() { e.attemptToDepart(p, nil) })
	if len(p.InPending) > 0 {
		entry := p.InPending[0]
		e.sch.Schedule(e.minimalTick, func() { e.attemptToDepart(entry.UpstreamSegment, entry.Vehicle) })
	}
	from := p.From
	e.sch.Schedule(e.minimalTick, func() { e.attemptToEnter(from) })
}

func (e *Engine) readyToExit(v *model.Vehicle, p *model.Segment) {
	e.markReadyToExit(v, p, p.To)
}

func (e *Engine) markReadyToExit(v *model.Vehicle, seg *model.Segment, exitPoint uint16) {
	e.readyToExit = append(e.readyToExit, vehiclePathPair{Vehicle: v, Segment: seg, ExitPoint: exitPoint})
	for _, o := range e.observers {
		o.OnReadyToExit(v, exitPoint)
	}
}

func (e *Engine) removeFromEntryPending(cp uint16, v *model.Vehicle) {
	list := e.entryPending[cp]
	for i, x := range list {
		if x == v {
			e.entryPending[cp] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (e *Engine) removeFromOutPending(p *model.Segment, v *model.Vehicle) {
	for i, x := range p.OutPending {
		if x == v {
			p.OutPending = append(p.OutPending[:i], p.OutPending[i+1:]...)
			return
		}
	}
}

// invariantViolated checks a segment's capacity bookkeeping after a
// mutation and, if broken, halts the engine with a diagnostic citing the
// segment and the transition that broke it (spec §7, fatal). Returns
// whether the engine is now halted.
func (e *Engine) invariantViolated(seg *model.Segment, during string) bool {
	if seg.RemainingCapacity >= 0 && seg.RemainingCapacity <= seg.TotalCapacity {
		return false
	}
	err := errors.Errorf(
		"invariant violation on segment %d->%d during %s: remaining=%d total=%d",
		seg.From, seg.To, during, seg.RemainingCapacity, seg.TotalCapacity,
	)
	e.log.WithFields(logrus.Fields{
		"segment_from": seg.From,
		"segment_to":   seg.To,
		"during":       during,
	}).Error(err)
	e.halted = true
	e.haltErr = err
	return true
}
