package engine

import "agvsim/model"

// Event is a marker for everything ChannelObserver emits, adapted from the
// teacher's sim/events.go Event/isEvent() pattern: each lifecycle hook gets
// its own concrete struct instead of one wide record, so a consumer (the
// CSV reporter, a CLI progress printer) can type-switch on exactly what it
// cares about.
type Event interface{ isEvent() }

// EnterEvent mirrors Observer.OnEnter.
type EnterEvent struct {
	Time    float64
	Vehicle string
	Point   uint16
}

func (EnterEvent) isEvent() {}

// ArriveEvent mirrors Observer.OnArrive.
type ArriveEvent struct {
	Time    float64
	Vehicle string
	From    uint16
	To      uint16
}

func (ArriveEvent) isEvent() {}

// CompleteEvent mirrors Observer.OnComplete.
type CompleteEvent struct {
	Time    float64
	Vehicle string
	From    uint16
	To      uint16
}

func (CompleteEvent) isEvent() {}

// DepartEvent mirrors Observer.OnDepart.
type DepartEvent struct {
	Time    float64
	Vehicle string
	From    uint16
	To      uint16
}

func (DepartEvent) isEvent() {}

// ReadyToExitEvent mirrors Observer.OnReadyToExit.
type ReadyToExitEvent struct {
	Time    float64
	Vehicle string
	Point   uint16
}

func (ReadyToExitEvent) isEvent() {}

// ChannelObserver implements Observer by translating each hook into an
// Event and sending it on Events, in the style of sim/runner.go's
// ch <- XEvent{...} delivery. Sends are non-blocking against a full
// channel: a slow consumer drops events rather than stalling the engine,
// matching the teacher's own buffered-channel-plus-default pattern in
// driver/batch.go.
type ChannelObserver struct {
	Events chan Event
	now    func() float64
}

// NewChannelObserver returns a ChannelObserver backed by a channel of the
// given buffer size. now is consulted for each event's Time field.
func NewChannelObserver(buffer int, now func() float64) *ChannelObserver {
	return &ChannelObserver{Events: make(chan Event, buffer), now: now}
}

func (c *ChannelObserver) send(ev Event) {
	select {
	case c.Events <- ev:
	default:
	}
}

func (c *ChannelObserver) OnEnter(v *model.Vehicle, cp uint16) {
	c.send(EnterEvent{Time: c.now(), Vehicle: v.Name, Point: cp})
}

func (c *ChannelObserver) OnArrive(v *model.Vehicle, seg *model.Segment) {
	c.send(ArriveEvent{Time: c.now(), Vehicle: v.Name, From: seg.From, To: seg.To})
}

func (c *ChannelObserver) OnComplete(v *model.Vehicle, seg *model.Segment) {
	c.send(CompleteEvent{Time: c.now(), Vehicle: v.Name, From: seg.From, To: seg.To})
}

func (c *ChannelObserver) OnDepart(v *model.Vehicle, seg *model.Segment) {
	c.send(DepartEvent{Time: c.now(), Vehicle: v.Name, From: seg.From, To: seg.To})
}

func (c *ChannelObserver) OnReadyToExit(v *model.Vehicle, cp uint16) {
	c.send(ReadyToExitEvent{Time: c.now(), Vehicle: v.Name, Point: cp})
}
