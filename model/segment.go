package model

// InPendingEntry pairs a vehicle queued on an upstream segment with that
// upstream segment, recorded in a downstream segment's InPending list while
// the vehicle waits for room to enter (spec §3, in_pending).
type InPendingEntry struct {
	Vehicle         *Vehicle
	UpstreamSegment *Segment
}

// Segment is a directed, capacity-limited edge between two control points.
type Segment struct {
	From, To uint16

	TotalCapacity     int
	RemainingCapacity int
	Length            float64
	NumberOfLanes     int

	// EnterTimeStamp / DepartTimeStamp hold the simulation clock value of
	// the last admission / last departure, consulted by the smoothing rule.
	EnterTimeStamp  float64
	DepartTimeStamp float64

	// IsCongested is set when the departure of the vehicle at the head of
	// OutPending is held back by smoothing on its next segment, and cleared
	// when a vehicle departs. A full downstream segment does not set it.
	IsCongested bool

	// OutPending holds vehicles that finished traversal but have not yet
	// departed, in FIFO completion order (no-overtake).
	OutPending []*Vehicle

	// InPending holds (vehicle, upstream segment) pairs waiting for room to
	// enter this segment, in FIFO order.
	InPending []InPendingEntry
}

// NewSegment constructs a segment with RemainingCapacity seeded from
// TotalCapacity.
func NewSegment(from, to uint16, totalCapacity int, length float64, lanes int) *Segment {
	return &Segment{
		From:              from,
		To:                to,
		TotalCapacity:     totalCapacity,
		RemainingCapacity: totalCapacity,
		Length:            length,
		NumberOfLanes:     lanes,
	}
}

// HasRoom reports whether a vehicle needing the given capacity can be
// admitted right now.
func (s *Segment) HasRoom(capacityNeeded int) bool {
	return s.RemainingCapacity >= capacityNeeded
}

// PopOutPendingHead removes and returns the head of OutPending, or nil if
// empty.
func (s *Segment) PopOutPendingHead() *Vehicle {
	if len(s.OutPending) == 0 {
		return nil
	}
	v := s.OutPending[0]
	s.OutPending = s.OutPending[1:]
	return v
}

// OutPendingHead returns the head of OutPending without removing it, or nil.
func (s *Segment) OutPendingHead() *Vehicle {
	if len(s.OutPending) == 0 {
		return nil
	}
	return s.OutPending[0]
}

// PopInPendingHead removes and returns the head entry of InPending. The
// second return value is false if InPending was empty.
func (s *Segment) PopInPendingHead() (InPendingEntry, bool) {
	if len(s.InPending) == 0 {
		return InPendingEntry{}, false
	}
	e := s.InPending[0]
	s.InPending = s.InPending[1:]
	return e, true
}
