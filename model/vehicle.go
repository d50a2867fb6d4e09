package model

import "github.com/pkg/errors"

// Vehicle is an AGV: a point object with speed and unit (or multi-unit)
// capacity demand, advancing through the network one segment at a time.
type Vehicle struct {
	Name           string
	Speed          float64
	CapacityNeeded int

	// CurrentSegment is the segment currently occupied (traversing or
	// parked in its OutPending), nil if the vehicle is not yet admitted.
	CurrentSegment *Segment

	// PendingSegment is the downstream segment in whose InPending the
	// vehicle is waiting, nil if the vehicle is not waiting on one. Modeled
	// as a nilable pointer rather than a sentinel id — the field is
	// genuinely optional (spec §9).
	PendingSegment *Segment

	// IsStopped is true when the vehicle is at rest; it triggers a
	// cold-start delay on its next motion.
	IsStopped bool

	// Targets is the ordered list of control points still to be visited.
	// The vehicle has arrived when this is empty.
	Targets []uint16
}

// NewVehicle constructs a vehicle with the given identity, kinematics, and
// target list. The target slice is copied so callers may reuse theirs.
func NewVehicle(name string, speed float64, capacityNeeded int, targets []uint16) *Vehicle {
	t := make([]uint16, len(targets))
	copy(t, targets)
	return &Vehicle{Name: name, Speed: speed, CapacityNeeded: capacityNeeded, Targets: t}
}

// Arrived reports whether the vehicle's target list is empty.
func (v *Vehicle) Arrived() bool {
	return len(v.Targets) == 0
}

// RemoveTarget pops the head of Targets if it equals point. Only the head
// is ever popped; intermediate entries are never skipped (spec §4.4).
func (v *Vehicle) RemoveTarget(point uint16) bool {
	if len(v.Targets) == 0 || v.Targets[0] != point {
		return false
	}
	v.Targets = v.Targets[1:]
	return true
}

// NextSegment determines the segment the vehicle must occupy next, given
// its current control point. It collapses stale targets (targets already
// equal to the current point) before consulting the routing table.
//
// Returns ErrArrived if the target list empties out during collapsing.
// Returns ErrNoRoute if the routing table has no next-hop for the
// (current, next-target) pair, or if the routing table's next-hop names a
// control point for which the network has no (current, next-hop) segment —
// both are "no route" from the caller's point of view (spec §4.4, §7).
func (v *Vehicle) NextSegment(net *Network, rt *RoutingTable, current uint16) (*Segment, error) {
	for len(v.Targets) > 0 && v.Targets[0] == current {
		v.Targets = v.Targets[1:]
	}
	if len(v.Targets) == 0 {
		return nil, ErrArrived
	}
	dest := v.Targets[0]
	hop, ok := rt.NextHop(current, dest)
	if !ok {
		return nil, errors.Wrapf(ErrNoRoute, "no next-hop for (%d -> %d)", current, dest)
	}
	seg, err := net.GetSegment(current, hop)
	if err != nil {
		return nil, errors.Wrapf(ErrNoRoute, "routing table names unreachable segment (%d -> %d)", current, hop)
	}
	return seg, nil
}
