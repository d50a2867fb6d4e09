package model

import "github.com/pkg/errors"

// ErrArrived is returned by Vehicle.NextSegment when the vehicle's target
// list is exhausted: it has reached its destination.
var ErrArrived = errors.New("vehicle has arrived: no remaining targets")

// ErrNoRoute is returned by Vehicle.NextSegment when the routing table has
// no next-hop for (current, next target), or when the routing table names a
// next-hop for which no segment exists in the network (spec §7, routing
// miss / graph inconsistency — both surfaced identically to the caller).
var ErrNoRoute = errors.New("no route to remaining target")

// ErrNoSuchSegment is returned by Network.GetSegment when the (from, to)
// pair has no segment.
var ErrNoSuchSegment = errors.New("no such segment")
