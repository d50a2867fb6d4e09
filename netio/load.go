// Package netio loads the JSON network document (spec §6) into a
// model.Network. The document lists control points and, for each, its
// outgoing neighbors; segment geometry (length) is derived from point
// coordinates when not given explicitly, and capacity/lane count fall back
// to documented defaults when a neighbor entry omits them. Control points
// are identified on the wire by a string id (spec §6); Load assigns each a
// compact uint16 handle and records the original string as the point's name,
// so the network's bidirectional name<->id mapping (spec §3) round-trips
// the document's own identifiers.
//
// Grounded on the teacher's model/route_loader.go: decode into an
// unexported raw* struct tree shaped like the wire format, then build the
// real domain types from it, wrapping decode failures with context.
package netio

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"agvsim/model"
	"agvsim/routing"
)

// DefaultCapacity and DefaultLanes apply to a neighbor entry that gives
// only an id, with no capacity/lanes of its own (spec §9, open question on
// segment defaults — resolved as a single-vehicle, single-lane segment,
// the most conservative choice that still lets a document omit the detail
// entirely for a quick hand-written network).
const (
	DefaultCapacity = 1
	DefaultLanes    = 1
)

type rawMeta struct {
	Kind string `json:"kind"`
}

// rawNeighbor accepts either a bare neighbor id ("next": ["B", "C"]) or an
// object form carrying per-segment overrides ("next": [{"id":"B",
// "capacity":4}]). UnmarshalJSON tells the two apart from the token shape.
type rawNeighbor struct {
	ID       string   `json:"id"`
	Capacity int      `json:"capacity"`
	Lanes    int      `json:"lanes"`
	Length   *float64 `json:"length"`
}

func (n *rawNeighbor) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		n.ID = id
		return nil
	}
	type alias rawNeighbor
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*n = rawNeighbor(a)
	return nil
}

type rawPoint struct {
	ID     string        `json:"id"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Region string        `json:"region"`
	Meta   rawMeta       `json:"meta"`
	InOut  bool          `json:"inout"`
	Next   []rawNeighbor `json:"next"`
}

type rawDocument struct {
	Points []rawPoint `json:"points"`
}

// Load decodes a network document from r into a model.Network. Each point's
// string id is assigned a uint16 handle in document order and retained as
// the control point's Name, so Network.IDForName/NameForID recover the
// document's own identifiers later (spec §3, §6).
func Load(r io.Reader) (*model.Network, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode network document")
	}

	ids := make(map[string]uint16, len(doc.Points))
	var next uint16
	for _, p := range doc.Points {
		if _, exists := ids[p.ID]; exists {
			return nil, errors.Errorf("duplicate point id %q", p.ID)
		}
		next++
		ids[p.ID] = next
	}

	net := model.NewNetwork()
	for _, p := range doc.Points {
		net.AddControlPoint(&model.ControlPoint{
			ID:          ids[p.ID],
			Name:        p.ID,
			X:           p.X,
			Y:           p.Y,
			Region:      p.Region,
			Kind:        p.Meta.Kind,
			IsEntryExit: p.InOut,
		})
	}

	for _, p := range doc.Points {
		from := ids[p.ID]
		fromCP := net.ControlPoint(from)
		for _, nb := range p.Next {
			to, ok := ids[nb.ID]
			if !ok {
				return nil, errors.Errorf("point %q references unknown neighbor %q", p.ID, nb.ID)
			}
			target := net.ControlPoint(to)
			capacity := nb.Capacity
			if capacity <= 0 {
				capacity = DefaultCapacity
			}
			lanes := nb.Lanes
			if lanes <= 0 {
				lanes = DefaultLanes
			}
			length := routing.Euclidean(fromCP.X, fromCP.Y, target.X, target.Y)
			if nb.Length != nil {
				length = *nb.Length
			}
			net.AddSegment(from, to, model.NewSegment(from, to, capacity, length, lanes))
		}
	}
	return net, nil
}
