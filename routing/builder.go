// Package routing precomputes the next-hop table the movement engine
// consults on every transition (spec §3). Two builders are provided: a
// complete reverse single-source-shortest-path sweep (one Dijkstra run per
// destination, over the reversed graph, so every reachable origin gets an
// entry in one pass) and a single-pair A* search for on-demand / sampled
// table construction.
//
// Both are grounded on the teacher's driver/batch.go container/heap event
// queue, generalized from a time-ordered event heap to a distance-ordered
// frontier heap — the same "heap.Interface over a small struct, Less
// breaks ties deterministically" shape, just applied to Dijkstra's
// frontier instead of the simulation clock.
package routing

import (
	"container/heap"
	"sort"

	"github.com/pkg/errors"

	"agvsim/model"
)

// ErrUnreachable is returned when no path exists between the requested
// points.
var ErrUnreachable = errors.New("no path between points")

// Builder precomputes routing tables over a fixed network.
type Builder struct {
	net     *model.Network
	forward map[uint16][]*model.Segment // From -> outgoing segments, built once
}

// NewBuilder returns a Builder over net.
func NewBuilder(net *model.Network) *Builder {
	forward := make(map[uint16][]*model.Segment)
	for _, seg := range net.Segments() {
		forward[seg.From] = append(forward[seg.From], seg)
	}
	return &Builder{net: net, forward: forward}
}

// frontierItem is one entry in the Dijkstra/A* frontier heap.
type frontierItem struct {
	node uint16
	dist float64 // for Dijkstra: distance from destination; for A*: g+h
	g    float64 // for A*: distance from source so far
}

type frontier []frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	// Deterministic tie-break: prefer the lower node id (spec §3).
	return f[i].node < f[j].node
}
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(frontierItem)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// BuildComplete runs one reverse-Dijkstra sweep per control point acting as
// destination, and returns a routing table covering every reachable
// (origin, destination) pair in the network.
func (b *Builder) BuildComplete() *model.RoutingTable {
	rt := model.NewRoutingTable()
	pred := b.net.Predecessors()
	points := b.net.ControlPoints()
	for _, destCP := range points {
		dist, nextHop := b.reverseDijkstra(pred, destCP.ID)
		for from, hop := range nextHop {
			if from == destCP.ID {
				continue
			}
			_ = dist // distances are not persisted, only the derived next hop
			rt.Set(from, destCP.ID, hop)
		}
	}
	return rt
}

// reverseDijkstra computes, for a single destination, the shortest forward
// distance from every reachable node and the first hop to take from each.
// It runs Dijkstra on the reversed graph (predecessor edges) starting at
// dest, which yields exactly the forward shortest-path tree rooted at
// dest.
func (b *Builder) reverseDijkstra(pred map[uint16][]*model.Segment, dest uint16) (map[uint16]float64, map[uint16]uint16) {
	dist := map[uint16]float64{dest: 0}
	nextHop := map[uint16]uint16{}
	visited := map[uint16]bool{}

	fq := &frontier{{node: dest, dist: 0}}
	heap.Init(fq)

	for fq.Len() > 0 {
		cur := heap.Pop(fq).(frontierItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		// Walk incoming (forward-graph) edges u->cur.node by relaxing the
		// reverse direction: a shorter path to dest through cur.node
		// improves u's distance by seg.Length.
		for _, seg := range pred[cur.node] {
			u := seg.From
			if visited[u] {
				continue
			}
			nd := dist[cur.node] + seg.Length
			old, known := dist[u]
			switch {
			case !known || nd < old:
				dist[u] = nd
				nextHop[u] = cur.node
				heap.Push(fq, frontierItem{node: u, dist: nd})
			case nd == old && cur.node < nextHop[u]:
				// Tie on distance: prefer the lower-id next hop (spec §3).
				nextHop[u] = cur.node
			}
		}
	}
	return dist, nextHop
}

// FindPath runs a single-pair A* search from `from` to `dest`, using
// straight-line Euclidean distance between control point coordinates as
// the heuristic. Used (through BuildSampled) by cmd/routebuilder's sampled
// mode, where computing a full reverse sweep for a handful of random pairs
// would be wasted work.
func (b *Builder) FindPath(from, dest uint16) ([]uint16, error) {
	if from == dest {
		return []uint16{from}, nil
	}
	destCP := b.net.ControlPoint(dest)
	if destCP == nil {
		return nil, errors.Wrapf(ErrUnreachable, "unknown destination %d", dest)
	}
	h := func(node uint16) float64 {
		cp := b.net.ControlPoint(node)
		if cp == nil {
			return 0
		}
		return Euclidean(cp.X, cp.Y, destCP.X, destCP.Y)
	}

	g := map[uint16]float64{from: 0}
	cameFrom := map[uint16]uint16{}
	visited := map[uint16]bool{}

	fq := &frontier{{node: from, dist: h(from), g: 0}}
	heap.Init(fq)

	for fq.Len() > 0 {
		cur := heap.Pop(fq).(frontierItem)
		if visited[cur.node] {
			continue
		}
		if cur.node == dest {
			return b.reconstructPath(cameFrom, from, dest), nil
		}
		visited[cur.node] = true

		neighbors := append([]*model.Segment(nil), b.forward[cur.node]...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].To < neighbors[j].To })
		for _, seg := range neighbors {
			if visited[seg.To] {
				continue
			}
			ng := g[cur.node] + seg.Length
			old, known := g[seg.To]
			if !known || ng < old {
				g[seg.To] = ng
				cameFrom[seg.To] = cur.node
				heap.Push(fq, frontierItem{node: seg.To, dist: ng + h(seg.To), g: ng})
			}
		}
	}
	return nil, errors.Wrapf(ErrUnreachable, "%d -> %d", from, dest)
}

func (b *Builder) reconstructPath(cameFrom map[uint16]uint16, from, dest uint16) []uint16 {
	path := []uint16{dest}
	for path[len(path)-1] != from {
		prev := cameFrom[path[len(path)-1]]
		path = append(path, prev)
	}
	// reverse into from->dest order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// BuildSampled resolves a single (from, dest) pair via FindPath and records
// every hop of the resulting path into rt, keyed by (node on the path,
// dest). Each call runs its own search; entries already in rt are not
// consulted, and an existing entry for the same key is overwritten.
func (b *Builder) BuildSampled(rt *model.RoutingTable, from, dest uint16) error {
	path, err := b.FindPath(from, dest)
	if err != nil {
		return err
	}
	for i := 0; i < len(path)-1; i++ {
		rt.Set(path[i], dest, path[i+1])
	}
	return nil
}
