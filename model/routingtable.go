package model

// RouteKey identifies a (current, destination) pair in the routing table.
type RouteKey struct {
	From, Dest uint16
}

// Entry is one (from, dest) -> next_hop record, the unit the on-disk binary
// format (spec §6) and RoutingTable's in-memory map both traffic in.
type Entry struct {
	From, Dest, NextHop uint16
}

// RoutingTable is an immutable mapping (from, destination) -> next-hop,
// built once by the routing builder and read-only thereafter. Absence of a
// key means "no route" (spec §3).
type RoutingTable struct {
	table map[RouteKey]uint16
}

// NewRoutingTable returns an empty, mutable-until-published routing table.
// Builders populate it via Set; once handed to callers it should be treated
// as read-only (the type itself does not enforce this, matching the
// teacher's convention of plain structs without private-field gymnastics
// for data that is simply never supposed to be mutated post-construction).
func NewRoutingTable() *RoutingTable {
	return &RoutingTable{table: make(map[RouteKey]uint16)}
}

// Set records (from, dest) -> nextHop. Builders use this; it is not meant
// for engine-side use.
func (rt *RoutingTable) Set(from, dest, nextHop uint16) {
	rt.table[RouteKey{from, dest}] = nextHop
}

// NextHop returns the next-hop control point for (from, dest), and whether
// an entry exists.
func (rt *RoutingTable) NextHop(from, dest uint16) (uint16, bool) {
	hop, ok := rt.table[RouteKey{from, dest}]
	return hop, ok
}

// Len returns the number of entries in the table.
func (rt *RoutingTable) Len() int {
	return len(rt.table)
}

// Entries returns every record in the table. Order is unspecified.
func (rt *RoutingTable) Entries() []Entry {
	out := make([]Entry, 0, len(rt.table))
	for k, v := range rt.table {
		out = append(out, Entry{From: k.From, Dest: k.Dest, NextHop: v})
	}
	return out
}

// Equal reports whether two routing tables hold identical mappings,
// regardless of internal ordering. Used by the serialization round-trip
// test (spec §8, property 6).
func (rt *RoutingTable) Equal(other *RoutingTable) bool {
	if rt == nil || other == nil {
		return rt == other
	}
	if len(rt.table) != len(other.table) {
		return false
	}
	for k, v := range rt.table {
		ov, ok := other.table[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
