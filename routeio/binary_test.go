package routeio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agvsim/model"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rt := model.NewRoutingTable()
	rt.Set(1, 9, 2)
	rt.Set(2, 9, 9)
	rt.Set(5, 9, 6)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rt))

	// 4-byte header + 3 six-byte records.
	assert.Equal(t, 4+3*recordSize, buf.Len())

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.True(t, rt.Equal(decoded), "decoding must reproduce an identical mapping")
}

// TestRoutingTableSerializationRoundTrip covers the complete-table ->
// binary -> reload path (a next-hop table built on a 6-node graph by a
// local reverse sweep per destination), the round-trip property every
// (from, dest) entry must survive.
func TestRoutingTableSerializationRoundTrip(t *testing.T) {
	net := model.NewNetwork()
	for id := uint16(1); id <= 6; id++ {
		net.AddControlPoint(&model.ControlPoint{ID: id, X: float64(id), IsEntryExit: true})
	}
	edges := [][2]uint16{{1, 2}, {2, 3}, {3, 6}, {1, 4}, {4, 5}, {5, 4}, {4, 3}, {4, 6}, {5, 3}}
	for _, e := range edges {
		net.AddSegment(e[0], e[1], model.NewSegment(e[0], e[1], 1, 100, 1))
	}

	original := model.NewRoutingTable()
	pred := net.Predecessors()
	for _, dest := range net.ControlPoints() {
		dist := map[uint16]float64{dest.ID: 0}
		nextHop := map[uint16]uint16{}
		frontier := []uint16{dest.ID}
		for len(frontier) > 0 {
			cur := frontier[0]
			frontier = frontier[1:]
			for _, seg := range pred[cur] {
				nd := dist[cur] + seg.Length
				if old, ok := dist[seg.From]; !ok || nd < old {
					dist[seg.From] = nd
					nextHop[seg.From] = cur
					frontier = append(frontier, seg.From)
				}
			}
		}
		for from, hop := range nextHop {
			if from != dest.ID {
				original.Set(from, dest.ID, hop)
			}
		}
	}
	require.Greater(t, original.Len(), 0)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, original))

	reloaded, err := Decode(&buf)
	require.NoError(t, err)

	for _, e := range original.Entries() {
		hop, ok := reloaded.NextHop(e.From, e.Dest)
		require.True(t, ok)
		assert.Equal(t, e.NextHop, hop)
	}
	assert.Equal(t, original.Len(), reloaded.Len())
}

func TestDecodeStreamVisitsEveryRecord(t *testing.T) {
	rt := model.NewRoutingTable()
	rt.Set(1, 9, 2)
	rt.Set(2, 9, 9)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rt))

	var seen []model.Entry
	require.NoError(t, DecodeStream(&buf, func(e model.Entry) error {
		seen = append(seen, e)
		return nil
	}))
	assert.Len(t, seen, 2)
}

func TestEncodeStreamPullsExactlyCountTimes(t *testing.T) {
	calls := 0
	entries := []model.Entry{{From: 1, Dest: 2, NextHop: 2}, {From: 3, Dest: 2, NextHop: 1}}
	var buf bytes.Buffer
	err := EncodeStream(&buf, uint32(len(entries)), func() model.Entry {
		e := entries[calls]
		calls++
		return e
	})
	require.NoError(t, err)
	assert.Equal(t, len(entries), calls)
}
