package netio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agvsim/routing"
)

func TestLoadBareNeighborIDs(t *testing.T) {
	doc := `{
		"points": [
			{"id": "A", "x": 0, "y": 0, "region": "north", "inout": true, "next": ["B"]},
			{"id": "B", "x": 3, "y": 4, "region": "north", "meta": {"kind": "dock"}, "next": []}
		]
	}`
	net, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	aID, ok := net.IDForName("A")
	require.True(t, ok)
	bID, ok := net.IDForName("B")
	require.True(t, ok)

	seg, err := net.GetSegment(aID, bID)
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, seg.TotalCapacity)
	assert.Equal(t, DefaultLanes, seg.NumberOfLanes)
	assert.InDelta(t, routing.Euclidean(0, 0, 3, 4), seg.Length, 1e-9, "length derives from endpoint coordinates when omitted")

	cp := net.ControlPoint(bID)
	require.NotNil(t, cp)
	assert.Equal(t, "dock", cp.Kind)
	assert.False(t, cp.IsEntryExit)
	assert.True(t, net.ControlPoint(aID).IsEntryExit)

	name, ok := net.NameForID(bID)
	require.True(t, ok)
	assert.Equal(t, "B", name)
}

func TestLoadObjectFormNeighborOverrides(t *testing.T) {
	doc := `{
		"points": [
			{"id": "A", "x": 0, "y": 0, "next": [{"id": "B", "capacity": 4, "lanes": 2, "length": 12.5}]},
			{"id": "B", "x": 100, "y": 100, "next": []}
		]
	}`
	net, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	aID, _ := net.IDForName("A")
	bID, _ := net.IDForName("B")
	seg, err := net.GetSegment(aID, bID)
	require.NoError(t, err)
	assert.Equal(t, 4, seg.TotalCapacity)
	assert.Equal(t, 2, seg.NumberOfLanes)
	assert.Equal(t, 12.5, seg.Length, "an explicit length overrides the coordinate-derived default")
}

func TestLoadMixedBareAndObjectNeighbors(t *testing.T) {
	doc := `{
		"points": [
			{"id": "A", "x": 0, "y": 0, "next": ["B", {"id": "C", "capacity": 2}]},
			{"id": "B", "x": 1, "y": 1, "next": []},
			{"id": "C", "x": 2, "y": 2, "next": []}
		]
	}`
	net, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	aID, _ := net.IDForName("A")
	bID, _ := net.IDForName("B")
	cID, _ := net.IDForName("C")
	assert.True(t, net.SegmentExists(aID, bID))
	assert.True(t, net.SegmentExists(aID, cID))

	segB, _ := net.GetSegment(aID, bID)
	assert.Equal(t, DefaultCapacity, segB.TotalCapacity)
	segC, _ := net.GetSegment(aID, cID)
	assert.Equal(t, 2, segC.TotalCapacity)
}

func TestLoadUnknownNeighborIsAnError(t *testing.T) {
	doc := `{"points": [{"id": "A", "x": 0, "y": 0, "next": ["ghost"]}]}`
	_, err := Load(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestLoadDuplicatePointIDIsAnError(t *testing.T) {
	doc := `{
		"points": [
			{"id": "A", "x": 0, "y": 0, "next": []},
			{"id": "A", "x": 1, "y": 1, "next": []}
		]
	}`
	_, err := Load(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader(`not json`))
	assert.Error(t, err)
}
