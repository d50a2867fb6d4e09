package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSegmentSeedsRemainingCapacity(t *testing.T) {
	s := NewSegment(1, 2, 4, 50, 2)
	assert.Equal(t, 4, s.RemainingCapacity)
	assert.True(t, s.HasRoom(4))
	assert.False(t, s.HasRoom(5))
}

func TestOutPendingFIFO(t *testing.T) {
	s := NewSegment(1, 2, 2, 10, 1)
	v1 := NewVehicle("AGV-1", 1, 1, nil)
	v2 := NewVehicle("AGV-2", 1, 1, nil)
	s.OutPending = append(s.OutPending, v1, v2)

	assert.Same(t, v1, s.OutPendingHead())
	popped := s.PopOutPendingHead()
	assert.Same(t, v1, popped)
	assert.Same(t, v2, s.OutPendingHead())
}

func TestPopOutPendingHeadEmpty(t *testing.T) {
	s := NewSegment(1, 2, 1, 10, 1)
	assert.Nil(t, s.OutPendingHead())
	assert.Nil(t, s.PopOutPendingHead())
}

func TestPopInPendingHead(t *testing.T) {
	s := NewSegment(1, 2, 1, 10, 1)
	v := NewVehicle("AGV-1", 1, 1, nil)
	upstream := NewSegment(9, 1, 1, 5, 1)
	s.InPending = append(s.InPending, InPendingEntry{Vehicle: v, UpstreamSegment: upstream})

	entry, ok := s.PopInPendingHead()
	assert.True(t, ok)
	assert.Same(t, v, entry.Vehicle)
	assert.Same(t, upstream, entry.UpstreamSegment)

	_, ok = s.PopInPendingHead()
	assert.False(t, ok)
}
