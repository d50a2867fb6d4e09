package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerOrdersByTimeThenSequence(t *testing.T) {
	sch := NewScheduler()
	var order []string

	sch.Schedule(5, func() { order = append(order, "b-at-5") })
	sch.Schedule(1, func() { order = append(order, "a-at-1") })
	sch.Schedule(1, func() { order = append(order, "a2-at-1-second") })

	sch.RunUntil(10)

	assert.Equal(t, []string{"a-at-1", "a2-at-1-second", "b-at-5"}, order)
}

func TestSchedulerRunUntilStopsAtHorizon(t *testing.T) {
	sch := NewScheduler()
	fired := 0
	sch.Schedule(5, func() { fired++ })
	sch.Schedule(15, func() { fired++ })

	sch.RunUntil(10)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, sch.Pending())
	assert.Equal(t, 5.0, sch.Now())

	sch.RunUntil(20)
	assert.Equal(t, 2, fired)
	assert.Equal(t, 0, sch.Pending())
}

func TestSchedulerNegativeDelayClampsToNow(t *testing.T) {
	sch := NewScheduler()
	sch.Schedule(5, func() {})
	sch.RunUntil(5)

	var ran bool
	sch.Schedule(-1, func() { ran = true })
	sch.RunUntil(5)
	assert.True(t, ran)
	assert.Equal(t, 5.0, sch.Now())
}

func TestSchedulerDrainRunsChainedEvents(t *testing.T) {
	sch := NewScheduler()
	count := 0
	var chain func()
	chain = func() {
		count++
		if count < 5 {
			sch.Schedule(1, chain)
		}
	}
	sch.Schedule(0, chain)
	sch.Drain()
	assert.Equal(t, 5, count)
	assert.Equal(t, 0, sch.Pending())
}
