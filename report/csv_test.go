package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agvsim/model"
)

func TestCSVObserverWriteToShape(t *testing.T) {
	now := 0.0
	obs := NewCSVObserver(func() float64 { return now })

	v := model.NewVehicle("AGV-1", 1, 1, nil)
	seg := model.NewSegment(1, 2, 1, 10, 1)

	now = 1.5
	obs.OnEnter(v, 1)
	now = 2.0
	obs.OnArrive(v, seg)
	now = 12.0
	obs.OnComplete(v, seg)
	now = 12.1
	obs.OnDepart(v, seg)
	now = 12.2
	obs.OnReadyToExit(v, 2)

	var buf bytes.Buffer
	require.NoError(t, obs.WriteTo(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6) // header + 5 rows
	assert.Equal(t, []string{"time", "vehicle", "event", "from", "to"}, records[0])
	assert.Equal(t, "enter", records[1][2])
	assert.Equal(t, "ready_to_exit", records[5][2])
	assert.Equal(t, "AGV-1", records[1][1])
}

func TestCSVObserverImplementsEngineObserver(t *testing.T) {
	var obs interface {
		OnEnter(*model.Vehicle, uint16)
	} = NewCSVObserver(func() float64 { return 0 })
	assert.NotNil(t, obs)
}

func TestWriteFileIntoDirectoryGetsTimestampedName(t *testing.T) {
	obs := NewCSVObserver(func() float64 { return 0 })
	obs.OnEnter(model.NewVehicle("AGV-1", 1, 1, nil), 1)

	dir := t.TempDir()
	path, err := obs.WriteFile(dir)
	require.NoError(t, err)
	assert.Contains(t, path, dir)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AGV-1")
}
