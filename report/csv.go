// Package report renders a run's vehicle trajectories as CSV,
// playing the same "write a flat report of what the engine produced" role
// sim.WriteCSVReport/PrintConsoleReport play for the teacher's bus
// simulation. Where the teacher hand-formats rows with fmt.Fprintf,
// CSVObserver uses encoding/csv so quoting of vehicle names stays correct
// without the manual escaping the teacher's report never needed (bus ids
// are a safe integer, not an arbitrary string).
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"agvsim/engine"
	"agvsim/model"
)

// CSVObserver accumulates one row per lifecycle event and writes them out
// as a CSV trajectory report through WriteTo or WriteFile. It implements
// engine.Observer.
type CSVObserver struct {
	now  func() float64
	rows [][]string
}

// NewCSVObserver returns a CSVObserver whose Time column is read from now
// on each event.
func NewCSVObserver(now func() float64) *CSVObserver {
	return &CSVObserver{now: now}
}

var _ engine.Observer = (*CSVObserver)(nil)

func (c *CSVObserver) row(kind string, vehicle string, from, to uint16) {
	c.rows = append(c.rows, []string{
		fmt.Sprintf("%.6f", c.now()),
		vehicle,
		kind,
		fmt.Sprintf("%d", from),
		fmt.Sprintf("%d", to),
	})
}

func (c *CSVObserver) OnEnter(v *model.Vehicle, cp uint16) {
	c.row("enter", v.Name, cp, cp)
}

func (c *CSVObserver) OnArrive(v *model.Vehicle, seg *model.Segment) {
	c.row("arrive", v.Name, seg.From, seg.To)
}

func (c *CSVObserver) OnComplete(v *model.Vehicle, seg *model.Segment) {
	c.row("complete", v.Name, seg.From, seg.To)
}

func (c *CSVObserver) OnDepart(v *model.Vehicle, seg *model.Segment) {
	c.row("depart", v.Name, seg.From, seg.To)
}

func (c *CSVObserver) OnReadyToExit(v *model.Vehicle, cp uint16) {
	c.row("ready_to_exit", v.Name, cp, cp)
}

// WriteTo writes the accumulated trajectory rows as CSV to w.
func (c *CSVObserver) WriteTo(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "vehicle", "event", "from", "to"}); err != nil {
		return errors.Wrap(err, "write trajectory header")
	}
	if err := cw.WriteAll(c.rows); err != nil {
		return errors.Wrap(err, "write trajectory rows")
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the trajectory report to path, the same
// "directory-or-file, timestamp-suffixed" convention as the teacher's
// WriteCSVReport: a directory argument gets a timestamped file created
// inside it, a file argument gets a timestamp spliced before its
// extension.
func (c *CSVObserver) WriteFile(path string) (string, error) {
	ts := time.Now().Format("20060102-150405")
	outPath := path
	if fi, err := os.Stat(outPath); err == nil && fi.IsDir() {
		outPath = filepath.Join(outPath, fmt.Sprintf("trajectory-%s.csv", ts))
	} else {
		ext := filepath.Ext(outPath)
		base := outPath[:len(outPath)-len(ext)]
		outPath = fmt.Sprintf("%s-%s%s", base, ts, ext)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", errors.Wrapf(err, "create trajectory report %q", outPath)
	}
	defer f.Close()
	if err := c.WriteTo(f); err != nil {
		return "", err
	}
	return outPath, nil
}
