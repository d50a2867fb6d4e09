// Package routeio encodes and decodes the routing table's on-disk binary
// format (spec §6): a little-endian uint32 record count followed by that
// many 6-byte records (from:u16 | dest:u16 | next_hop:u16). Tables can run
// into the 10^6-10^7 record range, so both directions stream record by
// record instead of materializing the whole table in memory at once.
package routeio

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"agvsim/model"
)

const recordSize = 6 // 2 + 2 + 2 bytes

// EncodeStream writes the uint32 count header followed by count records,
// pulling each one from next in turn. next is called exactly count times.
func EncodeStream(w io.Writer, count uint32, next func() model.Entry) error {
	bw := bufio.NewWriter(w)
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], count)
	if _, err := bw.Write(header[:]); err != nil {
		return errors.Wrap(err, "write record count")
	}

	var rec [recordSize]byte
	for i := uint32(0); i < count; i++ {
		e := next()
		binary.LittleEndian.PutUint16(rec[0:2], e.From)
		binary.LittleEndian.PutUint16(rec[2:4], e.Dest)
		binary.LittleEndian.PutUint16(rec[4:6], e.NextHop)
		if _, err := bw.Write(rec[:]); err != nil {
			return errors.Wrapf(err, "write record %d", i)
		}
	}
	return bw.Flush()
}

// Encode writes an entire RoutingTable to w in one call. Entries().order is
// unspecified but stable for the duration of this call.
func Encode(w io.Writer, rt *model.RoutingTable) error {
	entries := rt.Entries()
	i := 0
	return EncodeStream(w, uint32(len(entries)), func() model.Entry {
		e := entries[i]
		i++
		return e
	})
}

// DecodeStream reads the header and then calls fn once per record, in file
// order, without buffering the whole table. fn returning an error aborts
// the decode and that error is returned.
func DecodeStream(r io.Reader, fn func(model.Entry) error) error {
	br := bufio.NewReader(r)
	var header [4]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return errors.Wrap(err, "read record count")
	}
	count := binary.LittleEndian.Uint32(header[:])

	var rec [recordSize]byte
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			return errors.Wrapf(err, "read record %d", i)
		}
		e := model.Entry{
			From:    binary.LittleEndian.Uint16(rec[0:2]),
			Dest:    binary.LittleEndian.Uint16(rec[2:4]),
			NextHop: binary.LittleEndian.Uint16(rec[4:6]),
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads an entire routing table from r into memory.
func Decode(r io.Reader) (*model.RoutingTable, error) {
	rt := model.NewRoutingTable()
	err := DecodeStream(r, func(e model.Entry) error {
		rt.Set(e.From, e.Dest, e.NextHop)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}
