// Package fortio reads Fortran unformatted sequential files, the format the
// bundled physics tables are distributed in. Each record is framed by its
// byte count, stored as a little-endian uint32 both before and after the
// payload.
package fortio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// readU32 returns a single little-endian uint32 from r.
func readU32(r io.Reader) (uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// readRecord reads one record into buf, which must already have the length
// implied by elemSize and the expected element count. read fills buf from
// the record payload.
func readRecord(r io.Reader, byteLen int, read func(io.Reader) error) error {
	pre, err := readU32(r)
	if err != nil {
		return err
	}
	if int(pre) != byteLen {
		return fmt.Errorf(
			"requested %d bytes of data, but next record has %d",
			byteLen, pre,
		)
	}

	if err := read(r); err != nil {
		return err
	}

	post, err := readU32(r)
	if err != nil {
		return err
	}
	if post != pre {
		return fmt.Errorf(
			"expected end of %d byte record, found %d", pre, post,
		)
	}
	return nil
}

// ReadU32Record reads the next record into buf. The record must contain
// exactly len(buf) uint32 values.
func ReadU32Record(r io.Reader, buf []uint32) error {
	return readRecord(r, 4*len(buf), func(r io.Reader) error {
		return binary.Read(r, binary.LittleEndian, buf)
	})
}

// ReadF64Record reads the next record into buf. The record must contain
// exactly len(buf) float64 values.
func ReadF64Record(r io.Reader, buf []float64) error {
	return readRecord(r, 8*len(buf), func(r io.Reader) error {
		return binary.Read(r, binary.LittleEndian, buf)
	})
}
