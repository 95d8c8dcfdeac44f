// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zipwriter

import (
	"encoding/binary"
	"time"
)

// Compression methods.
const (
	Store   uint16 = 0 // no compression
	Deflate uint16 = 8 // DEFLATE compressed
)

const (
	fileHeaderSignature      = 0x04034b50
	directoryHeaderSignature = 0x02014b50
	directoryEndSignature    = 0x06054b50
	dataDescriptorSignature  = 0x08074b50 // de-facto standard, required by OS X Finder

	fileHeaderLen      = 30 // + name + local extra
	directoryHeaderLen = 46 // + name + central extra + comment
	directoryEndLen    = 22 // + comment
	dataDescriptorLen  = 16 // signature, crc32, compressed size, uncompressed size

	uint16max = 1<<16 - 1
	uint32max = 1<<32 - 1

	// Version numbers written to "version needed to extract" / "version
	// made by". Neither ZIP64 nor any feature requiring a higher version
	// is emitted by this writer.
	zipVersionStore   = 10 // 1.0, Store entries need nothing newer
	zipVersionDeflate = 20 // 2.0, Deflate + data descriptor
	zipVersionMadeBy  = 20 // 2.0, hard-coded per the format's convention

	generalPurposeDataDescriptor = 0x0008
	generalPurposeUTF8           = 0x0800
)

// writeBuf is a scratch byte slice that numeric fields are packed into
// little-endian, front to back, consuming bytes as each field is written.
type writeBuf []byte

func (b *writeBuf) uint16(v uint16) {
	binary.LittleEndian.PutUint16(*b, v)
	*b = (*b)[2:]
}

func (b *writeBuf) uint32(v uint32) {
	binary.LittleEndian.PutUint32(*b, v)
	*b = (*b)[4:]
}

// countWriter wraps an io.Writer, tracking the number of bytes that have
// passed through it. The writer never seeks; this count is the sole
// source of truth for header offsets.
type countWriter struct {
	w     interface{ Write([]byte) (int, error) }
	count uint64
}

func (w *countWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.count += uint64(n)
	return n, err
}

// dosDateBeforeEpoch/dosTimeBeforeEpoch together encode the DOS date/time
// constant (January 1 1980, midnight) emitted for timestamps that predate
// the DOS epoch; packed as a uint32 with the date in the high half (as
// below) this is 0x00210000, written on the wire as bytes 00 00 21 00.
const (
	dosDateBeforeEpoch uint16 = 0x0021
	dosTimeBeforeEpoch uint16 = 0x0000
)

// dosDateSaturated/dosTimeSaturated are emitted for timestamps beyond the
// 7-bit years-since-1980 field (year 2108 and later): December 31 2107
// 23:59:58, the last representable DOS timestamp (0xFF9FBF7D packed).
const (
	dosDateSaturated uint16 = 0xFF9F
	dosTimeSaturated uint16 = 0xBF7D
)

// timeToDOS packs t's broken-down wall-clock components, taken in t's own
// location (t is not converted to the local zone; the Writer's default
// clock yields local time), into the 4-byte MS-DOS date/time field used
// by local and central headers. Resolution is
// 2 seconds. Years below 1980 saturate low (dosDateBeforeEpoch); years at
// or beyond 2108 saturate high (dosDateSaturated) rather than wrapping,
// per the documented policy for out-of-range timestamps. The wire format
// writes the time half before the date half.
func timeToDOS(t time.Time) (date, clock uint16) {
	year := t.Year()
	if year < 1980 {
		return dosDateBeforeEpoch, dosTimeBeforeEpoch
	}
	if year >= 2108 {
		return dosDateSaturated, dosTimeSaturated
	}
	date = uint16(t.Day() + int(t.Month())<<5 + (year-1980)<<9)
	clock = uint16(t.Second()/2 + t.Minute()<<5 + t.Hour()<<11)
	return date, clock
}
