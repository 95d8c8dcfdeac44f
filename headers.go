// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zipwriter

import "io"

// localHeader carries the fields written by writeLocalHeader. For
// Deflate entries crc32 and size are always zero on the wire (the real
// values follow in the data descriptor); for Store entries they are the
// caller's declared values.
type localHeader struct {
	readerVersion uint16
	flags         uint16
	method        uint16
	dosDate       uint16
	dosTime       uint16
	crc32         uint32
	size          uint32
	name          []byte
	extra         []byte
}

func writeLocalHeader(w io.Writer, h localHeader) error {
	var buf [fileHeaderLen]byte
	b := writeBuf(buf[:])
	b.uint32(fileHeaderSignature)
	b.uint16(h.readerVersion)
	b.uint16(h.flags)
	b.uint16(h.method)
	b.uint16(h.dosTime)
	b.uint16(h.dosDate)
	b.uint32(h.crc32)
	b.uint32(h.size) // compressed size; equals size for Store, 0 for Deflate
	b.uint32(h.size) // uncompressed size
	b.uint16(uint16(len(h.name)))
	b.uint16(uint16(len(h.extra)))
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.name); err != nil {
		return err
	}
	_, err := w.Write(h.extra)
	return err
}

func writeDataDescriptor(w io.Writer, crc32, compressedSize, uncompressedSize uint32) error {
	var buf [dataDescriptorLen]byte
	b := writeBuf(buf[:])
	b.uint32(dataDescriptorSignature) // de-facto standard, required by OS X
	b.uint32(crc32)
	b.uint32(compressedSize)
	b.uint32(uncompressedSize)
	_, err := w.Write(buf[:])
	return err
}

func writeCentralHeader(w io.Writer, e *finalizedEntry) error {
	var buf [directoryHeaderLen]byte
	b := writeBuf(buf[:])
	b.uint32(directoryHeaderSignature)
	b.uint16(zipVersionMadeBy)
	b.uint16(e.readerVersion)
	b.uint16(e.flags)
	b.uint16(e.method)
	b.uint16(e.dosTime)
	b.uint16(e.dosDate)
	b.uint32(e.crc32)
	b.uint32(e.compressedSize)
	b.uint32(e.uncompressedSize)
	b.uint16(uint16(len(e.nameBytes)))
	b.uint16(uint16(len(e.centralExtra)))
	b.uint16(uint16(len(e.commentBytes)))
	b.uint16(0) // disk number start
	b.uint16(e.internalAttrs)
	b.uint32(e.externalAttrs)
	if e.offset > uint32max {
		b.uint32(uint32max) // ZIP64 is out of scope; offsets beyond 4 GiB are not supported
	} else {
		b.uint32(uint32(e.offset))
	}

	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	if _, err := w.Write(e.nameBytes); err != nil {
		return err
	}
	if _, err := w.Write(e.centralExtra); err != nil {
		return err
	}
	_, err := w.Write(e.commentBytes)
	return err
}

// eocd carries the fields written by writeEOCD.
type eocd struct {
	recordCount int
	cdLength    uint64
	cdOffset    uint64
	comment     []byte
}

func writeEOCD(w io.Writer, e eocd) error {
	records := uint16(e.recordCount)
	var buf [directoryEndLen]byte
	b := writeBuf(buf[:])
	b.uint32(directoryEndSignature)
	b = b[4:] // disk number (2) + disk where CD starts (2), both always 0
	b.uint16(records)
	b.uint16(records)
	b.uint32(uint32(e.cdLength))
	b.uint32(uint32(e.cdOffset))
	b.uint16(uint16(len(e.comment)))
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	_, err := w.Write(e.comment)
	return err
}
