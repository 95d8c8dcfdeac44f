// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zipwriter

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"

	"github.com/mosaicward/zipwriter/charset"
	"github.com/mosaicward/zipwriter/compressor"
	"github.com/mosaicward/zipwriter/zipclock"
)

// Option configures a Writer at construction time.
type Option func(*Writer)

// WithClock overrides the Writer's source of "now" for entries whose
// Modified field is left zero. The default is zipclock.System.
func WithClock(c zipclock.Clock) Option {
	return func(w *Writer) { w.clock = c }
}

// WithEncoder overrides the Writer's default text Encoder. The default
// is charset.UTF8{}; SetEncoding changes it after construction too.
func WithEncoder(e charset.Encoder) Option {
	return func(w *Writer) { w.encoder = e }
}

// WithCompressors installs a Registry of compression method Factories,
// consulted before the built-in Store and Deflate defaults.
func WithCompressors(r *compressor.Registry) Option {
	return func(w *Writer) { w.compressors = r }
}

// Writer streams entries into the PKZIP container format described in
// the package doc comment. It is a single-threaded state machine: begin
// an entry, write its bytes, begin the next (which closes the previous),
// and finally Finish. It is not safe for concurrent use.
type Writer struct {
	sink          *countWriter
	comment       string
	encoder       charset.Encoder
	defaultMethod uint16
	defaultLevel  int
	compressors   *compressor.Registry
	clock         zipclock.Clock

	entries []finalizedEntry
	current *entryWriter
	closed  bool
}

// New returns a Writer that streams a ZIP archive to sink. sink is never
// sought; bytes are appended to it in the order entries are closed.
func New(sink io.Writer, opts ...Option) *Writer {
	w := &Writer{
		sink:          &countWriter{w: sink},
		encoder:       charset.UTF8{},
		defaultMethod: Deflate,
		clock:         zipclock.System,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetComment sets the archive-level comment written verbatim into the
// end-of-central-directory record. It may be called any time before
// Finish.
func (w *Writer) SetComment(comment string) {
	w.comment = comment
}

// SetEncoding installs enc as the Encoder applied to every subsequent
// entry's name and comment, and to the archive comment at Finish time.
func (w *Writer) SetEncoding(enc charset.Encoder) {
	w.encoder = enc
}

// SetDefaultMethod sets the compression method used by entries whose own
// Method field is nil.
func (w *Writer) SetDefaultMethod(method uint16) {
	w.defaultMethod = method
}

// SetDefaultLevel sets the DEFLATE compression level used by Deflate
// entries, including those opened through Entry.Method == nil falling
// back to the Writer's default method.
func (w *Writer) SetDefaultLevel(level int) {
	w.defaultLevel = level
}

// BeginEntry finalizes any in-flight entry, then begins a new one. The
// returned io.Writer accepts the entry's uncompressed payload across any
// number of Write calls; its bytes must all be written before the next
// call to BeginEntry or Finish.
func (w *Writer) BeginEntry(e Entry) (io.Writer, error) {
	if err := w.closeCurrent(); err != nil {
		return nil, err
	}
	if w.closed {
		return nil, ErrWriterClosed
	}

	nameBytes, err := w.encode(e.Name)
	if err != nil {
		return nil, err
	}
	if len(nameBytes) > uint16max {
		return nil, ErrNameTooLong
	}
	commentBytes, err := w.encode(e.Comment)
	if err != nil {
		return nil, err
	}
	if len(commentBytes) > uint16max {
		return nil, ErrCommentTooLong
	}
	if len(e.LocalExtra) > uint16max || len(e.CentralExtra) > uint16max {
		return nil, ErrExtraTooLong
	}

	method := w.defaultMethod
	if e.Method != nil {
		method = *e.Method
	}

	modified := e.Modified
	if modified.IsZero() {
		modified = w.clock.Now()
	}
	dosDate, dosTime := timeToDOS(modified)

	var flags uint16
	var readerVersion uint16
	switch method {
	case Store:
		if e.Size == nil || e.CRC32 == nil {
			return nil, ErrMissingStoredMetadata
		}
		readerVersion = zipVersionStore
	default:
		flags |= generalPurposeDataDescriptor
		readerVersion = zipVersionDeflate
	}

	if !e.NonUTF8 {
		if _, ok := w.encoder.(charset.UTF8); ok {
			validName, requireName := charset.DetectUTF8(e.Name)
			validComment, requireComment := charset.DetectUTF8(e.Comment)
			if (requireName || requireComment) && validName && validComment {
				flags |= generalPurposeUTF8
			}
		}
	}

	factory := w.compressors.Lookup(method, w.defaultLevel)
	if factory == nil {
		return nil, compressor.ErrAlgorithm
	}

	var localCRC, localSize uint32
	if method == Store {
		localCRC = storedOr(e.CRC32, 0)
		localSize = storedOr(e.Size, 0)
	}

	offset := w.sink.count
	if err := writeLocalHeader(w.sink, localHeader{
		readerVersion: readerVersion,
		flags:         flags,
		method:        method,
		dosDate:       dosDate,
		dosTime:       dosTime,
		crc32:         localCRC,
		size:          localSize,
		name:          nameBytes,
		extra:         e.LocalExtra,
	}); err != nil {
		return nil, fmt.Errorf("zipwriter: writing local header: %w", err)
	}

	compCount := &countWriter{w: w.sink}
	comp, err := factory(compCount)
	if err != nil {
		return nil, fmt.Errorf("zipwriter: starting compressor: %w", err)
	}

	fw := &entryWriter{
		method:        method,
		declaredSize:  e.Size,
		declaredCRC:   e.CRC32,
		crc:           crc32.NewIEEE(),
		comp:          comp,
		compCount:     compCount,
		rawCount:      &countWriter{w: comp},
		nameBytes:     nameBytes,
		commentBytes:  commentBytes,
		centralExtra:  e.CentralExtra,
		flags:         flags,
		readerVersion: readerVersion,
		dosDate:       dosDate,
		dosTime:       dosTime,
		internalAttrs: e.InternalAttrs,
		externalAttrs: e.ExternalAttrs,
		offset:        offset,
	}
	w.current = fw
	return fw, nil
}

// CloseEntry finalizes the current entry: for Deflate it flushes the
// compressor and writes the data descriptor; for Store it validates the
// declared size and CRC-32 against what was actually written. It is a
// no-op if no entry is open, and returns ErrWriterClosed after Finish.
func (w *Writer) CloseEntry() error {
	if w.closed {
		return ErrWriterClosed
	}
	return w.closeCurrent()
}

// Finish closes any current entry, then writes the central directory and
// end-of-central-directory record. After Finish, the Writer's entry index
// is empty and every further call to BeginEntry, CloseEntry or Finish
// returns ErrWriterClosed; the Set* methods have no error result and do
// not report it. Finish does not flush or close sink; that remains the
// caller's responsibility.
func (w *Writer) Finish() error {
	if err := w.closeCurrent(); err != nil {
		return err
	}
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	commentBytes, err := w.encode(w.comment)
	if err != nil {
		return err
	}
	if len(commentBytes) > uint16max {
		return ErrCommentTooLong
	}

	cdOffset := w.sink.count
	for i := range w.entries {
		if err := writeCentralHeader(w.sink, &w.entries[i]); err != nil {
			return fmt.Errorf("zipwriter: writing central directory: %w", err)
		}
	}
	cdLength := w.sink.count - cdOffset

	if err := writeEOCD(w.sink, eocd{
		recordCount: len(w.entries),
		cdLength:    cdLength,
		cdOffset:    cdOffset,
		comment:     commentBytes,
	}); err != nil {
		return fmt.Errorf("zipwriter: writing end of central directory: %w", err)
	}

	w.entries = nil
	return nil
}

// closeCurrent finalizes w.current, if any, appending its finalizedEntry
// to w.entries and clearing w.current and the per-entry compressor/CRC
// state.
func (w *Writer) closeCurrent() error {
	fw := w.current
	if fw == nil {
		return nil
	}
	w.current = nil
	fw.closed = true

	if err := fw.comp.Close(); err != nil {
		return fmt.Errorf("zipwriter: closing compressor: %w", err)
	}

	realCRC := fw.crc.Sum32()
	var finalCRC, finalCompressed, finalUncompressed uint32

	if fw.method == Store {
		finalCRC = *fw.declaredCRC
		finalUncompressed = *fw.declaredSize
		finalCompressed = *fw.declaredSize
		if realCRC != finalCRC {
			return ErrStoredCRCMismatch
		}
		if uint64(finalUncompressed) != fw.rawCount.count {
			return ErrStoredSizeMismatch
		}
	} else {
		finalCRC = realCRC
		finalUncompressed = uint32(fw.rawCount.count)
		finalCompressed = uint32(fw.compCount.count)
		if err := writeDataDescriptor(w.sink, finalCRC, finalCompressed, finalUncompressed); err != nil {
			return fmt.Errorf("zipwriter: writing data descriptor: %w", err)
		}
	}

	w.entries = append(w.entries, finalizedEntry{
		nameBytes:        fw.nameBytes,
		commentBytes:     fw.commentBytes,
		centralExtra:     fw.centralExtra,
		method:           fw.method,
		readerVersion:    fw.readerVersion,
		flags:            fw.flags,
		dosDate:          fw.dosDate,
		dosTime:          fw.dosTime,
		crc32:            finalCRC,
		compressedSize:   finalCompressed,
		uncompressedSize: finalUncompressed,
		internalAttrs:    fw.internalAttrs,
		externalAttrs:    fw.externalAttrs,
		offset:           fw.offset,
	})
	return nil
}

func (w *Writer) encode(s string) ([]byte, error) {
	b, err := w.encoder.Encode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
	}
	return b, nil
}

func storedOr(p *uint32, fallback uint32) uint32 {
	if p == nil {
		return fallback
	}
	return *p
}

// entryWriter is the io.Writer returned by BeginEntry. It drives the CRC
// and the per-entry compressor as payload bytes arrive.
type entryWriter struct {
	method       uint16
	declaredSize *uint32
	declaredCRC  *uint32
	crc          hash.Hash32
	comp         io.WriteCloser
	compCount    *countWriter // bytes emitted to the sink for this entry
	rawCount     *countWriter // uncompressed bytes accepted for this entry

	nameBytes     []byte
	commentBytes  []byte
	centralExtra  []byte
	flags         uint16
	readerVersion uint16
	dosDate       uint16
	dosTime       uint16
	internalAttrs uint16
	externalAttrs uint32
	offset        uint64
	closed        bool
}

func (fw *entryWriter) Write(p []byte) (int, error) {
	if fw.closed {
		return 0, ErrNoCurrentEntry
	}
	fw.crc.Write(p)
	return fw.rawCount.Write(p)
}
