package zipwriter

import "errors"

// Error kinds surfaced by Writer. All are surface errors: the writer
// performs no retries and no partial recovery, and once one is returned
// the Writer is poisoned — later operations are not defined to succeed.
var (
	// ErrMissingStoredMetadata is returned by BeginEntry when a Store
	// entry is opened without both a declared Size and CRC32.
	ErrMissingStoredMetadata = errors.New("zipwriter: stored entry requires declared size and CRC-32")

	// ErrStoredCRCMismatch is returned by CloseEntry/the next BeginEntry
	// when a Store entry's declared CRC32 does not match the CRC-32 of
	// the bytes actually written.
	ErrStoredCRCMismatch = errors.New("zipwriter: stored entry CRC-32 does not match declared value")

	// ErrStoredSizeMismatch is returned when a Store entry's declared
	// Size does not match the number of bytes actually written.
	ErrStoredSizeMismatch = errors.New("zipwriter: stored entry size does not match declared value")

	// ErrNameTooLong is returned when an entry name encodes to more
	// than 65535 bytes.
	ErrNameTooLong = errors.New("zipwriter: entry name too long")

	// ErrExtraTooLong is returned when a local or central extra field
	// exceeds 65535 bytes.
	ErrExtraTooLong = errors.New("zipwriter: extra field too long")

	// ErrCommentTooLong is returned when an entry or archive comment
	// encodes to more than 65535 bytes.
	ErrCommentTooLong = errors.New("zipwriter: comment too long")

	// ErrWriterClosed is returned by BeginEntry, CloseEntry and Finish
	// on a Writer after Finish has been called. The Set* methods have no
	// error result and do not report it.
	ErrWriterClosed = errors.New("zipwriter: writer already finished")

	// ErrNoCurrentEntry is returned by Write on an entry writer whose
	// entry has already been closed (by CloseEntry, the next BeginEntry
	// or Finish).
	ErrNoCurrentEntry = errors.New("zipwriter: no entry is open")

	// ErrUnsupportedEncoding is returned when the configured Encoder
	// cannot represent an entry's name or comment.
	ErrUnsupportedEncoding = errors.New("zipwriter: unsupported encoding")
)
