package zipwriter

import "time"

// Entry describes one archive member. It is supplied by value to
// BeginEntry and is never mutated by the Writer: defaults (method,
// modification time) are resolved into the Writer's private bookkeeping,
// never written back into the caller's Entry.
type Entry struct {
	// Name is the entry's path within the archive. It must encode to no
	// more than 65535 bytes under the Writer's configured encoding.
	Name string

	// Modified is the entry's modification time. The zero value means
	// "use the Writer's clock at BeginEntry time".
	Modified time.Time

	// Method selects Store or Deflate. A nil Method means "use the
	// Writer's default method".
	Method *uint16

	// Size is the declared uncompressed size. It is mandatory for Store
	// entries (even a zero-byte file must set it explicitly, which is
	// why this is a pointer rather than a bare uint32) and ignored,
	// if present, for Deflate entries.
	Size *uint32

	// CRC32 is the declared CRC-32 of the uncompressed bytes. Mandatory
	// for Store entries for the same reason as Size; ignored for
	// Deflate entries.
	CRC32 *uint32

	// LocalExtra is written into the local file header, preceding the
	// entry's data. It is independent of CentralExtra.
	LocalExtra []byte

	// CentralExtra is written into the central directory header for
	// this entry. It is independent of LocalExtra.
	CentralExtra []byte

	// Comment is the entry's comment, stored only in the central
	// directory header.
	Comment string

	// InternalAttrs is the central directory's 16-bit internal file
	// attributes field.
	InternalAttrs uint16

	// ExternalAttrs is the central directory's 32-bit external file
	// attributes field (e.g. Unix permission bits shifted into the top
	// 16 bits).
	ExternalAttrs uint32

	// NonUTF8 indicates that Name and Comment should be encoded with
	// the Writer's configured Encoder and the UTF-8 general-purpose bit
	// left clear, even if they happen to be valid UTF-8. By default the
	// Writer sets the bit automatically for strings that need it and
	// are valid UTF-8 (see charset.DetectUTF8).
	NonUTF8 bool
}

// Method returns a pointer to m, for use as Entry.Method. A convenience
// since Go does not allow taking the address of a constant.
func Method(m uint16) *uint16 { return &m }

// Size returns a pointer to n, for use as Entry.Size.
func Size(n uint32) *uint32 { return &n }

// CRC32 returns a pointer to c, for use as Entry.CRC32.
func CRC32(c uint32) *uint32 { return &c }

// finalizedEntry is the immutable, fully-resolved record of one closed
// entry, built at CloseEntry time and consumed only by Finish when it
// emits the central directory. Keeping this separate from Entry avoids
// mutating caller-owned state and avoids an identity-keyed offset map.
type finalizedEntry struct {
	nameBytes        []byte
	commentBytes     []byte
	centralExtra     []byte
	method           uint16
	readerVersion    uint16
	flags            uint16
	dosDate          uint16
	dosTime          uint16
	crc32            uint32
	compressedSize   uint32
	uncompressedSize uint32
	internalAttrs    uint16
	externalAttrs    uint32
	offset           uint64
}
