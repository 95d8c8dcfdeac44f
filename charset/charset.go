// Package charset provides the text-encoder collaborator Writer uses to
// turn entry names and comments into bytes, plus the UTF-8 detection
// logic that decides whether the ZIP UTF-8 flag bit should be set.
package charset

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedEncoding is returned by an Encoder that cannot represent
// the given string.
var ErrUnsupportedEncoding = errors.New("charset: unsupported encoding")

// Encoder converts a Go string into the bytes a ZIP name/comment field
// should carry on the wire.
type Encoder interface {
	Encode(s string) ([]byte, error)
}

// UTF8 is the default Encoder: it passes strings through unchanged, since
// a Go string is already a UTF-8 byte sequence.
type UTF8 struct{}

// Encode implements Encoder.
func (UTF8) Encode(s string) ([]byte, error) {
	return []byte(s), nil
}

// CP437 transcodes strings into IBM Code Page 437, the encoding the ZIP
// specification nominally requires when the UTF-8 flag bit is clear.
// Characters with no CP-437 representation cause ErrUnsupportedEncoding.
type CP437 struct{}

// Encode implements Encoder.
func (CP437) Encode(s string) ([]byte, error) {
	out, err := charmap.CodePage437.NewEncoder().String(s)
	if err != nil {
		return nil, ErrUnsupportedEncoding
	}
	return []byte(out), nil
}

// DetectUTF8 reports whether s is a valid UTF-8 string, and whether the
// string must be considered UTF-8 (i.e. not representable in CP-437 or
// any other encoding commonly used by ZIP readers).
//
// Officially ZIP text is CP-437 unless the UTF-8 flag bit is set, but
// many readers interpret it as whatever the local system encoding is.
// Bytes 0x7e and 0x5c are excluded from the "safe" range because EUC-KR
// and Shift-JIS remap them to localized currency/overline characters.
func DetectUTF8(s string) (valid, require bool) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r < 0x20 || r > 0x7d || r == 0x5c {
			if !utf8.ValidRune(r) || (r == utf8.RuneError && size == 1) {
				return false, false
			}
			require = true
		}
	}
	return true, require
}
