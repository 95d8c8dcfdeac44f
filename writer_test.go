package zipwriter_test

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mosaicward/zipwriter"
)

type writeCase struct {
	name   string
	data   []byte
	method uint16
}

func TestWriterRoundTrip(t *testing.T) {
	large := make([]byte, 1<<17)
	_, err := rand.Read(large)
	require.NoError(t, err)

	cases := []writeCase{
		{name: "foo.txt", data: []byte("Rabbits, guinea pigs, gophers, marsupial rats, and quolls."), method: zipwriter.Store},
		{name: "bar.bin", data: large, method: zipwriter.Deflate},
		{name: "empty.txt", data: nil, method: zipwriter.Store},
	}

	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	for _, c := range cases {
		entry := zipwriter.Entry{Name: c.name}
		if c.method == zipwriter.Store {
			entry.Method = zipwriter.Method(zipwriter.Store)
			entry.Size = zipwriter.Size(uint32(len(c.data)))
			entry.CRC32 = zipwriter.CRC32(crc(c.data))
		} else {
			entry.Method = zipwriter.Method(zipwriter.Deflate)
		}
		ew, err := w.BeginEntry(entry)
		require.NoError(t, err)
		_, err = ew.Write(c.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Finish())

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, r.File, len(cases))

	for i, c := range cases {
		f := r.File[i]
		require.Equal(t, c.name, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		require.Equal(t, c.data, got)
	}
}

func TestWriterComment(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		wantErr bool
	}{
		{name: "short", comment: "hi, hello"},
		{name: "non-ascii", comment: "hi, こんにちわ"},
		{name: "max length", comment: strings.Repeat("a", 1<<16-1)},
		{name: "too long", comment: strings.Repeat("a", 1<<16), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := zipwriter.New(&buf)
			w.SetComment(tt.comment)
			err := w.Finish()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			require.NoError(t, err)
			require.Equal(t, tt.comment, r.Comment)
		})
	}
}

func TestWriterUTF8Flag(t *testing.T) {
	tests := []struct {
		name      string
		entryName string
		comment   string
		nonUTF8   bool
		wantFlags uint16
	}{
		{name: "plain ascii", entryName: "hi, hello", comment: "in the world", wantFlags: 0x8},
		{name: "japanese name", entryName: "hi, こんにちわ", comment: "in the world", wantFlags: 0x808},
		{name: "japanese forced non-utf8", entryName: "hi, こんにちわ", comment: "in the world", nonUTF8: true, wantFlags: 0x8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := zipwriter.New(&buf)
			ew, err := w.BeginEntry(zipwriter.Entry{
				Name:    tt.entryName,
				Comment: tt.comment,
				NonUTF8: tt.nonUTF8,
				Method:  zipwriter.Method(zipwriter.Deflate),
			})
			require.NoError(t, err)
			_, err = ew.Write(nil)
			require.NoError(t, err)
			require.NoError(t, w.Finish())

			r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			require.NoError(t, err)
			require.Equal(t, tt.wantFlags, r.File[0].Flags)
		})
	}
}

func TestWriterTime(t *testing.T) {
	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	modified := time.Date(2017, 10, 31, 21, 11, 57, 0, time.UTC)
	ew, err := w.BeginEntry(zipwriter.Entry{
		Name:     "test.txt",
		Modified: modified,
		Method:   zipwriter.Method(zipwriter.Store),
		Size:     zipwriter.Size(0),
		CRC32:    zipwriter.CRC32(crc(nil)),
	})
	require.NoError(t, err)
	_, err = ew.Write(nil)
	require.NoError(t, err)
	require.NoError(t, w.Finish())

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Equal(t, modified.Truncate(2*time.Second), r.File[0].Modified.Truncate(2*time.Second))
}

func TestWriterMissingStoredMetadata(t *testing.T) {
	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	_, err := w.BeginEntry(zipwriter.Entry{
		Name:   "file.txt",
		Method: zipwriter.Method(zipwriter.Store),
	})
	require.ErrorIs(t, err, zipwriter.ErrMissingStoredMetadata)
}

func TestWriterStoredSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	ew, err := w.BeginEntry(zipwriter.Entry{
		Name:   "file.txt",
		Method: zipwriter.Method(zipwriter.Store),
		Size:   zipwriter.Size(5),
		CRC32:  zipwriter.CRC32(0),
	})
	require.NoError(t, err)
	_, err = ew.Write([]byte("nope")) // 4 bytes, declared 5
	require.NoError(t, err)
	err = w.CloseEntry()
	require.ErrorIs(t, err, zipwriter.ErrStoredSizeMismatch)
}

func TestWriterStoredCRCMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	ew, err := w.BeginEntry(zipwriter.Entry{
		Name:   "file.txt",
		Method: zipwriter.Method(zipwriter.Store),
		Size:   zipwriter.Size(4),
		CRC32:  zipwriter.CRC32(0xffffffff),
	})
	require.NoError(t, err)
	_, err = ew.Write([]byte("nope"))
	require.NoError(t, err)
	err = w.CloseEntry()
	require.ErrorIs(t, err, zipwriter.ErrStoredCRCMismatch)
}

func TestWriterFinishTwiceFails(t *testing.T) {
	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	require.NoError(t, w.Finish())
	require.ErrorIs(t, w.Finish(), zipwriter.ErrWriterClosed)
}

func TestWriterBeginEntryAfterFinishFails(t *testing.T) {
	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	require.NoError(t, w.Finish())
	_, err := w.BeginEntry(zipwriter.Entry{Name: "late.txt"})
	require.ErrorIs(t, err, zipwriter.ErrWriterClosed)
}

func TestWriterNameTooLong(t *testing.T) {
	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	_, err := w.BeginEntry(zipwriter.Entry{Name: strings.Repeat("a", 1<<16)})
	require.ErrorIs(t, err, zipwriter.ErrNameTooLong)
}

func TestWriterBeginEntryClosesPrevious(t *testing.T) {
	var buf bytes.Buffer
	w := zipwriter.New(&buf)
	first, err := w.BeginEntry(zipwriter.Entry{Name: "first.txt", Method: zipwriter.Method(zipwriter.Deflate)})
	require.NoError(t, err)
	_, err = first.Write([]byte("one"))
	require.NoError(t, err)

	_, err = w.BeginEntry(zipwriter.Entry{Name: "second.txt", Method: zipwriter.Method(zipwriter.Deflate)})
	require.NoError(t, err)

	_, err = first.Write([]byte("too late"))
	require.ErrorIs(t, err, zipwriter.ErrNoCurrentEntry)
	require.NoError(t, w.Finish())
}

func crc(data []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(data)
	return h.Sum32()
}
