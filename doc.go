// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package zipwriter streams named byte payloads into the PKZIP archive
container format.

It supports the Store and Deflate compression methods, per-entry local
and central extra fields, and internal/external file attributes. Unlike
archive/zip's Writer, the local and central extra-field byte strings are
independent: bytes handed to the local header never leak into the central
directory and vice versa.

The Writer is a single-threaded state machine: it writes entry bytes to a
caller-supplied io.Writer as they arrive rather than buffering the whole
archive, while keeping an in-memory index of finalized entries used to
emit the central directory when Finish is called.

See https://www.pkware.com/appnote for the format this package emits.
This package does not read ZIP archives, does not implement ZIP64, and
does not support encryption, disk spanning, or self-extracting archives.
*/
package zipwriter
