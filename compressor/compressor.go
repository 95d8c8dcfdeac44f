// Package compressor provides the Factory abstraction Writer uses to turn
// a compression method into a streaming io.WriteCloser, along with the
// Store and Deflate implementations and a small registry so callers can
// plug in their own methods.
package compressor

import (
	"errors"
	"io"

	"github.com/klauspost/compress/flate"
)

// ErrAlgorithm is returned when no Factory is registered for a requested
// compression method.
var ErrAlgorithm = errors.New("compressor: unsupported method")

// Factory turns a destination writer into a streaming compressor for one
// entry. Write pushes uncompressed input into the compressor; Close
// flushes any buffered output and finalizes the stream. This mirrors the
// spec's abstract "reset/input/pull-output/finish" collaborator: on an
// append-only sink there is nothing to pull, so the compressor writes its
// own output straight through to dst as Write is called.
type Factory func(dst io.Writer) (io.WriteCloser, error)

// Store returns a Factory that performs no compression: bytes written to
// the returned writer are forwarded to dst unchanged.
func Store() Factory {
	return func(dst io.Writer) (io.WriteCloser, error) {
		return nopCloser{dst}, nil
	}
}

// Deflate returns a Factory producing RFC 1951 DEFLATE streams at the
// given compression level (flate.DefaultCompression if level is 0).
func Deflate(level int) Factory {
	if level == 0 {
		level = flate.DefaultCompression
	}
	return func(dst io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(dst, level)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Registry maps compression method IDs to Factory implementations. The
// zero value is ready to use and falls back to the package-level Store
// and Deflate factories for methods 0 and 8.
type Registry struct {
	factories map[uint16]Factory
}

// Register installs factory as the compressor for method, overriding any
// default or previously registered factory for that method.
func (r *Registry) Register(method uint16, factory Factory) {
	if r.factories == nil {
		r.factories = make(map[uint16]Factory)
	}
	r.factories[method] = factory
}

// Lookup returns the Factory for method, or nil if none is registered and
// no built-in default exists for it.
func (r *Registry) Lookup(method uint16, level int) Factory {
	if r != nil {
		if f := r.factories[method]; f != nil {
			return f
		}
	}
	switch method {
	case 0: // Store
		return Store()
	case 8: // Deflate
		return Deflate(level)
	default:
		return nil
	}
}
