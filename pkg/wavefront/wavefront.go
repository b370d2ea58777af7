// Package wavefront parses Wavefront OBJ geometry files and their
// companion MTL material libraries into render-ready data: one mesh per
// distinct material, each with an interleaved vertex buffer and a
// triangle index buffer, plus a list of material records.
//
// The loader is one-shot and single-threaded: a call either returns a
// complete result or a single error, never a partial one. Free-form
// curves and surfaces, line and point elements, and smoothing-group
// semantics are not supported.
package wavefront

import "errors"

// Loader errors. Every failure returned by the parse functions wraps
// exactly one of these, so callers can classify with errors.Is.
var (
	// ErrInvalidFile marks a wrong extension or structurally malformed
	// content, including bad or out-of-range face indices and
	// inconsistent vertex formats.
	ErrInvalidFile = errors.New("invalid wavefront file")

	// ErrIO marks a file that could not be opened or read.
	ErrIO = errors.New("wavefront read failed")

	// ErrOutOfMemory marks a mesh that grew past its buffer limits.
	ErrOutOfMemory = errors.New("wavefront mesh exceeds buffer limits")

	// ErrUnsupportedCommand marks an unrecognized top-level command.
	ErrUnsupportedCommand = errors.New("unsupported wavefront command")
)
