// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import "encoding/binary"

var le = binary.LittleEndian

// byteReader is a sequential bounds-checked reader over a resident buffer.
// Reads never panic; a short read reports false and leaves pos at len(buf).
type byteReader struct {
	buf []byte
	pos int
}

// remaining returns unread byte count.
func (r *byteReader) remaining() int {
	if r.pos >= len(r.buf) {
		return 0
	}

	return len(r.buf) - r.pos
}

// uint32 reads one little-endian uint32.
func (r *byteReader) uint32() (uint32, bool) {
	if r.remaining() < uint32Size {
		r.pos = len(r.buf)
		return 0, false
	}

	v := le.Uint32(r.buf[r.pos:])
	r.pos += uint32Size
	return v, true
}

// bytes returns the next n bytes without copying.
func (r *byteReader) bytes(n int) ([]byte, bool) {
	if n < 0 || r.remaining() < n {
		r.pos = len(r.buf)
		return nil, false
	}

	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, true
}

// marker reads a 4-byte marker and reports (complete, matched).
func (r *byteReader) marker(want [markerSize]byte) (bool, bool) {
	got, ok := r.bytes(markerSize)
	if !ok {
		return false, false
	}

	return true, [markerSize]byte(got) == want
}

// skip advances position by n bytes, clamping at buffer end.
func (r *byteReader) skip(n int) {
	if n < 0 || r.remaining() < n {
		r.pos = len(r.buf)
		return
	}

	r.pos += n
}

// byteWriter is a sequential writer over a pre-sized output buffer.
// The caller sizes buf exactly; writes past the end are truncated.
type byteWriter struct {
	buf []byte
	pos int
}

// putUint32 writes one little-endian uint32.
func (w *byteWriter) putUint32(v uint32) {
	var tmp [uint32Size]byte
	le.PutUint32(tmp[:], v)
	w.put(tmp[:])
}

// put copies p into output.
func (w *byteWriter) put(p []byte) {
	n := copy(w.buf[w.pos:], p)
	w.pos += n
}

// putMarker writes a 4-byte marker.
func (w *byteWriter) putMarker(m [markerSize]byte) {
	w.put(m[:])
}

// zero writes n zero bytes.
func (w *byteWriter) zero(n int) {
	if n <= 0 {
		return
	}

	end := w.pos + n
	if end > len(w.buf) {
		end = len(w.buf)
	}

	clear(w.buf[w.pos:end])
	w.pos = end
}
