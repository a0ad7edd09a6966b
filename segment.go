// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"bytes"
	"math"
)

// textSegment describes one marker-guarded NUL-terminated text segment
// and the result codes reported for its anomalies.
type textSegment struct {
	// value selects the segment text in snapshot.
	value func(d *Data) *string
	// buffer selects the declared segment capacity in snapshot.
	buffer func(d *Data) *uint32
	// offset returns declared segment offset from the offset table.
	offset func(d *Data) uint32
	// name is used in log records.
	name             string
	marker           [markerSize]byte
	incompleteOffset PhotoError
	incompleteMarker PhotoError
	incorrectMarker  PhotoError
	incompleteBuffer PhotoError
	mallocError      PhotoError
	readError        PhotoError
	bufferTight      PhotoError
}

// Text segments in on-disk order after the JPEG segment.
var (
	segmentJSON = textSegment{
		name:             "json",
		marker:           markerJSON,
		value:            func(d *Data) *string { return &d.JSON },
		buffer:           func(d *Data) *uint32 { return &d.JSONBuffer },
		offset:           func(d *Data) uint32 { return d.JSONOffset },
		incompleteOffset: IncompleteJSONOffset,
		incompleteMarker: IncompleteJSONMarker,
		incorrectMarker:  IncorrectJSONMarker,
		incompleteBuffer: IncompleteJSONBuffer,
		mallocError:      JSONMallocError,
		readError:        JSONReadError,
		bufferTight:      JSONBufferTight,
	}
	segmentTitle = textSegment{
		name:             "title",
		marker:           markerTITL,
		value:            func(d *Data) *string { return &d.Title },
		buffer:           func(d *Data) *uint32 { return &d.TitleBuffer },
		offset:           func(d *Data) uint32 { return d.TitleOffset },
		incompleteOffset: IncompleteTitleOffset,
		incompleteMarker: IncompleteTitleMarker,
		incorrectMarker:  IncorrectTitleMarker,
		incompleteBuffer: IncompleteTitleBuffer,
		mallocError:      TitleMallocError,
		readError:        TitleReadError,
		bufferTight:      TitleBufferTight,
	}
	segmentDesc = textSegment{
		name:             "description",
		marker:           markerDESC,
		value:            func(d *Data) *string { return &d.Description },
		buffer:           func(d *Data) *uint32 { return &d.DescBuffer },
		offset:           func(d *Data) uint32 { return d.DescOffset },
		incompleteOffset: IncompleteDescOffset,
		incompleteMarker: IncompleteDescMarker,
		incorrectMarker:  IncorrectDescMarker,
		incompleteBuffer: IncompleteDescBuffer,
		mallocError:      DescMallocError,
		readError:        DescReadError,
		bufferTight:      DescBufferTight,
	}

	textSegments = [...]*textSegment{&segmentJSON, &segmentTitle, &segmentDesc}
)

// readOffsetTable reads end of file and segment offsets following the header.
func readOffsetTable(r *byteReader, d *Data) PhotoError {
	var ok bool
	if d.EndOfFile, ok = r.uint32(); !ok {
		return IncompleteEOF
	}

	if d.JSONOffset, ok = r.uint32(); !ok {
		return IncompleteJSONOffset
	}

	if d.TitleOffset, ok = r.uint32(); !ok {
		return IncompleteTitleOffset
	}

	if d.DescOffset, ok = r.uint32(); !ok {
		return IncompleteDescOffset
	}

	return NoError
}

// readJpegSegment reads JPEG marker, capacity, size, and payload.
// A payload larger than its declared capacity raises the capacity.
func readJpegSegment(r *byteReader, d *Data) PhotoError {
	complete, matched := r.marker(markerJPEG)
	if !complete {
		return IncompleteJpegMarker
	}
	if !matched {
		return IncorrectJpegMarker
	}

	var ok bool
	if d.JpegBuffer, ok = r.uint32(); !ok {
		return IncompletePhotoBuffer
	}

	size, ok := r.uint32()
	if !ok {
		return IncompletePhotoSize
	}

	if !addressable(size) {
		return PhotoMallocError
	}

	payload, ok := r.bytes(int(size))
	if !ok {
		return PhotoReadError
	}

	d.Jpeg = make([]byte, len(payload))
	copy(d.Jpeg, payload)

	if size > d.JpegBuffer {
		d.JpegBuffer = size
		return NoError
	}

	r.skip(int(d.JpegBuffer - size))
	return NoError
}

// readTextSegment reads one text segment at reader position.
// headerEnd converts the declared relative offset into an absolute one.
func readTextSegment(r *byteReader, d *Data, seg *textSegment, headerEnd int) PhotoError {
	if uint64(headerEnd)+uint64(seg.offset(d)) > uint64(len(r.buf)) {
		return seg.incompleteOffset
	}

	complete, matched := r.marker(seg.marker)
	if !complete {
		return seg.incompleteMarker
	}
	if !matched {
		return seg.incorrectMarker
	}

	size, ok := r.uint32()
	if !ok || size == 0 {
		return seg.incompleteBuffer
	}

	if !addressable(size) {
		return seg.mallocError
	}

	raw, ok := r.bytes(int(size))
	if !ok {
		return seg.readError
	}

	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}

	*seg.buffer(d) = size
	*seg.value(d) = string(raw)
	return NoError
}

// addressable reports whether a declared content size fits an int slice length.
// Sizes that merely run past the input end are short reads, not allocation failures.
func addressable(size uint32) bool {
	return uint64(size) <= math.MaxInt
}

// readJendMarker reads the trailing JEND marker.
func readJendMarker(r *byteReader) PhotoError {
	complete, matched := r.marker(markerJEND)
	if !complete {
		return IncompleteJendMarker
	}
	if !matched {
		return IncorrectJendMarker
	}

	return NoError
}

// checkTextFits reports bufferTight when text and its NUL terminator exceed capacity.
// A zero capacity never fits: readers reject zero-sized text buffers.
func (seg *textSegment) checkTextFits(text string, capacity uint32) PhotoError {
	if capacity == 0 {
		return seg.bufferTight
	}

	if text == "" {
		return NoError
	}

	if uint64(len(text))+1 > uint64(capacity) {
		return seg.bufferTight
	}

	return NoError
}

// writeOffsetTable writes end of file and segment offsets for planned buffers.
func writeOffsetTable(w *byteWriter, b segmentBuffers) {
	jsonOffset, titleOffset, descOffset, endOfFile := b.offsets()
	w.putUint32(endOfFile)
	w.putUint32(jsonOffset)
	w.putUint32(titleOffset)
	w.putUint32(descOffset)
}

// writeJpegSegment writes JPEG marker, capacity, size, and zero padded payload.
func writeJpegSegment(w *byteWriter, jpeg []byte, capacity uint32) {
	w.putMarker(markerJPEG)
	w.putUint32(capacity)
	w.putUint32(uint32(len(jpeg))) //nolint:gosec // checked against capacity before write
	w.put(jpeg)
	w.zero(int(capacity) - len(jpeg))
}

// writeTextSegment writes marker, capacity, and zero padded NUL-terminated text.
func writeTextSegment(w *byteWriter, seg *textSegment, text string, capacity uint32) {
	w.putMarker(seg.marker)
	w.putUint32(capacity)

	written := 0
	if text != "" {
		w.put([]byte(text))
		written = len(text)
	}

	w.zero(int(capacity) - written)
}
