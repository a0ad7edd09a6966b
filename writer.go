// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// segmentBuffers holds segment capacities used by one save.
type segmentBuffers struct {
	jpeg  uint32
	json  uint32
	title uint32
	desc  uint32
}

// offsets returns segment offsets relative to header end.
func (b segmentBuffers) offsets() (jsonOffset, titleOffset, descOffset, endOfFile uint32) {
	jsonOffset = b.jpeg + jpegSegmentPrefix
	titleOffset = jsonOffset + b.json + textSegmentPrefix
	descOffset = titleOffset + b.title + textSegmentPrefix
	endOfFile = descOffset + b.desc + jendSuffix
	return jsonOffset, titleOffset, descOffset, endOfFile
}

// size returns total output length for a header of headerSize bytes.
func (b segmentBuffers) size(headerSize int) int {
	return headerSize + segmentOverhead +
		int(b.jpeg) + int(b.json) + int(b.title) + int(b.desc)
}

// planBuffers returns capacities for saving in format.
// Saving in the document format keeps stored capacities; re-targeting
// resets them to defaults grown to fit current content.
func (p *Photo) planBuffers(format Format) segmentBuffers {
	d := &p.data
	if format == d.Format {
		return segmentBuffers{
			jpeg:  d.JpegBuffer,
			json:  d.JSONBuffer,
			title: d.TitleBuffer,
			desc:  d.DescBuffer,
		}
	}

	return segmentBuffers{
		jpeg:  max(format.DefaultPhotoBuffer(), d.JpegSize()),
		json:  textCapacity(p.opts.JSONBuffer, d.JSON),
		title: textCapacity(p.opts.TitleBuffer, d.Title),
		desc:  textCapacity(p.opts.DescBuffer, d.Description),
	}
}

// textCapacity returns max(def, len(text)+1) for non-empty text.
func textCapacity(def uint32, text string) uint32 {
	if text == "" {
		return def
	}

	return max(def, uint32(len(text)+1)) //nolint:gosec // text segments are far below 4 GiB
}

// SaveSize returns exact output length in the document format.
func (p *Photo) SaveSize() int {
	if p == nil {
		return 0
	}

	return p.SaveSizeFormat(p.Format())
}

// SaveSizeFormat returns exact output length in format,
// or zero for formats without a codec.
func (p *Photo) SaveSizeFormat(format Format) int {
	if p == nil || p.closed {
		return 0
	}

	p.init()
	if !format.Supported() {
		parser, ok := p.parserFor(format)
		if !ok {
			return 0
		}

		return parser.SaveSize(&p.data, format)
	}

	return p.planBuffers(format).size(format.HeaderSize())
}

// Save serializes photo in the document format.
func (p *Photo) Save() ([]byte, error) {
	if p == nil {
		return nil, ErrNilPhoto
	}

	return p.SaveFormat(p.Format())
}

// SaveFormat serializes photo in format. Validation runs before any byte
// is written, and its result code becomes the sticky error.
func (p *Photo) SaveFormat(format Format) ([]byte, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]byte, p.SaveSizeFormat(format))
	if err := p.saveInto(out, format); err != nil {
		return nil, err
	}

	return out, nil
}

// SaveInto serializes photo in format into buf, which must be exactly
// SaveSizeFormat(format) bytes long.
func (p *Photo) SaveInto(buf []byte, format Format) error {
	if err := p.checkOpen(); err != nil {
		return err
	}

	if want := p.SaveSizeFormat(format); len(buf) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrBufferLength, len(buf), want)
	}

	return p.saveInto(buf, format)
}

// WriteTo writes serialized photo in the document format to w.
func (p *Photo) WriteTo(w io.Writer) (int64, error) {
	data, err := p.Save()
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("write photo: %w", err)
	}

	return int64(n), nil
}

// SaveFile writes photo in the document format to path atomically.
func (p *Photo) SaveFile(path string) error {
	if p == nil {
		return ErrNilPhoto
	}

	return p.SaveFileFormat(path, p.Format())
}

// SaveFileFormat writes photo in format to path atomically.
func (p *Photo) SaveFileFormat(path string, format Format) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}

	data, err := p.SaveFormat(format)
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data)
}

// checkOpen reports nil or closed photo.
func (p *Photo) checkOpen() error {
	if p == nil {
		return ErrNilPhoto
	}

	if p.closed {
		return ErrClosed
	}

	p.init()
	return nil
}

// saveInto validates and encodes photo into dst sized by SaveSizeFormat.
func (p *Photo) saveInto(dst []byte, format Format) error {
	if !format.Supported() {
		return p.saveCustom(dst, format)
	}

	buffers := p.planBuffers(format)
	text, code := p.validateSave(buffers)
	if code != NoError {
		p.data.Error = code
		p.opts.Logger.Debug("photo save rejected",
			zap.Stringer("format", format),
			zap.Stringer("error", code),
		)
		return code
	}

	w := byteWriter{buf: dst}
	writeHeader(&w, &p.data, format, text)
	writeOffsetTable(&w, buffers)
	writeJpegSegment(&w, p.data.Jpeg, buffers.jpeg)
	writeTextSegment(&w, &segmentJSON, p.data.JSON, buffers.json)
	writeTextSegment(&w, &segmentTitle, p.data.Title, buffers.title)
	writeTextSegment(&w, &segmentDesc, p.data.Description, buffers.desc)
	w.putMarker(markerJEND)

	p.data.Error = NoError
	p.opts.Logger.Debug("photo saved",
		zap.Stringer("format", format),
		zap.Int("size", len(dst)),
		zap.Uint32("jpeg_buffer", buffers.jpeg),
		zap.Uint32("json_buffer", buffers.json),
		zap.Uint32("title_buffer", buffers.title),
		zap.Uint32("desc_buffer", buffers.desc),
	)
	return nil
}

// validateSave checks header and segment capacities and returns encoded header text.
func (p *Photo) validateSave(buffers segmentBuffers) ([]byte, PhotoError) {
	d := &p.data
	if !d.HasHeader && d.Header == "" {
		return nil, IncompleteHeader
	}

	text, code := encodeHeaderText(d.Header)
	if code != NoError {
		return nil, code
	}

	if d.JpegSize() > buffers.jpeg {
		return nil, PhotoBufferTight
	}

	checks := [...]struct {
		seg      *textSegment
		text     string
		capacity uint32
	}{
		{&segmentJSON, d.JSON, buffers.json},
		{&segmentTitle, d.Title, buffers.title},
		{&segmentDesc, d.Description, buffers.desc},
	}
	for _, check := range checks {
		if code := check.seg.checkTextFits(check.text, check.capacity); code != NoError {
			return nil, code
		}
	}

	return text, NoError
}

// saveCustom delegates formats without built-in codec to a registered parser.
func (p *Photo) saveCustom(dst []byte, format Format) error {
	parser, ok := p.parserFor(format)
	if !ok {
		p.data.Error = IncompatibleFormat
		return IncompatibleFormat
	}

	if err := parser.Save(&p.data, dst, format); err != nil {
		code := photoErrorOf(err, IncompatibleFormat)
		p.data.Error = code
		return code
	}

	p.data.Error = NoError
	return nil
}

// writeFileAtomic writes data to a temp file next to path, syncs it, and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp photo: %w", err)
	}

	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp photo: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp photo: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp photo: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp photo: %w", err)
	}

	return nil
}
