// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Open reads and parses photo file by path.
func Open(path string, options ...Option) (*Photo, error) {
	p := New(options...)
	if err := p.LoadFile(path); err != nil {
		return nil, err
	}

	return p, nil
}

// Parse parses photo from an in-memory buffer.
func Parse(data []byte, options ...Option) (*Photo, error) {
	p := New(options...)
	if err := p.Load(data); err != nil {
		return nil, err
	}

	return p, nil
}

// Load parses data into photo. On failure the previous document is kept,
// only the sticky result code changes, and the code is returned as error.
func (p *Photo) Load(data []byte) error {
	if p == nil {
		return ErrNilPhoto
	}

	if p.closed {
		return ErrClosed
	}

	p.init()

	var staged Data
	code := p.parse(&staged, data)
	if code != NoError {
		p.data.Error = code
		p.loaded = false
		p.opts.Logger.Debug("photo load failed",
			zap.Stringer("error", code),
			zap.Int("size", len(data)),
		)
		return code
	}

	staged.Error = NoError
	p.data = staged
	p.loaded = true
	p.logLayout("photo loaded", len(data))
	return nil
}

// LoadFile reads and parses photo file by path.
// A read failure leaves the document and its result code untouched.
func (p *Photo) LoadFile(path string) error {
	if p == nil {
		return ErrNilPhoto
	}

	if p.closed {
		return ErrClosed
	}

	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}

	return p.Load(data)
}

// LoadReader reads r to end and parses it as photo.
// A read failure leaves the document and its result code untouched.
func (p *Photo) LoadReader(r io.Reader) error {
	if p == nil {
		return ErrNilPhoto
	}

	if p.closed {
		return ErrClosed
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read photo stream: %w", err)
	}

	return p.Load(data)
}

// parse decodes data into staged snapshot and returns the first anomaly.
func (p *Photo) parse(d *Data, data []byte) PhotoError {
	format, code := detectFormat(data)
	if code != NoError {
		return code
	}

	d.Format = format
	if !format.Supported() {
		return p.parseCustom(d, data, format)
	}

	r := byteReader{buf: data, pos: uint32Size}
	if code := readHeader(&r, d); code != NoError {
		return code
	}

	headerEnd := format.HeaderSize()
	if code := readOffsetTable(&r, d); code != NoError {
		return code
	}

	if code := readJpegSegment(&r, d); code != NoError {
		return code
	}

	for _, seg := range textSegments {
		if code := readTextSegment(&r, d, seg, headerEnd); code != NoError {
			return code
		}
	}

	if code := readJendMarker(&r); code != NoError {
		return code
	}

	if uint64(headerEnd)+uint64(d.EndOfFile) > uint64(len(data)) {
		return IncompleteEOF
	}

	return NoError
}

// parseCustom delegates unknown format identifiers to a registered parser.
func (p *Photo) parseCustom(d *Data, data []byte, format Format) PhotoError {
	parser, ok := p.parserFor(format)
	if !ok {
		return NoFormatIdentifier
	}

	if err := parser.Load(d, data); err != nil {
		return photoErrorOf(err, IncompatibleFormat)
	}

	if d.Format == FormatUnknown {
		d.Format = format
	}

	return NoError
}

// logLayout writes parsed layout fields as one debug record.
func (p *Photo) logLayout(msg string, size int) {
	logger := p.opts.Logger
	if !logger.Core().Enabled(zap.DebugLevel) {
		return
	}

	d := &p.data
	logger.Debug(msg,
		zap.Stringer("format", d.Format),
		zap.Int("size", size),
		zap.String("header", d.Header),
		zap.Uint32("header_sum", d.HeaderSum),
		zap.Uint32("header_sum2", d.HeaderSum2),
		zap.Uint32("jpeg_buffer", d.JpegBuffer),
		zap.Uint32("jpeg_size", d.JpegSize()),
		zap.Uint32("json_offset", d.JSONOffset),
		zap.Uint32("json_buffer", d.JSONBuffer),
		zap.Uint32("title_offset", d.TitleOffset),
		zap.Uint32("title_buffer", d.TitleBuffer),
		zap.Uint32("desc_offset", d.DescOffset),
		zap.Uint32("desc_buffer", d.DescBuffer),
		zap.Uint32("end_of_file", d.EndOfFile),
	)
}
