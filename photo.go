// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import "go.uber.org/zap"

// Photo is a mutable in-memory RAGE photo document.
// The zero value is an empty photo with default options.
// A Photo is not safe for concurrent mutation.
type Photo struct {
	// opts are applied lazily on first use.
	opts Options
	// data is the current document state.
	data Data
	// initialized reports whether opts defaults and empty state were applied.
	initialized bool
	// loaded reports whether the last Load succeeded.
	loaded bool
	// closed reports whether Close was already called.
	closed bool
}

// Option configures a Photo created by New.
type Option func(*Options)

// WithLogger sets a debug logger.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithFormat sets the format of new and cleared photos.
func WithFormat(format Format) Option {
	return func(opts *Options) {
		opts.Format = format
	}
}

// WithDefaultBuffers sets text capacities used by Clear and re-target saves.
// Zero values keep library defaults.
func WithDefaultBuffers(desc, json, title uint32) Option {
	return func(opts *Options) {
		opts.DescBuffer = desc
		opts.JSONBuffer = json
		opts.TitleBuffer = title
	}
}

// WithParser registers a custom parser for a non built-in format.
func WithParser(format Format, parser FormatParser) Option {
	return func(opts *Options) {
		if parser == nil || format.Supported() {
			return
		}

		if opts.Parsers == nil {
			opts.Parsers = make(map[Format]FormatParser, 1)
		}

		opts.Parsers[format] = parser
	}
}

// Version returns the library version.
func Version() string {
	return libraryVersion
}

// New creates an empty photo.
func New(options ...Option) *Photo {
	var opts Options
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}

	return NewWithOptions(opts)
}

// NewWithOptions creates an empty photo using explicit options.
func NewWithOptions(opts Options) *Photo {
	if opts.Parsers != nil {
		parsers := make(map[Format]FormatParser, len(opts.Parsers))
		for format, parser := range opts.Parsers {
			parsers[format] = parser
		}
		opts.Parsers = parsers
	}

	p := &Photo{opts: opts}
	p.init()
	return p
}

// init applies option defaults and empty state once.
func (p *Photo) init() {
	if p.initialized {
		return
	}

	p.opts.applyDefaults()
	p.reset()
	p.initialized = true
}

// reset replaces document state with an empty photo.
func (p *Photo) reset() {
	p.data = Data{Format: p.opts.Format, Error: Uninitialised}
	p.data.setBufferDefault(&p.opts)
	p.loaded = false
}

// usable applies defaults and reports whether p accepts mutation.
func (p *Photo) usable() bool {
	if p == nil || p.closed {
		return false
	}

	p.init()
	return true
}

// Close releases document buffers. Calling Close more than once is a no-op.
func (p *Photo) Close() error {
	if p == nil || p.closed {
		return nil
	}

	p.data = Data{}
	p.loaded = false
	p.closed = true
	return nil
}

// Clear resets photo to empty state with default buffers.
func (p *Photo) Clear() {
	if !p.usable() {
		return
	}

	p.reset()
}

// Clone returns a deep copy of photo including registered parsers.
func (p *Photo) Clone() *Photo {
	if p == nil {
		return nil
	}

	p.init()
	out := &Photo{
		opts:        p.opts,
		data:        p.data.clone(),
		initialized: true,
		loaded:      p.loaded,
		closed:      p.closed,
	}

	if p.opts.Parsers != nil {
		out.opts.Parsers = make(map[Format]FormatParser, len(p.opts.Parsers))
		for format, parser := range p.opts.Parsers {
			out.opts.Parsers[format] = parser
		}
	}

	return out
}

// Data returns a deep copy of current document state.
func (p *Photo) Data() Data {
	if p == nil {
		return Data{}
	}

	p.init()
	return p.data.clone()
}

// SetData replaces document state with a deep copy of d and recomputes offsets.
func (p *Photo) SetData(d Data) {
	if !p.usable() {
		return
	}

	p.data = d.clone()
	if p.data.JpegSize() > p.data.JpegBuffer {
		p.data.JpegBuffer = p.data.JpegSize()
	}
	p.data.setBufferOffsets()
	p.data.Error = NoError
	p.loaded = false
}

// Loaded reports whether the last Load succeeded.
func (p *Photo) Loaded() bool {
	return p != nil && p.loaded
}

// Error returns the sticky result code of the last operation.
func (p *Photo) Error() PhotoError {
	if p == nil {
		return Uninitialised
	}

	p.init()
	return p.data.Error
}

// Format returns photo format identifier.
func (p *Photo) Format() Format {
	if p == nil {
		return FormatUnknown
	}

	p.init()
	return p.data.Format
}

// Header returns decoded header text.
func (p *Photo) Header() string {
	if p == nil {
		return ""
	}

	return p.data.Header
}

// HeaderSum returns the first header checksum.
func (p *Photo) HeaderSum() uint32 {
	if p == nil {
		return 0
	}

	return p.data.HeaderSum
}

// HeaderSum2 returns the second header checksum (RDR 2 only).
func (p *Photo) HeaderSum2() uint32 {
	if p == nil {
		return 0
	}

	return p.data.HeaderSum2
}

// Title returns photo title.
func (p *Photo) Title() string {
	if p == nil {
		return ""
	}

	return p.data.Title
}

// Description returns photo description.
func (p *Photo) Description() string {
	if p == nil {
		return ""
	}

	return p.data.Description
}

// JSON returns photo JSON metadata text.
func (p *Photo) JSON() string {
	if p == nil {
		return ""
	}

	return p.data.JSON
}

// Jpeg returns a copy of the JPEG payload.
func (p *Photo) Jpeg() []byte {
	if p == nil || p.data.Jpeg == nil {
		return nil
	}

	out := make([]byte, len(p.data.Jpeg))
	copy(out, p.data.Jpeg)
	return out
}

// JpegSize returns JPEG payload length.
func (p *Photo) JpegSize() uint32 {
	if p == nil {
		return 0
	}

	return p.data.JpegSize()
}

// JpegBuffer returns declared JPEG capacity.
func (p *Photo) JpegBuffer() uint32 {
	if p == nil {
		return 0
	}

	return p.data.JpegBuffer
}

// JSONBuffer returns declared JSON capacity.
func (p *Photo) JSONBuffer() uint32 {
	if p == nil {
		return 0
	}

	p.init()
	return p.data.JSONBuffer
}

// TitleBuffer returns declared title capacity.
func (p *Photo) TitleBuffer() uint32 {
	if p == nil {
		return 0
	}

	p.init()
	return p.data.TitleBuffer
}

// DescriptionBuffer returns declared description capacity.
func (p *Photo) DescriptionBuffer() uint32 {
	if p == nil {
		return 0
	}

	p.init()
	return p.data.DescBuffer
}

// SetFormat sets photo format identifier. Buffers are kept, except that a
// JPEG capacity set while the format had no built-in codec is raised to the
// new format default, so SetJpeg may be called before SetFormat.
func (p *Photo) SetFormat(format Format) {
	if !p.usable() {
		return
	}

	if !p.data.Format.Supported() && format.Supported() {
		p.data.JpegBuffer = max(p.data.JpegBuffer, format.DefaultPhotoBuffer())
		p.data.setBufferOffsets()
	}

	p.data.Format = format
	p.data.Error = NoError
}

// SetHeader sets header text and checksums. Checksums are stored verbatim.
func (p *Photo) SetHeader(text string, sum, sum2 uint32) {
	if !p.usable() {
		return
	}

	p.data.Header = text
	p.data.HeaderSum = sum
	p.data.HeaderSum2 = sum2
	p.data.HasHeader = true
	p.data.Error = NoError
}

// SetTitle sets title and grows its capacity to fit.
func (p *Photo) SetTitle(title string) {
	p.setTextGrow(&segmentTitle, title)
}

// SetTitleBuffer sets title with an explicit capacity; zero keeps current capacity.
func (p *Photo) SetTitleBuffer(title string, capacity uint32) {
	p.setText(&segmentTitle, title, capacity)
}

// SetDescription sets description and grows its capacity to fit.
func (p *Photo) SetDescription(desc string) {
	p.setTextGrow(&segmentDesc, desc)
}

// SetDescriptionBuffer sets description with an explicit capacity; zero keeps current capacity.
func (p *Photo) SetDescriptionBuffer(desc string, capacity uint32) {
	p.setText(&segmentDesc, desc, capacity)
}

// SetJSON sets JSON metadata text and grows its capacity to fit.
func (p *Photo) SetJSON(json string) {
	p.setTextGrow(&segmentJSON, json)
}

// SetJSONBuffer sets JSON metadata text with an explicit capacity; zero keeps current capacity.
func (p *Photo) SetJSONBuffer(json string, capacity uint32) {
	p.setText(&segmentJSON, json, capacity)
}

// setTextGrow stores segment text, growing capacity when text does not fit.
func (p *Photo) setTextGrow(seg *textSegment, text string) {
	if !p.usable() {
		return
	}

	capacity := *seg.buffer(&p.data)
	if seg.checkTextFits(text, capacity) != NoError {
		capacity = uint32(len(text) + 1) //nolint:gosec // text segments are far below 4 GiB
	}

	p.setText(seg, text, capacity)
}

// setText stores segment text and a non-zero capacity.
func (p *Photo) setText(seg *textSegment, text string, capacity uint32) {
	if !p.usable() {
		return
	}

	*seg.value(&p.data) = text
	if capacity != 0 {
		*seg.buffer(&p.data) = capacity
	}

	p.data.setBufferOffsets()
	p.data.Error = NoError
}

// SetJpeg sets JPEG payload; capacity becomes max(format default, payload length).
func (p *Photo) SetJpeg(jpeg []byte) {
	if !p.usable() {
		return
	}

	capacity := p.data.Format.DefaultPhotoBuffer()
	if n := uint32(len(jpeg)); n > capacity { //nolint:gosec // payload length is bounded by uint32 size fields
		capacity = n
	}

	p.setJpeg(jpeg, capacity)
}

// SetJpegBuffer sets JPEG payload with an explicit capacity; zero keeps current capacity.
func (p *Photo) SetJpegBuffer(jpeg []byte, capacity uint32) {
	if !p.usable() {
		return
	}

	if capacity == 0 {
		capacity = p.data.JpegBuffer
	}

	p.setJpeg(jpeg, capacity)
}

// setJpeg copies payload and stores capacity.
func (p *Photo) setJpeg(jpeg []byte, capacity uint32) {
	p.data.Jpeg = make([]byte, len(jpeg))
	copy(p.data.Jpeg, jpeg)
	p.data.JpegBuffer = capacity
	p.data.setBufferOffsets()
	p.data.Error = NoError
}

// SetBufferDefault resets text capacities to configured defaults.
func (p *Photo) SetBufferDefault() {
	if !p.usable() {
		return
	}

	p.data.setBufferDefault(&p.opts)
}

// SetBufferOffsets recomputes segment offsets from current capacities.
func (p *Photo) SetBufferOffsets() {
	if !p.usable() {
		return
	}

	p.data.setBufferOffsets()
}

