// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import "go.uber.org/zap"

// libraryVersion is returned by Version.
const libraryVersion = "0.7.0"

// Internal binary layout sizes.
const (
	headerTextSize = 256 // UTF-16LE header text region
	uint32Size     = 4
	markerSize     = 4
	// segmentOverhead is the fixed byte count of offset table, markers, and size fields.
	segmentOverhead = 56
	// jpegSegmentPrefix is the byte count from header end to JPEG payload start.
	jpegSegmentPrefix = 28
	// textSegmentPrefix is marker plus buffer size field of a text segment.
	textSegmentPrefix = 8
	// jendSuffix is DESC marker, DESC size field, and trailing JEND marker.
	jendSuffix = 12
)

// Header sizes per format in bytes.
const (
	GTA5HeaderSize = 264
	RDR2HeaderSize = 272
)

// Default segment buffer sizes.
const (
	DefaultGTA5PhotoBuffer = 524288
	DefaultRDR2PhotoBuffer = 1048576
	DefaultDescBuffer      = 256
	DefaultJSONBuffer      = 3072
	DefaultTitleBuffer     = 256
)

// Sign initial values per format.
const (
	SignInitialGTA5 uint32 = 0xE47AB81C
	SignInitialRDR2 uint32 = 0x00FEEB1E
)

// Segment markers as stored in file.
var (
	markerJPEG = [markerSize]byte{'J', 'P', 'E', 'G'}
	markerJSON = [markerSize]byte{'J', 'S', 'O', 'N'}
	markerTITL = [markerSize]byte{'T', 'I', 'T', 'L'}
	markerDESC = [markerSize]byte{'D', 'E', 'S', 'C'}
	markerJEND = [markerSize]byte{'J', 'E', 'N', 'D'}
)

// Data is a plain snapshot of all photo fields.
// Buffers hold declared capacities, offsets are relative to header end.
type Data struct {
	// Jpeg is the embedded JPEG payload.
	Jpeg []byte `json:"-" yaml:"-" toml:"-"`
	// Description is the photo description text.
	Description string `json:"description" yaml:"description" toml:"description"`
	// JSON is the photo JSON metadata text.
	JSON string `json:"json" yaml:"json" toml:"json"`
	// Header is the decoded header text.
	Header string `json:"header" yaml:"header" toml:"header"`
	// Title is the photo title text.
	Title string `json:"title" yaml:"title" toml:"title"`
	// Error is the last result code.
	Error PhotoError `json:"error" yaml:"error" toml:"error"`
	// DescBuffer is declared description capacity.
	DescBuffer uint32 `json:"desc_buffer" yaml:"desc_buffer" toml:"desc_buffer"`
	// DescOffset is description segment offset.
	DescOffset uint32 `json:"desc_offset" yaml:"desc_offset" toml:"desc_offset"`
	// EndOfFile is end of file offset.
	EndOfFile uint32 `json:"end_of_file" yaml:"end_of_file" toml:"end_of_file"`
	// HeaderSum is the first header checksum.
	HeaderSum uint32 `json:"header_sum" yaml:"header_sum" toml:"header_sum"`
	// HeaderSum2 is the second header checksum (RDR 2 only).
	HeaderSum2 uint32 `json:"header_sum2" yaml:"header_sum2" toml:"header_sum2"`
	// JpegBuffer is declared JPEG capacity.
	JpegBuffer uint32 `json:"jpeg_buffer" yaml:"jpeg_buffer" toml:"jpeg_buffer"`
	// JSONBuffer is declared JSON capacity.
	JSONBuffer uint32 `json:"json_buffer" yaml:"json_buffer" toml:"json_buffer"`
	// JSONOffset is JSON segment offset.
	JSONOffset uint32 `json:"json_offset" yaml:"json_offset" toml:"json_offset"`
	// Format is the photo format identifier.
	Format Format `json:"format" yaml:"format" toml:"format"`
	// TitleBuffer is declared title capacity.
	TitleBuffer uint32 `json:"title_buffer" yaml:"title_buffer" toml:"title_buffer"`
	// TitleOffset is title segment offset.
	TitleOffset uint32 `json:"title_offset" yaml:"title_offset" toml:"title_offset"`
	// HasHeader reports whether header text was loaded or set.
	HasHeader bool `json:"has_header" yaml:"has_header" toml:"has_header"`
}

// JpegSize returns the JPEG payload length.
func (d *Data) JpegSize() uint32 {
	return uint32(len(d.Jpeg)) //nolint:gosec // payload length is bounded by uint32 size fields
}

// clone returns a deep copy of d.
func (d *Data) clone() Data {
	out := *d
	if d.Jpeg != nil {
		out.Jpeg = make([]byte, len(d.Jpeg))
		copy(out.Jpeg, d.Jpeg)
	}

	return out
}

// setBufferDefault resets text buffers to configured default sizes and recomputes offsets.
func (d *Data) setBufferDefault(opts *Options) {
	d.DescBuffer = opts.DescBuffer
	d.JSONBuffer = opts.JSONBuffer
	d.TitleBuffer = opts.TitleBuffer
	d.setBufferOffsets()
}

// setBufferOffsets recomputes segment offsets from current buffer sizes.
func (d *Data) setBufferOffsets() {
	d.JSONOffset = d.JpegBuffer + jpegSegmentPrefix
	d.TitleOffset = d.JSONOffset + d.JSONBuffer + textSegmentPrefix
	d.DescOffset = d.TitleOffset + d.TitleBuffer + textSegmentPrefix
	d.EndOfFile = d.DescOffset + d.DescBuffer + jendSuffix
}

// Options configures photo behavior.
type Options struct {
	// Logger receives debug records of parsed and written layouts.
	Logger *zap.Logger `json:"-" yaml:"-" toml:"-"`
	// Parsers are custom format parsers keyed by format identifier.
	Parsers map[Format]FormatParser `json:"-" yaml:"-" toml:"-"`
	// DescBuffer is the description capacity used by Clear and re-target saves.
	DescBuffer uint32 `json:"desc_buffer,omitempty" yaml:"desc_buffer,omitempty" toml:"desc_buffer,omitempty"`
	// JSONBuffer is the JSON capacity used by Clear and re-target saves.
	JSONBuffer uint32 `json:"json_buffer,omitempty" yaml:"json_buffer,omitempty" toml:"json_buffer,omitempty"`
	// TitleBuffer is the title capacity used by Clear and re-target saves.
	TitleBuffer uint32 `json:"title_buffer,omitempty" yaml:"title_buffer,omitempty" toml:"title_buffer,omitempty"`
	// Format is the format assigned to new and cleared photos.
	Format Format `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// applyDefaults fills zero-valued options with defaults.
func (opts *Options) applyDefaults() {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if opts.DescBuffer == 0 {
		opts.DescBuffer = DefaultDescBuffer
	}

	if opts.JSONBuffer == 0 {
		opts.JSONBuffer = DefaultJSONBuffer
	}

	if opts.TitleBuffer == 0 {
		opts.TitleBuffer = DefaultTitleBuffer
	}
}

// EditOptions configures file-based photo edit flow.
type EditOptions struct {
	// Options are applied to the photo loaded for editing.
	Options Options `json:"options,omitzero" yaml:"options,omitzero" toml:"options"`
	// Format re-targets the committed file when non-zero.
	Format Format `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	// BackupKeep controls how many backup generations are kept after successful commit.
	// 0 means remove backup, 1 keeps only `<photo>.bak`, N keeps `.bak` + `.bak.1..N-1`.
	BackupKeep int `json:"backup_keep,omitempty" yaml:"backup_keep,omitempty" toml:"backup_keep,omitempty"`
}

// applyDefaults fills zero-valued edit options with defaults.
func (opts *EditOptions) applyDefaults() {
	opts.Options.applyDefaults()

	if opts.BackupKeep < 0 {
		opts.BackupKeep = 0
	}
}

// ExtractOptions configures ExtractJpegs behavior.
type ExtractOptions struct {
	// OnPhotoDone is called after one JPEG is fully written to disk.
	OnPhotoDone func(photoPath string, written int64, outputPath string) `json:"-" yaml:"-" toml:"-"`
	// Options are applied to photos loaded for extraction.
	Options Options `json:"options,omitzero" yaml:"options,omitzero" toml:"options"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty" toml:"file_mode,omitempty"`
	// MaxWorkers is number of extraction workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty" toml:"max_workers,omitempty"`
}

// ExtractFileMode controls output file open behavior during JPEG extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeAuto first tries create-only, then falls back to truncate for existing files.
	ExtractFileModeAuto ExtractFileMode = "auto"
	// ExtractFileModeOverwriteSmart rewrites files in place and truncates only when existing file is larger.
	ExtractFileModeOverwriteSmart ExtractFileMode = "overwrite_smart"
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)
