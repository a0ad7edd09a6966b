// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"fmt"
	"strconv"
	"strings"
)

// Format is the 4-byte photo format identifier (stored little-endian).
type Format uint32

// Known photo formats.
const (
	// FormatUnknown is the zero format of an empty photo.
	FormatUnknown Format = 0
	// FormatGTA5 is the GTA V photo format.
	FormatGTA5 Format = 0x01000000
	// FormatRDR2 is the RDR 2 photo format.
	FormatRDR2 Format = 0x04000000
)

// String returns a short format name.
func (f Format) String() string {
	switch f {
	case FormatGTA5:
		return "GTA5"
	case FormatRDR2:
		return "RDR2"
	case FormatUnknown:
		return "unknown"
	default:
		return "0x" + strconv.FormatUint(uint64(f), 16)
	}
}

// ParseFormat parses format name ("gta5", "rdr2") or numeric identifier.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gta5", "gtav", "gta v":
		return FormatGTA5, nil
	case "rdr2", "rdr 2":
		return FormatRDR2, nil
	}

	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return FormatUnknown, fmt.Errorf("parse format %q: %w", s, err)
	}

	return Format(v), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case FormatGTA5, FormatRDR2:
		return []byte(strings.ToLower(f.String())), nil
	default:
		return []byte(strconv.FormatUint(uint64(f), 10)), nil
	}
}

// Supported reports whether f is handled by the built-in codec.
func (f Format) Supported() bool {
	return f == FormatGTA5 || f == FormatRDR2
}

// HeaderSize returns the header region size, or zero for unsupported formats.
func (f Format) HeaderSize() int {
	switch f {
	case FormatGTA5:
		return GTA5HeaderSize
	case FormatRDR2:
		return RDR2HeaderSize
	default:
		return 0
	}
}

// DefaultPhotoBuffer returns the default JPEG capacity, or zero for unsupported formats.
func (f Format) DefaultPhotoBuffer() uint32 {
	switch f {
	case FormatGTA5:
		return DefaultGTA5PhotoBuffer
	case FormatRDR2:
		return DefaultRDR2PhotoBuffer
	default:
		return 0
	}
}

// SignInitial returns JOAAT initial value for photo sign, and false for unsupported formats.
func (f Format) SignInitial() (uint32, bool) {
	switch f {
	case FormatGTA5:
		return SignInitialGTA5, true
	case FormatRDR2:
		return SignInitialRDR2, true
	default:
		return 0, false
	}
}

// detectFormat reads the leading format identifier.
func detectFormat(data []byte) (Format, PhotoError) {
	r := byteReader{buf: data}
	id, ok := r.uint32()
	if !ok {
		return FormatUnknown, NoFormatIdentifier
	}

	return Format(id), NoError
}

// DetectFormat reports the format identifier of a photo buffer without parsing it.
func DetectFormat(data []byte) (Format, error) {
	f, code := detectFormat(data)
	if code != NoError {
		return FormatUnknown, code
	}

	if !f.Supported() {
		return f, NoFormatIdentifier
	}

	return f, nil
}
