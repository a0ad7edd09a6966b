// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// headerTextCodec converts header text between UTF-8 and on-disk UTF-16LE.
var headerTextCodec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// readHeader parses header text and checksums after the format identifier.
// RDR 2 headers carry a zero format-check word and a second checksum.
func readHeader(r *byteReader, d *Data) PhotoError {
	raw, ok := r.bytes(headerTextSize)
	if !ok {
		return IncompleteHeader
	}

	text, code := decodeHeaderText(raw)
	if code != NoError {
		return code
	}

	d.Header = text
	d.HasHeader = true

	if d.HeaderSum, ok = r.uint32(); !ok {
		return IncompleteChecksum
	}

	if d.Format != FormatRDR2 {
		return NoError
	}

	check, ok := r.uint32()
	if !ok {
		return IncompleteChecksum
	}
	if check != 0 {
		return IncompatibleFormat
	}

	if d.HeaderSum2, ok = r.uint32(); !ok {
		return IncompleteChecksum
	}

	return NoError
}

// writeHeader writes the full header region for format.
// text must come from encodeHeaderText.
func writeHeader(w *byteWriter, d *Data, format Format, text []byte) {
	w.putUint32(uint32(format))
	w.put(text)
	w.zero(headerTextSize - len(text))
	w.putUint32(d.HeaderSum)

	if format == FormatRDR2 {
		w.putUint32(0)
		w.putUint32(d.HeaderSum2)
	}
}

// decodeHeaderText decodes NUL-terminated UTF-16LE header text.
func decodeHeaderText(raw []byte) (string, PhotoError) {
	end := len(raw) &^ 1
	for i := 0; i+1 < end; i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			end = i
			break
		}
	}

	if !validUTF16LE(raw[:end]) {
		return "", UnicodeHeaderError
	}

	out, err := headerTextCodec.NewDecoder().Bytes(raw[:end])
	if err != nil {
		return "", UnicodeHeaderError
	}

	return string(out), NoError
}

// encodeHeaderText encodes header text to UTF-16LE bounded by the header text region.
func encodeHeaderText(text string) ([]byte, PhotoError) {
	if !utf8.ValidString(text) {
		return nil, UnicodeHeaderError
	}

	out, err := headerTextCodec.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, UnicodeHeaderError
	}

	if len(out) > headerTextSize {
		return nil, HeaderBufferTight
	}

	return out, NoError
}

// validUTF16LE reports whether raw holds only well-paired surrogates.
func validUTF16LE(raw []byte) bool {
	for i := 0; i+1 < len(raw); i += 2 {
		u := le.Uint16(raw[i:])
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+3 >= len(raw) {
				return false
			}

			next := le.Uint16(raw[i+2:])
			if next < 0xDC00 || next >= 0xE000 {
				return false
			}

			i += 2
		case u >= 0xDC00 && u < 0xE000:
			return false
		}
	}

	return true
}
