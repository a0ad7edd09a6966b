// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"errors"
	"strconv"
)

// PhotoError is the result code of the last photo operation.
// It implements error, so a returned code can be matched with errors.Is.
type PhotoError uint8

// Photo result codes. Values are stable and match the numbering used by
// existing RAGE Photo tooling.
const (
	// Uninitialised means no operation ran yet (or file access failed).
	Uninitialised PhotoError = 0
	// NoFormatIdentifier means no known format identifier was found.
	NoFormatIdentifier PhotoError = 1
	// IncompatibleFormat means the format is recognized but not supported.
	IncompatibleFormat PhotoError = 2
	// IncompleteHeader means the header region is truncated or missing.
	IncompleteHeader PhotoError = 3
	// HeaderMallocError means the header buffer can't be allocated.
	HeaderMallocError PhotoError = 4
	// UnicodeInitError means the Unicode codec can't be initialised.
	UnicodeInitError PhotoError = 5
	// UnicodeHeaderError means the header text can't be encoded or decoded.
	UnicodeHeaderError PhotoError = 6
	// IncompleteChecksum means a header checksum is truncated.
	IncompleteChecksum PhotoError = 7
	// IncompleteEOF means the end of file offset is truncated or beyond data.
	IncompleteEOF PhotoError = 8
	// IncompleteJSONOffset means the JSON offset is truncated or beyond data.
	IncompleteJSONOffset PhotoError = 9
	// IncompleteTitleOffset means the title offset is truncated or beyond data.
	IncompleteTitleOffset PhotoError = 10
	// IncompleteDescOffset means the description offset is truncated or beyond data.
	IncompleteDescOffset PhotoError = 11
	// IncompleteJpegMarker means the JPEG marker is truncated.
	IncompleteJpegMarker PhotoError = 12
	// IncorrectJpegMarker means the JPEG marker is wrong.
	IncorrectJpegMarker PhotoError = 13
	// IncompletePhotoBuffer means the photo buffer size is truncated or invalid.
	IncompletePhotoBuffer PhotoError = 14
	// IncompletePhotoSize means the photo size is truncated.
	IncompletePhotoSize PhotoError = 15
	// PhotoMallocError means the photo buffer can't be allocated.
	PhotoMallocError PhotoError = 16
	// PhotoReadError means the photo can't be read completely.
	PhotoReadError PhotoError = 17
	// IncompleteJSONMarker means the JSON marker is truncated.
	IncompleteJSONMarker PhotoError = 18
	// IncorrectJSONMarker means the JSON marker is wrong.
	IncorrectJSONMarker PhotoError = 19
	// IncompleteJSONBuffer means the JSON buffer size is truncated or zero.
	IncompleteJSONBuffer PhotoError = 20
	// JSONMallocError means the JSON buffer can't be allocated.
	JSONMallocError PhotoError = 21
	// JSONReadError means the JSON can't be read completely.
	JSONReadError PhotoError = 22
	// IncompleteTitleMarker means the title marker is truncated.
	IncompleteTitleMarker PhotoError = 23
	// IncorrectTitleMarker means the title marker is wrong.
	IncorrectTitleMarker PhotoError = 24
	// IncompleteTitleBuffer means the title buffer size is truncated or zero.
	IncompleteTitleBuffer PhotoError = 25
	// TitleMallocError means the title buffer can't be allocated.
	TitleMallocError PhotoError = 26
	// TitleReadError means the title can't be read completely.
	TitleReadError PhotoError = 27
	// IncompleteDescMarker means the description marker is truncated.
	IncompleteDescMarker PhotoError = 28
	// IncorrectDescMarker means the description marker is wrong.
	IncorrectDescMarker PhotoError = 29
	// IncompleteDescBuffer means the description buffer size is truncated or zero.
	IncompleteDescBuffer PhotoError = 30
	// DescMallocError means the description buffer can't be allocated.
	DescMallocError PhotoError = 31
	// DescReadError means the description can't be read completely.
	DescReadError PhotoError = 32
	// IncompleteJendMarker means the JEND marker is truncated.
	IncompleteJendMarker PhotoError = 33
	// IncorrectJendMarker means the JEND marker is wrong.
	IncorrectJendMarker PhotoError = 34
	// HeaderBufferTight means the encoded header text exceeds its region.
	HeaderBufferTight PhotoError = 35
	// PhotoBufferTight means the JPEG exceeds its declared buffer.
	PhotoBufferTight PhotoError = 36
	// JSONBufferTight means the JSON exceeds its declared buffer.
	JSONBufferTight PhotoError = 37
	// TitleBufferTight means the title exceeds its declared buffer.
	TitleBufferTight PhotoError = 38
	// DescBufferTight means the description exceeds its declared buffer.
	DescBufferTight PhotoError = 39
	// NoError means the last operation finished without errors.
	NoError PhotoError = 255
)

var photoErrorNames = map[PhotoError]string{
	Uninitialised:         "Uninitialised",
	NoFormatIdentifier:    "NoFormatIdentifier",
	IncompatibleFormat:    "IncompatibleFormat",
	IncompleteHeader:      "IncompleteHeader",
	HeaderMallocError:     "HeaderMallocError",
	UnicodeInitError:      "UnicodeInitError",
	UnicodeHeaderError:    "UnicodeHeaderError",
	IncompleteChecksum:    "IncompleteChecksum",
	IncompleteEOF:         "IncompleteEOF",
	IncompleteJSONOffset:  "IncompleteJsonOffset",
	IncompleteTitleOffset: "IncompleteTitleOffset",
	IncompleteDescOffset:  "IncompleteDescOffset",
	IncompleteJpegMarker:  "IncompleteJpegMarker",
	IncorrectJpegMarker:   "IncorrectJpegMarker",
	IncompletePhotoBuffer: "IncompletePhotoBuffer",
	IncompletePhotoSize:   "IncompletePhotoSize",
	PhotoMallocError:      "PhotoMallocError",
	PhotoReadError:        "PhotoReadError",
	IncompleteJSONMarker:  "IncompleteJsonMarker",
	IncorrectJSONMarker:   "IncorrectJsonMarker",
	IncompleteJSONBuffer:  "IncompleteJsonBuffer",
	JSONMallocError:       "JsonMallocError",
	JSONReadError:         "JsonReadError",
	IncompleteTitleMarker: "IncompleteTitleMarker",
	IncorrectTitleMarker:  "IncorrectTitleMarker",
	IncompleteTitleBuffer: "IncompleteTitleBuffer",
	TitleMallocError:      "TitleMallocError",
	TitleReadError:        "TitleReadError",
	IncompleteDescMarker:  "IncompleteDescMarker",
	IncorrectDescMarker:   "IncorrectDescMarker",
	IncompleteDescBuffer:  "IncompleteDescBuffer",
	DescMallocError:       "DescMallocError",
	DescReadError:         "DescReadError",
	IncompleteJendMarker:  "IncompleteJendMarker",
	IncorrectJendMarker:   "IncorrectJendMarker",
	HeaderBufferTight:     "HeaderBufferTight",
	PhotoBufferTight:      "PhotoBufferTight",
	JSONBufferTight:       "JsonBufferTight",
	TitleBufferTight:      "TitleBufferTight",
	DescBufferTight:       "DescBufferTight",
	NoError:               "NoError",
}

// String returns the code name, or the numeric value for unknown codes.
func (e PhotoError) String() string {
	if name, ok := photoErrorNames[e]; ok {
		return name
	}

	return "PhotoError(" + strconv.Itoa(int(e)) + ")"
}

// Error implements error.
func (e PhotoError) Error() string {
	return "ragephoto: " + e.String()
}

// OK reports whether the code is NoError.
func (e PhotoError) OK() bool {
	return e == NoError
}

// Sentinel errors outside the photo result code taxonomy. Use errors.Is in callers.
var (
	// ErrClosed means the photo was already closed.
	ErrClosed = errors.New("photo already closed")
	// ErrNilPhoto means the photo is nil.
	ErrNilPhoto = errors.New("photo is nil")
	// ErrNilParser means a nil format parser was registered.
	ErrNilParser = errors.New("format parser is nil")
	// ErrBufferLength means a caller buffer does not match the save size.
	ErrBufferLength = errors.New("buffer length does not match save size")
	// ErrInvalidPath means a file path is empty.
	ErrInvalidPath = errors.New("invalid photo path")
	// ErrNoJpeg means the photo has no JPEG payload to extract.
	ErrNoJpeg = errors.New("photo has no JPEG payload")
	// ErrInvalidJSON means the JSON metadata is not a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON metadata")
)

// photoErrorOf extracts a PhotoError from err, falling back to fallback.
func photoErrorOf(err error, fallback PhotoError) PhotoError {
	var pe PhotoError
	if errors.As(err, &pe) {
		return pe
	}

	return fallback
}
