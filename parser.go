// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

// FormatParser handles a photo format the built-in codec does not know.
// Returned errors that are PhotoError values become the sticky result code;
// other errors are recorded as IncompatibleFormat.
type FormatParser interface {
	// Load parses data into d. d is a fresh staging snapshot.
	Load(d *Data, data []byte) error
	// SaveSize returns exact output length of d in format.
	SaveSize(d *Data, format Format) int
	// Save writes d into dst, which has exactly SaveSize bytes.
	Save(d *Data, dst []byte, format Format) error
}

// AddParser registers a custom parser for format on this photo.
// Built-in formats can't be overridden.
func (p *Photo) AddParser(format Format, parser FormatParser) error {
	if p == nil {
		return ErrNilPhoto
	}

	if parser == nil {
		return ErrNilParser
	}

	if format.Supported() {
		return IncompatibleFormat
	}

	p.init()
	if p.opts.Parsers == nil {
		p.opts.Parsers = make(map[Format]FormatParser, 1)
	}

	p.opts.Parsers[format] = parser
	return nil
}

// parserFor returns the registered parser for format.
func (p *Photo) parserFor(format Format) (FormatParser, bool) {
	if format.Supported() || p.opts.Parsers == nil {
		return nil, false
	}

	parser, ok := p.opts.Parsers[format]
	return parser, ok && parser != nil
}
