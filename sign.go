// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// signPrefix is OR-ed into every photo sign.
const signPrefix uint64 = 0x0100000000000000

// signKey is the JSON metadata field holding the photo sign.
const signKey = "sign"

// joaat returns Jenkins one-at-a-time hash of data seeded with initial.
// Bytes are accumulated as signed values, matching the games.
func joaat(data []byte, initial uint32) uint32 {
	val := initial
	for _, b := range data {
		val += uint32(int32(int8(b))) //nolint:gosec // sign extension is intended
		val += val << 10
		val ^= val >> 6
	}

	val += val << 3
	val ^= val >> 11
	val += val << 15
	return val
}

// Sign returns photo sign for the document format.
func (p *Photo) Sign() uint64 {
	if p == nil {
		return 0
	}

	return p.SignFormat(p.Format())
}

// SignFormat returns photo sign for format, or zero when there is no JPEG
// or format has no sign initial value.
func (p *Photo) SignFormat(format Format) uint64 {
	if p == nil || p.data.Jpeg == nil {
		return 0
	}

	initial, ok := format.SignInitial()
	if !ok {
		return 0
	}

	return signPrefix | uint64(joaat(p.data.Jpeg, initial))
}

// UpdateSign rewrites the "sign" field of JSON metadata with the current
// photo sign. Other fields keep their order; output is compact.
func (p *Photo) UpdateSign() error {
	if p == nil {
		return ErrNilPhoto
	}

	return p.UpdateSignFormat(p.Format())
}

// UpdateSignFormat rewrites the "sign" field with the photo sign for format.
func (p *Photo) UpdateSignFormat(format Format) error {
	if err := p.checkOpen(); err != nil {
		return err
	}

	sign := strconv.FormatUint(p.SignFormat(format), 10)
	out, err := setJSONField(p.data.JSON, signKey, json.RawMessage(sign))
	if err != nil {
		return err
	}

	p.SetJSON(out)
	return nil
}

// jsonField is one top-level member of a JSON object.
type jsonField struct {
	key   string
	value json.RawMessage
}

// decodeJSONFields decodes a JSON object into ordered top-level members.
func decodeJSONFields(text string) ([]jsonField, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidJSON)
	}

	var fields []jsonField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrInvalidJSON, tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidJSON, key, err)
		}

		fields = append(fields, jsonField{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}

	return fields, nil
}

// encodeJSONFields writes ordered members as a compact JSON object.
func encodeJSONFields(fields []jsonField) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(field.key)
		if err != nil {
			return "", fmt.Errorf("encode JSON key %q: %w", field.key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		if err := json.Compact(&buf, field.value); err != nil {
			return "", fmt.Errorf("encode JSON field %q: %w", field.key, err)
		}
	}
	buf.WriteByte('}')

	return buf.String(), nil
}

// setJSONField sets top-level key to value, appending it when absent.
// Empty text is treated as an empty object.
func setJSONField(text string, key string, value json.RawMessage) (string, error) {
	var fields []jsonField
	if text != "" {
		var err error
		if fields, err = decodeJSONFields(text); err != nil {
			return "", err
		}
	}

	replaced := false
	for i := range fields {
		if fields[i].key == key {
			fields[i].value = value
			replaced = true
		}
	}

	if !replaced {
		fields = append(fields, jsonField{key: key, value: value})
	}

	return encodeJSONFields(fields)
}
