// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/woozymasta/pathrules"
	"golang.org/x/exp/maps"
)

// metadataPathSeparator joins nested JSON keys into matcher paths.
const metadataPathSeparator = "/"

// Metadata decodes JSON metadata into a generic object.
// Numbers are kept as json.Number to preserve 64-bit values such as sign.
func (p *Photo) Metadata() (map[string]any, error) {
	if p == nil {
		return nil, ErrNilPhoto
	}

	return decodeMetadata(p.data.JSON)
}

// MetadataPaths returns sorted slash-joined paths of all JSON metadata keys.
// Object keys are listed together with their nested keys.
func (p *Photo) MetadataPaths() ([]string, error) {
	meta, err := p.Metadata()
	if err != nil {
		return nil, err
	}

	var out []string
	collectMetadataPaths(meta, "", &out)
	slices.Sort(out)
	return out, nil
}

// StripJSON removes JSON metadata keys excluded by rules.
// Rules match slash-joined key paths such as "loc/x"; unmatched keys are kept.
func (p *Photo) StripJSON(rules []pathrules.Rule) error {
	if err := p.checkOpen(); err != nil {
		return err
	}

	matcher, err := newMetadataMatcher(rules)
	if err != nil {
		return err
	}

	if matcher == nil || p.data.JSON == "" {
		return nil
	}

	out, err := stripJSONObject(p.data.JSON, "", matcher)
	if err != nil {
		return err
	}

	p.SetJSON(out)
	return nil
}

// decodeMetadata decodes a JSON object; empty text is an empty object.
func decodeMetadata(text string) (map[string]any, error) {
	out := make(map[string]any)
	if text == "" {
		return out, nil
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return out, nil
}

// collectMetadataPaths appends key paths of obj under prefix in sorted key order.
func collectMetadataPaths(obj map[string]any, prefix string, out *[]string) {
	keys := maps.Keys(obj)
	slices.Sort(keys)

	for _, key := range keys {
		path := prefix + key
		*out = append(*out, path)
		if nested, ok := obj[key].(map[string]any); ok {
			collectMetadataPaths(nested, path+metadataPathSeparator, out)
		}
	}
}

// metadataMatcher holds compiled rules for JSON key paths.
type metadataMatcher struct {
	matcher *pathrules.Matcher
}

// newMetadataMatcher compiles key path rules. Empty rule set returns nil matcher.
func newMetadataMatcher(rules []pathrules.Rule) (*metadataMatcher, error) {
	rules = normalizeMetadataRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		DefaultAction: pathrules.ActionInclude,
	})
	if err != nil {
		return nil, fmt.Errorf("compile metadata rules: %w", err)
	}

	return &metadataMatcher{matcher: matcher}, nil
}

// normalizeMetadataRules trims patterns and drops empty ones.
func normalizeMetadataRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Keep reports whether key path survives the rules.
func (m *metadataMatcher) Keep(path string, object bool) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	return m.matcher.Included(path, object)
}

// stripJSONObject removes excluded members of a JSON object recursively,
// keeping member order.
func stripJSONObject(text string, prefix string, m *metadataMatcher) (string, error) {
	fields, err := decodeJSONFields(text)
	if err != nil {
		return "", err
	}

	kept := fields[:0]
	for _, field := range fields {
		path := prefix + field.key
		object := isJSONObject(field.value)
		if !m.Keep(path, object) {
			continue
		}

		if object {
			nested, err := stripJSONObject(string(field.value), path+metadataPathSeparator, m)
			if err != nil {
				return "", err
			}
			field.value = json.RawMessage(nested)
		}

		kept = append(kept, field)
	}

	return encodeJSONFields(kept)
}

// isJSONObject reports whether raw holds a JSON object.
func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
