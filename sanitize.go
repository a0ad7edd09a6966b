// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"fmt"
	"hash/fnv"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSanitizedNameLen limits one file name to common filesystem-safe length.
const maxSanitizedNameLen = 240

// reservedDeviceNames contains case-insensitive reserved Windows device names.
var reservedDeviceNames = map[string]struct{}{
	"aux": {}, "con": {}, "nul": {}, "prn": {}, "clock$": {}, "conin$": {}, "conout$": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// SanitizeFileName rewrites photo titles and file names to one deterministic
// filesystem-safe name. Path separators are replaced, never followed.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isUnsafeNameRune(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			b.WriteRune('_')
			continue
		}

		b.WriteRune(r)
	}

	sanitized := strings.TrimRight(b.String(), ". ")
	if sanitized == "" {
		return "_"
	}

	if isReservedDeviceName(sanitized) {
		sanitized = "_" + sanitized
	}

	return shortenNameDeterministic(sanitized, maxSanitizedNameLen)
}

// isUnsafeNameRune reports whether rune is unsafe in file names and should be replaced.
func isUnsafeNameRune(r rune) bool {
	if unicode.IsControl(r) || unicode.In(r, unicode.Cf) {
		return true
	}

	// U+FFFD appears when photo titles carry invalid UTF-8.
	return r == '\uFFFD'
}

// isReservedDeviceName reports whether name, without extension, is a reserved device name.
func isReservedDeviceName(name string) bool {
	candidate := strings.ToLower(strings.TrimSpace(name))
	if dot := strings.IndexByte(candidate, '.'); dot >= 0 {
		candidate = candidate[:dot]
	}

	_, ok := reservedDeviceNames[strings.TrimRight(candidate, " ")]
	return ok
}

// uniqueNames resolves case-insensitive name collisions within one output directory.
type uniqueNames struct {
	used       map[string]struct{}
	nextSuffix map[string]int
}

// newUniqueNames returns an empty name registry.
func newUniqueNames() *uniqueNames {
	return &uniqueNames{
		used:       make(map[string]struct{}),
		nextSuffix: make(map[string]int),
	}
}

// claim returns name, or name with a "~N" suffix when already taken.
func (u *uniqueNames) claim(name string) (string, error) {
	key := strings.ToLower(name)
	if _, exists := u.used[key]; !exists {
		u.used[key] = struct{}{}
		return name, nil
	}

	startIdx := max(u.nextSuffix[key], 2)
	for idx := startIdx; idx < 1000000; idx++ {
		candidate := withNumericSuffix(name, idx)
		candidateKey := strings.ToLower(candidate)
		if _, exists := u.used[candidateKey]; exists {
			continue
		}

		u.used[candidateKey] = struct{}{}
		u.nextSuffix[key] = idx + 1
		return candidate, nil
	}

	return "", fmt.Errorf("%w: no free name for %q", ErrInvalidPath, name)
}

// withNumericSuffix appends "~N" before extension and preserves max name length.
func withNumericSuffix(name string, n int) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	suffix := "~" + strconv.Itoa(n)
	allowedBaseLen := max(maxSanitizedNameLen-len(ext)-len(suffix), 1)

	return shortenNameDeterministic(base, allowedBaseLen) + suffix + ext
}

// shortenNameDeterministic shortens long name keeping a stable hash suffix.
func shortenNameDeterministic(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	if maxLen <= 10 {
		return value[:runeBoundary(value, maxLen)]
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	hashPart := fmt.Sprintf("~%08x", h.Sum32())
	prefixLen := max(maxLen-len(hashPart), 1)

	return value[:runeBoundary(value, prefixLen)] + hashPart
}

// runeBoundary returns the largest cut index <= n that does not split a rune.
func runeBoundary(value string, n int) int {
	for n > 0 && n < len(value) && !utf8.RuneStart(value[n]) {
		n--
	}

	return n
}
