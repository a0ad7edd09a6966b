// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

package ragephoto

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment keys read by ReadOptionsEnv.
const (
	EnvFormat      = "RAGEPHOTO_FORMAT"
	EnvDescBuffer  = "RAGEPHOTO_DESC_BUFFER"
	EnvJSONBuffer  = "RAGEPHOTO_JSON_BUFFER"
	EnvTitleBuffer = "RAGEPHOTO_TITLE_BUFFER"
)

// DecodeOptions decodes Options from TOML.
//
//	format = "gta5"
//	json_buffer = 4096
func DecodeOptions(r io.Reader) (Options, error) {
	var opts Options
	if _, err := toml.NewDecoder(r).Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}

	return opts, nil
}

// DecodeEditOptions decodes EditOptions from TOML.
// Photo options live in the [options] table.
func DecodeEditOptions(r io.Reader) (EditOptions, error) {
	var opts EditOptions
	if _, err := toml.NewDecoder(r).Decode(&opts); err != nil {
		return EditOptions{}, fmt.Errorf("decode edit options: %w", err)
	}

	return opts, nil
}

// EncodeOptions writes Options as TOML.
func EncodeOptions(w io.Writer, opts Options) error {
	if err := toml.NewEncoder(w).Encode(opts); err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	return nil
}

// ReadOptionsFile reads TOML Options from path.
func ReadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("open options file: %w", err)
	}
	defer func() { _ = f.Close() }()

	opts, err := DecodeOptions(f)
	if err != nil {
		return Options{}, fmt.Errorf("reading options from %s: %w", path, err)
	}

	return opts, nil
}

// ReadOptionsEnv reads Options from dotenv files (".env" when none given).
// Process environment variables override file values.
func ReadOptionsEnv(filenames ...string) (Options, error) {
	env, err := godotenv.Read(filenames...)
	if err != nil {
		return Options{}, fmt.Errorf("read env options: %w", err)
	}

	for _, key := range [...]string{EnvFormat, EnvDescBuffer, EnvJSONBuffer, EnvTitleBuffer} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}

	return optionsFromEnv(env)
}

// optionsFromEnv converts environment map values to Options.
func optionsFromEnv(env map[string]string) (Options, error) {
	var opts Options
	if v := strings.TrimSpace(env[EnvFormat]); v != "" {
		format, err := ParseFormat(v)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", EnvFormat, err)
		}
		opts.Format = format
	}

	buffers := [...]struct {
		dst *uint32
		key string
	}{
		{&opts.DescBuffer, EnvDescBuffer},
		{&opts.JSONBuffer, EnvJSONBuffer},
		{&opts.TitleBuffer, EnvTitleBuffer},
	}
	for _, b := range buffers {
		v := strings.TrimSpace(env[b.key])
		if v == "" {
			continue
		}

		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", b.key, err)
		}
		*b.dst = uint32(n)
	}

	return opts, nil
}
