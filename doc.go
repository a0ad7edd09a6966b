// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ragephoto

/*
Package ragephoto reads, edits, and writes RAGE photo files: the snapshot
containers saved by GTA V (PGTA5 files) and RDR 2 (PRDR3 files). A photo
holds a UTF-16 header, a JPEG image, JSON metadata, a title, and a
description, each stored in a fixed-capacity segment.

Layout (all integers little-endian uint32, offsets relative to header end):
  - format identifier, 256-byte UTF-16LE header text, header checksum;
  - RDR 2 only: zero format-check word and second header checksum;
  - end of file, JSON, title, and description offsets;
  - JPEG, JSON, TITL, DESC segments (marker, capacity, zero padded content);
  - JEND marker.

# Reading

Parse a photo file and read its fields:

	p, err := ragephoto.Open("PGTA5123456789")
	if err != nil {
	    return err
	}
	defer p.Close()
	fmt.Println(p.Format(), p.Title(), p.JpegSize())

Load reports the first structural anomaly as a PhotoError, which is also
kept as the sticky result code:

	err := p.Load(data)
	var code ragephoto.PhotoError
	if errors.As(err, &code) {
	    fmt.Println("bad photo:", code)
	}

A failed load keeps the previous document.

# Writing

Saving in the document format keeps stored segment capacities, so an
unmodified photo is written back byte-exact:

	out, err := p.Save()

Saving in another format re-targets capacities to that format defaults,
grown to fit the content:

	err := p.SaveFileFormat("PRDR3123456789", ragephoto.FormatRDR2)

Plain setters grow capacity to fit; Buffer variants set an explicit
capacity, and Save then reports JsonBufferTight and friends on overflow:

	p.SetTitle("Sunset")
	p.SetJSONBuffer(meta, 4096)

# Sign and metadata

Photo sign is the JOAAT hash of the JPEG with a per-format seed. UpdateSign
writes it into the "sign" field of JSON metadata:

	if err := p.UpdateSign(); err != nil {
	    return err
	}

StripJSON removes metadata keys by path rules over slash-joined key paths:

	err := p.StripJSON([]pathrules.Rule{
	    {Action: pathrules.ActionExclude, Pattern: "loc"},
	})

# Editing files

Editor stages operations and commits them with backup rotation:

	ed, err := ragephoto.OpenEditor("PGTA5123456789", ragephoto.EditOptions{BackupKeep: 1})
	if err != nil {
	    return err
	}
	_ = ed.SetTitle("Sunset")
	_ = ed.UpdateSign()
	res, err := ed.Commit(ctx)
	if err != nil {
	    return err
	}
	_ = res

# Extracting JPEGs

ExtractJpeg writes one photo image; ExtractJpegs extracts many photo files
into a directory in parallel, naming outputs after the source files:

	err := ragephoto.ExtractJpegs(ctx, paths, "out", ragephoto.ExtractOptions{
	    FileMode: ragephoto.ExtractFileModeCreateOnly,
	})

# Options

Options can come from code, TOML (DecodeOptions, ReadOptionsFile), or
dotenv files (ReadOptionsEnv). Set Options.Logger to a zap logger to get
debug records of parsed and written layouts.
*/
package ragephoto
