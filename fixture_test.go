package ragephoto

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"
)

// photoFixture lays out a photo file byte by byte, independently of the codec.
type photoFixture struct {
	header      string
	json        string
	title       string
	desc        string
	jpeg        []byte
	format      Format
	sum         uint32
	sum2        uint32
	check       uint32
	jpegBuffer  uint32
	jsonBuffer  uint32
	titleBuffer uint32
	descBuffer  uint32
}

// newFixture returns a small valid photo fixture for format.
func newFixture(format Format) photoFixture {
	return photoFixture{
		format:      format,
		header:      "PHOTO - 10/17/26 12:00:00",
		sum:         0x11223344,
		sum2:        0x55667788,
		jpeg:        sampleJpeg(64),
		jpegBuffer:  1024,
		json:        `{"loc":{"x":1.5,"y":2,"z":3},"area":"SANAND","sign":0}`,
		jsonBuffer:  512,
		title:       "Sunset",
		titleBuffer: 64,
		desc:        "",
		descBuffer:  64,
	}
}

// headerSize returns fixture header region size.
func (f photoFixture) headerSize() int {
	if f.format == FormatRDR2 {
		return RDR2HeaderSize
	}

	return GTA5HeaderSize
}

// offsets returns fixture offsets relative to header end.
func (f photoFixture) offsets() (jsonOffset, titleOffset, descOffset, endOfFile uint32) {
	jsonOffset = f.jpegBuffer + 28
	titleOffset = jsonOffset + f.jsonBuffer + 8
	descOffset = titleOffset + f.titleBuffer + 8
	endOfFile = descOffset + f.descBuffer + 12
	return jsonOffset, titleOffset, descOffset, endOfFile
}

// bytes encodes fixture.
func (f photoFixture) bytes() []byte {
	var buf bytes.Buffer
	u32 := func(v uint32) {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	padded := func(content []byte, size uint32) {
		buf.Write(content)
		if pad := int(size) - len(content); pad > 0 {
			buf.Write(make([]byte, pad))
		}
	}

	u32(uint32(f.format))
	var text []byte
	for _, unit := range utf16.Encode([]rune(f.header)) {
		text = binary.LittleEndian.AppendUint16(text, unit)
	}
	padded(text, 256)
	u32(f.sum)
	if f.format == FormatRDR2 {
		u32(f.check)
		u32(f.sum2)
	}

	jsonOffset, titleOffset, descOffset, endOfFile := f.offsets()
	u32(endOfFile)
	u32(jsonOffset)
	u32(titleOffset)
	u32(descOffset)

	buf.WriteString("JPEG")
	u32(f.jpegBuffer)
	u32(uint32(len(f.jpeg)))
	padded(f.jpeg, f.jpegBuffer)

	buf.WriteString("JSON")
	u32(f.jsonBuffer)
	padded([]byte(f.json), f.jsonBuffer)

	buf.WriteString("TITL")
	u32(f.titleBuffer)
	padded([]byte(f.title), f.titleBuffer)

	buf.WriteString("DESC")
	u32(f.descBuffer)
	padded([]byte(f.desc), f.descBuffer)

	buf.WriteString("JEND")
	return buf.Bytes()
}

// sampleJpeg returns a deterministic JPEG-like payload of n bytes (n >= 4).
func sampleJpeg(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i*31 + 7)
	}

	out[0], out[1] = 0xFF, 0xD8
	out[n-2], out[n-1] = 0xFF, 0xD9
	return out
}

// mustParse loads data into a new photo and fails the test on error.
func mustParse(tb testing.TB, data []byte) *Photo {
	tb.Helper()

	p, err := Parse(data)
	if err != nil {
		tb.Fatalf("Parse: %v", err)
	}

	return p
}

// putUint32At overwrites a little-endian uint32 at off in a copy of data.
func putUint32At(data []byte, off int, v uint32) []byte {
	out := bytes.Clone(data)
	binary.LittleEndian.PutUint32(out[off:], v)
	return out
}
