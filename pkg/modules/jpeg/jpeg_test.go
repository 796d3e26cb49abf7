// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jpeg

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/willp-bl/jhove/pkg/jhove"
)

func segment(marker uint16, body []byte) []byte {
	out := []byte{byte(marker >> 8), byte(marker)}
	length := len(body) + 2
	out = append(out, byte(length>>8), byte(length))
	return append(out, body...)
}

func minimalJPEG() []byte {
	var b []byte
	b = append(b, 0xff, 0xd8) // SOI

	jfif := append([]byte("JFIF\x00"), 0x01, 0x02, 0x01, 0x00, 0x48, 0x00, 0x48, 0x00, 0x00)
	b = append(b, segment(markerAPP0, jfif)...)

	// SOF0: precision 8, 16x32, one component.
	sof := []byte{8, 0x00, 0x10, 0x00, 0x20, 1, 0x01, 0x11, 0x00}
	b = append(b, segment(0xffc0, sof)...)

	b = append(b, segment(markerCOM, []byte("hello"))...)

	// SOS: one component, then a little entropy-coded data with a stuffed
	// 0xFF00 before the EOI.
	sos := []byte{1, 0x01, 0x00, 0x00, 0x3f, 0x00}
	b = append(b, segment(markerSOS, sos)...)
	b = append(b, 0x12, 0x34, 0xff, 0x00, 0x56)
	b = append(b, 0xff, 0xd9) // EOI
	return b
}

func parseJPEG(c *qt.C, m *Module, data []byte) *jhove.RepInfo {
	info := jhove.NewRepInfo("test.jpg")
	m.Reset()
	next, err := m.Parse(bytes.NewReader(data), info, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(next, qt.Equals, 0)
	return info
}

func TestParseMinimalJPEG(t *testing.T) {
	c := qt.New(t)

	info := parseJPEG(c, New(), minimalJPEG())
	c.Assert(info.WellFormed, qt.Equals, jhove.True)
	c.Assert(info.Valid, qt.Equals, jhove.True)
	c.Assert(info.Format, qt.Equals, "JPEG")
	c.Assert(info.MimeType, qt.Equals, "image/jpeg")

	c.Assert(info.FindProperty("ImageWidth").Value, qt.Equals, uint32(32))
	c.Assert(info.FindProperty("ImageLength").Value, qt.Equals, uint32(16))
	c.Assert(info.FindProperty("Precision").Value, qt.Equals, uint32(8))
	c.Assert(info.FindProperty("NumComponents").Value, qt.Equals, uint32(1))
	c.Assert(info.FindProperty("CompressionType").Value, qt.Equals, "baseline sequential DCT")
	c.Assert(info.FindProperty("JFIFVersion").Value, qt.Equals, "1.02")
	c.Assert(info.FindProperty("NumScans").Value, qt.Equals, uint32(1))
	c.Assert(info.FindProperty("Comments").Value, qt.DeepEquals, []string{"hello"})

	niso, ok := info.FindProperty("NISOImageMetadata").Value.(*jhove.NISOImageMetadata)
	c.Assert(ok, qt.IsTrue)
	c.Assert(niso.ImageWidth, qt.Equals, int64(32))
	c.Assert(niso.ImageLength, qt.Equals, int64(16))
	c.Assert(niso.BitsPerSample, qt.DeepEquals, []int{8})
	// JFIF declared dots-per-inch densities.
	c.Assert(niso.XSamplingFrequency, qt.Equals, jhove.Rational{Num: 72, Den: 1})
}

func TestParseRawMode(t *testing.T) {
	c := qt.New(t)

	m := New()
	m.Raw = true
	info := parseJPEG(c, m, minimalJPEG())
	c.Assert(info.FindProperty("CompressionType").Value, qt.Equals, uint32(0xc0))
}

func TestMissingSOI(t *testing.T) {
	c := qt.New(t)

	info := parseJPEG(c, New(), []byte{0x00, 0x01, 0x02, 0x03})
	c.Assert(info.WellFormed, qt.Equals, jhove.False)
	fatals := info.MessagesBySeverity(jhove.SeverityFatal)
	c.Assert(fatals, qt.HasLen, 1)
	c.Assert(fatals[0].ID, qt.Equals, msgIDInvalidSOI)
}

func TestTruncatedSegment(t *testing.T) {
	c := qt.New(t)

	// SOI plus an APP0 whose declared length exceeds the stream.
	data := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x20, 'J'}
	info := parseJPEG(c, New(), data)
	c.Assert(info.WellFormed, qt.Equals, jhove.False)
	fatals := info.MessagesBySeverity(jhove.SeverityFatal)
	c.Assert(fatals, qt.HasLen, 1)
	c.Assert(fatals[0].ID, qt.Equals, msgIDPrematureEOF)
}

func TestBadSegmentLength(t *testing.T) {
	c := qt.New(t)

	data := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x01}
	info := parseJPEG(c, New(), data)
	c.Assert(info.WellFormed, qt.Equals, jhove.False)
	fatals := info.MessagesBySeverity(jhove.SeverityFatal)
	c.Assert(fatals, qt.HasLen, 1)
	c.Assert(fatals[0].ID, qt.Equals, msgIDInvalidMarker)
}

func TestMissingEOI(t *testing.T) {
	c := qt.New(t)

	data := minimalJPEG()
	data = data[:len(data)-2] // drop the EOI
	info := parseJPEG(c, New(), data)
	c.Assert(info.WellFormed, qt.Equals, jhove.True)
	c.Assert(info.Valid, qt.Equals, jhove.False)
	errs := info.MessagesBySeverity(jhove.SeverityError)
	c.Assert(errs, qt.HasLen, 1)
	c.Assert(errs[0].ID, qt.Equals, msgIDMissingEOI)
	// Characterization from before the break survives.
	c.Assert(info.FindProperty("ImageWidth").Value, qt.Equals, uint32(32))
}

func TestExifProfileDetected(t *testing.T) {
	c := qt.New(t)

	var b []byte
	b = append(b, 0xff, 0xd8)
	b = append(b, segment(markerAPP1, append([]byte("Exif\x00\x00"), 0x49, 0x49))...)
	b = append(b, 0xff, 0xd9)

	info := parseJPEG(c, New(), b)
	c.Assert(info.WellFormed, qt.Equals, jhove.True)
	c.Assert(info.FindProperty("ExifProfilePresent").Value, qt.Equals, true)
}

func TestSignatureCheck(t *testing.T) {
	c := qt.New(t)

	m := New()
	r := bytes.NewReader(minimalJPEG())
	info := jhove.NewRepInfo("test.jpg")
	c.Assert(m.CheckSignatures("test.jpg", r, info), qt.IsNil)
	c.Assert(info.SigMatch, qt.DeepEquals, []string{"JPEG-hul"})
	c.Assert(info.Valid, qt.Equals, jhove.Undetermined)
	pos, _ := r.Seek(0, 1)
	c.Assert(pos, qt.Equals, int64(0))

	info = jhove.NewRepInfo("x")
	c.Assert(m.CheckSignatures("x", bytes.NewReader([]byte("GIF89a")), info), qt.IsNil)
	c.Assert(info.WellFormed, qt.Equals, jhove.False)
}

func TestParseFileNotSupported(t *testing.T) {
	c := qt.New(t)

	err := New().ParseFile(jhove.NewReader(bytes.NewReader(nil)), jhove.NewRepInfo("x"))
	c.Assert(err, qt.Equals, jhove.ErrNotSupported)
}
