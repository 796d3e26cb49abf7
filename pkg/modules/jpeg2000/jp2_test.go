// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jpeg2000

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/willp-bl/jhove/pkg/jhove"
)

func box(typ string, body []byte) []byte {
	length := len(body) + 8
	out := []byte{byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length)}
	out = append(out, typ...)
	return append(out, body...)
}

func u32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func minimalJP2() []byte {
	var b []byte
	b = append(b, signatureBox...)

	ftyp := append([]byte("jp2 "), u32(0)...)
	ftyp = append(ftyp, "jp2 "...)
	b = append(b, box("ftyp", ftyp)...)

	// ihdr: 512x256, 3 components, 8 bits each.
	ihdr := append(u32(256), u32(512)...)
	ihdr = append(ihdr, 0x00, 0x03, 7, 7, 0, 0)
	colr := []byte{1, 0, 0}
	colr = append(colr, u32(16)...) // sRGB
	jp2h := append(box("ihdr", ihdr), box("colr", colr)...)
	b = append(b, box("jp2h", jp2h)...)

	b = append(b, box("jp2c", []byte{0xff, 0x4f})...)
	return b
}

func parseJP2(c *qt.C, m *Module, data []byte) *jhove.RepInfo {
	info := jhove.NewRepInfo("test.jp2")
	m.Reset()
	next, err := m.Parse(bytes.NewReader(data), info, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(next, qt.Equals, 0)
	return info
}

func TestParseMinimalJP2(t *testing.T) {
	c := qt.New(t)

	info := parseJP2(c, New(), minimalJP2())
	c.Assert(info.WellFormed, qt.Equals, jhove.True)
	c.Assert(info.Valid, qt.Equals, jhove.True)
	c.Assert(info.Format, qt.Equals, "JPEG 2000")
	c.Assert(info.MimeType, qt.Equals, "image/jp2")

	c.Assert(info.FindProperty("Brand").Value, qt.Equals, "jp2 ")
	c.Assert(info.FindProperty("Compatibility").Value, qt.DeepEquals, []string{"jp2 "})
	c.Assert(info.FindProperty("ImageHeight").Value, qt.Equals, uint32(256))
	c.Assert(info.FindProperty("ImageWidth").Value, qt.Equals, uint32(512))
	c.Assert(info.FindProperty("NumComponents").Value, qt.Equals, uint32(3))
	c.Assert(info.FindProperty("BitsPerComponent").Value, qt.Equals, uint32(8))
	c.Assert(info.FindProperty("ColorSpace").Value, qt.Equals, "sRGB")

	niso, ok := info.FindProperty("NISOImageMetadata").Value.(*jhove.NISOImageMetadata)
	c.Assert(ok, qt.IsTrue)
	c.Assert(niso.ImageWidth, qt.Equals, int64(512))
	c.Assert(niso.SamplesPerPixel, qt.Equals, 3)
	c.Assert(niso.CompressionScheme, qt.Equals, 34712)
}

func TestRawColorSpace(t *testing.T) {
	c := qt.New(t)

	m := New()
	m.Raw = true
	info := parseJP2(c, m, minimalJP2())
	c.Assert(info.FindProperty("ColorSpace").Value, qt.Equals, uint32(16))
}

func TestBadSignature(t *testing.T) {
	c := qt.New(t)

	info := parseJP2(c, New(), []byte("this is not a jp2 file at all"))
	c.Assert(info.WellFormed, qt.Equals, jhove.False)
	fatals := info.MessagesBySeverity(jhove.SeverityFatal)
	c.Assert(fatals, qt.HasLen, 1)
	c.Assert(fatals[0].ID, qt.Equals, msgIDInvalidSignature)
}

func TestTruncatedBox(t *testing.T) {
	c := qt.New(t)

	data := append([]byte{}, signatureBox...)
	// A box claiming 100 bytes with only a few present.
	data = append(data, 0x00, 0x00, 0x00, 0x64)
	data = append(data, "ftyp"...)
	data = append(data, "jp2 "...)

	info := parseJP2(c, New(), data)
	c.Assert(info.WellFormed, qt.Equals, jhove.False)
	fatals := info.MessagesBySeverity(jhove.SeverityFatal)
	c.Assert(fatals, qt.HasLen, 1)
	c.Assert(fatals[0].ID, qt.Equals, msgIDPrematureEOF)
}

func TestMissingRequiredBoxes(t *testing.T) {
	c := qt.New(t)

	// Signature box only: ftyp and jp2h are both reported missing.
	info := parseJP2(c, New(), signatureBox)
	c.Assert(info.WellFormed, qt.Equals, jhove.True)
	c.Assert(info.Valid, qt.Equals, jhove.False)
	var ids []string
	for _, m := range info.MessagesBySeverity(jhove.SeverityError) {
		ids = append(ids, m.ID)
	}
	c.Assert(ids, qt.DeepEquals, []string{msgIDMissingBox, msgIDMissingBox})
}

func TestSignatureCheck(t *testing.T) {
	c := qt.New(t)

	m := New()
	r := bytes.NewReader(minimalJP2())
	info := jhove.NewRepInfo("test.jp2")
	c.Assert(m.CheckSignatures("test.jp2", r, info), qt.IsNil)
	c.Assert(info.SigMatch, qt.DeepEquals, []string{"JPEG2000-hul"})
	pos, _ := r.Seek(0, 1)
	c.Assert(pos, qt.Equals, int64(0))

	info = jhove.NewRepInfo("x")
	c.Assert(m.CheckSignatures("x", bytes.NewReader([]byte("????????????")), info), qt.IsNil)
	c.Assert(info.WellFormed, qt.Equals, jhove.False)
}
