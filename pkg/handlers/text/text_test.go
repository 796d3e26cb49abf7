// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package text

import (
	"bytes"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/willp-bl/jhove/pkg/jhove"
)

func sampleInfo() *jhove.RepInfo {
	info := jhove.NewRepInfo("scan.tif")
	info.Module = "TIFF-hul"
	info.ModuleRelease = "1.0"
	info.Format = "TIFF"
	info.Version = "4.0"
	info.MimeType = "image/tiff"
	info.Size = 1234
	info.LastModified = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	info.WellFormed = jhove.True
	info.Valid = jhove.True
	info.SigMatch = []string{"TIFF-hul"}
	info.SetChecksum(jhove.ChecksumMD5, "5d41402abc4b2a76b9719d911017c592")
	info.AddProperty(jhove.NewListProperty("IFD0", []*jhove.Property{
		jhove.NewUint32Property("ImageWidth", 100),
		jhove.NewRationalProperty("XResolution", jhove.Rational{Num: 300, Den: 1}),
	}))
	return info
}

func TestShowRepInfo(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	h := New(&buf)
	c.Assert(h.ShowRepInfo(sampleInfo()), qt.IsNil)
	out := buf.String()

	c.Assert(out, qt.Contains, "File: scan.tif")
	c.Assert(out, qt.Contains, "ReportingModule: TIFF-hul, Rel. 1.0")
	c.Assert(out, qt.Contains, "Size: 1234")
	c.Assert(out, qt.Contains, "Status: Well-Formed and valid")
	c.Assert(out, qt.Contains, "Checksum (MD5): 5d41402abc4b2a76b9719d911017c592")
	c.Assert(out, qt.Contains, "ImageWidth: 100")
	c.Assert(out, qt.Contains, "XResolution: 300")

	// Children render deeper than their container.
	lines := strings.Split(out, "\n")
	var ifdIndent, widthIndent int
	for _, l := range lines {
		trimmed := strings.TrimLeft(l, " ")
		switch {
		case strings.HasPrefix(trimmed, "IFD0:"):
			ifdIndent = len(l) - len(trimmed)
		case strings.HasPrefix(trimmed, "ImageWidth:"):
			widthIndent = len(l) - len(trimmed)
		}
	}
	c.Assert(widthIndent > ifdIndent, qt.IsTrue)
}

func TestStatusLines(t *testing.T) {
	c := qt.New(t)

	info := jhove.NewRepInfo("x")
	c.Assert(statusLine(info), qt.Equals, "Unknown")

	info.WellFormed = jhove.True
	c.Assert(statusLine(info), qt.Equals, "Well-Formed, but not valid")

	info.Valid = jhove.True
	c.Assert(statusLine(info), qt.Equals, "Well-Formed and valid")

	info.WellFormed = jhove.False
	c.Assert(statusLine(info), qt.Equals, "Not well-formed")
}

func TestMessagesRendered(t *testing.T) {
	c := qt.New(t)

	info := jhove.NewRepInfo("bad.tif")
	info.AddMessage(jhove.NewErrorMessage("TIFF-HUL-2", "tag 256 out of sequence").WithOffset(30))

	var buf bytes.Buffer
	h := New(&buf)
	c.Assert(h.ShowRepInfo(info), qt.IsNil)
	c.Assert(buf.String(), qt.Contains, "Error [TIFF-HUL-2]: tag 256 out of sequence (offset 30)")
}

func TestDirectoryNesting(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	h := New(&buf)
	c.Assert(h.StartDirectory("/data"), qt.IsNil)
	before := h.Level()
	c.Assert(h.EndDirectory("/data"), qt.IsNil)
	c.Assert(before, qt.Equals, 1)
	c.Assert(h.Level(), qt.Equals, 0)
	c.Assert(buf.String(), qt.Contains, "Directory: /data")
}

func TestNISORendering(t *testing.T) {
	c := qt.New(t)

	niso := jhove.NewNISOImageMetadata()
	niso.ByteOrder = "little-endian"
	niso.ImageWidth = 640
	niso.BitsPerSample = []int{8, 8, 8}

	info := jhove.NewRepInfo("x")
	info.AddProperty(jhove.NewProperty("NISOImageMetadata",
		jhove.TypeNISOImageMetadata, jhove.ArityScalar, niso))

	var buf bytes.Buffer
	h := New(&buf)
	c.Assert(h.ShowRepInfo(info), qt.IsNil)
	out := buf.String()
	c.Assert(out, qt.Contains, "ByteOrder: little-endian")
	c.Assert(out, qt.Contains, "ImageWidth: 640")
	c.Assert(out, qt.Contains, "BitsPerSample: [8 8 8]")
}
