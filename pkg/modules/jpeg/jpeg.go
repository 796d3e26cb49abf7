// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

// Package jpeg validates and characterizes JPEG (JFIF/Exif) streams by
// walking the marker segments up to and through the entropy-coded scans.
package jpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"

	"github.com/willp-bl/jhove/pkg/jhove"
)

// Message ids owned by this module.
const (
	msgIDInvalidSOI    = "JPEG-HUL-1"
	msgIDPrematureEOF  = "JPEG-HUL-2"
	msgIDInvalidMarker = "JPEG-HUL-3"
	msgIDMissingEOI    = "JPEG-HUL-4"
)

const (
	markerSOI   = 0xffd8
	markerEOI   = 0xffd9
	markerSOS   = 0xffda
	markerDHT   = 0xffc4
	markerJPG   = 0xffc8
	markerDAC   = 0xffcc
	markerDRI   = 0xffdd
	markerAPP0  = 0xffe0
	markerAPP1  = 0xffe1
	markerAPP13 = 0xffed
	markerCOM   = 0xfffe
)

var jfifPrefix = []byte("JFIF\x00")

var exifPrefix = []byte("Exif\x00\x00")

var photoshopPrefix = []byte("Photoshop 3.0\x00")

// Compression processes by SOF marker code.
var sofLabels = map[uint16]string{
	0xffc0: "baseline sequential DCT",
	0xffc1: "extended sequential DCT",
	0xffc2: "progressive DCT",
	0xffc3: "lossless sequential",
	0xffc5: "differential sequential DCT",
	0xffc6: "differential progressive DCT",
	0xffc7: "differential lossless",
	0xffc9: "extended sequential DCT, arithmetic coding",
	0xffca: "progressive DCT, arithmetic coding",
	0xffcb: "lossless sequential, arithmetic coding",
	0xffcd: "differential sequential DCT, arithmetic coding",
	0xffce: "differential progressive DCT, arithmetic coding",
	0xffcf: "differential lossless, arithmetic coding",
}

// Module is the JPEG format module. It parses the stream sequentially and
// needs no random access.
type Module struct {
	jhove.Base
}

// New returns the JPEG module.
func New() *Module {
	return &Module{
		Base: jhove.Base{
			Desc: jhove.Descriptor{
				Name:      "JPEG-hul",
				Release:   "1.0",
				Date:      "2026-07-15",
				Formats:   []string{"JPEG"},
				MimeTypes: []string{"image/jpeg"},
				Signatures: []jhove.Signature{
					jhove.MagicSignature(0, []byte{0xff, 0xd8, 0xff}, true),
					jhove.ExtensionSignature(".jpg"),
					jhove.ExtensionSignature(".jpeg"),
				},
				Vendor: "JHOVE project",
				Specifications: []string{
					"JPEG (ISO/IEC 10918-1:1994)",
					"JFIF, Version 1.02",
				},
			},
		},
	}
}

// CheckSignatures tests the three-byte SOI-plus-marker prefix without
// disturbing the stream position.
func (m *Module) CheckSignatures(path string, r io.ReadSeeker, info *jhove.RepInfo) error {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	defer r.Seek(start, io.SeekStart)

	var hdr [3]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			info.WellFormed = jhove.False
			return nil
		}
		return err
	}
	if hdr[0] != 0xff || hdr[1] != 0xd8 || hdr[2] != 0xff {
		info.WellFormed = jhove.False
		return nil
	}
	info.SigMatch = append(info.SigMatch, m.Desc.Name)
	return nil
}

// ParseFile is not used; JPEG parses as a stream.
func (m *Module) ParseFile(r *jhove.Reader, info *jhove.RepInfo) error {
	return jhove.ErrNotSupported
}

// Parse walks the marker stream. JPEG characterization is single-pass.
func (m *Module) Parse(r io.Reader, info *jhove.RepInfo, parseIndex int) (int, error) {
	m.InitInfo(info)

	s := &scan{
		mod:  m,
		br:   bufio.NewReader(r),
		info: info,
		niso: jhove.NewNISOImageMetadata(),
	}
	s.run()

	if info.WellFormed == jhove.Undetermined {
		info.WellFormed = jhove.True
	}
	if info.WellFormed == jhove.True && info.Valid == jhove.Undetermined {
		info.Valid = jhove.True
	}
	return 0, nil
}

type scan struct {
	mod  *Module
	br   *bufio.Reader
	info *jhove.RepInfo
	pos  int64

	niso     *jhove.NISOImageMetadata
	sofSeen  bool
	numScans int
	comments []string
	props    []*jhove.Property
}

func (s *scan) readByte() (byte, bool) {
	b, err := s.br.ReadByte()
	if err != nil {
		return 0, false
	}
	s.pos++
	return b, true
}

func (s *scan) readU16() (uint16, bool) {
	hi, ok := s.readByte()
	if !ok {
		return 0, false
	}
	lo, ok := s.readByte()
	if !ok {
		return 0, false
	}
	return uint16(hi)<<8 | uint16(lo), true
}

func (s *scan) fatal(id, text string) {
	s.info.AddMessage(jhove.NewFatalMessage(id, "%s", text).WithOffset(s.pos))
}

func (s *scan) run() {
	soi, ok := s.readU16()
	if !ok {
		s.fatal(msgIDPrematureEOF, "premature end of file")
		return
	}
	if soi != markerSOI {
		s.fatal(msgIDInvalidSOI, "stream does not begin with a SOI marker")
		return
	}

	sawEOI := false
loop:
	for {
		marker, ok := s.nextMarker()
		if !ok {
			break
		}
		switch {
		case marker == markerEOI:
			sawEOI = true
			break loop
		case marker == markerSOS:
			if !s.segment(marker) {
				return
			}
			s.numScans++
			// The entropy-coded data follows; nextMarker skips it.
		default:
			if marker>>8 != 0xff {
				s.fatal(msgIDInvalidMarker, "invalid marker in stream")
				return
			}
			if !s.segment(marker) {
				return
			}
		}
	}

	if !sawEOI {
		s.info.AddMessage(jhove.NewErrorMessage(msgIDMissingEOI,
			"stream ends without an EOI marker").WithOffset(s.pos))
	}
	s.flush()
}

// nextMarker finds the next marker, skipping fill bytes, stuffed zero
// bytes and restart markers inside entropy-coded data.
func (s *scan) nextMarker() (uint16, bool) {
	for {
		b, ok := s.readByte()
		if !ok {
			return 0, false
		}
		if b != 0xff {
			continue
		}
		b2, ok := s.readByte()
		if !ok {
			return 0, false
		}
		switch {
		case b2 == 0x00:
			// Stuffed data byte.
		case b2 == 0xff:
			// Fill byte; keep scanning.
		case b2 >= 0xd0 && b2 <= 0xd7:
			// Restart marker, parameterless.
		default:
			return 0xff00 | uint16(b2), true
		}
	}
}

// segment reads one parameterized segment and dispatches it. It reports
// false when the stream is unusable.
func (s *scan) segment(marker uint16) bool {
	length, ok := s.readU16()
	if !ok {
		s.fatal(msgIDPrematureEOF, "premature end of file in segment header")
		return false
	}
	if length < 2 {
		s.fatal(msgIDInvalidMarker, "segment length below 2")
		return false
	}
	data := make([]byte, length-2)
	if _, err := io.ReadFull(s.br, data); err != nil {
		s.fatal(msgIDPrematureEOF, "premature end of file in segment body")
		return false
	}
	s.pos += int64(len(data))

	switch {
	case isSOF(marker):
		s.sof(marker, data)
	case marker == markerAPP0:
		s.app0(data)
	case marker == markerAPP1:
		if bytes.HasPrefix(data, exifPrefix) {
			s.props = append(s.props, jhove.NewBoolProperty("ExifProfilePresent", true))
		}
	case marker == markerAPP13:
		if bytes.HasPrefix(data, photoshopPrefix) {
			s.props = append(s.props, jhove.NewBoolProperty("PhotoshopProfilePresent", true))
		}
	case marker == markerDRI:
		if len(data) >= 2 {
			interval := uint32(data[0])<<8 | uint32(data[1])
			s.props = append(s.props, jhove.NewUint32Property("RestartInterval", interval))
		}
	case marker == markerCOM:
		s.comment(data)
	}
	return true
}

func isSOF(marker uint16) bool {
	if marker < 0xffc0 || marker > 0xffcf {
		return false
	}
	return marker != markerDHT && marker != markerJPG && marker != markerDAC
}

func (s *scan) sof(marker uint16, data []byte) {
	if s.sofSeen || len(data) < 6 {
		return
	}
	s.sofSeen = true
	precision := uint32(data[0])
	height := uint32(data[1])<<8 | uint32(data[2])
	width := uint32(data[3])<<8 | uint32(data[4])
	components := uint32(data[5])

	s.niso.ImageLength = int64(height)
	s.niso.ImageWidth = int64(width)
	s.niso.SamplesPerPixel = int(components)
	bits := make([]int, components)
	for i := range bits {
		bits[i] = int(precision)
	}
	s.niso.BitsPerSample = bits

	if s.mod.Raw {
		s.props = append(s.props, jhove.NewUint32Property("CompressionType", uint32(marker&0xff)))
	} else {
		s.props = append(s.props, jhove.NewStringProperty("CompressionType", sofLabels[marker]))
	}
	s.props = append(s.props,
		jhove.NewUint32Property("ImageWidth", width),
		jhove.NewUint32Property("ImageLength", height),
		jhove.NewUint32Property("Precision", precision),
		jhove.NewUint32Property("NumComponents", components),
	)
}

func (s *scan) app0(data []byte) {
	if !bytes.HasPrefix(data, jfifPrefix) || len(data) < 12 {
		return
	}
	body := data[len(jfifPrefix):]
	version := jhove.NewStringProperty("JFIFVersion",
		fmt.Sprintf("%d.%02d", body[0], body[1]))
	units := uint32(body[2])
	x := uint32(body[3])<<8 | uint32(body[4])
	y := uint32(body[5])<<8 | uint32(body[6])
	s.props = append(s.props, version,
		jhove.NewUint32Property("DensityUnits", units),
		jhove.NewUint32Property("XDensity", x),
		jhove.NewUint32Property("YDensity", y),
	)
	if units == 1 {
		s.niso.SamplingFrequencyUnit = 2 // dots per inch
		s.niso.XSamplingFrequency = jhove.Rational{Num: x, Den: 1}
		s.niso.YSamplingFrequency = jhove.Rational{Num: y, Den: 1}
	}
}

// comment decodes a COM segment. Comments are Latin-1 by long-standing
// convention.
func (s *scan) comment(data []byte) {
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return
	}
	s.comments = append(s.comments, printable(string(text)))
}

func (s *scan) flush() {
	s.props = append(s.props, jhove.NewUint32Property("NumScans", uint32(s.numScans)))
	if len(s.comments) > 0 {
		s.props = append(s.props,
			jhove.NewProperty("Comments", jhove.TypeString, jhove.ArityList, s.comments))
	}
	children := append([]*jhove.Property{}, s.props...)
	if s.sofSeen {
		s.niso.CompressionScheme = 6 // JPEG, per the NISO scheme registry
		children = append(children,
			jhove.NewProperty("NISOImageMetadata", jhove.TypeNISOImageMetadata, jhove.ArityScalar, s.niso))
	}
	s.info.AddProperty(jhove.NewListProperty("JPEGMetadata", children))
}

func printable(s string) string {
	out := strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(out)
}
