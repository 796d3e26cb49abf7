// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

// Package jpeg2000 validates and characterizes JP2 (JPEG 2000 part 1)
// files by walking the box structure: signature, file type, and the JP2
// header superbox.
package jpeg2000

import (
	"bufio"
	"bytes"
	"io"

	"github.com/willp-bl/jhove/pkg/jhove"
)

// Message ids owned by this module.
const (
	msgIDInvalidSignature = "JP2-HUL-1"
	msgIDPrematureEOF     = "JP2-HUL-2"
	msgIDInvalidBox       = "JP2-HUL-3"
	msgIDMissingBox       = "JP2-HUL-4"
)

var signatureBox = []byte{
	0x00, 0x00, 0x00, 0x0c, 0x6a, 0x50, 0x20, 0x20, 0x0d, 0x0a, 0x87, 0x0a,
}

var colorSpaceLabels = map[uint32]string{
	16: "sRGB",
	17: "greyscale",
	18: "sYCC",
}

// Module is the JP2 format module.
type Module struct {
	jhove.Base
}

// New returns the JPEG 2000 module.
func New() *Module {
	return &Module{
		Base: jhove.Base{
			Desc: jhove.Descriptor{
				Name:      "JPEG2000-hul",
				Release:   "1.0",
				Date:      "2026-07-15",
				Formats:   []string{"JPEG 2000"},
				MimeTypes: []string{"image/jp2"},
				Signatures: []jhove.Signature{
					jhove.MagicSignature(0, signatureBox, true),
					jhove.ExtensionSignature(".jp2"),
					jhove.ExtensionSignature(".jpx"),
				},
				Vendor: "JHOVE project",
				Specifications: []string{
					"JPEG 2000 image coding system, Part 1 (ISO/IEC 15444-1:2004)",
				},
			},
		},
	}
}

// CheckSignatures tests the 12-byte signature box without disturbing the
// stream position.
func (m *Module) CheckSignatures(path string, r io.ReadSeeker, info *jhove.RepInfo) error {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	defer r.Seek(start, io.SeekStart)

	hdr := make([]byte, len(signatureBox))
	if _, err := io.ReadFull(r, hdr); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			info.WellFormed = jhove.False
			return nil
		}
		return err
	}
	if !bytes.Equal(hdr, signatureBox) {
		info.WellFormed = jhove.False
		return nil
	}
	info.SigMatch = append(info.SigMatch, m.Desc.Name)
	return nil
}

// ParseFile is not used; JP2 parses as a stream.
func (m *Module) ParseFile(r *jhove.Reader, info *jhove.RepInfo) error {
	return jhove.ErrNotSupported
}

// Parse walks the box structure. JP2 characterization is single-pass.
func (m *Module) Parse(r io.Reader, info *jhove.RepInfo, parseIndex int) (int, error) {
	m.InitInfo(info)

	w := &walker{mod: m, br: bufio.NewReader(r), info: info}
	w.run()

	if info.WellFormed == jhove.Undetermined {
		info.WellFormed = jhove.True
	}
	if info.WellFormed == jhove.True && info.Valid == jhove.Undetermined {
		info.Valid = jhove.True
	}
	return 0, nil
}

type walker struct {
	mod  *Module
	br   *bufio.Reader
	info *jhove.RepInfo
	pos  int64

	sawFtyp bool
	sawJP2H bool
	props   []*jhove.Property
}

func (w *walker) fatal(id, format string, args ...any) {
	w.info.AddMessage(jhove.NewFatalMessage(id, format, args...).WithOffset(w.pos))
}

func (w *walker) read(n int) ([]byte, bool) {
	b := make([]byte, n)
	if _, err := io.ReadFull(w.br, b); err != nil {
		return nil, false
	}
	w.pos += int64(n)
	return b, true
}

// box reads one box header and its contents. ok is false at a clean end of
// stream, and also when the box is unusable, in which case a fatal message
// has been recorded.
func (w *walker) box() (typ string, data []byte, ok bool) {
	hdr, ok := w.read(8)
	if !ok {
		return "", nil, false
	}
	length := int64(uint32(hdr[0])<<24 | uint32(hdr[1])<<16 | uint32(hdr[2])<<8 | uint32(hdr[3]))
	typ = string(hdr[4:8])

	switch length {
	case 0:
		// Box extends to the end of the file.
		rest, err := io.ReadAll(w.br)
		if err != nil {
			w.fatal(msgIDPrematureEOF, "premature end of file in box %q", typ)
			return "", nil, false
		}
		w.pos += int64(len(rest))
		return typ, rest, true
	case 1:
		ext, ok := w.read(8)
		if !ok {
			w.fatal(msgIDPrematureEOF, "premature end of file in extended box length")
			return "", nil, false
		}
		var l64 uint64
		for _, b := range ext {
			l64 = l64<<8 | uint64(b)
		}
		if l64 < 16 {
			w.fatal(msgIDInvalidBox, "extended box length %d below header size", l64)
			return "", nil, false
		}
		length = int64(l64) - 16
	default:
		if length < 8 {
			w.fatal(msgIDInvalidBox, "box length %d below header size", length)
			return "", nil, false
		}
		length -= 8
	}

	data, ok = w.read(int(length))
	if !ok {
		w.fatal(msgIDPrematureEOF, "premature end of file in box %q", typ)
		return "", nil, false
	}
	return typ, data, true
}

func (w *walker) run() {
	sig, ok := w.read(len(signatureBox))
	if !ok {
		w.fatal(msgIDPrematureEOF, "premature end of file in signature box")
		return
	}
	if !bytes.Equal(sig, signatureBox) {
		w.fatal(msgIDInvalidSignature, "file does not begin with the JP2 signature box")
		return
	}

	for {
		typ, data, ok := w.box()
		if !ok {
			break
		}
		switch typ {
		case "ftyp":
			w.ftyp(data)
		case "jp2h":
			w.jp2h(data)
		case "jp2c":
			// Contiguous codestream; characterization stops here.
			w.flush()
			return
		}
	}

	if !w.sawFtyp {
		w.info.AddMessage(jhove.NewErrorMessage(msgIDMissingBox, "no file type box present"))
	}
	if !w.sawJP2H {
		w.info.AddMessage(jhove.NewErrorMessage(msgIDMissingBox, "no JP2 header box present"))
	}
	w.flush()
}

func (w *walker) ftyp(data []byte) {
	if len(data) < 8 {
		w.info.AddMessage(jhove.NewErrorMessage(msgIDInvalidBox, "file type box too short"))
		return
	}
	w.sawFtyp = true
	brand := string(data[0:4])
	minor := uint32(data[4])<<24 | uint32(data[5])<<16 | uint32(data[6])<<8 | uint32(data[7])
	var compat []string
	for i := 8; i+4 <= len(data); i += 4 {
		compat = append(compat, string(data[i:i+4]))
	}
	w.props = append(w.props,
		jhove.NewStringProperty("Brand", brand),
		jhove.NewUint32Property("MinorVersion", minor),
	)
	if len(compat) > 0 {
		w.props = append(w.props,
			jhove.NewProperty("Compatibility", jhove.TypeString, jhove.ArityList, compat))
	}
}

// jp2h walks the header superbox, which nests ihdr and colr boxes.
func (w *walker) jp2h(data []byte) {
	w.sawJP2H = true
	for len(data) >= 8 {
		length := int(uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]))
		typ := string(data[4:8])
		if length < 8 || length > len(data) {
			w.info.AddMessage(jhove.NewErrorMessage(msgIDInvalidBox,
				"bad box length %d inside JP2 header box", length))
			return
		}
		body := data[8:length]
		switch typ {
		case "ihdr":
			w.ihdr(body)
		case "colr":
			w.colr(body)
		}
		data = data[length:]
	}
}

func (w *walker) ihdr(body []byte) {
	if len(body) < 14 {
		w.info.AddMessage(jhove.NewErrorMessage(msgIDInvalidBox, "image header box too short"))
		return
	}
	height := uint32(body[0])<<24 | uint32(body[1])<<16 | uint32(body[2])<<8 | uint32(body[3])
	width := uint32(body[4])<<24 | uint32(body[5])<<16 | uint32(body[6])<<8 | uint32(body[7])
	components := uint32(body[8])<<8 | uint32(body[9])
	// Stored as (bits per component - 1); the top bit flags signedness.
	bpc := uint32(body[10]&0x7f) + 1

	w.props = append(w.props,
		jhove.NewUint32Property("ImageHeight", height),
		jhove.NewUint32Property("ImageWidth", width),
		jhove.NewUint32Property("NumComponents", components),
		jhove.NewUint32Property("BitsPerComponent", bpc),
	)

	niso := jhove.NewNISOImageMetadata()
	niso.ImageLength = int64(height)
	niso.ImageWidth = int64(width)
	niso.SamplesPerPixel = int(components)
	bits := make([]int, components)
	for i := range bits {
		bits[i] = int(bpc)
	}
	niso.BitsPerSample = bits
	niso.CompressionScheme = 34712 // JPEG 2000, per the NISO scheme registry
	w.props = append(w.props,
		jhove.NewProperty("NISOImageMetadata", jhove.TypeNISOImageMetadata, jhove.ArityScalar, niso))
}

func (w *walker) colr(body []byte) {
	if len(body) < 3 {
		return
	}
	method := body[0]
	if method == 1 && len(body) >= 7 {
		cs := uint32(body[3])<<24 | uint32(body[4])<<16 | uint32(body[5])<<8 | uint32(body[6])
		if w.mod.Raw {
			w.props = append(w.props, jhove.NewUint32Property("ColorSpace", cs))
			return
		}
		if label, ok := colorSpaceLabels[cs]; ok {
			w.props = append(w.props, jhove.NewStringProperty("ColorSpace", label))
		} else {
			w.props = append(w.props, jhove.NewUint32Property("ColorSpace", cs))
		}
	}
}

func (w *walker) flush() {
	w.info.AddProperty(jhove.NewListProperty("JP2Metadata", w.props))
}
