// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

// Package tiff validates and characterizes TIFF files: header, the chain of
// Image File Directories reachable from it, and the subordinate Exif, GPS,
// Interoperability and global-parameters directories.
package tiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"

	"github.com/willp-bl/jhove/pkg/jhove"
)

const (
	byteOrderLittle = 0x4949 // "II"
	byteOrderBig    = 0x4d4d // "MM"
	tiffMagic       = 42
)

// Module is the TIFF format module. A single instance is shared across
// parses; Reset reapplies the host parameters before each file.
type Module struct {
	jhove.Base

	// ByteOffsetIsValid downgrades the odd-value-offset fatal to an Info
	// message and continues. Set with the "byteoffset=true" parameter.
	ByteOffsetIsValid bool
	// IgnoreTagOrder suppresses the strict tag ordering check. Set with
	// the "ignoretagorder=true" parameter.
	IgnoreTagOrder bool

	// AbortCheck, when set by the host, is polled between IFDs.
	AbortCheck func() bool
}

// New returns the TIFF module.
func New() *Module {
	return &Module{
		Base: jhove.Base{
			Desc: jhove.Descriptor{
				Name:      "TIFF-hul",
				Release:   "1.0",
				Date:      "2026-07-15",
				Formats:   []string{"TIFF"},
				MimeTypes: []string{"image/tiff"},
				Signatures: []jhove.Signature{
					jhove.MagicSignature(0, []byte{0x49, 0x49, 0x2a, 0x00}, true),
					jhove.MagicSignature(0, []byte{0x4d, 0x4d, 0x00, 0x2a}, true),
					jhove.ExtensionSignature(".tif"),
					jhove.ExtensionSignature(".tiff"),
				},
				Vendor: "JHOVE project",
				Specifications: []string{
					"TIFF, Revision 6.0 (Adobe Systems Incorporated, 1992)",
					"TIFF Specification Supplement 1 (Adobe Systems Incorporated, 1995)",
					"Exif Version 2.3 (CIPA DC-008, 2010)",
				},
				RandomAccess: true,
			},
		},
	}
}

// Reset clears per-file state and reapplies the configured parameters.
func (m *Module) Reset() {
	m.ByteOffsetIsValid = false
	m.IgnoreTagOrder = false
	for _, p := range m.Parameters {
		switch strings.ToLower(p) {
		case "byteoffset=true":
			m.ByteOffsetIsValid = true
		case "ignoretagorder=true":
			m.IgnoreTagOrder = true
		}
	}
}

// CheckSignatures tests the first 4 bytes of the TIFF header (byte-order
// marker and magic number) without disturbing the stream position.
func (m *Module) CheckSignatures(path string, r io.ReadSeeker, info *jhove.RepInfo) error {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	defer r.Seek(start, io.SeekStart)

	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			info.WellFormed = jhove.False
			return nil
		}
		return err
	}
	le := hdr[0] == 0x49 && hdr[1] == 0x49 && hdr[2] == 0x2a && hdr[3] == 0x00
	be := hdr[0] == 0x4d && hdr[1] == 0x4d && hdr[2] == 0x00 && hdr[3] == 0x2a
	if !le && !be {
		info.WellFormed = jhove.False
		return nil
	}
	info.SigMatch = append(info.SigMatch, m.Desc.Name)
	return nil
}

// Parse buffers the stream and delegates to ParseFile. TIFF is inherently
// seek-driven; the dispatcher normally routes it through ParseFile.
func (m *Module) Parse(r io.Reader, info *jhove.RepInfo, parseIndex int) (int, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	return 0, m.ParseFile(jhove.NewReader(bytes.NewReader(b)), info)
}

// ParseFile walks the IFD chain and populates info. Every failure becomes a
// Message; only genuine I/O errors on the underlying source are returned.
func (m *Module) ParseFile(r *jhove.Reader, info *jhove.RepInfo) error {
	m.InitInfo(info)

	p := &parser{
		mod:     m,
		r:       r,
		info:    info,
		visited: map[int64]struct{}{},
		version: 4,
	}

	if err := p.parse(); err != nil {
		var te *Error
		switch {
		case errors.As(err, &te):
			if m.SuppressErrors {
				info.AddMessage(jhove.NewInfoMessage(te.ID, "%s", te.Text).WithOffset(te.Offset))
			} else {
				info.AddMessage(jhove.NewFatalMessage(te.ID, "%s", te.Text).WithOffset(te.Offset))
			}
		case errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF):
			info.AddMessage(jhove.NewFatalMessage(msgIDPrematureEOF,
				"premature end of file").WithOffset(r.Pos()))
		default:
			return err
		}
	}

	if p.order != nil {
		info.AddProperty(jhove.NewStringProperty("ByteOrder", byteOrderName(p.order)))
	}
	if p.version >= 6 {
		info.Version = "6.0"
	} else {
		info.Version = "4.0"
	}

	if info.WellFormed == jhove.Undetermined {
		info.WellFormed = jhove.True
	}
	if info.WellFormed == jhove.True && info.Valid == jhove.Undetermined {
		info.Valid = jhove.True
	}
	return nil
}

func byteOrderName(order binary.ByteOrder) string {
	if order == binary.LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}
