// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"errors"
	"io"
)

// ErrNotSupported is returned by the parse variant a module does not
// implement.
var ErrNotSupported = errors.New("jhove: parse mode not supported by module")

// Descriptor is the static metadata of a module. Module identity is
// (Name, Release).
type Descriptor struct {
	Name           string
	Release        string
	Date           string
	Formats        []string
	MimeTypes      []string
	Signatures     []Signature
	Vendor         string
	Specifications []string
	Note           string
	Rights         string

	// RandomAccess declares that the module parses via ParseFile over
	// seekable input. The dispatcher refuses to call ParseFile on modules
	// that do not declare it.
	RandomAccess bool
}

// Module is the contract every format parser implements. A module instance
// is shared read-only across parses; per-file state lives in the RepInfo or
// is cleared by Reset before each file.
type Module interface {
	// Descriptor returns the module's static metadata.
	Descriptor() Descriptor

	// CheckSignatures tests whether the stream matches the module's
	// declared signatures. It is non-destructive: it reads at most as far
	// as the longest declared signature and seeks back to where it
	// started. On a match it appends the module to info.SigMatch and
	// leaves info.Valid Undetermined; otherwise it clears
	// info.WellFormed to False.
	CheckSignatures(path string, r io.ReadSeeker, info *RepInfo) error

	// Parse consumes the stream and populates info. It returns 0 when the
	// file has been fully characterized, or a nonzero index to request
	// re-invocation with a fresh stream over the same file.
	Parse(r io.Reader, info *RepInfo, parseIndex int) (int, error)

	// ParseFile is the random-access variant for seek-heavy formats.
	// Modules not declaring RandomAccess return ErrNotSupported.
	ParseFile(r *Reader, info *RepInfo) error

	// Reset clears per-file state. It is idempotent.
	Reset()

	// SetParameter passes a host-configured parameter string to the
	// module before parse.
	SetParameter(param string)
}

// Base carries the descriptor value and the host-set options every module
// honors. Format modules embed it.
type Base struct {
	Desc Descriptor

	// Raw selects raw output mode: bitfield and enumeration properties are
	// emitted as integers rather than interpreted labels.
	Raw bool
	// Verbose includes low-level segment detail in the output.
	Verbose bool
	// SuppressErrors downgrades a fatal parse failure to an Info message;
	// chaining stops but the caller receives a populated RepInfo.
	SuppressErrors bool

	Parameters []string
}

// Descriptor returns the module's static metadata.
func (b *Base) Descriptor() Descriptor { return b.Desc }

// SetParameter records a parameter string; modules interpret parameters in
// Reset or at parse time.
func (b *Base) SetParameter(param string) {
	b.Parameters = append(b.Parameters, param)
}

// Reset is a no-op at the base level; parameters are host configuration,
// not per-file state. Modules override Reset to clear their own state.
func (b *Base) Reset() {}

// InitInfo stamps the producing module and its default format identity
// onto the record.
func (b *Base) InitInfo(info *RepInfo) {
	info.Module = b.Desc.Name
	info.ModuleRelease = b.Desc.Release
	if len(b.Desc.Formats) > 0 {
		info.Format = b.Desc.Formats[0]
	}
	if len(b.Desc.MimeTypes) > 0 {
		info.MimeType = b.Desc.MimeTypes[0]
	}
}
