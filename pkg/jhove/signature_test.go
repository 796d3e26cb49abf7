// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"bytes"
	"io"
	"testing"

	qt "github.com/frankban/quicktest"
)

// stubModule is a minimal Module for registry and dispatcher tests.
type stubModule struct {
	Base
	parse func(r io.Reader, info *RepInfo, parseIndex int) (int, error)
}

func newStubModule(name string, sigs ...Signature) *stubModule {
	return &stubModule{
		Base: Base{
			Desc: Descriptor{
				Name:       name,
				Release:    "1.0",
				Formats:    []string{name},
				Signatures: sigs,
			},
		},
	}
}

func (m *stubModule) CheckSignatures(path string, r io.ReadSeeker, info *RepInfo) error {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	defer r.Seek(start, io.SeekStart)

	for _, s := range m.Desc.Signatures {
		if len(s.Magic) == 0 {
			continue
		}
		buf := make([]byte, len(s.Magic))
		if _, err := r.Seek(s.Offset, io.SeekStart); err != nil {
			return err
		}
		if _, err := io.ReadFull(r, buf); err != nil || !bytes.Equal(buf, s.Magic) {
			info.WellFormed = False
			return nil
		}
	}
	info.SigMatch = append(info.SigMatch, m.Desc.Name)
	return nil
}

func (m *stubModule) Parse(r io.Reader, info *RepInfo, parseIndex int) (int, error) {
	if m.parse != nil {
		return m.parse(r, info, parseIndex)
	}
	if info.WellFormed == Undetermined {
		info.WellFormed = True
	}
	if info.Valid == Undetermined {
		info.Valid = True
	}
	return 0, nil
}

func (m *stubModule) ParseFile(r *Reader, info *RepInfo) error {
	return ErrNotSupported
}

func TestRegistryPrefixLen(t *testing.T) {
	c := qt.New(t)

	reg := NewRegistry()
	c.Assert(reg.PrefixLen(), qt.Equals, minPrefixLen)

	reg.Register(newStubModule("LONGSIG", MagicSignature(120, []byte("abcdefgh"), true)))
	c.Assert(reg.PrefixLen(), qt.Equals, 128)
}

func TestRegistryCandidates(t *testing.T) {
	c := qt.New(t)

	magicA := newStubModule("A", MagicSignature(0, []byte("AAAA"), true), ExtensionSignature(".aaa"))
	magicB := newStubModule("B", MagicSignature(0, []byte("BBBB"), true), ExtensionSignature(".bbb"))
	extOnly := newStubModule("E", ExtensionSignature(".aaa"))

	reg := NewRegistry()
	reg.Register(extOnly)
	reg.Register(magicA)
	reg.Register(magicB)

	c.Assert(reg.Get("B"), qt.Equals, Module(magicB))
	c.Assert(reg.Get("missing"), qt.IsNil)

	// A mandatory magic hit outranks an extension-only hit even when the
	// extension module was registered first.
	got := reg.Candidates("file.aaa", []byte("AAAAxxxx"))
	c.Assert(got, qt.HasLen, 2)
	c.Assert(got[0].Descriptor().Name, qt.Equals, "A")
	c.Assert(got[1].Descriptor().Name, qt.Equals, "E")

	// No magic hit: extension hits only, in registration order.
	got = reg.Candidates("file.aaa", []byte("ZZZZxxxx"))
	c.Assert(got, qt.HasLen, 2)
	c.Assert(got[0].Descriptor().Name, qt.Equals, "E")
	c.Assert(got[1].Descriptor().Name, qt.Equals, "A")

	// Nothing matches at all.
	got = reg.Candidates("file.zzz", []byte("ZZZZxxxx"))
	c.Assert(got, qt.HasLen, 0)
}

func TestSignatureMatching(t *testing.T) {
	c := qt.New(t)

	sig := MagicSignature(4, []byte{0x01, 0x02}, true)
	c.Assert(sig.matchesPrefix([]byte{0, 0, 0, 0, 0x01, 0x02, 0xff}), qt.IsTrue)
	c.Assert(sig.matchesPrefix([]byte{0, 0, 0, 0, 0x01}), qt.IsFalse)
	c.Assert(sig.matchesPrefix([]byte{0, 0, 0, 0, 0x02, 0x01}), qt.IsFalse)

	ext := ExtensionSignature(".TIF")
	c.Assert(ext.matchesName("scan.tif"), qt.IsTrue)
	c.Assert(ext.matchesName("scan.TIF"), qt.IsTrue)
	c.Assert(ext.matchesName("scan.tiff"), qt.IsFalse)
}
