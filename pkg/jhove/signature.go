// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Signature describes one way a module recognizes its format: either an
// internal magic byte sequence at a fixed absolute offset, or an external
// filename-extension hint. Extension hints are advisory only.
type Signature struct {
	// Magic is the internal byte sequence; empty for extension signatures.
	Magic []byte
	// Offset is the absolute position of Magic in the file.
	Offset int64
	// Mandatory marks an internal signature the matcher requires.
	// A module with several mandatory magics is matched when any one of
	// them hits; alternates cover byte-order variants of one format.
	Mandatory bool

	// Extension is the external hint, with leading dot (".tif").
	Extension string
}

// MagicSignature declares an internal signature.
func MagicSignature(offset int64, magic []byte, mandatory bool) Signature {
	return Signature{Magic: magic, Offset: offset, Mandatory: mandatory}
}

// ExtensionSignature declares an external filename hint.
func ExtensionSignature(ext string) Signature {
	return Signature{Extension: strings.ToLower(ext)}
}

func (s Signature) internal() bool { return len(s.Magic) > 0 }

func (s Signature) matchesPrefix(prefix []byte) bool {
	end := s.Offset + int64(len(s.Magic))
	if end > int64(len(prefix)) {
		return false
	}
	return bytes.Equal(prefix[s.Offset:end], s.Magic)
}

func (s Signature) matchesName(path string) bool {
	return s.Extension != "" && strings.EqualFold(filepath.Ext(path), s.Extension)
}

// Registry holds the configured modules in registration order. It is
// populated at startup and read-only thereafter.
type Registry struct {
	modules []Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a module. Registration order breaks candidate ties.
func (g *Registry) Register(m Module) {
	g.modules = append(g.modules, m)
}

// Modules returns the registered modules in order.
func (g *Registry) Modules() []Module {
	return g.modules
}

// Get returns the module with the given descriptor name, or nil.
func (g *Registry) Get(name string) Module {
	m, _ := lo.Find(g.modules, func(m Module) bool {
		return m.Descriptor().Name == name
	})
	return m
}

// minPrefixLen keeps the sniff window useful even when no registered module
// declares a long magic.
const minPrefixLen = 64

// PrefixLen returns how many leading bytes Candidates needs: at least the
// longest declared offset+length over all internal signatures.
func (g *Registry) PrefixLen() int {
	n := int64(minPrefixLen)
	for _, m := range g.modules {
		for _, s := range m.Descriptor().Signatures {
			if s.internal() && s.Offset+int64(len(s.Magic)) > n {
				n = s.Offset + int64(len(s.Magic))
			}
		}
	}
	return int(n)
}

// Candidates produces the ranked candidate modules for a file: modules with
// a mandatory internal magic hit outrank extension-only hits, and ties keep
// registration order. The dispatcher runs each candidate's CheckSignatures
// in this order until one accepts.
func (g *Registry) Candidates(path string, prefix []byte) []Module {
	magicHit := func(m Module) bool {
		for _, s := range m.Descriptor().Signatures {
			if s.internal() && s.Mandatory && s.matchesPrefix(prefix) {
				return true
			}
		}
		return false
	}
	extensionHit := func(m Module) bool {
		for _, s := range m.Descriptor().Signatures {
			if s.matchesName(path) {
				return true
			}
		}
		return false
	}

	byMagic := lo.Filter(g.modules, func(m Module, _ int) bool {
		return magicHit(m)
	})
	byExtension := lo.Filter(g.modules, func(m Module, _ int) bool {
		return !magicHit(m) && extensionHit(m)
	})
	return append(byMagic, byExtension...)
}
