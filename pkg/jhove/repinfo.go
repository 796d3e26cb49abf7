// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import "time"

// Flag is the three-valued status used for well-formedness and validity.
// Undetermined is the zero value and is distinct from False.
type Flag int

const (
	Undetermined Flag = iota
	True
	False
)

var flagNames = map[Flag]string{
	Undetermined: "undetermined",
	True:         "true",
	False:        "false",
}

func (f Flag) String() string {
	if s, ok := flagNames[f]; ok {
		return s
	}
	return "undetermined"
}

// RepInfo is the representation-information record for one file: the full
// outcome of characterization. It exclusively owns its Properties and
// Messages; both are kept in discovery order.
type RepInfo struct {
	URI           string
	Module        string
	ModuleRelease string
	Format        string
	Version       string
	MimeType      string
	Size          int64
	Created       time.Time
	LastModified  time.Time

	WellFormed Flag
	Valid      Flag

	// SigMatch lists the names of modules whose signature check accepted
	// the file.
	SigMatch []string

	Properties []*Property
	Messages   []*Message
	Checksums  map[string]string
}

// NewRepInfo returns an empty record for the given URI. Both status flags
// start Undetermined.
func NewRepInfo(uri string) *RepInfo {
	return &RepInfo{
		URI:       uri,
		Size:      -1,
		Checksums: map[string]string{},
	}
}

// AddMessage appends m and downgrades the status flags according to its
// severity: an Error clears validity, a Fatal clears well-formedness too.
func (i *RepInfo) AddMessage(m *Message) {
	i.Messages = append(i.Messages, m)
	switch m.Severity {
	case SeverityError:
		i.Valid = False
	case SeverityFatal:
		i.WellFormed = False
		i.Valid = False
	}
}

// AddProperty appends a top-level property.
func (i *RepInfo) AddProperty(p *Property) {
	i.Properties = append(i.Properties, p)
}

// SetChecksum records the hex digest for an algorithm.
func (i *RepInfo) SetChecksum(algorithm, hexDigest string) {
	i.Checksums[algorithm] = hexDigest
}

// FindProperty searches the whole property forest depth-first for the first
// property with the given name, or nil.
func (i *RepInfo) FindProperty(name string) *Property {
	for _, p := range i.Properties {
		if found := p.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// MessagesBySeverity returns the messages of the given severity, in order.
func (i *RepInfo) MessagesBySeverity(sev Severity) []*Message {
	var out []*Message
	for _, m := range i.Messages {
		if m.Severity == sev {
			out = append(out, m)
		}
	}
	return out
}
