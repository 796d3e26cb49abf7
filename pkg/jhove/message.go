// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import "fmt"

// Severity classifies a Message.
type Severity int

const (
	// SeverityInfo is an observation; it affects neither well-formedness
	// nor validity.
	SeverityInfo Severity = iota + 1
	// SeverityWarning flags something possibly out of spec but tolerated.
	SeverityWarning
	// SeverityError means the file is well-formed but not valid.
	SeverityError
	// SeverityFatal means the file is not well-formed; the module stops
	// chaining but still returns a populated RepInfo.
	SeverityFatal
)

var severityNames = map[Severity]string{
	SeverityInfo:    "Info",
	SeverityWarning: "Warning",
	SeverityError:   "Error",
	SeverityFatal:   "Fatal",
}

func (s Severity) String() string {
	if n, ok := severityNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// NoOffset marks a Message that carries no source position.
const NoOffset int64 = -1

// Message is a structured, code-identified diagnostic. The ID is a stable
// short code (e.g. "TIFF-HUL-2") that acts as a public API across releases.
type Message struct {
	ID       string
	Text     string
	Severity Severity
	// Offset is the absolute byte position in the source, or NoOffset.
	Offset int64
	// Sub carries optional nested detail.
	Sub string
}

func newMessage(sev Severity, id, format string, args ...any) *Message {
	return &Message{
		ID:       id,
		Text:     fmt.Sprintf(format, args...),
		Severity: sev,
		Offset:   NoOffset,
	}
}

// NewInfoMessage returns an Info message with the given id and text.
// Substitution parameters are bound at creation.
func NewInfoMessage(id, format string, args ...any) *Message {
	return newMessage(SeverityInfo, id, format, args...)
}

// NewWarningMessage returns a Warning message.
func NewWarningMessage(id, format string, args ...any) *Message {
	return newMessage(SeverityWarning, id, format, args...)
}

// NewErrorMessage returns a non-fatal Error message.
func NewErrorMessage(id, format string, args ...any) *Message {
	return newMessage(SeverityError, id, format, args...)
}

// NewFatalMessage returns a Fatal message.
func NewFatalMessage(id, format string, args ...any) *Message {
	return newMessage(SeverityFatal, id, format, args...)
}

// WithOffset returns the message with its source offset set.
func (m *Message) WithOffset(offset int64) *Message {
	m.Offset = offset
	return m
}

// WithSub returns the message with nested detail attached.
func (m *Message) WithSub(sub string) *Message {
	m.Sub = sub
	return m
}

func (m *Message) String() string {
	s := fmt.Sprintf("[%s] %s: %s", m.ID, m.Severity, m.Text)
	if m.Offset != NoOffset {
		s = fmt.Sprintf("%s (offset %d)", s, m.Offset)
	}
	return s
}
