// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFlagThreeValued(t *testing.T) {
	c := qt.New(t)

	info := NewRepInfo("file.tif")
	// Undetermined is the zero value and is distinct from False.
	c.Assert(info.WellFormed, qt.Equals, Undetermined)
	c.Assert(info.Valid, qt.Equals, Undetermined)
	c.Assert(Undetermined == False, qt.IsFalse)
	c.Assert(Undetermined.String(), qt.Equals, "undetermined")
	c.Assert(True.String(), qt.Equals, "true")
	c.Assert(False.String(), qt.Equals, "false")
}

func TestAddMessageDowngradesFlags(t *testing.T) {
	c := qt.New(t)

	c.Run("info and warning leave flags alone", func(c *qt.C) {
		info := NewRepInfo("x")
		info.WellFormed = True
		info.Valid = True
		info.AddMessage(NewInfoMessage("T-1", "observation"))
		info.AddMessage(NewWarningMessage("T-2", "tolerated oddity"))
		c.Assert(info.WellFormed, qt.Equals, True)
		c.Assert(info.Valid, qt.Equals, True)
	})

	c.Run("error clears validity only", func(c *qt.C) {
		info := NewRepInfo("x")
		info.WellFormed = True
		info.Valid = True
		info.AddMessage(NewErrorMessage("T-3", "rule violated"))
		c.Assert(info.WellFormed, qt.Equals, True)
		c.Assert(info.Valid, qt.Equals, False)
	})

	c.Run("fatal clears both", func(c *qt.C) {
		info := NewRepInfo("x")
		info.WellFormed = True
		info.Valid = True
		info.AddMessage(NewFatalMessage("T-4", "unparseable"))
		c.Assert(info.WellFormed, qt.Equals, False)
		c.Assert(info.Valid, qt.Equals, False)
		// wellFormed false implies at least one fatal message.
		c.Assert(info.MessagesBySeverity(SeverityFatal), qt.HasLen, 1)
	})
}

func TestMessageFormatting(t *testing.T) {
	c := qt.New(t)

	m := NewErrorMessage("TIFF-HUL-2", "tag %d out of sequence", 256).WithOffset(42)
	c.Assert(m.ID, qt.Equals, "TIFF-HUL-2")
	c.Assert(m.Text, qt.Equals, "tag 256 out of sequence")
	c.Assert(m.Severity, qt.Equals, SeverityError)
	c.Assert(m.Offset, qt.Equals, int64(42))
	c.Assert(m.String(), qt.Equals, "[TIFF-HUL-2] Error: tag 256 out of sequence (offset 42)")

	plain := NewInfoMessage("X-1", "hello")
	c.Assert(plain.Offset, qt.Equals, NoOffset)
	c.Assert(plain.String(), qt.Equals, "[X-1] Info: hello")

	sub := NewWarningMessage("X-2", "outer").WithSub("inner detail")
	c.Assert(sub.Sub, qt.Equals, "inner detail")
}

func TestRepInfoAccessors(t *testing.T) {
	c := qt.New(t)

	info := NewRepInfo("x")
	info.AddProperty(NewListProperty("IFD0", []*Property{
		NewUint32Property("ImageWidth", 100),
	}))
	info.AddProperty(NewStringProperty("ByteOrder", "little-endian"))
	info.SetChecksum("MD5", "d41d8cd98f00b204e9800998ecf8427e")

	c.Assert(info.FindProperty("ImageWidth").Value, qt.Equals, uint32(100))
	c.Assert(info.FindProperty("ByteOrder").Value, qt.Equals, "little-endian")
	c.Assert(info.FindProperty("missing"), qt.IsNil)
	c.Assert(info.Checksums["MD5"], qt.Equals, "d41d8cd98f00b204e9800998ecf8427e")

	// Insertion order is preserved.
	c.Assert(info.Properties[0].Name, qt.Equals, "IFD0")
	c.Assert(info.Properties[1].Name, qt.Equals, "ByteOrder")
}
