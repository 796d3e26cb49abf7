// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestReaderRoundTrip(t *testing.T) {
	c := qt.New(t)

	// Endian-aware integer readers invert the writers for both orders.
	for _, v := range []uint32{0, 1, 0x1234, 0xdeadbeef, math.MaxUint32} {
		for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
			b := make([]byte, 4)
			order.PutUint32(b, v)
			r := NewReader(bytes.NewReader(b))
			got, err := r.ReadU32(order)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, v)
		}
	}

	for _, v := range []uint16{0, 0xabcd, math.MaxUint16} {
		for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
			b := make([]byte, 2)
			order.PutUint16(b, v)
			r := NewReader(bytes.NewReader(b))
			got, err := r.ReadU16(order)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, v)
		}
	}
}

func TestReaderPrimitives(t *testing.T) {
	c := qt.New(t)

	b := []byte{0x01, 0xff, 0x00, 0x02, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}
	r := NewReader(bytes.NewReader(b))

	v8, err := r.ReadU8()
	c.Assert(err, qt.IsNil)
	c.Assert(v8, qt.Equals, uint8(1))

	s8, err := r.ReadS8()
	c.Assert(err, qt.IsNil)
	c.Assert(s8, qt.Equals, int8(-1))

	v16, err := r.ReadU16(binary.BigEndian)
	c.Assert(err, qt.IsNil)
	c.Assert(v16, qt.Equals, uint16(2))

	v64, err := r.ReadU64(binary.BigEndian)
	c.Assert(err, qt.IsNil)
	c.Assert(v64, qt.Equals, uint64(0x123456789abcdef0))

	c.Assert(r.Pos(), qt.Equals, int64(12))
	c.Assert(r.Seek(4), qt.IsNil)

	v32, err := r.ReadU32(binary.LittleEndian)
	c.Assert(err, qt.IsNil)
	c.Assert(v32, qt.Equals, uint32(0x78563412))

	size, err := r.Size()
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, int64(12))
	c.Assert(r.Pos(), qt.Equals, int64(8))
}

func TestReaderFloats(t *testing.T) {
	c := qt.New(t)

	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b, math.Float32bits(1.5))
	binary.BigEndian.PutUint64(b[4:], math.Float64bits(-2.25))

	r := NewReader(bytes.NewReader(b))
	f32, err := r.ReadF32(binary.BigEndian)
	c.Assert(err, qt.IsNil)
	c.Assert(f32, qt.Equals, float32(1.5))

	f64, err := r.ReadF64(binary.BigEndian)
	c.Assert(err, qt.IsNil)
	c.Assert(f64, qt.Equals, -2.25)
}

func TestReaderUnexpectedEOF(t *testing.T) {
	c := qt.New(t)

	r := NewReader(bytes.NewReader([]byte{0x01, 0x02}))
	_, err := r.ReadU32(binary.BigEndian)
	c.Assert(err, qt.Equals, io.ErrUnexpectedEOF)

	r = NewReader(bytes.NewReader(nil))
	_, err = r.ReadU8()
	c.Assert(err, qt.Equals, io.ErrUnexpectedEOF)

	r = NewReader(bytes.NewReader([]byte{1, 2, 3}))
	_, err = r.ReadBytes(4)
	c.Assert(err, qt.Equals, io.ErrUnexpectedEOF)
}

func TestView(t *testing.T) {
	c := qt.New(t)

	v := NewView([]byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x64}, 100)
	c.Assert(v.Len(), qt.Equals, 6)
	c.Assert(v.Base(), qt.Equals, int64(100))
	c.Assert(v.Abs(4), qt.Equals, int64(104))

	u16, err := v.U16(0, binary.BigEndian)
	c.Assert(err, qt.IsNil)
	c.Assert(u16, qt.Equals, uint16(1))

	u32, err := v.U32(2, binary.BigEndian)
	c.Assert(err, qt.IsNil)
	c.Assert(u32, qt.Equals, uint32(100))

	_, err = v.U32(4, binary.BigEndian)
	c.Assert(err, qt.Equals, io.ErrUnexpectedEOF)

	_, err = v.U8(6)
	c.Assert(err, qt.Equals, io.ErrUnexpectedEOF)

	b, err := v.Bytes(1, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, []byte{0x01, 0x00})
}
