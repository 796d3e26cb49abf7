// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"encoding/binary"
	"io"
	"math"
)

// Reader wraps a seekable byte source with endian-aware primitive reads.
// Endianness is a per-call argument, never a property of the reader: formats
// like TIFF pick the byte order from the file header and thread it through
// every nested read.
//
// Reader is not safe for concurrent use.
type Reader struct {
	r   io.ReadSeeker
	buf [8]byte
}

// NewReader returns a Reader over r.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

// Seek positions the reader at the absolute offset.
func (r *Reader) Seek(offset int64) error {
	_, err := r.r.Seek(offset, io.SeekStart)
	return err
}

// Pos returns the current absolute offset.
func (r *Reader) Pos() int64 {
	n, _ := r.r.Seek(0, io.SeekCurrent)
	return n
}

// Size returns the total size of the underlying source. The current
// position is preserved.
func (r *Reader) Size() (int64, error) {
	pos := r.Pos()
	end, err := r.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	_, err = r.r.Seek(pos, io.SeekStart)
	return end, err
}

func (r *Reader) readN(n int) ([]byte, error) {
	b := r.buf[:n]
	if _, err := io.ReadFull(r.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadS8 reads one signed byte.
func (r *Reader) ReadS8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads an unsigned 16-bit integer in the given byte order.
func (r *Reader) ReadU16(order binary.ByteOrder) (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

// ReadS16 reads a signed 16-bit integer in the given byte order.
func (r *Reader) ReadS16(order binary.ByteOrder) (int16, error) {
	v, err := r.ReadU16(order)
	return int16(v), err
}

// ReadU32 reads an unsigned 32-bit integer in the given byte order.
func (r *Reader) ReadU32(order binary.ByteOrder) (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

// ReadS32 reads a signed 32-bit integer in the given byte order.
func (r *Reader) ReadS32(order binary.ByteOrder) (int32, error) {
	v, err := r.ReadU32(order)
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit integer in the given byte order.
func (r *Reader) ReadU64(order binary.ByteOrder) (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

// ReadS64 reads a signed 64-bit integer in the given byte order.
func (r *Reader) ReadS64(order binary.ByteOrder) (int64, error) {
	v, err := r.ReadU64(order)
	return int64(v), err
}

// ReadF32 reads an IEEE 754 32-bit float in the given byte order.
func (r *Reader) ReadF32(order binary.ByteOrder) (float32, error) {
	v, err := r.ReadU32(order)
	return math.Float32frombits(v), err
}

// ReadF64 reads an IEEE 754 64-bit float in the given byte order.
func (r *Reader) ReadF64(order binary.ByteOrder) (float64, error) {
	v, err := r.ReadU64(order)
	return math.Float64frombits(v), err
}

// ReadBytes reads exactly n bytes into a fresh slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}

// View is a memory-backed window over a prefetched region of the source.
// Callers read a region once with ReadBytes and then decode it without
// further seeks. Base is the absolute offset of the first byte, so positions
// inside the view can be reported as file offsets.
type View struct {
	b    []byte
	base int64
}

// NewView returns a View over b, where base is the absolute offset of b[0]
// in the underlying source.
func NewView(b []byte, base int64) View {
	return View{b: b, base: base}
}

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v.b) }

// Base returns the absolute offset of the first byte of the view.
func (v View) Base() int64 { return v.base }

// Abs converts a view-relative offset to an absolute source offset.
func (v View) Abs(off int) int64 { return v.base + int64(off) }

func (v View) slice(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(v.b) {
		return nil, io.ErrUnexpectedEOF
	}
	return v.b[off : off+n], nil
}

// U8 reads an unsigned byte at the view-relative offset.
func (v View) U8(off int) (uint8, error) {
	b, err := v.slice(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads an unsigned 16-bit integer at the view-relative offset.
func (v View) U16(off int, order binary.ByteOrder) (uint16, error) {
	b, err := v.slice(off, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

// U32 reads an unsigned 32-bit integer at the view-relative offset.
func (v View) U32(off int, order binary.ByteOrder) (uint32, error) {
	b, err := v.slice(off, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

// Bytes returns n bytes at the view-relative offset. The slice aliases the
// view's backing array and must not be modified.
func (v View) Bytes(off, n int) ([]byte, error) {
	return v.slice(off, n)
}
