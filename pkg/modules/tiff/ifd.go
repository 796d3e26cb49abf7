// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/willp-bl/jhove/pkg/jhove"
)

// ifdKind selects the tag semantics of a directory.
type ifdKind int

const (
	kindMain ifdKind = iota
	kindExif
	kindGPS
	kindInterop
	kindGlobalParams
)

var ifdKindNames = map[ifdKind]string{
	kindMain:         "IFD",
	kindExif:         "ExifIFD",
	kindGPS:          "GPSIFD",
	kindInterop:      "InteropIFD",
	kindGlobalParams: "GlobalParametersIFD",
}

// entry is one 12-byte tag record: (tag, type, count, value-or-offset).
// offset is resolved to the absolute position of the value bytes, whether
// they sit inline in the record or out of line.
type entry struct {
	tag    uint16
	typ    fieldType
	count  uint32
	value  uint32
	offset int64
	inline bool
}

// ifd is one Image File Directory. It owns its entries; next links the
// singly-linked main chain (0 terminates).
type ifd struct {
	kind      ifdKind
	offset    int64
	next      int64
	version   int
	first     bool
	thumbnail bool
	entries   []entry
	// errors accumulates soft per-directory diagnostics in discovery order.
	errors []*jhove.Message
}

func (d *ifd) addError(m *jhove.Message) {
	d.errors = append(d.errors, m)
}

// subIFDRef records a pointer tag to a subordinate directory.
type subIFDRef struct {
	kind   ifdKind
	offset int64
}

// tagTable gives a directory kind its tag semantics. A fresh table is made
// per directory; it accumulates the directory's properties and any
// subordinate-IFD references discovered in pointer tags.
type tagTable interface {
	lookupTag(p *parser, d *ifd, e entry) error
	// postParse checks cross-tag invariants after all entries are seen.
	postParse(p *parser, d *ifd) error
	properties() []*jhove.Property
	subIFDs() []subIFDRef
}

// parser is the per-parse state of the IFD engine. The byte order comes
// from the file header and is threaded through every read.
type parser struct {
	mod     *Module
	r       *jhove.Reader
	order   binary.ByteOrder
	info    *jhove.RepInfo
	visited map[int64]struct{}
	version int
}

func (p *parser) parse() error {
	order, err := p.r.ReadU16(binary.BigEndian)
	if err != nil {
		return err
	}
	switch order {
	case byteOrderLittle:
		p.order = binary.LittleEndian
	case byteOrderBig:
		p.order = binary.BigEndian
	default:
		return fatalf(msgIDInvalidHeader, 0, "no TIFF byte order marker (II or MM)")
	}
	magic, err := p.r.ReadU16(p.order)
	if err != nil {
		return err
	}
	if magic != tiffMagic {
		return fatalf(msgIDInvalidHeader, 2, "bad TIFF magic number %d", magic)
	}
	first, err := p.r.ReadU32(p.order)
	if err != nil {
		return err
	}
	if first == 0 {
		return fatalf(msgIDNoIFD, 4, "header contains no IFD offset")
	}

	offset := int64(first)
	chainIndex := 0
	for offset != 0 {
		if p.mod.AbortCheck != nil && p.mod.AbortCheck() {
			break
		}
		d, err := p.processIFD(offset, kindMain, chainIndex)
		if err != nil {
			return err
		}
		offset = d.next
		chainIndex++
	}
	return nil
}

// processIFD parses one directory, dispatches its entries through the tag
// table for its kind, runs the cross-tag checks, flushes properties and
// accumulated soft errors onto the record, and descends into any
// subordinate directories its pointer tags named.
func (p *parser) processIFD(offset int64, kind ifdKind, chainIndex int) (*ifd, error) {
	d, err := p.parseIFD(offset, kind, chainIndex)
	if err != nil {
		return nil, err
	}

	table := p.tableFor(kind)
	for _, e := range d.entries {
		if err := table.lookupTag(p, d, e); err != nil {
			var soft *softTagError
			if errors.As(err, &soft) {
				d.addError(jhove.NewErrorMessage(soft.id, "%s", soft.text).WithOffset(soft.offset))
				continue
			}
			return nil, err
		}
	}
	if err := table.postParse(p, d); err != nil {
		return nil, err
	}

	children := make([]*jhove.Property, 0, len(table.properties())+2)
	children = append(children, jhove.NewUint32Property("Offset", uint32(d.offset)))
	if kind == kindMain {
		children = append(children, jhove.NewStringProperty("Type", mainIFDRole(chainIndex)))
	}
	children = append(children, table.properties()...)
	p.info.AddProperty(jhove.NewListProperty(p.ifdName(kind, chainIndex), children))

	for _, m := range d.errors {
		p.info.AddMessage(m)
	}

	for _, sub := range table.subIFDs() {
		if _, err := p.processIFD(sub.offset, sub.kind, -1); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (p *parser) ifdName(kind ifdKind, chainIndex int) string {
	if kind == kindMain {
		return fmt.Sprintf("IFD%d", chainIndex)
	}
	return ifdKindNames[kind]
}

func mainIFDRole(chainIndex int) string {
	switch chainIndex {
	case 0:
		return "main image"
	case 1:
		return "thumbnail"
	default:
		return "page image"
	}
}

// parseIFD reads one directory: entry count, the 12n-byte entry block into
// a memory view, and the successor offset. Soft problems (tag ordering,
// unknown types) accumulate on the IFD; structural ones are fatal.
func (p *parser) parseIFD(offset int64, kind ifdKind, chainIndex int) (*ifd, error) {
	if _, seen := p.visited[offset]; seen {
		return nil, fatalf(msgIDIFDCycle, offset, "IFD chain revisits offset %d", offset)
	}
	p.visited[offset] = struct{}{}

	d := &ifd{
		kind:      kind,
		offset:    offset,
		version:   4,
		first:     chainIndex == 0,
		thumbnail: chainIndex == 1,
	}

	if err := p.r.Seek(offset); err != nil {
		return nil, err
	}
	n, err := p.r.ReadU16(p.order)
	if err != nil {
		return nil, err
	}
	raw, err := p.r.ReadBytes(int(n) * 12)
	if err != nil {
		return nil, err
	}
	next, err := p.r.ReadU32(p.order)
	if err != nil {
		return nil, err
	}
	d.next = int64(next)

	v := jhove.NewView(raw, offset+2)
	var prev uint16
	for i := 0; i < int(n); i++ {
		base := i * 12
		tag, _ := v.U16(base, p.order)
		rawType, _ := v.U16(base+2, p.order)
		count, _ := v.U32(base+4, p.order)
		value, _ := v.U32(base+8, p.order)

		if i > 0 && tag <= prev && !p.mod.IgnoreTagOrder {
			d.addError(jhove.NewErrorMessage(msgIDTagOutOfSequence,
				"tag %d out of sequence (follows %d)", tag, prev).WithOffset(v.Abs(base)))
		}
		prev = tag

		typ := fieldType(rawType)
		if !typ.valid() {
			d.addError(jhove.NewErrorMessage(msgIDUnknownType,
				"tag %d has unknown data type %d", tag, rawType).WithOffset(v.Abs(base + 2)))
			continue
		}
		if typ >= typeSByte {
			d.version = 6
			if p.version < 6 {
				p.version = 6
			}
		}

		e := entry{tag: tag, typ: typ, count: count, value: value}
		if uint64(typ.size())*uint64(count) <= 4 {
			// The value sits inline in the record; its position is the
			// value field itself.
			e.inline = true
			e.offset = offset + 10 + 12*int64(i)
		} else {
			e.offset = int64(value)
			if value%2 != 0 {
				if p.mod.ByteOffsetIsValid {
					d.addError(jhove.NewInfoMessage(msgIDOddOffset,
						"value for tag %d begins at odd byte offset %d", tag, value).WithOffset(e.offset))
				} else {
					return nil, fatalf(msgIDOddOffset, int64(value),
						"value for tag %d begins at odd byte offset %d", tag, value)
				}
			}
		}
		d.entries = append(d.entries, e)
	}
	return d, nil
}

func (p *parser) tableFor(kind ifdKind) tagTable {
	switch kind {
	case kindExif:
		return &exifTable{}
	case kindGPS:
		return &gpsTable{}
	case kindInterop:
		return &interopTable{}
	case kindGlobalParams:
		return &globalParamsTable{}
	default:
		return newMainTable()
	}
}

// checkType rejects a type substitution not sanctioned for the tag.
func (p *parser) checkType(e entry, want ...fieldType) error {
	for _, w := range want {
		if e.typ == w {
			return nil
		}
	}
	return softf(msgIDWrongType, e.offset, "tag %d: type %s not permitted here", e.tag, e.typ.name())
}

// checkCount rejects a count below the tag's minimum.
func (p *parser) checkCount(e entry, minCount uint32) error {
	if e.count < minCount {
		return softf(msgIDCountTooSmall, e.offset, "tag %d: count %d below minimum %d", e.tag, e.count, minCount)
	}
	return nil
}

// checkCountArray rejects a count that exceeds the addressable-array bound
// before anything is allocated for it.
func (p *parser) checkCountArray(e entry) error {
	if e.count > math.MaxInt32/e.typ.size() {
		return softf(msgIDCountOutOfBounds, e.offset, "tag %d: count %d exceeds addressable bound", e.tag, e.count)
	}
	return nil
}

// readUint reads a single unsigned integer value. BYTE, SHORT, LONG and IFD
// are accepted interchangeably, as the format requires readers to tolerate.
func (p *parser) readUint(e entry) (uint32, error) {
	if err := p.checkType(e, typeByte, typeShort, typeLong, typeIFD); err != nil {
		return 0, err
	}
	if err := p.checkCount(e, 1); err != nil {
		return 0, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return 0, err
	}
	switch e.typ {
	case typeByte:
		v, err := p.r.ReadU8()
		return uint32(v), err
	case typeShort:
		v, err := p.r.ReadU16(p.order)
		return uint32(v), err
	default:
		return p.r.ReadU32(p.order)
	}
}

// readUintArray reads count unsigned integer values with the same type
// tolerance as readUint.
func (p *parser) readUintArray(e entry) ([]uint32, error) {
	if err := p.checkType(e, typeByte, typeShort, typeLong, typeIFD); err != nil {
		return nil, err
	}
	if err := p.checkCountArray(e); err != nil {
		return nil, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return nil, err
	}
	out := make([]uint32, 0, e.count)
	for i := uint32(0); i < e.count; i++ {
		switch e.typ {
		case typeByte:
			v, err := p.r.ReadU8()
			if err != nil {
				return nil, err
			}
			out = append(out, uint32(v))
		case typeShort:
			v, err := p.r.ReadU16(p.order)
			if err != nil {
				return nil, err
			}
			out = append(out, uint32(v))
		default:
			v, err := p.r.ReadU32(p.order)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (p *parser) readRational(e entry) (jhove.Rational, error) {
	if err := p.checkType(e, typeRational); err != nil {
		return jhove.Rational{}, err
	}
	if err := p.checkCount(e, 1); err != nil {
		return jhove.Rational{}, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return jhove.Rational{}, err
	}
	return p.readRationalAt()
}

func (p *parser) readRationalAt() (jhove.Rational, error) {
	num, err := p.r.ReadU32(p.order)
	if err != nil {
		return jhove.Rational{}, err
	}
	den, err := p.r.ReadU32(p.order)
	if err != nil {
		return jhove.Rational{}, err
	}
	return jhove.Rational{Num: num, Den: den}, nil
}

// readRationalArray reads count rationals, each as its (numerator,
// denominator) pair in order.
func (p *parser) readRationalArray(e entry) ([]jhove.Rational, error) {
	if err := p.checkType(e, typeRational); err != nil {
		return nil, err
	}
	if err := p.checkCountArray(e); err != nil {
		return nil, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return nil, err
	}
	out := make([]jhove.Rational, 0, e.count)
	for i := uint32(0); i < e.count; i++ {
		r, err := p.readRationalAt()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (p *parser) readSignedRational(e entry) (jhove.SignedRational, error) {
	if err := p.checkType(e, typeSRational); err != nil {
		return jhove.SignedRational{}, err
	}
	if err := p.checkCount(e, 1); err != nil {
		return jhove.SignedRational{}, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return jhove.SignedRational{}, err
	}
	num, err := p.r.ReadS32(p.order)
	if err != nil {
		return jhove.SignedRational{}, err
	}
	den, err := p.r.ReadS32(p.order)
	if err != nil {
		return jhove.SignedRational{}, err
	}
	return jhove.SignedRational{Num: num, Den: den}, nil
}

// readASCII reads a NUL-terminated string. Bytes outside printable ASCII
// are percent-escaped as %XX.
func (p *parser) readASCII(e entry) (string, error) {
	if err := p.checkType(e, typeASCII); err != nil {
		return "", err
	}
	if err := p.checkCountArray(e); err != nil {
		return "", err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return "", err
	}
	b, err := p.r.ReadBytes(int(e.count))
	if err != nil {
		return "", err
	}
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	return escapeASCII(b), nil
}

// readASCIIArray splits the value on NUL delimiters. The result holds one
// string per NUL-terminated substring; a trailing run without a terminator
// is not counted.
func (p *parser) readASCIIArray(e entry) ([]string, error) {
	if err := p.checkType(e, typeASCII); err != nil {
		return nil, err
	}
	if err := p.checkCountArray(e); err != nil {
		return nil, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return nil, err
	}
	b, err := p.r.ReadBytes(int(e.count))
	if err != nil {
		return nil, err
	}
	var out []string
	start := 0
	for i, c := range b {
		if c == 0 {
			out = append(out, escapeASCII(b[start:i]))
			start = i + 1
		}
	}
	return out, nil
}

func (p *parser) readFloat(e entry) (float32, error) {
	if err := p.checkType(e, typeFloat); err != nil {
		return 0, err
	}
	if err := p.checkCount(e, 1); err != nil {
		return 0, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return 0, err
	}
	return p.r.ReadF32(p.order)
}

func (p *parser) readDouble(e entry) (float64, error) {
	if err := p.checkType(e, typeDouble); err != nil {
		return 0, err
	}
	if err := p.checkCount(e, 1); err != nil {
		return 0, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return 0, err
	}
	return p.r.ReadF64(p.order)
}

// readRawBytes returns the value's bytes as stored.
func (p *parser) readRawBytes(e entry) ([]byte, error) {
	if err := p.checkCountArray(e); err != nil {
		return nil, err
	}
	if err := p.r.Seek(e.offset); err != nil {
		return nil, err
	}
	return p.r.ReadBytes(int(uint64(e.typ.size()) * uint64(e.count)))
}

func escapeASCII(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c <= 0x7e {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "%%%02X", c)
		}
	}
	return sb.String()
}

// enumProperty emits an enumerated value: the label in interpreted mode,
// the integer in raw mode. A value outside the label table accumulates a
// soft error on the IFD and falls back to the integer.
func (p *parser) enumProperty(d *ifd, e entry, name string, v uint32, labels map[uint32]string) *jhove.Property {
	if p.mod.Raw || labels == nil {
		return jhove.NewUint32Property(name, v)
	}
	label, ok := labels[v]
	if !ok {
		d.addError(jhove.NewErrorMessage(msgIDUnrecognizedValue,
			"unrecognized %s value %d", name, v).WithOffset(e.offset))
		return jhove.NewUint32Property(name, v)
	}
	return jhove.NewStringProperty(name, label)
}

// bitmaskProperty emits the active bit labels, or the raw integer.
func (p *parser) bitmaskProperty(name string, v uint32, bits []string) *jhove.Property {
	if p.mod.Raw {
		return jhove.NewUint32Property(name, v)
	}
	var active []string
	for i, label := range bits {
		if v&(1<<uint(i)) != 0 {
			active = append(active, label)
		}
	}
	if active == nil {
		active = []string{}
	}
	return jhove.NewProperty(name, jhove.TypeString, jhove.ArityList, active)
}

// unknownTagProperty preserves an unrecognized tag generically: its type,
// count and value bytes.
func (p *parser) unknownTagProperty(e entry) (*jhove.Property, error) {
	b, err := p.readRawBytes(e)
	if err != nil {
		return nil, err
	}
	children := []*jhove.Property{
		jhove.NewStringProperty("Type", e.typ.name()),
		jhove.NewUint32Property("Count", e.count),
		jhove.NewProperty("Value", jhove.TypeUint8, jhove.ArityArray, b),
	}
	return jhove.NewListProperty(fmt.Sprintf("UnknownTag_0x%04X", e.tag), children), nil
}
