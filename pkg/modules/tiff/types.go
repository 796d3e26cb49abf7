// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package tiff

// fieldType is a TIFF tag data type (uppercase names as in the TIFF spec).
type fieldType uint16

const (
	typeByte      fieldType = 1
	typeASCII     fieldType = 2
	typeShort     fieldType = 3
	typeLong      fieldType = 4
	typeRational  fieldType = 5
	typeSByte     fieldType = 6
	typeUndefined fieldType = 7
	typeSShort    fieldType = 8
	typeSLong     fieldType = 9
	typeSRational fieldType = 10
	typeFloat     fieldType = 11
	typeDouble    fieldType = 12
	// typeIFD is from TIFF Supplement 1.
	typeIFD fieldType = 13
)

// Byte size of a single value of each type, indexed by fieldType.
var typeSizes = [14]uint32{
	typeByte:      1,
	typeASCII:     1,
	typeShort:     2,
	typeLong:      4,
	typeRational:  8,
	typeSByte:     1,
	typeUndefined: 1,
	typeSShort:    2,
	typeSLong:     4,
	typeSRational: 8,
	typeFloat:     4,
	typeDouble:    8,
	typeIFD:       4,
}

var typeNames = [14]string{
	typeByte:      "BYTE",
	typeASCII:     "ASCII",
	typeShort:     "SHORT",
	typeLong:      "LONG",
	typeRational:  "RATIONAL",
	typeSByte:     "SBYTE",
	typeUndefined: "UNDEFINED",
	typeSShort:    "SSHORT",
	typeSLong:     "SLONG",
	typeSRational: "SRATIONAL",
	typeFloat:     "FLOAT",
	typeDouble:    "DOUBLE",
	typeIFD:       "IFD",
}

func (t fieldType) valid() bool {
	return t >= typeByte && t <= typeIFD
}

func (t fieldType) size() uint32 {
	if !t.valid() {
		return 0
	}
	return typeSizes[t]
}

func (t fieldType) name() string {
	if !t.valid() {
		return "UNKNOWN"
	}
	return typeNames[t]
}
