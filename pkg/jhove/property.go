// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"fmt"
	"time"
)

// PropertyType identifies the payload type of a Property.
//
//go:generate stringer -type=PropertyType
type PropertyType int

const (
	TypeBoolean PropertyType = iota + 1
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat
	TypeDouble
	TypeRational
	TypeString
	TypeDate
	// TypeProperty marks a node whose value is one or more child Properties.
	TypeProperty
	// TypeNISOImageMetadata marks the still-image metadata composite.
	TypeNISOImageMetadata
)

var propertyTypeNames = map[PropertyType]string{
	TypeBoolean:           "Boolean",
	TypeInt8:              "Int8",
	TypeUint8:             "Uint8",
	TypeInt16:             "Int16",
	TypeUint16:            "Uint16",
	TypeInt32:             "Int32",
	TypeUint32:            "Uint32",
	TypeInt64:             "Int64",
	TypeUint64:            "Uint64",
	TypeFloat:             "Float",
	TypeDouble:            "Double",
	TypeRational:          "Rational",
	TypeString:            "String",
	TypeDate:              "Date",
	TypeProperty:          "Property",
	TypeNISOImageMetadata: "NISOImageMetadata",
}

func (t PropertyType) String() string {
	if s, ok := propertyTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("PropertyType(%d)", int(t))
}

// PropertyArity identifies the shape of a Property's payload.
type PropertyArity int

const (
	ArityScalar PropertyArity = iota + 1
	ArityArray
	ArityList
	AritySet
	ArityMap
)

var propertyArityNames = map[PropertyArity]string{
	ArityScalar: "Scalar",
	ArityArray:  "Array",
	ArityList:   "List",
	AritySet:    "Set",
	ArityMap:    "Map",
}

func (a PropertyArity) String() string {
	if s, ok := propertyArityNames[a]; ok {
		return s
	}
	return fmt.Sprintf("PropertyArity(%d)", int(a))
}

// Property is a named, typed node in the metadata tree produced by a parse.
// The tree is strictly acyclic; each parent owns its children, and nothing
// is mutated after construction.
type Property struct {
	Name  string
	Type  PropertyType
	Arity PropertyArity
	Value any
}

// NewProperty constructs a Property, checking that value agrees with
// (typ, arity). A mismatch is a programmer error and panics.
func NewProperty(name string, typ PropertyType, arity PropertyArity, value any) *Property {
	if !valueMatches(typ, arity, value) {
		panic(fmt.Sprintf("jhove: property %q: value of type %T does not match (%s, %s)", name, value, typ, arity))
	}
	return &Property{Name: name, Type: typ, Arity: arity, Value: value}
}

// NewStringProperty constructs a scalar string Property.
func NewStringProperty(name, value string) *Property {
	return NewProperty(name, TypeString, ArityScalar, value)
}

// NewBoolProperty constructs a scalar boolean Property.
func NewBoolProperty(name string, value bool) *Property {
	return NewProperty(name, TypeBoolean, ArityScalar, value)
}

// NewDateProperty constructs a scalar date Property.
func NewDateProperty(name string, value time.Time) *Property {
	return NewProperty(name, TypeDate, ArityScalar, value)
}

// NewUint32Property constructs a scalar unsigned 32-bit Property.
func NewUint32Property(name string, value uint32) *Property {
	return NewProperty(name, TypeUint32, ArityScalar, value)
}

// NewRationalProperty constructs a scalar unsigned rational Property.
func NewRationalProperty(name string, value Rational) *Property {
	return NewProperty(name, TypeRational, ArityScalar, value)
}

// NewListProperty constructs a Property holding an ordered list of children.
func NewListProperty(name string, children []*Property) *Property {
	return NewProperty(name, TypeProperty, ArityList, children)
}

// ByName returns the first direct child with the given name, or nil.
// It only descends containers of TypeProperty.
func (p *Property) ByName(name string) *Property {
	for _, c := range p.children() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find returns the first property with the given name in the subtree rooted
// at p, searching depth-first, or nil.
func (p *Property) Find(name string) *Property {
	if p.Name == name {
		return p
	}
	for _, c := range p.children() {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func (p *Property) children() []*Property {
	if p.Type != TypeProperty {
		return nil
	}
	switch v := p.Value.(type) {
	case *Property:
		return []*Property{v}
	case []*Property:
		return v
	case map[string]*Property:
		cc := make([]*Property, 0, len(v))
		for _, c := range v {
			cc = append(cc, c)
		}
		return cc
	default:
		return nil
	}
}

func valueMatches(typ PropertyType, arity PropertyArity, value any) bool {
	if arity == ArityScalar {
		return scalarMatches(typ, value)
	}
	if arity == ArityMap {
		// Maps carry named child properties only.
		_, ok := value.(map[string]*Property)
		return typ == TypeProperty && ok
	}
	// Array, List and Set all carry a homogeneous slice.
	return sliceMatches(typ, value)
}

func scalarMatches(typ PropertyType, value any) bool {
	switch typ {
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeInt8:
		_, ok := value.(int8)
		return ok
	case TypeUint8:
		_, ok := value.(uint8)
		return ok
	case TypeInt16:
		_, ok := value.(int16)
		return ok
	case TypeUint16:
		_, ok := value.(uint16)
		return ok
	case TypeInt32:
		_, ok := value.(int32)
		return ok
	case TypeUint32:
		_, ok := value.(uint32)
		return ok
	case TypeInt64:
		_, ok := value.(int64)
		return ok
	case TypeUint64:
		_, ok := value.(uint64)
		return ok
	case TypeFloat:
		_, ok := value.(float32)
		return ok
	case TypeDouble:
		_, ok := value.(float64)
		return ok
	case TypeRational:
		switch value.(type) {
		case Rational, SignedRational:
			return true
		}
		return false
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeDate:
		_, ok := value.(time.Time)
		return ok
	case TypeProperty:
		_, ok := value.(*Property)
		return ok
	case TypeNISOImageMetadata:
		_, ok := value.(*NISOImageMetadata)
		return ok
	}
	return false
}

func sliceMatches(typ PropertyType, value any) bool {
	switch typ {
	case TypeBoolean:
		_, ok := value.([]bool)
		return ok
	case TypeInt8:
		_, ok := value.([]int8)
		return ok
	case TypeUint8:
		_, ok := value.([]uint8)
		return ok
	case TypeInt16:
		_, ok := value.([]int16)
		return ok
	case TypeUint16:
		_, ok := value.([]uint16)
		return ok
	case TypeInt32:
		_, ok := value.([]int32)
		return ok
	case TypeUint32:
		_, ok := value.([]uint32)
		return ok
	case TypeInt64:
		_, ok := value.([]int64)
		return ok
	case TypeUint64:
		_, ok := value.([]uint64)
		return ok
	case TypeFloat:
		_, ok := value.([]float32)
		return ok
	case TypeDouble:
		_, ok := value.([]float64)
		return ok
	case TypeRational:
		switch value.(type) {
		case []Rational, []SignedRational:
			return true
		}
		return false
	case TypeString:
		_, ok := value.([]string)
		return ok
	case TypeDate:
		_, ok := value.([]time.Time)
		return ok
	case TypeProperty:
		_, ok := value.([]*Property)
		return ok
	}
	return false
}
