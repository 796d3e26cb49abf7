// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package tiff

import (
	"strconv"
	"strings"

	"github.com/willp-bl/jhove/pkg/jhove"
)

// Exif-IFD tags.
const (
	tagExposureTime            = 33434
	tagFNumber                 = 33437
	tagISOSpeedRatings         = 34855
	tagExifVersion             = 36864
	tagDateTimeOriginal        = 36867
	tagDateTimeDigitized       = 36868
	tagComponentsConfiguration = 37121
	tagFocalLength             = 37386
	tagColorSpace              = 40961
	tagPixelXDimension         = 40962
	tagPixelYDimension         = 40963
	tagFileSource              = 41728
	tagSceneType               = 41729
)

var exifColorSpaceLabels = map[uint32]string{
	1:      "sRGB",
	0xffff: "uncalibrated",
}

type exifTable struct {
	props []*jhove.Property
	subs  []subIFDRef
}

func (t *exifTable) add(p *jhove.Property)          { t.props = append(t.props, p) }
func (t *exifTable) properties() []*jhove.Property  { return t.props }
func (t *exifTable) subIFDs() []subIFDRef           { return t.subs }
func (t *exifTable) postParse(*parser, *ifd) error  { return nil }

func (t *exifTable) lookupTag(p *parser, d *ifd, e entry) error {
	switch e.tag {
	case tagExposureTime:
		r, err := p.readRational(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewRationalProperty("ExposureTime", r))
	case tagFNumber:
		r, err := p.readRational(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewRationalProperty("FNumber", r))
	case tagISOSpeedRatings:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewProperty("ISOSpeedRatings", jhove.TypeUint32, jhove.ArityArray, vs))
	case tagExifVersion:
		b, err := p.readRawBytes(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewStringProperty("ExifVersion", escapeASCII(b)))
	case tagDateTimeOriginal:
		return t.asciiTag(p, e, "DateTimeOriginal")
	case tagDateTimeDigitized:
		return t.asciiTag(p, e, "DateTimeDigitized")
	case tagComponentsConfiguration:
		b, err := p.readRawBytes(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewProperty("ComponentsConfiguration", jhove.TypeUint8, jhove.ArityArray, b))
	case tagFocalLength:
		r, err := p.readRational(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewRationalProperty("FocalLength", r))
	case tagColorSpace:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.enumProperty(d, e, "ColorSpace", v, exifColorSpaceLabels))
	case tagPixelXDimension:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewUint32Property("PixelXDimension", v))
	case tagPixelYDimension:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewUint32Property("PixelYDimension", v))
	case tagFileSource:
		b, err := p.readRawBytes(e)
		if err != nil {
			return err
		}
		if len(b) > 0 {
			t.add(jhove.NewProperty("FileSource", jhove.TypeUint8, jhove.ArityScalar, b[0]))
		}
	case tagSceneType:
		b, err := p.readRawBytes(e)
		if err != nil {
			return err
		}
		if len(b) > 0 {
			t.add(jhove.NewProperty("SceneType", jhove.TypeUint8, jhove.ArityScalar, b[0]))
		}
	case tagInteropIFD:
		// The Interoperability pointer also occurs inside the Exif IFD.
		if err := p.checkType(e, typeLong, typeIFD); err != nil {
			return err
		}
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.subs = append(t.subs, subIFDRef{kind: kindInterop, offset: int64(v)})
	default:
		prop, err := p.unknownTagProperty(e)
		if err != nil {
			return err
		}
		t.add(prop)
	}
	return nil
}

func (t *exifTable) asciiTag(p *parser, e entry, name string) error {
	s, err := p.readASCII(e)
	if err != nil {
		return err
	}
	t.add(jhove.NewStringProperty(name, s))
	return nil
}

// GPS-IFD tags.
const (
	tagGPSVersionID    = 0
	tagGPSLatitudeRef  = 1
	tagGPSLatitude     = 2
	tagGPSLongitudeRef = 3
	tagGPSLongitude    = 4
	tagGPSAltitudeRef  = 5
	tagGPSAltitude     = 6
	tagGPSTimeStamp    = 7
	tagGPSDateStamp    = 29
)

var gpsAltitudeRefLabels = map[uint32]string{
	0: "above sea level",
	1: "below sea level",
}

type gpsTable struct {
	props []*jhove.Property
}

func (t *gpsTable) add(p *jhove.Property)         { t.props = append(t.props, p) }
func (t *gpsTable) properties() []*jhove.Property { return t.props }
func (t *gpsTable) subIFDs() []subIFDRef          { return nil }
func (t *gpsTable) postParse(*parser, *ifd) error { return nil }

func (t *gpsTable) lookupTag(p *parser, d *ifd, e entry) error {
	switch e.tag {
	case tagGPSVersionID:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		if p.mod.Raw {
			t.add(jhove.NewProperty("GPSVersionID", jhove.TypeUint32, jhove.ArityArray, vs))
		} else {
			parts := make([]string, len(vs))
			for i, v := range vs {
				parts[i] = strconv.FormatUint(uint64(v), 10)
			}
			t.add(jhove.NewStringProperty("GPSVersionID", strings.Join(parts, ".")))
		}
	case tagGPSLatitudeRef:
		return t.asciiTag(p, e, "GPSLatitudeRef")
	case tagGPSLatitude:
		return t.rationalArrayTag(p, e, "GPSLatitude")
	case tagGPSLongitudeRef:
		return t.asciiTag(p, e, "GPSLongitudeRef")
	case tagGPSLongitude:
		return t.rationalArrayTag(p, e, "GPSLongitude")
	case tagGPSAltitudeRef:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.enumProperty(d, e, "GPSAltitudeRef", v, gpsAltitudeRefLabels))
	case tagGPSAltitude:
		r, err := p.readRational(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewRationalProperty("GPSAltitude", r))
	case tagGPSTimeStamp:
		return t.rationalArrayTag(p, e, "GPSTimeStamp")
	case tagGPSDateStamp:
		return t.asciiTag(p, e, "GPSDateStamp")
	default:
		prop, err := p.unknownTagProperty(e)
		if err != nil {
			return err
		}
		t.add(prop)
	}
	return nil
}

func (t *gpsTable) asciiTag(p *parser, e entry, name string) error {
	s, err := p.readASCII(e)
	if err != nil {
		return err
	}
	t.add(jhove.NewStringProperty(name, s))
	return nil
}

func (t *gpsTable) rationalArrayTag(p *parser, e entry, name string) error {
	rs, err := p.readRationalArray(e)
	if err != nil {
		return err
	}
	t.add(jhove.NewProperty(name, jhove.TypeRational, jhove.ArityArray, rs))
	return nil
}

// Interoperability-IFD tags.
const (
	tagInteropIndex   = 1
	tagInteropVersion = 2
)

type interopTable struct {
	props []*jhove.Property
}

func (t *interopTable) add(p *jhove.Property)         { t.props = append(t.props, p) }
func (t *interopTable) properties() []*jhove.Property { return t.props }
func (t *interopTable) subIFDs() []subIFDRef          { return nil }
func (t *interopTable) postParse(*parser, *ifd) error { return nil }

func (t *interopTable) lookupTag(p *parser, d *ifd, e entry) error {
	switch e.tag {
	case tagInteropIndex:
		s, err := p.readASCII(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewStringProperty("InteroperabilityIndex", s))
	case tagInteropVersion:
		b, err := p.readRawBytes(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewStringProperty("InteroperabilityVersion", escapeASCII(b)))
	default:
		prop, err := p.unknownTagProperty(e)
		if err != nil {
			return err
		}
		t.add(prop)
	}
	return nil
}

// Global-parameters-IFD tags (TIFF/FX).
const (
	tagProfileType   = 401
	tagFaxProfile    = 402
	tagCodingMethods = 403
	tagVersionYear   = 404
	tagModeNumber    = 405
)

var profileTypeLabels = map[uint32]string{
	0: "unspecified",
	1: "Group 3 fax",
}

var faxProfileLabels = map[uint32]string{
	0: "unknown",
	1: "minimal black & white lossless (S)",
	2: "extended black & white lossless (F)",
	3: "lossless JBIG black & white (J)",
	4: "lossy color and grayscale (C)",
	5: "lossless color and grayscale (L)",
	6: "mixed raster content (M)",
}

var codingMethodsBits = []string{
	"unspecified compression",
	"modified Huffman",
	"modified READ",
	"modified MR",
	"JBIG",
	"baseline JPEG",
	"JBIG color",
}

type globalParamsTable struct {
	props []*jhove.Property
}

func (t *globalParamsTable) add(p *jhove.Property)         { t.props = append(t.props, p) }
func (t *globalParamsTable) properties() []*jhove.Property { return t.props }
func (t *globalParamsTable) subIFDs() []subIFDRef          { return nil }
func (t *globalParamsTable) postParse(*parser, *ifd) error { return nil }

func (t *globalParamsTable) lookupTag(p *parser, d *ifd, e entry) error {
	switch e.tag {
	case tagProfileType:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.enumProperty(d, e, "ProfileType", v, profileTypeLabels))
	case tagFaxProfile:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.enumProperty(d, e, "FaxProfile", v, faxProfileLabels))
	case tagCodingMethods:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.bitmaskProperty("CodingMethods", v, codingMethodsBits))
	case tagVersionYear:
		b, err := p.readRawBytes(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewStringProperty("VersionYear", escapeASCII(b)))
	case tagModeNumber:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewUint32Property("ModeNumber", v))
	default:
		prop, err := p.unknownTagProperty(e)
		if err != nil {
			return err
		}
		t.add(prop)
	}
	return nil
}
