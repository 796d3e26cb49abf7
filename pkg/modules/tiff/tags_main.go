// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package tiff

import (
	"time"

	"github.com/willp-bl/jhove/pkg/jhove"
)

// Main-IFD tags (TIFF 6.0 unless noted).
const (
	tagNewSubfileType            = 254
	tagSubfileType               = 255
	tagImageWidth                = 256
	tagImageLength               = 257
	tagBitsPerSample             = 258
	tagCompression               = 259
	tagPhotometricInterpretation = 262
	tagThreshholding             = 263
	tagFillOrder                 = 266
	tagDocumentName              = 269
	tagImageDescription          = 270
	tagMake                      = 271
	tagModel                     = 272
	tagStripOffsets              = 273
	tagOrientation               = 274
	tagSamplesPerPixel           = 277
	tagRowsPerStrip              = 278
	tagStripByteCounts           = 279
	tagXResolution               = 282
	tagYResolution               = 283
	tagPlanarConfiguration       = 284
	tagPageName                  = 285
	tagResolutionUnit            = 296
	tagPageNumber                = 297
	tagSoftware                  = 305
	tagDateTime                  = 306
	tagArtist                    = 315
	tagHostComputer              = 316
	tagColorMap                  = 320
	tagTileWidth                 = 322
	tagTileLength                = 323
	tagTileOffsets               = 324
	tagTileByteCounts            = 325
	tagExtraSamples              = 338
	tagSampleFormat              = 339
	tagCopyright                 = 33432

	// Pointer tags to subordinate IFDs.
	tagGlobalParametersIFD = 400 // TIFF/FX
	tagExifIFD             = 34665
	tagGPSIFD              = 34853
	tagInteropIFD          = 40965
)

var compressionLabels = map[uint32]string{
	1:     "uncompressed",
	2:     "CCITT 1D",
	3:     "CCITT Group 3",
	4:     "CCITT Group 4",
	5:     "LZW",
	6:     "JPEG (obsolete)",
	7:     "JPEG",
	8:     "Deflate",
	32773: "PackBits",
}

var photometricLabels = map[uint32]string{
	0: "WhiteIsZero",
	1: "BlackIsZero",
	2: "RGB",
	3: "palette color",
	4: "transparency mask",
	5: "CMYK",
	6: "YCbCr",
	8: "CIE L*a*b*",
}

var orientationLabels = map[uint32]string{
	1: "normal",
	2: "flipped horizontally",
	3: "rotated 180 degrees",
	4: "flipped vertically",
	5: "transposed",
	6: "rotated 90 degrees clockwise",
	7: "transversed",
	8: "rotated 90 degrees counterclockwise",
}

var resolutionUnitLabels = map[uint32]string{
	1: "no absolute unit",
	2: "inch",
	3: "centimeter",
}

var planarLabels = map[uint32]string{
	1: "chunky",
	2: "planar",
}

var fillOrderLabels = map[uint32]string{
	1: "high-order bit first",
	2: "low-order bit first",
}

var thresholdingLabels = map[uint32]string{
	1: "no dithering or halftoning",
	2: "ordered dither or halftone",
	3: "randomized process",
}

var subfileTypeLabels = map[uint32]string{
	1: "full-resolution image",
	2: "reduced-resolution image",
	3: "single page of multi-page image",
}

var sampleFormatLabels = map[uint32]string{
	1: "unsigned integer",
	2: "signed integer",
	3: "IEEE floating point",
	4: "undefined",
}

var extraSamplesLabels = map[uint32]string{
	0: "unspecified",
	1: "associated alpha",
	2: "unassociated alpha",
}

var newSubfileTypeBits = []string{
	"reduced-resolution image",
	"page of multi-page image",
	"transparency mask",
}

const dateTimeLayout = "2006:01:02 15:04:05"

// mainTable carries the per-directory state of a main (or thumbnail/page)
// IFD: accumulated properties, subordinate-IFD references, and the fields
// the cross-tag checks and the NISO composite need.
type mainTable struct {
	props []*jhove.Property
	subs  []subIFDRef
	niso  *jhove.NISOImageMetadata

	hasStripOffsets    bool
	hasStripByteCounts bool
	hasTileWidth       bool
	hasTileLength      bool
	hasTileOffsets     bool
	hasTileByteCounts  bool
	photometric        int64
	samplesPerPixel    int64
}

func newMainTable() *mainTable {
	return &mainTable{
		niso:            jhove.NewNISOImageMetadata(),
		photometric:     -1,
		samplesPerPixel: -1,
	}
}

func (t *mainTable) add(p *jhove.Property) {
	t.props = append(t.props, p)
}

func (t *mainTable) properties() []*jhove.Property { return t.props }

func (t *mainTable) subIFDs() []subIFDRef { return t.subs }

func (t *mainTable) lookupTag(p *parser, d *ifd, e entry) error {
	switch e.tag {
	case tagNewSubfileType:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.bitmaskProperty("NewSubfileType", v, newSubfileTypeBits))
	case tagSubfileType:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.enumProperty(d, e, "SubfileType", v, subfileTypeLabels))
	case tagImageWidth:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.niso.ImageWidth = int64(v)
		t.add(jhove.NewUint32Property("ImageWidth", v))
	case tagImageLength:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.niso.ImageLength = int64(v)
		t.add(jhove.NewUint32Property("ImageLength", v))
	case tagBitsPerSample:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		bits := make([]int, len(vs))
		for i, v := range vs {
			bits[i] = int(v)
		}
		t.niso.BitsPerSample = bits
		t.add(jhove.NewProperty("BitsPerSample", jhove.TypeUint32, jhove.ArityArray, vs))
	case tagCompression:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.niso.CompressionScheme = int(v)
		t.add(p.enumProperty(d, e, "Compression", v, compressionLabels))
	case tagPhotometricInterpretation:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.photometric = int64(v)
		t.niso.ColorSpace = int(v)
		t.add(p.enumProperty(d, e, "PhotometricInterpretation", v, photometricLabels))
	case tagThreshholding:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.enumProperty(d, e, "Threshholding", v, thresholdingLabels))
	case tagFillOrder:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(p.enumProperty(d, e, "FillOrder", v, fillOrderLabels))
	case tagDocumentName:
		return t.asciiTag(p, e, "DocumentName")
	case tagImageDescription:
		return t.asciiTag(p, e, "ImageDescription")
	case tagMake:
		s, err := p.readASCII(e)
		if err != nil {
			return err
		}
		t.niso.ScannerManufacturer = s
		t.add(jhove.NewStringProperty("Make", s))
	case tagModel:
		s, err := p.readASCII(e)
		if err != nil {
			return err
		}
		t.niso.ScannerModelName = s
		t.add(jhove.NewStringProperty("Model", s))
	case tagStripOffsets:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		t.hasStripOffsets = true
		if p.mod.Verbose {
			t.add(jhove.NewProperty("StripOffsets", jhove.TypeUint32, jhove.ArityArray, vs))
		}
	case tagOrientation:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.niso.Orientation = int(v)
		t.add(p.enumProperty(d, e, "Orientation", v, orientationLabels))
	case tagSamplesPerPixel:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.samplesPerPixel = int64(v)
		t.niso.SamplesPerPixel = int(v)
		t.add(jhove.NewUint32Property("SamplesPerPixel", v))
	case tagRowsPerStrip:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewUint32Property("RowsPerStrip", v))
	case tagStripByteCounts:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		t.hasStripByteCounts = true
		if p.mod.Verbose {
			t.add(jhove.NewProperty("StripByteCounts", jhove.TypeUint32, jhove.ArityArray, vs))
		}
	case tagXResolution:
		r, err := p.readRational(e)
		if err != nil {
			return err
		}
		t.niso.XSamplingFrequency = r
		t.add(jhove.NewRationalProperty("XResolution", r))
	case tagYResolution:
		r, err := p.readRational(e)
		if err != nil {
			return err
		}
		t.niso.YSamplingFrequency = r
		t.add(jhove.NewRationalProperty("YResolution", r))
	case tagPlanarConfiguration:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.niso.PlanarConfiguration = int(v)
		t.add(p.enumProperty(d, e, "PlanarConfiguration", v, planarLabels))
	case tagPageName:
		return t.asciiTag(p, e, "PageName")
	case tagResolutionUnit:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.niso.SamplingFrequencyUnit = int(v)
		t.add(p.enumProperty(d, e, "ResolutionUnit", v, resolutionUnitLabels))
	case tagPageNumber:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewProperty("PageNumber", jhove.TypeUint32, jhove.ArityArray, vs))
	case tagSoftware:
		s, err := p.readASCII(e)
		if err != nil {
			return err
		}
		t.niso.ScanningSoftware = s
		t.add(jhove.NewStringProperty("Software", s))
	case tagDateTime:
		s, err := p.readASCII(e)
		if err != nil {
			return err
		}
		if _, perr := time.Parse(dateTimeLayout, s); perr == nil {
			t.niso.DateTimeCreated = s
		} else {
			d.addError(jhove.NewWarningMessage(msgIDUnrecognizedValue,
				"DateTime not in YYYY:MM:DD HH:MM:SS format: %q", s).WithOffset(e.offset))
		}
		t.add(jhove.NewStringProperty("DateTime", s))
	case tagArtist:
		s, err := p.readASCII(e)
		if err != nil {
			return err
		}
		t.niso.ImageProducer = s
		t.add(jhove.NewStringProperty("Artist", s))
	case tagHostComputer:
		return t.asciiTag(p, e, "HostComputer")
	case tagColorMap:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		if p.mod.Verbose {
			t.add(jhove.NewProperty("ColorMap", jhove.TypeUint32, jhove.ArityArray, vs))
		} else {
			t.add(jhove.NewUint32Property("ColorMapEntries", uint32(len(vs))))
		}
	case tagTileWidth:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.hasTileWidth = true
		t.add(jhove.NewUint32Property("TileWidth", v))
	case tagTileLength:
		v, err := p.readUint(e)
		if err != nil {
			return err
		}
		t.hasTileLength = true
		t.add(jhove.NewUint32Property("TileLength", v))
	case tagTileOffsets:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		t.hasTileOffsets = true
		if p.mod.Verbose {
			t.add(jhove.NewProperty("TileOffsets", jhove.TypeUint32, jhove.ArityArray, vs))
		}
	case tagTileByteCounts:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		t.hasTileByteCounts = true
		if p.mod.Verbose {
			t.add(jhove.NewProperty("TileByteCounts", jhove.TypeUint32, jhove.ArityArray, vs))
		}
	case tagExtraSamples:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		extra := make([]int, len(vs))
		for i, v := range vs {
			extra[i] = int(v)
		}
		t.niso.ExtraSamples = extra
		t.add(jhove.NewProperty("ExtraSamples", jhove.TypeUint32, jhove.ArityArray, vs))
	case tagSampleFormat:
		vs, err := p.readUintArray(e)
		if err != nil {
			return err
		}
		t.add(jhove.NewProperty("SampleFormat", jhove.TypeUint32, jhove.ArityArray, vs))
	case tagCopyright:
		return t.asciiTag(p, e, "Copyright")
	case tagExifIFD:
		return t.pointerTag(p, e, kindExif)
	case tagGPSIFD:
		return t.pointerTag(p, e, kindGPS)
	case tagInteropIFD:
		return t.pointerTag(p, e, kindInterop)
	case tagGlobalParametersIFD:
		return t.pointerTag(p, e, kindGlobalParams)
	default:
		prop, err := p.unknownTagProperty(e)
		if err != nil {
			return err
		}
		t.add(prop)
	}
	return nil
}

func (t *mainTable) asciiTag(p *parser, e entry, name string) error {
	s, err := p.readASCII(e)
	if err != nil {
		return err
	}
	t.add(jhove.NewStringProperty(name, s))
	return nil
}

func (t *mainTable) pointerTag(p *parser, e entry, kind ifdKind) error {
	if err := p.checkType(e, typeLong, typeIFD); err != nil {
		return err
	}
	v, err := p.readUint(e)
	if err != nil {
		return err
	}
	t.subs = append(t.subs, subIFDRef{kind: kind, offset: int64(v)})
	return nil
}

// postParse checks the invariants that span tags: strip-vs-tile
// exclusivity, complete strip/tile tag sets, and colorspace versus sample
// count. It then attaches the NISO composite.
func (t *mainTable) postParse(p *parser, d *ifd) error {
	strips := t.hasStripOffsets || t.hasStripByteCounts
	tiles := t.hasTileWidth || t.hasTileLength || t.hasTileOffsets || t.hasTileByteCounts
	if strips && tiles {
		d.addError(jhove.NewErrorMessage(msgIDStripsAndTiles,
			"IFD at offset %d defines both strips and tiles", d.offset).WithOffset(d.offset))
	}
	if strips && (t.hasStripOffsets != t.hasStripByteCounts) {
		d.addError(jhove.NewErrorMessage(msgIDIncompleteStrips,
			"StripOffsets and StripByteCounts must both be present").WithOffset(d.offset))
	}
	if tiles && !(t.hasTileWidth && t.hasTileLength && t.hasTileOffsets && t.hasTileByteCounts) {
		d.addError(jhove.NewErrorMessage(msgIDIncompleteStrips,
			"tile tags are incomplete (width, length, offsets and byte counts are all required)").WithOffset(d.offset))
	}

	// RGB and YCbCr need at least three samples per pixel.
	if (t.photometric == 2 || t.photometric == 6) && t.samplesPerPixel >= 0 && t.samplesPerPixel < 3 {
		d.addError(jhove.NewErrorMessage(msgIDPhotometricSamples,
			"PhotometricInterpretation %d requires at least 3 samples per pixel, got %d",
			t.photometric, t.samplesPerPixel).WithOffset(d.offset))
	}

	t.niso.ByteOrder = byteOrderName(p.order)
	t.add(jhove.NewProperty("NISOImageMetadata", jhove.TypeNISOImageMetadata, jhove.ArityScalar, t.niso))
	return nil
}
