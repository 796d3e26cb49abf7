// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

// NISOImageMetadata is the still-image technical metadata composite.
// Zero values mean "not recorded"; integer fields that legitimately take
// zero use -1 as their unset marker.
type NISOImageMetadata struct {
	ByteOrder         string
	CompressionScheme int
	ColorSpace        int
	ImageWidth        int64
	ImageLength       int64
	Orientation       int
	SamplesPerPixel   int
	BitsPerSample     []int

	XSamplingFrequency    Rational
	YSamplingFrequency    Rational
	SamplingFrequencyUnit int

	PlanarConfiguration int
	ExtraSamples        []int

	ScannerManufacturer string
	ScannerModelName    string
	ScanningSoftware    string
	DateTimeCreated     string
	ImageProducer       string
}

// NewNISOImageMetadata returns a composite with unset integer markers.
func NewNISOImageMetadata() *NISOImageMetadata {
	return &NISOImageMetadata{
		CompressionScheme:     -1,
		ColorSpace:            -1,
		ImageWidth:            -1,
		ImageLength:           -1,
		Orientation:           -1,
		SamplesPerPixel:       -1,
		SamplingFrequencyUnit: -1,
		PlanarConfiguration:   -1,
	}
}
