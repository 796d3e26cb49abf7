// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

// Package jsonh renders RepInfo records as a single JSON document emitted
// at the footer.
package jsonh

import (
	"encoding/json"
	"io"
	"time"

	"github.com/samber/lo"

	"github.com/willp-bl/jhove/pkg/jhove"
)

// Handler accumulates one document per file and writes the combined report
// when the footer is shown.
type Handler struct {
	w     io.Writer
	app   map[string]any
	files []map[string]any
}

// New returns a JSON handler writing to w.
func New(w io.Writer) *Handler {
	return &Handler{w: w}
}

func (h *Handler) Descriptor() jhove.HandlerDescriptor {
	return jhove.HandlerDescriptor{
		Name:    "JSON",
		Release: "1.0",
		Date:    "2026-07-15",
	}
}

func (h *Handler) ShowHeader() error { return nil }

func (h *Handler) ShowApp(app jhove.App) error {
	h.app = map[string]any{
		"name":    app.Name,
		"release": app.Release,
		"date":    app.Date,
	}
	return nil
}

func (h *Handler) ShowModule(m jhove.Module) error { return nil }

func (h *Handler) ShowHandler(other jhove.Handler) error { return nil }

func (h *Handler) ShowRepInfo(info *jhove.RepInfo) error {
	doc := map[string]any{
		"uri":        info.URI,
		"wellFormed": info.WellFormed.String(),
		"valid":      info.Valid.String(),
	}
	if info.Module != "" {
		doc["reportingModule"] = map[string]any{
			"name":    info.Module,
			"release": info.ModuleRelease,
		}
	}
	if info.Format != "" {
		doc["format"] = info.Format
	}
	if info.Version != "" {
		doc["version"] = info.Version
	}
	if info.MimeType != "" {
		doc["mimeType"] = info.MimeType
	}
	if info.Size >= 0 {
		doc["size"] = info.Size
	}
	if !info.LastModified.IsZero() {
		doc["lastModified"] = info.LastModified.Format(time.RFC3339)
	}
	if len(info.SigMatch) > 0 {
		doc["signatureMatches"] = info.SigMatch
	}
	if len(info.Checksums) > 0 {
		doc["checksums"] = info.Checksums
	}
	if len(info.Messages) > 0 {
		doc["messages"] = lo.Map(info.Messages, func(m *jhove.Message, _ int) map[string]any {
			msg := map[string]any{
				"id":       m.ID,
				"severity": m.Severity.String(),
				"message":  m.Text,
			}
			if m.Offset != jhove.NoOffset {
				msg["offset"] = m.Offset
			}
			if m.Sub != "" {
				msg["subMessage"] = m.Sub
			}
			return msg
		})
	}
	if len(info.Properties) > 0 {
		doc["properties"] = lo.Map(info.Properties, func(p *jhove.Property, _ int) map[string]any {
			return propertyDoc(p)
		})
	}
	h.files = append(h.files, doc)
	return nil
}

func propertyDoc(p *jhove.Property) map[string]any {
	return map[string]any{
		"name":  p.Name,
		"type":  p.Type.String(),
		"arity": p.Arity.String(),
		"value": propertyValue(p.Value),
	}
}

func propertyValue(v any) any {
	switch vv := v.(type) {
	case *jhove.Property:
		return propertyDoc(vv)
	case []*jhove.Property:
		return lo.Map(vv, func(c *jhove.Property, _ int) map[string]any {
			return propertyDoc(c)
		})
	case map[string]*jhove.Property:
		out := make(map[string]any, len(vv))
		for k, c := range vv {
			out[k] = propertyDoc(c)
		}
		return out
	case jhove.Rational:
		return vv.String()
	case jhove.SignedRational:
		return vv.String()
	case []jhove.Rational:
		return lo.Map(vv, func(r jhove.Rational, _ int) string { return r.String() })
	case []jhove.SignedRational:
		return lo.Map(vv, func(r jhove.SignedRational, _ int) string { return r.String() })
	case time.Time:
		return vv.Format(time.RFC3339)
	case *jhove.NISOImageMetadata:
		return nisoDoc(vv)
	default:
		return vv
	}
}

func nisoDoc(n *jhove.NISOImageMetadata) map[string]any {
	doc := map[string]any{}
	if n.ByteOrder != "" {
		doc["byteOrder"] = n.ByteOrder
	}
	if n.ImageWidth >= 0 {
		doc["imageWidth"] = n.ImageWidth
	}
	if n.ImageLength >= 0 {
		doc["imageLength"] = n.ImageLength
	}
	if n.CompressionScheme >= 0 {
		doc["compressionScheme"] = n.CompressionScheme
	}
	if n.ColorSpace >= 0 {
		doc["colorSpace"] = n.ColorSpace
	}
	if n.SamplesPerPixel >= 0 {
		doc["samplesPerPixel"] = n.SamplesPerPixel
	}
	if len(n.BitsPerSample) > 0 {
		doc["bitsPerSample"] = n.BitsPerSample
	}
	if n.Orientation >= 0 {
		doc["orientation"] = n.Orientation
	}
	if n.SamplingFrequencyUnit >= 0 {
		doc["samplingFrequencyUnit"] = n.SamplingFrequencyUnit
	}
	if n.XSamplingFrequency.Den != 0 {
		doc["xSamplingFrequency"] = n.XSamplingFrequency.String()
	}
	if n.YSamplingFrequency.Den != 0 {
		doc["ySamplingFrequency"] = n.YSamplingFrequency.String()
	}
	if n.ScannerManufacturer != "" {
		doc["scannerManufacturer"] = n.ScannerManufacturer
	}
	if n.ScannerModelName != "" {
		doc["scannerModelName"] = n.ScannerModelName
	}
	if n.DateTimeCreated != "" {
		doc["dateTimeCreated"] = n.DateTimeCreated
	}
	return doc
}

// ShowFooter writes the accumulated report.
func (h *Handler) ShowFooter() error {
	doc := map[string]any{"files": h.files}
	if h.app != nil {
		doc["app"] = h.app
	}
	enc := json.NewEncoder(h.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (h *Handler) Close() error {
	if c, ok := h.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (h *Handler) StartDirectory(path string) error { return nil }

func (h *Handler) EndDirectory(path string) error { return nil }

func (h *Handler) OkToProcess(path string) bool { return true }

func (h *Handler) Analyze(info *jhove.RepInfo) {}
