// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

// Package text renders RepInfo records as indented plain text.
package text

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/willp-bl/jhove/pkg/jhove"
)

// Handler writes plain-text reports. It owns its writer and closes it (when
// closable) at the end of the run.
type Handler struct {
	jhove.Indenter
	w io.Writer
}

// New returns a text handler writing to w.
func New(w io.Writer) *Handler {
	return &Handler{w: w}
}

func (h *Handler) Descriptor() jhove.HandlerDescriptor {
	return jhove.HandlerDescriptor{
		Name:    "TEXT",
		Release: "1.0",
		Date:    "2026-07-15",
	}
}

func (h *Handler) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(h.w, "%s%s\n", h.Prefix(), fmt.Sprintf(format, args...))
	return err
}

func (h *Handler) ShowHeader() error { return nil }

func (h *Handler) ShowApp(app jhove.App) error {
	if err := h.printf("%s %s (%s)", app.Name, app.Release, app.Date); err != nil {
		return err
	}
	if app.Rights != "" {
		return h.printf(" %s", app.Rights)
	}
	return nil
}

func (h *Handler) ShowModule(m jhove.Module) error {
	d := m.Descriptor()
	if err := h.printf("Module: %s %s (%s)", d.Name, d.Release, d.Date); err != nil {
		return err
	}
	h.Indent()
	defer h.Outdent()
	if len(d.Formats) > 0 {
		if err := h.printf("Formats: %v", d.Formats); err != nil {
			return err
		}
	}
	if d.Vendor != "" {
		if err := h.printf("Vendor: %s", d.Vendor); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) ShowHandler(other jhove.Handler) error {
	d := other.Descriptor()
	return h.printf("Handler: %s %s (%s)", d.Name, d.Release, d.Date)
}

func (h *Handler) ShowRepInfo(info *jhove.RepInfo) error {
	if err := h.printf("File: %s", info.URI); err != nil {
		return err
	}
	h.Indent()
	defer h.Outdent()

	if info.Module != "" {
		if err := h.printf("ReportingModule: %s, Rel. %s", info.Module, info.ModuleRelease); err != nil {
			return err
		}
	}
	if info.Size >= 0 {
		if err := h.printf("Size: %d", info.Size); err != nil {
			return err
		}
	}
	if !info.LastModified.IsZero() {
		if err := h.printf("LastModified: %s", info.LastModified.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	if info.Format != "" {
		if err := h.printf("Format: %s", info.Format); err != nil {
			return err
		}
	}
	if info.Version != "" {
		if err := h.printf("Version: %s", info.Version); err != nil {
			return err
		}
	}
	if info.MimeType != "" {
		if err := h.printf("MIMEType: %s", info.MimeType); err != nil {
			return err
		}
	}
	if err := h.printf("Status: %s", statusLine(info)); err != nil {
		return err
	}
	if len(info.SigMatch) > 0 {
		if err := h.printf("SignatureMatches: %v", info.SigMatch); err != nil {
			return err
		}
	}

	algs := lo.Keys(info.Checksums)
	sort.Strings(algs)
	for _, alg := range algs {
		if err := h.printf("Checksum (%s): %s", alg, info.Checksums[alg]); err != nil {
			return err
		}
	}

	for _, m := range info.Messages {
		line := fmt.Sprintf("%s [%s]: %s", m.Severity, m.ID, m.Text)
		if m.Offset != jhove.NoOffset {
			line = fmt.Sprintf("%s (offset %d)", line, m.Offset)
		}
		if err := h.printf("%s", line); err != nil {
			return err
		}
		if m.Sub != "" {
			h.Indent()
			if err := h.printf("%s", m.Sub); err != nil {
				h.Outdent()
				return err
			}
			h.Outdent()
		}
	}

	for _, p := range info.Properties {
		if err := h.showProperty(p); err != nil {
			return err
		}
	}
	return nil
}

func statusLine(info *jhove.RepInfo) string {
	switch {
	case info.WellFormed == jhove.True && info.Valid == jhove.True:
		return "Well-Formed and valid"
	case info.WellFormed == jhove.True:
		return "Well-Formed, but not valid"
	case info.WellFormed == jhove.False:
		return "Not well-formed"
	default:
		return "Unknown"
	}
}

func (h *Handler) showProperty(p *jhove.Property) error {
	switch v := p.Value.(type) {
	case []*jhove.Property:
		if err := h.printf("%s:", p.Name); err != nil {
			return err
		}
		h.Indent()
		defer h.Outdent()
		for _, c := range v {
			if err := h.showProperty(c); err != nil {
				return err
			}
		}
		return nil
	case *jhove.Property:
		if err := h.printf("%s:", p.Name); err != nil {
			return err
		}
		h.Indent()
		defer h.Outdent()
		return h.showProperty(v)
	case map[string]*jhove.Property:
		if err := h.printf("%s:", p.Name); err != nil {
			return err
		}
		h.Indent()
		defer h.Outdent()
		keys := lo.Keys(v)
		sort.Strings(keys)
		for _, k := range keys {
			if err := h.showProperty(v[k]); err != nil {
				return err
			}
		}
		return nil
	case *jhove.NISOImageMetadata:
		return h.showNISO(p.Name, v)
	default:
		return h.printf("%s: %s", p.Name, formatValue(p.Value))
	}
}

func (h *Handler) showNISO(name string, n *jhove.NISOImageMetadata) error {
	if err := h.printf("%s:", name); err != nil {
		return err
	}
	h.Indent()
	defer h.Outdent()
	if n.ByteOrder != "" {
		if err := h.printf("ByteOrder: %s", n.ByteOrder); err != nil {
			return err
		}
	}
	if n.ImageWidth >= 0 {
		if err := h.printf("ImageWidth: %d", n.ImageWidth); err != nil {
			return err
		}
	}
	if n.ImageLength >= 0 {
		if err := h.printf("ImageLength: %d", n.ImageLength); err != nil {
			return err
		}
	}
	if n.CompressionScheme >= 0 {
		if err := h.printf("CompressionScheme: %d", n.CompressionScheme); err != nil {
			return err
		}
	}
	if n.ColorSpace >= 0 {
		if err := h.printf("ColorSpace: %d", n.ColorSpace); err != nil {
			return err
		}
	}
	if n.SamplesPerPixel >= 0 {
		if err := h.printf("SamplesPerPixel: %d", n.SamplesPerPixel); err != nil {
			return err
		}
	}
	if len(n.BitsPerSample) > 0 {
		if err := h.printf("BitsPerSample: %v", n.BitsPerSample); err != nil {
			return err
		}
	}
	if n.DateTimeCreated != "" {
		if err := h.printf("DateTimeCreated: %s", n.DateTimeCreated); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case jhove.Rational:
		return vv.String()
	case jhove.SignedRational:
		return vv.String()
	case time.Time:
		return vv.Format(time.RFC3339)
	case []string:
		return fmt.Sprintf("%v", vv)
	default:
		return fmt.Sprintf("%v", vv)
	}
}

func (h *Handler) ShowFooter() error { return nil }

func (h *Handler) Close() error {
	if c, ok := h.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (h *Handler) StartDirectory(path string) error {
	err := h.printf("Directory: %s", path)
	h.Indent()
	return err
}

func (h *Handler) EndDirectory(path string) error {
	h.Outdent()
	return nil
}

func (h *Handler) OkToProcess(path string) bool { return true }

func (h *Handler) Analyze(info *jhove.RepInfo) {}
