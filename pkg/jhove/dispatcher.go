// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	goerrors "github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
)

// Core message ids. The namespace prefix is owned by the framework; format
// modules own their own prefixes.
const (
	MsgIDFileNotFound  = "JHOVE-1"
	MsgIDIOError       = "JHOVE-2"
	MsgIDInternalError = "JHOVE-3"
	MsgIDNoModule      = "JHOVE-4"
)

// Dispatcher drives signature match, parse and emit for files and
// directories. It holds no per-file state; a single Dispatcher serves a
// whole run.
type Dispatcher struct {
	App      App
	Registry *Registry
	Log      *logrus.Entry

	// ChecksumAlgorithms lists the digests to compute per file.
	ChecksumAlgorithms []string
	// SignatureOnly stops after the signature check.
	SignatureOnly bool

	abort atomic.Bool
}

// NewDispatcher returns a Dispatcher for the given application and module
// registry.
func NewDispatcher(app App, registry *Registry, log *logrus.Entry) *Dispatcher {
	return &Dispatcher{App: app, Registry: registry, Log: log}
}

// Abort requests a cooperative stop. It is checked between files and
// between parse passes; in-flight parses complete their current pass.
func (d *Dispatcher) Abort() { d.abort.Store(true) }

// Aborted reports whether an abort was requested.
func (d *Dispatcher) Aborted() bool { return d.abort.Load() }

// Run processes the given paths between a handler header and footer.
// An abort terminates early but still emits the footer.
func (d *Dispatcher) Run(paths []string, pinned Module, h Handler) error {
	if err := h.ShowHeader(); err != nil {
		return err
	}
	for _, p := range paths {
		if d.Aborted() {
			break
		}
		if err := d.Dispatch(p, pinned, h); err != nil {
			return err
		}
	}
	if err := h.ShowFooter(); err != nil {
		return err
	}
	return h.Close()
}

// Dispatch characterizes one path. Directories recurse depth-first with
// name-sorted entries; each file yields exactly one RepInfo to the handler.
func (d *Dispatcher) Dispatch(path string, pinned Module, h Handler) error {
	fi, err := os.Stat(path)
	if err != nil {
		info := NewRepInfo(path)
		info.AddMessage(NewFatalMessage(MsgIDFileNotFound, "file not found or not readable: %v", err))
		return d.emit(h, info)
	}
	if fi.IsDir() {
		return d.dispatchDirectory(path, pinned, h)
	}
	return d.processFile(path, fi, pinned, h)
}

func (d *Dispatcher) dispatchDirectory(path string, pinned Module, h Handler) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	if err := h.StartDirectory(path); err != nil {
		return err
	}
	for _, e := range entries {
		if d.Aborted() {
			break
		}
		if err := d.Dispatch(filepath.Join(path, e.Name()), pinned, h); err != nil {
			return err
		}
	}
	return h.EndDirectory(path)
}

func (d *Dispatcher) processFile(path string, fi os.FileInfo, pinned Module, h Handler) error {
	if !h.OkToProcess(path) {
		return nil
	}

	info := NewRepInfo(path)
	info.Size = fi.Size()
	info.LastModified = fi.ModTime()

	d.Log.WithField("path", path).Debug("processing file")

	f, err := os.Open(path)
	if err != nil {
		info.AddMessage(NewFatalMessage(MsgIDFileNotFound, "cannot open file: %v", err))
		return d.emit(h, info)
	}

	module, ok := d.selectModule(path, f, pinned, info)
	if !ok {
		f.Close()
		return d.emit(h, info)
	}
	if module == nil {
		f.Close()
		info.AddMessage(NewFatalMessage(MsgIDNoModule, "file not recognized by any registered module"))
		return d.emit(h, info)
	}
	if d.SignatureOnly {
		f.Close()
		return d.emit(h, info)
	}

	if module.Descriptor().RandomAccess {
		d.parseRandomAccess(module, f, path, info)
	} else {
		d.parseStream(module, f, path, info)
	}
	return d.emit(h, info)
}

// selectModule runs the signature check of each ranked candidate until one
// accepts, leaving that module's match recorded on info. A (nil, true)
// result means no candidate accepted; false means the check itself failed
// and a fatal message is already recorded.
func (d *Dispatcher) selectModule(path string, f *os.File, pinned Module, info *RepInfo) (Module, bool) {
	var candidates []Module
	if pinned != nil {
		candidates = []Module{pinned}
	} else {
		prefix := make([]byte, d.Registry.PrefixLen())
		n, _ := io.ReadFull(f, prefix)
		candidates = d.Registry.Candidates(path, prefix[:n])
	}

	for _, m := range candidates {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			info.AddMessage(NewFatalMessage(MsgIDIOError, "seek failed: %v", err))
			return nil, false
		}
		m.Reset()
		if !d.guard(info, func() error {
			return m.CheckSignatures(path, f, info)
		}) {
			return nil, false
		}
		if info.WellFormed != False {
			return m, true
		}
		// Not this module; clear the verdict for the next candidate.
		info.WellFormed = Undetermined
		info.Valid = Undetermined
	}
	return nil, true
}

func (d *Dispatcher) parseRandomAccess(m Module, f *os.File, path string, info *RepInfo) {
	rdr := NewReader(f)
	d.guard(info, func() error {
		return m.ParseFile(rdr, info)
	})
	f.Close()
	// Seek-driven parses cannot be teed; the digests get their own pass.
	if len(d.ChecksumAlgorithms) > 0 {
		d.checksumFile(path, info)
	}
}

func (d *Dispatcher) parseStream(m Module, f *os.File, path string, info *RepInfo) {
	cs := NewChecksummer(d.ChecksumAlgorithms)
	cur := f
	parseIndex := 0
	pass := 0
	for {
		if _, err := cur.Seek(0, io.SeekStart); err != nil {
			info.AddMessage(NewFatalMessage(MsgIDIOError, "seek failed: %v", err))
			cur.Close()
			return
		}
		var r io.Reader = cur
		tee := pass == 0 && !cs.Empty()
		if tee {
			r = io.TeeReader(cur, cs)
		}
		var next int
		ok := d.guard(info, func() error {
			var err error
			next, err = m.Parse(r, info, parseIndex)
			return err
		})
		if tee {
			// Digests cover the whole file even when the parse stops early.
			io.Copy(io.Discard, r)
			cs.Apply(info)
		}
		cur.Close()
		if !ok || next == 0 || d.Aborted() {
			return
		}
		parseIndex = next
		pass++
		var err error
		cur, err = os.Open(path)
		if err != nil {
			info.AddMessage(NewFatalMessage(MsgIDIOError, "cannot reopen file for parse pass %d: %v", parseIndex, err))
			return
		}
	}
}

func (d *Dispatcher) checksumFile(path string, info *RepInfo) {
	f, err := os.Open(path)
	if err != nil {
		info.AddMessage(NewErrorMessage(MsgIDIOError, "cannot open file for checksums: %v", err))
		return
	}
	defer f.Close()
	cs := NewChecksummer(d.ChecksumAlgorithms)
	if _, err := io.Copy(cs, f); err != nil {
		info.AddMessage(NewErrorMessage(MsgIDIOError, "checksum read failed: %v", err))
		return
	}
	cs.Apply(info)
}

func (d *Dispatcher) emit(h Handler, info *RepInfo) error {
	h.Analyze(info)
	return h.ShowRepInfo(info)
}

// guard runs fn and transforms every failure into a Fatal message on info:
// a returned error is an I/O-level failure, a panic is an internal error.
// Nothing unwinds past the dispatcher.
func (d *Dispatcher) guard(info *RepInfo, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			wrapped := goerrors.Wrap(r, 2)
			d.Log.WithField("stack", wrapped.ErrorStack()).Error("module panic")
			info.AddMessage(NewFatalMessage(MsgIDInternalError, "internal error: %v", r))
			ok = false
		}
	}()
	if err := fn(); err != nil {
		info.AddMessage(NewFatalMessage(MsgIDIOError, "i/o error: %v", err))
		return false
	}
	return true
}
