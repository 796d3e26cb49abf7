// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package jhove

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"io"
)

// Checksum algorithm names as they appear in RepInfo.Checksums.
const (
	ChecksumCRC32 = "CRC32"
	ChecksumMD5   = "MD5"
	ChecksumSHA1  = "SHA-1"
)

// Checksummer accumulates the requested digests as bytes flow through it.
// The dispatcher tees the parse stream into one so checksums are computed
// in the same pass as the parse.
type Checksummer struct {
	hashes map[string]hash.Hash
	w      io.Writer
}

// NewChecksummer returns a Checksummer for the given algorithm names.
// Unknown names are ignored.
func NewChecksummer(algorithms []string) *Checksummer {
	c := &Checksummer{hashes: map[string]hash.Hash{}}
	var ws []io.Writer
	for _, alg := range algorithms {
		var h hash.Hash
		switch alg {
		case ChecksumCRC32:
			h = crc32.NewIEEE()
		case ChecksumMD5:
			h = md5.New()
		case ChecksumSHA1:
			h = sha1.New()
		default:
			continue
		}
		c.hashes[alg] = h
		ws = append(ws, h)
	}
	if len(ws) > 0 {
		c.w = io.MultiWriter(ws...)
	}
	return c
}

// Empty reports whether no known algorithm was requested.
func (c *Checksummer) Empty() bool { return c.w == nil }

// Write feeds the digests; it never fails.
func (c *Checksummer) Write(p []byte) (int, error) {
	if c.w != nil {
		c.w.Write(p)
	}
	return len(p), nil
}

// Apply stores the hex digests on the record.
func (c *Checksummer) Apply(info *RepInfo) {
	for alg, h := range c.hashes {
		info.SetChecksum(alg, hex.EncodeToString(h.Sum(nil)))
	}
}
