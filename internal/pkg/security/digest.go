package security

import (
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Digest accumulates a BLAKE2b-256 checksum of everything written to it.
type Digest struct {
	h hash.Hash
	n int64
}

// NewDigest returns an empty, unkeyed digest.
func NewDigest() *Digest {
	// New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)
	return &Digest{h: h}
}

// Write adds p to the checksum. It never fails.
func (d *Digest) Write(p []byte) (int, error) {
	d.n += int64(len(p))
	return d.h.Write(p)
}

// Size returns the number of bytes written so far.
func (d *Digest) Size() int64 {
	return d.n
}

// Sum returns the hex encoded checksum of the bytes written so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// SumBytes returns the hex encoded BLAKE2b-256 checksum of b.
func SumBytes(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}
