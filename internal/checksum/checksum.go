// Package checksum provides a fast, non-cryptographic content digest used
// for cheap equality checks over large byte payloads (a DATA segment, a
// raw keyword bag) where a full structural comparison is wasteful.
package checksum

import "github.com/cespare/xxhash/v2"

// Sum64 returns the xxhash64 digest of b.
func Sum64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Digest accumulates multiple byte slices into a single digest, in the
// order they are written. Used to fingerprint a set of ordered (key,
// value) pairs without concatenating them into one buffer first.
type Digest struct {
	h *xxhash.Digest
}

// New returns an empty Digest.
func New() *Digest {
	return &Digest{h: xxhash.New()}
}

// Write adds b to the digest. It never returns an error.
func (d *Digest) Write(b []byte) {
	_, _ = d.h.Write(b)
}

// WriteString adds s to the digest.
func (d *Digest) WriteString(s string) {
	_, _ = d.h.WriteString(s)
}

// Sum64 returns the accumulated digest.
func (d *Digest) Sum64() uint64 {
	return d.h.Sum64()
}
