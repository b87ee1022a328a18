// Package layout implements the DATA layout algebra: per-column
// encodings (ASCII, fixed-width integer, IEEE float/double), byte order,
// row-count derivation, the loss-aware numeric cast table, and the
// DATA reader/writer that those types parameterize.
package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// SizedByteOrd describes how the bytes of one column's on-disk value map
// onto a native multi-byte integer or float, either as a plain
// endianness tag or as an explicit byte permutation.
//
// Perm[srcIdx] gives the native byte position (0 = least significant)
// that the srcIdx-th on-disk byte supplies — the same convention FCS's
// own $BYTEORD keyword uses ("1,2,3,4" lists, per on-disk position, which
// value-byte-number belongs there; value byte 1 is the LSB).
type SizedByteOrd struct {
	Perm []int
}

// LittleEndian returns the byte order for a native little-endian layout
// of n bytes (on-disk position i supplies native byte i).
func LittleEndian(n int) SizedByteOrd {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return SizedByteOrd{Perm: p}
}

// BigEndian returns the byte order for a native big-endian layout of n
// bytes (on-disk position i supplies native byte n-1-i).
func BigEndian(n int) SizedByteOrd {
	p := make([]int, n)
	for i := range p {
		p[i] = n - 1 - i
	}
	return SizedByteOrd{Perm: p}
}

// Permutation returns an explicit byte order from a 0-based native-byte
// mapping.
func Permutation(perm []int) (SizedByteOrd, error) {
	n := len(perm)
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return SizedByteOrd{}, fmt.Errorf("invalid byte-order permutation %v", perm)
		}
		seen[p] = true
	}
	return SizedByteOrd{Perm: append([]int{}, perm...)}, nil
}

// Len returns the byte width this order describes.
func (o SizedByteOrd) Len() int { return len(o.Perm) }

// IsLittleEndian reports whether the permutation is the identity
// (ascending) order.
func (o SizedByteOrd) IsLittleEndian() bool {
	for i, p := range o.Perm {
		if p != i {
			return false
		}
	}
	return true
}

// IsBigEndian reports whether the permutation is fully reversed
// (descending) order.
func (o SizedByteOrd) IsBigEndian() bool {
	n := len(o.Perm)
	for i, p := range o.Perm {
		if p != n-1-i {
			return false
		}
	}
	return true
}

// ReadUint assembles a native unsigned integer from buf (len(buf) ==
// o.Len()) per the byte order.
func (o SizedByteOrd) ReadUint(buf []byte) uint64 {
	var v uint64
	for srcIdx, b := range buf {
		v |= uint64(b) << uint(8*o.Perm[srcIdx])
	}
	return v
}

// WriteUint serializes v into a buffer of o.Len() bytes per the byte order.
func (o SizedByteOrd) WriteUint(v uint64) []byte {
	buf := make([]byte, o.Len())
	for srcIdx := range buf {
		buf[srcIdx] = byte(v >> uint(8*o.Perm[srcIdx]))
	}
	return buf
}

// ParseByteOrd parses a $BYTEORD value such as "1,2,3,4" or "4,3,2,1"
// into a SizedByteOrd. Values are 1-based value-byte-numbers per the FCS
// standard.
func ParseByteOrd(s string) (SizedByteOrd, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	perm := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return SizedByteOrd{}, fmt.Errorf("invalid $BYTEORD %q: %w", s, err)
		}
		perm[i] = n - 1
	}
	return Permutation(perm)
}

// ParseByteOrdStrict parses a 3.1+ $BYTEORD value, which must be either
// "1,2,...,n" (little) or "n,...,2,1" (big); any other permutation is
// malformed.
func ParseByteOrdStrict(s string, n int) (SizedByteOrd, error) {
	o, err := ParseByteOrd(s)
	if err != nil {
		return SizedByteOrd{}, err
	}
	if o.Len() != n {
		return SizedByteOrd{}, fmt.Errorf("$BYTEORD %q declares %d bytes, expected %d", s, o.Len(), n)
	}
	if !o.IsLittleEndian() && !o.IsBigEndian() {
		return SizedByteOrd{}, fmt.Errorf("$BYTEORD %q must be ascending or descending in FCS 3.1+", s)
	}
	return o, nil
}
