// Package segment implements the Segment(begin, end) value type shared by
// every region of an FCS file (TEXT, supplemental TEXT, DATA, ANALYSIS,
// OTHER) and the HEADER/TEXT offset reconciliation rules that govern it.
package segment

import "fmt"

// Region tags which part of the file a Segment addresses.
type Region int

const (
	RegionText Region = iota
	RegionPrimaryText
	RegionSupplementalText
	RegionData
	RegionAnalysis
	RegionOther
)

func (r Region) String() string {
	switch r {
	case RegionText:
		return "TEXT"
	case RegionPrimaryText:
		return "primary TEXT"
	case RegionSupplementalText:
		return "supplemental TEXT"
	case RegionData:
		return "DATA"
	case RegionAnalysis:
		return "ANALYSIS"
	case RegionOther:
		return "OTHER"
	default:
		return "unknown region"
	}
}

// Source tags where a Segment's offsets were read from.
type Source int

const (
	SourceHeader Source = iota
	SourceText
)

func (s Source) String() string {
	if s == SourceHeader {
		return "HEADER"
	}
	return "TEXT"
}

// MaxHeaderOffset is the largest value an 8-digit HEADER offset field can
// hold.
const MaxHeaderOffset = 99_999_999

// Segment is an inclusive-endpoint byte range within an FCS file. The
// empty segment is the fixed value (0, 0); every other segment satisfies
// Begin <= End.
type Segment struct {
	Begin  uint32
	End    uint32
	Region Region
	Source Source
}

// New constructs a Segment, validating begin <= end unless both are zero
// (the empty convention).
func New(begin, end uint32, region Region, source Source) (Segment, error) {
	s := Segment{Begin: begin, End: end, Region: region, Source: source}
	if s.IsEmpty() {
		return s, nil
	}
	if begin > end {
		return Segment{}, fmt.Errorf("segment %s (%s): begin %d > end %d", region, source, begin, end)
	}
	return s, nil
}

// Empty returns the canonical empty segment for region/source.
func Empty(region Region, source Source) Segment {
	return Segment{Region: region, Source: source}
}

// IsEmpty reports whether the segment is the (0,0) empty convention.
func (s Segment) IsEmpty() bool {
	return s.Begin == 0 && s.End == 0
}

// Len returns the inclusive byte length of the segment, 0 when empty.
func (s Segment) Len() uint32 {
	if s.IsEmpty() {
		return 0
	}
	return s.End - s.Begin + 1
}

// Equal compares only the numeric range, ignoring Region/Source tags.
func (s Segment) Equal(o Segment) bool {
	return s.Begin == o.Begin && s.End == o.End
}

// Contains reports whether o lies entirely within s. An empty segment
// contains nothing (including another empty segment), matching the
// convention that length-0 ranges address no bytes.
func (s Segment) Contains(o Segment) bool {
	if s.IsEmpty() || o.IsEmpty() {
		return false
	}
	return s.Begin <= o.Begin && o.End <= s.End
}

// Overlaps reports whether s and o share any byte.
func (s Segment) Overlaps(o Segment) bool {
	if s.IsEmpty() || o.IsEmpty() {
		return false
	}
	return s.Begin <= o.End && o.Begin <= s.End
}

// IsValidHeaderOffset reports whether v fits in an 8-digit HEADER field.
func IsValidHeaderOffset(v uint32) bool {
	return v <= MaxHeaderOffset
}

// Correction is a pair of signed adjustments applied to a (begin, end)
// offset pair before a Segment is constructed.
type Correction struct {
	Begin int32
	End   int32
}

// Apply adds the correction to a raw (begin, end) pair, clamping at zero.
// It never produces a negative offset unless allowNegative is set, in
// which case the result is returned as-is (and will fail Segment
// validation if it ends up inconsistent).
func (c Correction) Apply(begin, end uint32, allowNegative bool) (uint32, uint32) {
	nb := int64(begin) + int64(c.Begin)
	ne := int64(end) + int64(c.End)
	if !allowNegative {
		if nb < 0 {
			nb = 0
		}
		if ne < 0 {
			ne = 0
		}
	}
	return uint32(nb), uint32(ne)
}

// Resolution is the outcome of reconciling a HEADER-provided offset pair
// against a TEXT-provided offset pair for the same region.
type Resolution struct {
	Segment  Segment
	Mismatch bool
}

// Resolve picks the authoritative (begin, end) pair for a region given an
// optional HEADER pair and an optional TEXT pair. TEXT offsets override
// HEADER offsets whenever both are present, even an empty TEXT pair; a
// difference between the two (other than an empty HEADER pair) is
// reported via Resolution.Mismatch so the caller can
// emit a SegmentMismatch warning (or promote it to an error under
// allow_header_text_offset_mismatch=false).
func Resolve(region Region, header, text *Segment) (Resolution, error) {
	switch {
	case header == nil && text == nil:
		return Resolution{Segment: Empty(region, SourceHeader)}, nil
	case header == nil:
		return Resolution{Segment: *text}, nil
	case text == nil:
		return Resolution{Segment: *header}, nil
	}

	if header.Equal(*text) {
		return Resolution{Segment: *text}, nil
	}
	// Header offset of (0,0) (or absent) is not a genuine mismatch when
	// TEXT supplies the real value, e.g. $BEGINDATA/$ENDDATA exceeding
	// the 8-digit HEADER field.
	if header.IsEmpty() {
		return Resolution{Segment: *text}, nil
	}
	return Resolution{Segment: *text, Mismatch: true}, nil
}
