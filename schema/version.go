// Package schema implements the per-version FCS keyword schema: the
// typed MetaRoot/Optical/Temporal shapes, promotion from a
// keyword.ParsedKeywords bag, Scale/ScaleTransform, and cross-version
// conversion.
package schema

import (
	"fmt"

	"github.com/flowfcs/fcs/measure"
)

// Version is one of the four FCS revisions this library understands.
type Version int

const (
	V20 Version = iota
	V30
	V31
	V32
)

// String renders the HEADER-style version tag, e.g. "FCS3.1".
func (v Version) String() string {
	switch v {
	case V20:
		return "FCS2.0"
	case V30:
		return "FCS3.0"
	case V31:
		return "FCS3.1"
	case V32:
		return "FCS3.2"
	default:
		return "unknown"
	}
}

// ParseVersion parses a HEADER version tag.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "FCS2.0":
		return V20, nil
	case "FCS3.0":
		return V30, nil
	case "FCS3.1":
		return V31, nil
	case "FCS3.2":
		return V32, nil
	default:
		return 0, fmt.Errorf("unrecognized FCS version %q", s)
	}
}

// NamePolicy returns the measure.Policy this version enforces on
// ordinary (non-center) measurement short names: 2.0/3.0 make $PnN
// optional, 3.1/3.2 require it.
func (v Version) NamePolicy() measure.Policy {
	if v == V20 || v == V30 {
		return measure.Maybe
	}
	return measure.Always
}

// HasGain reports whether $PnG is part of this version's schema (3.0+).
func (v Version) HasGain() bool { return v >= V30 }

// HasSupplementalText reports whether $BEGINSTEXT/$ENDSTEXT are required
// (3.0/3.1) or optional (3.2); 2.0 has no supplemental TEXT concept.
func (v Version) HasSupplementalText() bool { return v >= V30 }

// RequiresSupplementalText reports whether the supplemental TEXT segment
// must be present (3.0/3.1), as opposed to optional (3.2).
func (v Version) RequiresSupplementalText() bool { return v == V30 || v == V31 }
