package schema

import "time"

// MetaRoot holds the non-indexed standard keywords of a CoreTEXT. Fields
// that only apply to a subset of versions are pointers; Validate enforces
// which of them may be set for a given Version.
type MetaRoot struct {
	Version Version

	ByteOrd  []int // $BYTEORD as a 0-based source-to-native permutation
	DataType byte  // $DATATYPE: 'A', 'I', 'F', or 'D'
	Mode     byte  // $MODE: 'L' (list), or 'C'/'U' (2.0 histogram modes)

	Cyt      *string
	CytSN    *string // 3.0+
	TimeStep *float64

	Spillover *Spillover

	Unicode *string // 3.0 only ($UNICODE, superseded by per-keyword UTF-8 in 3.1+)
	Vol     *float64 // 3.1+

	LastModified *time.Time // 3.1+ $LAST_MODIFIED
	LastModifier *string    // 3.1+
	Originality  *string    // 3.1+ $ORIGINALITY

	PlateID   *string // 3.1+
	PlateName *string // 3.1+
	WellID    *string // 3.1+

	BeginDateTime *time.Time // 3.2 $BEGINDATETIME
	EndDateTime   *time.Time // 3.2 $ENDDATETIME

	UnstainedInfo     *string   // 3.2
	UnstainedCenters  []float64 // 3.2 $UNSTAINEDCENTERS, aligned to Spillover.Names

	CarrierID   *string // 3.2
	CarrierType *string // 3.2
	LocationID  *string // 3.2

	FlowRate *string // 3.2 $FLOWRATE (free text per the original format)

	BTim *time.Time // $BTIM
	ETim *time.Time // $ETIM
	Date *string    // $DATE, kept as text since it composes with BTim/ETim separately

	Comment      *string // $COM
	Cells        *string
	Experiment   *string // $EXP
	Filename     *string // $FIL
	Institution  *string // $INST
	Operator     *string // $OP
	Project      *string // $PROJ
	SmNo         *string // $SMNO
	Source       *string // $SRC
	Sys          *string // $SYS
	Trigger      *Trigger
}

// Trigger is the parsed $TR value: a measurement name plus the threshold
// channel value, referenced by Shortname so a NamedVec rename can be
// reflected without a back-pointer.
type Trigger struct {
	Name      string
	Threshold uint64
}

// Spillover is the parsed $SPILLOVER (or $COMP in 2.0) compensation
// matrix: an n x n matrix of coefficients keyed by measurement short name.
type Spillover struct {
	Names  []string
	Matrix [][]float64
}

// Validate reports whether m's set of non-nil version-gated fields is
// consistent with m.Version.
func (m MetaRoot) Validate() error {
	if m.Version == V20 {
		if m.CytSN != nil || m.Vol != nil || m.LastModified != nil || m.LastModifier != nil ||
			m.Originality != nil || m.PlateID != nil || m.PlateName != nil || m.WellID != nil ||
			m.BeginDateTime != nil || m.EndDateTime != nil || m.UnstainedInfo != nil ||
			len(m.UnstainedCenters) != 0 || m.CarrierID != nil || m.CarrierType != nil ||
			m.LocationID != nil || m.FlowRate != nil {
			return fieldErr("FCS2.0 metaroot carries a field introduced in a later version")
		}
	}
	if m.Version == V30 || m.Version == V20 {
		if m.Vol != nil || m.LastModified != nil || m.LastModifier != nil || m.Originality != nil ||
			m.PlateID != nil || m.PlateName != nil || m.WellID != nil {
			return fieldErr("metaroot carries a field introduced in 3.1+")
		}
	}
	if m.Version != V32 {
		if m.BeginDateTime != nil || m.EndDateTime != nil || m.UnstainedInfo != nil ||
			len(m.UnstainedCenters) != 0 || m.CarrierID != nil || m.CarrierType != nil ||
			m.LocationID != nil || m.FlowRate != nil {
			return fieldErr("metaroot carries a field introduced in 3.2")
		}
	}
	if m.Version != V30 && m.Unicode != nil {
		return fieldErr("$UNICODE only applies to FCS3.0")
	}
	return nil
}

type fieldErr string

func (e fieldErr) Error() string { return string(e) }
