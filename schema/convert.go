package schema

import (
	"fmt"

	"github.com/flowfcs/fcs/measure"
)

// ConvertFailure reports why a cross-version conversion could not
// proceed: a source-only field with no lossless path, a target-required
// field with no source value and no version default, or a structural
// shift (name policy, $BYTEORD permutation shape) the target can't host.
type ConvertFailure struct {
	Field  string
	Reason string
}

func (e *ConvertFailure) Error() string {
	return fmt.Sprintf("cannot convert field %s: %s", e.Field, e.Reason)
}

// ConvertConfig controls how Convert treats fields the target version
// doesn't define: Lossless demands every source-only field survive or
// the conversion fails outright; otherwise such fields are dropped with
// a warning. ShortnamePrefix is the prefix a measurement without a
// stored $PnN is assigned under non-lossless conversion; it defaults to
// "$P" when empty.
type ConvertConfig struct {
	Lossless        bool
	ShortnamePrefix string
}

// ConvertWarning records one field silently dropped or defaulted during
// a conversion that was not required to be lossless.
type ConvertWarning struct {
	Field string
	Info  string
}

// Convert maps a MetaRoot plus its measurement vector from one version's
// schema onto another's, per the rules: fields the target doesn't
// define are dropped (or fail the conversion under Lossless); fields the
// target requires but the source lacks fail unless a default exists;
// $PnN requirements are enforced under a name-policy shift; $BYTEORD
// permutations must reduce to ascending/descending when moving into
// 3.1/3.2.
func Convert(mr MetaRoot, meas *measure.NamedVec[Temporal, Optical], target Version, cfg ConvertConfig) (MetaRoot, *measure.NamedVec[Temporal, Optical], []ConvertWarning, error) {
	var warnings []ConvertWarning
	drop := func(field, info string) error {
		if cfg.Lossless {
			return &ConvertFailure{Field: field, Reason: info}
		}
		warnings = append(warnings, ConvertWarning{Field: field, Info: info})
		return nil
	}

	out := mr
	out.Version = target

	if target == V20 {
		if mr.CytSN != nil {
			if err := drop("CYTSN", "not defined in FCS2.0"); err != nil {
				return MetaRoot{}, nil, nil, err
			}
			out.CytSN = nil
		}
		if mr.TimeStep != nil {
			if err := drop("TIMESTEP", "not defined in FCS2.0"); err != nil {
				return MetaRoot{}, nil, nil, err
			}
			out.TimeStep = nil
		}
	}
	if target == V20 || target == V30 {
		fields := []struct {
			present bool
			name    string
			clear   func()
		}{
			{mr.Vol != nil, "VOL", func() { out.Vol = nil }},
			{mr.LastModified != nil, "LAST_MODIFIED", func() { out.LastModified = nil }},
			{mr.LastModifier != nil, "LAST_MODIFIER", func() { out.LastModifier = nil }},
			{mr.Originality != nil, "ORIGINALITY", func() { out.Originality = nil }},
			{mr.PlateID != nil, "PLATEID", func() { out.PlateID = nil }},
			{mr.PlateName != nil, "PLATENAME", func() { out.PlateName = nil }},
			{mr.WellID != nil, "WELLID", func() { out.WellID = nil }},
		}
		for _, f := range fields {
			if f.present {
				if err := drop(f.name, "not defined before FCS3.1"); err != nil {
					return MetaRoot{}, nil, nil, err
				}
				f.clear()
			}
		}
	}
	if target != V32 {
		fields := []struct {
			present bool
			name    string
			clear   func()
		}{
			{mr.BeginDateTime != nil, "BEGINDATETIME", func() { out.BeginDateTime = nil }},
			{mr.EndDateTime != nil, "ENDDATETIME", func() { out.EndDateTime = nil }},
			{mr.UnstainedInfo != nil, "UNSTAINEDINFO", func() { out.UnstainedInfo = nil }},
			{len(mr.UnstainedCenters) != 0, "UNSTAINEDCENTERS", func() { out.UnstainedCenters = nil }},
			{mr.CarrierID != nil, "CARRIERID", func() { out.CarrierID = nil }},
			{mr.CarrierType != nil, "CARRIERTYPE", func() { out.CarrierType = nil }},
			{mr.LocationID != nil, "LOCATIONID", func() { out.LocationID = nil }},
			{mr.FlowRate != nil, "FLOWRATE", func() { out.FlowRate = nil }},
		}
		for _, f := range fields {
			if f.present {
				if err := drop(f.name, "only defined in FCS3.2"); err != nil {
					return MetaRoot{}, nil, nil, err
				}
				f.clear()
			}
		}
	}
	if target != V30 && mr.Unicode != nil {
		if err := drop("UNICODE", "only defined in FCS3.0"); err != nil {
			return MetaRoot{}, nil, nil, err
		}
		out.Unicode = nil
	}

	if target == V32 && out.Cyt == nil {
		return MetaRoot{}, nil, nil, &ConvertFailure{Field: "CYT", Reason: "FCS3.2 requires $CYT and no prior version defines a default"}
	}

	perm, err := convertByteOrd(mr.ByteOrd, target)
	if err != nil {
		return MetaRoot{}, nil, nil, err
	}
	out.ByteOrd = perm

	newMeas, measWarnings, err := convertMeasurements(meas, mr.Version, target, cfg)
	if err != nil {
		return MetaRoot{}, nil, nil, err
	}
	warnings = append(warnings, measWarnings...)

	return out, newMeas, warnings, nil
}

// convertByteOrd enforces that a 2.0/3.0-style arbitrary permutation
// reduces to ascending or descending before landing in 3.1/3.2, which
// only represent endianness.
func convertByteOrd(perm []int, target Version) ([]int, error) {
	if target < V31 || perm == nil {
		return perm, nil
	}
	n := len(perm)
	ascending, descending := true, true
	for i, v := range perm {
		if v != i {
			ascending = false
		}
		if v != n-1-i {
			descending = false
		}
	}
	if !ascending && !descending {
		return nil, &ConvertFailure{Field: "BYTEORD", Reason: "permutation is neither ascending nor descending, cannot represent in FCS3.1+"}
	}
	return perm, nil
}

// convertMeasurements rebuilds the NamedVec under the target version's
// NamePolicy. A measurement with no stored $PnN (only a synthesized
// EffectiveName) fails the conversion under cfg.Lossless; otherwise it
// is carried through with a synthesized name and a warning.
func convertMeasurements(meas *measure.NamedVec[Temporal, Optical], from, target Version, cfg ConvertConfig) (*measure.NamedVec[Temporal, Optical], []ConvertWarning, error) {
	if meas == nil {
		return nil, nil, nil
	}
	prefix := cfg.ShortnamePrefix
	if prefix == "" {
		prefix = "$P"
	}

	var warnings []ConvertWarning
	policy := target.NamePolicy()
	entries := make([]measure.Entry[Temporal, Optical], 0, meas.Len())
	for _, el := range meas.All() {
		var key *string
		if meas.HasName(el.Index) {
			n := el.Name
			key = &n
		} else if cfg.Lossless {
			return nil, nil, &ConvertFailure{
				Field:  fmt.Sprintf("P%dN", el.Index+1),
				Reason: "measurement has no stored name",
			}
		} else {
			n := fmt.Sprintf("%s%d", prefix, el.Index+1)
			key = &n
			warnings = append(warnings, ConvertWarning{
				Field: fmt.Sprintf("P%dN", el.Index+1),
				Info:  fmt.Sprintf("no stored name, assigned %q", n),
			})
		}

		if el.IsCenter {
			entries = append(entries, measure.Entry[Temporal, Optical]{Key: key, IsCenter: true, Center: el.Center})
		} else {
			opt := el.NonCenter
			if target < V30 {
				opt.Gain = nil
			}
			if target != V32 {
				opt.Display, opt.Detector, opt.Tag = nil, nil, nil
				opt.MeasurementType, opt.Feature, opt.Analyte = nil, nil, nil
				opt.MeasurementData = 0
			}
			if target < V31 {
				opt.Calibration = nil
			}
			entries = append(entries, measure.Entry[Temporal, Optical]{Key: key, Optical: opt})
		}
	}
	nv, err := measure.TryNew(policy, prefix, entries)
	if err != nil {
		return nil, nil, err
	}
	return nv, warnings, nil
}
