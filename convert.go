package fcs

import "github.com/flowfcs/fcs/schema"

// ConvertConfig bundles the cross-version conversion policy.
type ConvertConfig struct {
	Lossless bool
}

// ConvertWarning records one field silently dropped or defaulted by a
// non-lossless conversion.
type ConvertWarning = schema.ConvertWarning

// ConvertFailure reports why a conversion cannot proceed: a field the
// target version requires that the source lacks with no default, a field
// or name that a Lossless conversion would lose, or a $BYTEORD the
// target version cannot express.
type ConvertFailure = schema.ConvertFailure

// Convert maps core onto target, dropping fields the target version
// doesn't define (or failing under cfg.Lossless) and requiring every
// field the target version mandates with no default.
func Convert(core CoreTEXT, target Version, cfg ConvertConfig) (CoreTEXT, []ConvertWarning, error) {
	mr, meas, warnings, err := schema.Convert(core.MetaRoot, core.Measurements, target, schema.ConvertConfig{Lossless: cfg.Lossless})
	if err != nil {
		return CoreTEXT{}, nil, err
	}
	return CoreTEXT{Delimiter: core.Delimiter, MetaRoot: mr, Measurements: meas, NonStandard: core.NonStandard}, warnings, nil
}

// ConvertDataset converts ds's CoreTEXT to target, leaving Data,
// Analysis, and Other untouched. A caller that changes $DATATYPE or
// $PnB widths across versions is responsible for re-encoding Data
// against the new layout before writing it back out.
func ConvertDataset(ds CoreDataset, target Version, cfg ConvertConfig) (CoreDataset, []ConvertWarning, error) {
	core, warnings, err := Convert(ds.CoreTEXT, target, cfg)
	if err != nil {
		return CoreDataset{}, nil, err
	}
	return CoreDataset{CoreTEXT: core, Data: ds.Data, Analysis: ds.Analysis, Other: ds.Other}, warnings, nil
}
