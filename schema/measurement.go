package schema

import "github.com/flowfcs/fcs/validated"

// Optical is one ordinary ($PnX) measurement, covering every
// per-measurement key. Version-gated fields are
// pointers and nil when the version does not define them.
type Optical struct {
	Bits  int    // $PnB, or -1 when $PnB="*" (delimited ASCII)
	Range Range  // $PnR, see validated.Range
	Scale Scale  // derived from $PnE (+ $PnG for 3.0+)

	Filter      *string // $PnF
	LongName    *string // $PnS
	ExcitationL *int    // $PnL
	ExcitationP *string // $PnO (excitation power, free text)
	DetectorT   *string // $PnT (detector type)
	DetectorV   *float64 // $PnV

	Gain *float64 // $PnG, 3.0+

	Display *string // $PnD, 3.2 subdivision display hint ("Linear,lo,hi" etc)

	Calibration      *Calibration // $PnCALIBRATION, 3.1+
	Detector         *string      // $PnDET, 3.2
	Tag              *string      // $PnTAG, 3.2
	MeasurementType  *string      // $PnTYPE, 3.2
	Feature          *string      // $PnFEATURE, 3.2
	Analyte          *string      // $PnANALYTE, 3.2
	MeasurementData  byte         // $PnDATATYPE, 3.2; zero value means "inherit $DATATYPE"
}

// Range reuses the validated big-decimal $PnR scalar.
type Range = validated.Range

// Calibration is the parsed $PnCALIBRATION value: a unit-conversion
// factor plus the unit name.
type Calibration struct {
	Factor float64
	Unit   string
}

// Temporal is the distinguished "time" measurement.
// It carries a narrower field set than Optical: no gain, and its scale is
// constrained to Linear unless the config forces otherwise.
type Temporal struct {
	Bits     int
	Range    Range
	TimeStep float64 // 3.0+; moved here from the metaroot $TIMESTEP key

	Filter      *string
	LongName    *string
	ExcitationL *int
	ExcitationP *string
	DetectorT   *string
	DetectorV   *float64
	Display     *string

	Calibration     *Calibration
	Detector        *string
	Tag             *string
	MeasurementType *string
	MeasurementData byte
}
