package schema

import (
	"fmt"

	"github.com/flowfcs/fcs/validated"
)

// ScaleKind tags which variant of Scale/ScaleTransform a measurement
// carries.
type ScaleKind int

const (
	ScaleLinear ScaleKind = iota
	ScaleLog
	ScaleLinearGain // 3.0+ only, derived from $PnG
)

// Scale is the sum type Linear | Log{decades, offset} | Lin{gain}.
// Decades/Offset are only meaningful when Kind ==
// ScaleLog; Gain only when Kind == ScaleLinearGain.
type Scale struct {
	Kind    ScaleKind
	Decades float64
	Offset  float64
	Gain    float64
}

// Linear returns the plain linear scale ($PnE = 0,0 with no $PnG).
func Linear() Scale { return Scale{Kind: ScaleLinear} }

// Log returns a logarithmic scale, validating decades > 0 and offset > 0.
func Log(decades, offset float64) (Scale, error) {
	if _, err := validated.NewPositiveFloat(decades); err != nil {
		return Scale{}, fmt.Errorf("$PnE decades: %w", err)
	}
	if _, err := validated.NewPositiveFloat(offset); err != nil {
		return Scale{}, fmt.Errorf("$PnE offset: %w", err)
	}
	return Scale{Kind: ScaleLog, Decades: decades, Offset: offset}, nil
}

// LinearGain returns a 3.0+ linear-with-gain scale ($PnG).
func LinearGain(gain float64) (Scale, error) {
	if _, err := validated.NewPositiveFloat(gain); err != nil {
		return Scale{}, fmt.Errorf("$PnG: %w", err)
	}
	return Scale{Kind: ScaleLinearGain, Gain: gain}, nil
}

// ParsePnE classifies a "$PnE" value already split into its decades and
// offset numbers.
// (0,0) is linear; fixLogScaleOffsets converts (decades,0) to
// (decades,1) with the caller expected to record a warning.
func ParsePnE(decades, offset float64, fixLogScaleOffsets bool) (scale Scale, fixedOffset bool, err error) {
	if decades == 0 && offset == 0 {
		return Linear(), false, nil
	}
	if decades > 0 && offset == 0 {
		if fixLogScaleOffsets {
			s, err := Log(decades, 1)
			return s, true, err
		}
		return Scale{}, false, fmt.Errorf("$PnE=%v,0 is invalid (offset must be > 0)", decades)
	}
	s, err := Log(decades, offset)
	return s, false, err
}

// ResolvePnEPnG combines a parsed $PnE with an optional $PnG under 3.0+
// semantics: at most one of (log scale) or (gain) may be set.
// gain == nil means $PnG was absent.
func ResolvePnEPnG(pnE Scale, gain *float64) (Scale, error) {
	if gain == nil {
		return pnE, nil
	}
	if pnE.Kind == ScaleLog {
		return Scale{}, fmt.Errorf("both $PnE (log) and $PnG are set; at most one may be present")
	}
	return LinearGain(*gain)
}
