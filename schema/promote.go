package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flowfcs/fcs/keyword"
	"github.com/flowfcs/fcs/measure"
	"github.com/flowfcs/fcs/tentative"
	"github.com/flowfcs/fcs/validated"
)

// Config bundles the schema-promotion policy flags.
type Config struct {
	TimePattern        *validated.Pattern
	DatePattern          string // layout passed to time.Parse when validating $DATE; empty skips validation
	TimePatternLayout    string
	ForceTimeLinear     bool // accept a non-$PnE==0,0 time measurement as linear anyway
	AllowPseudostandard bool
	AllowDeprecated     bool
	FixLogScaleOffsets  bool

	// ShortnamePrefix is the prefix a measurement without a stored $PnN
	// is assigned ("{prefix}{1-based index}"). Empty means "$P".
	ShortnamePrefix string

	// NonstandardMeasurementPattern is a case-insensitive regex template
	// with exactly one "%n" placeholder for the measurement's 1-based
	// index; a remaining non-standard key that matches no measurement's
	// substituted pattern draws a warning. Matching keys stay in
	// Result.NonStandard and are not attached to the measurement. Empty
	// disables the check.
	NonstandardMeasurementPattern string

	// IntegerByteOrdOverride permits an integer column's $BYTEORD width
	// to disagree with its $PnB width, resynthesizing a same-endianness
	// order of the right width instead of rejecting the file.
	IntegerByteOrdOverride bool

	// DisallowRangeTruncation fails a column whose $PnR exceeds what its
	// $PnB width can represent, instead of silently clipping the mask.
	DisallowRangeTruncation bool
}

// Result is what Promote produces from a ParsedKeywords bag: the typed
// metaroot, the measurement vector, whatever standard keys neither
// stage consumed, and any non-'$'-prefixed keywords scanned from TEXT.
type Result struct {
	MetaRoot       MetaRoot
	Measurements   *measure.NamedVec[Temporal, Optical]
	Pseudostandard []string
	NonStandard    map[string]string
}

// promoter accumulates the fields a single Promote call needs to thread
// through many small parse helpers without turning every helper into a
// five-return-value function.
type promoter struct {
	pk       *keyword.ParsedKeywords
	version  Version
	cfg      Config
	warnings []keyword.Anomaly
	errors   []keyword.Anomaly
}

func (p *promoter) warn(key, info string) {
	p.warnings = append(p.warnings, keyword.Anomaly{Kind: "DeprecatedOrNonFatal", Key: key, Info: info})
}

func (p *promoter) fail(key, info string) {
	p.errors = append(p.errors, keyword.Anomaly{Kind: "ReqKeyError", Key: key, Info: info})
}

func (p *promoter) reqString(key string) (string, bool) {
	v, ok := p.pk.RemoveStandard(key)
	if !ok {
		p.fail(key, "required key missing")
		return "", false
	}
	return v, true
}

func (p *promoter) optString(key string) *string {
	v, ok := p.pk.RemoveStandard(key)
	if !ok {
		return nil
	}
	return &v
}

func (p *promoter) reqFloat(key string) (float64, bool) {
	s, ok := p.reqString(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		p.fail(key, fmt.Sprintf("cannot parse %q as a float: %v", s, err))
		return 0, false
	}
	return f, true
}

func (p *promoter) optFloat(key string) *float64 {
	s := p.optString(key)
	if s == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		p.fail(key, fmt.Sprintf("cannot parse %q as a float: %v", *s, err))
		return nil
	}
	return &f
}

func (p *promoter) reqInt(key string) (int, bool) {
	s, ok := p.reqString(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		p.fail(key, fmt.Sprintf("cannot parse %q as an integer: %v", s, err))
		return 0, false
	}
	return n, true
}

// reqBitsOrStar parses a $PnB value, which is almost always an integer
// bit width but may be the literal "*" marking the whole DATA segment as
// delimited ASCII. "*" promotes to -1; callers outside this package
// treat a negative Bits as the delimited marker.
func (p *promoter) reqBitsOrStar(key string) int {
	s, ok := p.reqString(key)
	if !ok {
		return 0
	}
	s = strings.TrimSpace(s)
	if s == "*" {
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(key, fmt.Sprintf("cannot parse %q as an integer or '*': %v", s, err))
		return 0
	}
	return n
}

func (p *promoter) optInt(key string) *int {
	s := p.optString(key)
	if s == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		p.fail(key, fmt.Sprintf("cannot parse %q as an integer: %v", *s, err))
		return nil
	}
	return &n
}

func (p *promoter) parseTimeField(key, value, layout string) *time.Time {
	if layout == "" {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil {
		p.warn(key, fmt.Sprintf("cannot parse %q with layout %q: %v", value, layout, err))
		return nil
	}
	return &t
}

// Promote consumes pk's standard bucket,
// producing a typed MetaRoot and the measurement NamedVec, leaving
// whatever residual $-prefixed keys are pseudostandard.
func Promote(pk *keyword.ParsedKeywords, version Version, cfg Config) tentative.Tentative[*Result, keyword.Anomaly, keyword.Anomaly] {
	p := &promoter{pk: pk, version: version, cfg: cfg}

	mr := MetaRoot{Version: version}

	if byteOrdStr, ok := p.reqString("BYTEORD"); ok {
		perm, _, err := parseByteOrdField(byteOrdStr, version)
		if err != nil {
			p.fail("BYTEORD", err.Error())
		} else {
			mr.ByteOrd = perm
		}
	}
	if dt, ok := p.reqString("DATATYPE"); ok {
		if len(dt) != 1 {
			p.fail("DATATYPE", fmt.Sprintf("expected a single character, got %q", dt))
		} else {
			mr.DataType = dt[0]
		}
	}
	if mode, ok := p.reqString("MODE"); ok {
		if len(mode) != 1 {
			p.fail("MODE", fmt.Sprintf("expected a single character, got %q", mode))
		} else {
			mr.Mode = mode[0]
		}
	}

	mr.Cyt = p.optString("CYT")
	if version == V32 && mr.Cyt == nil {
		p.fail("CYT", "FCS3.2 requires $CYT with no default")
	}
	if version >= V30 {
		mr.CytSN = p.optString("CYTSN")
		mr.TimeStep = p.optFloat("TIMESTEP")
	}
	if version >= V31 {
		mr.Vol = p.optFloat("VOL")
		if lm := p.optString("LAST_MODIFIED"); lm != nil {
			mr.LastModified = p.parseTimeField("LAST_MODIFIED", *lm, "02-Jan-2006 15:04:05.00")
		}
		mr.LastModifier = p.optString("LAST_MODIFIER")
		mr.Originality = p.optString("ORIGINALITY")
		mr.PlateID = p.optString("PLATEID")
		mr.PlateName = p.optString("PLATENAME")
		mr.WellID = p.optString("WELLID")
	}
	if version == V30 {
		mr.Unicode = p.optString("UNICODE")
	}
	if version == V32 {
		mr.UnstainedInfo = p.optString("UNSTAINEDINFO")
		if uc := p.optString("UNSTAINEDCENTERS"); uc != nil {
			mr.UnstainedCenters = parseFloatList(*uc)
		}
		mr.CarrierID = p.optString("CARRIERID")
		mr.CarrierType = p.optString("CARRIERTYPE")
		mr.LocationID = p.optString("LOCATIONID")
		mr.FlowRate = p.optString("FLOWRATE")
		if bd := p.optString("BEGINDATETIME"); bd != nil {
			mr.BeginDateTime = p.parseTimeField("BEGINDATETIME", *bd, time.RFC3339)
		}
		if ed := p.optString("ENDDATETIME"); ed != nil {
			mr.EndDateTime = p.parseTimeField("ENDDATETIME", *ed, time.RFC3339)
		}
	}

	if bt := p.optString("BTIM"); bt != nil {
		mr.BTim = p.parseTimeField("BTIM", *bt, p.cfg.TimePatternLayout)
	}
	if et := p.optString("ETIM"); et != nil {
		mr.ETim = p.parseTimeField("ETIM", *et, p.cfg.TimePatternLayout)
	}
	mr.Date = p.optString("DATE")
	if mr.Date != nil && p.cfg.DatePattern != "" {
		if _, err := time.Parse(p.cfg.DatePattern, strings.TrimSpace(*mr.Date)); err != nil {
			p.warn("DATE", fmt.Sprintf("does not match configured date_pattern %q: %v", p.cfg.DatePattern, err))
		}
	}

	mr.Comment = p.optString("COM")
	mr.Cells = p.optString("CELLS")
	mr.Experiment = p.optString("EXP")
	mr.Filename = p.optString("FIL")
	mr.Institution = p.optString("INST")
	mr.Operator = p.optString("OP")
	mr.Project = p.optString("PROJ")
	mr.SmNo = p.optString("SMNO")
	mr.Source = p.optString("SRC")
	mr.Sys = p.optString("SYS")

	spKey := "SPILLOVER"
	if version == V20 {
		spKey = "COMP"
	}
	if sp := p.optString(spKey); sp != nil {
		s, err := parseSpillover(*sp)
		if err != nil {
			p.fail(spKey, err.Error())
		} else {
			mr.Spillover = s
		}
	}
	if tr := p.optString("TR"); tr != nil {
		t, err := parseTrigger(*tr)
		if err != nil {
			p.fail("TR", err.Error())
		} else {
			mr.Trigger = t
		}
	}

	par, ok := p.reqInt("PAR")
	var entries []measure.Entry[Temporal, Optical]
	var sawTime bool
	if ok {
		entries = make([]measure.Entry[Temporal, Optical], 0, par)
		for n := 1; n <= par; n++ {
			// once a time measurement is found, later time_pattern
			// matches stay optical
			entry, isTime := p.promoteMeasurement(n, mr.TimeStep, !sawTime)
			if isTime {
				sawTime = true
			}
			entries = append(entries, entry)
		}
	}

	if par > 0 {
		p.checkNonstandardMeasurementKeys(par)
	}

	namePolicy := version.NamePolicy()
	prefix := cfg.ShortnamePrefix
	if prefix == "" {
		prefix = "$P"
	}
	measurements, err := measure.TryNew(namePolicy, prefix, entries)
	if err != nil {
		p.fail("PAR", err.Error())
	}

	pseudo := append([]string(nil), pk.StandardKeys()...)
	for _, k := range pseudo {
		p.pseudostandard(k)
	}

	nonstd := make(map[string]string, len(pk.NonStandardKeys()))
	for _, k := range pk.NonStandardKeys() {
		if v, ok := pk.GetNonStandard(k); ok {
			nonstd[k] = v
		}
	}

	result := &Result{MetaRoot: mr, Measurements: measurements, Pseudostandard: pseudo, NonStandard: nonstd}
	t := tentative.Of[*Result, keyword.Anomaly, keyword.Anomaly](result)
	t = t.WithWarnings(p.warnings...)
	t = t.WithErrors(p.errors...)
	return t
}

func (p *promoter) pseudostandard(key string) {
	if !p.cfg.AllowPseudostandard {
		p.fail(key, "pseudostandard key not permitted by policy")
	}
}

// checkNonstandardMeasurementKeys warns about a remaining non-standard
// key that matches none of the par measurements' substituted
// NonstandardMeasurementPattern, when that policy is configured.
func (p *promoter) checkNonstandardMeasurementKeys(par int) {
	tmpl := p.cfg.NonstandardMeasurementPattern
	if tmpl == "" {
		return
	}
	for _, key := range p.pk.NonStandardKeys() {
		matched := false
		for n := 1; n <= par && !matched; n++ {
			expr := strings.ReplaceAll(tmpl, "%n", strconv.Itoa(n))
			pat, err := validated.NewPattern(expr)
			if err != nil {
				continue
			}
			matched = pat.MatchString(key)
		}
		if !matched {
			p.warn(key, "non-standard key does not match the configured per-measurement pattern")
		}
	}
}

// promoteMeasurement builds the n-th $PnX measurement entry. It returns
// isTime=true when allowTime is set, the name matches cfg.TimePattern
// and the temporal constraints hold; with allowTime unset the entry is
// always optical.
func (p *promoter) promoteMeasurement(n int, metarootTimeStep *float64, allowTime bool) (measure.Entry[Temporal, Optical], bool) {
	prefix := fmt.Sprintf("P%d", n)

	bits := p.reqBitsOrStar(prefix + "B")
	rangeStr, _ := p.reqString(prefix + "R")
	var rng Range
	if rangeStr != "" {
		r, err := validated.NewRangeFromString(rangeStr)
		if err != nil {
			p.fail(prefix+"R", err.Error())
		} else {
			rng = r
		}
	}

	var name *string
	if n2 := p.optString(prefix + "N"); n2 != nil {
		name = n2
	}

	var decades, offset float64
	if peStr := p.optString(prefix + "E"); peStr != nil {
		d, o, err := parsePnE(*peStr)
		if err != nil {
			p.fail(prefix+"E", err.Error())
		} else {
			decades, offset = d, o
		}
	}
	var gain *float64
	if p.version >= V30 {
		gain = p.optFloat(prefix + "G")
	}

	scale, _, serr := ParsePnE(decades, offset, p.cfg.FixLogScaleOffsets)
	if serr != nil {
		p.fail(prefix+"E", serr.Error())
	}
	scale, serr = ResolvePnEPnG(scale, gain)
	if serr != nil {
		p.fail(prefix+"G", serr.Error())
	}

	opt := Optical{
		Bits:        bits,
		Range:       rng,
		Scale:       scale,
		Filter:      p.optString(prefix + "F"),
		LongName:    p.optString(prefix + "S"),
		ExcitationL: p.optInt(prefix + "L"),
		ExcitationP: p.optString(prefix + "O"),
		DetectorT:   p.optString(prefix + "T"),
		DetectorV:   p.optFloat(prefix + "V"),
		Gain:        gain,
	}
	if p.version == V32 {
		opt.Display = p.optString(prefix + "D")
		opt.Detector = p.optString(prefix + "DET")
		opt.Tag = p.optString(prefix + "TAG")
		opt.MeasurementType = p.optString(prefix + "TYPE")
		opt.Feature = p.optString(prefix + "FEATURE")
		opt.Analyte = p.optString(prefix + "ANALYTE")
		if dt := p.optString(prefix + "DATATYPE"); dt != nil && len(*dt) == 1 {
			opt.MeasurementData = (*dt)[0]
		}
	}
	if p.version >= V31 {
		if c := p.optString(prefix + "CALIBRATION"); c != nil {
			if cal, err := parseCalibration(*c); err == nil {
				opt.Calibration = cal
			} else {
				p.fail(prefix+"CALIBRATION", err.Error())
			}
		}
	}

	isTime := allowTime && name != nil && p.cfg.TimePattern != nil && p.cfg.TimePattern.MatchString(*name)
	if isTime {
		if scale.Kind != ScaleLinear && !p.cfg.ForceTimeLinear {
			p.fail(prefix+"E", "time measurement must have $PnE=0,0")
			isTime = false
		}
		if gain != nil {
			p.fail(prefix+"G", "time measurement must not have $PnG")
			isTime = false
		}
		if p.version >= V30 && metarootTimeStep == nil {
			p.fail("TIMESTEP", "required when a time measurement is present (3.0+)")
			isTime = false
		}
	}

	if isTime {
		ts := 0.0
		if metarootTimeStep != nil {
			ts = *metarootTimeStep
		}
		temporal := Temporal{
			Bits: bits, Range: rng, TimeStep: ts,
			Filter: opt.Filter, LongName: opt.LongName, ExcitationL: opt.ExcitationL,
			ExcitationP: opt.ExcitationP, DetectorT: opt.DetectorT, DetectorV: opt.DetectorV,
			Display: opt.Display, Calibration: opt.Calibration, Detector: opt.Detector,
			Tag: opt.Tag, MeasurementType: opt.MeasurementType, MeasurementData: opt.MeasurementData,
		}
		return measure.Entry[Temporal, Optical]{Key: name, IsCenter: true, Center: temporal}, true
	}
	return measure.Entry[Temporal, Optical]{Key: name, Optical: opt}, false
}

func parsePnE(s string) (decades, offset float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("$PnE must be 'decades,offset', got %q", s)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("$PnE decades: %w", err)
	}
	o, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("$PnE offset: %w", err)
	}
	return d, o, nil
}

func parseCalibration(s string) (*Calibration, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("$PnCALIBRATION must be 'factor,unit', got %q", s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("$PnCALIBRATION factor: %w", err)
	}
	return &Calibration{Factor: f, Unit: strings.TrimSpace(parts[1])}, nil
}

func parseFloatList(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err == nil {
			out = append(out, f)
		}
	}
	return out
}

func parseTrigger(s string) (*Trigger, error) {
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return nil, fmt.Errorf("$TR must be 'name,threshold', got %q", s)
	}
	thresh, err := strconv.ParseUint(strings.TrimSpace(s[i+1:]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("$TR threshold: %w", err)
	}
	return &Trigger{Name: strings.TrimSpace(s[:i]), Threshold: thresh}, nil
}

// parseSpillover parses $SPILLOVER (3.0+) or $COMP (2.0): "n,name1,...,
// nameN,c11,c12,...,cNN" — n names followed by an n x n coefficient matrix.
func parseSpillover(s string) (*Spillover, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 1 {
		return nil, fmt.Errorf("empty spillover value")
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("spillover dimension: %w", err)
	}
	want := 1 + n + n*n
	if len(parts) != want {
		return nil, fmt.Errorf("spillover expects %d comma-separated fields for n=%d, got %d", want, n, len(parts))
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = strings.TrimSpace(parts[1+i])
	}
	matrix := make([][]float64, n)
	off := 1 + n
	for i := 0; i < n; i++ {
		matrix[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			f, err := strconv.ParseFloat(strings.TrimSpace(parts[off+i*n+j]), 64)
			if err != nil {
				return nil, fmt.Errorf("spillover coefficient [%d][%d]: %w", i, j, err)
			}
			matrix[i][j] = f
		}
	}
	return &Spillover{Names: names, Matrix: matrix}, nil
}

// parseByteOrdField parses a raw $BYTEORD value into a 0-based
// source-to-native permutation. 3.1/3.2 accept only the
// two canonical forms; 2.0/3.0 accept any permutation of 1..=len.
func parseByteOrdField(s string, version Version) ([]int, bool, error) {
	parts := strings.Split(s, ",")
	perm := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false, fmt.Errorf("non-integer $BYTEORD field %q", p)
		}
		perm[i] = v - 1
	}
	if version >= V31 {
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
			return nil, false, fmt.Errorf("$BYTEORD in 3.1+ must be ascending or descending, got %q", s)
		}
		return perm, descending, nil
	}
	return perm, false, nil
}
