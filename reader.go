package fcs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/flowfcs/fcs/keyword"
	"github.com/flowfcs/fcs/layout"
	"github.com/flowfcs/fcs/schema"
	"github.com/flowfcs/fcs/segment"
	"github.com/flowfcs/fcs/tentative"
	"github.com/flowfcs/fcs/validated"
)

// ParseData carries the warnings and recoverable errors a read stage
// accumulated, flattened to strings so a caller does not need to import
// keyword to inspect them.
type ParseData struct {
	Warnings []string
	Errors   []string
}

func anomalyStrings(as []keyword.Anomaly) []string {
	if len(as) == 0 {
		return nil
	}
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.String()
	}
	return out
}

// finish resolves a Tentative into a (value, ParseData, error) triple:
// under warningsAreErrors every warning is promoted to an error first;
// then any remaining recoverable error fails the whole stage with a
// TerminalFailure.
func finish[V any](t tentative.Tentative[V, keyword.Anomaly, keyword.Anomaly], warningsAreErrors bool, reason string) (V, ParseData, error) {
	if warningsAreErrors {
		t = tentative.PromoteWarningsToErrors(t, func(w keyword.Anomaly) keyword.Anomaly { return w })
	}
	pd := ParseData{Warnings: anomalyStrings(t.Warnings), Errors: anomalyStrings(t.Errors)}
	if t.HasErrors() {
		var zero V
		return zero, pd, &TerminalFailure{
			Reason:   reason,
			Warnings: pd.Warnings,
			Errors:   pd.Errors,
			Cause:    fmt.Errorf("%d recoverable error(s) during %s", len(t.Errors), reason),
		}
	}
	return t.Value, pd, nil
}

func readSegmentAt(f *os.File, seg segment.Segment) ([]byte, error) {
	if seg.IsEmpty() {
		return nil, nil
	}
	buf := make([]byte, seg.Len())
	if _, err := f.ReadAt(buf, int64(seg.Begin)); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// RawText is the unpromoted result of reading HEADER + TEXT (primary plus
// any merged supplemental): a Header and the keywords scanned from it,
// with no schema applied.
type RawText struct {
	Header    Header
	Keywords  *keyword.ParsedKeywords
	Delimiter byte
}

// ReadRawText reads the HEADER and TEXT of the file at path and returns
// the scanned keywords with no schema promotion: every key, including
// the offset keys ($BEGINDATA etc.), is left in the bag exactly as
// parsed.
func ReadRawText(path string, cfg ReaderConfig) (RawText, ParseData, error) {
	t, err := rawTextStage(path, cfg)
	if err != nil {
		return RawText{}, ParseData{}, &TerminalFailure{Reason: "raw text", Cause: err}
	}
	return finish(t, cfg.WarningsAreErrors, "raw text")
}

func rawTextStage(path string, cfg ReaderConfig) (tentative.Tentative[RawText, keyword.Anomaly, keyword.Anomaly], error) {
	var zero tentative.Tentative[RawText, keyword.Anomaly, keyword.Anomaly]

	h, err := ReadHeader(path, cfg.Header)
	if err != nil {
		return zero, err
	}

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	textBytes, err := readSegmentAt(f, h.Text)
	if err != nil {
		return zero, fmt.Errorf("reading TEXT: %w", err)
	}

	scanned, err := keyword.Scan(textBytes, cfg.Text.Key)
	if err != nil {
		return zero, fmt.Errorf("scanning TEXT: %w", err)
	}

	kws := scanned.Value.Keywords
	delim := scanned.Value.Delimiter
	warnings := append([]keyword.Anomaly{}, scanned.Warnings...)
	errs := append([]keyword.Anomaly{}, scanned.Errors...)

	if !cfg.Text.Key.IgnoreSupplementalText {
		beginS, hasBegin := kws.GetStandard("BEGINSTEXT")
		endS, hasEnd := kws.GetStandard("ENDSTEXT")
		if hasBegin && hasEnd {
			bv, errB := strconv.ParseUint(strings.TrimSpace(beginS), 10, 32)
			ev, errE := strconv.ParseUint(strings.TrimSpace(endS), 10, 32)
			if errB == nil && errE == nil {
				supSeg, segErr := segment.New(uint32(bv), uint32(ev), segment.RegionSupplementalText, segment.SourceText)
				if segErr == nil && !supSeg.IsEmpty() {
					supBytes, readErr := readSegmentAt(f, supSeg)
					if readErr == nil {
						supT, scanErr := keyword.ScanSupplemental(supBytes, delim, cfg.Text.Key, kws)
						if scanErr != nil {
							return zero, fmt.Errorf("scanning supplemental TEXT: %w", scanErr)
						}
						warnings = append(warnings, supT.Warnings...)
						errs = append(errs, supT.Errors...)
					}
				}
			}
		} else if hasBegin != hasEnd && !cfg.Text.Key.AllowMissingSTEXT {
			errs = append(errs, keyword.Anomaly{Kind: "MissingSTEXT", Info: "only one of $BEGINSTEXT/$ENDSTEXT present"})
		}
	}

	return tentative.Tentative[RawText, keyword.Anomaly, keyword.Anomaly]{
		Value:    RawText{Header: h, Keywords: kws, Delimiter: delim},
		Warnings: warnings,
		Errors:   errs,
	}, nil
}

// resolveRegionSegment removes beginKey/endKey from kws and reconciles
// the resulting TEXT-declared pair (if any) against headerSeg. It never
// returns a fatal Go error: every failure mode becomes a warning or a
// recoverable Anomaly so the caller's Tentative channel stays the single
// place that decides pass/fail.
func resolveRegionSegment(region segment.Region, headerSeg segment.Segment, kws *keyword.ParsedKeywords, beginKey, endKey string, cfg TextConfig) (seg segment.Segment, warn, fail *keyword.Anomaly) {
	beginS, hasBegin := kws.RemoveStandard(beginKey)
	endS, hasEnd := kws.RemoveStandard(endKey)

	var textSeg *segment.Segment
	switch {
	case hasBegin && hasEnd:
		bv, errB := strconv.ParseUint(strings.TrimSpace(beginS), 10, 32)
		ev, errE := strconv.ParseUint(strings.TrimSpace(endS), 10, 32)
		if errB != nil || errE != nil {
			return headerSeg, nil, &keyword.Anomaly{Kind: "OffsetParseError", Key: beginKey, Info: "cannot parse TEXT offset pair"}
		}
		nb, ne := applyOffsetPolicy(uint32(bv), uint32(ev), cfg.Offsets)
		s, err := segment.New(nb, ne, region, segment.SourceText)
		if err != nil {
			return headerSeg, nil, &keyword.Anomaly{Kind: "OffsetParseError", Key: beginKey, Info: err.Error()}
		}
		textSeg = &s
	case hasBegin != hasEnd:
		return headerSeg, nil, &keyword.Anomaly{Kind: "OffsetParseError", Key: beginKey, Info: "only one of the pair present"}
	default:
		if !cfg.AllowMissingRequiredOffsets && headerSeg.IsEmpty() {
			return headerSeg, nil, &keyword.Anomaly{Kind: "MissingOffset", Key: beginKey, Info: "no HEADER or TEXT offset for this region"}
		}
	}

	res, err := segment.Resolve(region, &headerSeg, textSeg)
	if err != nil {
		return headerSeg, nil, &keyword.Anomaly{Kind: "SegmentError", Key: beginKey, Info: err.Error()}
	}
	if res.Mismatch {
		a := keyword.Anomaly{
			Kind: "SegmentMismatch", Key: beginKey,
			Info: fmt.Sprintf("HEADER (%d,%d) vs TEXT (%d,%d)", headerSeg.Begin, headerSeg.End, textSeg.Begin, textSeg.End),
		}
		if !cfg.AllowHeaderTextOffsetMismatch {
			return res.Segment, nil, &a
		}
		return res.Segment, &a, nil
	}
	return res.Segment, nil, nil
}

// StdText is the fully promoted metadata of one dataset plus the data
// segment boundaries it will take to read DATA/ANALYSIS.
type StdText struct {
	CoreText       CoreTEXT
	Pseudostandard []string
	Data           segment.Segment
	Analysis       segment.Segment
	Other          []segment.Segment
	Tot            *int // $TOT, consumed here since schema.Promote has no DATA-stage concerns
}

// ReadStdText reads HEADER and TEXT and promotes the result against the
// per-version schema, producing a typed CoreTEXT.
func ReadStdText(path string, cfg ReaderConfig) (StdText, ParseData, error) {
	t, err := stdTextStage(path, cfg)
	if err != nil {
		return StdText{}, ParseData{}, &TerminalFailure{Reason: "std text", Cause: err}
	}
	return finish(t, cfg.WarningsAreErrors, "std text")
}

func stdTextStage(path string, cfg ReaderConfig) (tentative.Tentative[StdText, keyword.Anomaly, keyword.Anomaly], error) {
	var zero tentative.Tentative[StdText, keyword.Anomaly, keyword.Anomaly]

	raw, err := rawTextStage(path, cfg)
	if err != nil {
		return zero, err
	}

	return tentative.AndThen(raw, func(rt RawText) tentative.Tentative[StdText, keyword.Anomaly, keyword.Anomaly] {
		kws := rt.Keywords
		kws.RemoveStandard("BEGINSTEXT")
		kws.RemoveStandard("ENDSTEXT")

		var warnings, errs []keyword.Anomaly
		var tot *int
		if totS, ok := kws.RemoveStandard("TOT"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(totS)); err != nil {
				warnings = append(warnings, keyword.Anomaly{Kind: "BadTot", Key: "TOT", Info: totS})
			} else {
				tot = &n
			}
		}

		dataSeg, dw, df := resolveRegionSegment(segment.RegionData, rt.Header.Data, kws, "BEGINDATA", "ENDDATA", cfg.Text)
		if dw != nil {
			warnings = append(warnings, *dw)
		}
		if df != nil {
			errs = append(errs, *df)
		}
		analysisSeg, aw, af := resolveRegionSegment(segment.RegionAnalysis, rt.Header.Analysis, kws, "BEGINANALYSIS", "ENDANALYSIS", cfg.Text)
		if aw != nil {
			warnings = append(warnings, *aw)
		}
		if af != nil {
			errs = append(errs, *af)
		}

		promoted := schema.Promote(kws, rt.Header.Version, cfg.Schema)
		warnings = append(warnings, promoted.Warnings...)
		errs = append(errs, promoted.Errors...)

		var core CoreTEXT
		var pseudo []string
		if promoted.Value != nil {
			core = CoreTEXT{
				Delimiter:    rt.Delimiter,
				MetaRoot:     promoted.Value.MetaRoot,
				Measurements: promoted.Value.Measurements,
				NonStandard:  promoted.Value.NonStandard,
			}
			pseudo = promoted.Value.Pseudostandard
		}

		return tentative.Tentative[StdText, keyword.Anomaly, keyword.Anomaly]{
			Value: StdText{
				CoreText:       core,
				Pseudostandard: pseudo,
				Data:           dataSeg,
				Analysis:       analysisSeg,
				Other:          rt.Header.Other,
				Tot:            tot,
			},
			Warnings: warnings,
			Errors:   errs,
		}
	}), nil
}

// byteOrderForWidth derives the byte order for a width-byte column from
// the full $BYTEORD permutation. By default a width mismatch is
// rejected: $PnB=24 with $BYTEORD="4,3,2,1" disagrees on width and
// fails. Only under allowOverride does a plain ascending/descending
// order generalize to the requested width; an exotic permutation still
// only applies directly when its own width matches.
func byteOrderForWidth(full layout.SizedByteOrd, width int, allowOverride bool) (layout.SizedByteOrd, error) {
	if full.Len() == width {
		return full, nil
	}
	if !allowOverride {
		return layout.SizedByteOrd{}, fmt.Errorf("$BYTEORD width %d disagrees with column width %d", full.Len(), width)
	}
	if full.IsLittleEndian() {
		return layout.LittleEndian(width), nil
	}
	if full.IsBigEndian() {
		return layout.BigEndian(width), nil
	}
	return layout.SizedByteOrd{}, fmt.Errorf("$BYTEORD width %d does not generalize to column width %d", full.Len(), width)
}

func buildColumnType(dataType byte, bits int, rng validated.Range, fullOrd layout.SizedByteOrd, allowByteOrdOverride, disallowRangeTruncation bool) (layout.ColumnType, error) {
	switch dataType {
	case 'A':
		return layout.AsciiColumn{Chars: bits}, nil
	case 'I':
		order, err := byteOrderForWidth(fullOrd, bits/8, allowByteOrdOverride)
		if err != nil {
			return nil, err
		}
		maxVal, _ := rng.Uint64Clamped()
		var value uint64
		if maxVal > 0 {
			value = maxVal - 1
		}
		bm := validated.NewBitmask[uint64](value, bits)
		if disallowRangeTruncation && bm.Truncated() {
			return nil, fmt.Errorf("$PnR %d exceeds what a %d-bit column can represent", maxVal, bits)
		}
		return layout.NewIntegerColumn(bits, order, bm.Mask())
	case 'F':
		order, err := byteOrderForWidth(fullOrd, 4, allowByteOrdOverride)
		if err != nil {
			return nil, err
		}
		return layout.FloatColumn{Order: order}, nil
	case 'D':
		order, err := byteOrderForWidth(fullOrd, 8, allowByteOrdOverride)
		if err != nil {
			return nil, err
		}
		return layout.DoubleColumn{Order: order}, nil
	default:
		return nil, fmt.Errorf("unsupported $DATATYPE %q", string(dataType))
	}
}

// buildDataLayout derives the DataLayout from a promoted CoreTEXT: either
// AsciiDelimited, when every measurement's $PnB is "*", or AlphaNum with
// one ColumnType per measurement.
func buildDataLayout(core CoreTEXT, allowByteOrdOverride, disallowRangeTruncation bool) (layout.DataLayout, error) {
	n := core.Measurements.Len()
	delimited := 0
	for _, el := range core.Measurements.All() {
		bits := el.NonCenter.Bits
		if el.IsCenter {
			bits = el.Center.Bits
		}
		if bits < 0 {
			delimited++
		}
	}
	if delimited == n && n > 0 {
		return layout.AsciiDelimited{NCols: n}, nil
	}
	if delimited != 0 {
		return nil, fmt.Errorf("mixed delimited/fixed-width $PnB across measurements")
	}

	fullOrd, err := layout.Permutation(core.MetaRoot.ByteOrd)
	if err != nil {
		return nil, fmt.Errorf("$BYTEORD: %w", err)
	}

	cols := make([]layout.ColumnType, 0, n)
	for _, el := range core.Measurements.All() {
		dt := core.MetaRoot.DataType
		var bits int
		var rng validated.Range
		if el.IsCenter {
			bits = el.Center.Bits
			rng = el.Center.Range
			if el.Center.MeasurementData != 0 {
				dt = el.Center.MeasurementData
			}
		} else {
			bits = el.NonCenter.Bits
			rng = el.NonCenter.Range
			if el.NonCenter.MeasurementData != 0 {
				dt = el.NonCenter.MeasurementData
			}
		}
		ct, err := buildColumnType(dt, bits, rng, fullOrd, allowByteOrdOverride, disallowRangeTruncation)
		if err != nil {
			return nil, fmt.Errorf("measurement %d (%s): %w", el.Index, el.Name, err)
		}
		cols = append(cols, ct)
	}
	return layout.AlphaNum{Columns: cols}, nil
}

// StdDataset is a fully promoted CoreTEXT paired with its decoded DATA,
// ANALYSIS, and OTHER segments.
type StdDataset struct {
	Dataset        CoreDataset
	Pseudostandard []string
}

// ReadStdDataset reads HEADER, TEXT, and DATA, promoting TEXT against the
// per-version schema and decoding DATA into the typed layout the schema
// derives from $DATATYPE/$PnB/$BYTEORD.
func ReadStdDataset(path string, cfg ReaderConfig) (StdDataset, ParseData, error) {
	std, pd, err := ReadStdText(path, cfg)
	if err != nil {
		return StdDataset{}, pd, err
	}

	f, err := os.Open(path)
	if err != nil {
		return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Cause: fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	dataBytes, err := readSegmentAt(f, std.Data)
	if err != nil {
		return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Cause: fmt.Errorf("reading DATA: %w", err)}
	}
	analysisBytes, err := readSegmentAt(f, std.Analysis)
	if err != nil {
		return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Cause: fmt.Errorf("reading ANALYSIS: %w", err)}
	}
	other := make([][]byte, 0, len(std.Other))
	for _, seg := range std.Other {
		b, err := readSegmentAt(f, seg)
		if err != nil {
			return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Cause: fmt.Errorf("reading OTHER: %w", err)}
		}
		other = append(other, b)
	}

	dl, err := buildDataLayout(std.CoreText, cfg.Schema.IntegerByteOrdOverride, cfg.Schema.DisallowRangeTruncation)
	if err != nil {
		return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Cause: err}
	}

	var frame layout.DataFrame
	switch lay := dl.(type) {
	case layout.AlphaNum:
		nrows, issues, err := layout.DeriveRowCount(std.Tot, int(std.Data.Len()), lay.EventWidth(), cfg.Data)
		if err != nil {
			return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Cause: err}
		}
		for _, iss := range issues {
			pd.Warnings = append(pd.Warnings, iss.String())
		}
		lay.NRows = nrows
		frame, err = layout.ReadAlphaNum(bytes.NewReader(dataBytes), lay)
		if err != nil {
			return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Cause: err}
		}
	case layout.AsciiDelimited:
		frame, err = layout.ReadAsciiDelimited(dataBytes, lay.NCols, std.Tot)
		if err != nil {
			return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Cause: err}
		}
	}

	if cfg.WarningsAreErrors && len(pd.Warnings) > 0 {
		pd.Errors, pd.Warnings = append(pd.Errors, pd.Warnings...), nil
		return StdDataset{}, pd, &TerminalFailure{Reason: "std dataset", Errors: pd.Errors, Cause: fmt.Errorf("%d warning(s) promoted to errors", len(pd.Errors))}
	}

	return StdDataset{
		Dataset: CoreDataset{
			CoreTEXT: std.CoreText,
			Data:     frame,
			Analysis: analysisBytes,
			Other:    other,
		},
		Pseudostandard: std.Pseudostandard,
	}, pd, nil
}

// RawDataset pairs raw (unpromoted) keywords with the decoded DATA
// segment read under the literal $DATATYPE/$PnB/$BYTEORD keys, without
// per-version schema validation.
type RawDataset struct {
	Version  Version
	Keywords *keyword.ParsedKeywords
	Data     layout.DataFrame
	Analysis []byte
	Other    [][]byte
}

// ReadRawDataset reads HEADER, TEXT, and DATA without promoting TEXT
// against the per-version schema: it derives the DATA layout directly
// from the raw keyword values, so it tolerates a TEXT bag that would
// fail ReadStdDataset's schema validation.
func ReadRawDataset(path string, cfg ReaderConfig) (RawDataset, ParseData, error) {
	raw, pd, err := ReadRawText(path, cfg)
	if err != nil {
		return RawDataset{}, pd, err
	}
	kws := raw.Keywords

	f, err := os.Open(path)
	if err != nil {
		return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	dataSeg, dw, df := resolveRegionSegment(segment.RegionData, raw.Header.Data, kws, "BEGINDATA", "ENDDATA", cfg.Text)
	if dw != nil {
		pd.Warnings = append(pd.Warnings, dw.String())
	}
	if df != nil {
		return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: fmt.Errorf("%s", df.String())}
	}
	analysisSeg, aw, af := resolveRegionSegment(segment.RegionAnalysis, raw.Header.Analysis, kws, "BEGINANALYSIS", "ENDANALYSIS", cfg.Text)
	if aw != nil {
		pd.Warnings = append(pd.Warnings, aw.String())
	}
	if af != nil {
		return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: fmt.Errorf("%s", af.String())}
	}

	dataBytes, err := readSegmentAt(f, dataSeg)
	if err != nil {
		return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: fmt.Errorf("reading DATA: %w", err)}
	}
	analysisBytes, err := readSegmentAt(f, analysisSeg)
	if err != nil {
		return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: fmt.Errorf("reading ANALYSIS: %w", err)}
	}
	other := make([][]byte, 0, len(raw.Header.Other))
	for _, seg := range raw.Header.Other {
		b, err := readSegmentAt(f, seg)
		if err != nil {
			return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: fmt.Errorf("reading OTHER: %w", err)}
		}
		other = append(other, b)
	}

	parStr, _ := kws.GetStandard("PAR")
	par, _ := strconv.Atoi(strings.TrimSpace(parStr))
	dataTypeStr, _ := kws.GetStandard("DATATYPE")
	byteOrdStr, _ := kws.GetStandard("BYTEORD")

	var dataType byte
	if len(dataTypeStr) == 1 {
		dataType = dataTypeStr[0]
	}

	cols := make([]layout.ColumnType, 0, par)
	for n := 1; n <= par; n++ {
		prefix := fmt.Sprintf("P%dB", n)
		bitsStr, _ := kws.GetStandard(prefix)
		rangeStr, _ := kws.GetStandard(fmt.Sprintf("P%dR", n))
		rng, _ := validated.NewRangeFromString(rangeStr)

		bits, berr := strconv.Atoi(strings.TrimSpace(bitsStr))
		if berr != nil {
			return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: fmt.Errorf("$P%dB %q: %v", n, bitsStr, berr)}
		}
		ord, err := layout.ParseByteOrd(byteOrdStr)
		if err != nil {
			return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: fmt.Errorf("$BYTEORD: %w", err)}
		}
		colType := dataType
		if override, ok := kws.GetStandard(fmt.Sprintf("P%dDATATYPE", n)); ok && len(override) == 1 {
			colType = override[0]
		}
		ct, err := buildColumnType(colType, bits, rng, ord, cfg.Schema.IntegerByteOrdOverride, cfg.Schema.DisallowRangeTruncation)
		if err != nil {
			return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: err}
		}
		cols = append(cols, ct)
	}

	var tot *int
	if totStr, ok := kws.GetStandard("TOT"); ok {
		if n, terr := strconv.Atoi(strings.TrimSpace(totStr)); terr == nil {
			tot = &n
		}
	}
	al := layout.AlphaNum{Columns: cols}
	nrows, issues, err := layout.DeriveRowCount(tot, int(dataSeg.Len()), al.EventWidth(), cfg.Data)
	if err != nil {
		return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: err}
	}
	for _, iss := range issues {
		pd.Warnings = append(pd.Warnings, iss.String())
	}
	al.NRows = nrows

	frame, err := layout.ReadAlphaNum(bytes.NewReader(dataBytes), al)
	if err != nil {
		return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Cause: err}
	}

	if cfg.WarningsAreErrors && len(pd.Warnings) > 0 {
		pd.Errors, pd.Warnings = append(pd.Errors, pd.Warnings...), nil
		return RawDataset{}, pd, &TerminalFailure{Reason: "raw dataset", Errors: pd.Errors, Cause: fmt.Errorf("%d warning(s) promoted to errors", len(pd.Errors))}
	}

	return RawDataset{Version: raw.Header.Version, Keywords: kws, Data: frame, Analysis: analysisBytes, Other: other}, pd, nil
}
