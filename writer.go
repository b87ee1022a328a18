package fcs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/flowfcs/fcs/layout"
	"github.com/flowfcs/fcs/schema"
)

// WriteDataset serializes ds to path as a complete FCS file: HEADER,
// TEXT, DATA, ANALYSIS, and OTHER, in that order. Every standard keyword
// is written into the primary TEXT segment; no supplemental TEXT is
// produced.
func WriteDataset(path string, ds CoreDataset, cfg WriteConfig) ([]layout.LossWarning, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return writeDataset(f, ds, cfg)
}

func writeDataset(w io.Writer, ds CoreDataset, cfg WriteConfig) ([]layout.LossWarning, error) {
	dl, err := buildDataLayout(ds.CoreTEXT, false, cfg.Lossless)
	if err != nil {
		return nil, fmt.Errorf("deriving DATA layout: %w", err)
	}
	if lay, ok := dl.(layout.AlphaNum); ok {
		lay.NRows = ds.Data.NRows()
		dl = lay
	}

	var dataBuf bytes.Buffer
	var warnings []layout.LossWarning
	switch lay := dl.(type) {
	case layout.AlphaNum:
		warnings, err = layout.WriteAlphaNum(&dataBuf, ds.Data, lay, cfg.Loss)
	case layout.AsciiDelimited:
		err = layout.WriteAsciiDelimited(&dataBuf, ds.Data)
	default:
		err = fmt.Errorf("unsupported DATA layout %T", dl)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding DATA: %w", err)
	}

	plan, err := planLayout(ds, dataBuf.Len(), cfg)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(plan.header); err != nil {
		return nil, err
	}
	if _, err := w.Write(plan.otherHeaderPairs); err != nil {
		return nil, err
	}
	if _, err := w.Write(plan.text); err != nil {
		return nil, err
	}
	if _, err := w.Write(dataBuf.Bytes()); err != nil {
		return nil, err
	}
	if _, err := w.Write(ds.Analysis); err != nil {
		return nil, err
	}
	for _, o := range ds.Other {
		if _, err := w.Write(o); err != nil {
			return nil, err
		}
	}
	return warnings, nil
}

// filePlan is the laid-out byte pieces of a complete file, in write order.
type filePlan struct {
	header           []byte
	otherHeaderPairs []byte
	text             []byte
}

// planLayout computes the HEADER and TEXT bytes for ds, iterating the
// fixed point between TEXT length and the $BEGINDATA/$ENDDATA/
// $BEGINANALYSIS/$ENDANALYSIS keywords TEXT itself must carry: their
// decimal width affects TEXT's length, which in turn shifts every
// segment after it. Widths only grow across iterations, so this
// converges in a handful of passes.
func planLayout(ds CoreDataset, dataLen int, cfg WriteConfig) (filePlan, error) {
	nOther := len(ds.Other)
	otherHeaderLen := 16 * nOther
	headerAreaLen := 58 + otherHeaderLen

	widths := [4]int{8, 8, 8, 8} // BEGINDATA, ENDDATA, BEGINANALYSIS, ENDANALYSIS
	var textBytes []byte
	var dataBegin, dataEnd, anaBegin, anaEnd uint32

	for iter := 0; iter < 8; iter++ {
		kw, err := keywordsFor(ds.CoreTEXT, widths)
		if err != nil {
			return filePlan{}, fmt.Errorf("building TEXT keywords: %w", err)
		}
		textBytes = encodeText(kw, ds.CoreTEXT.NonStandard, cfg.Delimiter)

		textBegin := uint32(headerAreaLen)
		textEnd := textBegin + uint32(len(textBytes)) - 1

		dataBegin, dataEnd = 0, 0
		if dataLen > 0 {
			dataBegin = textEnd + 1
			dataEnd = dataBegin + uint32(dataLen) - 1
		}
		anaBegin, anaEnd = 0, 0
		if len(ds.Analysis) > 0 {
			base := textEnd + 1
			if dataLen > 0 {
				base = dataEnd + 1
			}
			anaBegin = base
			anaEnd = anaBegin + uint32(len(ds.Analysis)) - 1
		}

		next := [4]int{
			decimalWidth(dataBegin), decimalWidth(dataEnd),
			decimalWidth(anaBegin), decimalWidth(anaEnd),
		}
		if next == widths {
			break
		}
		widths = next
	}

	// The loop sized the four offset keywords with zero placeholders;
	// rewrite them with the real offsets at the same widths, which leaves
	// the TEXT length (and so every offset) unchanged.
	kw, err := keywordsFor(ds.CoreTEXT, widths)
	if err != nil {
		return filePlan{}, fmt.Errorf("building TEXT keywords: %w", err)
	}
	kw["BEGINDATA"] = fmt.Sprintf("%0*d", widths[0], dataBegin)
	kw["ENDDATA"] = fmt.Sprintf("%0*d", widths[1], dataEnd)
	kw["BEGINANALYSIS"] = fmt.Sprintf("%0*d", widths[2], anaBegin)
	kw["ENDANALYSIS"] = fmt.Sprintf("%0*d", widths[3], anaEnd)
	textBytes = encodeText(kw, ds.CoreTEXT.NonStandard, cfg.Delimiter)

	otherBegin := dataEnd + 1
	if dataLen == 0 {
		otherBegin = anaEnd + 1
		if len(ds.Analysis) == 0 {
			otherBegin = uint32(headerAreaLen) + uint32(len(textBytes))
		}
	} else if len(ds.Analysis) > 0 {
		otherBegin = anaEnd + 1
	}
	otherSegs := make([][2]uint32, nOther)
	cursor := otherBegin
	for i, o := range ds.Other {
		if len(o) == 0 {
			otherSegs[i] = [2]uint32{0, 0}
			continue
		}
		otherSegs[i] = [2]uint32{cursor, cursor + uint32(len(o)) - 1}
		cursor += uint32(len(o))
	}

	textBegin := uint32(headerAreaLen)
	textEnd := textBegin + uint32(len(textBytes)) - 1
	header := encodeHeader(ds.CoreTEXT.Version(), textBegin, textEnd, dataBegin, dataEnd, anaBegin, anaEnd)
	otherPairs := make([]byte, 0, otherHeaderLen)
	for _, seg := range otherSegs {
		otherPairs = append(otherPairs, pad8(seg[0])...)
		otherPairs = append(otherPairs, pad8(seg[1])...)
	}

	return filePlan{header: header, otherHeaderPairs: otherPairs, text: textBytes}, nil
}

func decimalWidth(v uint32) int {
	w := len(strconv.FormatUint(uint64(v), 10))
	if w < 8 {
		return 8
	}
	return w
}

func pad8(v uint32) []byte {
	s := strconv.FormatUint(uint64(v), 10)
	for len(s) < 8 {
		s = "0" + s
	}
	return []byte(s)
}

// encodeHeader writes the fixed 58-byte HEADER. A segment whose offsets
// overflow the 8-digit field is reported as (0,0), per convention, since
// the true value is recoverable from the TEXT keyword.
func encodeHeader(v Version, textBegin, textEnd, dataBegin, dataEnd, anaBegin, anaEnd uint32) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s    ", v.String())
	writeHeaderOffset(&b, overflowToZero(textBegin))
	writeHeaderOffset(&b, overflowToZero(textEnd))
	writeHeaderOffset(&b, overflowToZero(dataBegin))
	writeHeaderOffset(&b, overflowToZero(dataEnd))
	writeHeaderOffset(&b, overflowToZero(anaBegin))
	writeHeaderOffset(&b, overflowToZero(anaEnd))
	return []byte(b.String())
}

func writeHeaderOffset(b *strings.Builder, v uint32) {
	fmt.Fprintf(b, "%8d", v)
}

func overflowToZero(v uint32) uint32 {
	if v > 99_999_999 {
		return 0
	}
	return v
}

// keywordsFor serializes core's MetaRoot and Measurements into the
// standard '$'-prefixed TEXT keyword map, mirroring schema.Promote in
// reverse. The four DATA/ANALYSIS offset keywords are written as all-zero
// placeholders of the given widths, so callers can converge the widths
// against the TEXT length those very keywords contribute to and then
// fill in the real offsets.
func keywordsFor(core CoreTEXT, widths [4]int) (map[string]string, error) {
	mr := core.MetaRoot
	kw := make(map[string]string)

	set := func(key, value string) { kw[key] = value }
	setOpt := func(key string, v *string) {
		if v != nil {
			kw[key] = *v
		}
	}
	setOptFloat := func(key string, v *float64) {
		if v != nil {
			kw[key] = formatFloat(*v)
		}
	}
	setOptTime := func(key string, v *time.Time, layoutStr string) {
		if v != nil {
			kw[key] = v.Format(layoutStr)
		}
	}

	set("BYTEORD", formatByteOrd(mr.ByteOrd))
	set("DATATYPE", string(mr.DataType))
	set("MODE", string(mr.Mode))
	set("PAR", strconv.Itoa(core.Measurements.Len()))

	setOpt("CYT", mr.Cyt)
	if mr.Version >= schema.V30 {
		setOpt("CYTSN", mr.CytSN)
		setOptFloat("TIMESTEP", mr.TimeStep)
	}
	if mr.Version >= schema.V31 {
		setOptFloat("VOL", mr.Vol)
		setOptTime("LAST_MODIFIED", mr.LastModified, "02-Jan-2006 15:04:05.00")
		setOpt("LAST_MODIFIER", mr.LastModifier)
		setOpt("ORIGINALITY", mr.Originality)
		setOpt("PLATEID", mr.PlateID)
		setOpt("PLATENAME", mr.PlateName)
		setOpt("WELLID", mr.WellID)
	}
	if mr.Version == schema.V30 {
		setOpt("UNICODE", mr.Unicode)
	}
	if mr.Version == schema.V32 {
		setOpt("UNSTAINEDINFO", mr.UnstainedInfo)
		if len(mr.UnstainedCenters) > 0 {
			set("UNSTAINEDCENTERS", formatFloatList(mr.UnstainedCenters))
		}
		setOpt("CARRIERID", mr.CarrierID)
		setOpt("CARRIERTYPE", mr.CarrierType)
		setOpt("LOCATIONID", mr.LocationID)
		setOpt("FLOWRATE", mr.FlowRate)
		setOptTime("BEGINDATETIME", mr.BeginDateTime, time.RFC3339)
		setOptTime("ENDDATETIME", mr.EndDateTime, time.RFC3339)
	}

	setOptTime("BTIM", mr.BTim, "15:04:05")
	setOptTime("ETIM", mr.ETim, "15:04:05")
	setOpt("DATE", mr.Date)

	setOpt("COM", mr.Comment)
	setOpt("CELLS", mr.Cells)
	setOpt("EXP", mr.Experiment)
	setOpt("FIL", mr.Filename)
	setOpt("INST", mr.Institution)
	setOpt("OP", mr.Operator)
	setOpt("PROJ", mr.Project)
	setOpt("SMNO", mr.SmNo)
	setOpt("SRC", mr.Source)
	setOpt("SYS", mr.Sys)

	if mr.Spillover != nil {
		set(spilloverKey(mr.Version), formatSpillover(*mr.Spillover))
	}
	if mr.Trigger != nil {
		set("TR", fmt.Sprintf("%s,%d", mr.Trigger.Name, mr.Trigger.Threshold))
	}

	for _, el := range core.Measurements.All() {
		prefix := fmt.Sprintf("P%d", el.Index+1)
		set(prefix+"N", el.Name)
		if el.IsCenter {
			writeTemporalKeywords(kw, prefix, el.Center)
		} else {
			writeOpticalKeywords(kw, prefix, el.NonCenter, mr.Version)
		}
	}

	set("BEGINDATA", padTo(widths[0]))
	set("ENDDATA", padTo(widths[1]))
	set("BEGINANALYSIS", padTo(widths[2]))
	set("ENDANALYSIS", padTo(widths[3]))

	return kw, nil
}

func padTo(width int) string { return strings.Repeat("0", width) }

func writeOpticalKeywords(kw map[string]string, prefix string, o schema.Optical, v Version) {
	if o.Bits < 0 {
		kw[prefix+"B"] = "*"
	} else {
		kw[prefix+"B"] = strconv.Itoa(o.Bits)
	}
	if f := o.Range.Float(); f != nil {
		kw[prefix+"R"] = f.Text('f', -1)
	}
	kw[prefix+"E"] = formatScale(o.Scale)
	if v >= schema.V30 && o.Gain != nil {
		kw[prefix+"G"] = formatFloat(*o.Gain)
	}
	if o.Filter != nil {
		kw[prefix+"F"] = *o.Filter
	}
	if o.LongName != nil {
		kw[prefix+"S"] = *o.LongName
	}
	if o.ExcitationL != nil {
		kw[prefix+"L"] = strconv.Itoa(*o.ExcitationL)
	}
	if o.ExcitationP != nil {
		kw[prefix+"O"] = *o.ExcitationP
	}
	if o.DetectorT != nil {
		kw[prefix+"T"] = *o.DetectorT
	}
	if o.DetectorV != nil {
		kw[prefix+"V"] = formatFloat(*o.DetectorV)
	}
	if v >= schema.V31 && o.Calibration != nil {
		kw[prefix+"CALIBRATION"] = fmt.Sprintf("%s,%s", formatFloat(o.Calibration.Factor), o.Calibration.Unit)
	}
	if v == schema.V32 {
		if o.Display != nil {
			kw[prefix+"D"] = *o.Display
		}
		if o.Detector != nil {
			kw[prefix+"DET"] = *o.Detector
		}
		if o.Tag != nil {
			kw[prefix+"TAG"] = *o.Tag
		}
		if o.MeasurementType != nil {
			kw[prefix+"TYPE"] = *o.MeasurementType
		}
		if o.Feature != nil {
			kw[prefix+"FEATURE"] = *o.Feature
		}
		if o.Analyte != nil {
			kw[prefix+"ANALYTE"] = *o.Analyte
		}
		if o.MeasurementData != 0 {
			kw[prefix+"DATATYPE"] = string(o.MeasurementData)
		}
	}
}

func writeTemporalKeywords(kw map[string]string, prefix string, t schema.Temporal) {
	if t.Bits < 0 {
		kw[prefix+"B"] = "*"
	} else {
		kw[prefix+"B"] = strconv.Itoa(t.Bits)
	}
	if f := t.Range.Float(); f != nil {
		kw[prefix+"R"] = f.Text('f', -1)
	}
	kw[prefix+"E"] = "0,0"
	if t.Filter != nil {
		kw[prefix+"F"] = *t.Filter
	}
	if t.LongName != nil {
		kw[prefix+"S"] = *t.LongName
	}
	if t.ExcitationL != nil {
		kw[prefix+"L"] = strconv.Itoa(*t.ExcitationL)
	}
	if t.ExcitationP != nil {
		kw[prefix+"O"] = *t.ExcitationP
	}
	if t.DetectorT != nil {
		kw[prefix+"T"] = *t.DetectorT
	}
	if t.DetectorV != nil {
		kw[prefix+"V"] = formatFloat(*t.DetectorV)
	}
	if t.Calibration != nil {
		kw[prefix+"CALIBRATION"] = fmt.Sprintf("%s,%s", formatFloat(t.Calibration.Factor), t.Calibration.Unit)
	}
	if t.Display != nil {
		kw[prefix+"D"] = *t.Display
	}
	if t.Detector != nil {
		kw[prefix+"DET"] = *t.Detector
	}
	if t.Tag != nil {
		kw[prefix+"TAG"] = *t.Tag
	}
	if t.MeasurementType != nil {
		kw[prefix+"TYPE"] = *t.MeasurementType
	}
	if t.MeasurementData != 0 {
		kw[prefix+"DATATYPE"] = string(t.MeasurementData)
	}
}

func spilloverKey(v Version) string {
	if v == schema.V20 {
		return "COMP"
	}
	return "SPILLOVER"
}

func formatScale(s schema.Scale) string {
	switch s.Kind {
	case schema.ScaleLog:
		return fmt.Sprintf("%s,%s", formatFloat(s.Decades), formatFloat(s.Offset))
	default:
		return "0,0"
	}
}

func formatByteOrd(perm []int) string {
	parts := make([]string, len(perm))
	for i, v := range perm {
		parts[i] = strconv.Itoa(v + 1)
	}
	return strings.Join(parts, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatFloatList(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return strings.Join(parts, ",")
}

func formatSpillover(s schema.Spillover) string {
	n := len(s.Names)
	parts := make([]string, 0, 1+n+n*n)
	parts = append(parts, strconv.Itoa(n))
	parts = append(parts, s.Names...)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			parts = append(parts, formatFloat(s.Matrix[i][j]))
		}
	}
	return strings.Join(parts, ",")
}

// encodeText serializes kw (standard keys, written "$"-prefixed) and
// nonstd (non-standard keys, written literally) into one delimited TEXT
// region, doubling any literal occurrence of delim within a key or
// value (the same escaping dialect keyword.Scan reads by default).
func encodeText(kw, nonstd map[string]string, delim byte) []byte {
	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nonstdKeys := make([]string, 0, len(nonstd))
	for k := range nonstd {
		nonstdKeys = append(nonstdKeys, k)
	}
	sort.Strings(nonstdKeys)

	var b bytes.Buffer
	b.WriteByte(delim)
	for _, k := range keys {
		b.WriteString(escapeDelim("$"+k, delim))
		b.WriteByte(delim)
		b.WriteString(escapeDelim(kw[k], delim))
		b.WriteByte(delim)
	}
	for _, k := range nonstdKeys {
		b.WriteString(escapeDelim(k, delim))
		b.WriteByte(delim)
		b.WriteString(escapeDelim(nonstd[k], delim))
		b.WriteByte(delim)
	}
	return b.Bytes()
}

func escapeDelim(s string, delim byte) string {
	if !strings.ContainsRune(s, rune(delim)) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] == delim {
			b.WriteByte(delim)
		}
	}
	return b.String()
}
