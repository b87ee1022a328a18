package fcs

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/flowfcs/fcs/schema"
	"github.com/flowfcs/fcs/segment"
	"github.com/flowfcs/fcs/validated"
)

// Header is the parsed fixed 58-byte FCS HEADER plus any trailing OTHER
// segment offset pairs.
type Header struct {
	Version  Version
	Text     segment.Segment
	Data     segment.Segment
	Analysis segment.Segment
	Other    []segment.Segment
}

// ReadHeader reads and parses the HEADER of the file at path.
func ReadHeader(path string, cfg HeaderConfig) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return readHeader(f, cfg)
}

func readHeader(r io.Reader, cfg HeaderConfig) (Header, error) {
	buf := make([]byte, 58)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	versionStr := string(bytes.TrimRight(buf[0:6], " "))
	version, err := schema.ParseVersion(versionStr)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	fields := make([]uint32, 6)
	for i := 0; i < 6; i++ {
		start := 10 + i*8
		v, err := validated.ParseAsciiDigits(buf[start : start+8])
		if err != nil {
			return Header{}, fmt.Errorf("%w: offset field %d: %v", ErrInvalidHeader, i, err)
		}
		fields[i] = uint32(v)
	}

	textBegin, textEnd := applyOffsetPolicy(fields[0], fields[1], cfg.Offsets)
	dataBegin, dataEnd := applyOffsetPolicy(fields[2], fields[3], cfg.Offsets)
	analysisBegin, analysisEnd := applyOffsetPolicy(fields[4], fields[5], cfg.Offsets)

	text, err := segment.New(textBegin, textEnd, segment.RegionPrimaryText, segment.SourceHeader)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	data, err := segment.New(dataBegin, dataEnd, segment.RegionData, segment.SourceHeader)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	analysis, err := segment.New(analysisBegin, analysisEnd, segment.RegionAnalysis, segment.SourceHeader)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	h := Header{Version: version, Text: text, Data: data, Analysis: analysis}

	nOther := 0
	if textBegin > 58 {
		nOther = int(textBegin-58) / 16
	}
	other := make([]byte, 16)
	for i := 0; i < nOther; i++ {
		if _, err := io.ReadFull(r, other); err != nil {
			break
		}
		ob, err1 := validated.ParseAsciiDigits(other[0:8])
		oe, err2 := validated.ParseAsciiDigits(other[8:16])
		if err1 != nil || err2 != nil {
			break
		}
		seg, err := segment.New(uint32(ob), uint32(oe), segment.RegionOther, segment.SourceHeader)
		if err != nil {
			break
		}
		h.Other = append(h.Other, seg)
	}

	return h, nil
}

// applyOffsetPolicy applies cfg's correction and squish/truncate escape
// hatches to a raw HEADER (begin, end) pair.
func applyOffsetPolicy(begin, end uint32, cfg OffsetConfig) (uint32, uint32) {
	nb, ne := cfg.Correction.Apply(begin, end, cfg.AllowNegative)
	if cfg.TruncateOffsets {
		if nb > segment.MaxHeaderOffset {
			nb = segment.MaxHeaderOffset
		}
		if ne > segment.MaxHeaderOffset {
			ne = segment.MaxHeaderOffset
		}
	}
	if cfg.SquishOffsets && nb > ne {
		return 0, 0
	}
	return nb, ne
}
