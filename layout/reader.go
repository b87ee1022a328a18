package layout

import (
	"bufio"
	"fmt"
	"io"
)

// ReadAlphaNum reads a fixed-width, event-major DATA segment. r must be
// limited to exactly layout.NRows*layout.EventWidth() bytes by the caller
// (the top-level reader does this with io.LimitReader against the
// resolved DATA segment).
func ReadAlphaNum(r io.Reader, lay AlphaNum) (DataFrame, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	df := DataFrame{Columns: make([]Column, len(lay.Columns))}
	for i, ct := range lay.Columns {
		switch ct.(type) {
		case FloatColumn:
			df.Columns[i] = NewFloat32Column(lay.NRows)
		case DoubleColumn:
			df.Columns[i] = NewFloat64Column(lay.NRows)
		default:
			df.Columns[i] = NewUintColumn(lay.NRows)
		}
	}

	buf := make([]byte, 0, 8)
	for row := 0; row < lay.NRows; row++ {
		for ci, ct := range lay.Columns {
			n := ct.WidthBytes()
			if cap(buf) < n {
				buf = make([]byte, n)
			}
			buf = buf[:n]
			if _, err := io.ReadFull(br, buf); err != nil {
				return DataFrame{}, fmt.Errorf("reading row %d column %d: %w", row, ci, err)
			}

			switch c := ct.(type) {
			case AsciiColumn:
				v, err := parseAsciiUint(buf)
				if err != nil {
					return DataFrame{}, fmt.Errorf("row %d column %d: %w", row, ci, err)
				}
				df.Columns[ci].Bits[row] = v
			case IntegerColumn:
				v := c.Order.ReadUint(buf)
				df.Columns[ci].Bits[row] = v & c.Mask
			case FloatColumn:
				v := c.Order.ReadUint(buf)
				df.Columns[ci].Bits[row] = v
			case DoubleColumn:
				v := c.Order.ReadUint(buf)
				df.Columns[ci].Bits[row] = v
			}
		}
	}
	return df, nil
}

func parseAsciiUint(b []byte) (uint64, error) {
	var v uint64
	for _, ch := range b {
		if ch == ' ' {
			continue
		}
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("non-digit byte %q in fixed ASCII column", ch)
		}
		v = v*10 + uint64(ch-'0')
	}
	return v, nil
}

// isAsciiDelim reports whether b is one of the delimited-ASCII DATA
// separator bytes: tab, newline, CR, space, comma.
func isAsciiDelim(b byte) bool {
	switch b {
	case '\t', '\n', '\r', ' ', ',':
		return true
	default:
		return false
	}
}

// ReadAsciiDelimited reads the whole delimited-ASCII DATA segment into
// memory and tokenizes it into ncols columns, row-major.
// When nrows is known, the read must end exactly at that row boundary;
// otherwise every column must come out the same length.
func ReadAsciiDelimited(data []byte, ncols int, nrows *int) (DataFrame, error) {
	var tokens []uint64
	i := 0
	n := len(data)
	for i < n {
		for i < n && isAsciiDelim(data[i]) {
			i++
		}
		start := i
		for i < n && !isAsciiDelim(data[i]) {
			i++
		}
		if i > start {
			v, err := parseDecimalUint(data[start:i])
			if err != nil {
				return DataFrame{}, err
			}
			tokens = append(tokens, v)
		}
	}

	if len(tokens)%ncols != 0 {
		return DataFrame{}, fmt.Errorf("delimited ASCII token count %d is not a multiple of column count %d", len(tokens), ncols)
	}
	rows := len(tokens) / ncols
	if nrows != nil && rows != *nrows {
		return DataFrame{}, fmt.Errorf("delimited ASCII produced %d rows, expected %d", rows, *nrows)
	}

	df := DataFrame{Columns: make([]Column, ncols)}
	for c := 0; c < ncols; c++ {
		df.Columns[c] = NewUintColumn(rows)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < ncols; c++ {
			df.Columns[c].Bits[r] = tokens[r*ncols+c]
		}
	}
	return df, nil
}

func parseDecimalUint(b []byte) (uint64, error) {
	var v uint64
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("non-digit byte %q in delimited ASCII token", ch)
		}
		v = v*10 + uint64(ch-'0')
	}
	return v, nil
}
