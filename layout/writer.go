package layout

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// LossPolicy controls how WriteAlphaNum reacts to a lossy cast.
type LossPolicy struct {
	AllowLossyConversions bool
}

// LossWarning reports one column that required a lossy cast at least
// once during a write (a warning is emitted per offending column only
// once, not per cell).
type LossWarning struct {
	ColumnIndex int
}

// WriteAlphaNum writes df event-major according to lay, casting each
// cell to its declared ColumnType with the loss-aware cast table. When a
// column requires a lossy cast and !policy.AllowLossyConversions, it
// fails before any bytes are written.
func WriteAlphaNum(w io.Writer, df DataFrame, lay AlphaNum, policy LossPolicy) ([]LossWarning, error) {
	if df.NCols() != len(lay.Columns) {
		return nil, fmt.Errorf("data frame has %d columns, layout declares %d", df.NCols(), len(lay.Columns))
	}
	if df.NRows() != lay.NRows {
		return nil, fmt.Errorf("data frame has %d rows, layout declares %d", df.NRows(), lay.NRows)
	}

	lossyCols := make([]bool, len(lay.Columns))
	for ci, ct := range lay.Columns {
		col := df.Columns[ci]
		for row := 0; row < lay.NRows; row++ {
			_, lossy := CastCellToColumn(col, row, ct)
			if lossy {
				lossyCols[ci] = true
			}
		}
	}

	var warnings []LossWarning
	for ci, lossy := range lossyCols {
		if lossy {
			warnings = append(warnings, LossWarning{ColumnIndex: ci})
			if !policy.AllowLossyConversions {
				return nil, fmt.Errorf("column %d requires a lossy conversion to its declared type", ci)
			}
		}
	}

	bw := bufio.NewWriterSize(w, 64*1024)
	for row := 0; row < lay.NRows; row++ {
		for ci, ct := range lay.Columns {
			bits, _ := CastCellToColumn(df.Columns[ci], row, ct)
			if err := writeCell(bw, ct, bits); err != nil {
				return nil, fmt.Errorf("writing row %d column %d: %w", row, ci, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return warnings, nil
}

func writeCell(w io.Writer, ct ColumnType, bits uint64) error {
	switch c := ct.(type) {
	case AsciiColumn:
		s := strconv.FormatUint(bits, 10)
		if len(s) > c.Chars {
			s = s[len(s)-c.Chars:]
		}
		for len(s) < c.Chars {
			s = "0" + s
		}
		_, err := io.WriteString(w, s)
		return err
	case IntegerColumn:
		_, err := w.Write(c.Order.WriteUint(bits & c.Mask))
		return err
	case FloatColumn:
		_, err := w.Write(c.Order.WriteUint(bits))
		return err
	case DoubleColumn:
		_, err := w.Write(c.Order.WriteUint(bits))
		return err
	default:
		return fmt.Errorf("unsupported column type %T", ct)
	}
}

// WriteAsciiDelimited writes df row-major as whitespace-separated decimal
// integers, one space between tokens and no trailing separator. Every
// cell is cast to u64.
func WriteAsciiDelimited(w io.Writer, df DataFrame) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	first := true
	for row := 0; row < df.NRows(); row++ {
		for col := 0; col < df.NCols(); col++ {
			if !first {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			first = false
			v := df.Columns[col].Bits[row]
			if _, err := io.WriteString(bw, strconv.FormatUint(v, 10)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
