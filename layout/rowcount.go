package layout

import "fmt"

// DataConfig bundles the DATA-stage policy flags.
type DataConfig struct {
	AllowUnevenEventWidth bool
	AllowTotMismatch      bool
	AllowDataParMismatch  bool
}

// RowCountIssue is a non-fatal finding from DeriveRowCount.
type RowCountIssue struct {
	Kind string
	Info string
}

func (i RowCountIssue) String() string { return i.Kind + ": " + i.Info }

// DeriveRowCount treats the DATA segment
// length as authoritative; a present $TOT that
// disagrees is a warning (or error under !AllowTotMismatch), and an
// uneven division is an error unless AllowUnevenEventWidth.
func DeriveRowCount(tot *int, dataSegmentLen, eventWidth int, cfg DataConfig) (nrows int, issues []RowCountIssue, err error) {
	if eventWidth <= 0 {
		return 0, nil, fmt.Errorf("event width must be positive, got %d", eventWidth)
	}

	nrows = dataSegmentLen / eventWidth
	remainder := dataSegmentLen % eventWidth
	if remainder != 0 {
		issue := RowCountIssue{Kind: "UnevenEventWidth", Info: fmt.Sprintf("%d bytes does not divide evenly by event width %d", dataSegmentLen, eventWidth)}
		if !cfg.AllowUnevenEventWidth {
			return 0, nil, fmt.Errorf("%s", issue)
		}
		issues = append(issues, issue)
	}

	if tot != nil && *tot != nrows {
		issue := RowCountIssue{Kind: "TotMismatch", Info: fmt.Sprintf("$TOT=%d disagrees with segment-length-derived row count %d", *tot, nrows)}
		if !cfg.AllowTotMismatch {
			return 0, nil, fmt.Errorf("%s", issue)
		}
		issues = append(issues, issue)
	}

	return nrows, issues, nil
}
