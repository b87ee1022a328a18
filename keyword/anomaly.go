package keyword

// AnomalyKind enumerates the TEXT-scan anomalies.
type AnomalyKind string

const (
	AnomalyEmptyText     AnomalyKind = "EmptyText"
	AnomalyBadDelimiter  AnomalyKind = "BadDelimiter"
	AnomalyBlankKey      AnomalyKind = "BlankKey"
	AnomalyBlankValue    AnomalyKind = "BlankValue"
	AnomalyUnevenWords   AnomalyKind = "UnevenWords"
	AnomalyFinalDelim    AnomalyKind = "FinalDelim"
	AnomalyDelimBoundary AnomalyKind = "DelimBoundary"
	AnomalyNonUniqueKey  AnomalyKind = "NonUniqueKey"
	AnomalyNonASCIIKey   AnomalyKind = "NonASCIIKey"
	AnomalyNonUTF8Key    AnomalyKind = "NonUTF8Key"
	AnomalyDelimMismatch AnomalyKind = "DelimMismatch"
	AnomalyStdPresent    AnomalyKind = "StdPresent"
)

// Anomaly is a single TEXT-scan issue. Whether it ends up a Warning or a
// recoverable Error is decided by Policy at scan time; Anomaly itself is
// just the tagged fact plus enough context (Key) to build a diagnostic.
type Anomaly struct {
	Kind AnomalyKind
	Key  string
	Info string
}

func (a Anomaly) String() string {
	if a.Key == "" {
		return string(a.Kind)
	}
	if a.Info == "" {
		return string(a.Kind) + ": " + a.Key
	}
	return string(a.Kind) + ": " + a.Key + " (" + a.Info + ")"
}

// Warning is an Anomaly that policy allowed to pass.
type Warning = Anomaly

// ScanError is an Anomaly that policy did not allow, making it a
// recoverable error for the surrounding Tentative.
type ScanError = Anomaly
