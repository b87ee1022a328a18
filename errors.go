package fcs

import (
	"fmt"

	"github.com/flowfcs/fcs/segment"
)

// Sentinel errors for HEADER and TEXT failures that carry no extra
// context beyond their own identity.
var (
	ErrInvalidHeader = fmt.Errorf("invalid HEADER")
	ErrEmptyText     = fmt.Errorf("empty TEXT segment")
)

// ParseKeyError reports a schema-stage failure tied to one keyword: a
// missing required key, or a value that failed to parse.
type ParseKeyError struct {
	Key    string
	Raw    string
	Reason string
}

func (e *ParseKeyError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s=%q: %s", e.Key, e.Raw, e.Reason)
}

// SegmentMismatchError reports a HEADER/TEXT offset disagreement for one
// region that policy did not allow to pass as a warning.
type SegmentMismatchError struct {
	Region segment.Region
	Header segment.Segment
	Text   segment.Segment
}

func (e *SegmentMismatchError) Error() string {
	return fmt.Sprintf("%s segment mismatch: HEADER gives (%d,%d), TEXT gives (%d,%d)",
		e.Region, e.Header.Begin, e.Header.End, e.Text.Begin, e.Text.End)
}

// TerminalFailure is the top-level fatal result: the pipeline could not
// produce a usable value. Reason names the stage that failed; Warnings
// and Errors carry every diagnostic accumulated before the failure.
type TerminalFailure struct {
	Reason   string
	Warnings []string
	Errors   []string
	Cause    error
}

func (e *TerminalFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
}

func (e *TerminalFailure) Unwrap() error { return e.Cause }
