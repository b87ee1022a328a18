package keyword

import "errors"

// errEmptyText and errBadDelimiter are fatal: no anomaly-downgrade policy
// can rescue a TEXT region with nothing in it, or a delimiter policy
// rejected outright.
var (
	errEmptyText    = errors.New("empty TEXT segment")
	errBadDelimiter = errors.New("delimiter out of range")
)
