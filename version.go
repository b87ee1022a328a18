package fcs

import "github.com/flowfcs/fcs/schema"

// Version is one of the four FCS revisions this library understands.
type Version = schema.Version

const (
	V20 = schema.V20
	V30 = schema.V30
	V31 = schema.V31
	V32 = schema.V32
)
