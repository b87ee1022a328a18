package fcs

import (
	"github.com/flowfcs/fcs/measure"
	"github.com/flowfcs/fcs/schema"
)

// CoreTEXT is the fully promoted metadata of one FCS dataset: the typed
// metaroot keywords plus the named measurement vector. It corresponds to
// one parsed TEXT segment (primary plus any merged supplemental TEXT).
type CoreTEXT struct {
	Delimiter    byte
	MetaRoot     schema.MetaRoot
	Measurements *measure.NamedVec[schema.Temporal, schema.Optical]
	NonStandard  map[string]string
}

// Version returns the FCS version this CoreTEXT was promoted under.
func (c CoreTEXT) Version() Version { return c.MetaRoot.Version }
