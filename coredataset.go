package fcs

import "github.com/flowfcs/fcs/layout"

// CoreDataset pairs a CoreTEXT with its decoded DATA matrix and the
// opaque ANALYSIS/OTHER byte ranges carried alongside it.
type CoreDataset struct {
	CoreTEXT
	Data     layout.DataFrame
	Analysis []byte
	Other    [][]byte
}
