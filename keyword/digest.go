package keyword

import "github.com/flowfcs/fcs/internal/checksum"

// Digest returns a fast content digest over every bucket in insertion
// order, letting callers cheaply tell whether two parses produced the
// same raw keyword bag without a full structural comparison.
func (p *ParsedKeywords) Digest() uint64 {
	d := checksum.New()
	for _, k := range p.std.Keys() {
		v, _ := p.std.Get(k)
		d.WriteString("S:")
		d.WriteString(k)
		d.WriteString("=")
		d.WriteString(v)
		d.WriteString("\x00")
	}
	for _, k := range p.nonstd.Keys() {
		v, _ := p.nonstd.Get(k)
		d.WriteString("N:")
		d.WriteString(k)
		d.WriteString("=")
		d.WriteString(v)
		d.WriteString("\x00")
	}
	for _, e := range p.nonASCII {
		d.WriteString("U:")
		d.WriteString(e.Key)
		d.WriteString("=")
		d.WriteString(e.Value)
		d.WriteString("\x00")
	}
	for _, e := range p.bytePair {
		d.WriteString("B:")
		d.Write(e.Key)
		d.WriteString("=")
		d.Write(e.Value)
		d.WriteString("\x00")
	}
	return d.Sum64()
}
