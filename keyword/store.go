// Package keyword implements the ParsedKeywords raw store and the TEXT
// scanner that fills it.
package keyword

import (
	"fmt"
	"strings"
)

// NonUniqueError reports a duplicate key within one bucket of a
// ParsedKeywords store.
type NonUniqueError struct {
	Bucket string
	Key    string
}

func (e *NonUniqueError) Error() string {
	return fmt.Sprintf("duplicate key %q in %s bucket", e.Key, e.Bucket)
}

// pair is an ordered (key, value) entry as originally cased.
type pair struct {
	Key   string
	Value string
}

// bucket is an insertion-ordered, case-insensitive-ASCII-unique string
// map, shared by the std and nonstd buckets of ParsedKeywords.
type bucket struct {
	name  string
	order []string          // canonical (upper) keys, insertion order
	byKey map[string]*pair   // canonical (upper) key -> pair
}

func newBucket(name string) *bucket {
	return &bucket{name: name, byKey: make(map[string]*pair)}
}

func canonical(key string) string {
	return strings.ToUpper(key)
}

// Insert adds key/value, reporting a NonUniqueError if key already exists
// (case-insensitively). On a duplicate, the existing value is left
// untouched; the caller decides whether to treat this as fatal or to
// downgrade per allow_nonunique policy.
func (b *bucket) Insert(key, value string) error {
	ck := canonical(key)
	if _, ok := b.byKey[ck]; ok {
		return &NonUniqueError{Bucket: b.name, Key: key}
	}
	b.byKey[ck] = &pair{Key: key, Value: value}
	b.order = append(b.order, ck)
	return nil
}

// Set inserts key/value, overwriting any existing entry silently. Used
// for appended/replaced keywords where overwrite is the explicit policy
// rather than an anomaly.
func (b *bucket) Set(key, value string) {
	ck := canonical(key)
	if existing, ok := b.byKey[ck]; ok {
		existing.Key = key
		existing.Value = value
		return
	}
	b.byKey[ck] = &pair{Key: key, Value: value}
	b.order = append(b.order, ck)
}

// Get looks up key case-insensitively.
func (b *bucket) Get(key string) (string, bool) {
	p, ok := b.byKey[canonical(key)]
	if !ok {
		return "", false
	}
	return p.Value, true
}

// Remove deletes key (case-insensitively), returning its value if present.
// Used by schema promotion, which "removes" required/optional keys as it
// consumes them.
func (b *bucket) Remove(key string) (string, bool) {
	ck := canonical(key)
	p, ok := b.byKey[ck]
	if !ok {
		return "", false
	}
	delete(b.byKey, ck)
	for i, k := range b.order {
		if k == ck {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return p.Value, true
}

// Keys returns keys in insertion order, in their originally-cased form.
func (b *bucket) Keys() []string {
	out := make([]string, 0, len(b.order))
	for _, ck := range b.order {
		out = append(out, b.byKey[ck].Key)
	}
	return out
}

// Len reports the number of entries remaining in the bucket.
func (b *bucket) Len() int {
	return len(b.order)
}

// rawPair is a (key, value) pair that failed UTF-8 or ASCII
// classification and is kept verbatim.
type rawPair struct {
	Key   []byte
	Value []byte
}

// ParsedKeywords is the four-bucket bag the TEXT scanner fills. Standard
// keys are stored with the leading '$' stripped.
type ParsedKeywords struct {
	std      *bucket
	nonstd   *bucket
	nonASCII []pair
	bytePair []rawPair
}

// New returns an empty ParsedKeywords store.
func New() *ParsedKeywords {
	return &ParsedKeywords{
		std:    newBucket("standard"),
		nonstd: newBucket("non-standard"),
	}
}

// InsertStandard inserts a '$'-stripped standard key.
func (p *ParsedKeywords) InsertStandard(key, value string) error {
	return p.std.Insert(key, value)
}

// SetStandard inserts or overwrites a standard key without a uniqueness
// check (used by append_standard_keywords / replace_standard_key_values).
func (p *ParsedKeywords) SetStandard(key, value string) {
	p.std.Set(key, value)
}

// GetStandard looks up a standard key (without its '$') case-insensitively.
func (p *ParsedKeywords) GetStandard(key string) (string, bool) {
	return p.std.Get(key)
}

// RemoveStandard removes and returns a standard key's value, used by
// schema promotion as it consumes each recognized key.
func (p *ParsedKeywords) RemoveStandard(key string) (string, bool) {
	return p.std.Remove(key)
}

// StandardKeys returns the remaining standard keys in insertion order.
func (p *ParsedKeywords) StandardKeys() []string {
	return p.std.Keys()
}

// StandardLen reports how many standard keys remain.
func (p *ParsedKeywords) StandardLen() int {
	return p.std.Len()
}

// InsertNonStandard inserts a non-'$'-prefixed ASCII key.
func (p *ParsedKeywords) InsertNonStandard(key, value string) error {
	return p.nonstd.Insert(key, value)
}

// GetNonStandard looks up a non-standard key case-insensitively.
func (p *ParsedKeywords) GetNonStandard(key string) (string, bool) {
	return p.nonstd.Get(key)
}

// NonStandardKeys returns the non-standard keys in insertion order.
func (p *ParsedKeywords) NonStandardKeys() []string {
	return p.nonstd.Keys()
}

// InsertNonASCII appends a UTF-8-decodable key containing non-ASCII bytes.
func (p *ParsedKeywords) InsertNonASCII(key, value string) {
	p.nonASCII = append(p.nonASCII, pair{Key: key, Value: value})
}

// NonASCII returns the non-ASCII (key, value) pairs in insertion order.
func (p *ParsedKeywords) NonASCII() []struct{ Key, Value string } {
	out := make([]struct{ Key, Value string }, len(p.nonASCII))
	for i, e := range p.nonASCII {
		out[i] = struct{ Key, Value string }{e.Key, e.Value}
	}
	return out
}

// InsertBytePair appends a (key, value) pair that is not valid UTF-8.
func (p *ParsedKeywords) InsertBytePair(key, value []byte) {
	p.bytePair = append(p.bytePair, rawPair{Key: key, Value: value})
}

// BytePairs returns the non-UTF-8 (key, value) pairs in insertion order.
func (p *ParsedKeywords) BytePairs() []struct{ Key, Value []byte } {
	out := make([]struct{ Key, Value []byte }, len(p.bytePair))
	for i, e := range p.bytePair {
		out[i] = struct{ Key, Value []byte }{e.Key, e.Value}
	}
	return out
}
