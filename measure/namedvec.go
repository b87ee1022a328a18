// Package measure implements NamedVec, the ordered, at-most-one-center
// measurement container shared by every FCS version's measurement list.
package measure

import "fmt"

// Policy selects whether ordinary (non-center) elements may omit a
// stored short name (Maybe, FCS 2.0/3.0) or must always carry one
// (Always, FCS 3.1/3.2).
type Policy int

const (
	Maybe Policy = iota
	Always
)

// Entry is one input element to TryNew: either an ordinary element
// carrying a V, or the distinguished center element carrying a U.
type Entry[U any, V any] struct {
	Key      *string
	IsCenter bool
	Optical  V
	Center   U
}

// Element is the positional iteration result of All: either a Center or
// a NonCenter payload, tagged so callers can type-switch.
type Element[U any, V any] struct {
	Index    int
	IsCenter bool
	Center   U
	NonCenter V
	Name     string
}

// slot is the internal per-position storage, holding both payload types
// so a position can be promoted/demoted between center and optical in
// place without reallocating the surrounding slice.
type slot[U any, V any] struct {
	name     *string
	isCenter bool
	optical  V
	center   U
}

// NamedVec is an ordered list of up to N optical elements plus at most
// one center element, indexed both positionally and by effective name.
type NamedVec[U any, V any] struct {
	policy    Policy
	prefix    string
	centerIdx int // -1 when no center is present
	slots     []*slot[U, V]
}

// NewNamedVecError reports why TryNew (or an index-bound mutation) failed.
type NewNamedVecError struct {
	Reason string
}

func (e *NewNamedVecError) Error() string { return e.Reason }

// TryNew builds a NamedVec from entries, rejecting more than one center
// entry or any name collision among effective names.
func TryNew[U any, V any](policy Policy, prefix string, entries []Entry[U, V]) (*NamedVec[U, V], error) {
	nv := &NamedVec[U, V]{policy: policy, prefix: prefix, centerIdx: -1}
	for _, e := range entries {
		s := &slot[U, V]{name: e.Key, isCenter: e.IsCenter, optical: e.Optical, center: e.Center}
		if e.IsCenter {
			if nv.centerIdx != -1 {
				return nil, &NewNamedVecError{Reason: "more than one center element"}
			}
			if e.Key == nil {
				return nil, &NewNamedVecError{Reason: "center element must have a stored name"}
			}
			nv.centerIdx = len(nv.slots)
		} else if policy == Always && e.Key == nil {
			return nil, &NewNamedVecError{Reason: "policy requires every non-center element to have a stored name"}
		}
		nv.slots = append(nv.slots, s)
	}
	if err := nv.checkUnique(); err != nil {
		return nil, err
	}
	return nv, nil
}

// Len returns the total number of elements (optical + center).
func (nv *NamedVec[U, V]) Len() int { return len(nv.slots) }

// HasName reports whether the element at i carries a stored name, as
// opposed to one EffectiveName would synthesize from the prefix.
func (nv *NamedVec[U, V]) HasName(i int) bool {
	return nv.slots[i].name != nil
}

// EffectiveName returns the stored name at i, or the synthesized
// "{prefix}{1-based index}" when it has none.
func (nv *NamedVec[U, V]) EffectiveName(i int) string {
	s := nv.slots[i]
	if s.name != nil {
		return *s.name
	}
	return fmt.Sprintf("%s%d", nv.prefix, i+1)
}

func (nv *NamedVec[U, V]) checkUnique() error {
	seen := make(map[string]int, len(nv.slots))
	for i := range nv.slots {
		n := nv.EffectiveName(i)
		if j, ok := seen[n]; ok {
			return &NewNamedVecError{Reason: fmt.Sprintf("effective name %q used by both index %d and %d", n, j, i)}
		}
		seen[n] = i
	}
	return nil
}

// HasCenter reports whether a center element currently exists.
func (nv *NamedVec[U, V]) HasCenter() bool { return nv.centerIdx != -1 }

// CenterIndex returns the center's index, or -1 if none exists.
func (nv *NamedVec[U, V]) CenterIndex() int { return nv.centerIdx }

// Get returns the optical value at i. ok is false if i is out of range
// or i is the center.
func (nv *NamedVec[U, V]) Get(i int) (v V, ok bool) {
	if i < 0 || i >= len(nv.slots) || nv.slots[i].isCenter {
		return v, false
	}
	return nv.slots[i].optical, true
}

// GetCenter returns the center value, if one exists.
func (nv *NamedVec[U, V]) GetCenter() (v U, ok bool) {
	if nv.centerIdx == -1 {
		return v, false
	}
	return nv.slots[nv.centerIdx].center, true
}

// GetName looks up an index by effective name.
func (nv *NamedVec[U, V]) GetName(name string) (int, bool) {
	for i := range nv.slots {
		if nv.EffectiveName(i) == name {
			return i, true
		}
	}
	return 0, false
}

// SetOptical overwrites the optical value at i in place, leaving its name
// untouched. i must not be the center index.
func (nv *NamedVec[U, V]) SetOptical(i int, v V) error {
	if i < 0 || i >= len(nv.slots) {
		return &NewNamedVecError{Reason: "index out of range"}
	}
	if nv.slots[i].isCenter {
		return &NewNamedVecError{Reason: "index is the center element"}
	}
	nv.slots[i].optical = v
	return nil
}

// Push appends a new optical element.
func (nv *NamedVec[U, V]) Push(key *string, value V) (string, error) {
	return nv.Insert(len(nv.slots), key, value)
}

// Insert inserts a new optical element at position i, shifting the tail
// right.
func (nv *NamedVec[U, V]) Insert(i int, key *string, value V) (string, error) {
	if i < 0 || i > len(nv.slots) {
		return "", &NewNamedVecError{Reason: "index out of range"}
	}
	if nv.policy == Always && key == nil {
		return "", &NewNamedVecError{Reason: "policy requires a stored name"}
	}
	s := &slot[U, V]{name: key, optical: value}
	nv.slots = append(nv.slots, nil)
	copy(nv.slots[i+1:], nv.slots[i:])
	nv.slots[i] = s
	if nv.centerIdx >= i {
		nv.centerIdx++
	}
	if err := nv.checkUnique(); err != nil {
		nv.removeAt(i)
		return "", err
	}
	return nv.EffectiveName(i), nil
}

// PushCenter appends a new center element, failing if one already exists.
func (nv *NamedVec[U, V]) PushCenter(name string, value U) error {
	return nv.InsertCenter(len(nv.slots), name, value)
}

// InsertCenter inserts a new center element at position i.
func (nv *NamedVec[U, V]) InsertCenter(i int, name string, value U) error {
	if nv.centerIdx != -1 {
		return &NewNamedVecError{Reason: "center element already exists"}
	}
	if i < 0 || i > len(nv.slots) {
		return &NewNamedVecError{Reason: "index out of range"}
	}
	n := name
	s := &slot[U, V]{name: &n, isCenter: true, center: value}
	nv.slots = append(nv.slots, nil)
	copy(nv.slots[i+1:], nv.slots[i:])
	nv.slots[i] = s
	nv.centerIdx = i
	if err := nv.checkUnique(); err != nil {
		nv.removeAt(i)
		nv.centerIdx = -1
		return err
	}
	return nil
}

func (nv *NamedVec[U, V]) removeAt(i int) {
	nv.slots = append(nv.slots[:i], nv.slots[i+1:]...)
}

// RemoveIndex removes the element at i, returning its slot contents. If
// the center is removed, the vector collapses to the all-optical form.
func (nv *NamedVec[U, V]) RemoveIndex(i int) (isCenter bool, optical V, center U, err error) {
	if i < 0 || i >= len(nv.slots) {
		return false, optical, center, &NewNamedVecError{Reason: "index out of range"}
	}
	removed := nv.slots[i]
	nv.removeAt(i)
	if removed.isCenter {
		nv.centerIdx = -1
	} else if nv.centerIdx > i {
		nv.centerIdx--
	}
	return removed.isCenter, removed.optical, removed.center, nil
}

// RemoveName removes the element with the given effective name.
func (nv *NamedVec[U, V]) RemoveName(name string) (isCenter bool, optical V, center U, err error) {
	i, ok := nv.GetName(name)
	if !ok {
		return false, optical, center, &NewNamedVecError{Reason: fmt.Sprintf("no element named %q", name)}
	}
	return nv.RemoveIndex(i)
}

// Rename sets the stored name at i, enforcing uniqueness. If i is the
// center and key is nil, the center is assigned "{prefix}{i+1}" since a
// center must always have a stored name.
func (nv *NamedVec[U, V]) Rename(i int, key *string) error {
	if i < 0 || i >= len(nv.slots) {
		return &NewNamedVecError{Reason: "index out of range"}
	}
	s := nv.slots[i]
	old := s.name
	if s.isCenter && key == nil {
		synthesized := fmt.Sprintf("%s%d", nv.prefix, i+1)
		key = &synthesized
	}
	if nv.policy == Always && !s.isCenter && key == nil {
		return &NewNamedVecError{Reason: "policy requires a stored name"}
	}
	s.name = key
	if err := nv.checkUnique(); err != nil {
		s.name = old
		return err
	}
	return nil
}

// SetCenterByIndex moves the center role to index i. If no center currently exists, the optical
// element at i is converted via toCenter. If a center exists elsewhere,
// the two elements swap roles: the old center becomes optical via
// toOptical, and the element at i becomes the center via toCenter. i
// must already carry a stored name.
func (nv *NamedVec[U, V]) SetCenterByIndex(i int, toCenter func(V) U, toOptical func(U) V) error {
	if i < 0 || i >= len(nv.slots) {
		return &NewNamedVecError{Reason: "index out of range"}
	}
	target := nv.slots[i]
	if target.isCenter {
		return nil
	}
	if target.name == nil {
		return &NewNamedVecError{Reason: "target element has no stored name"}
	}

	if nv.centerIdx == -1 {
		target.isCenter = true
		target.center = toCenter(target.optical)
		var zero V
		target.optical = zero
		nv.centerIdx = i
		return nil
	}

	old := nv.slots[nv.centerIdx]
	old.isCenter = false
	old.optical = toOptical(old.center)
	var zeroU U
	old.center = zeroU

	target.isCenter = true
	target.center = toCenter(target.optical)
	var zeroV V
	target.optical = zeroV

	nv.centerIdx = i
	return nil
}

// UnsetCenter demotes the current center to an ordinary optical element
// via toOptical.
func (nv *NamedVec[U, V]) UnsetCenter(toOptical func(U) V) error {
	if nv.centerIdx == -1 {
		return nil
	}
	s := nv.slots[nv.centerIdx]
	s.isCenter = false
	s.optical = toOptical(s.center)
	var zero U
	s.center = zero
	nv.centerIdx = -1
	return nil
}

// SetNamesResult maps every old effective name to its new effective name,
// letting the caller fix up cross-references (trigger, spillover,
// unstained-center names).
type SetNamesResult map[string]string

// SetNonCenterKeys bulk-renames every non-center element's stored name,
// validating full uniqueness before committing any change.
func (nv *NamedVec[U, V]) SetNonCenterKeys(keys []*string) (SetNamesResult, error) {
	nonCenterIdx := make([]int, 0, len(nv.slots))
	for i, s := range nv.slots {
		if !s.isCenter {
			nonCenterIdx = append(nonCenterIdx, i)
		}
	}
	if len(keys) != len(nonCenterIdx) {
		return nil, &NewNamedVecError{Reason: fmt.Sprintf("expected %d keys, got %d", len(nonCenterIdx), len(keys))}
	}

	oldNames := make([]string, len(nv.slots))
	for i := range nv.slots {
		oldNames[i] = nv.EffectiveName(i)
	}

	backup := make([]*string, len(nonCenterIdx))
	for j, i := range nonCenterIdx {
		backup[j] = nv.slots[i].name
		nv.slots[i].name = keys[j]
	}
	if err := nv.checkUnique(); err != nil {
		for j, i := range nonCenterIdx {
			nv.slots[i].name = backup[j]
		}
		return nil, err
	}

	result := make(SetNamesResult, len(nv.slots))
	for i := range nv.slots {
		result[oldNames[i]] = nv.EffectiveName(i)
	}
	return result, nil
}

// SetNames is the Always-policy convenience over SetNonCenterKeys: every
// element gets a non-nil stored name.
func (nv *NamedVec[U, V]) SetNames(names []string) (SetNamesResult, error) {
	keys := make([]*string, len(names))
	for i := range names {
		n := names[i]
		keys[i] = &n
	}
	return nv.SetNonCenterKeys(keys)
}

// All iterates every element in positional order.
func (nv *NamedVec[U, V]) All() []Element[U, V] {
	out := make([]Element[U, V], len(nv.slots))
	for i, s := range nv.slots {
		out[i] = Element[U, V]{
			Index:     i,
			IsCenter:  s.isCenter,
			Center:    s.center,
			NonCenter: s.optical,
			Name:      nv.EffectiveName(i),
		}
	}
	return out
}
