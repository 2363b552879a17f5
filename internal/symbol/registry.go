package symbol

import (
	"sort"

	"github.com/pkg/errors"
)

var _ Resolver = (*Registry)(nil)

// ErrNotFound is returned when a name has no recorded definition.
var ErrNotFound = errors.New("no definition found")

// Registry maps identifier names to their known occurrences. Entries are
// kept in insertion order and are unique by location.
//
// A Registry is not safe for concurrent use; library.Library serialises
// access to it.
type Registry struct {
	defs map[string][]Occurrence
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string][]Occurrence)}
}

// Record adds occ under name unless an occurrence at the same location is
// already known, whatever its kind. It returns true if occ was added.
// Occurrences with an invalid range are ignored.
func (r *Registry) Record(name string, occ Occurrence) bool {
	if name == "" || !occ.Location.Range.Valid() {
		return false
	}

	list := r.defs[name]
	for _, existing := range list {
		if existing.Location == occ.Location {
			return false
		}
	}
	r.defs[name] = append(list, occ)
	return true
}

// LookupAll returns a copy of every occurrence recorded under name.
func (r *Registry) LookupAll(name string) ([]Occurrence, bool) {
	list, ok := r.defs[name]
	if !ok {
		return nil, false
	}
	return append([]Occurrence(nil), list...), true
}

// ResolveDefinition picks the definition of name that best serves a
// reference at ref. Same-file definitions win; among them the closest one
// at or before the reference is preferred, then the closest one after it.
// Without a same-file definition the first recorded one is returned.
// Reference-kind occurrences are never returned.
func (r *Registry) ResolveDefinition(name string, ref Location) (Occurrence, error) {
	var (
		before, after, other *Occurrence
	)

	for i := range r.defs[name] {
		occ := &r.defs[name][i]
		if !occ.Kind.IsDefinition() {
			continue
		}

		if occ.Location.URI != ref.URI {
			if other == nil {
				other = occ
			}
			continue
		}

		start := occ.Location.Range.Start
		if !ref.Range.Start.Before(start) {
			if before == nil || before.Location.Range.Start.Before(start) {
				before = occ
			}
			continue
		}
		if after == nil || start.Before(after.Location.Range.Start) {
			after = occ
		}
	}

	switch {
	case before != nil:
		return *before, nil
	case after != nil:
		return *after, nil
	case other != nil:
		return *other, nil
	}
	return Occurrence{}, errors.Wrapf(ErrNotFound, "identifier %q", name)
}

// Forget drops every occurrence located in uri and returns how many were
// removed. Names left without occurrences are deleted.
func (r *Registry) Forget(uri string) int {
	removed := 0
	for name, list := range r.defs {
		kept := list[:0]
		for _, occ := range list {
			if occ.Location.URI == uri {
				removed++
				continue
			}
			kept = append(kept, occ)
		}
		if len(kept) == 0 {
			delete(r.defs, name)
			continue
		}
		r.defs[name] = kept
	}
	return removed
}

// Names returns every known name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of recorded occurrences.
func (r *Registry) Len() int {
	n := 0
	for _, list := range r.defs {
		n += len(list)
	}
	return n
}
