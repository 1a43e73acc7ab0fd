// Package selector implements the per-kind Tracks/Attachs membership
// selector (§3 "Tracks / Attachs selector"): one instance per track kind
// (audio/sub/video/button/font/other), deciding whether a given id is kept.
package selector

// IDSet is the minimal interface a selector needs from a concrete ID type
// (rangeid.TrackID or rangeid.AttachID): containment and hashability.
// Hashed ids (Num, Lang) are comparable and live in a set; unhashed ids
// (Range) are checked in order.
type IDSet[ID comparable] interface {
	Contains(other ID) bool
}

// Selector holds the membership rule for one track/attachment kind.
type Selector[ID comparable] struct {
	NoFlag      bool
	Inverse     bool
	IDsHashed   map[ID]bool
	IDsUnhashed []ID
}

// ContainsFunc abstracts the Contains call since Go generics can't express
// "ID has a Contains(ID) bool method" without an extra type parameter for
// the concrete implementation; callers pass it explicitly.
type ContainsFunc[ID comparable] func(have, want ID) bool

// Save implements the membership rule from spec.md §3:
// if NoFlag -> false; else matched = any hashed-or-unhashed id contains id;
// if Inverse, negate. A selector with no ids at all (see [All]) keeps
// every id.
func Save[ID comparable](sel Selector[ID], id ID, contains ContainsFunc[ID]) bool {
	if sel.NoFlag {
		return false
	}
	if len(sel.IDsHashed) == 0 && len(sel.IDsUnhashed) == 0 {
		return true
	}

	matched := false
	for have := range sel.IDsHashed {
		if contains(have, id) {
			matched = true
			break
		}
	}
	if !matched {
		for _, have := range sel.IDsUnhashed {
			if contains(have, id) {
				matched = true
				break
			}
		}
	}

	if sel.Inverse {
		return !matched
	}
	return matched
}

// New builds a Selector from explicit hashed/unhashed id slices (hashed ids
// are those cheap to put in a map: Num and Lang variants; unhashed are
// Range variants, kept in an ordered slice and checked via Contains).
func New[ID comparable](noFlag, inverse bool, hashed []ID, unhashed []ID) Selector[ID] {
	s := Selector[ID]{NoFlag: noFlag, Inverse: inverse}
	if len(hashed) > 0 {
		s.IDsHashed = make(map[ID]bool, len(hashed))
		for _, id := range hashed {
			s.IDsHashed[id] = true
		}
	}
	s.IDsUnhashed = unhashed
	return s
}

// All returns the selector that keeps every id (no restriction, not
// inverted, empty sets): used as the default for a kind with no CLI
// override.
func All[ID comparable]() Selector[ID] { return Selector[ID]{} }

// None returns the selector that drops every id.
func None[ID comparable]() Selector[ID] { return Selector[ID]{NoFlag: true} }
