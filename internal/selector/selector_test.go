package selector

import "testing"

func intContains(have, want int) bool { return have == want }

func TestSaveNoFlag(t *testing.T) {
	s := None[int]()
	if Save(s, 5, intContains) {
		t.Error("None() selector should never match")
	}
}

func TestSaveAll(t *testing.T) {
	s := All[int]()
	if !Save(s, 5, intContains) {
		t.Error("All() selector should keep every id")
	}
}

func TestSaveHashedMatch(t *testing.T) {
	s := New[int](false, false, []int{3, 5}, nil)
	if !Save(s, 5, intContains) {
		t.Error("expected 5 to match hashed set {3,5}")
	}
	if Save(s, 7, intContains) {
		t.Error("expected 7 to not match hashed set {3,5}")
	}
}

func TestSaveUnhashedMatch(t *testing.T) {
	rangeContains := func(have, want int) bool { return want >= have && want <= have+10 }
	s := New[int](false, false, nil, []int{2})
	if !Save(s, 5, rangeContains) {
		t.Error("expected 5 to be contained by unhashed range starting at 2")
	}
}

func TestSaveInverse(t *testing.T) {
	s := New[int](false, true, []int{3, 5}, nil)
	if Save(s, 5, intContains) {
		t.Error("inverse selector should reject a matched id")
	}
	if !Save(s, 9, intContains) {
		t.Error("inverse selector should accept an unmatched id")
	}
}
