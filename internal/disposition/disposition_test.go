package disposition

import "testing"

func TestDefaultMaxInAuto(t *testing.T) {
	cases := []struct {
		flag Flag
		want uint64
	}{
		{Default, 1},
		{Forced, 0},
		{Enabled, ^uint64(0)},
	}
	for _, c := range cases {
		if got := DefaultMaxInAuto(c.flag); got != c.want {
			t.Errorf("DefaultMaxInAuto(%v) = %d, want %d", c.flag, got, c.want)
		}
	}
}

func strContains(have, want string) bool { return have == want }

func TestGetUnmappedWins(t *testing.T) {
	v := "unmapped"
	m := Map[string, string]{
		Unmapped:  &v,
		MapHashed: map[string]string{"a": "hashed"},
	}
	got, ok := Get(m, "a", strContains)
	if !ok || got != "unmapped" {
		t.Errorf("Get() = (%q, %v), want (\"unmapped\", true)", got, ok)
	}
}

func TestGetHashedThenUnhashed(t *testing.T) {
	m := Map[string, string]{
		MapHashed:   map[string]string{"a": "hashed-a"},
		MapUnhashed: []Pair[string, string]{{ID: "a", Value: "unhashed-a"}},
	}
	got, ok := Get(m, "a", strContains)
	if !ok || got != "hashed-a" {
		t.Errorf("Get() = (%q, %v), want (\"hashed-a\", true) — hashed should win over unhashed", got, ok)
	}
}

func TestGetUnhashedFallback(t *testing.T) {
	m := Map[string, string]{
		MapUnhashed: []Pair[string, string]{{ID: "b", Value: "unhashed-b"}},
	}
	got, ok := Get(m, "b", strContains)
	if !ok || got != "unhashed-b" {
		t.Errorf("Get() = (%q, %v), want (\"unhashed-b\", true)", got, ok)
	}
}

func TestGetNoMatch(t *testing.T) {
	m := Map[string, string]{}
	_, ok := Get(m, "z", strContains)
	if ok {
		t.Error("Get() on empty Map should report no match")
	}
}

func TestMergeMaxInAuto(t *testing.T) {
	m := Map[string, string]{}
	merged := MergeMaxInAuto(m, 3)
	if merged.MaxInAuto == nil || *merged.MaxInAuto != 3 {
		t.Errorf("MergeMaxInAuto should set MaxInAuto=3, got %+v", merged.MaxInAuto)
	}
}
