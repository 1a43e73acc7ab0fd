package rangeid

import "testing"

func TestParseRange(t *testing.T) {
	cases := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{"", Full(), false},
		{"5", Range{5, 5}, false},
		{"2-9", Range{2, 9}, false},
		{"2-", Range{2, Max}, false},
		{"-9", Range{0, 9}, false},
		{"9-2", Range{}, true},
		{"abc", Range{}, true},
		{"1-abc", Range{}, true},
	}
	for _, c := range cases {
		got, err := ParseRange(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseRange(%q): expected error, got %+v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRange(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseRange(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: 3, End: 7}
	for _, x := range []uint64{3, 5, 7} {
		if !r.Contains(x) {
			t.Errorf("Contains(%d) = false, want true", x)
		}
	}
	for _, x := range []uint64{0, 2, 8, 100} {
		if r.Contains(x) {
			t.Errorf("Contains(%d) = true, want false", x)
		}
	}
}

func TestRangeContainsRange(t *testing.T) {
	outer := Range{Start: 1, End: 10}
	if !outer.ContainsRange(Range{Start: 2, End: 5}) {
		t.Error("expected [1,10] to contain [2,5]")
	}
	if outer.ContainsRange(Range{Start: 5, End: 11}) {
		t.Error("expected [1,10] to not contain [5,11]")
	}
}

func TestRangeIter(t *testing.T) {
	got := Range{Start: 2, End: 5}.Iter()
	want := []uint64{2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Iter() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Iter() = %v, want %v", got, want)
		}
	}
}
