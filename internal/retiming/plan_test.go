package retiming

import (
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
)

func TestAbs(t *testing.T) {
	if abs(-3.5) != 3.5 {
		t.Errorf("abs(-3.5) = %v, want 3.5", abs(-3.5))
	}
	if abs(3.5) != 3.5 {
		t.Errorf("abs(3.5) = %v, want 3.5", abs(3.5))
	}
	if abs(0) != 0 {
		t.Errorf("abs(0) = %v, want 0", abs(0))
	}
}

func TestBytesEqual(t *testing.T) {
	if !bytesEqual([]byte{1, 2, 3}, []byte{1, 2, 3}) {
		t.Error("identical byte slices should be equal")
	}
	if bytesEqual([]byte{1, 2, 3}, []byte{1, 2}) {
		t.Error("different-length slices should not be equal")
	}
	if bytesEqual([]byte{1, 2, 3}, []byte{1, 2, 4}) {
		t.Error("slices differing in one byte should not be equal")
	}
	if !bytesEqual(nil, nil) {
		t.Error("two nil slices should be equal")
	}
}

func TestNextWithSameUID(t *testing.T) {
	chapters := []mediainfo.MatroskaChapter{
		{UID: []byte("a")},
		{UID: []byte("b")},
		{UID: []byte("a")},
	}
	if got := nextWithSameUID(chapters, 0); got != 2 {
		t.Errorf("nextWithSameUID(0) = %d, want 2", got)
	}
	if got := nextWithSameUID(chapters, 1); got != -1 {
		t.Errorf("nextWithSameUID(1) = %d, want -1", got)
	}
}
