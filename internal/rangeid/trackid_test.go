package rangeid

import (
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/langcode"
)

func TestParseTrackID(t *testing.T) {
	id, err := ParseTrackID("3")
	if err != nil {
		t.Fatalf("ParseTrackID(3): %v", err)
	}
	if !id.Contains(NumTrackID(3)) {
		t.Error("expected Num(3) to contain itself")
	}

	id, err = ParseTrackID("2-5")
	if err != nil {
		t.Fatalf("ParseTrackID(2-5): %v", err)
	}
	if !id.Contains(NumTrackID(4)) {
		t.Error("expected Range(2-5) to contain Num(4)")
	}
	if id.Contains(NumTrackID(9)) {
		t.Error("expected Range(2-5) to not contain Num(9)")
	}

	id, err = ParseTrackID("eng")
	if err != nil {
		t.Fatalf("ParseTrackID(eng): %v", err)
	}
	if !id.Contains(LangTrackID(langcode.Code("eng"))) {
		t.Error("expected Lang(eng) to contain Lang(eng)")
	}
	if id.Contains(LangTrackID(langcode.Code("fre"))) {
		t.Error("expected Lang(eng) to not contain Lang(fre)")
	}

	if _, err := ParseTrackID("%%%"); err == nil {
		t.Error("expected error for unparseable token")
	}
}

func TestParseAttachID(t *testing.T) {
	id, err := ParseAttachID("7")
	if err != nil {
		t.Fatalf("ParseAttachID(7): %v", err)
	}
	if id.Num() != 7 {
		t.Errorf("Num() = %d, want 7", id.Num())
	}

	id, err = ParseAttachID("2-9")
	if err != nil {
		t.Fatalf("ParseAttachID(2-9): %v", err)
	}
	if id.Num() != 2 {
		t.Errorf("Num() on range should return Start, got %d", id.Num())
	}
	if !id.Contains(NumAttachID(5)) {
		t.Error("expected Range(2-9) to contain Num(5)")
	}

	if _, err := ParseAttachID("abc"); err == nil {
		t.Error("expected error for unparseable attach token")
	}
}

func TestTrackIDParseErrorMessage(t *testing.T) {
	_, err := ParseTrackID("!!!")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() == "" {
		t.Error("expected non-empty error message")
	}
}
