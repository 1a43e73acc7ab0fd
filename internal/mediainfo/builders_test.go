package mediainfo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsMatroskaExt(t *testing.T) {
	cases := map[string]bool{
		"video.mkv":  true,
		"Video.MKV":  true,
		"audio.mka":  true,
		"subs.mks":   true,
		"clip.webm":  true,
		"movie.mp4":  false,
		"readme.txt": false,
	}
	for path, want := range cases {
		if got := isMatroskaExt(path); got != want {
			t.Errorf("isMatroskaExt(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestIsMP4Ext(t *testing.T) {
	cases := map[string]bool{
		"movie.mp4": true,
		"clip.M4V":  true,
		"video.mkv": false,
	}
	for path, want := range cases {
		if got := isMP4Ext(path); got != want {
			t.Errorf("isMP4Ext(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestParseMkvmergeKind(t *testing.T) {
	cases := map[string]TrackType{
		"video":     TrackVideo,
		"Audio":     TrackAudio,
		"subtitles": TrackSub,
		"buttons":   TrackButton,
		"unknown":   TrackAudio,
	}
	for in, want := range cases {
		if got := parseMkvmergeKind(in); got != want {
			t.Errorf("parseMkvmergeKind(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOsStrTail(t *testing.T) {
	if got := osStrTail("Show.S01E01", "Show.S01E01.ja.ass"); got != ".ja.ass" {
		t.Errorf("osStrTail = %q, want %q", got, ".ja.ass")
	}
	if got := osStrTail("Show.S01E02", "Show.S01E01.ja.ass"); got != "Show.S01E01.ja.ass" {
		t.Errorf("osStrTail with non-matching prefix should return full unchanged, got %q", got)
	}
}

func TestWordsOf(t *testing.T) {
	got := wordsOf("Show.S01E01_Signs&Songs!")
	want := []string{"Show", "S01E01", "Signs", "Songs"}
	if len(got) != len(want) {
		t.Fatalf("wordsOf(...) = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("wordsOf(...)[%d] = %q, want %q", i, got[i], w)
		}
	}
}

func TestIsFontMime(t *testing.T) {
	if !isFontMime("application/x-truetype-font", "") {
		t.Error("a truetype mime type should be classified as a font")
	}
	if !isFontMime("", "NotoSans.ttf") {
		t.Error("a .ttf filename should be classified as a font even with an empty mime type")
	}
	if isFontMime("image/png", "cover.png") {
		t.Error("a PNG should not be classified as a font")
	}
}

func TestHasSuffixFold(t *testing.T) {
	if !hasSuffixFold("NotoSans.TTF", ".ttf") {
		t.Error("hasSuffixFold should be case-insensitive")
	}
	if hasSuffixFold("short", ".ttf") {
		t.Error("hasSuffixFold should reject a string shorter than the suffix")
	}
	if hasSuffixFold("cover.png", ".ttf") {
		t.Error("hasSuffixFold(.png, .ttf) should be false")
	}
}

func TestSniffEncoding(t *testing.T) {
	dir := t.TempDir()

	utf8BOM := filepath.Join(dir, "bom.srt")
	if err := os.WriteFile(utf8BOM, []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := sniffEncoding(utf8BOM); got != "utf-8" {
		t.Errorf("sniffEncoding(utf8 BOM) = %q, want utf-8", got)
	}

	utf16le := filepath.Join(dir, "utf16le.srt")
	if err := os.WriteFile(utf16le, []byte{0xFF, 0xFE, 'h', 0}, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := sniffEncoding(utf16le); got != "utf-16le" {
		t.Errorf("sniffEncoding(utf-16le) = %q, want utf-16le", got)
	}

	plainASCII := filepath.Join(dir, "plain.srt")
	if err := os.WriteFile(plainASCII, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := sniffEncoding(plainASCII); got != "utf-8" {
		t.Errorf("sniffEncoding(plain ascii) = %q, want utf-8", got)
	}

	highBytes := filepath.Join(dir, "cyrillic.srt")
	if err := os.WriteFile(highBytes, []byte{0xC0, 0xE0, 0xE1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := sniffEncoding(highBytes); got != "windows-1251" {
		t.Errorf("sniffEncoding(high bytes) = %q, want windows-1251", got)
	}
}
