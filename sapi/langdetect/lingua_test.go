package langdetect

import (
	"errors"
	"testing"
	"unicode/utf16"
)

// TestNewLinguaDetectorNoUsableLanguages tests that unknown codes alone
// cannot configure a detector.
func TestNewLinguaDetectorNoUsableLanguages(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
	}{
		{name: "empty list", codes: nil},
		{name: "unknown codes", codes: []string{"zz", "qq-QQ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLinguaDetector(tt.codes); !errors.Is(err, ErrNoLanguages) {
				t.Errorf("NewLinguaDetector(%v) = %v, want ErrNoLanguages", tt.codes, err)
			}
		})
	}
}

// TestLinguaDetectorSingleLanguage tests that one configured language maps
// the whole input to that language without statistical detection.
func TestLinguaDetectorSingleLanguage(t *testing.T) {
	d, err := NewLinguaDetector([]string{"en-US", "zz"})
	if err != nil {
		t.Fatalf("NewLinguaDetector() = %v", err)
	}

	text := utf16.Encode([]rune("Hello there."))
	ranges, err := d.Recognize(text)
	if err != nil {
		t.Fatalf("Recognize() = %v", err)
	}
	if len(ranges) != 1 {
		t.Fatalf("len(ranges) = %d, want 1", len(ranges))
	}
	r := ranges[0]
	if r.Start != 0 || r.End != len(text)-1 {
		t.Errorf("range = [%d,%d], want [0,%d]", r.Start, r.End, len(text)-1)
	}
	if len(r.Languages) != 1 || r.Languages[0] != "en" {
		t.Errorf("Languages = %v, want [en]", r.Languages)
	}
}

// TestLinguaDetectorSingleLanguageEmptyText tests the empty-input case.
func TestLinguaDetectorSingleLanguageEmptyText(t *testing.T) {
	d, err := NewLinguaDetector([]string{"en"})
	if err != nil {
		t.Fatalf("NewLinguaDetector() = %v", err)
	}
	ranges, err := d.Recognize(nil)
	if err != nil {
		t.Fatalf("Recognize() = %v", err)
	}
	if len(ranges) != 0 {
		t.Errorf("len(ranges) = %d, want 0", len(ranges))
	}
}

// TestLinguaDetectorRecognize tests statistical detection over two very
// distinct languages.
func TestLinguaDetectorRecognize(t *testing.T) {
	d, err := NewLinguaDetector([]string{"en", "ru"})
	if err != nil {
		t.Fatalf("NewLinguaDetector() = %v", err)
	}

	input := "How are you doing today my good friend?"
	text := utf16.Encode([]rune(input))
	ranges, err := d.Recognize(text)
	if err != nil {
		t.Fatalf("Recognize() = %v", err)
	}
	if len(ranges) == 0 {
		t.Fatal("Recognize() returned no ranges")
	}
	for _, r := range ranges {
		if r.Start < 0 || r.End >= len(text) || r.Start > r.End {
			t.Errorf("range [%d,%d] out of bounds for %d code units", r.Start, r.End, len(text))
		}
		if len(r.Languages) != 1 {
			t.Errorf("Languages = %v, want exactly one candidate", r.Languages)
		}
	}
	if got := ranges[0].Languages[0]; got != "en" {
		t.Errorf("detected language = %q, want %q", got, "en")
	}
}

// TestLanguageForCode tests ISO code resolution, including 639-3 codes.
func TestLanguageForCode(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		wantOK bool
	}{
		{name: "iso 639-1", prefix: "en", wantOK: true},
		{name: "iso 639-3", prefix: "eng", wantOK: true},
		{name: "uppercase", prefix: "EN", wantOK: true},
		{name: "unknown", prefix: "zz", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := languageForCode(tt.prefix); ok != tt.wantOK {
				t.Errorf("languageForCode(%q) ok = %v, want %v", tt.prefix, ok, tt.wantOK)
			}
		})
	}
}
