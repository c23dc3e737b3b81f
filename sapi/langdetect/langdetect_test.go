package langdetect

import "testing"

// TestEqualLanguageCodes tests the approximate matching rule: prefixes
// match unless both codes carry a locale, in which case equality is exact.
func TestEqualLanguageCodes(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
		want   bool
	}{
		{name: "bare vs locale", first: "en", second: "en-US", want: true},
		{name: "locale vs bare", first: "en-US", second: "en", want: true},
		{name: "two locales differ", first: "en-US", second: "en-GB", want: false},
		{name: "two locales equal", first: "en-US", second: "en-US", want: true},
		{name: "both bare equal", first: "en", second: "en", want: true},
		{name: "both bare differ", first: "en", second: "de", want: false},
		{name: "underscore separator", first: "en_US", second: "en", want: true},
		{name: "mixed separators", first: "en_US", second: "en-GB", want: false},
		{name: "empty codes", first: "", second: "", want: true},
		{name: "empty vs code", first: "", second: "en", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqualLanguageCodes(tt.first, tt.second); got != tt.want {
				t.Errorf("EqualLanguageCodes(%q, %q) = %v, want %v", tt.first, tt.second, got, tt.want)
			}
		})
	}
}

// TestRangePriority tests candidate ranking within a detected range.
func TestRangePriority(t *testing.T) {
	r := Range{Start: 0, End: 9, Languages: []string{"de", "en-US", "fr"}}

	tests := []struct {
		name     string
		code     string
		wantRank int
		wantOK   bool
	}{
		{name: "first candidate", code: "de", wantRank: 0, wantOK: true},
		{name: "approximate match", code: "en", wantRank: 1, wantOK: true},
		{name: "third candidate", code: "fr-FR", wantRank: 2, wantOK: true},
		{name: "no match", code: "ja", wantRank: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, ok := r.Priority(tt.code)
			if rank != tt.wantRank || ok != tt.wantOK {
				t.Errorf("Priority(%q) = (%d, %v), want (%d, %v)", tt.code, rank, ok, tt.wantRank, tt.wantOK)
			}
		})
	}
}

// TestHasMultipleLanguages tests the multi-language check used to decide
// whether detection is worth running at all.
func TestHasMultipleLanguages(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
		want  bool
	}{
		{name: "empty", codes: nil, want: false},
		{name: "single", codes: []string{"en"}, want: false},
		{name: "same language locales", codes: []string{"en", "en-US"}, want: false},
		{name: "distinct languages", codes: []string{"en", "ru"}, want: true},
		{name: "distinct locales", codes: []string{"en-US", "en-GB"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasMultipleLanguages(tt.codes); got != tt.want {
				t.Errorf("HasMultipleLanguages(%v) = %v, want %v", tt.codes, got, tt.want)
			}
		})
	}
}

// TestStripTerminator tests that exactly one trailing NUL is removed.
func TestStripTerminator(t *testing.T) {
	tests := []struct {
		name string
		in   []uint16
		want int
	}{
		{name: "no terminator", in: []uint16{'h', 'i'}, want: 2},
		{name: "one terminator", in: []uint16{'h', 'i', 0}, want: 2},
		{name: "double terminator strips one", in: []uint16{'h', 'i', 0, 0}, want: 3},
		{name: "empty", in: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripTerminator(tt.in); len(got) != tt.want {
				t.Errorf("len(stripTerminator()) = %d, want %d", len(got), tt.want)
			}
		})
	}
}
