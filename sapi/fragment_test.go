package sapi

import (
	"testing"
	"unicode/utf16"
)

// TestChainAndCursor tests fragment list construction and traversal.
func TestChainAndCursor(t *testing.T) {
	a := FragmentFromString("one", 0)
	b := FragmentFromString("two", 4)
	c := FragmentFromString("three", 8)

	head := Chain(a, b, c)
	if head != a {
		t.Fatal("Chain() did not return the first fragment")
	}

	var seen []*Fragment
	cursor := NewFragmentCursor(head)
	for frag, ok := cursor.Next(); ok; frag, ok = cursor.Next() {
		seen = append(seen, frag)
	}
	if len(seen) != 3 || seen[0] != a || seen[1] != b || seen[2] != c {
		t.Errorf("cursor visited %d fragments in wrong order", len(seen))
	}

	if Chain() != nil {
		t.Error("Chain() with no fragments should return nil")
	}
	if a.Next() != b || c.Next() != nil {
		t.Error("Next() links are wrong")
	}
	var nilFrag *Fragment
	if nilFrag.Next() != nil {
		t.Error("Next() on nil fragment should return nil")
	}
}

// TestJoinFragmentText tests that fragment texts are concatenated with a
// space after every fragment, including the last.
func TestJoinFragmentText(t *testing.T) {
	tests := []struct {
		name  string
		frags []*Fragment
		want  string
	}{
		{name: "empty list", frags: nil, want: ""},
		{
			name:  "single fragment",
			frags: []*Fragment{FragmentFromString("Hello", 0)},
			want:  "Hello ",
		},
		{
			name: "two fragments",
			frags: []*Fragment{
				FragmentFromString("Hello", 0),
				FragmentFromString("world", 6),
			},
			want: "Hello world ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(utf16.Decode(JoinFragmentText(Chain(tt.frags...))))
			if got != tt.want {
				t.Errorf("JoinFragmentText() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFragmentFromString tests UTF-16 encoding, including surrogate pairs.
func TestFragmentFromString(t *testing.T) {
	frag := FragmentFromString("a\U0001F3B5", 3)
	// One unit for "a", two for the musical note outside the BMP.
	if len(frag.Text) != 3 {
		t.Errorf("len(Text) = %d, want 3", len(frag.Text))
	}
	if frag.SourceOffset != 3 {
		t.Errorf("SourceOffset = %d, want 3", frag.SourceOffset)
	}
}
