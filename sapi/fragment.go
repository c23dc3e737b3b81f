package sapi

import "unicode/utf16"

// Fragment is one node of the externally owned, read-only, singly linked
// sequence of annotated text handed to a synthesis call. The core never
// mutates fragments and never retains them beyond that call.
type Fragment struct {
	// Text is the fragment's UTF-16 encoded text.
	Text []uint16
	// SourceOffset is the code-unit offset of Text within the original
	// string the host was asked to speak.
	SourceOffset int

	next *Fragment
}

// Next returns the following fragment, or nil at the end of the list.
func (f *Fragment) Next() *Fragment {
	if f == nil {
		return nil
	}
	return f.next
}

// Chain links the given fragments into a list and returns its head, or nil
// when no fragments are given. Intended for hosts and tests that build
// fragment lists.
func Chain(frags ...*Fragment) *Fragment {
	for i := 0; i+1 < len(frags); i++ {
		frags[i].next = frags[i+1]
	}
	if len(frags) == 0 {
		return nil
	}
	return frags[0]
}

// FragmentFromString builds a fragment over the UTF-16 encoding of s.
func FragmentFromString(s string, sourceOffset int) *Fragment {
	return &Fragment{Text: utf16.Encode([]rune(s)), SourceOffset: sourceOffset}
}

// FragmentCursor walks a fragment list without taking ownership.
type FragmentCursor struct {
	cur *Fragment
}

// NewFragmentCursor returns a cursor positioned before head.
func NewFragmentCursor(head *Fragment) FragmentCursor {
	return FragmentCursor{cur: head}
}

// Next returns the next fragment and advances, or false when exhausted.
func (c *FragmentCursor) Next() (*Fragment, bool) {
	if c.cur == nil {
		return nil, false
	}
	f := c.cur
	c.cur = f.next
	return f, true
}

// JoinFragmentText concatenates the text of every fragment in the list,
// separated by single spaces, and returns the UTF-16 code units.
func JoinFragmentText(head *Fragment) []uint16 {
	var out []uint16
	cursor := NewFragmentCursor(head)
	for frag, ok := cursor.Next(); ok; frag, ok = cursor.Next() {
		out = append(out, frag.Text...)
		out = append(out, uint16(' '))
	}
	return out
}
