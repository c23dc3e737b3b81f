package sapi

import "sync/atomic"

// tokenCell is a one-shot latch for the bound voice token. The transition
// Unbound -> Bound happens at most once per instance and is visible across
// goroutines; there is no way back.
type tokenCell struct {
	tok atomic.Pointer[ObjectToken]
}

// bind stores tok if the cell is still unbound. It reports false when a
// token was already bound; the stored token is never overwritten.
func (c *tokenCell) bind(tok *ObjectToken) bool {
	return c.tok.CompareAndSwap(nil, tok)
}

// get returns the bound token, or nil when the cell is still unbound.
func (c *tokenCell) get() *ObjectToken {
	return c.tok.Load()
}
