package sapi

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// EngineInstance is one live engine object. It owns the user-supplied
// engine logic, a keep-alive reference to the hosting module, and the
// assign-once voice token. The host drives an instance from at most one
// goroutine at a time.
type EngineInstance struct {
	logic     Synthesizer
	moduleRef *ModuleRef
	token     tokenCell
	closed    atomic.Bool
}

// SetObjectToken binds the voice token. It is legal exactly once; a second
// call is reported as an error and leaves the first token in place. The
// engine logic's own SetObjectToken runs inside the isolation boundary.
func (e *EngineInstance) SetObjectToken(tok *ObjectToken) error {
	if e.closed.Load() {
		return ErrInstanceClosed
	}
	if tok == nil {
		return ErrInvalidArg
	}
	if !e.token.bind(tok) {
		log.Error("SetObjectToken was called twice")
		return ErrTokenBound
	}
	return Isolate(func() error {
		return e.logic.SetObjectToken(tok)
	})
}

// ObjectToken returns the bound token. Calling it before SetObjectToken is
// an error.
func (e *EngineInstance) ObjectToken() (*ObjectToken, error) {
	tok := e.token.get()
	if tok == nil {
		log.Error("ObjectToken called before SetObjectToken")
		return nil, ErrTokenUnbound
	}
	return tok, nil
}

// Speak renders the fragment list to the sink. The token must have been
// bound first. The engine logic runs inside the isolation boundary, so a
// panic surfaces as ErrUnexpected rather than unwinding into the host.
func (e *EngineInstance) Speak(flags SpeakFlags, format SpeechFormat, frags *Fragment, sink Sink) error {
	if e.closed.Load() {
		return ErrInstanceClosed
	}
	if sink == nil {
		return ErrInvalidArg
	}
	tok := e.token.get()
	if tok == nil {
		log.Error("Speak called before SetObjectToken")
		return ErrTokenUnbound
	}
	return Isolate(func() error {
		return e.logic.Speak(tok, flags, format, frags, sink)
	})
}

// OutputFormat asks the engine for the closest supported format. A nil
// target means any supported format is acceptable.
func (e *EngineInstance) OutputFormat(target *SpeechFormat) (SpeechFormat, error) {
	if e.closed.Load() {
		return SpeechFormat{}, ErrInstanceClosed
	}
	tok := e.token.get()
	if tok == nil {
		log.Error("OutputFormat called before SetObjectToken")
		return SpeechFormat{}, ErrTokenUnbound
	}
	var format SpeechFormat
	err := Isolate(func() error {
		var ferr error
		format, ferr = e.logic.OutputFormat(tok, target)
		return ferr
	})
	if err != nil {
		return SpeechFormat{}, err
	}
	return format, nil
}

// Close releases the instance's keep-alive reference and shuts the engine
// logic down. Engine destruction is not allowed to panic across the
// boundary, so the shutdown runs isolated. Closing twice is a no-op.
func (e *EngineInstance) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := Isolate(func() error {
		if s, ok := e.logic.(Shutdowner); ok {
			return s.Shutdown()
		}
		return nil
	})
	e.moduleRef.Release()
	log.Debug("engine instance closed", "moduleRefs", ModuleRefCount())
	return err
}
