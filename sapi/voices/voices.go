// Package voices defines the voice-provider collaborator interface and the
// language-aware voice selection algorithm.
package voices

import (
	"errors"
	"io"
)

// Common errors for voice providers.
var (
	ErrNoVoices      = errors.New("provider has no voices")
	ErrVoiceNotFound = errors.New("requested voice not found")
)

// Voice describes one synthesis voice offered by a provider. The core only
// reads Language; everything else is pass-through metadata.
type Voice struct {
	ID       string // provider-scoped identifier
	Name     string // human-readable name
	Language string // language code, e.g. "en-US"
	Gender   string
}

// Session is one running synthesis producing an audio byte stream. The
// initial rate and volume are fixed at Synthesize time; changes arriving
// mid-stream are forwarded here and affect only audio not yet produced.
// Implementations whose audio is fully rendered up front must still
// acknowledge the call (and may log it) rather than fail.
type Session interface {
	io.Reader
	io.Closer

	// SetRate applies a normalized speaking rate (1.0 = unity).
	SetRate(scale float64) error
	// SetVolume applies a normalized volume (0.0..1.0).
	SetVolume(level float64) error
}

// Provider exposes the available voices and starts synthesis sessions. The
// core treats provider failures as fatal to the current range.
type Provider interface {
	Voices() ([]Voice, error)
	DefaultVoice() (Voice, error)

	// Synthesize starts a session rendering text with voice v at the
	// given normalized rate (1.0 = unity) and volume (0.0..1.0).
	Synthesize(text string, v Voice, rate, volume float64) (Session, error)
}
