// Package mock is a deterministic voice provider for tests and for running
// the host pipeline without any real synthesis backend.
package mock

import (
	"bytes"
	"sync"

	"github.com/polyvox/polyvox/sapi/voices"
)

// Provider is a configurable in-memory voice provider. The zero value is
// not usable; use New.
type Provider struct {
	VoiceList []voices.Voice
	Default   voices.Voice

	// SynthFunc overrides audio generation. When nil, a deterministic
	// pattern derived from the text is produced.
	SynthFunc func(text string, v voices.Voice) ([]byte, error)

	mu       sync.Mutex
	sessions []*Session
}

// New returns a provider with a single English default voice.
func New() *Provider {
	def := voices.Voice{ID: "mock-en", Name: "Mock English", Language: "en-US", Gender: "Female"}
	return &Provider{
		VoiceList: []voices.Voice{def},
		Default:   def,
	}
}

// Voices implements voices.Provider.
func (p *Provider) Voices() ([]voices.Voice, error) {
	if len(p.VoiceList) == 0 {
		return nil, voices.ErrNoVoices
	}
	return p.VoiceList, nil
}

// DefaultVoice implements voices.Provider.
func (p *Provider) DefaultVoice() (voices.Voice, error) {
	if p.Default == (voices.Voice{}) {
		return voices.Voice{}, voices.ErrNoVoices
	}
	return p.Default, nil
}

// Synthesize implements voices.Provider. Generated sessions are retained so
// tests can inspect applied rate and volume values.
func (p *Provider) Synthesize(text string, v voices.Voice, rate, volume float64) (voices.Session, error) {
	data, err := p.audio(text, v)
	if err != nil {
		return nil, err
	}
	s := &Session{r: bytes.NewReader(data), rate: rate, volume: volume}
	p.mu.Lock()
	p.sessions = append(p.sessions, s)
	p.mu.Unlock()
	return s, nil
}

// Sessions returns every session handed out so far.
func (p *Provider) Sessions() []*Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Session(nil), p.sessions...)
}

func (p *Provider) audio(text string, v voices.Voice) ([]byte, error) {
	if p.SynthFunc != nil {
		return p.SynthFunc(text, v)
	}
	// Two bytes of deterministic pattern per input byte.
	data := make([]byte, 0, len(text)*2)
	for i := range text {
		data = append(data, text[i], byte(i))
	}
	return data, nil
}

// Session replays pre-generated audio and records control changes.
type Session struct {
	r      *bytes.Reader
	rate   float64
	volume float64

	mu      sync.Mutex
	rates   []float64
	volumes []float64
	closed  bool
}

// Rate returns the rate the session was synthesized with.
func (s *Session) Rate() float64 { return s.rate }

// Volume returns the volume the session was synthesized with.
func (s *Session) Volume() float64 { return s.volume }

// Read implements voices.Session.
func (s *Session) Read(p []byte) (int, error) { return s.r.Read(p) }

// SetRate records the applied rate.
func (s *Session) SetRate(scale float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = append(s.rates, scale)
	return nil
}

// SetVolume records the applied volume.
func (s *Session) SetVolume(level float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes = append(s.volumes, level)
	return nil
}

// Close implements voices.Session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Rates returns every rate applied to the session, in order.
func (s *Session) Rates() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.rates...)
}

// Volumes returns every volume applied to the session, in order.
func (s *Session) Volumes() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.volumes...)
}

// Closed reports whether the session was closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
